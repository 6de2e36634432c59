package character

import (
	"context"
	"sync"

	"github.com/Zevankai/Equipment-Tool/internal/entities"
	"github.com/Zevankai/Equipment-Tool/internal/pkg/clock"
)

// InMemoryRepository implements Repository using in-memory storage
type InMemoryRepository struct {
	mu    sync.RWMutex
	clock clock.Clock
	store map[string]entities.RoomCharacters
}

// NewInMemory creates a new in-memory repository. A nil clock uses real time.
func NewInMemory(c clock.Clock) *InMemoryRepository {
	if c == nil {
		c = clock.New()
	}
	return &InMemoryRepository{
		clock: c,
		store: make(map[string]entities.RoomCharacters),
	}
}

// ListByRoom returns copies of every record in a room
func (r *InMemoryRepository) ListByRoom(_ context.Context, input ListByRoomInput) (*ListByRoomOutput, error) {
	if err := validateRoom(input.RoomID); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	return &ListByRoomOutput{Characters: r.store[input.RoomID].Clone()}, nil
}

// Get retrieves one record
func (r *InMemoryRepository) Get(_ context.Context, input GetInput) (*GetOutput, error) {
	if err := validateKey(input.RoomID, input.CharacterID); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.store[input.RoomID][input.CharacterID]
	if !ok {
		return nil, notFound(input.RoomID, input.CharacterID)
	}
	return &GetOutput{Character: rec.Clone()}, nil
}

// Upsert creates or replaces a record
func (r *InMemoryRepository) Upsert(_ context.Context, input UpsertInput) (*UpsertOutput, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := clock.Stamp(r.clock)
	room := r.store[input.RoomID]
	if room == nil {
		room = make(entities.RoomCharacters)
		r.store[input.RoomID] = room
	}

	rec := &entities.CharacterRecord{
		RoomID:      input.RoomID,
		CharacterID: input.CharacterID,
		Name:        input.Name,
		Data:        payload(input.Data),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	existing, found := room[input.CharacterID]
	if found {
		rec.CreatedAt = existing.CreatedAt
	}
	room[input.CharacterID] = rec

	return &UpsertOutput{Character: rec.Clone(), Created: !found}, nil
}

// Update replaces the supplied fields of an existing record
func (r *InMemoryRepository) Update(_ context.Context, input UpdateInput) (*UpdateOutput, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.store[input.RoomID][input.CharacterID]
	if !ok {
		return nil, notFound(input.RoomID, input.CharacterID)
	}
	if input.Name != nil {
		rec.Name = *input.Name
	}
	if input.Data != nil {
		rec.Data = payload(input.Data)
	}
	rec.UpdatedAt = clock.Stamp(r.clock)

	return &UpdateOutput{Character: rec.Clone()}, nil
}

// Delete removes a record
func (r *InMemoryRepository) Delete(_ context.Context, input DeleteInput) (*DeleteOutput, error) {
	if err := validateKey(input.RoomID, input.CharacterID); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	room := r.store[input.RoomID]
	if _, ok := room[input.CharacterID]; !ok {
		return nil, notFound(input.RoomID, input.CharacterID)
	}
	delete(room, input.CharacterID)
	if len(room) == 0 {
		delete(r.store, input.RoomID)
	}
	return &DeleteOutput{}, nil
}

var _ Repository = (*InMemoryRepository)(nil)
