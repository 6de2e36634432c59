// Package character provides the interface for stored character records.
// Records are addressed by (room, character) and carry an opaque payload plus
// a server-stamped last-modified time.
package character

//go:generate mockgen -destination=mock/mock_repository.go -package=charactermock github.com/Zevankai/Equipment-Tool/internal/repositories/character Repository

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/Zevankai/Equipment-Tool/internal/entities"
	"github.com/Zevankai/Equipment-Tool/internal/errors"
)

// Repository defines the interface for character record persistence
type Repository interface {
	// ListByRoom returns every record of a room keyed by character id
	// Returns errors.InvalidArgument for an empty room id
	// Returns errors.Storage for storage failures
	ListByRoom(ctx context.Context, input ListByRoomInput) (*ListByRoomOutput, error)

	// Get retrieves one record
	// Returns errors.NotFound if the record doesn't exist
	// Returns errors.Storage for storage failures
	Get(ctx context.Context, input GetInput) (*GetOutput, error)

	// Upsert creates or replaces a record and refreshes its timestamp.
	// An existing record is overwritten, not merged; its creation time is kept.
	// Returns errors.InvalidArgument for validation failures
	// Returns errors.Storage for storage failures
	Upsert(ctx context.Context, input UpsertInput) (*UpsertOutput, error)

	// Update replaces only the supplied fields and refreshes the timestamp
	// Returns errors.NotFound if the record doesn't exist
	// Returns errors.Storage for storage failures
	Update(ctx context.Context, input UpdateInput) (*UpdateOutput, error)

	// Delete removes a record
	// Returns errors.NotFound if the record doesn't exist
	// Returns errors.Storage for storage failures
	Delete(ctx context.Context, input DeleteInput) (*DeleteOutput, error)
}

// ListByRoomInput defines the input for listing a room
type ListByRoomInput struct {
	RoomID string
}

// ListByRoomOutput defines the output for listing a room
type ListByRoomOutput struct {
	Characters entities.RoomCharacters
}

// GetInput defines the input for getting a record
type GetInput struct {
	RoomID      string
	CharacterID string
}

// GetOutput defines the output for getting a record
type GetOutput struct {
	Character *entities.CharacterRecord
}

// UpsertInput defines the input for creating or replacing a record
type UpsertInput struct {
	RoomID      string
	CharacterID string
	Name        string
	Data        json.RawMessage
}

// UpsertOutput defines the output for creating or replacing a record
type UpsertOutput struct {
	Character *entities.CharacterRecord
	// Created is true when no record existed before the write
	Created bool
}

// UpdateInput defines the input for a partial update.
// A nil Name or Data leaves the stored value alone.
type UpdateInput struct {
	RoomID      string
	CharacterID string
	Name        *string
	Data        json.RawMessage
}

// UpdateOutput defines the output for a partial update
type UpdateOutput struct {
	Character *entities.CharacterRecord
}

// DeleteInput defines the input for deleting a record
type DeleteInput struct {
	RoomID      string
	CharacterID string
}

// DeleteOutput defines the output for deleting a record
type DeleteOutput struct{}

const (
	errRoomIDEmpty      = "room ID cannot be empty"
	errCharacterIDEmpty = "character ID cannot be empty"
	errInvalidData      = "data must be valid JSON"
	errIDSeparator      = "cannot contain " + IDSeparator
)

// IDSeparator joins room and character ids in storage keys, so neither id may contain it
const IDSeparator = ":"

func validateKey(roomID, characterID string) error {
	vb := errors.NewValidationBuilder()
	switch {
	case strings.TrimSpace(roomID) == "":
		vb.Field("room_id", errRoomIDEmpty)
	case strings.Contains(roomID, IDSeparator):
		vb.Field("room_id", "room ID "+errIDSeparator)
	}
	switch {
	case strings.TrimSpace(characterID) == "":
		vb.Field("character_id", errCharacterIDEmpty)
	case strings.Contains(characterID, IDSeparator):
		vb.Field("character_id", "character ID "+errIDSeparator)
	}
	return vb.Build()
}

func validateRoom(roomID string) error {
	if strings.TrimSpace(roomID) == "" {
		return errors.InvalidArgument(errRoomIDEmpty)
	}
	if strings.Contains(roomID, IDSeparator) {
		return errors.InvalidArgumentf("room ID %s", errIDSeparator).WithMeta("room_id", roomID)
	}
	return nil
}

// Validate checks the upsert input
func (in UpsertInput) Validate() error {
	if err := validateKey(in.RoomID, in.CharacterID); err != nil {
		return err
	}
	if len(in.Data) > 0 && !json.Valid(in.Data) {
		return errors.InvalidArgument(errInvalidData)
	}
	return nil
}

// Validate checks the update input
func (in UpdateInput) Validate() error {
	if err := validateKey(in.RoomID, in.CharacterID); err != nil {
		return err
	}
	if in.Data != nil && !json.Valid(in.Data) {
		return errors.InvalidArgument(errInvalidData)
	}
	return nil
}

// payload normalises an absent payload to an empty object
func payload(data json.RawMessage) json.RawMessage {
	if len(data) == 0 {
		return json.RawMessage(`{}`)
	}
	return append(json.RawMessage(nil), data...)
}
