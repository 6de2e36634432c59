// Package character defines the interface for the character CRUD and sync
// boundary served to clients
package character

//go:generate mockgen -destination=mock/mock_service.go -package=charactermock github.com/Zevankai/Equipment-Tool/internal/services/character Service

import (
	"context"
	"encoding/json"

	"github.com/Zevankai/Equipment-Tool/internal/engine"
	"github.com/Zevankai/Equipment-Tool/internal/entities"
)

// Service defines the interface for character operations
type Service interface {
	// Stored records
	ListCharacters(ctx context.Context, input *ListCharactersInput) (*ListCharactersOutput, error)
	GetCharacter(ctx context.Context, input *GetCharacterInput) (*GetCharacterOutput, error)
	SaveCharacter(ctx context.Context, input *SaveCharacterInput) (*SaveCharacterOutput, error)
	UpdateCharacter(ctx context.Context, input *UpdateCharacterInput) (*UpdateCharacterOutput, error)
	DeleteCharacter(ctx context.Context, input *DeleteCharacterInput) (*DeleteCharacterOutput, error)

	// Reconciliation
	SyncCharacters(ctx context.Context, input *SyncCharactersInput) (*SyncCharactersOutput, error)
}

// ListCharactersInput defines the request for listing a room
type ListCharactersInput struct {
	RoomID string
}

// ListCharactersOutput defines the response for listing a room
type ListCharactersOutput struct {
	Characters entities.RoomCharacters
}

// GetCharacterInput defines the request for getting one record
type GetCharacterInput struct {
	RoomID      string
	CharacterID string
}

// GetCharacterOutput defines the response for getting one record
type GetCharacterOutput struct {
	Character *entities.CharacterRecord
}

// SaveCharacterInput defines the request for creating or replacing a record
type SaveCharacterInput struct {
	RoomID      string
	CharacterID string
	Name        string
	Data        json.RawMessage
}

// SaveCharacterOutput defines the response for creating or replacing a record
type SaveCharacterOutput struct {
	Character *entities.CharacterRecord
	Created   bool
}

// UpdateCharacterInput defines the request for a partial update.
// Nil fields are left alone.
type UpdateCharacterInput struct {
	RoomID      string
	CharacterID string
	Name        *string
	Data        json.RawMessage
}

// UpdateCharacterOutput defines the response for a partial update
type UpdateCharacterOutput struct {
	Character *entities.CharacterRecord
}

// DeleteCharacterInput defines the request for deleting a record
type DeleteCharacterInput struct {
	RoomID      string
	CharacterID string
}

// DeleteCharacterOutput defines the response for deleting a record
type DeleteCharacterOutput struct{}

// SyncCharactersInput defines the request for reconciling a room
type SyncCharactersInput struct {
	RoomID string
	// Local is the caller's copy keyed by character id; may be empty
	Local map[string]engine.LocalCharacter
}

// SyncCharactersOutput defines the response for reconciling a room
type SyncCharactersOutput struct {
	Characters entities.RoomCharacters
	Result     engine.Result
}
