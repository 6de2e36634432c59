// Package v1alpha1 holds the wire contract of the character service: the
// request and response messages shared by the gRPC and HTTP boundaries and
// the gRPC service description. Messages travel as JSON.
package v1alpha1

import (
	"encoding/json"
	"time"
)

// Character is one stored record as seen by clients
type Character struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Data         json.RawMessage `json:"data"`
	LastModified time.Time       `json:"lastModified"`
}

// LocalCharacter is a client's copy of one character sent for sync
type LocalCharacter struct {
	Name         string          `json:"name"`
	Data         json.RawMessage `json:"data"`
	LastModified *time.Time      `json:"lastModified,omitempty"`
}

// Conflict carries both versions of a character the server holds a newer copy of
type Conflict struct {
	CharacterID string         `json:"characterId"`
	LocalData   LocalCharacter `json:"localData"`
	ServerData  *Character     `json:"serverData"`
}

// SyncResult lists character ids by disposition
type SyncResult struct {
	Conflicts []Conflict `json:"conflicts"`
	Updated   []string   `json:"updated"`
	Created   []string   `json:"created"`
	Synced    []string   `json:"synced"`
}

// ListCharactersRequest asks for every record of a room
type ListCharactersRequest struct {
	RoomID string `json:"roomId"`
}

// ListCharactersResponse maps character id to record
type ListCharactersResponse struct {
	Characters map[string]*Character `json:"characters"`
}

// SaveCharacterRequest creates or replaces a record
type SaveCharacterRequest struct {
	RoomID      string          `json:"roomId"`
	CharacterID string          `json:"characterId"`
	Name        string          `json:"name"`
	Data        json.RawMessage `json:"data"`
}

// SaveCharacterResponse returns the stored record
type SaveCharacterResponse struct {
	Character *Character `json:"character"`
	Created   bool       `json:"created"`
}

// UpdateCharacterRequest merges the supplied fields into a record
type UpdateCharacterRequest struct {
	RoomID      string          `json:"roomId"`
	CharacterID string          `json:"characterId"`
	Name        *string         `json:"name,omitempty"`
	Data        json.RawMessage `json:"data,omitempty"`
}

// UpdateCharacterResponse returns the stored record
type UpdateCharacterResponse struct {
	Character *Character `json:"character"`
}

// DeleteCharacterRequest removes a record
type DeleteCharacterRequest struct {
	RoomID      string `json:"roomId"`
	CharacterID string `json:"characterId"`
}

// DeleteCharacterResponse is empty
type DeleteCharacterResponse struct{}

// SyncCharactersRequest reconciles a client's characters against a room
type SyncCharactersRequest struct {
	RoomID    string                    `json:"roomId"`
	LocalData map[string]LocalCharacter `json:"localData,omitempty"`
}

// SyncCharactersResponse returns the room after the pass with the dispositions
type SyncCharactersResponse struct {
	Characters map[string]*Character `json:"characters"`
	SyncResult SyncResult            `json:"syncResult"`
}
