package builders

import (
	"encoding/json"
	"time"

	"github.com/Zevankai/Equipment-Tool/internal/entities"
)

// RecordBuilder provides a fluent interface for building stored character records
type RecordBuilder struct {
	rec entities.CharacterRecord
}

// NewRecordBuilder creates a builder with minimal defaults
func NewRecordBuilder() *RecordBuilder {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	return &RecordBuilder{
		rec: entities.CharacterRecord{
			RoomID:      "room-test-001",
			CharacterID: "char-test-001",
			Name:        "Mira Ashdown",
			Data:        json.RawMessage(`{}`),
			CreatedAt:   now,
			UpdatedAt:   now,
		},
	}
}

// WithRoomID sets the room id
func (b *RecordBuilder) WithRoomID(roomID string) *RecordBuilder {
	b.rec.RoomID = roomID
	return b
}

// WithCharacterID sets the character id
func (b *RecordBuilder) WithCharacterID(id string) *RecordBuilder {
	b.rec.CharacterID = id
	return b
}

// WithName sets the name
func (b *RecordBuilder) WithName(name string) *RecordBuilder {
	b.rec.Name = name
	return b
}

// WithData sets the payload
func (b *RecordBuilder) WithData(data []byte) *RecordBuilder {
	b.rec.Data = append(json.RawMessage(nil), data...)
	return b
}

// WithUpdatedAt sets the last-modified time
func (b *RecordBuilder) WithUpdatedAt(t time.Time) *RecordBuilder {
	b.rec.UpdatedAt = t
	return b
}

// Build returns a copy of the record
func (b *RecordBuilder) Build() *entities.CharacterRecord {
	return b.rec.Clone()
}
