// Package entities provides the records shared across the equipment ledger layers.
package entities

import (
	"encoding/json"
	"time"
)

// CharacterRecord is one stored character in a room. Data is the opaque
// equipment payload; UpdatedAt is the last-modified timestamp compared during
// reconciliation.
type CharacterRecord struct {
	RoomID      string          `json:"roomId"`
	CharacterID string          `json:"id"`
	Name        string          `json:"name"`
	Data        json.RawMessage `json:"data"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"lastModified"`
}

// Clone returns a copy that does not share the payload buffer
func (r *CharacterRecord) Clone() *CharacterRecord {
	if r == nil {
		return nil
	}
	out := *r
	if r.Data != nil {
		out.Data = append(json.RawMessage(nil), r.Data...)
	}
	return &out
}

// LastModified returns the timestamp used for last-write-wins comparison
func (r *CharacterRecord) LastModified() time.Time {
	if r == nil {
		return time.Time{}
	}
	return r.UpdatedAt
}
