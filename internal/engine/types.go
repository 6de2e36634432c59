package engine

import (
	"encoding/json"
	"time"

	"github.com/Zevankai/Equipment-Tool/internal/entities"
)

// Disposition is the outcome of one character in one reconciliation pass
type Disposition string

// Dispositions
const (
	DispositionCreated  Disposition = "created"
	DispositionUpdated  Disposition = "updated"
	DispositionConflict Disposition = "conflict"
	DispositionSynced   Disposition = "synced"
)

// String returns the string representation of the disposition
func (d Disposition) String() string {
	return string(d)
}

// LocalCharacter is the client's copy of one character
type LocalCharacter struct {
	Name string          `json:"name"`
	Data json.RawMessage `json:"data"`
	// LastModified is zero when the client did not send one
	LastModified time.Time `json:"lastModified"`
}

// Conflict carries both versions of a character whose stored record is newer
// than the local copy
type Conflict struct {
	CharacterID string                    `json:"characterId"`
	Local       LocalCharacter            `json:"localData"`
	Server      *entities.CharacterRecord `json:"serverData"`
}

// Result lists character ids by disposition, each in id order
type Result struct {
	Created   []string   `json:"created"`
	Updated   []string   `json:"updated"`
	Conflicts []Conflict `json:"conflicts"`
	Synced    []string   `json:"synced"`
}

// ConflictIDs returns the ids of the conflicting characters
func (r Result) ConflictIDs() []string {
	ids := make([]string, len(r.Conflicts))
	for i, c := range r.Conflicts {
		ids[i] = c.CharacterID
	}
	return ids
}

// Disposition returns the disposition recorded for characterID
func (r Result) Disposition(characterID string) (Disposition, bool) {
	for _, list := range []struct {
		ids []string
		d   Disposition
	}{
		{r.Created, DispositionCreated},
		{r.Updated, DispositionUpdated},
		{r.ConflictIDs(), DispositionConflict},
		{r.Synced, DispositionSynced},
	} {
		for _, id := range list.ids {
			if id == characterID {
				return list.d, true
			}
		}
	}
	return "", false
}

// ReconcileInput contains the room and the client's characters
type ReconcileInput struct {
	RoomID string
	Local  map[string]LocalCharacter
}

// ReconcileOutput contains the stored room after the pass and the dispositions
type ReconcileOutput struct {
	Characters entities.RoomCharacters
	Result     Result
}
