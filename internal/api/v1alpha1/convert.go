package v1alpha1

import (
	"github.com/Zevankai/Equipment-Tool/internal/engine"
	"github.com/Zevankai/Equipment-Tool/internal/entities"
)

// CharacterFromRecord converts a stored record to its wire form
func CharacterFromRecord(rec *entities.CharacterRecord) *Character {
	if rec == nil {
		return nil
	}
	return &Character{
		ID:           rec.CharacterID,
		Name:         rec.Name,
		Data:         rec.Data,
		LastModified: rec.UpdatedAt,
	}
}

// RecordFromCharacter converts a wire record back into the room it came from
func RecordFromCharacter(roomID string, c *Character) *entities.CharacterRecord {
	if c == nil {
		return nil
	}
	return &entities.CharacterRecord{
		RoomID:      roomID,
		CharacterID: c.ID,
		Name:        c.Name,
		Data:        c.Data,
		UpdatedAt:   c.LastModified.UTC(),
	}
}

// CharactersFromRoom converts every record of a room
func CharactersFromRoom(room entities.RoomCharacters) map[string]*Character {
	out := make(map[string]*Character, len(room))
	for id, rec := range room {
		out[id] = CharacterFromRecord(rec)
	}
	return out
}

// RoomFromCharacters converts wire records back into a room
func RoomFromCharacters(roomID string, characters map[string]*Character) entities.RoomCharacters {
	out := make(entities.RoomCharacters, len(characters))
	for id, c := range characters {
		rec := RecordFromCharacter(roomID, c)
		if rec == nil {
			continue
		}
		rec.CharacterID = id
		out[id] = rec
	}
	return out
}

// LocalFromEngine converts a client copy to its wire form. A zero
// timestamp is left out.
func LocalFromEngine(l engine.LocalCharacter) LocalCharacter {
	out := LocalCharacter{Name: l.Name, Data: l.Data}
	if !l.LastModified.IsZero() {
		ts := l.LastModified
		out.LastModified = &ts
	}
	return out
}

// EngineFromLocal converts a wire client copy; a missing timestamp becomes zero
func EngineFromLocal(l LocalCharacter) engine.LocalCharacter {
	out := engine.LocalCharacter{Name: l.Name, Data: l.Data}
	if l.LastModified != nil {
		out.LastModified = l.LastModified.UTC()
	}
	return out
}

// LocalMapFromEngine converts every client copy
func LocalMapFromEngine(local map[string]engine.LocalCharacter) map[string]LocalCharacter {
	out := make(map[string]LocalCharacter, len(local))
	for id, l := range local {
		out[id] = LocalFromEngine(l)
	}
	return out
}

// EngineLocalMap converts every wire client copy
func EngineLocalMap(local map[string]LocalCharacter) map[string]engine.LocalCharacter {
	out := make(map[string]engine.LocalCharacter, len(local))
	for id, l := range local {
		out[id] = EngineFromLocal(l)
	}
	return out
}

// SyncResultFromEngine converts reconciliation dispositions
func SyncResultFromEngine(r engine.Result) SyncResult {
	out := SyncResult{
		Conflicts: make([]Conflict, len(r.Conflicts)),
		Updated:   nonNil(r.Updated),
		Created:   nonNil(r.Created),
		Synced:    nonNil(r.Synced),
	}
	for i, c := range r.Conflicts {
		out.Conflicts[i] = Conflict{
			CharacterID: c.CharacterID,
			LocalData:   LocalFromEngine(c.Local),
			ServerData:  CharacterFromRecord(c.Server),
		}
	}
	return out
}

// EngineResult converts wire dispositions of a pass over roomID
func EngineResult(roomID string, r SyncResult) engine.Result {
	out := engine.Result{
		Created:   nonNil(r.Created),
		Updated:   nonNil(r.Updated),
		Conflicts: make([]engine.Conflict, len(r.Conflicts)),
		Synced:    nonNil(r.Synced),
	}
	for i, c := range r.Conflicts {
		server := RecordFromCharacter(roomID, c.ServerData)
		if server != nil && server.CharacterID == "" {
			server.CharacterID = c.CharacterID
		}
		out.Conflicts[i] = engine.Conflict{
			CharacterID: c.CharacterID,
			Local:       EngineFromLocal(c.LocalData),
			Server:      server,
		}
	}
	return out
}

func nonNil(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}
