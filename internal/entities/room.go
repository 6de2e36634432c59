package entities

import (
	"sort"
)

// RoomCharacters is the set of stored characters of one room keyed by character id
type RoomCharacters map[string]*CharacterRecord

// IDs returns the character ids in sorted order
func (rc RoomCharacters) IDs() []string {
	ids := make([]string, 0, len(rc))
	for id := range rc {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Clone returns a deep copy of the set
func (rc RoomCharacters) Clone() RoomCharacters {
	out := make(RoomCharacters, len(rc))
	for id, rec := range rc {
		out[id] = rec.Clone()
	}
	return out
}
