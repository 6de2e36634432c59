package engine

import (
	"time"

	"github.com/Zevankai/Equipment-Tool/internal/entities"
)

// Compare decides the disposition of one character. A nil remote means the
// room has no record for it. Timestamps are compared at millisecond precision.
func Compare(local LocalCharacter, remote *entities.CharacterRecord) Disposition {
	if remote == nil {
		return DispositionCreated
	}

	l := local.LastModified.UTC().Truncate(time.Millisecond)
	r := remote.UpdatedAt.UTC().Truncate(time.Millisecond)
	switch {
	case l.After(r):
		return DispositionUpdated
	case r.After(l):
		return DispositionConflict
	default:
		return DispositionSynced
	}
}
