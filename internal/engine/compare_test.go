package engine_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Zevankai/Equipment-Tool/internal/engine"
	"github.com/Zevankai/Equipment-Tool/internal/entities"
	"github.com/Zevankai/Equipment-Tool/internal/testutils"
)

func TestCompare(t *testing.T) {
	remoteAt := func(ms int64) *entities.CharacterRecord {
		return &entities.CharacterRecord{CharacterID: "char-a", UpdatedAt: testutils.Millis(ms)}
	}
	localAt := func(ms int64) engine.LocalCharacter {
		return engine.LocalCharacter{LastModified: testutils.Millis(ms)}
	}

	tests := []struct {
		name   string
		local  engine.LocalCharacter
		remote *entities.CharacterRecord
		want   engine.Disposition
	}{
		{"absent remotely", localAt(5), nil, engine.DispositionCreated},
		{"local newer", localAt(5), remoteAt(3), engine.DispositionUpdated},
		{"remote newer", localAt(3), remoteAt(5), engine.DispositionConflict},
		{"equal", localAt(5), remoteAt(5), engine.DispositionSynced},
		{"missing local timestamp loses", engine.LocalCharacter{}, remoteAt(0), engine.DispositionConflict},
		{
			"sub-millisecond difference is equal",
			engine.LocalCharacter{LastModified: testutils.Millis(5).Add(400 * time.Microsecond)},
			remoteAt(5),
			engine.DispositionSynced,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, engine.Compare(tt.local, tt.remote))
		})
	}
}
