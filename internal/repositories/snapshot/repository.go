// Package snapshot provides the local cache of character snapshots, keyed by
// (room, character). It is what the CLI mutates while offline and what the
// replication orchestrator pushes to and refreshes from the server.
package snapshot

//go:generate mockgen -destination=mock/mock_repository.go -package=snapshotmock github.com/Zevankai/Equipment-Tool/internal/repositories/snapshot Repository

import (
	"context"
	"strings"
	"time"

	"github.com/Zevankai/Equipment-Tool/internal/entities/equipment"
	"github.com/Zevankai/Equipment-Tool/internal/errors"
)

// Repository defines the interface for cached snapshot persistence
type Repository interface {
	// Get retrieves one cached snapshot
	// Returns errors.NotFound if the snapshot isn't cached
	// Returns errors.Storage for storage failures or an unreadable payload
	Get(ctx context.Context, input GetInput) (*GetOutput, error)

	// Save creates or replaces a cached snapshot. The snapshot's LastModified is
	// stored as given; callers stamp it.
	// Returns errors.InvalidArgument for validation failures
	// Returns errors.Storage for storage failures
	Save(ctx context.Context, input SaveInput) (*SaveOutput, error)

	// List returns the cached snapshots of a room ordered by character id
	// Returns errors.Storage for storage failures
	List(ctx context.Context, input ListInput) (*ListOutput, error)

	// Delete removes a cached snapshot
	// Returns errors.NotFound if the snapshot isn't cached
	// Returns errors.Storage for storage failures
	Delete(ctx context.Context, input DeleteInput) (*DeleteOutput, error)

	// ListRooms returns every room that has at least one cached snapshot or tombstone
	// Returns errors.Storage for storage failures
	ListRooms(ctx context.Context, input ListRoomsInput) (*ListRoomsOutput, error)

	// ListTombstones returns the deletions of a room the server has not
	// confirmed yet, ordered by character id
	// Returns errors.Storage for storage failures
	ListTombstones(ctx context.Context, input ListTombstonesInput) (*ListTombstonesOutput, error)

	// ClearTombstone forgets a deletion once the server no longer holds the
	// character. Clearing an absent tombstone is not an error.
	// Returns errors.Storage for storage failures
	ClearTombstone(ctx context.Context, input ClearTombstoneInput) (*ClearTombstoneOutput, error)
}

// Entry is one cached snapshot together with its sync bookkeeping
type Entry struct {
	RoomID   string
	Snapshot equipment.Snapshot
	// SyncedAt is the server timestamp the cache last matched; zero when never synced
	SyncedAt time.Time
}

// Pending reports whether the snapshot has local changes the server has not seen
func (e Entry) Pending() bool {
	return e.SyncedAt.IsZero() || e.Snapshot.LastModified.After(e.SyncedAt)
}

// GetInput defines the input for getting a snapshot
type GetInput struct {
	RoomID      string
	CharacterID string
}

// GetOutput defines the output for getting a snapshot
type GetOutput struct {
	Entry Entry
}

// SaveInput defines the input for saving a snapshot
type SaveInput struct {
	RoomID   string
	Snapshot equipment.Snapshot
	// SyncedAt records a sync with the server. Nil keeps the stored value.
	SyncedAt *time.Time
}

// SaveOutput defines the output for saving a snapshot
type SaveOutput struct {
	Entry Entry
}

// ListInput defines the input for listing a room
type ListInput struct {
	RoomID string
}

// ListOutput defines the output for listing a room
type ListOutput struct {
	Entries []Entry
}

// Snapshots returns the listed snapshots keyed by character id
func (o ListOutput) Snapshots() map[string]equipment.Snapshot {
	out := make(map[string]equipment.Snapshot, len(o.Entries))
	for _, e := range o.Entries {
		out[e.Snapshot.CharacterID] = e.Snapshot
	}
	return out
}

// DeleteInput defines the input for deleting a snapshot
type DeleteInput struct {
	RoomID      string
	CharacterID string
	// DeletedAt, when set, leaves a tombstone behind in the same write
	DeletedAt time.Time
}

// DeleteOutput defines the output for deleting a snapshot
type DeleteOutput struct{}

// ListRoomsInput defines the input for listing cached rooms
type ListRoomsInput struct{}

// ListRoomsOutput defines the output for listing cached rooms
type ListRoomsOutput struct {
	RoomIDs []string
}

// Tombstone marks a character deleted locally whose server copy may still exist
type Tombstone struct {
	RoomID      string
	CharacterID string
	DeletedAt   time.Time
}

// ListTombstonesInput defines the input for listing a room's tombstones
type ListTombstonesInput struct {
	RoomID string
}

// ListTombstonesOutput defines the output for listing a room's tombstones
type ListTombstonesOutput struct {
	Tombstones []Tombstone
}

// Has reports whether characterID has a tombstone
func (o ListTombstonesOutput) Has(characterID string) bool {
	for _, t := range o.Tombstones {
		if t.CharacterID == characterID {
			return true
		}
	}
	return false
}

// ClearTombstoneInput defines the input for clearing a tombstone
type ClearTombstoneInput struct {
	RoomID      string
	CharacterID string
}

// ClearTombstoneOutput defines the output for clearing a tombstone
type ClearTombstoneOutput struct{}

func validateKey(roomID, characterID string) error {
	vb := errors.NewValidationBuilder()
	if strings.TrimSpace(roomID) == "" {
		vb.Field("room_id", "room ID cannot be empty")
	}
	if strings.TrimSpace(characterID) == "" {
		vb.Field("character_id", "character ID cannot be empty")
	}
	return vb.Build()
}

// Validate checks the save input, including the snapshot's own invariants
func (in SaveInput) Validate() error {
	if err := validateKey(in.RoomID, in.Snapshot.CharacterID); err != nil {
		return err
	}
	if in.Snapshot.LastModified.IsZero() {
		return errors.InvalidArgument("snapshot last modified time must be set")
	}
	return in.Snapshot.Validate()
}
