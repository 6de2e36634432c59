package replication

import (
	"github.com/Zevankai/Equipment-Tool/internal/engine"
	"github.com/Zevankai/Equipment-Tool/internal/entities/equipment"
	"github.com/Zevankai/Equipment-Tool/internal/errors"
)

// ConflictPolicy decides what Push and Pull do with characters the server
// holds a newer copy of
type ConflictPolicy string

// Conflict policies
const (
	// PreferServer replaces the cached snapshot with the server version
	PreferServer ConflictPolicy = "prefer-server"
	// KeepLocal leaves the cached snapshot alone and reports the conflict
	KeepLocal ConflictPolicy = "keep-local"
)

// ParseConflictPolicy maps a configured name to a policy; empty means PreferServer
func ParseConflictPolicy(name string) (ConflictPolicy, error) {
	switch ConflictPolicy(name) {
	case "", PreferServer:
		return PreferServer, nil
	case KeepLocal:
		return KeepLocal, nil
	default:
		return "", errors.InvalidArgumentf("unknown conflict policy %q", name).
			WithMeta("allowed", []string{string(PreferServer), string(KeepLocal)})
	}
}

// Side names the copy that survives a conflict resolution
type Side string

// Sides
const (
	SideLocal  Side = "local"
	SideServer Side = "server"
)

// PushInput defines the request for pushing a room
type PushInput struct {
	RoomID string
}

// PushOutput reports what a push did to the local cache and the server
type PushOutput struct {
	// Result is the server's disposition per character
	Result engine.Result
	// Deleted lists queued deletions the server has now applied
	Deleted []string
	// Removed lists synced characters the server no longer holds, dropped from the cache
	Removed []string
	// Adopted lists characters whose cached copy now matches the server
	Adopted []string
	// Added lists characters only the server knew about
	Added []string
	// Kept lists conflicts left untouched under KeepLocal
	Kept []string
	// Skipped lists server records that could not be read as snapshots
	Skipped []string
}

// PullInput defines the request for refreshing a room from the server
type PullInput struct {
	RoomID string
}

// PullOutput reports what a pull did to the local cache
type PullOutput struct {
	Added     []string
	Replaced  []string
	Unchanged []string
	// Conflicts lists characters with unsent local edits and a newer server copy
	Conflicts []string
	// Kept lists conflicts left untouched under KeepLocal
	Kept []string
	// Deleting lists server characters with a queued local deletion
	Deleting []string
	// Removed lists synced characters the server no longer holds, dropped from the cache
	Removed []string
	Skipped []string
}

// ResolveConflictInput picks the surviving copy of one character
type ResolveConflictInput struct {
	RoomID      string
	CharacterID string
	Keep        Side
}

// ResolveConflictOutput returns the cached snapshot after resolution
type ResolveConflictOutput struct {
	Snapshot equipment.Snapshot
}

// StatusInput defines the request for the sync state of a room
type StatusInput struct {
	RoomID string
}

// StatusOutput splits the cached characters by sync state, each in id order
type StatusOutput struct {
	Pending []string
	Synced  []string
	// Deleting lists deletions the server has not confirmed
	Deleting []string
}

// DeleteCharacterInput names the character to remove everywhere
type DeleteCharacterInput struct {
	RoomID      string
	CharacterID string
}

// DeleteCharacterOutput reports how far a deletion got
type DeleteCharacterOutput struct {
	// Queued is true when the server was unreachable and the next Push sends the deletion
	Queued bool
}
