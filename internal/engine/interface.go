// Package engine reconciles a client's local characters against the remote
// repository of a room using last-write-wins timestamps.
package engine

//go:generate mockgen -destination=mock/mock_engine.go -package=enginemock github.com/Zevankai/Equipment-Tool/internal/engine Engine

import (
	"context"
)

// Engine merges local character state into the remote repository
type Engine interface {
	// Reconcile compares every local character with the stored record, writes
	// the ones that are new or newer, and returns the room as stored afterwards.
	// Characters are processed one at a time in id order. The first storage
	// failure aborts the call; writes that already happened are kept.
	// Returns errors.InvalidArgument for a missing room id
	// Returns errors.Storage for storage failures
	Reconcile(ctx context.Context, input *ReconcileInput) (*ReconcileOutput, error)
}
