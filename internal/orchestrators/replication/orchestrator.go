// Package replication moves snapshots between the local cache and a remote
// ledger. Inventory operations never wait on it.
package replication

//go:generate mockgen -destination=mock/mock_service.go -package=replicationmock github.com/Zevankai/Equipment-Tool/internal/orchestrators/replication Service

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"github.com/Zevankai/Equipment-Tool/internal/clients/remote"
	"github.com/Zevankai/Equipment-Tool/internal/engine"
	"github.com/Zevankai/Equipment-Tool/internal/entities"
	"github.com/Zevankai/Equipment-Tool/internal/entities/equipment"
	"github.com/Zevankai/Equipment-Tool/internal/errors"
	"github.com/Zevankai/Equipment-Tool/internal/pkg/clock"
	"github.com/Zevankai/Equipment-Tool/internal/repositories/snapshot"
)

// Service defines the replication operations of a client
type Service interface {
	// Push sends queued deletions, then every cached snapshot of a room
	// through a sync pass. Synced copies the server no longer holds are
	// dropped from the cache instead of being sent back.
	Push(ctx context.Context, input *PushInput) (*PushOutput, error)
	// Pull refreshes the cache from the server without sending anything.
	// Unsent local edits against a newer server copy are conflicts settled
	// by the policy.
	Pull(ctx context.Context, input *PullInput) (*PullOutput, error)
	// ResolveConflict settles one character on the chosen side
	ResolveConflict(ctx context.Context, input *ResolveConflictInput) (*ResolveConflictOutput, error)
	// Status reports which cached characters have unsent changes
	Status(ctx context.Context, input *StatusInput) (*StatusOutput, error)
	// DeleteCharacter removes a character from the cache and the server.
	// An unreachable server leaves a tombstone for the next Push.
	DeleteCharacter(ctx context.Context, input *DeleteCharacterInput) (*DeleteCharacterOutput, error)
}

// Config holds the dependencies for the replication orchestrator
type Config struct {
	SnapshotRepo snapshot.Repository
	Remote       remote.Client
	// Policy defaults to PreferServer
	Policy ConflictPolicy
	// Clock stamps local deletions
	Clock  clock.Clock
	Logger *zap.Logger
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	if c == nil {
		return errors.InvalidArgument("config is required")
	}
	vb := errors.NewValidationBuilder()
	if c.SnapshotRepo == nil {
		vb.RequiredField("SnapshotRepo")
	}
	if c.Remote == nil {
		vb.RequiredField("Remote")
	}
	if _, err := ParseConflictPolicy(string(c.Policy)); err != nil {
		vb.Field("Policy", errors.GetMessage(err))
	}
	return vb.Build()
}

type orchestrator struct {
	snapshots snapshot.Repository
	remote    remote.Client
	policy    ConflictPolicy
	clock     clock.Clock
	logger    *zap.Logger
}

// NewOrchestrator creates a new replication orchestrator
func NewOrchestrator(cfg *Config) (Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	policy, _ := ParseConflictPolicy(string(cfg.Policy))
	c := cfg.Clock
	if c == nil {
		c = clock.New()
	}
	l := cfg.Logger
	if l == nil {
		l = zap.NewNop()
	}

	return &orchestrator{
		snapshots: cfg.SnapshotRepo,
		remote:    cfg.Remote,
		policy:    policy,
		clock:     c,
		logger:    l.Named("replication"),
	}, nil
}

func (o *orchestrator) Push(ctx context.Context, input *PushInput) (*PushOutput, error) {
	if input == nil || input.RoomID == "" {
		return nil, errors.InvalidArgument("room ID is required")
	}

	deleted, err := o.flushTombstones(ctx, input.RoomID)
	if err != nil {
		return nil, err
	}

	onServer, err := o.remote.ListCharacters(ctx, &remote.ListInput{RoomID: input.RoomID})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list remote room %s", input.RoomID)
	}

	listed, err := o.snapshots.List(ctx, snapshot.ListInput{RoomID: input.RoomID})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read cached room %s", input.RoomID)
	}

	removed := []string{}
	sent := make(map[string]equipment.Snapshot, len(listed.Entries))
	local := make(map[string]engine.LocalCharacter, len(listed.Entries))
	for _, entry := range listed.Entries {
		if _, ok := onServer.Characters[entry.Snapshot.CharacterID]; !ok && deletedElsewhere(entry) {
			if err := o.drop(ctx, input.RoomID, entry.Snapshot.CharacterID); err != nil {
				return nil, err
			}
			removed = append(removed, entry.Snapshot.CharacterID)
			continue
		}

		data, err := equipment.MarshalSnapshot(entry.Snapshot)
		if err != nil {
			return nil, err
		}
		id := entry.Snapshot.CharacterID
		sent[id] = entry.Snapshot
		local[id] = engine.LocalCharacter{
			Name:         entry.Snapshot.Name,
			Data:         data,
			LastModified: entry.Snapshot.LastModified,
		}
	}

	synced, err := o.remote.SyncCharacters(ctx, &remote.SyncInput{RoomID: input.RoomID, Local: local})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to sync room %s", input.RoomID)
	}

	out := &PushOutput{
		Result:  synced.Result,
		Deleted: deleted,
		Removed: removed,
		Adopted: []string{},
		Added:   []string{},
		Kept:    []string{},
		Skipped: []string{},
	}

	accepted := make([]string, 0, len(local))
	accepted = append(accepted, synced.Result.Created...)
	accepted = append(accepted, synced.Result.Updated...)
	accepted = append(accepted, synced.Result.Synced...)
	sort.Strings(accepted)

	for _, id := range accepted {
		rec, ok := synced.Characters[id]
		if !ok {
			continue
		}
		adopted, err := o.adoptIfUnchanged(ctx, input.RoomID, rec, sent[id])
		if err != nil {
			return nil, err
		}
		if adopted {
			out.Adopted = append(out.Adopted, id)
		}
	}

	for _, conflict := range synced.Result.Conflicts {
		if o.policy == KeepLocal || conflict.Server == nil {
			out.Kept = append(out.Kept, conflict.CharacterID)
			continue
		}
		adopted, err := o.adoptIfUnchanged(ctx, input.RoomID, conflict.Server, sent[conflict.CharacterID])
		if err != nil {
			return nil, err
		}
		if adopted {
			out.Adopted = append(out.Adopted, conflict.CharacterID)
		} else {
			out.Skipped = append(out.Skipped, conflict.CharacterID)
		}
	}

	for _, id := range synced.Characters.IDs() {
		if _, ok := sent[id]; ok {
			continue
		}
		ok, err := o.adopt(ctx, input.RoomID, synced.Characters[id])
		if err != nil {
			return nil, err
		}
		if ok {
			out.Added = append(out.Added, id)
		} else {
			out.Skipped = append(out.Skipped, id)
		}
	}

	o.logger.Info("pushed room",
		zap.String("room_id", input.RoomID),
		zap.Int("sent", len(local)),
		zap.Int("deleted", len(out.Deleted)),
		zap.Int("removed", len(out.Removed)),
		zap.Int("adopted", len(out.Adopted)),
		zap.Int("added", len(out.Added)),
		zap.Int("kept", len(out.Kept)),
		zap.Int("skipped", len(out.Skipped)),
		zap.String("policy", string(o.policy)))

	return out, nil
}

func (o *orchestrator) Pull(ctx context.Context, input *PullInput) (*PullOutput, error) {
	if input == nil || input.RoomID == "" {
		return nil, errors.InvalidArgument("room ID is required")
	}

	listed, err := o.remote.ListCharacters(ctx, &remote.ListInput{RoomID: input.RoomID})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list remote room %s", input.RoomID)
	}

	cached, err := o.snapshots.List(ctx, snapshot.ListInput{RoomID: input.RoomID})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read cached room %s", input.RoomID)
	}
	entries := make(map[string]snapshot.Entry, len(cached.Entries))
	for _, e := range cached.Entries {
		entries[e.Snapshot.CharacterID] = e
	}
	tombs, err := o.snapshots.ListTombstones(ctx, snapshot.ListTombstonesInput{RoomID: input.RoomID})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read deletions of room %s", input.RoomID)
	}

	out := &PullOutput{
		Added:     []string{},
		Replaced:  []string{},
		Unchanged: []string{},
		Conflicts: []string{},
		Kept:      []string{},
		Deleting:  []string{},
		Removed:   []string{},
		Skipped:   []string{},
	}
	for _, e := range cached.Entries {
		id := e.Snapshot.CharacterID
		if _, ok := listed.Characters[id]; ok || !deletedElsewhere(e) {
			continue
		}
		if err := o.drop(ctx, input.RoomID, id); err != nil {
			return nil, err
		}
		out.Removed = append(out.Removed, id)
	}
	for _, id := range listed.Characters.IDs() {
		if tombs.Has(id) {
			out.Deleting = append(out.Deleting, id)
			continue
		}

		rec := listed.Characters[id]
		entry, exists := entries[id]
		if exists && !entry.Snapshot.LastModified.Before(rec.UpdatedAt) {
			out.Unchanged = append(out.Unchanged, id)
			continue
		}
		// Unsent local edits against a newer server copy: both sides changed.
		if exists && entry.Pending() {
			out.Conflicts = append(out.Conflicts, id)
			if o.policy == KeepLocal {
				out.Kept = append(out.Kept, id)
				continue
			}
		}

		ok, err := o.adopt(ctx, input.RoomID, rec)
		if err != nil {
			return nil, err
		}
		switch {
		case !ok:
			out.Skipped = append(out.Skipped, id)
		case exists:
			out.Replaced = append(out.Replaced, id)
		default:
			out.Added = append(out.Added, id)
		}
	}

	o.logger.Info("pulled room",
		zap.String("room_id", input.RoomID),
		zap.Int("added", len(out.Added)),
		zap.Int("replaced", len(out.Replaced)),
		zap.Int("unchanged", len(out.Unchanged)),
		zap.Int("conflicts", len(out.Conflicts)),
		zap.Int("kept", len(out.Kept)),
		zap.Int("deleting", len(out.Deleting)),
		zap.Int("removed", len(out.Removed)),
		zap.Int("skipped", len(out.Skipped)),
		zap.String("policy", string(o.policy)))

	return out, nil
}

func (o *orchestrator) ResolveConflict(
	ctx context.Context,
	input *ResolveConflictInput,
) (*ResolveConflictOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("room_id", input.RoomID, vb)
	errors.ValidateRequired("character_id", input.CharacterID, vb)
	errors.ValidateEnum("keep", string(input.Keep), []string{string(SideLocal), string(SideServer)}, vb)
	if err := vb.Build(); err != nil {
		return nil, err
	}

	var rec *entities.CharacterRecord
	switch input.Keep {
	case SideLocal:
		got, err := o.snapshots.Get(ctx, snapshot.GetInput{RoomID: input.RoomID, CharacterID: input.CharacterID})
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read cached character %s", input.CharacterID)
		}
		data, err := equipment.MarshalSnapshot(got.Entry.Snapshot)
		if err != nil {
			return nil, err
		}
		saved, err := o.remote.SaveCharacter(ctx, &remote.SaveInput{
			RoomID:      input.RoomID,
			CharacterID: input.CharacterID,
			Name:        got.Entry.Snapshot.Name,
			Data:        data,
		})
		if err != nil {
			return nil, errors.Wrapf(err, "failed to save character %s", input.CharacterID)
		}
		rec = saved.Character

	case SideServer:
		listed, err := o.remote.ListCharacters(ctx, &remote.ListInput{RoomID: input.RoomID})
		if err != nil {
			return nil, errors.Wrapf(err, "failed to list remote room %s", input.RoomID)
		}
		found, ok := listed.Characters[input.CharacterID]
		if !ok {
			return nil, errors.NotFoundf("character %s not found on server", input.CharacterID).
				WithMeta("room_id", input.RoomID)
		}
		rec = found
	}

	snap, err := snapshotFromRecord(rec)
	if err != nil {
		return nil, err
	}
	saved, err := o.save(ctx, input.RoomID, snap)
	if err != nil {
		return nil, err
	}
	if _, err := o.snapshots.ClearTombstone(ctx, snapshot.ClearTombstoneInput{
		RoomID:      input.RoomID,
		CharacterID: input.CharacterID,
	}); err != nil {
		return nil, errors.Wrapf(err, "failed to clear deletion of %s", input.CharacterID)
	}

	o.logger.Info("resolved conflict",
		zap.String("room_id", input.RoomID),
		zap.String("character_id", input.CharacterID),
		zap.String("keep", string(input.Keep)))

	return &ResolveConflictOutput{Snapshot: saved}, nil
}

func (o *orchestrator) Status(ctx context.Context, input *StatusInput) (*StatusOutput, error) {
	if input == nil || input.RoomID == "" {
		return nil, errors.InvalidArgument("room ID is required")
	}

	listed, err := o.snapshots.List(ctx, snapshot.ListInput{RoomID: input.RoomID})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read cached room %s", input.RoomID)
	}

	tombs, err := o.snapshots.ListTombstones(ctx, snapshot.ListTombstonesInput{RoomID: input.RoomID})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read deletions of room %s", input.RoomID)
	}

	out := &StatusOutput{Pending: []string{}, Synced: []string{}, Deleting: []string{}}
	for _, e := range listed.Entries {
		if e.Pending() {
			out.Pending = append(out.Pending, e.Snapshot.CharacterID)
		} else {
			out.Synced = append(out.Synced, e.Snapshot.CharacterID)
		}
	}
	for _, t := range tombs.Tombstones {
		out.Deleting = append(out.Deleting, t.CharacterID)
	}
	sort.Strings(out.Pending)
	sort.Strings(out.Synced)
	return out, nil
}

func (o *orchestrator) DeleteCharacter(
	ctx context.Context,
	input *DeleteCharacterInput,
) (*DeleteCharacterOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("room_id", input.RoomID, vb)
	errors.ValidateRequired("character_id", input.CharacterID, vb)
	if err := vb.Build(); err != nil {
		return nil, err
	}

	cached := true
	if _, err := o.snapshots.Delete(ctx, snapshot.DeleteInput{
		RoomID:      input.RoomID,
		CharacterID: input.CharacterID,
		DeletedAt:   clock.Stamp(o.clock),
	}); err != nil {
		if !errors.IsNotFound(err) {
			return nil, errors.Wrapf(err, "failed to delete cached character %s", input.CharacterID)
		}
		cached = false
	}

	err := o.remote.DeleteCharacter(ctx, &remote.DeleteInput{
		RoomID:      input.RoomID,
		CharacterID: input.CharacterID,
	})
	switch {
	case err == nil, errors.IsNotFound(err) && cached:
		if err := o.clearTombstone(ctx, input.RoomID, input.CharacterID); err != nil {
			return nil, err
		}
	case errors.IsNotFound(err):
		return nil, errors.Wrapf(err, "character %s is neither cached nor on the server", input.CharacterID)
	case errors.IsUnavailable(err) && cached:
		o.logger.Info("server unreachable, deletion queued",
			zap.String("room_id", input.RoomID),
			zap.String("character_id", input.CharacterID))
		return &DeleteCharacterOutput{Queued: true}, nil
	default:
		return nil, errors.Wrapf(err, "failed to delete character %s on server", input.CharacterID)
	}

	o.logger.Info("deleted character",
		zap.String("room_id", input.RoomID),
		zap.String("character_id", input.CharacterID),
		zap.Bool("cached", cached))

	return &DeleteCharacterOutput{}, nil
}

// flushTombstones sends every queued deletion of a room to the server. A
// deletion the server has already forgotten counts as sent.
func (o *orchestrator) flushTombstones(ctx context.Context, roomID string) ([]string, error) {
	tombs, err := o.snapshots.ListTombstones(ctx, snapshot.ListTombstonesInput{RoomID: roomID})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read deletions of room %s", roomID)
	}

	deleted := []string{}
	for _, t := range tombs.Tombstones {
		err := o.remote.DeleteCharacter(ctx, &remote.DeleteInput{RoomID: roomID, CharacterID: t.CharacterID})
		if err != nil && !errors.IsNotFound(err) {
			return nil, errors.Wrapf(err, "failed to delete character %s on server", t.CharacterID)
		}
		if err := o.clearTombstone(ctx, roomID, t.CharacterID); err != nil {
			return nil, err
		}
		deleted = append(deleted, t.CharacterID)
	}
	return deleted, nil
}

// deletedElsewhere reports whether a cached entry missing from the server was
// removed there: it was synced once and has no edits since.
func deletedElsewhere(e snapshot.Entry) bool {
	return !e.SyncedAt.IsZero() && !e.Pending()
}

// drop removes a cached character without queueing a deletion for the server
func (o *orchestrator) drop(ctx context.Context, roomID, characterID string) error {
	_, err := o.snapshots.Delete(ctx, snapshot.DeleteInput{RoomID: roomID, CharacterID: characterID})
	if err != nil && !errors.IsNotFound(err) {
		return errors.Wrapf(err, "failed to drop cached character %s", characterID)
	}
	o.logger.Info("character deleted on server, dropped from cache",
		zap.String("room_id", roomID),
		zap.String("character_id", characterID))
	return nil
}

func (o *orchestrator) clearTombstone(ctx context.Context, roomID, characterID string) error {
	if _, err := o.snapshots.ClearTombstone(ctx, snapshot.ClearTombstoneInput{
		RoomID:      roomID,
		CharacterID: characterID,
	}); err != nil {
		return errors.Wrapf(err, "failed to clear deletion of %s", characterID)
	}
	return nil
}

// adoptIfUnchanged writes rec into the cache unless the cached snapshot moved
// on after sent was read
func (o *orchestrator) adoptIfUnchanged(
	ctx context.Context,
	roomID string,
	rec *entities.CharacterRecord,
	sent equipment.Snapshot,
) (bool, error) {
	got, err := o.snapshots.Get(ctx, snapshot.GetInput{RoomID: roomID, CharacterID: rec.CharacterID})
	switch {
	case err == nil:
		if !got.Entry.Snapshot.LastModified.Equal(sent.LastModified) {
			o.logger.Debug("cached character changed during push",
				zap.String("character_id", rec.CharacterID))
			return false, nil
		}
	case !errors.IsNotFound(err):
		return false, errors.Wrapf(err, "failed to read cached character %s", rec.CharacterID)
	}
	return o.adopt(ctx, roomID, rec)
}

// adopt writes rec into the cache as synced. It reports false when the
// record does not hold a usable snapshot.
func (o *orchestrator) adopt(ctx context.Context, roomID string, rec *entities.CharacterRecord) (bool, error) {
	snap, err := snapshotFromRecord(rec)
	if err != nil {
		o.logger.Warn("skipping unreadable server record",
			zap.String("room_id", roomID),
			zap.String("character_id", rec.CharacterID),
			zap.Error(err))
		return false, nil
	}
	if _, err := o.save(ctx, roomID, snap); err != nil {
		if errors.IsInvalidArgument(err) {
			o.logger.Warn("skipping invalid server snapshot",
				zap.String("character_id", rec.CharacterID),
				zap.Error(err))
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (o *orchestrator) save(ctx context.Context, roomID string, snap equipment.Snapshot) (equipment.Snapshot, error) {
	syncedAt := snap.LastModified
	out, err := o.snapshots.Save(ctx, snapshot.SaveInput{
		RoomID:   roomID,
		Snapshot: snap,
		SyncedAt: &syncedAt,
	})
	if err != nil {
		return equipment.Snapshot{}, errors.Wrapf(err, "failed to cache character %s", snap.CharacterID)
	}
	return out.Entry.Snapshot, nil
}

// snapshotFromRecord decodes a server record. The record's id, name and
// timestamp win over whatever the payload carries.
func snapshotFromRecord(rec *entities.CharacterRecord) (equipment.Snapshot, error) {
	if rec == nil {
		return equipment.Snapshot{}, errors.Internal("server returned no record")
	}
	snap, err := equipment.UnmarshalSnapshot(rec.Data)
	if err != nil {
		return equipment.Snapshot{}, errors.Wrapf(err, "character %s", rec.CharacterID)
	}
	snap.CharacterID = rec.CharacterID
	if rec.Name != "" {
		snap.Name = rec.Name
	}
	snap.Touch(rec.UpdatedAt)
	return snap, nil
}
