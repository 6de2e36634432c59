package snapshot

import (
	"context"
	"database/sql"
	stderrors "errors"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite" // sqlite driver

	"github.com/Zevankai/Equipment-Tool/internal/entities/equipment"
	"github.com/Zevankai/Equipment-Tool/internal/errors"
	"github.com/Zevankai/Equipment-Tool/internal/pkg/sqlitemigrate"
	"github.com/Zevankai/Equipment-Tool/internal/repositories/snapshot/migrations"
)

const (
	queryGet = `SELECT room_id, data, last_modified, synced_at FROM character_snapshots
WHERE room_id = ?1 AND character_id = ?2`

	queryList = `SELECT room_id, data, last_modified, synced_at FROM character_snapshots
WHERE room_id = ?1 ORDER BY character_id`

	querySave = `INSERT INTO character_snapshots (room_id, character_id, name, data, last_modified, synced_at)
VALUES (?1, ?2, ?3, ?4, ?5, COALESCE(?6, 0))
ON CONFLICT (room_id, character_id) DO UPDATE SET
    name = excluded.name,
    data = excluded.data,
    last_modified = excluded.last_modified,
    synced_at = COALESCE(?6, character_snapshots.synced_at)
RETURNING synced_at`

	queryDelete = `DELETE FROM character_snapshots WHERE room_id = ?1 AND character_id = ?2`

	queryListRooms = `SELECT room_id FROM character_snapshots
UNION
SELECT room_id FROM character_tombstones
ORDER BY room_id`

	queryPutTombstone = `INSERT INTO character_tombstones (room_id, character_id, deleted_at)
VALUES (?1, ?2, ?3)
ON CONFLICT (room_id, character_id) DO UPDATE SET deleted_at = excluded.deleted_at`

	queryListTombstones = `SELECT character_id, deleted_at FROM character_tombstones
WHERE room_id = ?1 ORDER BY character_id`

	queryClearTombstone = `DELETE FROM character_tombstones WHERE room_id = ?1 AND character_id = ?2`
)

// SQLiteRepository stores snapshots in a single SQLite file
type SQLiteRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

var _ Repository = (*SQLiteRepository)(nil)

// SQLiteConfig contains configuration for the SQLite snapshot cache.
type SQLiteConfig struct {
	Path   string
	Logger *zap.Logger
}

// Validate validates the SQLiteConfig.
func (cfg *SQLiteConfig) Validate() error {
	if cfg == nil {
		return errors.InvalidArgument("config cannot be nil")
	}
	if strings.TrimSpace(cfg.Path) == "" {
		return errors.InvalidArgument("cache path is required")
	}
	return nil
}

func toMillis(t time.Time) int64 {
	return t.UTC().UnixMilli()
}

func fromMillis(ms int64) time.Time {
	if ms == 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms).UTC()
}

// OpenSQLite opens the cache file and applies the embedded migrations
func OpenSQLite(ctx context.Context, cfg *SQLiteConfig) (*SQLiteRepository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	l := cfg.Logger
	if l == nil {
		l = zap.NewNop()
	}

	dsn := filepath.Clean(cfg.Path) + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, errors.Storage(err, "open sqlite cache")
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, errors.Storage(err, "ping sqlite cache")
	}
	if err := sqlitemigrate.Apply(ctx, db, migrations.FS, ""); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "migrate sqlite cache")
	}

	return &SQLiteRepository{db: db, logger: l.Named("snapshot.sqlite")}, nil
}

// Close closes the SQLite handle.
func (r *SQLiteRepository) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}

// Get implements Repository
func (r *SQLiteRepository) Get(ctx context.Context, input GetInput) (*GetOutput, error) {
	if err := validateKey(input.RoomID, input.CharacterID); err != nil {
		return nil, err
	}

	entry, err := scanEntry(r.db.QueryRowContext(ctx, queryGet, input.RoomID, input.CharacterID))
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, notFound(input.RoomID, input.CharacterID)
		}
		return nil, err
	}
	return &GetOutput{Entry: entry}, nil
}

// Save implements Repository
func (r *SQLiteRepository) Save(ctx context.Context, input SaveInput) (*SaveOutput, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	snap := input.Snapshot.Clone()
	snap.Touch(snap.LastModified)
	data, err := equipment.MarshalSnapshot(snap)
	if err != nil {
		return nil, err
	}

	var synced any
	if input.SyncedAt != nil {
		synced = toMillis(*input.SyncedAt)
	}

	var syncedAt int64
	err = r.db.QueryRowContext(ctx, querySave,
		input.RoomID, snap.CharacterID, snap.Name, data, toMillis(snap.LastModified), synced,
	).Scan(&syncedAt)
	if err != nil {
		return nil, errors.Storagef(err, "failed to save snapshot %s", snap.CharacterID)
	}

	r.logger.Debug("saved snapshot",
		zap.String("room_id", input.RoomID),
		zap.String("character_id", snap.CharacterID),
		zap.Time("last_modified", snap.LastModified),
		zap.Bool("synced", input.SyncedAt != nil))

	return &SaveOutput{Entry: Entry{
		RoomID:   input.RoomID,
		Snapshot: snap,
		SyncedAt: fromMillis(syncedAt),
	}}, nil
}

// List implements Repository
func (r *SQLiteRepository) List(ctx context.Context, input ListInput) (*ListOutput, error) {
	if strings.TrimSpace(input.RoomID) == "" {
		return nil, errors.InvalidArgument("room ID cannot be empty")
	}

	rows, err := r.db.QueryContext(ctx, queryList, input.RoomID)
	if err != nil {
		return nil, errors.Storagef(err, "failed to list snapshots of room %s", input.RoomID)
	}
	defer func() { _ = rows.Close() }()

	var entries []Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Storagef(err, "failed to list snapshots of room %s", input.RoomID)
	}
	return &ListOutput{Entries: entries}, nil
}

// Delete implements Repository
func (r *SQLiteRepository) Delete(ctx context.Context, input DeleteInput) (*DeleteOutput, error) {
	if err := validateKey(input.RoomID, input.CharacterID); err != nil {
		return nil, err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, errors.Storagef(err, "failed to delete snapshot %s", input.CharacterID)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, queryDelete, input.RoomID, input.CharacterID)
	if err != nil {
		return nil, errors.Storagef(err, "failed to delete snapshot %s", input.CharacterID)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, errors.Storagef(err, "failed to delete snapshot %s", input.CharacterID)
	}
	if n == 0 {
		return nil, notFound(input.RoomID, input.CharacterID)
	}

	if !input.DeletedAt.IsZero() {
		if _, err := tx.ExecContext(ctx, queryPutTombstone,
			input.RoomID, input.CharacterID, toMillis(input.DeletedAt)); err != nil {
			return nil, errors.Storagef(err, "failed to record deletion of %s", input.CharacterID)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, errors.Storagef(err, "failed to delete snapshot %s", input.CharacterID)
	}

	r.logger.Debug("deleted snapshot",
		zap.String("room_id", input.RoomID),
		zap.String("character_id", input.CharacterID),
		zap.Bool("tombstone", !input.DeletedAt.IsZero()))

	return &DeleteOutput{}, nil
}

// ListTombstones implements Repository
func (r *SQLiteRepository) ListTombstones(ctx context.Context, input ListTombstonesInput) (*ListTombstonesOutput, error) {
	if strings.TrimSpace(input.RoomID) == "" {
		return nil, errors.InvalidArgument("room ID cannot be empty")
	}

	rows, err := r.db.QueryContext(ctx, queryListTombstones, input.RoomID)
	if err != nil {
		return nil, errors.Storagef(err, "failed to list tombstones of room %s", input.RoomID)
	}
	defer func() { _ = rows.Close() }()

	var out []Tombstone
	for rows.Next() {
		t := Tombstone{RoomID: input.RoomID}
		var deletedAt int64
		if err := rows.Scan(&t.CharacterID, &deletedAt); err != nil {
			return nil, errors.Storage(err, "failed to scan tombstone")
		}
		t.DeletedAt = fromMillis(deletedAt)
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Storagef(err, "failed to list tombstones of room %s", input.RoomID)
	}
	return &ListTombstonesOutput{Tombstones: out}, nil
}

// ClearTombstone implements Repository
func (r *SQLiteRepository) ClearTombstone(ctx context.Context, input ClearTombstoneInput) (*ClearTombstoneOutput, error) {
	if err := validateKey(input.RoomID, input.CharacterID); err != nil {
		return nil, err
	}
	if _, err := r.db.ExecContext(ctx, queryClearTombstone, input.RoomID, input.CharacterID); err != nil {
		return nil, errors.Storagef(err, "failed to clear tombstone of %s", input.CharacterID)
	}
	return &ClearTombstoneOutput{}, nil
}

// ListRooms implements Repository
func (r *SQLiteRepository) ListRooms(ctx context.Context, _ ListRoomsInput) (*ListRoomsOutput, error) {
	rows, err := r.db.QueryContext(ctx, queryListRooms)
	if err != nil {
		return nil, errors.Storage(err, "failed to list cached rooms")
	}
	defer func() { _ = rows.Close() }()

	var rooms []string
	for rows.Next() {
		var room string
		if err := rows.Scan(&room); err != nil {
			return nil, errors.Storage(err, "failed to scan cached room")
		}
		rooms = append(rooms, room)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Storage(err, "failed to list cached rooms")
	}
	return &ListRoomsOutput{RoomIDs: rooms}, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

// scanEntry passes sql.ErrNoRows through untouched so callers can map it.
// The last_modified column wins over the timestamp inside the payload.
func scanEntry(row rowScanner) (Entry, error) {
	var (
		entry        Entry
		data         []byte
		lastModified int64
		syncedAt     int64
	)
	if err := row.Scan(&entry.RoomID, &data, &lastModified, &syncedAt); err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return Entry{}, err
		}
		return Entry{}, errors.Storage(err, "failed to scan snapshot")
	}

	snap, err := equipment.UnmarshalSnapshot(data)
	if err != nil {
		return Entry{}, errors.Storage(err, "cached snapshot is unreadable")
	}
	snap.LastModified = fromMillis(lastModified)
	entry.Snapshot = snap
	entry.SyncedAt = fromMillis(syncedAt)
	return entry, nil
}

func notFound(roomID, characterID string) error {
	return errors.NotFoundf("character %s is not cached for room %s", characterID, roomID).
		WithMeta("room_id", roomID).
		WithMeta("character_id", characterID)
}
