package character

import (
	"context"
	"database/sql"
	stderrors "errors"
	"time"

	_ "github.com/lib/pq" // postgres driver
	"go.uber.org/zap"

	"github.com/Zevankai/Equipment-Tool/internal/entities"
	"github.com/Zevankai/Equipment-Tool/internal/errors"
	"github.com/Zevankai/Equipment-Tool/internal/pkg/clock"
)

// Schema is the PostgreSQL layout: one row per (room, character)
const Schema = `
CREATE TABLE IF NOT EXISTS characters (
    room_id TEXT NOT NULL,
    character_id TEXT NOT NULL,
    name TEXT NOT NULL DEFAULT '',
    data JSONB NOT NULL DEFAULT '{}'::jsonb,
    created_at TIMESTAMPTZ NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL,
    PRIMARY KEY (room_id, character_id)
);

CREATE INDEX IF NOT EXISTS characters_room_idx ON characters (room_id);
`

const (
	queryListByRoom = `SELECT room_id, character_id, name, data, created_at, updated_at FROM characters WHERE room_id = $1`

	queryGet = `SELECT room_id, character_id, name, data, created_at, updated_at FROM characters WHERE room_id = $1 AND character_id = $2`

	queryUpsert = `INSERT INTO characters (room_id, character_id, name, data, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $5)
ON CONFLICT (room_id, character_id) DO UPDATE SET
    name = EXCLUDED.name,
    data = EXCLUDED.data,
    updated_at = EXCLUDED.updated_at
RETURNING created_at, (xmax = 0) AS inserted`

	queryUpdate = `UPDATE characters SET
    name = COALESCE($3, name),
    data = COALESCE($4, data),
    updated_at = $5
WHERE room_id = $1 AND character_id = $2
RETURNING room_id, character_id, name, data, created_at, updated_at`

	queryDelete = `DELETE FROM characters WHERE room_id = $1 AND character_id = $2`
)

type postgresRepository struct {
	db     *sql.DB
	clock  clock.Clock
	logger *zap.Logger
}

// PostgresConfig contains configuration for the PostgreSQL character repository.
type PostgresConfig struct {
	DB     *sql.DB
	Clock  clock.Clock
	Logger *zap.Logger
}

// Validate validates the PostgresConfig.
func (cfg *PostgresConfig) Validate() error {
	if cfg == nil {
		return errors.InvalidArgument("config cannot be nil")
	}
	if cfg.DB == nil {
		return errors.InvalidArgument("db cannot be nil")
	}
	return nil
}

// NewPostgres creates a PostgreSQL-backed character repository. The schema
// must already exist; see OpenPostgres.
func NewPostgres(cfg *PostgresConfig) (Repository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := cfg.Clock
	if c == nil {
		c = clock.New()
	}
	l := cfg.Logger
	if l == nil {
		l = zap.NewNop()
	}

	return &postgresRepository{
		db:     cfg.DB,
		clock:  c,
		logger: l.Named("character.postgres"),
	}, nil
}

// OpenPostgres connects to dsn, checks the connection and applies Schema
func OpenPostgres(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, errors.Storage(err, "open postgres")
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, errors.Storage(err, "ping postgres")
	}

	if _, err := db.ExecContext(ctx, Schema); err != nil {
		_ = db.Close()
		return nil, errors.Storage(err, "create schema")
	}

	return db, nil
}

func (r *postgresRepository) ListByRoom(ctx context.Context, input ListByRoomInput) (*ListByRoomOutput, error) {
	if err := validateRoom(input.RoomID); err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, queryListByRoom, input.RoomID)
	if err != nil {
		return nil, errors.Storagef(err, "failed to list room %s", input.RoomID)
	}
	defer func() { _ = rows.Close() }()

	characters := make(entities.RoomCharacters)
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		characters[rec.CharacterID] = rec
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Storagef(err, "failed to list room %s", input.RoomID)
	}

	return &ListByRoomOutput{Characters: characters}, nil
}

func (r *postgresRepository) Get(ctx context.Context, input GetInput) (*GetOutput, error) {
	if err := validateKey(input.RoomID, input.CharacterID); err != nil {
		return nil, err
	}

	rec, err := scanRecord(r.db.QueryRowContext(ctx, queryGet, input.RoomID, input.CharacterID))
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, notFound(input.RoomID, input.CharacterID)
		}
		return nil, err
	}
	return &GetOutput{Character: rec}, nil
}

func (r *postgresRepository) Upsert(ctx context.Context, input UpsertInput) (*UpsertOutput, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	now := clock.Stamp(r.clock)
	data := payload(input.Data)

	var (
		createdAt time.Time
		inserted  bool
	)
	err := r.db.QueryRowContext(ctx, queryUpsert,
		input.RoomID, input.CharacterID, input.Name, []byte(data), now,
	).Scan(&createdAt, &inserted)
	if err != nil {
		return nil, errors.Storagef(err, "failed to upsert character %s", input.CharacterID)
	}

	r.logger.Debug("upserted character",
		zap.String("room_id", input.RoomID),
		zap.String("character_id", input.CharacterID),
		zap.Bool("created", inserted))

	return &UpsertOutput{
		Character: &entities.CharacterRecord{
			RoomID:      input.RoomID,
			CharacterID: input.CharacterID,
			Name:        input.Name,
			Data:        data,
			CreatedAt:   createdAt.UTC(),
			UpdatedAt:   now,
		},
		Created: inserted,
	}, nil
}

func (r *postgresRepository) Update(ctx context.Context, input UpdateInput) (*UpdateOutput, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	var name sql.NullString
	if input.Name != nil {
		name = sql.NullString{String: *input.Name, Valid: true}
	}
	var data any
	if input.Data != nil {
		data = []byte(payload(input.Data))
	}

	rec, err := scanRecord(r.db.QueryRowContext(ctx, queryUpdate,
		input.RoomID, input.CharacterID, name, data, clock.Stamp(r.clock)))
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, notFound(input.RoomID, input.CharacterID)
		}
		return nil, err
	}
	return &UpdateOutput{Character: rec}, nil
}

func (r *postgresRepository) Delete(ctx context.Context, input DeleteInput) (*DeleteOutput, error) {
	if err := validateKey(input.RoomID, input.CharacterID); err != nil {
		return nil, err
	}

	res, err := r.db.ExecContext(ctx, queryDelete, input.RoomID, input.CharacterID)
	if err != nil {
		return nil, errors.Storagef(err, "failed to delete character %s", input.CharacterID)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, errors.Storagef(err, "failed to delete character %s", input.CharacterID)
	}
	if n == 0 {
		return nil, notFound(input.RoomID, input.CharacterID)
	}
	return &DeleteOutput{}, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

// scanRecord passes sql.ErrNoRows through untouched so callers can map it
func scanRecord(row rowScanner) (*entities.CharacterRecord, error) {
	var (
		rec  entities.CharacterRecord
		data []byte
	)
	err := row.Scan(&rec.RoomID, &rec.CharacterID, &rec.Name, &data, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, errors.Storage(err, "failed to scan character record")
	}
	rec.Data = data
	rec.CreatedAt = rec.CreatedAt.UTC()
	rec.UpdatedAt = rec.UpdatedAt.UTC()
	return &rec, nil
}
