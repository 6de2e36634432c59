package character

import (
	"context"
	"encoding/json"
	stderrors "errors"

	redis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Zevankai/Equipment-Tool/internal/entities"
	"github.com/Zevankai/Equipment-Tool/internal/errors"
	"github.com/Zevankai/Equipment-Tool/internal/pkg/clock"
	redisclient "github.com/Zevankai/Equipment-Tool/internal/redis"
)

const (
	characterKeyPrefix = "character:"
	roomIndexPrefix    = "room:"
	roomIndexSuffix    = ":characters"
)

func characterKey(roomID, characterID string) string {
	return characterKeyPrefix + roomID + ":" + characterID
}

func roomIndexKey(roomID string) string {
	return roomIndexPrefix + roomID + roomIndexSuffix
}

type redisRepository struct {
	client redisclient.Client
	clock  clock.Clock
	logger *zap.Logger
}

// RedisConfig contains configuration for the Redis character repository.
type RedisConfig struct {
	Client redisclient.Client
	Clock  clock.Clock
	Logger *zap.Logger
}

// Validate validates the RedisConfig.
func (cfg *RedisConfig) Validate() error {
	if cfg == nil {
		return errors.InvalidArgument("config cannot be nil")
	}
	if cfg.Client == nil {
		return errors.InvalidArgument("client cannot be nil")
	}
	return nil
}

// NewRedis creates a new Redis-backed character repository
func NewRedis(cfg *RedisConfig) (Repository, error) {
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

	return &redisRepository{
		client: cfg.Client,
		clock:  c,
		logger: l.Named("character.redis"),
	}, nil
}

func (r *redisRepository) ListByRoom(ctx context.Context, input ListByRoomInput) (*ListByRoomOutput, error) {
	if err := validateRoom(input.RoomID); err != nil {
		return nil, err
	}

	indexKey := roomIndexKey(input.RoomID)
	ids, err := r.client.SMembers(ctx, indexKey).Result()
	if err != nil {
		return nil, errors.Storagef(err, "failed to read room index %s", indexKey)
	}

	characters := make(entities.RoomCharacters, len(ids))
	if len(ids) == 0 {
		return &ListByRoomOutput{Characters: characters}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = characterKey(input.RoomID, id)
	}
	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, errors.Storagef(err, "failed to read characters of room %s", input.RoomID)
	}

	var stale []interface{}
	for i, v := range values {
		raw, ok := v.(string)
		if !ok {
			stale = append(stale, ids[i])
			continue
		}
		rec, err := decodeRecord(raw)
		if err != nil {
			r.logger.Warn("skipping unreadable character record",
				zap.String("key", keys[i]),
				zap.Error(err))
			continue
		}
		characters[rec.CharacterID] = rec
	}

	if len(stale) > 0 {
		r.logger.Warn("character missing, cleaning up room index",
			zap.String("room_id", input.RoomID),
			zap.Int("stale", len(stale)))
		if err := r.client.SRem(ctx, indexKey, stale...).Err(); err != nil {
			r.logger.Error("failed to clean room index", zap.String("index_key", indexKey), zap.Error(err))
		}
	}

	r.logger.Debug("listed room",
		zap.String("room_id", input.RoomID),
		zap.Int("count", len(characters)))

	return &ListByRoomOutput{Characters: characters}, nil
}

func (r *redisRepository) Get(ctx context.Context, input GetInput) (*GetOutput, error) {
	if err := validateKey(input.RoomID, input.CharacterID); err != nil {
		return nil, err
	}

	rec, err := r.get(ctx, input.RoomID, input.CharacterID)
	if err != nil {
		return nil, err
	}
	return &GetOutput{Character: rec}, nil
}

func (r *redisRepository) Upsert(ctx context.Context, input UpsertInput) (*UpsertOutput, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	now := clock.Stamp(r.clock)
	rec := &entities.CharacterRecord{
		RoomID:      input.RoomID,
		CharacterID: input.CharacterID,
		Name:        input.Name,
		Data:        payload(input.Data),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	created := true
	existing, err := r.get(ctx, input.RoomID, input.CharacterID)
	switch {
	case err == nil:
		created = false
		rec.CreatedAt = existing.CreatedAt
	case !errors.IsNotFound(err):
		return nil, err
	}

	if err := r.write(ctx, rec); err != nil {
		return nil, err
	}

	r.logger.Debug("upserted character",
		zap.String("room_id", rec.RoomID),
		zap.String("character_id", rec.CharacterID),
		zap.Bool("created", created))

	return &UpsertOutput{Character: rec, Created: created}, nil
}

func (r *redisRepository) Update(ctx context.Context, input UpdateInput) (*UpdateOutput, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	rec, err := r.get(ctx, input.RoomID, input.CharacterID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		rec.Name = *input.Name
	}
	if input.Data != nil {
		rec.Data = payload(input.Data)
	}
	rec.UpdatedAt = clock.Stamp(r.clock)

	if err := r.write(ctx, rec); err != nil {
		return nil, err
	}
	return &UpdateOutput{Character: rec}, nil
}

func (r *redisRepository) Delete(ctx context.Context, input DeleteInput) (*DeleteOutput, error) {
	if err := validateKey(input.RoomID, input.CharacterID); err != nil {
		return nil, err
	}

	key := characterKey(input.RoomID, input.CharacterID)
	pipe := r.client.TxPipeline()
	del := pipe.Del(ctx, key)
	pipe.SRem(ctx, roomIndexKey(input.RoomID), input.CharacterID)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, errors.Storagef(err, "failed to delete character %s", input.CharacterID)
	}

	if del.Val() == 0 {
		return nil, notFound(input.RoomID, input.CharacterID)
	}
	return &DeleteOutput{}, nil
}

func (r *redisRepository) get(ctx context.Context, roomID, characterID string) (*entities.CharacterRecord, error) {
	raw, err := r.client.Get(ctx, characterKey(roomID, characterID)).Result()
	if err != nil {
		if stderrors.Is(err, redis.Nil) {
			return nil, notFound(roomID, characterID)
		}
		return nil, errors.Storagef(err, "failed to get character %s", characterID)
	}
	return decodeRecord(raw)
}

func (r *redisRepository) write(ctx context.Context, rec *entities.CharacterRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return errors.Wrapf(err, "failed to marshal character %s", rec.CharacterID)
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, characterKey(rec.RoomID, rec.CharacterID), data, 0)
	pipe.SAdd(ctx, roomIndexKey(rec.RoomID), rec.CharacterID)
	if _, err := pipe.Exec(ctx); err != nil {
		return errors.Storagef(err, "failed to write character %s", rec.CharacterID)
	}
	return nil
}

func decodeRecord(raw string) (*entities.CharacterRecord, error) {
	var rec entities.CharacterRecord
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return nil, errors.Storage(err, "failed to unmarshal character record")
	}
	return &rec, nil
}

func notFound(roomID, characterID string) error {
	return errors.NotFoundf("character %s not found in room %s", characterID, roomID).
		WithMeta("room_id", roomID).
		WithMeta("character_id", characterID)
}
