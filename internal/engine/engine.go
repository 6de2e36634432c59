package engine

import (
	"context"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/Zevankai/Equipment-Tool/internal/errors"
	"github.com/Zevankai/Equipment-Tool/internal/repositories/character"
)

type engine struct {
	repository character.Repository
	logger     *zap.Logger
}

// Config contains the engine's collaborators
type Config struct {
	Repository character.Repository
	Logger     *zap.Logger
}

// Validate validates the Config
func (cfg *Config) Validate() error {
	if cfg == nil {
		return errors.InvalidArgument("config cannot be nil")
	}
	vb := errors.NewValidationBuilder()
	if cfg.Repository == nil {
		vb.RequiredField("repository")
	}
	return vb.Build()
}

// New creates a reconciliation engine
func New(cfg *Config) (Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	l := cfg.Logger
	if l == nil {
		l = zap.NewNop()
	}

	return &engine{
		repository: cfg.Repository,
		logger:     l.Named("engine"),
	}, nil
}

func (e *engine) Reconcile(ctx context.Context, input *ReconcileInput) (*ReconcileOutput, error) {
	if input == nil || strings.TrimSpace(input.RoomID) == "" {
		return nil, errors.InvalidArgument("room ID is required")
	}

	ids := make([]string, 0, len(input.Local))
	for id := range input.Local {
		if strings.TrimSpace(id) == "" {
			return nil, errors.InvalidArgument("character ID cannot be empty")
		}
		if strings.Contains(id, character.IDSeparator) {
			return nil, errors.InvalidArgumentf("character ID %q cannot contain %s", id, character.IDSeparator)
		}
		ids = append(ids, id)
	}
	sort.Strings(ids)

	before, err := e.repository.ListByRoom(ctx, character.ListByRoomInput{RoomID: input.RoomID})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read room %s", input.RoomID)
	}

	result := Result{
		Created:   []string{},
		Updated:   []string{},
		Conflicts: []Conflict{},
		Synced:    []string{},
	}

	for _, id := range ids {
		local := input.Local[id]
		remote := before.Characters[id]

		switch Compare(local, remote) {
		case DispositionCreated:
			if err := e.write(ctx, input.RoomID, id, local); err != nil {
				return nil, err
			}
			result.Created = append(result.Created, id)
		case DispositionUpdated:
			if err := e.write(ctx, input.RoomID, id, local); err != nil {
				return nil, err
			}
			result.Updated = append(result.Updated, id)
		case DispositionConflict:
			result.Conflicts = append(result.Conflicts, Conflict{
				CharacterID: id,
				Local:       local,
				Server:      remote.Clone(),
			})
		case DispositionSynced:
			result.Synced = append(result.Synced, id)
		}
	}

	after, err := e.repository.ListByRoom(ctx, character.ListByRoomInput{RoomID: input.RoomID})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to re-read room %s", input.RoomID)
	}

	e.logger.Info("reconciled room",
		zap.String("room_id", input.RoomID),
		zap.Int("local", len(ids)),
		zap.Int("created", len(result.Created)),
		zap.Int("updated", len(result.Updated)),
		zap.Int("conflicts", len(result.Conflicts)),
		zap.Int("synced", len(result.Synced)))

	return &ReconcileOutput{
		Characters: after.Characters,
		Result:     result,
	}, nil
}

func (e *engine) write(ctx context.Context, roomID, characterID string, local LocalCharacter) error {
	_, err := e.repository.Upsert(ctx, character.UpsertInput{
		RoomID:      roomID,
		CharacterID: characterID,
		Name:        local.Name,
		Data:        local.Data,
	})
	if err != nil {
		return errors.Wrapf(err, "failed to write character %s", characterID)
	}
	return nil
}
