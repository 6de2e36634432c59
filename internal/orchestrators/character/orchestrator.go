// Package character implements the character orchestrator
package character

import (
	"context"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/Zevankai/Equipment-Tool/internal/engine"
	"github.com/Zevankai/Equipment-Tool/internal/entities"
	"github.com/Zevankai/Equipment-Tool/internal/errors"
	characterrepo "github.com/Zevankai/Equipment-Tool/internal/repositories/character"
	"github.com/Zevankai/Equipment-Tool/internal/services/character"
)

// Config holds the dependencies for the character orchestrator
type Config struct {
	CharacterRepo characterrepo.Repository
	Engine        engine.Engine
	Logger        *zap.Logger
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	if c == nil {
		return errors.InvalidArgument("config is required")
	}
	vb := errors.NewValidationBuilder()

	if c.CharacterRepo == nil {
		vb.RequiredField("CharacterRepo")
	}
	if c.Engine == nil {
		vb.RequiredField("Engine")
	}

	return vb.Build()
}

// Orchestrator implements the character.Service interface
type Orchestrator struct {
	characterRepo characterrepo.Repository
	engine        engine.Engine
	logger        *zap.Logger

	// rooms coalesces concurrent listings of the same room
	rooms singleflight.Group
}

// New creates a new character orchestrator
func New(cfg *Config) (*Orchestrator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	l := cfg.Logger
	if l == nil {
		l = zap.NewNop()
	}

	return &Orchestrator{
		characterRepo: cfg.CharacterRepo,
		engine:        cfg.Engine,
		logger:        l.Named("orchestrator.character"),
	}, nil
}

// Ensure Orchestrator implements the Service interface
var _ character.Service = (*Orchestrator)(nil)

// ListCharacters returns every stored record of a room
func (o *Orchestrator) ListCharacters(
	ctx context.Context,
	input *character.ListCharactersInput,
) (*character.ListCharactersOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if strings.TrimSpace(input.RoomID) == "" {
		return nil, errors.InvalidArgument("room ID is required")
	}

	// The shared read outlives any one caller; each caller stops waiting on its own ctx.
	readCtx := context.WithoutCancel(ctx)
	ch := o.rooms.DoChan(input.RoomID, func() (interface{}, error) {
		out, err := o.characterRepo.ListByRoom(readCtx, characterrepo.ListByRoomInput{RoomID: input.RoomID})
		if err != nil {
			return nil, err
		}
		return out.Characters, nil
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		return nil, errors.FromContext(ctx.Err())
	case res = <-ch:
	}
	if res.Err != nil {
		return nil, errors.Wrapf(res.Err, "failed to list room %s", input.RoomID)
	}
	if res.Shared {
		o.logger.Debug("coalesced room listing", zap.String("room_id", input.RoomID))
	}

	return &character.ListCharactersOutput{
		Characters: res.Val.(entities.RoomCharacters).Clone(),
	}, nil
}

// GetCharacter returns one stored record
func (o *Orchestrator) GetCharacter(
	ctx context.Context,
	input *character.GetCharacterInput,
) (*character.GetCharacterOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	out, err := o.characterRepo.Get(ctx, characterrepo.GetInput{
		RoomID:      input.RoomID,
		CharacterID: input.CharacterID,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get character %s", input.CharacterID)
	}
	return &character.GetCharacterOutput{Character: out.Character}, nil
}

// SaveCharacter creates or replaces a record
func (o *Orchestrator) SaveCharacter(
	ctx context.Context,
	input *character.SaveCharacterInput,
) (*character.SaveCharacterOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	out, err := o.characterRepo.Upsert(ctx, characterrepo.UpsertInput{
		RoomID:      input.RoomID,
		CharacterID: input.CharacterID,
		Name:        input.Name,
		Data:        input.Data,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to save character %s", input.CharacterID)
	}

	o.logger.Info("saved character",
		zap.String("room_id", input.RoomID),
		zap.String("character_id", input.CharacterID),
		zap.Bool("created", out.Created))

	return &character.SaveCharacterOutput{Character: out.Character, Created: out.Created}, nil
}

// UpdateCharacter merges the supplied fields into a stored record
func (o *Orchestrator) UpdateCharacter(
	ctx context.Context,
	input *character.UpdateCharacterInput,
) (*character.UpdateCharacterOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.Name == nil && input.Data == nil {
		return nil, errors.InvalidArgument("at least one of name or data must be provided")
	}

	out, err := o.characterRepo.Update(ctx, characterrepo.UpdateInput{
		RoomID:      input.RoomID,
		CharacterID: input.CharacterID,
		Name:        input.Name,
		Data:        input.Data,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to update character %s", input.CharacterID)
	}
	return &character.UpdateCharacterOutput{Character: out.Character}, nil
}

// DeleteCharacter removes a stored record
func (o *Orchestrator) DeleteCharacter(
	ctx context.Context,
	input *character.DeleteCharacterInput,
) (*character.DeleteCharacterOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	if _, err := o.characterRepo.Delete(ctx, characterrepo.DeleteInput{
		RoomID:      input.RoomID,
		CharacterID: input.CharacterID,
	}); err != nil {
		return nil, errors.Wrapf(err, "failed to delete character %s", input.CharacterID)
	}

	o.logger.Info("deleted character",
		zap.String("room_id", input.RoomID),
		zap.String("character_id", input.CharacterID))

	return &character.DeleteCharacterOutput{}, nil
}

// SyncCharacters reconciles the caller's characters against the room
func (o *Orchestrator) SyncCharacters(
	ctx context.Context,
	input *character.SyncCharactersInput,
) (*character.SyncCharactersOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	out, err := o.engine.Reconcile(ctx, &engine.ReconcileInput{
		RoomID: input.RoomID,
		Local:  input.Local,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to sync room %s", input.RoomID)
	}

	return &character.SyncCharactersOutput{
		Characters: out.Characters,
		Result:     out.Result,
	}, nil
}
