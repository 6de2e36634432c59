// Package v1alpha1 handles the character gRPC service interface
package v1alpha1

import (
	"context"

	"go.uber.org/zap"

	apiv1alpha1 "github.com/Zevankai/Equipment-Tool/internal/api/v1alpha1"
	"github.com/Zevankai/Equipment-Tool/internal/errors"
	"github.com/Zevankai/Equipment-Tool/internal/services/character"
)

// CharacterHandlerConfig holds dependencies for the character handler
type CharacterHandlerConfig struct {
	CharacterService character.Service
	Logger           *zap.Logger
}

// Validate ensures all required dependencies are present
func (c *CharacterHandlerConfig) Validate() error {
	if c == nil {
		return errors.InvalidArgument("config cannot be nil")
	}
	if c.CharacterService == nil {
		return errors.InvalidArgument("character service is required")
	}
	return nil
}

// CharacterHandler implements the character gRPC service
type CharacterHandler struct {
	apiv1alpha1.UnimplementedCharacterServiceServer
	characterService character.Service
	logger           *zap.Logger
}

// NewCharacterHandler creates a new character handler with the given configuration
func NewCharacterHandler(cfg *CharacterHandlerConfig) (*CharacterHandler, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	l := cfg.Logger
	if l == nil {
		l = zap.NewNop()
	}

	return &CharacterHandler{
		characterService: cfg.CharacterService,
		logger:           l.Named("handler.character"),
	}, nil
}

// ListCharacters returns every record stored for a room
func (h *CharacterHandler) ListCharacters(
	ctx context.Context,
	req *apiv1alpha1.ListCharactersRequest,
) (*apiv1alpha1.ListCharactersResponse, error) {
	if req.RoomID == "" {
		return nil, errors.ToGRPCError(errors.InvalidArgument("room_id is required"))
	}

	out, err := h.characterService.ListCharacters(ctx, &character.ListCharactersInput{RoomID: req.RoomID})
	if err != nil {
		return nil, h.toStatus(err)
	}

	return &apiv1alpha1.ListCharactersResponse{
		Characters: apiv1alpha1.CharactersFromRoom(out.Characters),
	}, nil
}

// SaveCharacter creates or replaces a record
func (h *CharacterHandler) SaveCharacter(
	ctx context.Context,
	req *apiv1alpha1.SaveCharacterRequest,
) (*apiv1alpha1.SaveCharacterResponse, error) {
	if req.RoomID == "" {
		return nil, errors.ToGRPCError(errors.InvalidArgument("room_id is required"))
	}
	if req.CharacterID == "" {
		return nil, errors.ToGRPCError(errors.InvalidArgument("character_id is required"))
	}

	out, err := h.characterService.SaveCharacter(ctx, &character.SaveCharacterInput{
		RoomID:      req.RoomID,
		CharacterID: req.CharacterID,
		Name:        req.Name,
		Data:        req.Data,
	})
	if err != nil {
		return nil, h.toStatus(err)
	}

	return &apiv1alpha1.SaveCharacterResponse{
		Character: apiv1alpha1.CharacterFromRecord(out.Character),
		Created:   out.Created,
	}, nil
}

// UpdateCharacter merges a name and/or payload into an existing record
func (h *CharacterHandler) UpdateCharacter(
	ctx context.Context,
	req *apiv1alpha1.UpdateCharacterRequest,
) (*apiv1alpha1.UpdateCharacterResponse, error) {
	if req.RoomID == "" {
		return nil, errors.ToGRPCError(errors.InvalidArgument("room_id is required"))
	}
	if req.CharacterID == "" {
		return nil, errors.ToGRPCError(errors.InvalidArgument("character_id is required"))
	}

	out, err := h.characterService.UpdateCharacter(ctx, &character.UpdateCharacterInput{
		RoomID:      req.RoomID,
		CharacterID: req.CharacterID,
		Name:        req.Name,
		Data:        req.Data,
	})
	if err != nil {
		return nil, h.toStatus(err)
	}

	return &apiv1alpha1.UpdateCharacterResponse{
		Character: apiv1alpha1.CharacterFromRecord(out.Character),
	}, nil
}

// DeleteCharacter removes a record
func (h *CharacterHandler) DeleteCharacter(
	ctx context.Context,
	req *apiv1alpha1.DeleteCharacterRequest,
) (*apiv1alpha1.DeleteCharacterResponse, error) {
	if req.RoomID == "" {
		return nil, errors.ToGRPCError(errors.InvalidArgument("room_id is required"))
	}
	if req.CharacterID == "" {
		return nil, errors.ToGRPCError(errors.InvalidArgument("character_id is required"))
	}

	if _, err := h.characterService.DeleteCharacter(ctx, &character.DeleteCharacterInput{
		RoomID:      req.RoomID,
		CharacterID: req.CharacterID,
	}); err != nil {
		return nil, h.toStatus(err)
	}

	return &apiv1alpha1.DeleteCharacterResponse{}, nil
}

// SyncCharacters reconciles the caller's characters against the room
func (h *CharacterHandler) SyncCharacters(
	ctx context.Context,
	req *apiv1alpha1.SyncCharactersRequest,
) (*apiv1alpha1.SyncCharactersResponse, error) {
	if req.RoomID == "" {
		return nil, errors.ToGRPCError(errors.InvalidArgument("room_id is required"))
	}

	out, err := h.characterService.SyncCharacters(ctx, &character.SyncCharactersInput{
		RoomID: req.RoomID,
		Local:  apiv1alpha1.EngineLocalMap(req.LocalData),
	})
	if err != nil {
		return nil, h.toStatus(err)
	}

	return &apiv1alpha1.SyncCharactersResponse{
		Characters: apiv1alpha1.CharactersFromRoom(out.Characters),
		SyncResult: apiv1alpha1.SyncResultFromEngine(out.Result),
	}, nil
}

// toStatus hides storage details from callers
func (h *CharacterHandler) toStatus(err error) error {
	if errors.IsStorage(err) {
		h.logger.Error("storage failure", zap.Error(err))
		return errors.ToGRPCError(errors.Internal("internal storage error"))
	}
	return errors.ToGRPCError(err)
}
