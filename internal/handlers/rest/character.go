package rest

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	apiv1alpha1 "github.com/Zevankai/Equipment-Tool/internal/api/v1alpha1"
	"github.com/Zevankai/Equipment-Tool/internal/errors"
	"github.com/Zevankai/Equipment-Tool/internal/services/character"
)

// CharacterHandlerConfig holds dependencies for the HTTP character handler
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

// CharacterHandler serves the character boundary over HTTP
type CharacterHandler struct {
	characterService character.Service
	logger           *zap.Logger
}

// NewCharacterHandler creates a new HTTP character handler
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
		logger:           l.Named("rest.character"),
	}, nil
}

// List handles GET /api/characters?roomId=
func (h *CharacterHandler) List(w http.ResponseWriter, r *http.Request) {
	roomID := r.URL.Query().Get("roomId")
	if roomID == "" {
		h.writeError(w, errors.InvalidArgument("roomId is required"))
		return
	}

	out, err := h.characterService.ListCharacters(r.Context(), &character.ListCharactersInput{RoomID: roomID})
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, apiv1alpha1.ListCharactersResponse{
		Characters: apiv1alpha1.CharactersFromRoom(out.Characters),
	})
}

// Save handles POST /api/characters
func (h *CharacterHandler) Save(w http.ResponseWriter, r *http.Request) {
	var req apiv1alpha1.SaveCharacterRequest
	if !h.decode(w, r, &req) {
		return
	}

	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("roomId", req.RoomID, vb)
	errors.ValidateRequired("characterId", req.CharacterID, vb)
	if err := vb.Build(); err != nil {
		h.writeError(w, err)
		return
	}

	out, err := h.characterService.SaveCharacter(r.Context(), &character.SaveCharacterInput{
		RoomID:      req.RoomID,
		CharacterID: req.CharacterID,
		Name:        req.Name,
		Data:        req.Data,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}

	status := http.StatusOK
	if out.Created {
		status = http.StatusCreated
	}
	writeJSON(w, status, apiv1alpha1.CharacterFromRecord(out.Character))
}

// Update handles PUT /api/characters/{characterId}
func (h *CharacterHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req apiv1alpha1.UpdateCharacterRequest
	if !h.decode(w, r, &req) {
		return
	}
	req.CharacterID = chi.URLParam(r, "characterId")

	if req.RoomID == "" {
		h.writeError(w, errors.InvalidArgument("roomId is required"))
		return
	}

	out, err := h.characterService.UpdateCharacter(r.Context(), &character.UpdateCharacterInput{
		RoomID:      req.RoomID,
		CharacterID: req.CharacterID,
		Name:        req.Name,
		Data:        req.Data,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, apiv1alpha1.CharacterFromRecord(out.Character))
}

// Delete handles DELETE /api/characters/{characterId}?roomId=
func (h *CharacterHandler) Delete(w http.ResponseWriter, r *http.Request) {
	roomID := r.URL.Query().Get("roomId")
	if roomID == "" {
		h.writeError(w, errors.InvalidArgument("roomId is required"))
		return
	}

	if _, err := h.characterService.DeleteCharacter(r.Context(), &character.DeleteCharacterInput{
		RoomID:      roomID,
		CharacterID: chi.URLParam(r, "characterId"),
	}); err != nil {
		h.writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Sync handles POST /api/sync
func (h *CharacterHandler) Sync(w http.ResponseWriter, r *http.Request) {
	var req apiv1alpha1.SyncCharactersRequest
	if !h.decode(w, r, &req) {
		return
	}
	if req.RoomID == "" {
		h.writeError(w, errors.InvalidArgument("roomId is required"))
		return
	}

	out, err := h.characterService.SyncCharacters(r.Context(), &character.SyncCharactersInput{
		RoomID: req.RoomID,
		Local:  apiv1alpha1.EngineLocalMap(req.LocalData),
	})
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, apiv1alpha1.SyncCharactersResponse{
		Characters: apiv1alpha1.CharactersFromRoom(out.Characters),
		SyncResult: apiv1alpha1.SyncResultFromEngine(out.Result),
	})
}

func (h *CharacterHandler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		h.writeError(w, errors.InvalidArgumentf("invalid request body: %v", err))
		return false
	}
	return true
}
