package rest

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/Zevankai/Equipment-Tool/internal/errors"
)

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func (h *CharacterHandler) writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	msg := errors.GetMessage(err)

	var ledgerErr *errors.Error
	switch {
	case code == errors.CodeStorage:
		h.logger.Error("storage failure", zap.Error(err))
		code, msg = errors.CodeInternal, "internal storage error"
	case !errors.As(err, &ledgerErr):
		h.logger.Error("request failed", zap.Error(err))
		code, msg = errors.CodeInternal, "internal error"
	}
	writeJSON(w, code.HTTPStatus(), ErrorResponse{Code: code, Message: msg})
}
