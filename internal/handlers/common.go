package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/mkurosawa/mystery-engine/internal/services"
	"github.com/mkurosawa/mystery-engine/pkg/game"
	"github.com/mkurosawa/mystery-engine/pkg/unlock"
)

// ErrorResponse is the JSON error envelope for all endpoints.
type ErrorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, logger *slog.Logger, status int, v any) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, logger *slog.Logger, status int, msg string) {
	writeJSON(w, logger, status, ErrorResponse{Error: msg})
}

// writeGameError maps engine errors onto HTTP status codes. Provider
// failures relay the upstream status so clients can distinguish a rate
// limit from a broken key.
func writeGameError(w http.ResponseWriter, logger *slog.Logger, err error) {
	var provErr *services.ProviderError
	switch {
	case errors.Is(err, game.ErrSessionNotFound):
		writeError(w, logger, http.StatusNotFound, "Session not found")
	case errors.Is(err, unlock.ErrUnknownLocation):
		writeError(w, logger, http.StatusNotFound, "Unknown location")
	case errors.Is(err, game.ErrUnknownCharacter):
		writeError(w, logger, http.StatusBadRequest, "Unknown character")
	case errors.Is(err, game.ErrTurnInFlight):
		writeError(w, logger, http.StatusConflict, "A turn is already in progress for this session")
	case errors.Is(err, unlock.ErrCooldownActive):
		writeError(w, logger, http.StatusConflict, "Exploration cooldown is still active")
	case errors.As(err, &provErr):
		logger.Error("Model provider error", "status", provErr.StatusCode, "message", provErr.Message)
		writeError(w, logger, provErr.StatusCode, "Model provider error: "+provErr.Message)
	default:
		logger.Error("Request failed", "error", err)
		writeError(w, logger, http.StatusInternalServerError, "Internal error. Please try again.")
	}
}
