package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/mkurosawa/mystery-engine/pkg/game"
)

// AccuseRequest names the suspect the player accuses.
type AccuseRequest struct {
	SessionID   uuid.UUID `json:"session_id"`
	CharacterID string    `json:"character_id"`
}

// AccuseResponse is the endgame verdict.
type AccuseResponse struct {
	Accused   string `json:"accused"`
	IsCorrect bool   `json:"is_correct"`
	Title     string `json:"title"`
	Text      string `json:"text"`
	Truth     string `json:"truth,omitempty"`
}

// AccuseHandler resolves accusations.
type AccuseHandler struct {
	manager *game.Manager
	logger  *slog.Logger
}

func NewAccuseHandler(manager *game.Manager, logger *slog.Logger) *AccuseHandler {
	return &AccuseHandler{
		manager: manager,
		logger:  logger,
	}
}

// ServeHTTP handles POST /v1/accuse.
func (h *AccuseHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodPost {
		writeError(w, h.logger, http.StatusMethodNotAllowed, "Method not allowed. Only POST is supported.")
		return
	}

	var request AccuseRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		h.logger.Warn("Invalid request body", "error", err)
		writeError(w, h.logger, http.StatusBadRequest, "Invalid request body. Expected JSON with 'session_id' and 'character_id' fields.")
		return
	}
	if request.SessionID == uuid.Nil {
		writeError(w, h.logger, http.StatusBadRequest, "session_id is required.")
		return
	}
	if request.CharacterID == "" {
		writeError(w, h.logger, http.StatusBadRequest, "character_id is required.")
		return
	}

	out, err := h.manager.Accuse(r.Context(), request.SessionID, request.CharacterID)
	if err != nil {
		writeGameError(w, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, AccuseResponse{
		Accused:   out.Accused,
		IsCorrect: out.IsCorrect,
		Title:     out.Title,
		Text:      out.Text,
		Truth:     out.Truth,
	})
}
