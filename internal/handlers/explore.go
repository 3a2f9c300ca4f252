package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/mkurosawa/mystery-engine/pkg/game"
)

// ExploreRequest asks to open a location.
type ExploreRequest struct {
	SessionID  uuid.UUID `json:"session_id"`
	LocationID int       `json:"location_id"`
}

// ExploreResponse reports an opened location.
type ExploreResponse struct {
	LocationID      int    `json:"location_id"`
	Name            string `json:"name"`
	Asset           string `json:"asset"`
	Revisit         bool   `json:"revisit"`
	CooldownSeconds int    `json:"cooldown_seconds"`
	CoolingDown     bool   `json:"cooling_down"`
}

// ExploreHandler handles location exploration.
type ExploreHandler struct {
	manager *game.Manager
	logger  *slog.Logger
}

func NewExploreHandler(manager *game.Manager, logger *slog.Logger) *ExploreHandler {
	return &ExploreHandler{
		manager: manager,
		logger:  logger,
	}
}

// ServeHTTP handles POST /v1/explore.
func (h *ExploreHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodPost {
		writeError(w, h.logger, http.StatusMethodNotAllowed, "Method not allowed. Only POST is supported.")
		return
	}

	var request ExploreRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		h.logger.Warn("Invalid request body", "error", err)
		writeError(w, h.logger, http.StatusBadRequest, "Invalid request body. Expected JSON with 'session_id' and 'location_id' fields.")
		return
	}
	if request.SessionID == uuid.Nil {
		writeError(w, h.logger, http.StatusBadRequest, "session_id is required.")
		return
	}

	result, err := h.manager.Explore(r.Context(), request.SessionID, request.LocationID)
	if err != nil {
		writeGameError(w, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, ExploreResponse{
		LocationID:      result.LocationID,
		Name:            result.Name,
		Asset:           result.Asset,
		Revisit:         result.Revisit,
		CooldownSeconds: int(result.Remaining.Seconds()),
		CoolingDown:     result.Remaining > 0,
	})
}
