package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/mkurosawa/mystery-engine/pkg/game"
)

// TickRequest advances a session's cooldown clock.
type TickRequest struct {
	SessionID uuid.UUID `json:"session_id"`
}

// ClockResponse reports the timed parts of a session.
type ClockResponse struct {
	CoolingDown      bool `json:"cooling_down"`
	RemainingSeconds int  `json:"remaining_seconds"`
	ElapsedSeconds   int  `json:"elapsed_seconds"`
}

// ClockHandler serves the cooldown clock. Clients poll POST /v1/clock
// about once a second while a cooldown runs; the tick is idempotent.
type ClockHandler struct {
	manager *game.Manager
	logger  *slog.Logger
}

func NewClockHandler(manager *game.Manager, logger *slog.Logger) *ClockHandler {
	return &ClockHandler{
		manager: manager,
		logger:  logger,
	}
}

// ServeHTTP handles POST /v1/clock.
func (h *ClockHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodPost {
		writeError(w, h.logger, http.StatusMethodNotAllowed, "Method not allowed. Only POST is supported.")
		return
	}

	var request TickRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		h.logger.Warn("Invalid request body", "error", err)
		writeError(w, h.logger, http.StatusBadRequest, "Invalid request body. Expected JSON with 'session_id' field.")
		return
	}
	if request.SessionID == uuid.Nil {
		writeError(w, h.logger, http.StatusBadRequest, "session_id is required.")
		return
	}

	status, err := h.manager.Tick(r.Context(), request.SessionID)
	if err != nil {
		writeGameError(w, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, ClockResponse{
		CoolingDown:      status.CoolingDown,
		RemainingSeconds: int(status.Remaining.Seconds()),
		ElapsedSeconds:   int(status.Elapsed.Seconds()),
	})
}
