package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/mkurosawa/mystery-engine/pkg/game"
)

// CreateSessionRequest starts a new session for a scenario file.
type CreateSessionRequest struct {
	Scenario   string `json:"scenario"`
	Difficulty string `json:"difficulty,omitempty"`
}

// SessionHandler handles session lifecycle operations.
type SessionHandler struct {
	manager *game.Manager
	logger  *slog.Logger
}

func NewSessionHandler(manager *game.Manager, logger *slog.Logger) *SessionHandler {
	return &SessionHandler{
		manager: manager,
		logger:  logger,
	}
}

// ServeHTTP handles HTTP requests for session operations.
// Routes:
// POST /v1/session         - Create new session
// GET /v1/session/{id}     - Read session state by ID
// POST /v1/session/{id}    - Reset session (same id, fresh progress)
// DELETE /v1/session/{id}  - Delete session by ID
func (h *SessionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	path := strings.TrimPrefix(r.URL.Path, "/v1/session")
	var sessionID uuid.UUID
	var err error

	if path != "" && path != "/" {
		idStr := strings.Trim(path, "/")
		sessionID, err = uuid.Parse(idStr)
		if err != nil {
			h.logger.Warn("Invalid session ID", "id", idStr, "error", err)
			writeError(w, h.logger, http.StatusBadRequest, "Invalid session ID format")
			return
		}
	}

	switch r.Method {
	case http.MethodPost:
		if sessionID == uuid.Nil {
			h.handleCreate(w, r)
			return
		}
		h.handleReset(w, r, sessionID)

	case http.MethodGet:
		if sessionID == uuid.Nil {
			writeError(w, h.logger, http.StatusBadRequest, "Session ID is required for GET requests")
			return
		}
		h.handleRead(w, r, sessionID)

	case http.MethodDelete:
		if sessionID == uuid.Nil {
			writeError(w, h.logger, http.StatusBadRequest, "Session ID is required for DELETE requests")
			return
		}
		h.handleDelete(w, r, sessionID)

	default:
		h.logger.Warn("Method not allowed for session endpoint", "method", r.Method)
		writeError(w, h.logger, http.StatusMethodNotAllowed, "Method not allowed. Supported methods: POST, GET, DELETE")
	}
}

func (h *SessionHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var request CreateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		h.logger.Warn("Invalid request body", "error", err)
		writeError(w, h.logger, http.StatusBadRequest, "Invalid request body. Expected JSON with 'scenario' field.")
		return
	}
	if request.Scenario == "" {
		writeError(w, h.logger, http.StatusBadRequest, "scenario is required.")
		return
	}

	gs, err := h.manager.Create(r.Context(), request.Scenario, request.Difficulty)
	if err != nil {
		h.logger.Warn("Failed to create session", "scenario", request.Scenario, "error", err)
		writeError(w, h.logger, http.StatusBadRequest, "Failed to create session: "+err.Error())
		return
	}

	writeJSON(w, h.logger, http.StatusCreated, gs)
}

func (h *SessionHandler) handleRead(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	s, err := h.manager.Session(r.Context(), id)
	if err != nil {
		writeGameError(w, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, s.State())
}

func (h *SessionHandler) handleReset(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	gs, err := h.manager.Reset(r.Context(), id)
	if err != nil {
		writeGameError(w, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, gs)
}

func (h *SessionHandler) handleDelete(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	if err := h.manager.Delete(r.Context(), id); err != nil {
		writeGameError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
