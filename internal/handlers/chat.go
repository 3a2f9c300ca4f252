package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/mkurosawa/mystery-engine/pkg/chat"
	"github.com/mkurosawa/mystery-engine/pkg/game"
	"github.com/mkurosawa/mystery-engine/pkg/state"
)

// ChatHandler handles interrogation turns.
type ChatHandler struct {
	manager *game.Manager
	logger  *slog.Logger
}

// NewChatHandler creates a new chat handler.
func NewChatHandler(manager *game.Manager, logger *slog.Logger) *ChatHandler {
	return &ChatHandler{
		manager: manager,
		logger:  logger,
	}
}

// ServeHTTP handles POST /v1/chat.
func (h *ChatHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodPost {
		h.logger.Warn("Method not allowed for chat endpoint",
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr)
		writeError(w, h.logger, http.StatusMethodNotAllowed, "Method not allowed. Only POST is supported.")
		return
	}

	var request chat.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		h.logger.Warn("Invalid request body", "error", err)
		writeError(w, h.logger, http.StatusBadRequest, "Invalid request body. Expected JSON with 'session_id', 'character_id' and 'message' fields.")
		return
	}

	if request.SessionID == uuid.Nil {
		writeError(w, h.logger, http.StatusBadRequest, "session_id is required.")
		return
	}
	if err := request.Validate(); err != nil {
		writeError(w, h.logger, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.manager.Chat(r.Context(), request)
	if err != nil {
		writeGameError(w, h.logger, err)
		return
	}

	response := chat.ChatResponse{
		SessionID: request.SessionID,
		Spoken:    result.Spoken,
	}
	// The hint is a player aid, not part of the scene. Detective
	// difficulty never sees it.
	if result.Difficulty == state.DifficultyMaster {
		response.Hint = result.Hint
	}
	for _, ev := range result.Unlocked {
		response.Unlocked = append(response.Unlocked, ev.ID)
	}

	writeJSON(w, h.logger, http.StatusOK, response)
}
