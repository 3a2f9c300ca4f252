package handlers

import (
	"log/slog"
	"net/http"

	"github.com/mkurosawa/mystery-engine/internal/storage"
)

// HealthResponse reports service health.
type HealthResponse struct {
	Status  string `json:"status"`
	Storage string `json:"storage"`
}

// HealthHandler handles health check requests.
type HealthHandler struct {
	storage storage.Storage
	logger  *slog.Logger
}

func NewHealthHandler(storage storage.Storage, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{
		storage: storage,
		logger:  logger,
	}
}

// ServeHTTP handles GET /health.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodGet {
		writeError(w, h.logger, http.StatusMethodNotAllowed, "Method not allowed. Only GET is supported.")
		return
	}

	response := HealthResponse{Status: "ok", Storage: "ok"}
	status := http.StatusOK

	if err := h.storage.Ping(r.Context()); err != nil {
		h.logger.Error("Storage health check failed", "error", err)
		response.Status = "degraded"
		response.Storage = "unavailable"
		status = http.StatusServiceUnavailable
	}

	writeJSON(w, h.logger, status, response)
}
