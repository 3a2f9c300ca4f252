package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/mkurosawa/mystery-engine/internal/storage"
	"github.com/mkurosawa/mystery-engine/pkg/scenario"
)

// ScenarioHandler serves scenario listings and player-facing views.
type ScenarioHandler struct {
	storage storage.Storage
	logger  *slog.Logger
}

func NewScenarioHandler(logger *slog.Logger, storage storage.Storage) *ScenarioHandler {
	return &ScenarioHandler{
		storage: storage,
		logger:  logger,
	}
}

// CaseView is a case stripped of its solution.
type CaseView struct {
	Title       string   `json:"title"`
	Outline     string   `json:"outline"`
	CommonFacts []string `json:"common_facts,omitempty"`
}

// CharacterView is a suspect as the player is allowed to see them.
type CharacterView struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
	Age  int    `json:"age,omitempty"`
}

// EvidenceView is an evidence definition without its unlock condition.
type EvidenceView struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ScenarioView is the spoiler-free scenario a client renders from.
// The culprit, the truth, endings, secrets and unlock keywords never
// leave the server.
type ScenarioView struct {
	FileName   string              `json:"file_name"`
	Case       CaseView            `json:"case"`
	Characters []CharacterView     `json:"characters"`
	Evidences  []EvidenceView      `json:"evidences"`
	Locations  []scenario.Location `json:"locations"`
}

// NewScenarioView builds the player-facing projection of a scenario.
func NewScenarioView(sc *scenario.Scenario) ScenarioView {
	view := ScenarioView{
		FileName: sc.FileName,
		Case: CaseView{
			Title:       sc.Case.Title,
			Outline:     sc.Case.Outline,
			CommonFacts: sc.Case.CommonFacts,
		},
		Locations: sc.Locations,
	}
	for _, c := range sc.Characters {
		view.Characters = append(view.Characters, CharacterView{ID: c.ID, Name: c.Name, Role: c.Role, Age: c.Age})
	}
	for _, ev := range sc.Evidences {
		view.Evidences = append(view.Evidences, EvidenceView{ID: ev.ID, Name: ev.Name, Description: ev.Description})
	}
	return view
}

// ServeHTTP handles HTTP requests for scenario operations.
// Routes:
// GET /v1/scenarios            - List available scenarios
// GET /v1/scenarios/{filename} - Get a spoiler-free scenario view
func (h *ScenarioHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodGet {
		h.logger.Warn("Method not allowed for scenario endpoint", "method", r.Method)
		writeError(w, h.logger, http.StatusMethodNotAllowed, "Method not allowed. Only GET is supported.")
		return
	}

	path := strings.TrimPrefix(r.URL.Path, "/v1/scenarios")
	filename := strings.Trim(path, "/")

	if filename == "" {
		scenarios, err := h.storage.ListScenarios(r.Context())
		if err != nil {
			h.logger.Error("Failed to list scenarios", "error", err)
			writeError(w, h.logger, http.StatusInternalServerError, "Failed to list scenarios")
			return
		}
		writeJSON(w, h.logger, http.StatusOK, scenarios)
		return
	}

	sc, err := h.storage.GetScenario(r.Context(), filename)
	if err != nil {
		h.logger.Warn("Scenario not found", "filename", filename, "error", err)
		writeError(w, h.logger, http.StatusNotFound, "Scenario not found")
		return
	}

	writeJSON(w, h.logger, http.StatusOK, NewScenarioView(sc))
}
