package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkurosawa/mystery-engine/internal/handlers"
	"github.com/mkurosawa/mystery-engine/internal/middleware"
	"github.com/mkurosawa/mystery-engine/internal/services"
	"github.com/mkurosawa/mystery-engine/internal/storage"
	"github.com/mkurosawa/mystery-engine/pkg/chat"
	"github.com/mkurosawa/mystery-engine/pkg/game"
	"github.com/mkurosawa/mystery-engine/pkg/state"
	"github.com/mkurosawa/mystery-engine/pkg/unlock"
)

const rootDoc = `{
	"case": {
		"title": "The Kurosawa Inheritance",
		"outline": "The head of the family was found dead in a locked greenhouse.",
		"culprit": "renzo",
		"truth": "Renzo used the spare key and poisoned the tea.",
		"endings": {
			"true_end": "Renzo confesses.",
			"bad_end": "The case goes cold."
		}
	},
	"characters": [
		"characters/renzo.json",
		{"id": "yotsuba", "name": "Yotsuba", "role": "housekeeper"}
	],
	"evidences": [
		{"id": "e1", "name": "Case file", "description": "The initial report.", "unlock_condition": "start"},
		{"id": "e2", "name": "Spare key", "description": "A second key exists.", "unlock_condition": "yotsuba:鍵|キー"}
	],
	"locations": [
		{"id": 6, "name": "Greenhouse", "asset": "assets/greenhouse.png"},
		{"id": 7, "name": "Caretaker's office", "asset": "assets/office.png"}
	]
}`

const renzoDoc = `{
	"id": "renzo",
	"name": "Renzo",
	"role": "groundskeeper",
	"secrets": ["He kept the spare key."],
	"lies": ["That he has the spare key."]
}`

type env struct {
	server *httptest.Server
	llm    *services.MockLLM
	now    *time.Time
}

func newEnv(t *testing.T) *env {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

	dataDir := t.TempDir()
	scenarioDir := filepath.Join(dataDir, "scenarios")
	require.NoError(t, os.MkdirAll(filepath.Join(scenarioDir, "characters"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(scenarioDir, "case1.json"), []byte(rootDoc), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(scenarioDir, "characters", "renzo.json"), []byte(renzoDoc), 0o644))

	mr := miniredis.RunT(t)
	store := storage.NewRedisStorage(mr.Addr(), dataDir, logger)
	t.Cleanup(func() { _ = store.Close() })

	llm := services.NewMockLLM()
	now := time.Date(2026, 3, 14, 21, 0, 0, 0, time.UTC)
	e := &env{llm: llm, now: &now}
	manager := game.NewManagerWithClock(store, llm, logger, func() time.Time { return *e.now })

	mux := http.NewServeMux()
	mux.Handle("/health", handlers.NewHealthHandler(store, logger))
	mux.Handle("/v1/chat", handlers.NewChatHandler(manager, logger))
	sessionHandler := handlers.NewSessionHandler(manager, logger)
	mux.Handle("/v1/session", sessionHandler)
	mux.Handle("/v1/session/", sessionHandler)
	mux.Handle("/v1/explore", handlers.NewExploreHandler(manager, logger))
	mux.Handle("/v1/accuse", handlers.NewAccuseHandler(manager, logger))
	mux.Handle("/v1/clock", handlers.NewClockHandler(manager, logger))
	scenarioHandler := handlers.NewScenarioHandler(logger, store)
	mux.Handle("/v1/scenarios", scenarioHandler)
	mux.Handle("/v1/scenarios/", scenarioHandler)

	e.server = httptest.NewServer(middleware.Logger(mux))
	t.Cleanup(e.server.Close)
	return e
}

func (e *env) post(t *testing.T, path string, body any, out any) int {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(e.server.URL+path, "application/json", bytes.NewReader(data))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	if out != nil && resp.StatusCode < 300 {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func (e *env) get(t *testing.T, path string, out any) int {
	t.Helper()
	resp, err := http.Get(e.server.URL + path)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	if out != nil && resp.StatusCode < 300 {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

// TestFullInvestigation walks a whole case: create a session, unlock
// evidence through interrogation, explore under the cooldown, and close
// with an accusation.
func TestFullInvestigation(t *testing.T) {
	e := newEnv(t)

	// Scenario discovery.
	var scenarios map[string]string
	require.Equal(t, http.StatusOK, e.get(t, "/v1/scenarios", &scenarios))
	require.Equal(t, map[string]string{"The Kurosawa Inheritance": "case1.json"}, scenarios)

	// Start a master-difficulty session.
	var gs state.GameState
	status := e.post(t, "/v1/session", handlers.CreateSessionRequest{
		Scenario:   "case1.json",
		Difficulty: state.DifficultyMaster,
	}, &gs)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, []string{"e1"}, gs.Evidences, "case file granted at start")

	// Interrogate the housekeeper about the key.
	e.llm.SetReply("outer_voice: 温室の鍵なら、昔は予備が管理人室にありました。\ninner_voice: Ask where the spare key went.")
	var chatResp chat.ChatResponse
	status = e.post(t, "/v1/chat", chat.ChatRequest{
		SessionID: gs.ID, CharacterID: "yotsuba", Message: "温室の鍵について教えてください",
	}, &chatResp)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "温室の鍵なら、昔は予備が管理人室にありました。", chatResp.Spoken)
	assert.Equal(t, "Ask where the spare key went.", chatResp.Hint, "master difficulty surfaces the hint")
	assert.Equal(t, []string{"e2"}, chatResp.Unlocked)

	// Explore the greenhouse; the cooldown blocks the office.
	var exploreResp handlers.ExploreResponse
	status = e.post(t, "/v1/explore", handlers.ExploreRequest{SessionID: gs.ID, LocationID: 6}, &exploreResp)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "assets/greenhouse.png", exploreResp.Asset)

	status = e.post(t, "/v1/explore", handlers.ExploreRequest{SessionID: gs.ID, LocationID: 7}, nil)
	assert.Equal(t, http.StatusConflict, status)

	// Ten minutes later the clock clears and the office opens.
	*e.now = e.now.Add(unlock.CooldownDuration)
	var clockResp handlers.ClockResponse
	status = e.post(t, "/v1/clock", handlers.TickRequest{SessionID: gs.ID}, &clockResp)
	require.Equal(t, http.StatusOK, status)
	assert.False(t, clockResp.CoolingDown)

	status = e.post(t, "/v1/explore", handlers.ExploreRequest{SessionID: gs.ID, LocationID: 7}, &exploreResp)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "assets/office.png", exploreResp.Asset)

	// State survives the round trips.
	var loaded state.GameState
	require.Equal(t, http.StatusOK, e.get(t, fmt.Sprintf("/v1/session/%s", gs.ID), &loaded))
	assert.Equal(t, []string{"e1", "e2"}, loaded.Evidences)
	assert.Equal(t, []int{6, 7}, loaded.VisitedLocations)
	assert.Len(t, loaded.History["yotsuba"], 3, "user turn, model turn, unlock notice")

	// Accuse the culprit.
	var verdict handlers.AccuseResponse
	status = e.post(t, "/v1/accuse", handlers.AccuseRequest{SessionID: gs.ID, CharacterID: "renzo"}, &verdict)
	require.Equal(t, http.StatusOK, status)
	assert.True(t, verdict.IsCorrect)
	assert.Equal(t, "TRUE END", verdict.Title)
	assert.Contains(t, verdict.Truth, "spare key")
}

func TestScenarioViewOverHTTP(t *testing.T) {
	e := newEnv(t)

	var view handlers.ScenarioView
	require.Equal(t, http.StatusOK, e.get(t, "/v1/scenarios/case1.json", &view))
	assert.Equal(t, "The Kurosawa Inheritance", view.Case.Title)
	require.Len(t, view.Characters, 2)
	assert.Equal(t, "Renzo", view.Characters[0].Name, "character document references resolve")
}

func TestHealthOverHTTP(t *testing.T) {
	e := newEnv(t)

	var health handlers.HealthResponse
	require.Equal(t, http.StatusOK, e.get(t, "/health", &health))
	assert.Equal(t, "ok", health.Status)
}
