package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mkurosawa/mystery-engine/internal/services"
	"github.com/mkurosawa/mystery-engine/internal/storage"
	"github.com/mkurosawa/mystery-engine/pkg/game"
	"github.com/mkurosawa/mystery-engine/pkg/scenario"
	"github.com/mkurosawa/mystery-engine/pkg/state"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelError, // Reduce noise in tests
	}))
}

func testScenario() *scenario.Scenario {
	return &scenario.Scenario{
		FileName: "case1.json",
		Case: scenario.Case{
			Title:   "The Locked Greenhouse",
			Outline: "The gardener was found dead behind a locked door.",
			Culprit: "renzo",
			Truth:   "Renzo used the spare key.",
			Endings: scenario.Endings{
				TrueEnd: "Renzo confesses.",
				BadEnd:  "The case goes cold.",
			},
		},
		Characters: []scenario.Character{
			{ID: "renzo", Name: "Renzo", Role: "groundskeeper", Secrets: []string{"He has the spare key."}},
			{ID: "yotsuba", Name: "Yotsuba", Role: "housekeeper"},
		},
		Evidences: []scenario.Evidence{
			{ID: "e1", Name: "Case file", Description: "The initial report.",
				Unlock: scenario.UnlockCondition{Start: true}},
			{ID: "e2", Name: "Spare key", Description: "A second key exists.",
				Unlock: scenario.UnlockCondition{CharacterID: "yotsuba", Keywords: []string{"鍵"}}},
		},
		Locations: []scenario.Location{
			{ID: 6, Name: "Greenhouse", Asset: "greenhouse.png"},
			{ID: 7, Name: "Tool shed", Asset: "shed.png"},
		},
	}
}

type testEnv struct {
	manager *game.Manager
	store   *storage.MockStorage
	llm     *services.MockLLM
	now     time.Time
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{
		store: storage.NewMockStorage(),
		llm:   services.NewMockLLM(),
		now:   time.Date(2026, 3, 14, 21, 0, 0, 0, time.UTC),
	}
	env.store.AddScenario("case1.json", testScenario())
	env.manager = game.NewManagerWithClock(env.store, env.llm, testLogger(), func() time.Time { return env.now })
	return env
}

func (e *testEnv) createSession(t *testing.T, difficulty string) *state.GameState {
	t.Helper()
	gs, err := e.manager.Create(context.Background(), "case1.json", difficulty)
	require.NoError(t, err)
	return gs
}

func doJSON(t *testing.T, h http.Handler, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(w.Body).Decode(&v))
	return v
}
