package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mkurosawa/mystery-engine/pkg/scenario"
	"github.com/mkurosawa/mystery-engine/pkg/state"
)

// MockStorage is an in-memory Storage for tests. Session snapshots are
// kept marshaled so it has the same copy semantics as Redis: a save is
// a point-in-time snapshot and a load returns an independent value,
// never an alias of what the caller saved.
type MockStorage struct {
	mu        sync.Mutex
	states    map[uuid.UUID][]byte
	scenarios map[string]*scenario.Scenario

	PingError error
	SaveError error
	LoadError error
}

var _ Storage = (*MockStorage)(nil)

func NewMockStorage() *MockStorage {
	return &MockStorage{
		states:    make(map[uuid.UUID][]byte),
		scenarios: make(map[string]*scenario.Scenario),
	}
}

func (m *MockStorage) Ping(ctx context.Context) error { return m.PingError }
func (m *MockStorage) Close() error                   { return nil }

func (m *MockStorage) SaveGameState(ctx context.Context, gs *state.GameState) error {
	if m.SaveError != nil {
		return m.SaveError
	}
	gs.UpdatedAt = time.Now()
	data, err := json.Marshal(gs)
	if err != nil {
		return fmt.Errorf("failed to marshal session state: %w", err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.states[gs.ID] = data
	return nil
}

func (m *MockStorage) LoadGameState(ctx context.Context, id uuid.UUID) (*state.GameState, error) {
	if m.LoadError != nil {
		return nil, m.LoadError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.states[id]
	if !ok {
		return nil, nil
	}
	gs := state.NewGameState("")
	if err := json.Unmarshal(data, gs); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session state: %w", err)
	}
	gs.Migrate()
	return gs, nil
}

func (m *MockStorage) DeleteGameState(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.states, id)
	return nil
}

// AddScenario registers a scenario under a filename for GetScenario.
func (m *MockStorage) AddScenario(filename string, sc *scenario.Scenario) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scenarios[filename] = sc
}

func (m *MockStorage) ListScenarios(ctx context.Context) (map[string]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]string, len(m.scenarios))
	for name, sc := range m.scenarios {
		out[sc.Case.Title] = name
	}
	return out, nil
}

func (m *MockStorage) GetScenario(ctx context.Context, filename string) (*scenario.Scenario, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sc, ok := m.scenarios[filename]
	if !ok {
		return nil, fmt.Errorf("scenario %q not found", filename)
	}
	return sc, nil
}
