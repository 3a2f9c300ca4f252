package game

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mkurosawa/mystery-engine/internal/services"
	"github.com/mkurosawa/mystery-engine/internal/storage"
	"github.com/mkurosawa/mystery-engine/pkg/chat"
	"github.com/mkurosawa/mystery-engine/pkg/state"
	"github.com/mkurosawa/mystery-engine/pkg/unlock"
)

// Manager coordinates sessions over shared storage and a shared model
// provider. It owns nothing global: construct one in main and inject it.
type Manager struct {
	store  storage.Storage
	llm    services.LLMService
	engine *unlock.Engine
	logger *slog.Logger
	now    func() time.Time

	mu       sync.Mutex
	inFlight map[uuid.UUID]bool
	locks    map[uuid.UUID]*sync.Mutex
}

// NewManager creates a manager on the wall clock.
func NewManager(store storage.Storage, llm services.LLMService, logger *slog.Logger) *Manager {
	return &Manager{
		store:    store,
		llm:      llm,
		engine:   unlock.New(),
		logger:   logger,
		now:      time.Now,
		inFlight: make(map[uuid.UUID]bool),
		locks:    make(map[uuid.UUID]*sync.Mutex),
	}
}

// NewManagerWithClock creates a manager on the given clock, for tests.
func NewManagerWithClock(store storage.Storage, llm services.LLMService, logger *slog.Logger, now func() time.Time) *Manager {
	m := NewManager(store, llm, logger)
	m.engine = unlock.NewWithClock(now)
	m.now = now
	return m
}

// Create starts a fresh session for a scenario. Start evidence is
// granted immediately so the player never opens an empty case file.
func (m *Manager) Create(ctx context.Context, scenarioFile, difficulty string) (*state.GameState, error) {
	sc, err := m.store.GetScenario(ctx, scenarioFile)
	if err != nil {
		return nil, err
	}

	gs := state.NewGameState(sc.FileName)
	gs.StartTime = m.now()
	if difficulty == state.DifficultyMaster {
		gs.Difficulty = state.DifficultyMaster
	}
	gs.GrantStartEvidence(sc)

	if err := m.store.SaveGameState(ctx, gs); err != nil {
		return nil, fmt.Errorf("failed to persist new session: %w", err)
	}
	m.logger.Info("Session created", "session", gs.ID, "scenario", sc.FileName, "difficulty", gs.Difficulty)
	return gs, nil
}

// Session loads a session and its scenario.
func (m *Manager) Session(ctx context.Context, id uuid.UUID) (*Session, error) {
	gs, err := m.store.LoadGameState(ctx, id)
	if err != nil {
		return nil, err
	}
	if gs == nil {
		return nil, ErrSessionNotFound
	}

	sc, err := m.store.GetScenario(ctx, gs.Scenario)
	if err != nil {
		return nil, fmt.Errorf("failed to load scenario for session %s: %w", id, err)
	}

	// Saves from before the current schema, or rebuilt after a corrupted
	// snapshot, may be missing their start evidence.
	gs.GrantStartEvidence(sc)

	return &Session{
		sc:     sc,
		gs:     gs,
		engine: m.engine,
		llm:    m.llm,
		store:  m.store,
		logger: m.logger,
	}, nil
}

// Delete destroys a session record.
func (m *Manager) Delete(ctx context.Context, id uuid.UUID) error {
	l := m.sessionLock(id)
	l.Lock()
	defer l.Unlock()

	return m.store.DeleteGameState(ctx, id)
}

// Reset destroys a session's progress and starts the same scenario over
// under the same id.
func (m *Manager) Reset(ctx context.Context, id uuid.UUID) (*state.GameState, error) {
	l := m.sessionLock(id)
	l.Lock()
	defer l.Unlock()

	s, err := m.Session(ctx, id)
	if err != nil {
		return nil, err
	}

	gs := state.NewGameState(s.sc.FileName)
	gs.ID = id
	gs.StartTime = m.now()
	gs.Difficulty = s.gs.Difficulty
	gs.GrantStartEvidence(s.sc)

	if err := m.store.SaveGameState(ctx, gs); err != nil {
		return nil, fmt.Errorf("failed to persist reset session: %w", err)
	}
	m.logger.Info("Session reset", "session", id, "scenario", s.sc.FileName)
	return gs, nil
}

// Chat runs one interrogation turn. Sessions answer one question at a
// time: a second turn for the same id while the first is still with the
// model is rejected with ErrTurnInFlight. The turn holds the session
// lock across the model call, so explorations and clock ticks queue
// behind it instead of racing their snapshots against its save.
func (m *Manager) Chat(ctx context.Context, req chat.ChatRequest) (*TurnResult, error) {
	if err := m.beginTurn(req.SessionID); err != nil {
		return nil, err
	}
	defer m.endTurn(req.SessionID)

	l := m.sessionLock(req.SessionID)
	l.Lock()
	defer l.Unlock()

	s, err := m.Session(ctx, req.SessionID)
	if err != nil {
		return nil, err
	}
	return s.SendMessage(ctx, req.CharacterID, req.Message)
}

// Explore attempts to open a location for a session.
func (m *Manager) Explore(ctx context.Context, id uuid.UUID, locationID int) (*ExploreResult, error) {
	l := m.sessionLock(id)
	l.Lock()
	defer l.Unlock()

	s, err := m.Session(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.Explore(ctx, locationID)
}

// Tick advances a session's cooldown clock and reports the result.
func (m *Manager) Tick(ctx context.Context, id uuid.UUID) (*ClockStatus, error) {
	l := m.sessionLock(id)
	l.Lock()
	defer l.Unlock()

	s, err := m.Session(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.Tick(ctx)
}

// Accuse resolves a session's endgame.
func (m *Manager) Accuse(ctx context.Context, id uuid.UUID, characterID string) (*Outcome, error) {
	l := m.sessionLock(id)
	l.Lock()
	defer l.Unlock()

	s, err := m.Session(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.Accuse(ctx, characterID)
}

// sessionLock returns the mutex serializing state mutations for one
// session. Every operation persists a whole snapshot, so overlapping
// requests would otherwise overwrite each other's saves: each
// load-mutate-save cycle runs under this lock.
func (m *Manager) sessionLock(id uuid.UUID) *sync.Mutex {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.locks[id]
	if !ok {
		l = &sync.Mutex{}
		m.locks[id] = l
	}
	return l
}

func (m *Manager) beginTurn(id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.inFlight[id] {
		return ErrTurnInFlight
	}
	m.inFlight[id] = true
	return nil
}

func (m *Manager) endTurn(id uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.inFlight, id)
}
