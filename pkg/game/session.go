package game

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/mkurosawa/mystery-engine/internal/services"
	"github.com/mkurosawa/mystery-engine/internal/storage"
	"github.com/mkurosawa/mystery-engine/pkg/chat"
	"github.com/mkurosawa/mystery-engine/pkg/prompts"
	"github.com/mkurosawa/mystery-engine/pkg/scenario"
	"github.com/mkurosawa/mystery-engine/pkg/state"
	"github.com/mkurosawa/mystery-engine/pkg/unlock"
)

var (
	// ErrSessionNotFound is returned when no session exists for an id.
	ErrSessionNotFound = errors.New("session not found")

	// ErrTurnInFlight is returned when a chat turn arrives for a session
	// that is still waiting on the model. One question at a time.
	ErrTurnInFlight = errors.New("a turn is already in progress")

	// ErrUnknownCharacter is returned for character ids the scenario
	// does not define.
	ErrUnknownCharacter = errors.New("unknown character")
)

// Session is one loaded mystery in progress: the immutable scenario
// plus the player's mutable state. Sessions are cheap per-request
// aggregates; all durable state lives in storage.
type Session struct {
	sc     *scenario.Scenario
	gs     *state.GameState
	engine *unlock.Engine
	llm    services.LLMService
	store  storage.Storage
	logger *slog.Logger
}

// Scenario returns the loaded scenario template.
func (s *Session) Scenario() *scenario.Scenario { return s.sc }

// State returns the session's game state.
func (s *Session) State() *state.GameState { return s.gs }

// TurnResult is the outcome of one completed interrogation turn.
// Difficulty is carried along so the transport layer can decide
// whether the hint is surfaced.
type TurnResult struct {
	Spoken     string
	Hint       string
	Raw        string
	Unlocked   []scenario.Evidence
	Difficulty string
}

// ExploreResult is the outcome of one exploration attempt.
type ExploreResult struct {
	LocationID int
	Name       string
	Asset      string
	Revisit    bool
	Remaining  time.Duration
}

// ClockStatus reports the timed parts of a session for display.
type ClockStatus struct {
	CoolingDown bool
	Remaining   time.Duration
	Elapsed     time.Duration
}

// Outcome is the endgame result of an accusation.
type Outcome struct {
	Accused   string
	IsCorrect bool
	Title     string
	Text      string
	Truth     string
}

// SendMessage runs one interrogation turn against the named character.
// The player's message is persisted before the model call, so a failed
// call leaves the question in the record and nothing else changed.
func (s *Session) SendMessage(ctx context.Context, characterID, message string) (*TurnResult, error) {
	c := s.sc.Character(characterID)
	if c == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCharacter, characterID)
	}

	s.gs.AppendTurn(characterID, chat.NewUserTurn(message))
	if err := s.store.SaveGameState(ctx, s.gs); err != nil {
		return nil, fmt.Errorf("failed to persist player turn: %w", err)
	}

	instruction, err := prompts.BuildInstruction(c, s.sc, s.gs)
	if err != nil {
		return nil, fmt.Errorf("failed to build instruction: %w", err)
	}

	raw, err := s.llm.Chat(ctx, instruction, s.gs.RecentHistory(characterID))
	if err != nil {
		s.logger.Error("Model call failed", "session", s.gs.ID, "character", characterID, "error", err)
		return nil, err
	}

	turn := chat.NewModelTurn(raw)
	s.gs.AppendTurn(characterID, turn)

	unlocked := s.engine.EvaluateEvidence(s.sc, s.gs, characterID, raw)
	for _, ev := range unlocked {
		s.gs.AppendTurn(characterID, chat.NewSystemTurn("Evidence added to the case file: "+ev.Name))
		s.logger.Info("Evidence unlocked", "session", s.gs.ID, "evidence", ev.ID, "character", characterID)
	}

	if err := s.store.SaveGameState(ctx, s.gs); err != nil {
		return nil, fmt.Errorf("failed to persist model turn: %w", err)
	}

	return &TurnResult{
		Spoken:     turn.Spoken,
		Hint:       turn.Hint,
		Raw:        raw,
		Unlocked:   unlocked,
		Difficulty: s.gs.Difficulty,
	}, nil
}

// Explore attempts to open a location. Revisits never touch state;
// a first visit is persisted together with the started cooldown.
func (s *Session) Explore(ctx context.Context, locationID int) (*ExploreResult, error) {
	asset, revisit, err := s.engine.ExploreLocation(s.sc, s.gs, locationID)
	if err != nil {
		return nil, err
	}

	if !revisit {
		if err := s.store.SaveGameState(ctx, s.gs); err != nil {
			return nil, fmt.Errorf("failed to persist exploration: %w", err)
		}
	}

	loc := s.sc.LocationByID(locationID)
	return &ExploreResult{
		LocationID: locationID,
		Name:       loc.Name,
		Asset:      asset,
		Revisit:    revisit,
		Remaining:  s.engine.CooldownRemaining(s.gs),
	}, nil
}

// Tick advances the cooldown clock, persisting only when the flag
// actually clears.
func (s *Session) Tick(ctx context.Context) (*ClockStatus, error) {
	if s.engine.Tick(s.gs) {
		if err := s.store.SaveGameState(ctx, s.gs); err != nil {
			return nil, fmt.Errorf("failed to persist cooldown expiry: %w", err)
		}
	}
	return s.Status(), nil
}

// Status reports the clock without mutating anything.
func (s *Session) Status() *ClockStatus {
	return &ClockStatus{
		CoolingDown: s.gs.CurrentCoolingDown,
		Remaining:   s.engine.CooldownRemaining(s.gs),
		Elapsed:     s.engine.Elapsed(s.gs),
	}
}

// Accuse resolves the endgame. The verdict is decided locally against
// the scenario's culprit; no model call is involved. The outcome is
// recorded on the session but the record survives for review.
func (s *Session) Accuse(ctx context.Context, characterID string) (*Outcome, error) {
	c := s.sc.Character(characterID)
	if c == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCharacter, characterID)
	}

	out := &Outcome{
		Accused:   c.Name,
		IsCorrect: characterID == s.sc.Case.Culprit,
	}
	if out.IsCorrect {
		out.Title = "TRUE END"
		out.Text = s.sc.Case.Endings.TrueEnd
		out.Truth = s.sc.Case.Truth
	} else {
		out.Title = "BAD END"
		out.Text = s.sc.Case.Endings.BadEnd
	}

	s.gs.Flags["accused"] = characterID
	if out.IsCorrect {
		s.gs.Flags["outcome"] = "true_end"
	} else {
		s.gs.Flags["outcome"] = "bad_end"
	}
	if err := s.store.SaveGameState(ctx, s.gs); err != nil {
		return nil, fmt.Errorf("failed to persist accusation: %w", err)
	}

	s.logger.Info("Accusation resolved", "session", s.gs.ID, "accused", characterID, "correct", out.IsCorrect)
	return out, nil
}
