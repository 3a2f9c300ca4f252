package storage

import (
	"context"

	"github.com/google/uuid"
	"github.com/mkurosawa/mystery-engine/pkg/scenario"
	"github.com/mkurosawa/mystery-engine/pkg/state"
)

// Storage persists session state and serves scenario documents.
// Session snapshots are written whole after every mutation; scenarios
// are immutable files.
type Storage interface {
	// Health and lifecycle
	Ping(ctx context.Context) error
	Close() error

	// Session state
	SaveGameState(ctx context.Context, gs *state.GameState) error
	LoadGameState(ctx context.Context, id uuid.UUID) (*state.GameState, error)
	DeleteGameState(ctx context.Context, id uuid.UUID) error

	// Scenarios
	ListScenarios(ctx context.Context) (map[string]string, error)
	GetScenario(ctx context.Context, filename string) (*scenario.Scenario, error)
}
