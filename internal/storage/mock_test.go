package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkurosawa/mystery-engine/pkg/state"
)

// MockStorage must behave like Redis: a save captures a point-in-time
// snapshot and a load returns an independent value, so aliasing bugs in
// callers show up against the mock too.
func TestMockStorage_SnapshotSemantics(t *testing.T) {
	store := NewMockStorage()
	ctx := context.Background()

	gs := state.NewGameState("case1.json")
	gs.AddEvidence("e1")
	require.NoError(t, store.SaveGameState(ctx, gs))

	// Mutations after the save must not leak into the stored snapshot.
	gs.AddEvidence("e2")
	gs.VisitedLocations = append(gs.VisitedLocations, 6)

	loaded, err := store.LoadGameState(ctx, gs.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, []string{"e1"}, loaded.Evidences)
	assert.Empty(t, loaded.VisitedLocations)

	// Loads return independent values, not a shared object.
	first, err := store.LoadGameState(ctx, gs.ID)
	require.NoError(t, err)
	first.AddEvidence("e3")

	second, err := store.LoadGameState(ctx, gs.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"e1"}, second.Evidences)
}

func TestMockStorage_LoadMissing(t *testing.T) {
	store := NewMockStorage()

	loaded, err := store.LoadGameState(context.Background(), state.NewGameState("case1.json").ID)
	require.NoError(t, err)
	assert.Nil(t, loaded)
}
