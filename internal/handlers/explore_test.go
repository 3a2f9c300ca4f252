package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkurosawa/mystery-engine/pkg/unlock"
)

func TestExploreHandler_FlowWithCooldown(t *testing.T) {
	env := newTestEnv(t)
	explore := NewExploreHandler(env.manager, testLogger())
	clock := NewClockHandler(env.manager, testLogger())
	gs := env.createSession(t, "")

	w := doJSON(t, explore, http.MethodPost, "/v1/explore", ExploreRequest{SessionID: gs.ID, LocationID: 6})
	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeBody[ExploreResponse](t, w)
	assert.Equal(t, "greenhouse.png", resp.Asset)
	assert.False(t, resp.Revisit)
	assert.True(t, resp.CoolingDown)
	assert.Equal(t, int(unlock.CooldownDuration.Seconds()), resp.CooldownSeconds)

	// New location during cooldown is rejected.
	w = doJSON(t, explore, http.MethodPost, "/v1/explore", ExploreRequest{SessionID: gs.ID, LocationID: 7})
	assert.Equal(t, http.StatusConflict, w.Code)

	// Revisit is fine.
	w = doJSON(t, explore, http.MethodPost, "/v1/explore", ExploreRequest{SessionID: gs.ID, LocationID: 6})
	require.Equal(t, http.StatusOK, w.Code)
	resp = decodeBody[ExploreResponse](t, w)
	assert.True(t, resp.Revisit)

	// After the window the tick clears the flag and the shed opens.
	env.now = env.now.Add(unlock.CooldownDuration)
	w = doJSON(t, clock, http.MethodPost, "/v1/clock", TickRequest{SessionID: gs.ID})
	require.Equal(t, http.StatusOK, w.Code)
	status := decodeBody[ClockResponse](t, w)
	assert.False(t, status.CoolingDown)
	assert.Zero(t, status.RemainingSeconds)

	w = doJSON(t, explore, http.MethodPost, "/v1/explore", ExploreRequest{SessionID: gs.ID, LocationID: 7})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestExploreHandler_UnknownLocation(t *testing.T) {
	env := newTestEnv(t)
	h := NewExploreHandler(env.manager, testLogger())
	gs := env.createSession(t, "")

	w := doJSON(t, h, http.MethodPost, "/v1/explore", ExploreRequest{SessionID: gs.ID, LocationID: 99})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestClockHandler_ReportsElapsed(t *testing.T) {
	env := newTestEnv(t)
	h := NewClockHandler(env.manager, testLogger())
	gs := env.createSession(t, "")

	env.now = env.now.Add(90 * time.Second)
	w := doJSON(t, h, http.MethodPost, "/v1/clock", TickRequest{SessionID: gs.ID})
	require.Equal(t, http.StatusOK, w.Code)
	status := decodeBody[ClockResponse](t, w)
	assert.False(t, status.CoolingDown)
	assert.Positive(t, status.ElapsedSeconds)
}
