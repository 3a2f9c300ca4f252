package unlock

import (
	"errors"
	"time"

	"github.com/mkurosawa/mystery-engine/pkg/scenario"
	"github.com/mkurosawa/mystery-engine/pkg/state"
	"github.com/mkurosawa/mystery-engine/pkg/textmatch"
)

// CooldownDuration is the enforced wait between exploring new locations.
const CooldownDuration = 10 * time.Minute

var (
	// ErrCooldownActive is returned when a new location is explored
	// while the shared cooldown is still running.
	ErrCooldownActive = errors.New("exploration cooldown active")

	// ErrUnknownLocation is returned for location ids the scenario
	// does not define.
	ErrUnknownLocation = errors.New("unknown location")
)

// Engine evaluates evidence unlocks and the location cooldown.
// The clock is injectable so tests can advance time deterministically.
type Engine struct {
	now func() time.Time
}

// New returns an engine on the wall clock.
func New() *Engine {
	return &Engine{now: time.Now}
}

// NewWithClock returns an engine on the given clock.
func NewWithClock(now func() time.Time) *Engine {
	return &Engine{now: now}
}

// EvaluateEvidence runs one evidence pass after a completed model turn.
// Every not-yet-owned evidence whose condition targets the active
// character is matched against the reply text; all that match are
// granted in scenario definition order. The pass is idempotent:
// already-owned ids are skipped and never re-fire.
func (e *Engine) EvaluateEvidence(sc *scenario.Scenario, gs *state.GameState, characterID, replyText string) []scenario.Evidence {
	var granted []scenario.Evidence
	for _, ev := range sc.Evidences {
		if ev.Unlock.Start || gs.HasEvidence(ev.ID) {
			continue
		}
		if ev.Unlock.CharacterID != characterID {
			continue
		}
		if !textmatch.ContainsAny(replyText, ev.Unlock.Keywords) {
			continue
		}
		if gs.AddEvidence(ev.ID) {
			granted = append(granted, ev)
		}
	}
	return granted
}

// ExploreLocation handles one exploration attempt. Repeat visits are
// always allowed and just return the location's asset. A new location
// is rejected while the cooldown runs; otherwise it is recorded, the
// cooldown starts, and the exploration timestamp is stamped.
func (e *Engine) ExploreLocation(sc *scenario.Scenario, gs *state.GameState, id int) (asset string, revisit bool, err error) {
	loc := sc.LocationByID(id)
	if loc == nil {
		return "", false, ErrUnknownLocation
	}

	if gs.HasVisited(id) {
		return loc.Asset, true, nil
	}

	if gs.CurrentCoolingDown {
		return "", false, ErrCooldownActive
	}

	gs.VisitedLocations = append(gs.VisitedLocations, id)
	gs.CurrentCoolingDown = true
	gs.UnlockTimestamps.LastExploration = e.now()
	return loc.Asset, false, nil
}

// Tick clears the cooldown flag once the window has elapsed. It is the
// single place the flag is cleared and is safe to call redundantly;
// the return value reports whether state changed.
func (e *Engine) Tick(gs *state.GameState) bool {
	if !gs.CurrentCoolingDown {
		return false
	}
	if e.now().Sub(gs.UnlockTimestamps.LastExploration) < CooldownDuration {
		return false
	}
	gs.CurrentCoolingDown = false
	return true
}

// CooldownRemaining reports how long until the next new location can be
// explored. Zero when no cooldown is running.
func (e *Engine) CooldownRemaining(gs *state.GameState) time.Duration {
	if !gs.CurrentCoolingDown {
		return 0
	}
	remaining := CooldownDuration - e.now().Sub(gs.UnlockTimestamps.LastExploration)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Elapsed reports session play time for the display-only counter.
func (e *Engine) Elapsed(gs *state.GameState) time.Duration {
	if gs.StartTime.IsZero() {
		return 0
	}
	return e.now().Sub(gs.StartTime)
}
