package state

import (
	"time"

	"github.com/google/uuid"
	"github.com/mkurosawa/mystery-engine/pkg/chat"
	"github.com/mkurosawa/mystery-engine/pkg/scenario"
)

// Difficulty gates whether inner-voice hints are surfaced to the player.
// It never changes unlock logic.
const (
	DifficultyDetective = "detective"
	DifficultyMaster    = "master"
)

// SchemaVersion is stamped into every persisted record so future shape
// changes can migrate old saves instead of silently corrupting them.
const SchemaVersion = 1

// PromptHistoryLimit bounds how many recent turns of the active
// character are forwarded to the model. Older turns stay in the
// persisted history but drop out of the model's context.
const PromptHistoryLimit = 10

// UnlockTimestamps records the wall-clock anchors of timed unlocks.
type UnlockTimestamps struct {
	LastExploration time.Time `json:"last_exploration"`
}

// GameState is the persisted, mutable player-progress record for one
// mystery session. Evidences, History and VisitedLocations only ever
// grow; the record is destroyed only by an explicit reset.
type GameState struct {
	ID                 uuid.UUID              `json:"id"`
	Version            int                    `json:"version"`
	Scenario           string                 `json:"scenario"` // scenario file name
	Difficulty         string                 `json:"difficulty"`
	Evidences          []string               `json:"evidences"` // insertion order = discovery order
	History            map[string][]chat.Turn `json:"history"`   // character id -> turns
	VisitedLocations   []int                  `json:"visited_locations"`
	CurrentCoolingDown bool                   `json:"current_cooling_down"`
	UnlockTimestamps   UnlockTimestamps       `json:"unlock_timestamps"`
	StartTime          time.Time              `json:"start_time"`
	Flags              map[string]string      `json:"flags,omitempty"`
	UpdatedAt          time.Time              `json:"updated_at,omitempty"`
}

// NewGameState returns a fresh session record with defaults.
func NewGameState(scenarioFile string) *GameState {
	return &GameState{
		ID:         uuid.New(),
		Version:    SchemaVersion,
		Scenario:   scenarioFile,
		Difficulty: DifficultyDetective,
		Evidences:  make([]string, 0),
		History:    make(map[string][]chat.Turn),
		Flags:      make(map[string]string),
		StartTime:  time.Now(),
	}
}

// GrantStartEvidence adds every evidence with a "start" unlock condition.
// It is idempotent and safe to call on every load.
func (gs *GameState) GrantStartEvidence(sc *scenario.Scenario) {
	for _, ev := range sc.StartEvidence() {
		gs.AddEvidence(ev.ID)
	}
}

// HasEvidence reports whether the evidence id is already owned.
func (gs *GameState) HasEvidence(id string) bool {
	for _, owned := range gs.Evidences {
		if owned == id {
			return true
		}
	}
	return false
}

// AddEvidence appends the evidence id to the owned set. Re-adding an
// owned id is a no-op; ownership never shrinks.
func (gs *GameState) AddEvidence(id string) bool {
	if gs.HasEvidence(id) {
		return false
	}
	gs.Evidences = append(gs.Evidences, id)
	return true
}

// HasVisited reports whether the location was already explored.
func (gs *GameState) HasVisited(id int) bool {
	for _, v := range gs.VisitedLocations {
		if v == id {
			return true
		}
	}
	return false
}

// AppendTurn appends a turn to the named character's history.
func (gs *GameState) AppendTurn(characterID string, turn chat.Turn) {
	if gs.History == nil {
		gs.History = make(map[string][]chat.Turn)
	}
	gs.History[characterID] = append(gs.History[characterID], turn)
}

// RecentHistory returns the most recent turns for a character, bounded
// by PromptHistoryLimit, in provider message form. System turns are
// engine notices and are not replayed to the model.
func (gs *GameState) RecentHistory(characterID string) []chat.ChatMessage {
	turns := gs.History[characterID]
	if len(turns) > PromptHistoryLimit {
		turns = turns[len(turns)-PromptHistoryLimit:]
	}

	messages := make([]chat.ChatMessage, 0, len(turns))
	for _, t := range turns {
		if t.Role == chat.ChatRoleSystem {
			continue
		}
		messages = append(messages, chat.ChatMessage{Role: t.Role, Content: t.Text})
	}
	return messages
}

// Migrate upgrades a loaded record to the current schema version.
// Records predating the version field load as version 0 and only need
// the stamp; anything newer than we understand is left untouched.
func (gs *GameState) Migrate() {
	if gs.Version < SchemaVersion {
		gs.Version = SchemaVersion
	}
	if gs.Evidences == nil {
		gs.Evidences = make([]string, 0)
	}
	if gs.History == nil {
		gs.History = make(map[string][]chat.Turn)
	}
	if gs.Flags == nil {
		gs.Flags = make(map[string]string)
	}
	if gs.Difficulty == "" {
		gs.Difficulty = DifficultyDetective
	}
}
