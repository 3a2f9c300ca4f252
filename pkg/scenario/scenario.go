package scenario

import (
	"fmt"
	"strings"
)

// Case holds the facts of the mystery itself.
type Case struct {
	Title       string   `json:"title"`
	Outline     string   `json:"outline"`
	Culprit     string   `json:"culprit"` // character id
	Truth       string   `json:"truth"`   // full solution, revealed on a correct accusation
	CommonFacts []string `json:"common_facts,omitempty"`
	Endings     Endings  `json:"endings,omitempty"`
}

// Endings is the epilogue text shown after an accusation.
type Endings struct {
	TrueEnd string `json:"true_end,omitempty"`
	BadEnd  string `json:"bad_end,omitempty"`
}

// Evidence is a discoverable fact, unlocked by default or by dialogue.
type Evidence struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Unlock      UnlockCondition `json:"unlock_condition"`
}

// Location is an explorable place. Exploring opens the associated asset
// (a case document, a floor plan, a photograph).
type Location struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Asset string `json:"asset"`
}

// Scenario is the immutable template for a mystery session.
type Scenario struct {
	Case       Case        `json:"case"`
	FileName   string      `json:"file_name,omitempty"`
	Characters []Character `json:"characters"`
	Evidences  []Evidence  `json:"evidences"`
	Locations  []Location  `json:"locations"`
}

// Character returns the character with the given id, or nil.
func (s *Scenario) Character(id string) *Character {
	for i := range s.Characters {
		if s.Characters[i].ID == id {
			return &s.Characters[i]
		}
	}
	return nil
}

// EvidenceByID returns the evidence definition with the given id, or nil.
func (s *Scenario) EvidenceByID(id string) *Evidence {
	for i := range s.Evidences {
		if s.Evidences[i].ID == id {
			return &s.Evidences[i]
		}
	}
	return nil
}

// LocationByID returns the location with the given id, or nil.
func (s *Scenario) LocationByID(id int) *Location {
	for i := range s.Locations {
		if s.Locations[i].ID == id {
			return &s.Locations[i]
		}
	}
	return nil
}

// StartEvidence returns the evidence granted automatically at game start,
// in definition order.
func (s *Scenario) StartEvidence() []Evidence {
	var out []Evidence
	for _, ev := range s.Evidences {
		if ev.Unlock.Start {
			out = append(out, ev)
		}
	}
	return out
}

// Validate checks internal consistency of a loaded scenario.
func (s *Scenario) Validate() error {
	var problems []string

	if s.Case.Title == "" {
		problems = append(problems, "case.title is required")
	}
	if len(s.Characters) == 0 {
		problems = append(problems, "at least one character is required")
	}

	charIDs := make(map[string]bool, len(s.Characters))
	for _, c := range s.Characters {
		if c.ID == "" {
			problems = append(problems, fmt.Sprintf("character %q has no id", c.Name))
			continue
		}
		if charIDs[c.ID] {
			problems = append(problems, fmt.Sprintf("duplicate character id %q", c.ID))
		}
		charIDs[c.ID] = true
	}

	if s.Case.Culprit == "" {
		problems = append(problems, "case.culprit is required")
	} else if !charIDs[s.Case.Culprit] {
		problems = append(problems, fmt.Sprintf("case.culprit %q is not a character", s.Case.Culprit))
	}

	evIDs := make(map[string]bool, len(s.Evidences))
	for _, ev := range s.Evidences {
		if ev.ID == "" {
			problems = append(problems, fmt.Sprintf("evidence %q has no id", ev.Name))
			continue
		}
		if evIDs[ev.ID] {
			problems = append(problems, fmt.Sprintf("duplicate evidence id %q", ev.ID))
		}
		evIDs[ev.ID] = true

		if !ev.Unlock.Start {
			if ev.Unlock.CharacterID == "" || len(ev.Unlock.Keywords) == 0 {
				problems = append(problems, fmt.Sprintf("evidence %q has a malformed unlock condition", ev.ID))
			} else if !charIDs[ev.Unlock.CharacterID] {
				problems = append(problems, fmt.Sprintf("evidence %q unlocks on unknown character %q", ev.ID, ev.Unlock.CharacterID))
			}
		}
	}

	locIDs := make(map[int]bool, len(s.Locations))
	for _, loc := range s.Locations {
		if locIDs[loc.ID] {
			problems = append(problems, fmt.Sprintf("duplicate location id %d", loc.ID))
		}
		locIDs[loc.ID] = true
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid scenario: %s", strings.Join(problems, "; "))
	}
	return nil
}

// Warnings reports non-fatal oddities, such as reaction table keys that
// reference evidence the scenario never defines.
func (s *Scenario) Warnings() []string {
	var warnings []string
	for _, c := range s.Characters {
		for key := range c.EvidenceReactions {
			if s.EvidenceByID(key) == nil {
				warnings = append(warnings, fmt.Sprintf("character %q reacts to unknown evidence %q", c.ID, key))
			}
		}
	}
	return warnings
}
