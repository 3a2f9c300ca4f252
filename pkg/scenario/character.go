package scenario

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Character is a suspect the player can interrogate. Fields are
// normalized at load time: authors write personality and secrets as a
// string, a list, or omit them entirely, and older case files use
// "lies" for forbidden_reveals.
type Character struct {
	ID                string            `json:"id"`
	Name              string            `json:"name"`
	Role              string            `json:"role"`
	Age               int               `json:"age,omitempty"`
	Personality       []string          `json:"personality,omitempty"`
	TalkStyle         string            `json:"talk_style,omitempty"`
	Secrets           []string          `json:"secrets,omitempty"`
	ForbiddenReveals  []string          `json:"forbidden_reveals,omitempty"`
	EvidenceReactions map[string]string `json:"evidence_reactions,omitempty"`
	FamilyRelation    map[string]string `json:"family_relation,omitempty"`
	Background        string            `json:"background,omitempty"`
}

// rawCharacter mirrors the on-disk shape before normalization.
type rawCharacter struct {
	ID                string            `json:"id"`
	Name              string            `json:"name"`
	Role              string            `json:"role"`
	Age               int               `json:"age"`
	Personality       stringList        `json:"personality"`
	TalkStyle         string            `json:"talk_style"`
	Secrets           stringList        `json:"secrets"`
	ForbiddenReveals  stringList        `json:"forbidden_reveals"`
	Lies              stringList        `json:"lies"` // legacy alias for forbidden_reveals
	EvidenceReactions map[string]string `json:"evidence_reactions"`
	FamilyRelation    map[string]string `json:"family_relation"`
	Background        string            `json:"background"`
}

// UnmarshalJSON normalizes the loosely shaped character documents into
// the canonical record.
func (c *Character) UnmarshalJSON(data []byte) error {
	var raw rawCharacter
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	forbidden := raw.ForbiddenReveals
	if len(forbidden) == 0 {
		forbidden = raw.Lies
	}

	*c = Character{
		ID:                raw.ID,
		Name:              raw.Name,
		Role:              raw.Role,
		Age:               raw.Age,
		Personality:       raw.Personality,
		TalkStyle:         raw.TalkStyle,
		Secrets:           raw.Secrets,
		ForbiddenReveals:  forbidden,
		EvidenceReactions: raw.EvidenceReactions,
		FamilyRelation:    raw.FamilyRelation,
		Background:        raw.Background,
	}
	return nil
}

// stringList accepts a JSON string, an array of strings, or an object
// whose values are strings, and normalizes all three to a []string.
type stringList []string

func (sl *stringList) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" || trimmed == "" {
		*sl = nil
		return nil
	}

	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if s == "" {
			*sl = nil
		} else {
			*sl = []string{s}
		}
	case '[':
		var items []string
		if err := json.Unmarshal(data, &items); err != nil {
			return err
		}
		*sl = items
	case '{':
		// Object form: keep values in key order for determinism.
		var m map[string]string
		if err := json.Unmarshal(data, &m); err != nil {
			return err
		}
		keys := make([]string, 0, len(m))
		for k := range m {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		items := make([]string, 0, len(m))
		for _, k := range keys {
			items = append(items, m[k])
		}
		*sl = items
	default:
		return fmt.Errorf("unsupported value %s", trimmed)
	}
	return nil
}
