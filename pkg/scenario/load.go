package scenario

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// rawScenario defers character decoding: entries in the characters
// array are either inline character objects or string paths to
// per-character documents, resolved relative to the root document.
type rawScenario struct {
	Case      Case              `json:"case"`
	Chars     []json.RawMessage `json:"characters"`
	Evidences []Evidence        `json:"evidences"`
	Locations []Location        `json:"locations"`
}

// Load reads a scenario root document and resolves every character
// reference. Loading is all-or-nothing: a missing or unparseable
// character document fails the whole load.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario %s: %w", path, err)
	}

	var raw rawScenario
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse scenario %s: %w", path, err)
	}

	s := &Scenario{
		Case:      raw.Case,
		FileName:  filepath.Base(path),
		Evidences: raw.Evidences,
		Locations: raw.Locations,
	}

	baseDir := filepath.Dir(path)
	s.Characters = make([]Character, 0, len(raw.Chars))
	for i, entry := range raw.Chars {
		c, err := resolveCharacter(baseDir, entry)
		if err != nil {
			return nil, fmt.Errorf("scenario %s: character %d: %w", path, i, err)
		}
		s.Characters = append(s.Characters, c)
	}

	return s, nil
}

func resolveCharacter(baseDir string, entry json.RawMessage) (Character, error) {
	// String entry: a path to a separate character document.
	var ref string
	if err := json.Unmarshal(entry, &ref); err == nil {
		charPath := ref
		if !filepath.IsAbs(charPath) {
			charPath = filepath.Join(baseDir, charPath)
		}
		data, err := os.ReadFile(charPath)
		if err != nil {
			return Character{}, fmt.Errorf("failed to read character document %s: %w", ref, err)
		}
		var c Character
		if err := json.Unmarshal(data, &c); err != nil {
			return Character{}, fmt.Errorf("failed to parse character document %s: %w", ref, err)
		}
		return c, nil
	}

	var c Character
	if err := json.Unmarshal(entry, &c); err != nil {
		return Character{}, fmt.Errorf("failed to parse inline character: %w", err)
	}
	return c, nil
}
