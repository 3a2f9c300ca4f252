package scenario

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

const rootDoc = `{
	"case": {
		"title": "The Locked Study",
		"outline": "The head of the family is found dead in his study.",
		"culprit": "renzo",
		"truth": "Renzo staged the broken window after the fact.",
		"common_facts": ["The victim died of a blow to the head."],
		"endings": {"true_end": "It was me.", "bad_end": "You accuse the wrong person."}
	},
	"characters": [
		"characters/renzo.json",
		{
			"id": "yotsuba",
			"name": "Yotsuba",
			"role": "youngest daughter",
			"age": 19,
			"personality": "nervous",
			"secrets": {"b_key": "She copied the study key.", "a_debt": "She owes money."},
			"evidence_reactions": {"e2": "Goes pale and changes the subject."}
		}
	],
	"evidences": [
		{"id": "e1", "name": "Autopsy report", "description": "Blunt trauma.", "unlock_condition": "start"},
		{"id": "e2", "name": "Spare key", "description": "A freshly cut copy.", "unlock_condition": "yotsuba:鍵|合鍵"}
	],
	"locations": [
		{"id": 6, "name": "Study", "asset": "image/6.pdf"},
		{"id": 7, "name": "Garden", "asset": "image/7.pdf"}
	]
}`

const renzoDoc = `{
	"id": "renzo",
	"name": "Renzo",
	"role": "eldest son",
	"age": 42,
	"personality": ["calm", "calculating"],
	"talk_style": "measured, overly polite",
	"lies": ["never admits entering the study"],
	"family_relation": {"victim": "father"}
}`

func writeScenario(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "characters"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "case1.json"), []byte(rootDoc), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "characters", "renzo.json"), []byte(renzoDoc), 0o644); err != nil {
		t.Fatal(err)
	}
	return filepath.Join(dir, "case1.json")
}

func TestLoad(t *testing.T) {
	s, err := Load(writeScenario(t))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if s.Case.Title != "The Locked Study" {
		t.Errorf("unexpected title %q", s.Case.Title)
	}
	if s.Case.Culprit != "renzo" {
		t.Errorf("unexpected culprit %q", s.Case.Culprit)
	}
	if len(s.Characters) != 2 {
		t.Fatalf("expected 2 characters, got %d", len(s.Characters))
	}

	// Referenced character document resolved and normalized.
	renzo := s.Character("renzo")
	if renzo == nil {
		t.Fatal("renzo not loaded")
	}
	if len(renzo.Personality) != 2 {
		t.Errorf("expected personality list of 2, got %v", renzo.Personality)
	}
	if len(renzo.ForbiddenReveals) != 1 {
		t.Errorf("legacy lies field not mapped: %v", renzo.ForbiddenReveals)
	}

	// Inline character with string personality and object secrets.
	yotsuba := s.Character("yotsuba")
	if yotsuba == nil {
		t.Fatal("yotsuba not loaded")
	}
	if len(yotsuba.Personality) != 1 || yotsuba.Personality[0] != "nervous" {
		t.Errorf("string personality not normalized: %v", yotsuba.Personality)
	}
	if len(yotsuba.Secrets) != 2 || yotsuba.Secrets[0] != "She owes money." {
		t.Errorf("object secrets not normalized in key order: %v", yotsuba.Secrets)
	}

	if err := s.Validate(); err != nil {
		t.Errorf("Validate failed: %v", err)
	}
}

func TestLoadMissingCharacterDocument(t *testing.T) {
	path := writeScenario(t)
	if err := os.Remove(filepath.Join(filepath.Dir(path), "characters", "renzo.json")); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected load to fail on missing character document")
	}
}

func TestLoadUnparseableRoot(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected load to fail on unparseable root")
	}
}

func TestParseUnlockCondition(t *testing.T) {
	tests := []struct {
		raw       string
		wantStart bool
		wantChar  string
		wantKws   int
		wantErr   bool
	}{
		{"start", true, "", 0, false},
		{"yotsuba:鍵", false, "yotsuba", 1, false},
		{"yotsuba:鍵|合鍵|スペア", false, "yotsuba", 3, false},
		{"noseparator", false, "", 0, true},
		{":nochar", false, "", 0, true},
		{"char:", false, "", 0, true},
		{"char:|", false, "", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			uc, err := ParseUnlockCondition(tt.raw)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tt.raw)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if uc.Start != tt.wantStart || uc.CharacterID != tt.wantChar || len(uc.Keywords) != tt.wantKws {
				t.Errorf("got %+v", uc)
			}
		})
	}
}

func TestUnlockConditionRoundTrip(t *testing.T) {
	var ev Evidence
	data := `{"id": "e2", "name": "Spare key", "description": "d", "unlock_condition": "yotsuba:鍵|合鍵"}`
	if err := json.Unmarshal([]byte(data), &ev); err != nil {
		t.Fatal(err)
	}
	out, err := json.Marshal(ev)
	if err != nil {
		t.Fatal(err)
	}
	var again Evidence
	if err := json.Unmarshal(out, &again); err != nil {
		t.Fatal(err)
	}
	if again.Unlock.String() != "yotsuba:鍵|合鍵" {
		t.Errorf("round trip mangled condition: %q", again.Unlock.String())
	}
}

func TestValidateRejectsUnknownCulprit(t *testing.T) {
	s, err := Load(writeScenario(t))
	if err != nil {
		t.Fatal(err)
	}
	s.Case.Culprit = "nobody"
	if err := s.Validate(); err == nil {
		t.Error("expected validation failure for unknown culprit")
	}
}

func TestWarningsForUnknownEvidenceReaction(t *testing.T) {
	s, err := Load(writeScenario(t))
	if err != nil {
		t.Fatal(err)
	}
	s.Characters[1].EvidenceReactions["e99"] = "???"
	if len(s.Warnings()) == 0 {
		t.Error("expected a warning for reaction to unknown evidence")
	}
}
