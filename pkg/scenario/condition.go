package scenario

import (
	"encoding/json"
	"fmt"
	"strings"
)

// StartCondition is the sentinel for evidence granted at game start.
const StartCondition = "start"

// UnlockCondition determines when an evidence item becomes owned.
// Either Start is true, or the evidence unlocks while interrogating
// CharacterID when the model's reply contains any one of Keywords.
//
// Case files encode this as a single string, "start" or
// "charId:kw1|kw2"; it is parsed once at load time rather than
// re-split on every evaluation.
type UnlockCondition struct {
	Start       bool
	CharacterID string
	Keywords    []string
}

// ParseUnlockCondition parses the on-disk condition encoding.
func ParseUnlockCondition(raw string) (UnlockCondition, error) {
	raw = strings.TrimSpace(raw)
	if raw == StartCondition {
		return UnlockCondition{Start: true}, nil
	}

	charID, kwPart, ok := strings.Cut(raw, ":")
	if !ok || charID == "" || kwPart == "" {
		return UnlockCondition{}, fmt.Errorf("malformed unlock condition %q", raw)
	}

	var keywords []string
	for _, kw := range strings.Split(kwPart, "|") {
		kw = strings.TrimSpace(kw)
		if kw != "" {
			keywords = append(keywords, kw)
		}
	}
	if len(keywords) == 0 {
		return UnlockCondition{}, fmt.Errorf("unlock condition %q has no keywords", raw)
	}

	return UnlockCondition{CharacterID: charID, Keywords: keywords}, nil
}

// String renders the condition back into its on-disk encoding.
func (uc UnlockCondition) String() string {
	if uc.Start {
		return StartCondition
	}
	return uc.CharacterID + ":" + strings.Join(uc.Keywords, "|")
}

func (uc *UnlockCondition) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ParseUnlockCondition(raw)
	if err != nil {
		return err
	}
	*uc = parsed
	return nil
}

func (uc UnlockCondition) MarshalJSON() ([]byte, error) {
	return json.Marshal(uc.String())
}
