package chat

import "testing"

func TestParseReply(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		spoken string
		hint   string
	}{
		{
			name:   "both markers",
			raw:    "outer_voice: Hello\ninner_voice: watch Bob",
			spoken: "Hello",
			hint:   "watch Bob",
		},
		{
			name:   "no markers falls back to spoken",
			raw:    "I was in the garden all evening.",
			spoken: "I was in the garden all evening.",
			hint:   "",
		},
		{
			name:   "outer only",
			raw:    "outer_voice: Nothing to hide here.",
			spoken: "Nothing to hide here.",
			hint:   "",
		},
		{
			name:   "full-width colons",
			raw:    "outer_voice：私は何も知りません。\ninner_voice：四葉の様子がおかしい。",
			spoken: "私は何も知りません。",
			hint:   "四葉の様子がおかしい。",
		},
		{
			name:   "case insensitive markers",
			raw:    "OUTER_VOICE: Fine, I admit I was there.\nInner_Voice: press him about the key.",
			spoken: "Fine, I admit I was there.",
			hint:   "press him about the key.",
		},
		{
			name:   "multiline spoken segment",
			raw:    "outer_voice: First line.\nSecond line.\ninner_voice: hint",
			spoken: "First line.\nSecond line.",
			hint:   "hint",
		},
		{
			name:   "empty input",
			raw:    "",
			spoken: "",
			hint:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reply := ParseReply(tt.raw)
			if reply.Spoken != tt.spoken {
				t.Errorf("Spoken = %q, want %q", reply.Spoken, tt.spoken)
			}
			if reply.Hint != tt.hint {
				t.Errorf("Hint = %q, want %q", reply.Hint, tt.hint)
			}
		})
	}
}

func TestNewModelTurn(t *testing.T) {
	turn := NewModelTurn("outer_voice: I told you everything.\ninner_voice: he is lying")
	if turn.Role != ChatRoleModel {
		t.Errorf("Role = %q, want %q", turn.Role, ChatRoleModel)
	}
	if turn.Text != "outer_voice: I told you everything.\ninner_voice: he is lying" {
		t.Errorf("raw text not preserved: %q", turn.Text)
	}
	if turn.Spoken != "I told you everything." {
		t.Errorf("Spoken = %q", turn.Spoken)
	}
	if turn.Hint != "he is lying" {
		t.Errorf("Hint = %q", turn.Hint)
	}
}

func TestChatRequestValidate(t *testing.T) {
	req := ChatRequest{}
	if err := req.Validate(); err == nil {
		t.Error("expected error for empty message")
	}
	req.Message = "who found the body?"
	if err := req.Validate(); err == nil {
		t.Error("expected error for empty character_id")
	}
	req.CharacterID = "yotsuba"
	if err := req.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
