package chat

import (
	"fmt"

	"github.com/google/uuid"
)

const (
	ChatRoleUser   = "user"   // the player
	ChatRoleModel  = "model"  // the interrogated character
	ChatRoleSystem = "system" // engine notices (evidence unlocks, errors)
)

// ChatMessage is a single message in the form the LLM providers expect.
type ChatMessage struct {
	Role    string `json:"role"` // "user", "model", "system"
	Content string `json:"content"`
}

// Turn is one persisted entry of a character's interrogation history.
// Text is the raw model output; Spoken and Hint are the parsed halves
// of the two-voice protocol. User and system turns carry Text only.
type Turn struct {
	Role   string `json:"role"`
	Text   string `json:"text"`
	Spoken string `json:"display_outer,omitempty"`
	Hint   string `json:"display_inner,omitempty"`
}

// ChatRequest is a chat message request made by the player to the api.
type ChatRequest struct {
	SessionID   uuid.UUID `json:"session_id"`
	CharacterID string    `json:"character_id"`
	Message     string    `json:"message"`
}

// ChatResponse is returned by the api for a completed chat turn.
type ChatResponse struct {
	SessionID uuid.UUID `json:"session_id,omitempty"`
	Spoken    string    `json:"spoken,omitempty"`
	Hint      string    `json:"hint,omitempty"` // populated only in master difficulty
	Unlocked  []string  `json:"unlocked,omitempty"`
	Error     string    `json:"error,omitempty"`
}

func (cr *ChatRequest) Validate() error {
	if cr.Message == "" {
		return fmt.Errorf("message cannot be empty")
	}
	if cr.CharacterID == "" {
		return fmt.Errorf("character_id cannot be empty")
	}
	return nil
}
