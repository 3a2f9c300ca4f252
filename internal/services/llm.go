package services

import (
	"context"
	"fmt"

	"github.com/mkurosawa/mystery-engine/pkg/chat"
)

// LLMService is the interface to the model provider. Chat sends the
// system instruction plus a bounded window of recent conversation and
// returns the raw reply text.
type LLMService interface {
	Chat(ctx context.Context, systemInstruction string, messages []chat.ChatMessage) (string, error)
}

// ProviderError is a structured error returned by the model provider
// (bad credential, quota, safety refusal). The upstream HTTP status is
// preserved so handlers can relay it.
type ProviderError struct {
	StatusCode int
	Message    string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider error (status %d): %s", e.StatusCode, e.Message)
}
