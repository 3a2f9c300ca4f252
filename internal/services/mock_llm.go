package services

import (
	"context"
	"sync"

	"github.com/mkurosawa/mystery-engine/pkg/chat"
)

// MockLLM is a mock implementation of LLMService for testing.
type MockLLM struct {
	ChatFunc func(ctx context.Context, systemInstruction string, messages []chat.ChatMessage) (string, error)

	// Call tracking
	ChatCalls []ChatCall

	mu sync.Mutex
}

type ChatCall struct {
	SystemInstruction string
	Messages          []chat.ChatMessage
}

// NewMockLLM creates a new mock LLM service.
func NewMockLLM() *MockLLM {
	return &MockLLM{
		ChatCalls: make([]ChatCall, 0),
	}
}

func (m *MockLLM) Chat(ctx context.Context, systemInstruction string, messages []chat.ChatMessage) (string, error) {
	m.mu.Lock()
	m.ChatCalls = append(m.ChatCalls, ChatCall{
		SystemInstruction: systemInstruction,
		Messages:          messages,
	})
	fn := m.ChatFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, systemInstruction, messages)
	}
	return "outer_voice: Mock reply.\ninner_voice: mock hint", nil
}

// SetReply sets up the mock to return a fixed reply.
func (m *MockLLM) SetReply(reply string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ChatFunc = func(ctx context.Context, systemInstruction string, messages []chat.ChatMessage) (string, error) {
		return reply, nil
	}
}

// SetError sets up the mock to fail every call.
func (m *MockLLM) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ChatFunc = func(ctx context.Context, systemInstruction string, messages []chat.ChatMessage) (string, error) {
		return "", err
	}
}

// Calls returns a copy of the tracked calls.
func (m *MockLLM) Calls() []ChatCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	calls := make([]ChatCall, len(m.ChatCalls))
	copy(calls, m.ChatCalls)
	return calls
}
