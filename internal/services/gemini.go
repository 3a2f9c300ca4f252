package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/mkurosawa/mystery-engine/pkg/chat"
)

const (
	geminiBaseURL      = "https://generativelanguage.googleapis.com/v1beta"
	DefaultGeminiModel = "gemini-1.5-flash-latest"
)

// GeminiService implements LLMService against the Gemini generateContent API.
type GeminiService struct {
	apiKey     string
	modelName  string
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiChatRequest struct {
	Contents          []geminiContent `json:"contents"`
	SystemInstruction *geminiContent  `json:"system_instruction,omitempty"`
}

type geminiChatResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error,omitempty"`
}

func NewGeminiService(apiKey string, modelName string, logger *slog.Logger) *GeminiService {
	if modelName == "" {
		modelName = DefaultGeminiModel
	}
	return &GeminiService{
		apiKey:    apiKey,
		modelName: modelName,
		baseURL:   geminiBaseURL,
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
		logger: logger,
	}
}

// Chat sends one interrogation turn to Gemini. Chat history maps onto
// Gemini's user/model roles; the system instruction rides in the
// dedicated system_instruction field.
func (g *GeminiService) Chat(ctx context.Context, systemInstruction string, messages []chat.ChatMessage) (string, error) {
	contents := make([]geminiContent, 0, len(messages))
	for _, msg := range messages {
		role := "model"
		if msg.Role == chat.ChatRoleUser {
			role = "user"
		}
		contents = append(contents, geminiContent{
			Role:  role,
			Parts: []geminiPart{{Text: msg.Content}},
		})
	}

	geminiReq := geminiChatRequest{Contents: contents}
	if systemInstruction != "" {
		geminiReq.SystemInstruction = &geminiContent{
			Parts: []geminiPart{{Text: systemInstruction}},
		}
	}

	reqBody, err := json.Marshal(geminiReq)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", g.baseURL, g.modelName, g.apiKey)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(reqBody))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to make request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	var geminiResp geminiChatResponse
	if err := json.Unmarshal(body, &geminiResp); err != nil {
		if resp.StatusCode != http.StatusOK {
			return "", &ProviderError{StatusCode: resp.StatusCode, Message: string(body)}
		}
		return "", fmt.Errorf("failed to parse response: %w", err)
	}

	if geminiResp.Error != nil {
		g.logger.Warn("Gemini returned an error payload",
			"status", resp.StatusCode,
			"provider_status", geminiResp.Error.Status)
		return "", &ProviderError{StatusCode: resp.StatusCode, Message: geminiResp.Error.Message}
	}
	if resp.StatusCode != http.StatusOK {
		return "", &ProviderError{StatusCode: resp.StatusCode, Message: string(body)}
	}

	var responseText string
	for _, cand := range geminiResp.Candidates {
		for _, part := range cand.Content.Parts {
			responseText += part.Text
		}
		break
	}
	if responseText == "" {
		return "", fmt.Errorf("empty response from model")
	}

	return responseText, nil
}
