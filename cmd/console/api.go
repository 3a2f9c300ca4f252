package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"

	"github.com/google/uuid"

	"github.com/mkurosawa/mystery-engine/internal/handlers"
	"github.com/mkurosawa/mystery-engine/pkg/chat"
	"github.com/mkurosawa/mystery-engine/pkg/state"
)

func testConnection(client *http.Client, baseURL string) bool {
	resp, err := client.Get(baseURL + "/health")
	if err != nil {
		return false
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()
	return resp.StatusCode == http.StatusOK
}

// apiError extracts the error envelope from a non-OK response.
func apiError(statusCode int, body []byte) error {
	var errorResp handlers.ErrorResponse
	if err := json.Unmarshal(body, &errorResp); err != nil || errorResp.Error == "" {
		return fmt.Errorf("API returned status %d: %s", statusCode, string(body))
	}
	return fmt.Errorf("%s", errorResp.Error)
}

func postJSON(client *http.Client, url string, reqBody any, wantStatus int, out any) error {
	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	resp, err := client.Post(url, "application/json", bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != wantStatus {
		return apiError(resp.StatusCode, body)
	}
	if out != nil {
		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("failed to parse response: %w", err)
		}
	}
	return nil
}

func getJSON(client *http.Client, url string, out any) error {
	resp, err := client.Get(url)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return apiError(resp.StatusCode, body)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

func listScenarios(client *http.Client, baseURL string) ([]string, map[string]string, error) {
	var scenarioMap map[string]string
	if err := getJSON(client, baseURL+"/v1/scenarios", &scenarioMap); err != nil {
		return nil, nil, err
	}

	var names []string
	for name := range scenarioMap {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, scenarioMap, nil
}

func getScenarioView(client *http.Client, baseURL, scenarioFile string) (*handlers.ScenarioView, error) {
	var view handlers.ScenarioView
	if err := getJSON(client, fmt.Sprintf("%s/v1/scenarios/%s", baseURL, scenarioFile), &view); err != nil {
		return nil, fmt.Errorf("failed to get scenario: %w", err)
	}
	return &view, nil
}

func createSession(client *http.Client, baseURL, scenarioFile, difficulty string) (*state.GameState, error) {
	var gs state.GameState
	req := handlers.CreateSessionRequest{Scenario: scenarioFile, Difficulty: difficulty}
	if err := postJSON(client, baseURL+"/v1/session", req, http.StatusCreated, &gs); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	return &gs, nil
}

func getSession(client *http.Client, baseURL string, sessionID uuid.UUID) (*state.GameState, error) {
	var gs state.GameState
	if err := getJSON(client, fmt.Sprintf("%s/v1/session/%s", baseURL, sessionID), &gs); err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return &gs, nil
}

func sendChat(client *http.Client, baseURL string, sessionID uuid.UUID, characterID, message string) (*chat.ChatResponse, error) {
	var chatResp chat.ChatResponse
	req := chat.ChatRequest{SessionID: sessionID, CharacterID: characterID, Message: message}
	if err := postJSON(client, baseURL+"/v1/chat", req, http.StatusOK, &chatResp); err != nil {
		return nil, err
	}
	return &chatResp, nil
}

func explore(client *http.Client, baseURL string, sessionID uuid.UUID, locationID int) (*handlers.ExploreResponse, error) {
	var exploreResp handlers.ExploreResponse
	req := handlers.ExploreRequest{SessionID: sessionID, LocationID: locationID}
	if err := postJSON(client, baseURL+"/v1/explore", req, http.StatusOK, &exploreResp); err != nil {
		return nil, err
	}
	return &exploreResp, nil
}

func tickClock(client *http.Client, baseURL string, sessionID uuid.UUID) (*handlers.ClockResponse, error) {
	var clockResp handlers.ClockResponse
	req := handlers.TickRequest{SessionID: sessionID}
	if err := postJSON(client, baseURL+"/v1/clock", req, http.StatusOK, &clockResp); err != nil {
		return nil, err
	}
	return &clockResp, nil
}

func accuse(client *http.Client, baseURL string, sessionID uuid.UUID, characterID string) (*handlers.AccuseResponse, error) {
	var accuseResp handlers.AccuseResponse
	req := handlers.AccuseRequest{SessionID: sessionID, CharacterID: characterID}
	if err := postJSON(client, baseURL+"/v1/accuse", req, http.StatusOK, &accuseResp); err != nil {
		return nil, err
	}
	return &accuseResp, nil
}
