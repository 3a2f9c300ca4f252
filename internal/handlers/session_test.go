package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkurosawa/mystery-engine/pkg/chat"
	"github.com/mkurosawa/mystery-engine/pkg/state"
)

func TestSessionHandler_CreateReadDelete(t *testing.T) {
	env := newTestEnv(t)
	h := NewSessionHandler(env.manager, testLogger())

	w := doJSON(t, h, http.MethodPost, "/v1/session", CreateSessionRequest{Scenario: "case1.json"})
	require.Equal(t, http.StatusCreated, w.Code)
	created := decodeBody[state.GameState](t, w)
	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.Equal(t, []string{"e1"}, created.Evidences)

	w = doJSON(t, h, http.MethodGet, "/v1/session/"+created.ID.String(), nil)
	require.Equal(t, http.StatusOK, w.Code)
	read := decodeBody[state.GameState](t, w)
	assert.Equal(t, created.ID, read.ID)

	w = doJSON(t, h, http.MethodDelete, "/v1/session/"+created.ID.String(), nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(t, h, http.MethodGet, "/v1/session/"+created.ID.String(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSessionHandler_CreateValidation(t *testing.T) {
	env := newTestEnv(t)
	h := NewSessionHandler(env.manager, testLogger())

	w := doJSON(t, h, http.MethodPost, "/v1/session", CreateSessionRequest{})
	assert.Equal(t, http.StatusBadRequest, w.Code, "scenario is required")

	w = doJSON(t, h, http.MethodPost, "/v1/session", CreateSessionRequest{Scenario: "missing.json"})
	assert.Equal(t, http.StatusBadRequest, w.Code, "unknown scenario")
}

func TestSessionHandler_InvalidID(t *testing.T) {
	env := newTestEnv(t)
	h := NewSessionHandler(env.manager, testLogger())

	w := doJSON(t, h, http.MethodGet, "/v1/session/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, h, http.MethodGet, "/v1/session", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code, "GET without id")
}

func TestSessionHandler_Reset(t *testing.T) {
	env := newTestEnv(t)
	h := NewSessionHandler(env.manager, testLogger())
	gs := env.createSession(t, "")

	env.llm.SetReply("outer_voice: 鍵なら予備があります。")
	_, err := env.manager.Chat(context.Background(), chat.ChatRequest{SessionID: gs.ID, CharacterID: "yotsuba", Message: "鍵は?"})
	require.NoError(t, err)

	w := doJSON(t, h, http.MethodPost, "/v1/session/"+gs.ID.String(), nil)
	require.Equal(t, http.StatusOK, w.Code)
	fresh := decodeBody[state.GameState](t, w)
	assert.Equal(t, gs.ID, fresh.ID)
	assert.Equal(t, []string{"e1"}, fresh.Evidences)
	assert.Empty(t, fresh.History)
}
