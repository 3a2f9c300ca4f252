package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccuseHandler_WrongSuspect(t *testing.T) {
	env := newTestEnv(t)
	h := NewAccuseHandler(env.manager, testLogger())
	gs := env.createSession(t, "")

	w := doJSON(t, h, http.MethodPost, "/v1/accuse", AccuseRequest{SessionID: gs.ID, CharacterID: "yotsuba"})
	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeBody[AccuseResponse](t, w)
	assert.False(t, resp.IsCorrect)
	assert.Equal(t, "BAD END", resp.Title)
	assert.Equal(t, "The case goes cold.", resp.Text)
	assert.Empty(t, resp.Truth)
}

func TestAccuseHandler_Culprit(t *testing.T) {
	env := newTestEnv(t)
	h := NewAccuseHandler(env.manager, testLogger())
	gs := env.createSession(t, "")

	w := doJSON(t, h, http.MethodPost, "/v1/accuse", AccuseRequest{SessionID: gs.ID, CharacterID: "renzo"})
	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeBody[AccuseResponse](t, w)
	assert.True(t, resp.IsCorrect)
	assert.Equal(t, "TRUE END", resp.Title)
	assert.Equal(t, "Renzo used the spare key.", resp.Truth)
}

func TestAccuseHandler_Validation(t *testing.T) {
	env := newTestEnv(t)
	h := NewAccuseHandler(env.manager, testLogger())
	gs := env.createSession(t, "")

	w := doJSON(t, h, http.MethodPost, "/v1/accuse", AccuseRequest{SessionID: gs.ID})
	assert.Equal(t, http.StatusBadRequest, w.Code, "missing character_id")

	w = doJSON(t, h, http.MethodPost, "/v1/accuse", AccuseRequest{SessionID: gs.ID, CharacterID: "butler"})
	assert.Equal(t, http.StatusBadRequest, w.Code, "unknown character")
}
