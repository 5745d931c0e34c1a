package handlers_test

import (
	"encoding/base64"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yoockh/jaanekhana/internal/models"
)

func TestWS_AnalyzeStreamsResult(t *testing.T) {
	s := newServer(t)
	srv := httptest.NewServer(s.engine)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/ws/analyze"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.WriteJSON(map[string]any{"type": "hello"}))
	var msg map[string]any
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, "error", msg["type"])

	require.NoError(t, conn.WriteJSON(map[string]any{
		"type":         "analyze",
		"mode":         "claims",
		"lang":         "bn",
		"image_base64": "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("img")),
	}))

	// The fake pipeline reports no progress, only the result.
	msg = nil
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, "result", msg["type"])
	assert.Equal(t, "Looks fine.", msg["analysis"])
	assert.Equal(t, string(models.ModeClaims), msg["mode"])
}

func TestWS_ReportsFailuresWithoutDetail(t *testing.T) {
	s := newServer(t)
	s.pipeline.err = assert.AnError
	srv := httptest.NewServer(s.engine)
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/api/ws/analyze", nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.WriteJSON(map[string]any{"type": "analyze"}))
	var msg map[string]any
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, "error", msg["type"])
	assert.Equal(t, "image_base64 is missing or invalid", msg["error"])

	require.NoError(t, conn.WriteJSON(map[string]any{
		"type":         "analyze",
		"image_base64": base64.StdEncoding.EncodeToString([]byte("img")),
	}))
	msg = nil
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, "error", msg["type"])
	assert.Equal(t, "Failed to analyze food label", msg["error"])
	assert.Equal(t, "a1", msg["attempt_id"])
	assert.NotContains(t, msg["error"], assert.AnError.Error())
}

func TestWS_OversizedFrameClosesConnection(t *testing.T) {
	s := newServer(t)
	srv := httptest.NewServer(s.engine)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/ws/analyze"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	huge := `{"type":"analyze","image_base64":"` + strings.Repeat("A", 15<<20) + `"}`
	_ = conn.WriteMessage(websocket.TextMessage, []byte(huge))

	var msg map[string]any
	assert.Error(t, conn.ReadJSON(&msg))
	assert.Nil(t, s.pipeline.image)
}
