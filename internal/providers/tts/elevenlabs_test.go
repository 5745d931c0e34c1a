package tts

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yoockh/jaanekhana/internal/logger"
	"github.com/yoockh/jaanekhana/internal/models"
)

type elevenServer struct {
	mu       sync.Mutex
	voices   map[string]bool
	requests []string
}

func (s *elevenServer) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/voices", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.Header.Get("xi-api-key"))
		_, _ = w.Write([]byte(`{"voices":[{"voice_id":"voice-b","name":"B"},{"voice_id":"voice-c","name":"C"}]}`))
	})
	mux.HandleFunc("/v1/text-to-speech/", func(w http.ResponseWriter, r *http.Request) {
		voice := strings.TrimPrefix(r.URL.Path, "/v1/text-to-speech/")
		s.mu.Lock()
		s.requests = append(s.requests, voice)
		s.mu.Unlock()

		assert.Equal(t, "mp3_44100_128", r.URL.Query().Get("output_format"))
		var body convertRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "eleven_multilingual_v2", body.ModelID)

		if !s.voices[voice] {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"detail":{"status":"voice_not_found"}}`))
			return
		}
		w.Header().Set("Content-Type", "audio/mpeg")
		_, _ = w.Write([]byte("ID3-" + body.Text))
	})
	return mux
}

func TestElevenLabs_Synthesize(t *testing.T) {
	s := &elevenServer{voices: map[string]bool{"voice-a": true}}
	srv := httptest.NewServer(s.handler(t))
	defer srv.Close()

	e, err := NewElevenLabs("test-key", WithBaseURL(srv.URL), WithVoice("voice-a"), WithLogger(logger.Discard()))
	require.NoError(t, err)

	out := filepath.Join(t.TempDir(), "uploads", "a.mp3")
	require.NoError(t, e.Synthesize(context.Background(), "hello", models.LangEnglish, out))

	b, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "ID3-hello", string(b))
	assert.Equal(t, []string{"voice-a"}, s.requests)
}

func TestElevenLabs_FallsBackToFirstVoice(t *testing.T) {
	s := &elevenServer{voices: map[string]bool{"voice-b": true}}
	srv := httptest.NewServer(s.handler(t))
	defer srv.Close()

	e, err := NewElevenLabs("test-key", WithBaseURL(srv.URL), WithVoice("gone"), WithLogger(logger.Discard()))
	require.NoError(t, err)

	out := filepath.Join(t.TempDir(), "b.mp3")
	require.NoError(t, e.Synthesize(context.Background(), "hi", models.LangHindi, out))
	assert.Equal(t, []string{"gone", "voice-b"}, s.requests)
	assert.FileExists(t, out)
}

func TestElevenLabs_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusUnauthorized)
	}))
	defer srv.Close()

	e, err := NewElevenLabs("test-key", WithBaseURL(srv.URL), WithLogger(logger.Discard()))
	require.NoError(t, err)

	out := filepath.Join(t.TempDir(), "c.mp3")
	err = e.Synthesize(context.Background(), "hi", models.LangEnglish, out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 401")
	assert.NoFileExists(t, out)
}
