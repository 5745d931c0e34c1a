package tts

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yoockh/jaanekhana/internal/logger"
	"github.com/yoockh/jaanekhana/internal/models"
)

type call struct {
	name string
	args []string
	text string
}

// scriptedRunner records invocations and writes an mp3 placeholder unless
// the next scripted result is an error.
type scriptedRunner struct {
	calls   []call
	results []error
	stderr  []string
}

func (r *scriptedRunner) run(_ context.Context, name string, args ...string) ([]byte, []byte, error) {
	text, _ := os.ReadFile(strings.TrimPrefix(args[1], "@"))
	r.calls = append(r.calls, call{name: name, args: args, text: string(text)})

	i := len(r.calls) - 1
	if i < len(r.results) && r.results[i] != nil {
		return nil, []byte(r.stderr[i]), r.results[i]
	}
	return []byte("ok"), nil, os.WriteFile(args[3], []byte("ID3"), 0o644)
}

func TestEdge_VoiceSelection(t *testing.T) {
	e := NewEdge(EdgeConfig{Voices: map[string]string{
		"hi": "hi-IN-MadhurNeural",
		"as": "as-IN-YashicaNeural",
	}}, logger.Discard())

	tests := []struct {
		lang       models.Language
		wantVoice  string
		wantSource string
	}{
		{models.LangEnglish, "en-US-AriaNeural", "default"},
		{models.LangHindi, "hi-IN-MadhurNeural", "env"},
		{models.LangTamil, "ta-IN-PallaviNeural", "default"},
		{models.LangAssamese, "bn-IN-TanishaaNeural", "fallback:bn-IN"},
		{models.Language("fr"), "en-US-AriaNeural", "default"},
	}
	for _, tt := range tests {
		voice, source := e.Voice(tt.lang)
		assert.Equal(t, tt.wantVoice, voice, tt.lang)
		assert.Equal(t, tt.wantSource, source, tt.lang)
	}
}

func TestEdge_Synthesize(t *testing.T) {
	dir := t.TempDir()
	r := &scriptedRunner{}
	e := NewEdge(EdgeConfig{PythonBin: "python3", Script: "tts.py", Runner: r.run}, logger.Discard())

	out := filepath.Join(dir, "a.mp3")
	require.NoError(t, e.Synthesize(context.Background(), "नमस्ते", models.LangHindi, out))

	require.Len(t, r.calls, 1)
	c := r.calls[0]
	assert.Equal(t, "python3", c.name)
	assert.True(t, filepath.IsAbs(c.args[0]))
	assert.True(t, strings.HasPrefix(c.args[1], "@"))
	assert.Equal(t, "hi-IN-SwaraNeural", c.args[2])
	assert.Equal(t, out, c.args[3])
	assert.Equal(t, "नमस्ते", c.text)
	assert.FileExists(t, out)

	// the input file is cleaned up
	entries, _ := os.ReadDir(dir)
	assert.Len(t, entries, 1)
}

func TestEdge_AssameseRetriesWithBengali(t *testing.T) {
	dir := t.TempDir()
	r := &scriptedRunner{
		results: []error{errors.New("exit status 1")},
		stderr:  []string{"edge_tts.exceptions.NoAudioReceived: No audio was received"},
	}
	e := NewEdge(EdgeConfig{Runner: r.run, Voices: map[string]string{"as": "bn-IN-BashkarNeural"}}, logger.Discard())

	require.NoError(t, e.Synthesize(context.Background(), "text", models.LangAssamese, filepath.Join(dir, "as.mp3")))
	require.Len(t, r.calls, 2)
	assert.Equal(t, "bn-IN-BashkarNeural", r.calls[0].args[2])
	assert.Equal(t, "bn-IN-TanishaaNeural", r.calls[1].args[2])
}

func TestEdge_AssameseDefaultVoiceIsNotRetried(t *testing.T) {
	r := &scriptedRunner{
		results: []error{errors.New("exit status 1")},
		stderr:  []string{"edge_tts.exceptions.NoAudioReceived: No audio was received"},
	}
	e := NewEdge(EdgeConfig{Runner: r.run}, logger.Discard())

	err := e.Synthesize(context.Background(), "text", models.LangAssamese, filepath.Join(t.TempDir(), "as.mp3"))
	require.Error(t, err)
	assert.Len(t, r.calls, 1)
}

func TestTruncateKeepsRunesWhole(t *testing.T) {
	s := "नमस्ते"
	for n := 0; n <= len(s); n++ {
		got := truncate(s, n)
		assert.True(t, utf8.ValidString(got), n)
		assert.LessOrEqual(t, len(got), n)
	}
	assert.Equal(t, "abc", truncate("abc", 10))
}

func TestEdge_FailureCarriesRequestID(t *testing.T) {
	r := &scriptedRunner{results: []error{errors.New("exit status 2")}, stderr: []string{"boom"}}
	e := NewEdge(EdgeConfig{Runner: r.run}, logger.Discard())

	err := e.Synthesize(context.Background(), "text", models.LangEnglish, filepath.Join(t.TempDir(), "x.mp3"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "request_id:")
	assert.Len(t, r.calls, 1)
}

func TestEdge_EmptyText(t *testing.T) {
	e := NewEdge(EdgeConfig{Runner: (&scriptedRunner{}).run}, logger.Discard())
	assert.ErrorIs(t, e.Synthesize(context.Background(), "  ", models.LangEnglish, "x.mp3"), ErrEmptyText)
}

func TestNew_SelectsBackend(t *testing.T) {
	s, err := New(Config{Backend: "none"}, logger.Discard())
	require.NoError(t, err)
	assert.Nil(t, s)

	s, err = New(Config{Backend: "edge"}, logger.Discard())
	require.NoError(t, err)
	assert.IsType(t, &Edge{}, s)

	_, err = New(Config{Backend: "elevenlabs"}, logger.Discard())
	assert.Error(t, err)

	s, err = New(Config{Backend: "elevenlabs", ElevenAPIKey: "k"}, logger.Discard())
	require.NoError(t, err)
	assert.IsType(t, &ElevenLabs{}, s)

	_, err = New(Config{Backend: "festival"}, logger.Discard())
	assert.Error(t, err)
}
