package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("TELEGRAM_BOT_TOKEN", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "./uploads", cfg.Server.UploadsDir)
	assert.Equal(t, "edge", cfg.TTS.Backend)
	assert.Equal(t, "eleven_multilingual_v2", cfg.TTS.ElevenModelID)
	assert.Equal(t, "gemini-2.5-flash-lite", cfg.Gemini.ExtractModel)
	assert.Equal(t, "gemini-2.5-flash", cfg.Gemini.SummaryModel)
	assert.Equal(t, 15*time.Minute, cfg.Pipeline.PendingPhotoTTL)
	assert.Equal(t, 2*time.Second, cfg.Pipeline.SummaryRetryDelay)
	assert.False(t, cfg.Telegram.Enabled())
}

func TestLoad_Overrides(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("PORT", "3000")
	t.Setenv("TTS_BACKEND", "elevenlabs")
	t.Setenv("PENDING_PHOTO_TTL", "1m")
	t.Setenv("EDGE_TTS_VOICE_HI", " hi-IN-MadhurNeural ")
	t.Setenv("TELEGRAM_BOT_TOKEN", "123:abc")
	t.Setenv("DOMAIN", "https://example.org")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "3000", cfg.Server.Port)
	assert.Equal(t, "elevenlabs", cfg.TTS.Backend)
	assert.Equal(t, time.Minute, cfg.Pipeline.PendingPhotoTTL)
	assert.Equal(t, map[string]string{"hi": "hi-IN-MadhurNeural"}, cfg.TTS.EdgeVoiceOverrides())
	assert.True(t, cfg.Telegram.Enabled())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"ok", func(*Config) {}, false},
		{"unknown backend", func(c *Config) { c.TTS.Backend = "festival" }, true},
		{"zero concurrency", func(c *Config) { c.Pipeline.MaxConcurrent = 0 }, true},
		{"token without domain", func(c *Config) { c.Telegram.Token = "x" }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Config{
				TTS:      TTSConfig{Backend: "edge"},
				Pipeline: PipelineConfig{MaxConcurrent: 1},
			}
			tt.mutate(&c)
			err := c.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

// chdir changes the working directory for the duration of the test
// (equivalent of testing.T.Chdir, which needs Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
