package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

type Config struct {
	Server      ServerConfig
	Telegram    TelegramConfig
	Gemini      GeminiConfig
	TTS         TTSConfig
	Redis       RedisConfig
	Pipeline    PipelineConfig
	Diagnostics DiagnosticsConfig
}

type ServerConfig struct {
	Port            string        `env:"PORT"               env-default:"8080"`
	UploadsDir      string        `env:"UPLOADS_DIR"        env-default:"./uploads"`
	FrontendOrigin  string        `env:"FRONTEND_ORIGIN"    env-default:"http://localhost:5173"`
	LogLevel        string        `env:"LOG_LEVEL"          env-default:"info"`
	DebugRequests   bool          `env:"API_DEBUG_REQUESTS" env-default:"false"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT"   env-default:"30s"`
}

type TelegramConfig struct {
	Token  string `env:"TELEGRAM_BOT_TOKEN"`
	Domain string `env:"DOMAIN"`
}

func (t TelegramConfig) Enabled() bool { return t.Token != "" }

type GeminiConfig struct {
	ProjectID       string `env:"GCP_PROJECT_ID"`
	Location        string `env:"GCP_LOCATION"                   env-default:"us-central1"`
	CredentialsFile string `env:"GOOGLE_APPLICATION_CREDENTIALS"`
	ExtractModel    string `env:"GEMINI_EXTRACT_MODEL"           env-default:"gemini-2.5-flash-lite"`
	SummaryModel    string `env:"GEMINI_SUMMARY_MODEL"           env-default:"gemini-2.5-flash"`
}

func (g GeminiConfig) Enabled() bool { return g.ProjectID != "" }

type TTSConfig struct {
	Backend string `env:"TTS_BACKEND" env-default:"edge"`

	ElevenAPIKey  string `env:"ELEVEN_API_KEY"`
	ElevenVoiceID string `env:"ELEVEN_VOICE_ID"  env-default:"JBFqnCBsd6RMkjVDRZzb"`
	ElevenModelID string `env:"ELEVEN_MODEL_ID"  env-default:"eleven_multilingual_v2"`

	PythonBin  string `env:"PYTHON_BIN"      env-default:"python"`
	EdgeScript string `env:"EDGE_TTS_SCRIPT" env-default:"./scripts/tts.py"`
	EdgeDebug  bool   `env:"EDGE_TTS_DEBUG"  env-default:"false"`
	VoiceEN    string `env:"EDGE_TTS_VOICE_EN"`
	VoiceHI    string `env:"EDGE_TTS_VOICE_HI"`
	VoiceBN    string `env:"EDGE_TTS_VOICE_BN"`
	VoiceAS    string `env:"EDGE_TTS_VOICE_AS"`
	VoiceTA    string `env:"EDGE_TTS_VOICE_TA"`
}

// EdgeVoiceOverrides returns the per-language voices set in the environment.
func (t TTSConfig) EdgeVoiceOverrides() map[string]string {
	out := map[string]string{}
	for lang, v := range map[string]string{
		"en": t.VoiceEN, "hi": t.VoiceHI, "bn": t.VoiceBN, "as": t.VoiceAS, "ta": t.VoiceTA,
	} {
		if v = strings.TrimSpace(v); v != "" {
			out[lang] = v
		}
	}
	return out
}

type RedisConfig struct {
	URL string `env:"REDIS_URL"`
}

type PipelineConfig struct {
	PendingPhotoTTL   time.Duration `env:"PENDING_PHOTO_TTL"       env-default:"15m"`
	SummaryRetryDelay time.Duration `env:"SUMMARY_RETRY_DELAY"     env-default:"2s"`
	MaxConcurrent     int64         `env:"PIPELINE_MAX_CONCURRENT" env-default:"8"`
}

type DiagnosticsConfig struct {
	Dir    string `env:"DIAGNOSTICS_DIR"    env-default:"./logs"`
	Bucket string `env:"DIAGNOSTICS_BUCKET"`
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config: read env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validate: %w", err)
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.TTS.Backend {
	case "edge", "elevenlabs", "none":
	default:
		return fmt.Errorf("TTS_BACKEND must be edge, elevenlabs or none, got %q", c.TTS.Backend)
	}
	if c.Pipeline.MaxConcurrent <= 0 {
		return fmt.Errorf("PIPELINE_MAX_CONCURRENT must be positive")
	}
	if c.Pipeline.SummaryRetryDelay < 0 {
		return fmt.Errorf("SUMMARY_RETRY_DELAY must not be negative")
	}
	if c.Telegram.Enabled() && c.Telegram.Domain == "" {
		return fmt.Errorf("DOMAIN is required when TELEGRAM_BOT_TOKEN is set")
	}
	return nil
}
