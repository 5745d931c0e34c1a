// Package tts converts summaries into audio files.
package tts

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/yoockh/jaanekhana/internal/models"
)

// Synthesizer writes spoken text in lang to outPath.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string, lang models.Language, outPath string) error
}

var ErrEmptyText = errors.New("tts: text is empty")

type Config struct {
	Backend string // edge | elevenlabs | none

	ElevenAPIKey  string
	ElevenVoiceID string
	ElevenModelID string

	PythonBin      string
	EdgeScript     string
	EdgeDebug      bool
	VoiceOverrides map[string]string
}

// New selects the backend named in cfg. It returns (nil, nil) for "none";
// callers treat a nil Synthesizer as audio disabled.
func New(cfg Config, log *logrus.Logger) (Synthesizer, error) {
	switch cfg.Backend {
	case "none":
		return nil, nil
	case "elevenlabs":
		var opts []ElevenOption
		if cfg.ElevenVoiceID != "" {
			opts = append(opts, WithVoice(cfg.ElevenVoiceID))
		}
		if cfg.ElevenModelID != "" {
			opts = append(opts, WithModel(cfg.ElevenModelID))
		}
		opts = append(opts, WithLogger(log))
		el, err := NewElevenLabs(cfg.ElevenAPIKey, opts...)
		if err != nil {
			return nil, err
		}
		return el, nil
	case "edge", "":
		return NewEdge(EdgeConfig{
			PythonBin: cfg.PythonBin,
			Script:    cfg.EdgeScript,
			Debug:     cfg.EdgeDebug,
			Voices:    cfg.VoiceOverrides,
		}, log), nil
	default:
		return nil, fmt.Errorf("tts: unknown backend %q", cfg.Backend)
	}
}
