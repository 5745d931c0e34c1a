package services

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/yoockh/jaanekhana/internal/models"
	"github.com/yoockh/jaanekhana/internal/providers/tts"
	"github.com/yoockh/jaanekhana/internal/utils"
)

type SpeechFile struct {
	Path string
	Name string
}

// SpeechService renders arbitrary text to a file in the uploads directory.
type SpeechService interface {
	Synthesize(ctx context.Context, text, filename string, lang models.Language) (SpeechFile, error)
}

type speechService struct {
	synth      tts.Synthesizer
	uploadsDir string
	now        func() time.Time
}

func NewSpeechService(synth tts.Synthesizer, uploadsDir string) SpeechService {
	return &speechService{synth: synth, uploadsDir: uploadsDir, now: time.Now}
}

func (s *speechService) Synthesize(ctx context.Context, text, filename string, lang models.Language) (SpeechFile, error) {
	const op = "SpeechService.Synthesize"

	if strings.TrimSpace(text) == "" {
		return SpeechFile{}, utils.E(utils.CodeInvalidArgument, op, "Missing text in request body", nil)
	}
	if s.synth == nil {
		return SpeechFile{}, utils.E(utils.CodeUnavailable, op, "speech synthesis is not configured", nil)
	}

	name := utils.SafeFilename(filename)
	if name == "" {
		name = fmt.Sprintf("tts_%d.mp3", s.now().UnixMilli())
	}
	if filepath.Ext(name) == "" {
		name += ".mp3"
	}
	if err := utils.EnsureDir(s.uploadsDir); err != nil {
		return SpeechFile{}, utils.E(utils.CodeInternal, op, "failed to prepare uploads directory", err)
	}

	path := filepath.Join(s.uploadsDir, name)
	if err := s.synth.Synthesize(ctx, text, lang, path); err != nil {
		return SpeechFile{}, utils.E(utils.CodeUnavailable, op, "speech synthesis failed", err)
	}
	return SpeechFile{Path: path, Name: name}, nil
}
