package tts

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yoockh/jaanekhana/internal/models"
)

// Edge has no Assamese voice, so "as" reads with the Bengali one.
var edgeDefaultVoices = map[models.Language]string{
	models.LangEnglish:  "en-US-AriaNeural",
	models.LangHindi:    "hi-IN-SwaraNeural",
	models.LangBengali:  "bn-IN-TanishaaNeural",
	models.LangAssamese: "bn-IN-TanishaaNeural",
	models.LangTamil:    "ta-IN-PallaviNeural",
}

// CommandRunner runs an external program and returns its output.
type CommandRunner func(ctx context.Context, name string, args ...string) (stdout, stderr []byte, err error)

func execRunner(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stdout.Bytes(), stderr.Bytes(), err
}

type EdgeConfig struct {
	PythonBin string
	Script    string
	Debug     bool
	Voices    map[string]string // per-language overrides
	Runner    CommandRunner
}

// Edge drives the edge-tts python package through a helper script:
//
//	python tts.py @<text file> <voice> <output file>
type Edge struct {
	python string
	script string
	debug  bool
	voices map[models.Language]string
	run    CommandRunner
	log    *logrus.Logger
}

func NewEdge(cfg EdgeConfig, log *logrus.Logger) *Edge {
	e := &Edge{
		python: cfg.PythonBin,
		script: cfg.Script,
		debug:  cfg.Debug,
		voices: map[models.Language]string{},
		run:    cfg.Runner,
		log:    log,
	}
	if e.python == "" {
		e.python = "python"
	}
	if e.script == "" {
		e.script = "./scripts/tts.py"
	}
	if abs, err := filepath.Abs(e.script); err == nil {
		e.script = abs
	}
	if e.run == nil {
		e.run = execRunner
	}
	if e.log == nil {
		e.log = logrus.New()
	}
	for code, v := range cfg.Voices {
		if l, ok := models.ParseLanguage(code); ok && strings.TrimSpace(v) != "" {
			e.voices[l] = strings.TrimSpace(v)
		}
	}
	return e
}

// Voice returns the voice for lang and where it came from.
func (e *Edge) Voice(lang models.Language) (voice, source string) {
	if _, ok := edgeDefaultVoices[lang]; !ok {
		lang = models.DefaultLanguage
	}
	voice, source = e.voices[lang], "env"
	if voice == "" {
		voice, source = edgeDefaultVoices[lang], "default"
	}
	if lang == models.LangAssamese && strings.HasPrefix(strings.ToLower(voice), "as-in-") {
		voice, source = edgeDefaultVoices[models.LangAssamese], "fallback:bn-IN"
	}
	return voice, source
}

func (e *Edge) Synthesize(ctx context.Context, text string, lang models.Language, outPath string) error {
	if strings.TrimSpace(text) == "" {
		return ErrEmptyText
	}
	requestID := uuid.NewString()
	voice, source := e.Voice(lang)
	log := e.log.WithFields(logrus.Fields{
		"request_id":   requestID,
		"lang":         lang,
		"voice":        voice,
		"voice_source": source,
	})

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("edge tts (request_id: %s): %w", requestID, err)
	}

	// The text travels through a UTF-8 file; argv encoding is unreliable
	// for Indic scripts on some platforms.
	input := filepath.Join(filepath.Dir(outPath), "tts_input_"+requestID+".txt")
	if err := os.WriteFile(input, []byte(text), 0o600); err != nil {
		return fmt.Errorf("edge tts (request_id: %s): write input: %w", requestID, err)
	}
	defer os.Remove(input)

	start := time.Now()
	stdout, stderr, err := e.run(ctx, e.python, e.script, "@"+input, voice, outPath)
	// Only an EDGE_TTS_VOICE_AS override can get here with a voice other
	// than the Bengali default.
	retry := edgeDefaultVoices[models.LangBengali]
	if err != nil && lang == models.LangAssamese && voice != retry && bytes.Contains(stderr, []byte("NoAudioReceived")) {
		log.WithField("retry_voice", retry).Warn("edge tts: no audio for assamese voice, retrying with bengali")
		voice = retry
		stdout, stderr, err = e.run(ctx, e.python, e.script, "@"+input, voice, outPath)
	}

	if e.debug {
		log.WithFields(logrus.Fields{
			"stdout": truncate(string(stdout), 500),
			"stderr": truncate(string(stderr), 500),
		}).Debug("edge tts output")
	}
	if err != nil {
		_ = os.Remove(outPath)
		msg := strings.TrimSpace(truncate(string(stderr), 500))
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && msg != "" {
			err = fmt.Errorf("%w: %s", err, msg)
		}
		log.WithError(err).Warn("edge tts failed")
		return fmt.Errorf("edge tts failed (request_id: %s): %w", requestID, err)
	}

	log.WithFields(logrus.Fields{
		"took_ms": time.Since(start).Milliseconds(),
		"file":    filepath.Base(outPath),
	}).Info("edge tts audio generated")
	return nil
}

// truncate cuts s to at most n bytes on a rune boundary.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
