package tts

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/yoockh/jaanekhana/internal/models"
)

const (
	elevenBaseURL      = "https://api.elevenlabs.io"
	elevenDefaultVoice = "JBFqnCBsd6RMkjVDRZzb"
	elevenDefaultModel = "eleven_multilingual_v2"
	elevenOutputFormat = "mp3_44100_128"
)

var errVoiceNotFound = errors.New("elevenlabs: voice not found")

type ElevenOption func(*ElevenLabs)

func WithVoice(id string) ElevenOption { return func(e *ElevenLabs) { e.voiceID = id } }

func WithModel(id string) ElevenOption { return func(e *ElevenLabs) { e.modelID = id } }

func WithBaseURL(u string) ElevenOption {
	return func(e *ElevenLabs) { e.baseURL = strings.TrimRight(u, "/") }
}

func WithHTTPClient(c *http.Client) ElevenOption { return func(e *ElevenLabs) { e.httpClient = c } }

func WithLogger(l *logrus.Logger) ElevenOption {
	return func(e *ElevenLabs) {
		if l != nil {
			e.log = l
		}
	}
}

// ElevenLabs calls the REST text-to-speech endpoint. The multilingual model
// picks the spoken language from the text itself.
type ElevenLabs struct {
	apiKey     string
	voiceID    string
	modelID    string
	baseURL    string
	httpClient *http.Client
	log        *logrus.Logger
}

func NewElevenLabs(apiKey string, opts ...ElevenOption) (*ElevenLabs, error) {
	if apiKey == "" {
		return nil, errors.New("elevenlabs: ELEVEN_API_KEY is not set")
	}
	e := &ElevenLabs{
		apiKey:     apiKey,
		voiceID:    elevenDefaultVoice,
		modelID:    elevenDefaultModel,
		baseURL:    elevenBaseURL,
		httpClient: &http.Client{},
		log:        logrus.New(),
	}
	for _, o := range opts {
		o(e)
	}
	return e, nil
}

func (e *ElevenLabs) Synthesize(ctx context.Context, text string, lang models.Language, outPath string) error {
	if strings.TrimSpace(text) == "" {
		return ErrEmptyText
	}
	err := e.convert(ctx, e.voiceID, text, outPath)
	if !errors.Is(err, errVoiceNotFound) {
		return err
	}

	voices, lerr := e.ListVoices(ctx)
	if lerr != nil {
		e.log.WithError(lerr).Warn("elevenlabs: list voices failed")
		return err
	}
	for _, v := range voices {
		if v.ID == "" || v.ID == e.voiceID {
			continue
		}
		e.log.WithFields(logrus.Fields{
			"configured_voice": e.voiceID,
			"fallback_voice":   v.ID,
			"lang":             lang,
		}).Warn("elevenlabs: configured voice missing, retrying with first available voice")
		return e.convert(ctx, v.ID, text, outPath)
	}
	return err
}

type convertRequest struct {
	Text    string `json:"text"`
	ModelID string `json:"model_id"`
}

func (e *ElevenLabs) convert(ctx context.Context, voiceID, text, outPath string) error {
	body, err := json.Marshal(convertRequest{Text: text, ModelID: e.modelID})
	if err != nil {
		return err
	}
	endpoint := fmt.Sprintf("%s/v1/text-to-speech/%s?output_format=%s",
		e.baseURL, url.PathEscape(voiceID), elevenOutputFormat)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("elevenlabs: %w", err)
	}
	req.Header.Set("xi-api-key", e.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "audio/mpeg")

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("elevenlabs: convert: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		if resp.StatusCode == http.StatusNotFound || bytes.Contains(msg, []byte("voice_not_found")) {
			return fmt.Errorf("%w: %s", errVoiceNotFound, voiceID)
		}
		return fmt.Errorf("elevenlabs: convert: status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	return writeFile(outPath, resp.Body)
}

type Voice struct {
	ID   string
	Name string
}

type voicesResponse struct {
	Voices []struct {
		VoiceID string `json:"voice_id"`
		Name    string `json:"name"`
	} `json:"voices"`
}

// ListVoices returns the voices available to the API key.
func (e *ElevenLabs) ListVoices(ctx context.Context) ([]Voice, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, e.baseURL+"/v1/voices", nil)
	if err != nil {
		return nil, fmt.Errorf("elevenlabs: list voices: %w", err)
	}
	req.Header.Set("xi-api-key", e.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("elevenlabs: list voices HTTP: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("elevenlabs: list voices: unexpected status %d", resp.StatusCode)
	}

	var vr voicesResponse
	if err := json.NewDecoder(resp.Body).Decode(&vr); err != nil {
		return nil, fmt.Errorf("elevenlabs: list voices decode: %w", err)
	}
	out := make([]Voice, 0, len(vr.Voices))
	for _, v := range vr.Voices {
		out = append(out, Voice{ID: v.VoiceID, Name: v.Name})
	}
	return out, nil
}

// writeFile streams r into path, removing the partial file on error.
func writeFile(path string, r io.Reader) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return err
	}
	return nil
}
