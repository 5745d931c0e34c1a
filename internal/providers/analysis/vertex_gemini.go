package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"cloud.google.com/go/vertexai/genai"
	"github.com/sirupsen/logrus"
	"google.golang.org/api/option"

	"github.com/yoockh/jaanekhana/internal/models"
)

type VertexConfig struct {
	ProjectID       string
	Location        string
	CredentialsFile string
	ExtractModel    string
	SummaryModel    string
}

type VertexGemini struct {
	client       *genai.Client
	extractModel string
	summaryModel string
	log          *logrus.Logger
}

var _ Provider = (*VertexGemini)(nil)

func NewVertexGemini(ctx context.Context, cfg VertexConfig, log *logrus.Logger) (*VertexGemini, error) {
	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	c, err := genai.NewClient(ctx, cfg.ProjectID, cfg.Location, opts...)
	if err != nil {
		return nil, err
	}

	if cfg.ExtractModel == "" {
		cfg.ExtractModel = "gemini-2.5-flash-lite"
	}
	if cfg.SummaryModel == "" {
		cfg.SummaryModel = "gemini-2.5-flash"
	}
	if log == nil {
		log = logrus.New()
	}
	return &VertexGemini{client: c, extractModel: cfg.ExtractModel, summaryModel: cfg.SummaryModel, log: log}, nil
}

func (v *VertexGemini) Close() error { return v.client.Close() }

func (v *VertexGemini) model(name, instruction, mime string, schema *genai.Schema) *genai.GenerativeModel {
	m := v.client.GenerativeModel(name)
	m.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(instruction)}}
	m.GenerationConfig.ResponseMIMEType = mime
	m.GenerationConfig.ResponseSchema = schema
	return m
}

func imagePart(img Image) (genai.Part, error) {
	data, err := os.ReadFile(img.Path)
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}
	mime := img.MIMEType
	if mime == "" {
		mime = "image/jpeg"
	}
	return genai.Blob{MIMEType: mime, Data: data}, nil
}

func (v *VertexGemini) ExtractLabel(ctx context.Context, img Image) (*models.LabelReport, error) {
	part, err := imagePart(img)
	if err != nil {
		return nil, err
	}
	m := v.model(v.extractModel, extractInstruction, "application/json", labelSchema)
	resp, err := m.GenerateContent(ctx, genai.Text(extractPrompt), part)
	if err != nil {
		return nil, err
	}
	raw, err := responseText(resp)
	if err != nil {
		return nil, err
	}
	return v.parseLabelReport(raw)
}

func (v *VertexGemini) parseLabelReport(raw string) (*models.LabelReport, error) {
	var r models.LabelReport
	if err := json.Unmarshal([]byte(stripFences(raw)), &r); err != nil {
		v.log.WithField("raw_len", len(raw)).WithError(err).Warn("gemini extraction returned invalid json")
		return nil, fmt.Errorf("%w: %v", ErrMalformedJSON, err)
	}
	r.Normalize()
	return &r, nil
}

func (v *VertexGemini) Summarize(ctx context.Context, report *models.LabelReport, profile *models.UserProfile, lang models.Language) (string, error) {
	prompt, err := summaryPrompt(report, profile, lang)
	if err != nil {
		return "", err
	}
	m := v.model(v.summaryModel, summaryInstruction(lang), "text/plain", nil)
	resp, err := m.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", err
	}
	return responseText(resp)
}

func (v *VertexGemini) CheckClaims(ctx context.Context, img Image, lang models.Language) (*models.ClaimsReport, error) {
	part, err := imagePart(img)
	if err != nil {
		return nil, err
	}
	m := v.model(v.extractModel, claimsInstruction, "application/json", claimsSchema)
	resp, err := m.GenerateContent(ctx, genai.Text(claimsPrompt(lang)), part)
	if err != nil {
		return nil, err
	}
	raw, err := responseText(resp)
	if err != nil {
		return nil, err
	}
	var r models.ClaimsReport
	if err := json.Unmarshal([]byte(stripFences(raw)), &r); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedJSON, err)
	}
	return &r, nil
}

func (v *VertexGemini) AnalyzeLabel(ctx context.Context, img Image, profile *models.UserProfile, lang models.Language) (string, error) {
	part, err := imagePart(img)
	if err != nil {
		return "", err
	}
	m := v.model(v.summaryModel, summaryInstruction(lang), "text/plain", nil)
	resp, err := m.GenerateContent(ctx, genai.Text(analyzePrompt(profile, lang)), part)
	if err != nil {
		return "", err
	}
	return responseText(resp)
}

// responseText joins the text parts of the first candidate that has any.
func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil {
		return "", ErrEmptyResponse
	}
	for _, cand := range resp.Candidates {
		if cand == nil || cand.Content == nil {
			continue
		}
		var b strings.Builder
		for _, part := range cand.Content.Parts {
			if t, ok := part.(genai.Text); ok {
				b.WriteString(string(t))
			}
		}
		if s := strings.TrimSpace(b.String()); s != "" {
			return s, nil
		}
	}
	return "", ErrEmptyResponse
}

// stripFences removes a ```json fence some models wrap around JSON.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	}
	return strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "```"))
}
