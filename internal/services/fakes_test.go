package services

import (
	"context"
	"errors"
	"io"
	"os"
	"sync"

	"github.com/yoockh/jaanekhana/internal/models"
	"github.com/yoockh/jaanekhana/internal/providers/analysis"
	"github.com/yoockh/jaanekhana/internal/repositories/memory"
)

func newStores() (SessionService, ProfileService, PendingService) {
	return NewSessionService(memory.NewKV[models.Session]()),
		NewProfileService(memory.NewKV[models.UserProfile]()),
		NewPendingService(memory.NewKV[models.PendingPhoto]())
}

type bytesSource struct {
	data []byte
	err  error
}

func (b bytesSource) Fetch(_ context.Context, _ string, w io.Writer) error {
	if b.err != nil {
		return b.err
	}
	_, err := w.Write(b.data)
	return err
}

// jpegBytes starts with a JPEG signature so content sniffing sees an image.
var jpegBytes = append([]byte{0xFF, 0xD8, 0xFF, 0xE0}, make([]byte, 64)...)

type fakeProvider struct {
	mu sync.Mutex

	report       *models.LabelReport
	extractErr   error
	summaries    []string
	summaryErrs  []error
	claims       *models.ClaimsReport
	quick        string
	summaryCalls int
	seenImages   []analysis.Image
	seenProfile  *models.UserProfile
	seenLang     models.Language
	imageExisted bool
}

func (f *fakeProvider) see(img analysis.Image) {
	f.seenImages = append(f.seenImages, img)
	_, err := os.Stat(img.Path)
	f.imageExisted = err == nil
}

func (f *fakeProvider) ExtractLabel(_ context.Context, img analysis.Image) (*models.LabelReport, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.see(img)
	if f.extractErr != nil {
		return nil, f.extractErr
	}
	if f.report == nil {
		return &models.LabelReport{ProductName: "Test"}, nil
	}
	return f.report, nil
}

func (f *fakeProvider) Summarize(_ context.Context, _ *models.LabelReport, p *models.UserProfile, lang models.Language) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.summaryCalls
	f.summaryCalls++
	f.seenProfile = p
	f.seenLang = lang
	if i < len(f.summaryErrs) && f.summaryErrs[i] != nil {
		return "", f.summaryErrs[i]
	}
	if i < len(f.summaries) {
		return f.summaries[i], nil
	}
	return "summary", nil
}

func (f *fakeProvider) CheckClaims(_ context.Context, img analysis.Image, lang models.Language) (*models.ClaimsReport, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.see(img)
	f.seenLang = lang
	if f.claims == nil {
		return &models.ClaimsReport{}, nil
	}
	return f.claims, nil
}

func (f *fakeProvider) AnalyzeLabel(_ context.Context, img analysis.Image, p *models.UserProfile, lang models.Language) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.see(img)
	f.seenProfile = p
	f.seenLang = lang
	return f.quick, nil
}

func (f *fakeProvider) Close() error { return nil }

type fakeSynth struct {
	err   error
	texts []string
}

func (s *fakeSynth) Synthesize(_ context.Context, text string, _ models.Language, outPath string) error {
	s.texts = append(s.texts, text)
	if s.err != nil {
		return s.err
	}
	return os.WriteFile(outPath, []byte("ID3"), 0o644)
}

// recordingDelivery is a Collector that also checks files exist at the
// moment they are delivered.
type recordingDelivery struct {
	Collector
	audioExisted bool
	textErr      error
}

func (d *recordingDelivery) Text(ctx context.Context, res Result) error {
	if d.textErr != nil {
		return d.textErr
	}
	return d.Collector.Text(ctx, res)
}

func (d *recordingDelivery) Audio(ctx context.Context, res Result, path string) error {
	_, err := os.Stat(path)
	d.audioExisted = err == nil
	return d.Collector.Audio(ctx, res, path)
}

var errBoom = errors.New("boom")
