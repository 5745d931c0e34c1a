package services

import (
	"context"
	"sync"

	"github.com/yoockh/jaanekhana/internal/models"
)

// Result is what a finished run hands to its front door.
type Result struct {
	Mode     models.AnalysisMode
	Language models.Language
	Text     string
	// Verbatim is set when Text is a fixed sentence to be sent as is.
	Verbatim bool
}

// Failure describes a run that ended in the error-reported state. It never
// carries the raw provider error.
type Failure struct {
	AttemptID string
	Stage     models.PipelineStage
	Language  models.Language
}

// Delivery is the outbound side of a pipeline run: the Telegram chat, an
// HTTP response or a WebSocket.
type Delivery interface {
	Progress(ctx context.Context, stage models.PipelineStage, lang models.Language) error
	Text(ctx context.Context, res Result) error
	Audio(ctx context.Context, res Result, path string) error
	Failure(ctx context.Context, f Failure) error
}

// Collector is a Delivery that keeps everything in memory, for callers
// that answer synchronously.
type Collector struct {
	mu       sync.Mutex
	Stages   []models.PipelineStage
	Results  []Result
	AudioOut []string
	Failures []Failure
}

func (c *Collector) Progress(_ context.Context, stage models.PipelineStage, _ models.Language) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Stages = append(c.Stages, stage)
	return nil
}

func (c *Collector) Text(_ context.Context, res Result) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Results = append(c.Results, res)
	return nil
}

func (c *Collector) Audio(_ context.Context, _ Result, path string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.AudioOut = append(c.AudioOut, path)
	return nil
}

func (c *Collector) Failure(_ context.Context, f Failure) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Failures = append(c.Failures, f)
	return nil
}
