package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yoockh/jaanekhana/internal/models"
	"github.com/yoockh/jaanekhana/internal/providers/analysis"
	"github.com/yoockh/jaanekhana/internal/providers/tts"
	"github.com/yoockh/jaanekhana/internal/utils"
	"github.com/yoockh/jaanekhana/internal/workers"
)

// MediaSource copies the photo identified by ref into w.
type MediaSource interface {
	Fetch(ctx context.Context, ref string, w io.Writer) error
}

// Job is one pipeline run request.
type Job struct {
	UserID   string
	Mode     models.AnalysisMode
	Language models.Language
	Profile  *models.UserProfile
	Source   MediaSource
	MediaRef string
	Delivery Delivery
	// Audio enables the synthesizing stage of ModeAnalyze runs.
	Audio bool
	// Ephemeral marks a per-request user id; its session is dropped
	// instead of released when the run ends.
	Ephemeral bool
}

// ErrBusy is returned when the user already has a run in flight.
var ErrBusy = utils.E(utils.CodeConflict, "Pipeline.Start", "still processing", nil)

type PipelineService interface {
	// Start takes the user's guard and runs job in the background.
	// It returns ErrBusy without side effects when the guard is held.
	Start(ctx context.Context, job Job) error
	// Execute runs job on the calling goroutine under the same guard.
	Execute(ctx context.Context, job Job) (Result, error)
}

type PipelineConfig struct {
	UploadsDir string
	RetryDelay time.Duration
}

type pipelineService struct {
	sessions SessionService
	provider analysis.Provider
	speech   tts.Synthesizer
	runner   *workers.Runner
	diag     DiagnosticsService
	log      *logrus.Logger
	cfg      PipelineConfig

	sleep func(ctx context.Context, d time.Duration) error
}

func NewPipelineService(
	sessions SessionService,
	provider analysis.Provider,
	speech tts.Synthesizer,
	runner *workers.Runner,
	diag DiagnosticsService,
	log *logrus.Logger,
	cfg PipelineConfig,
) PipelineService {
	if cfg.UploadsDir == "" {
		cfg.UploadsDir = "./uploads"
	}
	return &pipelineService{
		sessions: sessions,
		provider: provider,
		speech:   speech,
		runner:   runner,
		diag:     diag,
		log:      log,
		cfg:      cfg,
		sleep:    sleepCtx,
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *pipelineService) Start(ctx context.Context, job Job) error {
	if err := p.validate(job); err != nil {
		return err
	}
	ok, err := p.sessions.TryAcquire(ctx, job.UserID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrBusy
	}
	p.runner.Go("pipeline:"+string(job.Mode), func(runCtx context.Context) error {
		_, err := p.run(runCtx, job)
		return err
	})
	return nil
}

func (p *pipelineService) Execute(ctx context.Context, job Job) (Result, error) {
	if err := p.validate(job); err != nil {
		return Result{}, err
	}
	ok, err := p.sessions.TryAcquire(ctx, job.UserID)
	if err != nil {
		return Result{}, err
	}
	if !ok {
		return Result{}, ErrBusy
	}
	return p.run(ctx, job)
}

func (p *pipelineService) validate(job Job) error {
	const op = "Pipeline.validate"

	if p.provider == nil {
		return utils.E(utils.CodeUnavailable, op, "analysis is not configured", nil)
	}
	if job.UserID == "" || job.Source == nil || job.Delivery == nil {
		return utils.E(utils.CodeInvalidArgument, op, "user, source and delivery are required", nil)
	}
	if _, ok := models.ParseAnalysisMode(string(job.Mode)); !ok {
		return utils.E(utils.CodeInvalidArgument, op, "unknown analysis mode", nil)
	}
	return nil
}

// run executes the stages of one attempt. The caller must hold the guard;
// run always releases it.
func (p *pipelineService) run(ctx context.Context, job Job) (res Result, err error) {
	attemptID := uuid.NewString()
	lang := job.Language
	if lang == "" {
		lang = models.DefaultLanguage
	}
	log := p.log.WithFields(logrus.Fields{
		"attempt_id": attemptID,
		"user_id":    job.UserID,
		"mode":       job.Mode,
		"lang":       lang,
	})
	stage := models.StageLocked
	var imagePath, audioPath string

	// Deferred in reverse: report failure, delete files, release the guard.
	defer func() {
		release := p.sessions.Release
		if job.Ephemeral {
			release = p.sessions.Forget
		}
		if rerr := release(context.WithoutCancel(ctx), job.UserID); rerr != nil {
			log.WithError(rerr).Error("failed to release processing guard")
		}
		log.WithField("stage", models.StageUnlocked).Debug("pipeline unlocked")
	}()
	defer func() {
		for _, path := range []string{imagePath, audioPath} {
			if rmErr := utils.RemoveQuietly(path); rmErr != nil {
				log.WithField("path", path).WithError(rmErr).Debug("cleanup failed")
			}
		}
	}()
	defer func() {
		if err == nil {
			return
		}
		log.WithField("stage", stage).WithError(err).Error("pipeline failed")
		if p.diag != nil {
			p.diag.Record(context.WithoutCancel(ctx), Diagnostic{
				AttemptID: attemptID, UserID: job.UserID, Mode: job.Mode,
				Language: lang, Stage: stage, Error: err.Error(),
			})
		}
		if ferr := job.Delivery.Failure(context.WithoutCancel(ctx), Failure{AttemptID: attemptID, Stage: stage, Language: lang}); ferr != nil {
			log.WithError(ferr).Warn("failed to report pipeline failure")
		}
	}()

	fail := func(code utils.Code, msg string, cause error) error {
		return utils.E(code, "Pipeline."+string(stage), msg, cause)
	}

	stage = models.StageDownloading
	p.progress(ctx, log, job, stage, lang)
	img, err := p.download(ctx, job)
	imagePath = img.Path
	if err != nil {
		return res, fail(utils.CodeUnavailable, "failed to download image", err)
	}

	res = Result{Mode: job.Mode, Language: lang}

	switch job.Mode {
	case models.ModeClaims:
		stage = models.StageExtracting
		p.progress(ctx, log, job, stage, lang)
		report, cerr := p.provider.CheckClaims(ctx, img, lang)
		if cerr != nil {
			return res, fail(codeFor(cerr), "failed to check claims", cerr)
		}
		reportable := report.Reportable()
		res.Text = RenderClaims(reportable, lang)
		res.Verbatim = len(reportable) == 0

	case models.ModeQuick:
		stage = models.StageSummarizing
		p.progress(ctx, log, job, stage, lang)
		text, qerr := p.provider.AnalyzeLabel(ctx, img, job.Profile, lang)
		if qerr != nil {
			return res, fail(codeFor(qerr), "failed to analyze label", qerr)
		}
		res.Text = Speakable(text)

	default:
		stage = models.StageExtracting
		p.progress(ctx, log, job, stage, lang)
		report, xerr := p.provider.ExtractLabel(ctx, img)
		if xerr != nil {
			return res, fail(codeFor(xerr), "failed to read label", xerr)
		}

		stage = models.StageSummarizing
		p.progress(ctx, log, job, stage, lang)
		text, serr := p.summarize(ctx, log, report, job.Profile, lang)
		if serr != nil {
			return res, fail(codeFor(serr), "failed to summarize label", serr)
		}
		res.Text = Speakable(text)
	}

	if strings.TrimSpace(res.Text) == "" {
		return res, fail(utils.CodeInternal, "empty analysis", analysis.ErrEmptyResponse)
	}

	stage = models.StageDelivering
	if err := job.Delivery.Text(ctx, res); err != nil {
		return res, fail(utils.CodeUnavailable, "failed to deliver result", err)
	}

	if job.Mode == models.ModeAnalyze && job.Audio && p.speech != nil {
		stage = models.StageSynthesize
		p.progress(ctx, log, job, stage, lang)
		audioPath = p.tempPath(job.UserID, ".mp3")
		if serr := p.speech.Synthesize(ctx, res.Text, lang, audioPath); serr != nil {
			log.WithError(serr).Warn("speech synthesis failed, text already delivered")
		} else {
			stage = models.StageDelivering
			if aerr := job.Delivery.Audio(ctx, res, audioPath); aerr != nil {
				log.WithError(aerr).Warn("failed to deliver audio")
			}
		}
	}

	log.Info("pipeline finished")
	return res, nil
}

func (p *pipelineService) progress(ctx context.Context, log *logrus.Entry, job Job, stage models.PipelineStage, lang models.Language) {
	log.WithField("stage", stage).Debug("pipeline stage")
	if err := job.Delivery.Progress(ctx, stage, lang); err != nil {
		log.WithField("stage", stage).WithError(err).Debug("progress notification failed")
	}
}

// summarize retries exactly once when the provider is overloaded.
func (p *pipelineService) summarize(ctx context.Context, log *logrus.Entry, report *models.LabelReport, profile *models.UserProfile, lang models.Language) (string, error) {
	text, err := p.provider.Summarize(ctx, report, profile, lang)
	if err == nil || !analysis.IsOverloaded(err) {
		return text, err
	}
	log.WithError(err).WithField("retry_in", p.cfg.RetryDelay.String()).Warn("summary provider overloaded, retrying once")
	if serr := p.sleep(ctx, p.cfg.RetryDelay); serr != nil {
		return "", err
	}
	return p.provider.Summarize(ctx, report, profile, lang)
}

func (p *pipelineService) tempPath(userID, ext string) string {
	slug := strings.NewReplacer(":", "_", "/", "_", "\\", "_").Replace(userID)
	return filepath.Join(p.cfg.UploadsDir, fmt.Sprintf("%s_%s%s", slug, uuid.NewString(), ext))
}

// download writes the photo under the uploads dir and sniffs its type.
// The returned path is set even on error so cleanup can remove it.
func (p *pipelineService) download(ctx context.Context, job Job) (analysis.Image, error) {
	if err := utils.EnsureDir(p.cfg.UploadsDir); err != nil {
		return analysis.Image{}, err
	}
	img := analysis.Image{Path: p.tempPath(job.UserID, ".jpg")}

	f, err := os.Create(img.Path)
	if err != nil {
		return analysis.Image{}, err
	}
	if err := job.Source.Fetch(ctx, job.MediaRef, f); err != nil {
		_ = f.Close()
		return img, err
	}
	if err := f.Close(); err != nil {
		return img, err
	}

	head := make([]byte, 512)
	rf, err := os.Open(img.Path)
	if err != nil {
		return img, err
	}
	defer rf.Close()
	n, err := io.ReadFull(rf, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return img, err
	}
	if n == 0 {
		return img, errors.New("downloaded image is empty")
	}
	img.MIMEType = http.DetectContentType(head[:n])
	if !strings.HasPrefix(img.MIMEType, "image/") {
		img.MIMEType = "image/jpeg"
	}
	return img, nil
}

func codeFor(err error) utils.Code {
	if analysis.IsOverloaded(err) {
		return utils.CodeOverloaded
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return utils.CodeTimeout
	}
	return utils.CodeInternal
}
