package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/gin-gonic/gin"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"
	"google.golang.org/api/option"

	"github.com/yoockh/jaanekhana/config"
	"github.com/yoockh/jaanekhana/internal/api/handlers"
	"github.com/yoockh/jaanekhana/internal/api/middleware"
	"github.com/yoockh/jaanekhana/internal/api/routes"
	"github.com/yoockh/jaanekhana/internal/bot"
	"github.com/yoockh/jaanekhana/internal/cache"
	"github.com/yoockh/jaanekhana/internal/logger"
	"github.com/yoockh/jaanekhana/internal/models"
	"github.com/yoockh/jaanekhana/internal/providers/analysis"
	"github.com/yoockh/jaanekhana/internal/providers/tts"
	"github.com/yoockh/jaanekhana/internal/repositories"
	"github.com/yoockh/jaanekhana/internal/repositories/memory"
	"github.com/yoockh/jaanekhana/internal/repositories/rediskv"
	"github.com/yoockh/jaanekhana/internal/services"
	"github.com/yoockh/jaanekhana/internal/storage"
	"github.com/yoockh/jaanekhana/internal/workers"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("config: %v", err)
	}
	log := logger.New(cfg.Server.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sessionsKV, profilesKV, pendingKV, closeStores := newStores(ctx, cfg, log)
	defer closeStores()

	// Analysis is optional: without it the bot and upload API answer with
	// a failure message, and TTS keeps working.
	var provider analysis.Provider
	if cfg.Gemini.Enabled() {
		vg, err := analysis.NewVertexGemini(ctx, analysis.VertexConfig{
			ProjectID:       cfg.Gemini.ProjectID,
			Location:        cfg.Gemini.Location,
			CredentialsFile: cfg.Gemini.CredentialsFile,
			ExtractModel:    cfg.Gemini.ExtractModel,
			SummaryModel:    cfg.Gemini.SummaryModel,
		}, log)
		if err != nil {
			log.WithError(err).Fatal("vertex ai init failed")
		}
		defer vg.Close()
		provider = vg
	} else {
		log.Warn("GCP_PROJECT_ID not set, label analysis disabled")
	}

	synth, err := tts.New(tts.Config{
		Backend:        cfg.TTS.Backend,
		ElevenAPIKey:   cfg.TTS.ElevenAPIKey,
		ElevenVoiceID:  cfg.TTS.ElevenVoiceID,
		ElevenModelID:  cfg.TTS.ElevenModelID,
		PythonBin:      cfg.TTS.PythonBin,
		EdgeScript:     cfg.TTS.EdgeScript,
		EdgeDebug:      cfg.TTS.EdgeDebug,
		VoiceOverrides: cfg.TTS.EdgeVoiceOverrides(),
	}, log)
	if err != nil {
		log.WithError(err).Warn("speech synthesis disabled")
		synth = nil
	}

	diag := services.NewDiagnosticsService(newDiagnosticsUploader(ctx, cfg, log), log)
	runner := &workers.Runner{
		MaxConcurrent: cfg.Pipeline.MaxConcurrent,
		Logger:        log,
		Sink: func(task string, err error) {
			log.WithField("task", task).WithError(err).Debug("pipeline task reported failure")
		},
	}

	sessions := services.NewSessionService(sessionsKV)
	profiles := services.NewProfileService(profilesKV)
	pending := services.NewPendingService(pendingKV)
	pipeline := services.NewPipelineService(sessions, provider, synth, runner, diag, log, services.PipelineConfig{
		UploadsDir: cfg.Server.UploadsDir,
		RetryDelay: cfg.Pipeline.SummaryRetryDelay,
	})
	speech := services.NewSpeechService(synth, cfg.Server.UploadsDir)

	if cfg.Server.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(log), middleware.CORS(cfg.Server.FrontendOrigin))
	if cfg.Server.DebugRequests {
		r.Use(middleware.DebugRequests(log, "/api/gemini"))
	}

	deps := routes.Deps{
		Analysis:   handlers.NewAnalysisHandler(pipeline, log),
		TTS:        handlers.NewTTSHandler(speech, routes.UploadsMount),
		Profile:    handlers.NewProfileHandler(),
		WS:         handlers.NewWSHandler(pipeline, cfg.Server.FrontendOrigin, log),
		UploadsDir: cfg.Server.UploadsDir,
	}

	if cfg.Telegram.Enabled() {
		api, err := tgbotapi.NewBotAPI(cfg.Telegram.Token)
		if err != nil {
			log.WithError(err).Fatal("telegram init failed")
		}
		b := bot.New(bot.Deps{
			API:       api,
			Sessions:  sessions,
			Languages: services.NewLanguageService(sessions),
			Wizard:    services.NewWizardService(sessions, profiles),
			Profiles:  profiles,
			Pending:   pending,
			Pipeline:  pipeline,
			Logger:    log,
		})
		if err := bot.RegisterWebhook(api, cfg.Telegram.Domain, cfg.Telegram.Token); err != nil {
			log.WithError(err).Error("webhook registration failed")
		}
		deps.Webhook = handlers.NewWebhookHandler(b, log)
		deps.WebhookPath = bot.WebhookPath(cfg.Telegram.Token)
		log.WithField("bot", api.Self.UserName).Info("telegram bot enabled")
	} else {
		log.Warn("TELEGRAM_BOT_TOKEN not set, bot disabled")
	}

	routes.RegisterRoutes(r, deps)

	srv := &http.Server{Addr: ":" + cfg.Server.Port, Handler: r}
	go func() {
		log.WithField("port", cfg.Server.Port).Info("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("http server failed")
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("http shutdown")
	}
	if err := runner.Wait(shutdownCtx); err != nil {
		log.WithError(err).Warn("pipeline runs still in flight at shutdown")
	}
}

// newStores uses Redis when REDIS_URL is set and in-process maps otherwise.
func newStores(ctx context.Context, cfg *config.Config, log *logrus.Logger) (
	repositories.KeyValue[models.Session],
	repositories.KeyValue[models.UserProfile],
	repositories.KeyValue[models.PendingPhoto],
	func(),
) {
	if cfg.Redis.URL == "" {
		return memory.NewKV[models.Session](),
			memory.NewKV[models.UserProfile](),
			memory.NewKV[models.PendingPhoto](memory.WithTTL[models.PendingPhoto](cfg.Pipeline.PendingPhotoTTL)),
			func() {}
	}

	rdb, err := config.NewRedis(ctx, cfg.Redis.URL)
	if err != nil {
		log.WithError(err).Fatal("redis init failed")
	}
	log.Info("redis connected")
	c := cache.NewRedisCache(rdb, "jaanekhana:")
	return rediskv.NewKV[models.Session](c, "session:", 0),
		rediskv.NewKV[models.UserProfile](c, "profile:", 0),
		rediskv.NewKV[models.PendingPhoto](c, "pending:", cfg.Pipeline.PendingPhotoTTL),
		func() { _ = rdb.Close() }
}

func newDiagnosticsUploader(ctx context.Context, cfg *config.Config, log *logrus.Logger) storage.Uploader {
	if cfg.Diagnostics.Bucket == "" {
		return storage.NewLocalUploader(filepath.Clean(cfg.Diagnostics.Dir))
	}
	var opts []option.ClientOption
	if cfg.Gemini.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.Gemini.CredentialsFile))
	}
	up, err := storage.NewGCSUploader(ctx, cfg.Diagnostics.Bucket, "diagnostics/", opts...)
	if err != nil {
		log.WithError(err).Warn("gcs diagnostics unavailable, writing locally")
		return storage.NewLocalUploader(filepath.Clean(cfg.Diagnostics.Dir))
	}
	return up
}
