package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/JKevinXu/NewsAgent/internal/audio"
	"github.com/JKevinXu/NewsAgent/internal/config"
	"github.com/JKevinXu/NewsAgent/internal/fetch"
	"github.com/JKevinXu/NewsAgent/internal/infrastructure/blobstore"
	"github.com/JKevinXu/NewsAgent/internal/infrastructure/extract"
	"github.com/JKevinXu/NewsAgent/internal/infrastructure/githubtrending"
	"github.com/JKevinXu/NewsAgent/internal/infrastructure/hackernews"
	"github.com/JKevinXu/NewsAgent/internal/infrastructure/llm"
	"github.com/JKevinXu/NewsAgent/internal/infrastructure/mail"
	"github.com/JKevinXu/NewsAgent/internal/infrastructure/scheduler"
	"github.com/JKevinXu/NewsAgent/internal/infrastructure/store"
	"github.com/JKevinXu/NewsAgent/internal/infrastructure/tts"
	"github.com/JKevinXu/NewsAgent/internal/logging"
	"github.com/JKevinXu/NewsAgent/internal/ports"
	"github.com/JKevinXu/NewsAgent/internal/server"
	"github.com/JKevinXu/NewsAgent/internal/usecase"
)

const shutdownTimeout = 10 * time.Second

// Application wires configs to use cases and lifecycle orchestration.
// All external clients are constructed exactly once here and injected.
type Application struct {
	cfg       config.Config
	logger    *slog.Logger
	scheduler *usecase.Scheduler
	httpSrv   *http.Server
}

// New builds a runnable application instance.
func New(cfg config.Config, baseLogger *slog.Logger) *Application {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	registry := fetch.NewRegistry()
	registry.Register(hackernews.New(nil, baseLogger.With("component", "fetch.hackernews")))
	registry.Register(githubtrending.New(nil, baseLogger.With("component", "fetch.github")))

	sources := fetch.NewMultiSource(registry, cfg.Sources, baseLogger.With("component", "source"))
	extractor := extract.New(nil, baseLogger.With("component", "extract"))

	var summarizer ports.Summarizer
	if cfg.Anthropic.APIKey != "" {
		summarizer = llm.NewClaude(cfg.Anthropic)
	}

	var assembler *audio.Assembler
	if cfg.TTS.APIKey != "" {
		synth := tts.New(cfg.TTS)
		assembler = audio.NewAssembler(synth, baseLogger.With("component", "audio"))
	}

	objects := blobstore.New(cfg.Storage)

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	recStore := store.New(redisClient,
		time.Duration(cfg.Redis.TTLDays)*24*time.Hour,
		baseLogger.With("component", "store"))

	var mailer ports.Mailer
	if cfg.Mail.APIKey != "" {
		mailer = mail.New(cfg.Mail)
	}

	pipeline := usecase.NewPipeline(usecase.PipelineDeps{
		Sources:    sources,
		Extractor:  extractor,
		Summarizer: summarizer,
		Assembler:  assembler,
		Objects:    objects,
		Store:      recStore,
		Mailer:     mailer,
		Email: usecase.EmailSettings{
			From:          cfg.Mail.From,
			To:            cfg.Mail.To,
			SubjectPrefix: cfg.Mail.SubjectPrefix,
		},
		Location: cfg.Scheduler.Location(),
		Logger:   baseLogger.With("component", "pipeline"),
	})

	driver := scheduler.NewCronScheduler(cfg.Scheduler.CronExpression, cfg.Scheduler.Location())
	srv := server.New(pipeline, baseLogger.With("component", "server"))

	return &Application{
		cfg:       cfg,
		logger:    baseLogger,
		scheduler: usecase.NewScheduler(driver, pipeline),
		httpSrv: &http.Server{
			Addr:              cfg.Server.Address,
			Handler:           srv.Router(),
			ReadHeaderTimeout: 5 * time.Second,
		},
	}
}

// Run starts the cron scheduler and the trigger HTTP surface, then blocks
// until the context is cancelled.
func (a *Application) Run(ctx context.Context) error {
	if err := a.scheduler.Start(ctx); err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("http server listening", "address", a.httpSrv.Addr)
		if err := a.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := a.scheduler.Stop(shutdownCtx); err != nil {
		a.logger.Warn("scheduler stop", "error", err)
	}
	return a.httpSrv.Shutdown(shutdownCtx)
}
