package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/xavierca1/recruitica/internal/config"
	"github.com/xavierca1/recruitica/internal/entity"
	"github.com/xavierca1/recruitica/internal/functions"
	"github.com/xavierca1/recruitica/internal/infra/database"
	"github.com/xavierca1/recruitica/internal/infra/http/handlers"
	"github.com/xavierca1/recruitica/internal/infra/http/middleware"
	"github.com/xavierca1/recruitica/internal/infra/integration/automation"
	"github.com/xavierca1/recruitica/internal/infra/integration/gemini"
	"github.com/xavierca1/recruitica/internal/infra/integration/llm"
	"github.com/xavierca1/recruitica/internal/infra/integration/openrouter"
	"github.com/xavierca1/recruitica/internal/infra/mail"
	"github.com/xavierca1/recruitica/internal/infra/memory"
	"github.com/xavierca1/recruitica/internal/infra/queue"
	"github.com/xavierca1/recruitica/internal/infra/session"
	"github.com/xavierca1/recruitica/internal/infra/storage"
	"github.com/xavierca1/recruitica/internal/infra/worker"
	"github.com/xavierca1/recruitica/internal/logger"
	"github.com/xavierca1/recruitica/internal/usecase"
)

const shutdownTimeout = 10 * time.Second

type repositories struct {
	Lists      entity.ClientListRepositoryInterface
	Clients    entity.ClientRepositoryInterface
	Entries    entity.ClientListEntryRepositoryInterface
	Candidates entity.CandidateRepositoryInterface
	Cleanups   entity.PendingCleanupRepositoryInterface
}

func setup() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, nil, err
	}
	log, err := logger.New(jsonLog || cfg.JSON, debug || cfg.Debug)
	if err != nil {
		return nil, nil, fmt.Errorf("build logger: %w", err)
	}
	return cfg, log, nil
}

func openDB(ctx context.Context, cfg *config.Config) (*sql.DB, error) {
	if cfg.Database.URL == "" {
		return nil, errors.New("database.url (DATABASE_URL) is required")
	}
	return database.NewDBConnection(ctx, cfg.Database.URL, database.PoolConfig{
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	})
}

func postgresRepositories(db *sql.DB) repositories {
	return repositories{
		Lists:      database.NewClientListRepository(db),
		Clients:    database.NewClientRepository(db),
		Entries:    database.NewClientListEntryRepository(db),
		Candidates: database.NewCandidateRepository(db),
		Cleanups:   database.NewPendingCleanupRepository(db),
	}
}

func memoryRepositories() repositories {
	s := memory.NewStore()
	return repositories{
		Lists:      s.ClientLists(),
		Clients:    s.Clients(),
		Entries:    s.Entries(),
		Candidates: s.Candidates(),
		Cleanups:   s.PendingCleanups(),
	}
}

func newObjectStore(ctx context.Context, cfg *config.Config, log *zap.Logger) (*storage.S3Store, error) {
	return storage.NewS3Store(ctx, storage.Config{
		Endpoint:        cfg.Storage.Endpoint,
		Region:          cfg.Storage.Region,
		AccessKeyID:     cfg.Storage.AccessKeyID,
		SecretAccessKey: cfg.Storage.SecretAccessKey,
		Bucket:          cfg.Storage.Bucket,
		PublicBaseURL:   cfg.Storage.PublicBaseURL,
	}, log)
}

func newCompleter(ctx context.Context, cfg *config.Config, log *zap.Logger) (llm.Completer, error) {
	if cfg.AI.Provider == config.ProviderGemini {
		return gemini.NewClient(ctx, cfg.AI.GeminiAPIKey, cfg.AI.GeminiModel, log)
	}
	return openrouter.NewClient(openrouter.Config{
		APIKey:   cfg.AI.APIKey,
		BaseURL:  cfg.AI.BaseURL,
		SiteURL:  cfg.AI.SiteURL,
		SiteName: cfg.AI.SiteName,
	}, log), nil
}

func runServe(ctx context.Context, addr string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer log.Sync()

	if addr != "" {
		cfg.HTTP.Addr = addr
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		db    *sql.DB
		repos repositories
	)
	if cfg.Database.URL != "" {
		db, err = openDB(ctx, cfg)
		if err != nil {
			return err
		}
		defer db.Close()
		repos = postgresRepositories(db)
	} else {
		log.Warn("DATABASE_URL not set, using the in-memory store")
		repos = memoryRepositories()
	}

	objects, err := newObjectStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	ai, err := newCompleter(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("ai provider %s: %w", cfg.AI.Provider, err)
	}

	gateway := automation.NewClient(automation.Config{
		DraftURL:    cfg.Automation.DraftURL,
		FinalizeURL: cfg.Automation.FinalizeURL,
		Timeout:     cfg.Automation.Timeout,
	}, log)

	// Webhook and SMTP deliver in the request. Queue mode publishes and lets
	// the worker deliver through the webhook, or SMTP when a host is set.
	var deliverer queue.Deliverer = gateway
	if cfg.SMTP.Host != "" {
		deliverer = mail.NewEmailSender(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.User, cfg.SMTP.Password, cfg.SMTP.From)
	}

	g, ctx := errgroup.WithContext(ctx)

	var (
		notifier      usecase.FinalizeNotifier = gateway
		rabbitHealthy func() bool
	)
	switch cfg.Drafts.FinalizeMode {
	case config.FinalizeSMTP:
		notifier = deliverer
	case config.FinalizeQueue:
		rmq, err := queue.NewRabbitMQ(cfg.RabbitMQ.URL)
		if err != nil {
			return err
		}
		defer rmq.Close()
		rabbitHealthy = rmq.Healthy

		consumeCh, err := rmq.Conn.Channel()
		if err != nil {
			return fmt.Errorf("open consumer channel: %w", err)
		}
		notifier = queue.NewProducer(rmq.Ch, log)
		finalizeWorker := queue.NewWorker(consumeCh, deliverer, log)
		g.Go(func() error { return finalizeWorker.Start(ctx, queue.QueueName) })
	}

	drafts := session.NewDraftStore(cfg.Drafts.TTL)
	limiter := middleware.NewRateLimiter(cfg.HTTP.RateLimit, cfg.HTTP.RateWindow)
	sweeper := worker.NewOrphanSweeper(repos.Cleanups, objects, log,
		cfg.Sweeper.Interval, cfg.Sweeper.MaxAttempts, cfg.Sweeper.BatchSize)

	directory := usecase.NewClientDirectoryUseCase(repos.Lists, repos.Clients, repos.Entries, cfg.Intake.SearchLimit)
	intake := usecase.NewCandidateIntakeUseCase(repos.Lists, repos.Candidates, repos.Cleanups, objects, cfg.Intake.RedirectAfter, log)
	extraction := usecase.NewDocumentExtractionUseCase(objects, log)

	var pinger interface {
		PingContext(ctx context.Context) error
	}
	if db != nil {
		pinger = db
	}

	router := handlers.NewRouter(handlers.RouterConfig{
		AuthUserHeader: cfg.HTTP.AuthUserHeader,
		AllowedOrigins: cfg.HTTP.AllowedOrigins,
		Logger:         log,
		Limiter:        limiter,
		Health: handlers.NewHealthHandler(pinger, rabbitHealthy, map[string]bool{
			"automation":       gateway.DraftConfigured(),
			"finalize_webhook": gateway.FinalizeConfigured(),
			"ai":               cfg.AI.APIKey != "" || cfg.AI.GeminiAPIKey != "",
			"storage":          cfg.Storage.Endpoint != "",
		}),
		ClientLists: handlers.NewClientListHandler(usecase.NewClientListsUseCase(repos.Lists)),
		Clients:     handlers.NewClientHandler(directory),
		Candidates:  handlers.NewCandidateHandler(intake, cfg.HTTP.MaxUploadBytes, log),
		Drafts: handlers.NewDraftHandler(
			usecase.NewDraftGenerationUseCase(repos.Candidates, directory, gateway, drafts, log),
			usecase.NewIntroGeneratorUseCase(repos.Candidates, directory, extraction, ai, drafts, log),
			usecase.NewEmailRefinementUseCase(ai, drafts, log, cfg.AI.MaxLogLength),
			usecase.NewFinalizeUseCase(drafts, notifier, cfg.Drafts.FinalizeMode, log),
			log,
		),
		Functions: handlers.NewFunctionHandler(functions.NewService(usecase.NewAIProxyUseCase(ai, log), extraction, log)),
	})

	srv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g.Go(func() error {
		log.Info("server listening",
			zap.String("addr", cfg.HTTP.Addr),
			zap.String("finalize_mode", cfg.Drafts.FinalizeMode),
			zap.String("ai_provider", cfg.AI.Provider),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	g.Go(func() error { return sweeper.Start(ctx) })
	g.Go(func() error { return drafts.Run(ctx, time.Minute) })
	g.Go(func() error { return limiter.Run(ctx) })

	err = g.Wait()
	log.Info("server stopped", zap.Int("open_drafts", drafts.Count()))
	return err
}

func runMigrate(ctx context.Context) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer log.Sync()

	db, err := openDB(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := database.Migrate(ctx, db); err != nil {
		return err
	}
	log.Info("schema applied")
	return nil
}

func runSweep(ctx context.Context) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer log.Sync()

	db, err := openDB(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	objects, err := newObjectStore(ctx, cfg, log)
	if err != nil {
		return err
	}

	sweeper := worker.NewOrphanSweeper(database.NewPendingCleanupRepository(db), objects, log,
		cfg.Sweeper.Interval, cfg.Sweeper.MaxAttempts, cfg.Sweeper.BatchSize)
	deleted, failed := sweeper.Sweep(ctx)
	log.Info("sweep finished", zap.Int("deleted", deleted), zap.Int("failed", failed))
	return nil
}
