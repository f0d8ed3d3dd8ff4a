package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"strings"
	"time"

	mentalmaps "mentalmaps/contexts/mapping/mental-maps"
	"mentalmaps/contexts/mapping/mental-maps/adapters/memory"
	postgresadapter "mentalmaps/contexts/mapping/mental-maps/adapters/postgres"
	workerapp "mentalmaps/contexts/mapping/mental-maps/application/workers"
	"mentalmaps/contexts/mapping/mental-maps/ports"
	"mentalmaps/internal/platform/config"
	"mentalmaps/internal/platform/db"
	"mentalmaps/internal/platform/httpserver"
	"mentalmaps/internal/platform/messaging"
)

// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.

const logModule = "internal/app/bootstrap"

type APIApp struct {
	server   *httpserver.Server
	postgres *db.Postgres
	// events is set only in memory mode, where no worker process shares the store.
	events *eventPipeline
	logger *slog.Logger
}

type WorkerApp struct {
	postgres *db.Postgres
	events   *eventPipeline
	logger   *slog.Logger
}

type eventPipeline struct {
	relay        workerapp.OutboxRelay
	audit        workerapp.AuditConsumer
	pollInterval time.Duration
}

func (p *eventPipeline) start(ctx context.Context) error {
	if err := p.audit.Start(ctx); err != nil {
		return err
	}
	go p.relay.Run(ctx, p.pollInterval)
	return nil
}

func newLogger(service string, process string) *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, nil)).With("service", service, "process", process)
}

func newEventPipeline(cfg config.Config, outbox ports.OutboxRepository, logger *slog.Logger) (*eventPipeline, error) {
	kafka, err := messaging.NewKafka(cfg.KafkaBrokers, logger)
	if err != nil {
		return nil, err
	}
	return &eventPipeline{
		relay: workerapp.OutboxRelay{
			Outbox:    outbox,
			Publisher: kafka,
			Clock:     postgresadapter.SystemClock{},
			Topic:     workerapp.DefaultTopic,
			BatchSize: 100,
			Logger:    logger,
		},
		audit: workerapp.AuditConsumer{
			Subscriber: kafka,
			Topic:      workerapp.DefaultTopic,
			Logger:     logger,
		},
		pollInterval: cfg.OutboxPollInterval,
	}, nil
}

// BuildAPI wires the API process. Without POSTGRES_DSN every resource lives in
// one in-memory store and the outbox relay runs inside the API process.
func BuildAPI() (*APIApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger := newLogger(cfg.ServiceName, "api")

	app := &APIApp{logger: logger}
	var module mentalmaps.Module
	if cfg.UsePostgres() {
		pg, err := db.Connect(cfg.PostgresDSN, logger)
		if err != nil {
			return nil, err
		}
		repo := postgresadapter.NewRepository(pg.DB, logger)
		if err := repo.Migrate(context.Background()); err != nil {
			_ = pg.Close()
			return nil, err
		}
		app.postgres = pg
		module = mentalmaps.NewModule(mentalmaps.Dependencies{
			Maps:           repo,
			Elements:       repo,
			Reports:        repo,
			Idempotency:    repo,
			Outbox:         repo,
			Clock:          postgresadapter.SystemClock{},
			IDGenerator:    postgresadapter.UUIDGenerator{},
			IdempotencyTTL: cfg.IdempotencyTTL,
			Logger:         logger,
		})
	} else {
		store := memory.NewStore(logger)
		module = mentalmaps.NewModule(mentalmaps.Dependencies{
			Maps:           store,
			Elements:       store,
			Reports:        store,
			Idempotency:    store,
			Outbox:         store,
			Clock:          postgresadapter.SystemClock{},
			IDGenerator:    postgresadapter.UUIDGenerator{},
			IdempotencyTTL: cfg.IdempotencyTTL,
			Logger:         logger,
		})
		module.Store = store
		app.events, err = newEventPipeline(cfg, store, logger)
		if err != nil {
			return nil, err
		}
	}

	app.server = httpserver.New(module, logger, httpserver.Options{
		Addr:          normalizeAddr(cfg.HTTPPort),
		ServiceName:   cfg.ServiceName,
		MaxBodyBytes:  cfg.MaxBodyBytes,
		EnableSwagger: cfg.EnableSwagger,
		EnableMetrics: cfg.EnableMetrics,
	})
	return app, nil
}

// BuildWorker wires the outbox relay against Postgres. The memory runtime has
// no separate worker since its outbox is not shared across processes.
func BuildWorker() (*WorkerApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger := newLogger(cfg.ServiceName, "worker")
	if !cfg.UsePostgres() {
		return nil, errors.New("POSTGRES_DSN is required")
	}

	pg, err := db.Connect(cfg.PostgresDSN, logger)
	if err != nil {
		return nil, err
	}
	repo := postgresadapter.NewRepository(pg.DB, logger)
	if err := repo.Migrate(context.Background()); err != nil {
		_ = pg.Close()
		return nil, err
	}

	pipeline, err := newEventPipeline(cfg, repo, logger)
	if err != nil {
		_ = pg.Close()
		return nil, err
	}
	return &WorkerApp{
		postgres: pg,
		events:   pipeline,
		logger:   logger,
	}, nil
}

func (a *APIApp) Run(ctx context.Context) error {
	if a.events != nil {
		if err := a.events.start(ctx); err != nil {
			return err
		}
	}
	a.logger.Info("api app started",
		"event", "bootstrap_api_started",
		"module", logModule,
		"layer", "platform",
		"in_process_relay", a.events != nil,
	)
	return a.server.Start(ctx)
}

func (a *APIApp) Close() error {
	if a.postgres != nil {
		return a.postgres.Close()
	}
	return nil
}

func (w *WorkerApp) Run(ctx context.Context) error {
	if err := w.events.audit.Start(ctx); err != nil {
		return err
	}

	w.logger.Info("worker app started",
		"event", "bootstrap_worker_started",
		"module", logModule,
		"layer", "platform",
		"poll_interval", w.events.pollInterval.String(),
	)

	w.events.relay.Run(ctx, w.events.pollInterval)
	return nil
}

func (w *WorkerApp) Close() error {
	if w.postgres != nil {
		return w.postgres.Close()
	}
	return nil
}

func normalizeAddr(port string) string {
	value := strings.TrimSpace(port)
	if value == "" {
		return ":3000"
	}
	if strings.HasPrefix(value, ":") {
		return value
	}
	return ":" + value
}
