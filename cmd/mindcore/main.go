package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/mindhq/mindcore/internal/adapter/executor/entertainment"
	"github.com/mindhq/mindcore/internal/adapter/executor/message"
	"github.com/mindhq/mindcore/internal/adapter/executor/shopping"
	"github.com/mindhq/mindcore/internal/adapter/gemini"
	mchttp "github.com/mindhq/mindcore/internal/adapter/http"
	mcnats "github.com/mindhq/mindcore/internal/adapter/nats"
	mcotel "github.com/mindhq/mindcore/internal/adapter/otel"
	"github.com/mindhq/mindcore/internal/adapter/postgres"
	"github.com/mindhq/mindcore/internal/adapter/ristretto"
	"github.com/mindhq/mindcore/internal/config"
	"github.com/mindhq/mindcore/internal/logger"
	"github.com/mindhq/mindcore/internal/port/cache"
	"github.com/mindhq/mindcore/internal/port/executor"
	"github.com/mindhq/mindcore/internal/port/messagequeue"
	"github.com/mindhq/mindcore/internal/port/notifier"
	"github.com/mindhq/mindcore/internal/resilience"
	"github.com/mindhq/mindcore/internal/service"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	slog.SetDefault(logger.New(cfg.Logging))
	slog.Info("config loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Logging.Level,
		"gateway_model", cfg.Gateway.Model,
	)

	ctx := context.Background()

	// --- Telemetry ---
	if cfg.Telemetry.Enabled {
		shutdown, err := mcotel.Setup(ctx, cfg.Logging.Service, cfg.Telemetry.Endpoint)
		if err != nil {
			return fmt.Errorf("otel: %w", err)
		}
		defer func() {
			sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdown(sctx); err != nil {
				slog.Warn("otel shutdown", "error", err)
			}
		}()
	}
	var metrics *mcotel.Metrics
	if cfg.Telemetry.Enabled {
		if metrics, err = mcotel.NewMetrics(); err != nil {
			return fmt.Errorf("otel metrics: %w", err)
		}
	}

	// --- Infrastructure ---
	pool, err := postgres.NewPool(ctx, cfg.Postgres)
	if err != nil {
		return fmt.Errorf("postgres: %w", err)
	}
	defer pool.Close()
	slog.Info("postgres connected")

	if err := postgres.RunMigrations(ctx, cfg.Postgres.DSN); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}
	slog.Info("migrations applied")

	var queue messagequeue.Queue
	if cfg.NATS.URL != "" {
		q, err := mcnats.Connect(ctx, cfg.NATS.URL)
		if err != nil {
			return fmt.Errorf("nats: %w", err)
		}
		defer func() { _ = q.Drain() }()
		queue = q
	}

	var taskCache cache.Cache
	if cfg.Cache.MaxSizeMB > 0 {
		c, err := ristretto.New(cfg.Cache.MaxSizeMB * 1024 * 1024)
		if err != nil {
			return fmt.Errorf("cache: %w", err)
		}
		defer c.Close()
		taskCache = c
	}

	// --- Interpretation gateway ---
	interp := gemini.NewClient(cfg.Gateway)
	interp.SetBreaker(resilience.NewBreaker(cfg.Breaker.MaxFailures, cfg.Breaker.Timeout))

	// --- Executors ---
	// The message executor doubles as the fallback for unknown categories.
	registry := executor.NewRegistry(message.New(message.NewSimulatedSender()))
	registry.Register(shopping.New(shopping.NewSimulatedCatalog()))
	registry.Register(entertainment.New(entertainment.NewSimulatedBooking()))

	// --- Services ---
	store := postgres.NewStore(pool)
	auditStore := postgres.NewAuditStore(pool)

	taskSvc := service.NewTaskService(store, auditStore, taskCache, cfg.Cache.TTL)
	notifySvc := service.NewNotificationService(buildNotifiers(cfg.Notify))
	orch := service.NewOrchestrator(store, auditStore, interp, registry,
		notifySvc, queue, metrics, cfg.Executors, taskSvc)

	// --- HTTP ---
	handlers := mchttp.NewHandlers(orch, taskSvc)

	r := chi.NewRouter()
	r.Use(mchttp.CORS(cfg.Server.CORSOrigin))
	r.Use(mchttp.Logger)
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(60 * time.Second))
	if cfg.Telemetry.Enabled {
		r.Use(mcotel.HTTPMiddleware(cfg.Logging.Service))
	}

	mchttp.MountRoutes(r, handlers)

	addr := ":" + cfg.Server.Port
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		slog.Info("starting server", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed", "error", err)
		}
	}()

	<-done
	slog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}

// buildNotifiers constructs the configured notification providers from the
// factory registry. Unknown or failing providers are skipped with a warning.
func buildNotifiers(cfg config.Notify) []notifier.Notifier {
	if !cfg.Enabled {
		return nil
	}

	var out []notifier.Notifier
	for _, name := range cfg.Providers {
		n, err := notifier.New(name, providerConfig(cfg, name))
		if err != nil {
			slog.Warn("notifier skipped", "provider", name, "error", err)
			continue
		}
		out = append(out, n)
	}
	slog.Info("notifiers configured", "count", len(out), "available", notifier.Available())
	return out
}

func providerConfig(cfg config.Notify, name string) map[string]string {
	switch name {
	case "email":
		return map[string]string{
			"host":     cfg.SMTP.Host,
			"port":     strconv.Itoa(cfg.SMTP.Port),
			"from":     cfg.SMTP.From,
			"password": cfg.SMTP.Password,
		}
	case "slack":
		return map[string]string{
			"webhook_url": cfg.Slack.WebhookURL,
		}
	default:
		return nil
	}
}
