package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"golang.org/x/sync/errgroup"

	"whiteboard/internal/platform/config"
	"whiteboard/internal/platform/database"
	"whiteboard/internal/platform/httpserver"
	"whiteboard/internal/platform/kafka"
	"whiteboard/internal/platform/logger"
	platformmetrics "whiteboard/internal/platform/metrics"
	"whiteboard/internal/platform/middleware"
	"whiteboard/internal/platform/redis"
	"whiteboard/internal/whiteboard/dispatch"
	"whiteboard/internal/whiteboard/events"
	kafkapublisher "whiteboard/internal/whiteboard/events/publishers/kafka"
	redispublisher "whiteboard/internal/whiteboard/events/publishers/redis"
	"whiteboard/internal/whiteboard/events/store/memory"
	"whiteboard/internal/whiteboard/events/store/postgres"
	"whiteboard/internal/whiteboard/handler"
	"whiteboard/internal/whiteboard/listeners"
	"whiteboard/internal/whiteboard/matcher"
	"whiteboard/internal/whiteboard/metrics"
	"whiteboard/internal/whiteboard/models"
	"whiteboard/internal/whiteboard/ports"
	"whiteboard/internal/whiteboard/registry"
	"whiteboard/internal/whiteboard/source"
)

const shutdownTimeout = 10 * time.Second

// main wires the registry to its collaborators, event pipeline and HTTP
// surface. Reconciliation logic lives in internal/whiteboard/registry.
func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("whiteboard stopped with error", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Server, log *slog.Logger) error {
	reg := platformmetrics.NewRegistry()
	registryMetrics := metrics.New(reg)

	sink, closeSink, err := newSink(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeSink()

	bus := events.NewBus(cfg.Events.Buffer,
		events.WithDropHook(registryMetrics.IncrementEventsDropped),
		events.WithBusLogger(log),
	)

	m, err := matcher.New(cfg.MatcherCacheSize, log)
	if err != nil {
		return fmt.Errorf("create matcher: %w", err)
	}
	manager, err := registry.New(
		dispatch.New(log),
		listeners.New(log),
		ports.StaticRuntime(cfg.RuntimeAttributes),
		registry.WithLogger(log),
		registry.WithMetrics(registryMetrics),
		registry.WithEventPublisher(bus),
		registry.WithMatcher(m),
		registry.WithTracer(otel.Tracer("whiteboard")),
	)
	if err != nil {
		return fmt.Errorf("create registry: %w", err)
	}
	if err := manager.Start(ctx); err != nil {
		log.WarnContext(ctx, "registry started with collaborator errors", "error", err)
	}

	ids := &models.IDSequence{}
	if cfg.DeclarationsFile != "" {
		f, err := source.Load(cfg.DeclarationsFile)
		if err != nil {
			return err
		}
		if err := source.Apply(ctx, manager, f, ids); err != nil {
			log.WarnContext(ctx, "declarations applied with errors",
				"file", cfg.DeclarationsFile,
				"error", err,
			)
		}
		log.InfoContext(ctx, "declarations loaded",
			"file", cfg.DeclarationsFile,
			"contexts", len(f.Contexts),
			"services", len(f.Services),
		)
	}

	srv := httpserver.New(cfg.Addr, newRouter(cfg, manager, ids, reg, log))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return events.NewWorker(sink, bus.Events(), log).Run(context.WithoutCancel(gctx))
	})
	g.Go(func() error {
		log.InfoContext(gctx, "starting whiteboard", "addr", cfg.Addr, "event_sink", cfg.Events.Sink)
		serveErr := httpserver.Serve(gctx, srv, shutdownTimeout)

		stopCtx, cancel := context.WithTimeout(context.WithoutCancel(gctx), shutdownTimeout)
		defer cancel()
		if err := manager.Stop(stopCtx); err != nil {
			log.WarnContext(stopCtx, "registry stopped with collaborator errors", "error", err)
		}
		// Closing the bus lets the worker drain what Stop emitted and return.
		bus.Close()
		if dropped := bus.Dropped(); dropped > 0 {
			log.WarnContext(stopCtx, "registry events dropped", "count", dropped)
		}
		return serveErr
	})
	return g.Wait()
}

func newRouter(cfg config.Server, manager *registry.Manager, ids *models.IDSequence, reg *prometheus.Registry, log *slog.Logger) http.Handler {
	h := handler.New(manager, ids, log)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.ClientMetadata)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.Handle("/metrics", platformmetrics.Handler(reg))
	h.Register(r)

	if cfg.AdminJWTKey == "" {
		log.Warn("ADMIN_JWT_KEY not set; admin declaration endpoints are disabled")
		return r
	}
	if cfg.AdminSecretHash != "" {
		r.Post("/auth/token", middleware.IssueAdminToken([]byte(cfg.AdminJWTKey), cfg.AdminSecretHash, cfg.AdminTokenTTL, log))
	}
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAdmin([]byte(cfg.AdminJWTKey), log))
		h.RegisterAdmin(r)
	})
	return r
}

// newSink builds the configured event sink. The returned close function
// releases its connections.
func newSink(ctx context.Context, cfg config.Server, log *slog.Logger) (events.Sink, func(), error) {
	switch cfg.Events.Sink {
	case config.SinkRedis:
		client, err := redis.New(ctx, cfg.Redis)
		if err != nil {
			return nil, nil, err
		}
		return redispublisher.New(client.Client), func() { _ = client.Close() }, nil
	case config.SinkPostgres:
		db, err := database.Open(ctx, cfg.DatabaseDriver, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		store := postgres.New(db)
		if err := store.Migrate(ctx); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		return store, func() { _ = db.Close() }, nil
	case config.SinkKafka:
		client, err := kafka.New(ctx, cfg.Kafka)
		if err != nil {
			return nil, nil, err
		}
		if err := kafka.EnsureTopic(ctx, client, cfg.Kafka.Topic, 1, 1); err != nil {
			log.WarnContext(ctx, "could not ensure kafka topic", "topic", cfg.Kafka.Topic, "error", err)
		}
		return kafkapublisher.New(client, cfg.Kafka.Topic), client.Close, nil
	default:
		return memory.NewInMemoryStore(cfg.Events.Buffer), func() {}, nil
	}
}
