// Package app wires together all dependencies and runs the cart manager
// service.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/acidvertigo/cart/internal/config"
	"github.com/acidvertigo/cart/internal/event"
	handler "github.com/acidvertigo/cart/internal/handler/http"
	"github.com/acidvertigo/cart/internal/manager"
	"github.com/acidvertigo/cart/internal/storage"
	"github.com/acidvertigo/cart/internal/storage/memory"
	pgstore "github.com/acidvertigo/cart/internal/storage/postgres"
	redisstore "github.com/acidvertigo/cart/internal/storage/redis"
	"github.com/acidvertigo/cart/pkg/database"
	"github.com/acidvertigo/cart/pkg/health"
	pkgkafka "github.com/acidvertigo/cart/pkg/kafka"
	"github.com/acidvertigo/cart/pkg/tracing"
)

// App wires together all dependencies and runs the cart manager service.
type App struct {
	cfg     *config.Config
	logger  *slog.Logger
	manager *manager.Manager

	rdb            *redis.Client
	pool           *pgxpool.Pool
	producer       *pkgkafka.Producer
	httpServer     *http.Server
	tracerShutdown func(context.Context) error
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Tracing.
	tracingCfg := tracing.DefaultConfig("cart")
	tracingCfg.Environment = cfg.Environment
	tracingCfg.OTLPEndpoint = cfg.OTLPEndpoint
	tracingCfg.Enabled = cfg.TracingEnabled
	tracerShutdown, err := tracing.InitTracer(ctx, tracingCfg)
	if err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}

	// Storage backends. The memory driver is always available; redis and
	// postgres join the registry when their backing services are configured.
	registry := storage.NewRegistry()
	if err := registry.Register("memory", memory.New()); err != nil {
		return nil, err
	}

	healthHandler := health.NewHandler()

	var rdb *redis.Client
	if cfg.RedisEnabled {
		rdb, err = database.NewRedisClient(ctx, database.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPass,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		logger.Info("connected to Redis",
			slog.String("addr", cfg.RedisAddr),
			slog.Int("db", cfg.RedisDB),
		)

		ttl := time.Duration(cfg.SnapshotTTL) * time.Hour
		if err := registry.Register("redis", redisstore.New(rdb, ttl)); err != nil {
			return nil, err
		}
		healthHandler.Register("redis", func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		})
	}

	var pool *pgxpool.Pool
	if cfg.PostgresEnabled {
		pgCfg := database.DefaultPostgresConfig()
		pgCfg.Host = cfg.PostgresHost
		pgCfg.Port = cfg.PostgresPort
		pgCfg.User = cfg.PostgresUser
		pgCfg.Password = cfg.PostgresPass
		pgCfg.DBName = cfg.PostgresDB
		pgCfg.SSLMode = cfg.PostgresSSLMode

		pool, err = database.NewPostgresPool(ctx, &pgCfg)
		if err != nil {
			return nil, fmt.Errorf("connect to postgres: %w", err)
		}
		logger.Info("connected to PostgreSQL",
			slog.String("host", cfg.PostgresHost),
			slog.String("db", cfg.PostgresDB),
		)

		store := pgstore.New(pool)
		if err := store.Migrate(ctx); err != nil {
			return nil, fmt.Errorf("migrate postgres: %w", err)
		}
		if err := registry.Register("postgres", store); err != nil {
			return nil, err
		}
		healthHandler.Register("postgres", func(ctx context.Context) error {
			return pool.Ping(ctx)
		})
	}

	// Kafka lifecycle events.
	var (
		producer *pkgkafka.Producer
		events   manager.Publisher
	)
	if cfg.KafkaEnabled {
		kafkaCfg := pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers)
		producer = pkgkafka.NewProducer(kafkaCfg, logger)
		events = event.NewProducer(producer, logger)
		logger.Info("kafka producer initialized", slog.Any("brokers", cfg.KafkaBrokers))

		healthHandler.Register("kafka", producer.Ping)
	}

	// Cart manager with the declared instances from the carts file.
	m := manager.New(registry, events, logger)

	global, err := config.LoadCartsFile(cfg.CartsFile)
	if err != nil {
		return nil, err
	}
	if err := m.Initialize(ctx, global); err != nil {
		return nil, fmt.Errorf("initialize cart manager: %w", err)
	}

	// HTTP router.
	router := handler.NewRouter(m, healthHandler, logger)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &App{
		cfg:            cfg,
		logger:         logger,
		manager:        m,
		rdb:            rdb,
		pool:           pool,
		producer:       producer,
		httpServer:     httpServer,
		tracerShutdown: tracerShutdown,
	}, nil
}

// Run starts the HTTP server and blocks until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("starting HTTP server",
			slog.String("addr", a.httpServer.Addr),
		)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		return err
	}

	return a.Shutdown()
}

// Shutdown gracefully stops all components. Pending autosaves are released
// before the storage backends close.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
	}

	if err := a.manager.Release(shutdownCtx); err != nil {
		a.logger.Error("autosave release error", slog.String("error", err.Error()))
	}

	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
		}
	}

	if a.pool != nil {
		a.pool.Close()
	}

	if a.rdb != nil {
		if err := a.rdb.Close(); err != nil {
			a.logger.Error("redis close error", slog.String("error", err.Error()))
		}
	}

	if err := a.tracerShutdown(shutdownCtx); err != nil {
		a.logger.Error("tracer shutdown error", slog.String("error", err.Error()))
	}

	a.logger.Info("application shutdown complete")
	return nil
}
