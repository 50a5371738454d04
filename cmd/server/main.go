package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/tabletop-pos/api/internal/config"
	"github.com/tabletop-pos/api/internal/database"
	"github.com/tabletop-pos/api/internal/handler"
	"github.com/tabletop-pos/api/internal/logger"
	"github.com/tabletop-pos/api/internal/queue"
	"github.com/tabletop-pos/api/internal/router"
	"github.com/tabletop-pos/api/internal/service"
	"github.com/tabletop-pos/api/internal/store/mongo"
	"github.com/tabletop-pos/api/internal/telemetry"
	"github.com/tabletop-pos/api/internal/ws"
)

const (
	serviceName = "tabletop-pos-api"

	// observerQueueSize bounds the notifications buffered per slow observer.
	observerQueueSize = 256
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := run(cfg, log); err != nil {
		log.Fatalw("server stopped", "error", err)
	}
}

func run(cfg *config.Config, log *zap.SugaredLogger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// tracing
	shutdownTracing, err := telemetry.Setup(ctx, serviceName, cfg.OTelEndpoint)
	if err != nil {
		return fmt.Errorf("setup tracing: %w", err)
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			log.Errorw("error flushing traces", "error", err)
		}
	}()

	// postgres
	if cfg.AutoMigrate {
		if err := database.Migrate(cfg.DatabaseURL); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		log.Info("database migrations applied")
	}

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()
	if err := pool.Ping(ctx); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}
	log.Info("connected to PostgreSQL")

	queries := database.New(pool)

	// kitchen and stock feeds
	hub := ws.NewHub(log)
	hubDone := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(hubDone)
	}()

	// The feed only hands off to the hub; the broker and Mongo observers
	// run behind their own queues so checkout never waits on them.
	observers := service.Observers{ws.NewFeed(hub)}
	var background []*service.AsyncObserver
	runAsync := func(name string, next service.OrderObserver) {
		async := service.NewAsyncObserver(name, next, observerQueueSize, log)
		go async.Run(ctx)
		background = append(background, async)
		observers = append(observers, async)
	}

	// rabbitmq broker (optional)
	var broker queue.Broker
	if cfg.RabbitMQ.URL != "" {
		rmq, err := queue.NewRabbitMQBroker(queue.Config{
			URL:           cfg.RabbitMQ.URL,
			PrefetchCount: cfg.RabbitMQ.PrefetchCount,
		})
		if err != nil {
			return fmt.Errorf("connect to RabbitMQ: %w", err)
		}
		broker = rmq
		runAsync("order-events", queue.NewOrderEventPublisher(broker, log))
		log.Info("connected to RabbitMQ")
	} else {
		log.Warn("RABBITMQ_URL not set, order events will not be published")
	}

	// mongo audit trail (optional)
	var (
		storage *mongo.Storage
		audits  handler.CheckoutAuditReader
	)
	if cfg.Mongo.URI != "" {
		storage, err = mongo.New(mongo.Config{
			URI:      cfg.Mongo.URI,
			Database: cfg.Mongo.Database,
			Timeout:  cfg.Mongo.Timeout,
		})
		if err != nil {
			return fmt.Errorf("connect to MongoDB: %w", err)
		}
		log.Info("connected to MongoDB")

		idxCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		if err := storage.CreateIndexes(idxCtx); err != nil {
			log.Warnw("failed to create indexes", "error", err)
		}
		cancel()

		auditRepo := mongo.NewCheckoutAuditRepository(storage.Database())
		audits = auditRepo
		runAsync("checkout-audit", mongo.NewAuditObserver(auditRepo, log))
	} else {
		log.Warn("MONGO_URI not set, checkout audit trail is disabled")
	}

	// checkout
	policy, err := service.ParseStockPolicy(cfg.StockPolicy)
	if err != nil {
		return err
	}
	newCheckoutStore := func(db database.DBTX) service.CheckoutStore {
		return database.New(db)
	}
	checkout := service.NewCheckoutService(pool, newCheckoutStore,
		service.WithStockPolicy(policy),
		service.WithTimeout(cfg.CheckoutTimeout),
		service.WithObservers(observers...),
		service.WithLogger(log),
	)
	log.Infow("checkout configured", "stock_policy", policy.String(), "timeout", cfg.CheckoutTimeout)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router.New(cfg, log, queries, checkout, observers, hub, audits),
		WriteTimeout: 30 * time.Second,
		ReadTimeout:  10 * time.Second,
		IdleTimeout:  time.Minute,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Infow("server started", "addr", srv.Addr, "env", cfg.Env)
		serveErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
	case <-ctx.Done():
		log.Info("signal caught, shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorw("error shutting down HTTP server", "error", err)
	}

	stop()
	<-hubDone
	for _, async := range background {
		<-async.Done()
	}

	if storage != nil {
		if err := storage.Close(shutdownCtx); err != nil {
			log.Errorw("error closing MongoDB", "error", err)
		} else {
			log.Info("MongoDB connection closed gracefully")
		}
	}
	if broker != nil {
		if err := broker.Close(); err != nil {
			log.Errorw("error closing RabbitMQ", "error", err)
		} else {
			log.Info("RabbitMQ connection closed gracefully")
		}
	}

	log.Info("server stopped")
	return nil
}
