// Command api serves the cargo tracking HTTP API and runs the location-update
// workers.
//
// @title        Cargo Tracking API
// @version      1.0
// @description  Shipment lifecycle, location tracking and ETA estimation for cargo containers.
// @BasePath     /
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

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/99minutos/cargo-tracking/internal/api"
	"github.com/99minutos/cargo-tracking/internal/api/handler"
	"github.com/99minutos/cargo-tracking/internal/core/service"
	"github.com/99minutos/cargo-tracking/internal/core/tracking"
	"github.com/99minutos/cargo-tracking/internal/infrastructure/clock"
	"github.com/99minutos/cargo-tracking/internal/infrastructure/config"
	mongodb "github.com/99minutos/cargo-tracking/internal/infrastructure/db/mongo"
	redisdb "github.com/99minutos/cargo-tracking/internal/infrastructure/db/redis"
	"github.com/99minutos/cargo-tracking/internal/infrastructure/idgen"
	"github.com/99minutos/cargo-tracking/internal/infrastructure/kafka"
	"github.com/99minutos/cargo-tracking/internal/infrastructure/queue"
	"github.com/99minutos/cargo-tracking/internal/pkg/retrier"
	"github.com/99minutos/cargo-tracking/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "cargo-tracking: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "cargo-tracking",
	})

	// --- Storage ---
	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:         cfg.Mongo.URI,
		Database:    cfg.Mongo.Database,
		MaxPoolSize: cfg.Mongo.MaxPoolSize,
	})
	if err != nil {
		return err
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := mongoClient.Disconnect(disconnectCtx); err != nil {
			log.Warn().Err(err).Msg("mongo disconnect failed")
		}
	}()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
	if err != nil {
		return err
	}
	defer func() { _ = rdb.Close() }()

	shipmentRepo := mongodb.NewShipmentRepository(db)
	if err := shipmentRepo.EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("ensure indexes: %w", err)
	}
	eventRepo := mongodb.NewEventRepository(db)

	// --- Core ---
	engine := tracking.NewEngine(tracking.Config{
		AverageSpeedKmh: cfg.Tracking.AverageSpeedKmh,
		DefaultTransit:  cfg.Tracking.DefaultTransit,
	})
	policy := tracking.Policy{StrictTransitions: cfg.Tracking.StrictTransitions}

	retryCfg := retrier.DefaultConfig()
	retryCfg.MaxElapsedTime = cfg.Tracking.ConflictRetryMax
	retryCfg.ShouldRetry = service.IsRetryable

	clk := clock.System{}
	shipmentService := service.NewShipmentService(shipmentRepo, engine, idgen.New(cfg.Tracking.IDScheme), clk, logger.Component(log, "shipments"))
	trackingService := service.NewTrackingService(
		shipmentRepo,
		eventRepo,
		redisdb.NewDedupChecker(rdb, cfg.Tracking.DedupWindow),
		engine,
		policy,
		retrier.New(retryCfg),
		clk,
		logger.Component(log, "tracking"),
	)

	dispatcher := queue.NewDispatcher(
		cfg.Tracking.Workers,
		trackingService,
		logger.Component(log, "dispatcher"),
		queue.WithDrainTimeout(cfg.Tracking.DrainTimeout),
	)

	e := api.NewRouter(api.Deps{
		Shipments:  shipmentService,
		Tracking:   trackingService,
		Dispatcher: dispatcher,
		Checks: map[string]handler.CheckFunc{
			"mongodb": handler.MongoCheck(db),
			"redis":   handler.RedisCheck(rdb),
		},
		Logger: log,
	})

	// --- Run ---
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error { return dispatcher.Run(gctx) })

	if cfg.KafkaEnabled() {
		consumer := kafka.NewConsumer(kafka.Config{
			Brokers: cfg.Kafka.Brokers,
			Topic:   cfg.Kafka.LocationTopic,
			GroupID: cfg.Kafka.GroupID,
		}, dispatcher, retrier.New(kafkaRetryConfig()), logger.Component(log, "kafka"))
		g.Go(func() error { return consumer.Run(gctx) })
	} else {
		log.Info().Msg("KAFKA_BROKERS not set, kafka consumer disabled")
	}

	g.Go(func() error {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("http server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		return shutdown(e.Shutdown, log)
	})

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("service stopped with error")
		return err
	}
	log.Info().Msg("service stopped")
	return nil
}

// kafkaRetryConfig retries transient processing failures long enough to ride
// out a short storage outage before the consumer gives up on the message.
func kafkaRetryConfig() retrier.Config {
	return retrier.Config{
		InitialInterval: 100 * time.Millisecond,
		MaxInterval:     5 * time.Second,
		MaxElapsedTime:  time.Minute,
		Randomization:   0.5,
		Multiplier:      2,
		ShouldRetry:     kafka.ShouldRetry,
	}
}

func shutdown(stopServer func(context.Context) error, log zerolog.Logger) error {
	log.Info().Msg("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := stopServer(ctx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return nil
}
