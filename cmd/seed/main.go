// Command seed loads the demo shipments into MongoDB.
//
//	seed [-reset]
//
// Connection settings come from the same environment as the API.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/99minutos/cargo-tracking/internal/core/service"
	"github.com/99minutos/cargo-tracking/internal/core/tracking"
	"github.com/99minutos/cargo-tracking/internal/infrastructure/clock"
	"github.com/99minutos/cargo-tracking/internal/infrastructure/config"
	mongodb "github.com/99minutos/cargo-tracking/internal/infrastructure/db/mongo"
	"github.com/99minutos/cargo-tracking/internal/infrastructure/idgen"
	"github.com/99minutos/cargo-tracking/internal/infrastructure/seed"
	"github.com/99minutos/cargo-tracking/internal/pkg/retrier"
	"github.com/99minutos/cargo-tracking/pkg/logger"
)

func main() {
	reset := flag.Bool("reset", false, "delete and recreate shipments that were already seeded")
	flag.Parse()

	if err := run(*reset); err != nil {
		fmt.Fprintf(os.Stderr, "seed: %v\n", err)
		os.Exit(1)
	}
}

func run(reset bool) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "cargo-tracking-seed",
	})

	client, db, err := mongodb.Connect(ctx, mongodb.Config{
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
		_ = client.Disconnect(disconnectCtx)
	}()

	repo := mongodb.NewShipmentRepository(db)
	if err := repo.EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("ensure indexes: %w", err)
	}

	engine := tracking.NewEngine(tracking.Config{
		AverageSpeedKmh: cfg.Tracking.AverageSpeedKmh,
		DefaultTransit:  cfg.Tracking.DefaultTransit,
	})
	retryCfg := retrier.DefaultConfig()
	retryCfg.MaxElapsedTime = cfg.Tracking.ConflictRetryMax
	retryCfg.ShouldRetry = service.IsRetryable

	clk := clock.System{}
	shipments := service.NewShipmentService(repo, engine, idgen.New(cfg.Tracking.IDScheme), clk, log)
	// Seeding only uses the synchronous path, which never consults dedup.
	trackingService := service.NewTrackingService(
		repo,
		mongodb.NewEventRepository(db),
		nil,
		engine,
		tracking.Policy{StrictTransitions: cfg.Tracking.StrictTransitions},
		retrier.New(retryCfg),
		clk,
		log,
	)

	res, err := seed.New(shipments, trackingService, logger.Component(log, "seed")).Run(ctx, seed.Demo(), reset)
	if err != nil {
		return err
	}
	log.Info().
		Int("created", res.Created).
		Int("replaced", res.Replaced).
		Int("skipped", res.Skipped).
		Msg("seeding finished")
	return nil
}
