package main

import (
	"context"
	"database/sql"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Black-And-White-Club/golf-tournament/app"
	"github.com/Black-And-White-Club/golf-tournament/app/migrations"
	"github.com/Black-And-White-Club/golf-tournament/app/shared/attr"
	"github.com/Black-And-White-Club/golf-tournament/app/shared/observability"
	"github.com/Black-And-White-Club/golf-tournament/config"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
)

func main() {
	configFile := flag.String("config", envOr("CONFIG_PATH", "config.yaml"), "Path to the configuration file")
	migrate := flag.Bool("migrate", false, "Apply pending migrations before starting")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.LoadConfig(*configFile)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	obs, err := observability.Init(config.ToObsConfig(cfg))
	if err != nil {
		log.Fatalf("Failed to initialize observability: %v", err)
	}
	logger := obs.Provider.Logger

	if *migrate {
		db := bun.NewDB(sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.Postgres.DSN))), pgdialect.New())
		err := migrations.Up(ctx, db, cfg.Postgres.DSN, logger)
		db.Close()
		if err != nil {
			logger.Error("Migrations failed", attr.Error(err))
			os.Exit(1)
		}
	}

	application := &app.App{}
	if err := application.Initialize(ctx, cfg, obs); err != nil {
		logger.Error("Failed to initialize application", attr.Error(err))
		if cerr := application.Close(); cerr != nil {
			logger.Error("Cleanup after failed start", attr.Error(cerr))
		}
		os.Exit(1)
	}

	logger.Info("Starting golf tournament server")
	runErr := application.Run(ctx)
	if runErr != nil {
		logger.Error("Server stopped with error", attr.Error(runErr))
	}
	cancel()

	logger.Info("Shutting down")
	if err := application.Close(); err != nil {
		logger.Error("Error during shutdown", attr.Error(err))
	}
	if runErr != nil {
		os.Exit(1)
	}
	logger.Info("Server stopped")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
