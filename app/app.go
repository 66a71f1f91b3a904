// Package app assembles the modules into one process: a chi HTTP API, the
// Watermill event router and the background workers.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/Black-And-White-Club/golf-tournament/app/eventbus"
	"github.com/Black-And-White-Club/golf-tournament/app/modules/auth"
	"github.com/Black-And-White-Club/golf-tournament/app/modules/leaderboard"
	"github.com/Black-And-White-Club/golf-tournament/app/modules/round"
	"github.com/Black-And-White-Club/golf-tournament/app/modules/tournament"
	"github.com/Black-And-White-Club/golf-tournament/app/shared/attr"
	"github.com/Black-And-White-Club/golf-tournament/app/shared/observability"
	"github.com/Black-And-White-Club/golf-tournament/config"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
)

const shutdownTimeout = 15 * time.Second

// App holds every long-lived dependency.
type App struct {
	Config        *config.Config
	Observability observability.Observability
	DB            *bun.DB
	EventBus      *eventbus.NATSBus
	Router        *message.Router

	AuthModule        *auth.Module
	TournamentModule  *tournament.Module
	RoundModule       *round.Module
	LeaderboardModule *leaderboard.Module

	httpServer    *http.Server
	metricsServer *http.Server
	wg            sync.WaitGroup
}

func (app *App) logger() *slog.Logger {
	return app.Observability.Provider.Logger
}

// Initialize connects to Postgres and NATS and builds the modules.
func (app *App) Initialize(ctx context.Context, cfg *config.Config, obs observability.Observability) error {
	app.Config = cfg
	app.Observability = obs
	logger := app.logger()

	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.Postgres.DSN)))
	if err := sqldb.PingContext(ctx); err != nil {
		_ = sqldb.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}
	app.DB = bun.NewDB(sqldb, pgdialect.New())

	bus, err := eventbus.NewNATSBus(ctx, cfg.NATS.URL, logger)
	if err != nil {
		return fmt.Errorf("failed to create event bus: %w", err)
	}
	app.EventBus = bus

	router, err := message.NewRouter(message.RouterConfig{CloseTimeout: 10 * time.Second}, watermill.NewSlogLogger(logger))
	if err != nil {
		return fmt.Errorf("failed to create Watermill router: %w", err)
	}
	app.Router = router

	if app.AuthModule, err = auth.NewModule(ctx, cfg, obs); err != nil {
		return fmt.Errorf("failed to initialize auth module: %w", err)
	}
	app.TournamentModule = tournament.NewTournamentModule(ctx, obs, app.DB)

	if app.RoundModule, err = round.NewRoundModule(ctx, cfg, obs, app.DB, app.TournamentModule.Repository, bus); err != nil {
		return fmt.Errorf("failed to initialize round module: %w", err)
	}
	if app.LeaderboardModule, err = leaderboard.NewLeaderboardModule(ctx, cfg, obs, app.DB,
		app.RoundModule.Repository, app.TournamentModule.Repository, bus, router); err != nil {
		return fmt.Errorf("failed to initialize leaderboard module: %w", err)
	}

	app.httpServer = &http.Server{
		Addr:              cfg.HTTP.Address,
		Handler:           app.HTTPHandler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	if cfg.Observability.MetricsAddress != "" {
		app.metricsServer = &http.Server{
			Addr:              cfg.Observability.MetricsAddress,
			Handler:           metricsHandler(obs),
			ReadHeaderTimeout: 10 * time.Second,
		}
	}

	logger.InfoContext(ctx, "Application initialized")
	return nil
}

// Run serves until ctx is cancelled or a listener fails.
func (app *App) Run(ctx context.Context) error {
	logger := app.logger()
	errCh := make(chan error, 3)

	app.wg.Add(2)
	go app.RoundModule.Run(ctx, &app.wg)
	go app.LeaderboardModule.Run(ctx, &app.wg)

	go func() {
		if err := app.Router.Run(ctx); err != nil {
			errCh <- fmt.Errorf("watermill router: %w", err)
		}
	}()

	go func() {
		logger.Info("HTTP server listening", attr.String("address", app.httpServer.Addr))
		if err := app.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	if app.metricsServer != nil {
		go func() {
			logger.Info("Metrics server listening", attr.String("address", app.metricsServer.Addr))
			if err := app.metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- fmt.Errorf("metrics server: %w", err)
			}
		}()
	}

	select {
	case <-ctx.Done():
		return nil
	case err := <-errCh:
		return err
	}
}

// Close shuts everything down in reverse order of startup.
func (app *App) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	var errs []error
	if app.httpServer != nil {
		errs = append(errs, app.httpServer.Shutdown(ctx))
	}
	if app.metricsServer != nil {
		errs = append(errs, app.metricsServer.Shutdown(ctx))
	}
	if app.LeaderboardModule != nil {
		errs = append(errs, app.LeaderboardModule.Close())
	}
	if app.Router != nil {
		errs = append(errs, app.Router.Close())
	}
	if app.RoundModule != nil {
		errs = append(errs, app.RoundModule.Close(ctx))
	}
	if app.TournamentModule != nil {
		errs = append(errs, app.TournamentModule.Close())
	}
	if app.AuthModule != nil {
		errs = append(errs, app.AuthModule.Close())
	}
	app.wg.Wait()

	if app.EventBus != nil {
		errs = append(errs, app.EventBus.Close())
	}
	if app.DB != nil {
		errs = append(errs, app.DB.Close())
	}
	return errors.Join(errs...)
}
