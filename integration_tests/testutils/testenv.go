// Package testutils starts Postgres and NATS in containers and seeds
// tournaments for the integration tests.
package testutils

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/Black-And-White-Club/golf-tournament/app/eventbus"
	"github.com/Black-And-White-Club/golf-tournament/app/migrations"
	"github.com/Black-And-White-Club/golf-tournament/app/shared/observability"
	"github.com/Black-And-White-Club/golf-tournament/config"
	"github.com/Black-And-White-Club/golf-tournament/integration_tests/containers"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
)

// TestEnvironment holds the containers and the connections built on them.
type TestEnvironment struct {
	PgContainer   *postgres.PostgresContainer
	NatsContainer testcontainers.Container
	DB            *bun.DB
	EventBus      *eventbus.NATSBus
	Config        *config.Config
	Obs           observability.Observability
	Logger        *slog.Logger
}

// NewTestEnvironment starts both containers, runs every migration and
// connects the event bus. Call Close when done.
func NewTestEnvironment(ctx context.Context) (*TestEnvironment, error) {
	env := &TestEnvironment{
		Obs:    observability.NewNoop(),
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	pgContainer, dsn, err := containers.SetupPostgresContainer(ctx)
	if err != nil {
		return nil, err
	}
	env.PgContainer = pgContainer

	natsContainer, natsURL, err := containers.SetupNatsContainer(ctx)
	if err != nil {
		env.Close(ctx)
		return nil, err
	}
	env.NatsContainer = natsContainer

	env.Config = &config.Config{
		Postgres:    config.PostgresConfig{DSN: dsn},
		NATS:        config.NATSConfig{URL: natsURL},
		JWT:         config.JWTConfig{Secret: "integration", Issuer: config.DefaultJWTIssuer, DefaultTTL: config.DefaultJWTTTL},
		Leaderboard: config.LeaderboardConfig{PollInterval: config.DefaultPollInterval},
		Queue:       config.QueueConfig{MaxWorkers: 2},
	}

	env.DB = bun.NewDB(sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn))), pgdialect.New())
	if err := migrations.Up(ctx, env.DB, dsn, env.Logger); err != nil {
		env.Close(ctx)
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	env.EventBus, err = eventbus.NewNATSBus(ctx, natsURL, env.Logger)
	if err != nil {
		env.Close(ctx)
		return nil, err
	}
	return env, nil
}

// appTables are truncated between tests.
var appTables = []string{"rounds", "players", "tee_groups", "courses", "tournaments"}

// Reset empties every application table and the River job table.
func (env *TestEnvironment) Reset(ctx context.Context) error {
	query := fmt.Sprintf("TRUNCATE TABLE %s CASCADE", strings.Join(appTables, ", "))
	if _, err := env.DB.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to truncate tables: %w", err)
	}
	if _, err := env.DB.ExecContext(ctx, "DELETE FROM river_job"); err != nil {
		return fmt.Errorf("failed to clean river jobs: %w", err)
	}
	return nil
}

// Close releases connections and terminates the containers.
func (env *TestEnvironment) Close(ctx context.Context) {
	if env.EventBus != nil {
		_ = env.EventBus.Close()
	}
	if env.DB != nil {
		_ = env.DB.Close()
	}
	if env.NatsContainer != nil {
		_ = env.NatsContainer.Terminate(ctx)
	}
	if env.PgContainer != nil {
		_ = env.PgContainer.Terminate(ctx)
	}
}
