// Package migrations runs every module's schema migrations plus River's own
// tables, in dependency order.
package migrations

import (
	"context"
	"fmt"
	"log/slog"

	roundmigrations "github.com/Black-And-White-Club/golf-tournament/app/modules/round/infrastructure/repositories/migrations"
	tournamentmigrations "github.com/Black-And-White-Club/golf-tournament/app/modules/tournament/infrastructure/repositories/migrations"
	"github.com/Black-And-White-Club/golf-tournament/app/shared/attr"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"
	"github.com/riverqueue/river/rivermigrate"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/migrate"
)

// Module pairs a module name with its migrations.
type Module struct {
	Name       string
	Migrations *migrate.Migrations
}

// Modules lists module migrations in the order they must run. Rounds refer
// to tournaments, so tournaments come first.
var Modules = []Module{
	{Name: "tournament", Migrations: tournamentmigrations.Migrations},
	{Name: "round", Migrations: roundmigrations.Migrations},
}

// Migrators builds one bun migrator per module, keyed by module name.
func Migrators(db *bun.DB) map[string]*migrate.Migrator {
	out := make(map[string]*migrate.Migrator, len(Modules))
	for _, m := range Modules {
		out[m.Name] = migrate.NewMigrator(db, m.Migrations)
	}
	return out
}

// Up creates the migration tables if needed, then applies River's migrations
// and every module's pending migrations.
func Up(ctx context.Context, db *bun.DB, dsn string, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	if len(Modules) == 0 {
		return nil
	}
	if err := migrate.NewMigrator(db, Modules[0].Migrations).Init(ctx); err != nil {
		return fmt.Errorf("failed to initialize migration tables: %w", err)
	}

	if err := River(ctx, dsn, rivermigrate.DirectionUp, logger); err != nil {
		return err
	}

	for _, m := range Modules {
		group, err := migrate.NewMigrator(db, m.Migrations).Migrate(ctx)
		if err != nil {
			return fmt.Errorf("failed to run %s migrations: %w", m.Name, err)
		}
		if group.IsZero() {
			logger.InfoContext(ctx, "No new migrations", attr.String("module", m.Name))
			continue
		}
		logger.InfoContext(ctx, "Migrated module", attr.String("module", m.Name), attr.String("group", group.String()))
	}
	return nil
}

// River migrates River's job tables in direction on a short-lived pgx pool.
// Down removes only the most recent River version.
func River(ctx context.Context, dsn string, direction rivermigrate.Direction, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return fmt.Errorf("failed to create pgx pool for River migrations: %w", err)
	}
	defer pool.Close()

	migrator, err := rivermigrate.New(riverpgxv5.New(pool), nil)
	if err != nil {
		return fmt.Errorf("failed to create River migrator: %w", err)
	}

	opts := &rivermigrate.MigrateOpts{}
	if direction == rivermigrate.DirectionDown {
		opts.MaxSteps = 1
	}
	res, err := migrator.Migrate(ctx, direction, opts)
	if err != nil {
		return fmt.Errorf("failed to run River migrations: %w", err)
	}
	for _, v := range res.Versions {
		logger.InfoContext(ctx, "River migration applied",
			attr.String("direction", string(direction)),
			attr.Int("version", v.Version),
		)
	}
	return nil
}
