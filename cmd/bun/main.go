package main

import (
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"slices"
	"strings"

	"github.com/Black-And-White-Club/golf-tournament/app/migrations"
	"github.com/Black-And-White-Club/golf-tournament/config"
	"github.com/riverqueue/river/rivermigrate"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/migrate"
	"github.com/urfave/cli/v2"
)

func main() {
	configFile := flag.String("config", "config.yaml", "Path to the configuration file")
	flag.Parse()

	cfg, err := config.LoadConfig(*configFile)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	pgdb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.Postgres.DSN)))
	db := bun.NewDB(pgdb, pgdialect.New())
	defer db.Close()

	cliApp := &cli.App{
		Name: "bun",
		Commands: []*cli.Command{
			newMultiModuleDBCommand(migrations.Migrators(db)),
			newRiverCommand(cfg.Postgres.DSN),
		},
	}

	// flag already consumed -config; hand urfave the rest.
	if err := cliApp.Run(append([]string{os.Args[0]}, flag.Args()...)); err != nil {
		log.Fatal(err)
	}
}

// ordered walks migrators in dependency order; rollback walks them in reverse.
func ordered(migrators map[string]*migrate.Migrator, reverse bool) []string {
	names := make([]string, 0, len(migrations.Modules))
	for _, m := range migrations.Modules {
		if _, ok := migrators[m.Name]; ok {
			names = append(names, m.Name)
		}
	}
	if reverse {
		slices.Reverse(names)
	}
	return names
}

func newMultiModuleDBCommand(migrators map[string]*migrate.Migrator) *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "database migrations",
		Subcommands: []*cli.Command{
			{
				Name:  "init",
				Usage: "create migration tables",
				Action: func(c *cli.Context) error {
					for _, name := range ordered(migrators, false) {
						fmt.Printf("Initializing migrations for module: %s\n", name)
						if err := migrators[name].Init(c.Context); err != nil {
							return fmt.Errorf("init %s: %w", name, err)
						}
					}
					return nil
				},
			},
			{
				Name:  "migrate",
				Usage: "migrate database",
				Action: func(c *cli.Context) error {
					for _, name := range ordered(migrators, false) {
						group, err := migrators[name].Migrate(c.Context)
						if err != nil {
							return fmt.Errorf("migrate %s: %w", name, err)
						}
						if group.IsZero() {
							fmt.Printf("No new migrations to run for module: %s\n", name)
						} else {
							fmt.Printf("Migrated module: %s to %s\n", name, group)
						}
					}
					return nil
				},
			},
			{
				Name:  "rollback",
				Usage: "rollback the last migration group",
				Action: func(c *cli.Context) error {
					for _, name := range ordered(migrators, true) {
						group, err := migrators[name].Rollback(c.Context)
						if err != nil {
							return fmt.Errorf("rollback %s: %w", name, err)
						}
						if group.IsZero() {
							fmt.Printf("No groups to roll back for module: %s\n", name)
						} else {
							fmt.Printf("Rolled back module: %s to %s\n", name, group)
						}
					}
					return nil
				},
			},
			{
				Name:      "create_go",
				Usage:     "create Go migration",
				ArgsUsage: "<module> <name...>",
				Action: func(c *cli.Context) error {
					name, migrator, err := pick(c, migrators)
					if err != nil {
						return err
					}
					mf, err := migrator.CreateGoMigration(c.Context, strings.Join(c.Args().Tail(), "_"))
					if err != nil {
						return err
					}
					fmt.Printf("Created migration for module %s: %s (%s)\n", name, mf.Name, mf.Path)
					return nil
				},
			},
			{
				Name:      "create_sql",
				Usage:     "create up and down SQL migrations",
				ArgsUsage: "<module> <name...>",
				Action: func(c *cli.Context) error {
					name, migrator, err := pick(c, migrators)
					if err != nil {
						return err
					}
					files, err := migrator.CreateSQLMigrations(c.Context, strings.Join(c.Args().Tail(), "_"))
					if err != nil {
						return err
					}
					for _, mf := range files {
						fmt.Printf("Created migration for module %s: %s (%s)\n", name, mf.Name, mf.Path)
					}
					return nil
				},
			},
			{
				Name:  "status",
				Usage: "print migrations status",
				Action: func(c *cli.Context) error {
					for _, name := range ordered(migrators, false) {
						ms, err := migrators[name].MigrationsWithStatus(c.Context)
						if err != nil {
							return err
						}
						fmt.Printf("Migrations for module: %s\n", name)
						fmt.Printf("  %s\n", ms)
						fmt.Printf("  Applied: %s\n", ms.Applied())
						fmt.Printf("  Unapplied: %s\n", ms.Unapplied())
					}
					return nil
				},
			},
		},
	}
}

func pick(c *cli.Context, migrators map[string]*migrate.Migrator) (string, *migrate.Migrator, error) {
	name := c.Args().First()
	migrator, ok := migrators[name]
	if !ok {
		return "", nil, fmt.Errorf("invalid module name: %q", name)
	}
	return name, migrator, nil
}

func newRiverCommand(dsn string) *cli.Command {
	return &cli.Command{
		Name:  "river",
		Usage: "River job queue tables",
		Subcommands: []*cli.Command{
			{
				Name:  "up",
				Usage: "apply River migrations",
				Action: func(c *cli.Context) error {
					return migrations.River(c.Context, dsn, rivermigrate.DirectionUp, nil)
				},
			},
			{
				Name:  "down",
				Usage: "remove the latest River migration",
				Action: func(c *cli.Context) error {
					return migrations.River(c.Context, dsn, rivermigrate.DirectionDown, nil)
				},
			},
		},
	}
}
