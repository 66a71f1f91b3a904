// Command admin performs operator actions that have no HTTP surface:
// creating tournaments and minting tokens.
package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/Black-And-White-Club/golf-tournament/app/modules/auth"
	authservice "github.com/Black-And-White-Club/golf-tournament/app/modules/auth/application"
	authdomain "github.com/Black-And-White-Club/golf-tournament/app/modules/auth/domain"
	"github.com/Black-And-White-Club/golf-tournament/app/modules/tournament"
	tournamentservice "github.com/Black-And-White-Club/golf-tournament/app/modules/tournament/application"
	"github.com/Black-And-White-Club/golf-tournament/app/shared/observability"
	tournamenttypes "github.com/Black-And-White-Club/golf-tournament/app/shared/types/tournament"
	"github.com/Black-And-White-Club/golf-tournament/config"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/urfave/cli/v2"
)

func main() {
	if err := newApp(os.Stdout).Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp(out io.Writer) *cli.App {
	return &cli.App{
		Name:  "admin",
		Usage: "golf tournament operator tools",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Value: "config.yaml", EnvVars: []string{"CONFIG_PATH"}, Usage: "path to the configuration file"},
		},
		Commands: []*cli.Command{
			createTournamentCommand(out),
			issueTokenCommand(out),
		},
	}
}

// setup loads config and builds quiet observability for a one-shot command.
func setup(c *cli.Context) (*config.Config, observability.Observability, error) {
	cfg, err := config.LoadConfig(c.String("config"))
	if err != nil {
		return nil, observability.Observability{}, fmt.Errorf("failed to load config: %w", err)
	}
	obs := observability.NewNoop()
	obs.Provider.Logger = observability.NewLogger(os.Stderr, observability.Config{
		Environment: cfg.Observability.Environment,
		LogLevel:    "warn",
	})
	obs.Registry.Logger = obs.Provider.Logger
	return cfg, obs, nil
}

func createTournamentCommand(out io.Writer) *cli.Command {
	return &cli.Command{
		Name:  "create-tournament",
		Usage: "register a new tournament",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "name", Required: true},
			&cli.StringFlag{Name: "mode", Value: string(tournamenttypes.ModeHandicap), Usage: "scoring mode: strokes, handicap or net"},
			&cli.IntFlag{Name: "days", Value: 1, Usage: "number of competition days"},
			&cli.BoolFlag{Name: "day-zero", Usage: "add a practice day 0 that never counts"},
		},
		Action: func(c *cli.Context) error {
			cfg, obs, err := setup(c)
			if err != nil {
				return err
			}
			db := bun.NewDB(sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.Postgres.DSN))), pgdialect.New())
			defer db.Close()

			module := tournament.NewTournamentModule(c.Context, obs, db)
			defer module.Close()

			t, err := module.Service.CreateTournament(c.Context, tournamentservice.CreateTournamentRequest{
				Name:        c.String("name"),
				ScoringMode: tournamenttypes.ScoringMode(c.String("mode")),
				Days:        c.Int("days"),
				HasDayZero:  c.Bool("day-zero"),
			})
			if err != nil {
				return err
			}
			return printJSON(out, t)
		},
	}
}

func issueTokenCommand(out io.Writer) *cli.Command {
	return &cli.Command{
		Name:  "issue-token",
		Usage: "sign an access token",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "role", Value: string(authdomain.RoleAdmin), Usage: "viewer, player or admin"},
			&cli.StringFlag{Name: "tournament", Usage: "tournament id; empty for a token valid in every tournament"},
			&cli.StringFlag{Name: "player", Usage: "player id, required for player tokens"},
			&cli.DurationFlag{Name: "ttl", Usage: "token lifetime; defaults to the configured lifetime"},
		},
		Action: func(c *cli.Context) error {
			cfg, obs, err := setup(c)
			if err != nil {
				return err
			}
			tournamentID, err := optionalUUID(c.String("tournament"))
			if err != nil {
				return fmt.Errorf("invalid tournament id: %w", err)
			}
			playerID, err := optionalUUID(c.String("player"))
			if err != nil {
				return fmt.Errorf("invalid player id: %w", err)
			}

			module, err := auth.NewModule(c.Context, cfg, obs)
			if err != nil {
				return err
			}
			defer module.Close()

			resp, err := module.Service.IssueToken(c.Context, authservice.IssueTokenRequest{
				PlayerID:     playerID,
				TournamentID: tournamentID,
				Role:         authdomain.Role(c.String("role")),
				TTL:          c.Duration("ttl"),
			})
			if err != nil {
				return err
			}
			return printJSON(out, resp)
		},
	}
}

func optionalUUID(v string) (uuid.UUID, error) {
	if v == "" {
		return uuid.Nil, nil
	}
	return uuid.Parse(v)
}

func printJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
