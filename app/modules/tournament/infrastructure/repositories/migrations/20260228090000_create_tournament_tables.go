package tournamentmigrations

import (
	"context"
	"fmt"

	tournamentdb "github.com/Black-And-White-Club/golf-tournament/app/modules/tournament/infrastructure/repositories"
	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating tournament tables...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			models := []struct {
				name  string
				model any
			}{
				{"tournaments", (*tournamentdb.Tournament)(nil)},
				{"courses", (*tournamentdb.Course)(nil)},
				{"tee_groups", (*tournamentdb.Group)(nil)},
				{"players", (*tournamentdb.Player)(nil)},
			}
			for _, m := range models {
				if _, err := tx.NewCreateTable().Model(m.model).IfNotExists().Exec(ctx); err != nil {
					return fmt.Errorf("failed to create %s table: %w", m.name, err)
				}
			}

			if _, err := tx.ExecContext(ctx, `
				CREATE INDEX IF NOT EXISTS idx_courses_tournament_id ON courses(tournament_id);
				CREATE INDEX IF NOT EXISTS idx_groups_tournament_day ON tee_groups(tournament_id, day);
				CREATE INDEX IF NOT EXISTS idx_players_tournament_id ON players(tournament_id);
			`); err != nil {
				return fmt.Errorf("failed to create tournament indexes: %w", err)
			}

			fmt.Println("Tournament tables created successfully!")
			return nil
		})
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Rolling back tournament tables...")

		for _, model := range []any{
			(*tournamentdb.Player)(nil),
			(*tournamentdb.Group)(nil),
			(*tournamentdb.Course)(nil),
			(*tournamentdb.Tournament)(nil),
		} {
			if _, err := db.NewDropTable().Model(model).IfExists().Cascade().Exec(ctx); err != nil {
				return fmt.Errorf("failed to drop tournament tables: %w", err)
			}
		}

		fmt.Println("Tournament tables dropped successfully!")
		return nil
	})
}
