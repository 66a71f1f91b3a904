package roundmigrations

import (
	"context"
	"fmt"

	rounddb "github.com/Black-And-White-Club/golf-tournament/app/modules/round/infrastructure/repositories"
	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating rounds table...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.NewCreateTable().Model((*rounddb.Round)(nil)).
				IfNotExists().
				Exec(ctx); err != nil {
				return fmt.Errorf("failed to create rounds table: %w", err)
			}

			if _, err := tx.ExecContext(ctx, `
				CREATE INDEX IF NOT EXISTS idx_rounds_tournament_id ON rounds(tournament_id);
				CREATE INDEX IF NOT EXISTS idx_rounds_group_id ON rounds(group_id);
				CREATE INDEX IF NOT EXISTS idx_rounds_flagged ON rounds(tournament_id) WHERE discrepancy_flagged;
			`); err != nil {
				return fmt.Errorf("failed to create rounds indexes: %w", err)
			}

			fmt.Println("Rounds table created successfully!")
			return nil
		})
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Rolling back rounds table...")

		if _, err := db.NewDropTable().Model((*rounddb.Round)(nil)).IfExists().Cascade().Exec(ctx); err != nil {
			return fmt.Errorf("failed to drop rounds table: %w", err)
		}

		fmt.Println("Rounds table dropped successfully!")
		return nil
	})
}
