package rounddb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	rounddomain "github.com/Black-And-White-Club/golf-tournament/app/modules/round/domain"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/driver/pgdriver"
)

const uniqueViolation = "23505"

// Impl implements the Repository interface using Bun ORM.
type Impl struct {
	db bun.IDB
}

// NewRepository creates a new round repository.
func NewRepository(db bun.IDB) Repository {
	return &Impl{db: db}
}

// resolveDB returns the provided db handle, falling back to the repository's
// default connection if db is nil.
func (r *Impl) resolveDB(db bun.IDB) bun.IDB {
	if db == nil {
		return r.db
	}
	return db
}

// GetByID loads a round by its ID.
func (r *Impl) GetByID(ctx context.Context, db bun.IDB, roundID uuid.UUID) (*rounddomain.Round, error) {
	db = r.resolveDB(db)
	model := new(Round)
	err := db.NewSelect().
		Model(model).
		Where("r.id = ?", roundID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get round by id: %w", err)
	}
	return toDomain(model), nil
}

// GetByGroupAndPlayer loads the single round a player has in a group.
func (r *Impl) GetByGroupAndPlayer(ctx context.Context, db bun.IDB, groupID, playerID uuid.UUID) (*rounddomain.Round, error) {
	db = r.resolveDB(db)
	model := new(Round)
	err := db.NewSelect().
		Model(model).
		Where("r.group_id = ?", groupID).
		Where("r.player_id = ?", playerID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get round by group and player: %w", err)
	}
	return toDomain(model), nil
}

// Create inserts a new round at version 1.
func (r *Impl) Create(ctx context.Context, db bun.IDB, round *rounddomain.Round) error {
	db = r.resolveDB(db)
	if round.Version == 0 {
		round.Version = 1
	}
	model := fromDomain(round)
	_, err := db.NewInsert().Model(model).Exec(ctx)
	if err != nil {
		var pgErr pgdriver.Error
		if errors.As(err, &pgErr) && pgErr.Field('C') == uniqueViolation {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to create round: %w", err)
	}
	round.CreatedAt = model.CreatedAt
	round.UpdatedAt = model.UpdatedAt
	return nil
}

// Update writes round if the stored version still equals round.Version.
func (r *Impl) Update(ctx context.Context, db bun.IDB, round *rounddomain.Round) error {
	db = r.resolveDB(db)
	model := fromDomain(round)
	model.Version = round.Version + 1

	result, err := db.NewUpdate().
		Model(model).
		Column(
			"hole_scores", "total_gross", "total_points", "total_net", "handicap_used",
			"completed", "submitted", "reference_scores", "discrepancy_flagged",
			"discrepancy_notes", "version", "updated_at",
		).
		WherePK().
		Where("version = ?", round.Version).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to update round: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrStaleVersion
	}

	round.Version = model.Version
	round.UpdatedAt = model.UpdatedAt
	return nil
}

// ListByTournament returns every round in a tournament.
func (r *Impl) ListByTournament(ctx context.Context, db bun.IDB, tournamentID uuid.UUID) ([]*rounddomain.Round, error) {
	return r.list(ctx, db, "r.tournament_id = ?", tournamentID)
}

// ListByGroup returns every round in a group.
func (r *Impl) ListByGroup(ctx context.Context, db bun.IDB, groupID uuid.UUID) ([]*rounddomain.Round, error) {
	return r.list(ctx, db, "r.group_id = ?", groupID)
}

func (r *Impl) list(ctx context.Context, db bun.IDB, where string, id uuid.UUID) ([]*rounddomain.Round, error) {
	db = r.resolveDB(db)
	var models []Round
	err := db.NewSelect().
		Model(&models).
		Where(where, id).
		OrderExpr("r.created_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list rounds: %w", err)
	}

	out := make([]*rounddomain.Round, len(models))
	for i := range models {
		out[i] = toDomain(&models[i])
	}
	return out, nil
}
