package tournamentdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	tournamenttypes "github.com/Black-And-White-Club/golf-tournament/app/shared/types/tournament"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Impl implements Repository using Bun ORM.
type Impl struct {
	db bun.IDB
}

// NewRepository creates a new tournament repository.
func NewRepository(db bun.IDB) Repository {
	return &Impl{db: db}
}

func (r *Impl) resolveDB(db bun.IDB) bun.IDB {
	if db == nil {
		return r.db
	}
	return db
}

func notFound(err error, what string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return fmt.Errorf("failed to get %s: %w", what, err)
}

// -----------------------------------------------------------------------------
// Tournaments
// -----------------------------------------------------------------------------

func (r *Impl) GetTournament(ctx context.Context, db bun.IDB, id uuid.UUID) (tournamenttypes.Tournament, error) {
	model := new(Tournament)
	if err := r.resolveDB(db).NewSelect().Model(model).Where("t.id = ?", id).Scan(ctx); err != nil {
		return tournamenttypes.Tournament{}, notFound(err, "tournament")
	}
	return model.toTypes(), nil
}

func (r *Impl) CreateTournament(ctx context.Context, db bun.IDB, t tournamenttypes.Tournament) error {
	model := &Tournament{
		ID:          t.ID,
		Name:        t.Name,
		ScoringMode: t.ScoringMode,
		Days:        t.Days,
		HasDayZero:  t.HasDayZero,
		Revealed:    t.Revealed,
	}
	if _, err := r.resolveDB(db).NewInsert().Model(model).Exec(ctx); err != nil {
		return fmt.Errorf("failed to create tournament: %w", err)
	}
	return nil
}

func (r *Impl) SetRevealed(ctx context.Context, db bun.IDB, id uuid.UUID, revealed bool) error {
	res, err := r.resolveDB(db).NewUpdate().
		Model((*Tournament)(nil)).
		Set("revealed = ?", revealed).
		Set("updated_at = current_timestamp").
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to set revealed: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// -----------------------------------------------------------------------------
// Courses
// -----------------------------------------------------------------------------

func (r *Impl) GetCourse(ctx context.Context, db bun.IDB, id uuid.UUID) (tournamenttypes.Course, error) {
	model := new(Course)
	if err := r.resolveDB(db).NewSelect().Model(model).Where("c.id = ?", id).Scan(ctx); err != nil {
		return tournamenttypes.Course{}, notFound(err, "course")
	}
	return model.toTypes(), nil
}

func (r *Impl) ListCourses(ctx context.Context, db bun.IDB, tournamentID uuid.UUID) ([]tournamenttypes.Course, error) {
	var models []Course
	err := r.resolveDB(db).NewSelect().
		Model(&models).
		Where("c.tournament_id = ?", tournamentID).
		OrderExpr("c.name ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}
	out := make([]tournamenttypes.Course, len(models))
	for i := range models {
		out[i] = models[i].toTypes()
	}
	return out, nil
}

func (r *Impl) UpsertCourse(ctx context.Context, db bun.IDB, tournamentID uuid.UUID, c tournamenttypes.Course) error {
	model := &Course{
		ID:           c.ID,
		TournamentID: tournamentID,
		Name:         c.Name,
		Holes:        c.Holes,
	}
	_, err := r.resolveDB(db).NewInsert().
		Model(model).
		On("CONFLICT (id) DO UPDATE").
		Set("name = EXCLUDED.name").
		Set("holes = EXCLUDED.holes").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to upsert course: %w", err)
	}
	return nil
}

// -----------------------------------------------------------------------------
// Groups
// -----------------------------------------------------------------------------

func (r *Impl) GetGroup(ctx context.Context, db bun.IDB, id uuid.UUID) (tournamenttypes.Group, error) {
	model := new(Group)
	if err := r.resolveDB(db).NewSelect().Model(model).Where("g.id = ?", id).Scan(ctx); err != nil {
		return tournamenttypes.Group{}, notFound(err, "group")
	}
	return model.toTypes(), nil
}

func (r *Impl) ListGroups(ctx context.Context, db bun.IDB, tournamentID uuid.UUID) ([]tournamenttypes.Group, error) {
	var models []Group
	err := r.resolveDB(db).NewSelect().
		Model(&models).
		Where("g.tournament_id = ?", tournamentID).
		OrderExpr("g.day ASC, g.tee_time ASC NULLS LAST, g.name ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	out := make([]tournamenttypes.Group, len(models))
	for i := range models {
		out[i] = models[i].toTypes()
	}
	return out, nil
}

func (r *Impl) CreateGroup(ctx context.Context, db bun.IDB, g tournamenttypes.Group) error {
	model := &Group{
		ID:           g.ID,
		TournamentID: g.TournamentID,
		CourseID:     g.CourseID,
		Name:         g.Name,
		Day:          g.Day,
		TeeTime:      g.TeeTime,
		PlayerIDs:    g.PlayerIDs,
	}
	if model.PlayerIDs == nil {
		model.PlayerIDs = []uuid.UUID{}
	}
	if _, err := r.resolveDB(db).NewInsert().Model(model).Exec(ctx); err != nil {
		return fmt.Errorf("failed to create group: %w", err)
	}
	return nil
}

// -----------------------------------------------------------------------------
// Players
// -----------------------------------------------------------------------------

func (r *Impl) GetPlayer(ctx context.Context, db bun.IDB, id uuid.UUID) (tournamenttypes.Player, error) {
	model := new(Player)
	if err := r.resolveDB(db).NewSelect().Model(model).Where("p.id = ?", id).Scan(ctx); err != nil {
		return tournamenttypes.Player{}, notFound(err, "player")
	}
	return model.toTypes(), nil
}

func (r *Impl) ListPlayers(ctx context.Context, db bun.IDB, tournamentID uuid.UUID) ([]tournamenttypes.Player, error) {
	var models []Player
	err := r.resolveDB(db).NewSelect().
		Model(&models).
		Where("p.tournament_id = ?", tournamentID).
		OrderExpr("p.created_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list players: %w", err)
	}
	out := make([]tournamenttypes.Player, len(models))
	for i := range models {
		out[i] = models[i].toTypes()
	}
	return out, nil
}

func (r *Impl) CreatePlayer(ctx context.Context, db bun.IDB, p tournamenttypes.Player) error {
	model := &Player{
		ID:            p.ID,
		TournamentID:  p.TournamentID,
		Name:          p.Name,
		HandicapIndex: p.HandicapIndex,
	}
	if _, err := r.resolveDB(db).NewInsert().Model(model).Exec(ctx); err != nil {
		return fmt.Errorf("failed to create player: %w", err)
	}
	return nil
}
