package tournamentdb

import (
	"context"

	tournamenttypes "github.com/Black-And-White-Club/golf-tournament/app/shared/types/tournament"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Repository defines persistence for tournament setup data.
// Getters return ErrNotFound when no row matches.
type Repository interface {
	GetTournament(ctx context.Context, db bun.IDB, id uuid.UUID) (tournamenttypes.Tournament, error)
	CreateTournament(ctx context.Context, db bun.IDB, t tournamenttypes.Tournament) error
	// SetRevealed flips the leaderboard reveal flag.
	SetRevealed(ctx context.Context, db bun.IDB, id uuid.UUID, revealed bool) error

	GetCourse(ctx context.Context, db bun.IDB, id uuid.UUID) (tournamenttypes.Course, error)
	ListCourses(ctx context.Context, db bun.IDB, tournamentID uuid.UUID) ([]tournamenttypes.Course, error)
	// UpsertCourse inserts or replaces a course and its holes.
	UpsertCourse(ctx context.Context, db bun.IDB, tournamentID uuid.UUID, c tournamenttypes.Course) error

	GetGroup(ctx context.Context, db bun.IDB, id uuid.UUID) (tournamenttypes.Group, error)
	ListGroups(ctx context.Context, db bun.IDB, tournamentID uuid.UUID) ([]tournamenttypes.Group, error)
	CreateGroup(ctx context.Context, db bun.IDB, g tournamenttypes.Group) error

	GetPlayer(ctx context.Context, db bun.IDB, id uuid.UUID) (tournamenttypes.Player, error)
	ListPlayers(ctx context.Context, db bun.IDB, tournamentID uuid.UUID) ([]tournamenttypes.Player, error)
	CreatePlayer(ctx context.Context, db bun.IDB, p tournamenttypes.Player) error
}
