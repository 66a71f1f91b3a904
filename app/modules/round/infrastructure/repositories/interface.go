package rounddb

import (
	"context"

	rounddomain "github.com/Black-And-White-Club/golf-tournament/app/modules/round/domain"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Repository defines the contract for round persistence.
// All methods accept an optional bun.IDB so callers can run them inside a
// transaction; nil uses the repository's own connection.
//
// Error semantics:
//   - ErrNotFound: no round matches (GetByID, GetByGroupAndPlayer)
//   - ErrStaleVersion: Update found no row at round.Version
//   - ErrDuplicate: Create hit the (group, player) unique index
//   - Other errors: infrastructure failures
type Repository interface {
	// GetByID loads a round by its ID.
	GetByID(ctx context.Context, db bun.IDB, roundID uuid.UUID) (*rounddomain.Round, error)

	// GetByGroupAndPlayer loads the single round a player has in a group.
	GetByGroupAndPlayer(ctx context.Context, db bun.IDB, groupID, playerID uuid.UUID) (*rounddomain.Round, error)

	// Create inserts a new round at version 1.
	Create(ctx context.Context, db bun.IDB, round *rounddomain.Round) error

	// Update writes round if the stored version still equals round.Version,
	// then advances round.Version.
	Update(ctx context.Context, db bun.IDB, round *rounddomain.Round) error

	// ListByTournament returns every round in a tournament.
	ListByTournament(ctx context.Context, db bun.IDB, tournamentID uuid.UUID) ([]*rounddomain.Round, error)

	// ListByGroup returns every round in a group.
	ListByGroup(ctx context.Context, db bun.IDB, groupID uuid.UUID) ([]*rounddomain.Round, error)
}
