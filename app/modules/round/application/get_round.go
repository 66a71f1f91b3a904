package roundservice

import (
	"context"
	"errors"
	"fmt"

	rounddomain "github.com/Black-And-White-Club/golf-tournament/app/modules/round/domain"
	rounddb "github.com/Black-And-White-Club/golf-tournament/app/modules/round/infrastructure/repositories"
	"github.com/Black-And-White-Club/golf-tournament/app/shared/results"
	"github.com/Black-And-White-Club/golf-tournament/app/shared/session"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// GetRound loads a player's card for a group with derived values rebuilt.
// A player with no entries yet gets an unsaved, empty card.
func (s *RoundService) GetRound(ctx context.Context, sess session.Session, groupID, playerID uuid.UUID) (*rounddomain.Round, error) {
	identifier := fmt.Sprintf("%s/%s", groupID, playerID)
	return unwrap(withTelemetry(s, ctx, "GetRound", identifier, func(ctx context.Context) (roundResult, error) {
		return s.getRoundLogic(ctx, nil, sess, groupID, playerID)
	}))
}

func (s *RoundService) getRoundLogic(ctx context.Context, db bun.IDB, sess session.Session, groupID, playerID uuid.UUID) (roundResult, error) {
	sc, err := s.loadScoringContext(ctx, db, groupID)
	if err != nil {
		return fail[*rounddomain.Round](err)
	}
	if sess.TournamentID != uuid.Nil && sess.TournamentID != sc.group.TournamentID {
		return fail[*rounddomain.Round](rounddomain.ErrForbidden)
	}

	round, err := s.repo.GetByGroupAndPlayer(ctx, db, groupID, playerID)
	switch {
	case errors.Is(err, rounddb.ErrNotFound):
		if !sc.group.HasPlayer(playerID) {
			return fail[*rounddomain.Round](rounddomain.ErrRoundNotFound)
		}
		player, err := s.tournaments.GetPlayer(ctx, db, playerID)
		if err != nil {
			return fail[*rounddomain.Round](setupErr("load player", playerID, err))
		}
		round = rounddomain.NewRound(sc.group.TournamentID, groupID, playerID, sc.group.Day, player.HandicapIndex, sc.course)
		round.ID = uuid.Nil
	case err != nil:
		return fail[*rounddomain.Round](&rounddomain.PersistenceError{Op: "load round", Err: err})
	default:
		round.Recalculate(sc.course)
	}
	return results.SuccessResult[*rounddomain.Round, error](round), nil
}
