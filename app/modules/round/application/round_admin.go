package roundservice

import (
	"context"

	rounddomain "github.com/Black-And-White-Club/golf-tournament/app/modules/round/domain"
	roundevents "github.com/Black-And-White-Club/golf-tournament/app/modules/round/domain/events"
	"github.com/Black-And-White-Club/golf-tournament/app/shared/results"
	"github.com/Black-And-White-Club/golf-tournament/app/shared/session"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type roundResult = results.OperationResult[*rounddomain.Round, error]

// UnlockRound reopens a submitted round. Admin only.
func (s *RoundService) UnlockRound(ctx context.Context, sess session.Session, roundID uuid.UUID) (*rounddomain.Round, error) {
	round, err := unwrap(withTelemetry(s, ctx, "UnlockRound", roundID.String(), func(ctx context.Context) (roundResult, error) {
		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (roundResult, error) {
			if !sess.IsAdmin() {
				return fail[*rounddomain.Round](rounddomain.ErrForbidden)
			}
			round, _, err := s.loadRoundByID(ctx, db, roundID)
			if err != nil {
				return fail[*rounddomain.Round](err)
			}
			if err := round.Unlock(); err != nil {
				return fail[*rounddomain.Round](err)
			}
			if err := s.update(ctx, db, "unlock round", round); err != nil {
				return fail[*rounddomain.Round](err)
			}
			return results.SuccessResult[*rounddomain.Round, error](round), nil
		})
	}))
	if err != nil {
		return nil, err
	}

	s.publish(ctx, roundevents.RoundUnlockedV1, roundevents.RoundUnlockedPayloadV1{
		RoundRef:   roundevents.Ref(round),
		UnlockedBy: sess.PlayerID,
		UnlockedAt: s.now().UTC(),
	})
	return round, nil
}

// OverrideHandicap replaces the round's handicap snapshot and rescores every
// hole. Admin only; allowed on submitted rounds.
func (s *RoundService) OverrideHandicap(ctx context.Context, sess session.Session, roundID uuid.UUID, handicap int) (*rounddomain.Round, error) {
	return unwrap(withTelemetry(s, ctx, "OverrideHandicap", roundID.String(), func(ctx context.Context) (roundResult, error) {
		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (roundResult, error) {
			if !sess.IsAdmin() {
				return fail[*rounddomain.Round](rounddomain.ErrForbidden)
			}
			if handicap < 0 {
				return fail[*rounddomain.Round](rounddomain.ErrInvalidHandicap)
			}
			round, sc, err := s.loadRoundByID(ctx, db, roundID)
			if err != nil {
				return fail[*rounddomain.Round](err)
			}
			round.HandicapUsed = handicap
			round.Recalculate(sc.course)
			if err := s.update(ctx, db, "override handicap", round); err != nil {
				return fail[*rounddomain.Round](err)
			}
			return results.SuccessResult[*rounddomain.Round, error](round), nil
		})
	}))
}
