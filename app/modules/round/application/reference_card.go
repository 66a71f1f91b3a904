package roundservice

import (
	"context"
	"fmt"

	authdomain "github.com/Black-And-White-Club/golf-tournament/app/modules/auth/domain"
	rounddomain "github.com/Black-And-White-Club/golf-tournament/app/modules/round/domain"
	"github.com/Black-And-White-Club/golf-tournament/app/shared/parsers"
	"github.com/Black-And-White-Club/golf-tournament/app/shared/results"
	"github.com/Black-And-White-Club/golf-tournament/app/shared/session"
	tournamenttypes "github.com/Black-And-White-Club/golf-tournament/app/shared/types/tournament"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// SetReferenceCard attaches the playing partner's card. An empty card clears it.
func (s *RoundService) SetReferenceCard(ctx context.Context, sess session.Session, roundID uuid.UUID, ref rounddomain.ReferenceCard) (*rounddomain.Round, error) {
	return unwrap(withTelemetry(s, ctx, "SetReferenceCard", roundID.String(), func(ctx context.Context) (roundResult, error) {
		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (roundResult, error) {
			return s.setReferenceLogic(ctx, db, sess, roundID, ref)
		})
	}))
}

// ImportReferenceCard reads playerName's row from an XLSX scorecard and
// attaches it as the reference card.
func (s *RoundService) ImportReferenceCard(ctx context.Context, sess session.Session, roundID uuid.UUID, data []byte, playerName string) (*rounddomain.Round, error) {
	return unwrap(withTelemetry(s, ctx, "ImportReferenceCard", roundID.String(), func(ctx context.Context) (roundResult, error) {
		card, err := parsers.ParseScorecardXLSX(data)
		if err != nil {
			return fail[*rounddomain.Round](fmt.Errorf("%w: %v", rounddomain.ErrInvalidReference, err))
		}
		row, ok := card.Player(playerName)
		if !ok {
			return fail[*rounddomain.Round](fmt.Errorf("%w: no row for %q", rounddomain.ErrInvalidReference, playerName))
		}

		ref := make(rounddomain.ReferenceCard, len(row.Holes))
		for i, v := range row.Holes {
			if v > 0 {
				ref[i+1] = v
			}
		}

		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (roundResult, error) {
			return s.setReferenceLogic(ctx, db, sess, roundID, ref)
		})
	}))
}

func (s *RoundService) setReferenceLogic(ctx context.Context, db bun.IDB, sess session.Session, roundID uuid.UUID, ref rounddomain.ReferenceCard) (roundResult, error) {
	round, sc, err := s.loadRoundByID(ctx, db, roundID)
	if err != nil {
		return fail[*rounddomain.Round](err)
	}
	if !canAttachReference(sess, round, sc.group) {
		return fail[*rounddomain.Round](rounddomain.ErrForbidden)
	}
	if err := round.CheckMutable(sess.IsAdmin(), "set reference"); err != nil {
		return fail[*rounddomain.Round](err)
	}
	if err := validateReference(ref, sc.course); err != nil {
		return fail[*rounddomain.Round](err)
	}

	if len(ref) == 0 {
		ref = nil
	}
	round.Reference = ref
	if err := s.update(ctx, db, "set reference", round); err != nil {
		return fail[*rounddomain.Round](err)
	}
	return results.SuccessResult[*rounddomain.Round, error](round), nil
}

// canAttachReference admits admins and the owner's group partners. The owner
// never writes the card their own scores are checked against.
func canAttachReference(sess session.Session, round *rounddomain.Round, group tournamenttypes.Group) bool {
	if sess.IsAdmin() {
		return true
	}
	return sess.Role == authdomain.RolePlayer &&
		sess.PlayerID != uuid.Nil &&
		sess.PlayerID != round.PlayerID &&
		group.HasPlayer(sess.PlayerID)
}

func validateReference(ref rounddomain.ReferenceCard, course tournamenttypes.Course) error {
	for hole, strokes := range ref {
		if hole < 1 || hole > course.HoleCount() {
			return fmt.Errorf("%w: hole %d outside course", rounddomain.ErrInvalidReference, hole)
		}
		if strokes < 1 || strokes > rounddomain.MaxStrokes {
			return fmt.Errorf("%w: hole %d has %d strokes", rounddomain.ErrInvalidReference, hole, strokes)
		}
	}
	return nil
}
