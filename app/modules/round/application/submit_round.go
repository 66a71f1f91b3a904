package roundservice

import (
	"context"

	rounddomain "github.com/Black-And-White-Club/golf-tournament/app/modules/round/domain"
	roundevents "github.com/Black-And-White-Club/golf-tournament/app/modules/round/domain/events"
	"github.com/Black-And-White-Club/golf-tournament/app/shared/results"
	"github.com/Black-And-White-Club/golf-tournament/app/shared/session"
	"github.com/uptrace/bun"
)

type submitResult = results.OperationResult[*SubmitResult, error]

// SubmitRound locks a complete round. An unconfirmed submission over a
// disagreeing reference card returns a DiscrepancyWarning and writes nothing.
func (s *RoundService) SubmitRound(ctx context.Context, sess session.Session, req SubmitRequest) (*SubmitResult, error) {
	out, err := unwrap(withTelemetry(s, ctx, "SubmitRound", req.RoundID.String(), func(ctx context.Context) (submitResult, error) {
		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (submitResult, error) {
			return s.submitRoundLogic(ctx, db, sess, req)
		})
	}))
	if err != nil {
		return nil, err
	}

	ref := roundevents.Ref(out.Round)
	at := s.now().UTC()
	s.publish(ctx, roundevents.RoundSubmittedV1, roundevents.RoundSubmittedPayloadV1{
		RoundRef:           ref,
		TotalGross:         out.Round.TotalGross,
		TotalPoints:        out.Round.TotalPoints,
		TotalNet:           out.Round.TotalNet,
		DiscrepancyFlagged: out.Round.DiscrepancyFlagged,
		SubmittedAt:        at,
	})
	if len(out.Discrepancies) > 0 {
		s.publish(ctx, roundevents.DiscrepancyFlaggedV1, roundevents.DiscrepancyFlaggedPayloadV1{
			RoundRef:      ref,
			Discrepancies: out.Discrepancies,
		})
	}
	return out, nil
}

func (s *RoundService) submitRoundLogic(ctx context.Context, db bun.IDB, sess session.Session, req SubmitRequest) (submitResult, error) {
	round, _, err := s.loadRoundByID(ctx, db, req.RoundID)
	if err != nil {
		return fail[*SubmitResult](err)
	}
	if !sess.CanEditPlayer(round.PlayerID) {
		return fail[*SubmitResult](rounddomain.ErrForbidden)
	}
	if err := checkVersion(round, req.ExpectedVersion); err != nil {
		return fail[*SubmitResult](err)
	}

	found, err := round.Submit(req.Confirm)
	if err != nil {
		return fail[*SubmitResult](err)
	}
	if err := s.update(ctx, db, "submit round", round); err != nil {
		return fail[*SubmitResult](err)
	}

	return results.SuccessResult[*SubmitResult, error](&SubmitResult{Round: round, Discrepancies: found}), nil
}
