package roundservice

import (
	"context"
	"errors"
	"fmt"

	rounddomain "github.com/Black-And-White-Club/golf-tournament/app/modules/round/domain"
	roundevents "github.com/Black-And-White-Club/golf-tournament/app/modules/round/domain/events"
	rounddb "github.com/Black-And-White-Club/golf-tournament/app/modules/round/infrastructure/repositories"
	"github.com/Black-And-White-Club/golf-tournament/app/shared/attr"
	"github.com/Black-And-White-Club/golf-tournament/app/shared/results"
	"github.com/Black-And-White-Club/golf-tournament/app/shared/session"
	tournamenttypes "github.com/Black-And-White-Club/golf-tournament/app/shared/types/tournament"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// errConcurrentCreate means another request created the same round first.
var errConcurrentCreate = errors.New("round created concurrently")

type saveHoleResult = results.OperationResult[*SaveHoleResult, error]

// SaveHole records one hole, creating the round on first entry. Achievements
// and the saved event go out after commit and never fail the save.
func (s *RoundService) SaveHole(ctx context.Context, sess session.Session, req SaveHoleRequest) (*SaveHoleResult, error) {
	identifier := fmt.Sprintf("%s/%s#%d", req.GroupID, req.PlayerID, req.Hole)

	var (
		out *SaveHoleResult
		err error
	)
	for attempt := 0; attempt < 2; attempt++ {
		out, err = unwrap(withTelemetry(s, ctx, "SaveHole", identifier, func(ctx context.Context) (saveHoleResult, error) {
			return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (saveHoleResult, error) {
				return s.saveHoleLogic(ctx, db, sess, req)
			})
		}))
		if !errors.Is(err, errConcurrentCreate) {
			break
		}
	}
	if errors.Is(err, errConcurrentCreate) {
		return nil, rounddomain.ErrVersionConflict
	}
	if err != nil {
		return nil, err
	}

	s.afterSave(ctx, sess, req, out)
	return out, nil
}

func (s *RoundService) saveHoleLogic(ctx context.Context, db bun.IDB, sess session.Session, req SaveHoleRequest) (saveHoleResult, error) {
	if !sess.CanEditPlayer(req.PlayerID) {
		return fail[*SaveHoleResult](rounddomain.ErrForbidden)
	}

	sc, err := s.loadScoringContext(ctx, db, req.GroupID)
	if err != nil {
		return fail[*SaveHoleResult](err)
	}
	if err := checkMembership(sess, sc.group, req); err != nil {
		return fail[*SaveHoleResult](err)
	}
	if req.Hole < 1 || req.Hole > sc.course.HoleCount() {
		return fail[*SaveHoleResult](rounddomain.ErrInvalidHole)
	}

	created := false
	round, err := s.repo.GetByGroupAndPlayer(ctx, db, req.GroupID, req.PlayerID)
	switch {
	case errors.Is(err, rounddb.ErrNotFound):
		player, err := s.tournaments.GetPlayer(ctx, db, req.PlayerID)
		if err != nil {
			return fail[*SaveHoleResult](setupErr("load player", req.PlayerID, err))
		}
		round = rounddomain.NewRound(sc.group.TournamentID, sc.group.ID, player.ID, sc.group.Day, player.HandicapIndex, sc.course)
		created = true
	case err != nil:
		return fail[*SaveHoleResult](&rounddomain.PersistenceError{Op: "load round", Err: err})
	default:
		round.Recalculate(sc.course)
		if err := round.CheckMutable(sess.IsAdmin(), "save hole"); err != nil {
			return fail[*SaveHoleResult](err)
		}
	}

	if !created {
		if err := checkVersion(round, req.ExpectedVersion); err != nil {
			return fail[*SaveHoleResult](err)
		}
	}

	changed, err := round.SetHole(req.Hole, req.Strokes)
	if err != nil {
		return fail[*SaveHoleResult](err)
	}
	round.Recalculate(sc.course)

	switch {
	case created:
		if err := s.repo.Create(ctx, db, round); err != nil {
			if errors.Is(err, rounddb.ErrDuplicate) {
				return results.OperationResult[*SaveHoleResult, error]{}, errConcurrentCreate
			}
			return fail[*SaveHoleResult](&rounddomain.PersistenceError{Op: "create round", Err: err})
		}
	case changed:
		if err := s.update(ctx, db, "save hole", round); err != nil {
			return fail[*SaveHoleResult](err)
		}
	}

	out := &SaveHoleResult{Round: round, Changed: changed, Created: created}
	if changed {
		if _, counted := req.Strokes.Count(); counted {
			latest, prior, _ := round.AchievementInput(req.Hole)
			out.Achievements = rounddomain.DetectAchievements(latest, prior)
		}
	}
	return results.SuccessResult[*SaveHoleResult, error](out), nil
}

// checkMembership pins the request to the group's tournament and roster.
func checkMembership(sess session.Session, group tournamenttypes.Group, req SaveHoleRequest) error {
	if req.TournamentID != uuid.Nil && req.TournamentID != group.TournamentID {
		return fmt.Errorf("group %s in tournament %s: %w", group.ID, req.TournamentID, tournamenttypes.ErrNotFound)
	}
	if sess.TournamentID != uuid.Nil && sess.TournamentID != group.TournamentID {
		return rounddomain.ErrForbidden
	}
	if !group.HasPlayer(req.PlayerID) {
		return fmt.Errorf("player %s in group %s: %w", req.PlayerID, group.ID, tournamenttypes.ErrNotFound)
	}
	return nil
}

func (s *RoundService) afterSave(ctx context.Context, sess session.Session, req SaveHoleRequest, out *SaveHoleResult) {
	if !out.Changed {
		return
	}
	ref := roundevents.Ref(out.Round)

	if s.poster != nil {
		for _, a := range out.Achievements {
			if err := s.poster.PostAchievement(ctx, ref, a); err != nil {
				s.logger.WarnContext(ctx, "Failed to post achievement",
					attr.ExtractCorrelationID(ctx),
					attr.UUID("round_id", ref.RoundID),
					attr.String("kind", string(a.Kind)),
					attr.Int("hole", a.Hole),
					attr.Error(err),
				)
			}
		}
	}

	s.publish(ctx, roundevents.HoleSavedV1, roundevents.HoleSavedPayloadV1{
		RoundRef:    ref,
		Hole:        req.Hole,
		Strokes:     req.Strokes,
		TotalPoints: out.Round.TotalPoints,
		TotalGross:  out.Round.TotalGross,
		HolesPlayed: out.Round.HolesPlayed(),
		Completed:   out.Round.Completed,
		Version:     out.Round.Version,
		SavedBy:     sess.PlayerID,
		SavedAt:     s.now().UTC(),
	})
}
