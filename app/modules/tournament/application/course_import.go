package tournamentservice

import (
	"context"
	"fmt"
	"strings"

	"github.com/Black-And-White-Club/golf-tournament/app/shared/parsers"
	"github.com/Black-And-White-Club/golf-tournament/app/shared/session"
	tournamenttypes "github.com/Black-And-White-Club/golf-tournament/app/shared/types/tournament"
	"github.com/google/uuid"
)

func (s *TournamentService) ImportCourse(ctx context.Context, sess session.Session, req ImportCourseRequest) (tournamenttypes.Course, error) {
	return observe(s, ctx, "ImportCourse", req.TournamentID, func(ctx context.Context) (tournamenttypes.Course, error) {
		if err := requireAdmin(sess, req.TournamentID); err != nil {
			return tournamenttypes.Course{}, err
		}

		card, err := parsers.ParseScorecardXLSX(req.XLSX)
		if err != nil {
			return tournamenttypes.Course{}, fmt.Errorf("%w: %v", tournamenttypes.ErrInvalidCourse, err)
		}
		course, err := courseFromCard(card)
		if err != nil {
			return tournamenttypes.Course{}, err
		}

		course.ID = req.CourseID
		course.TournamentID = req.TournamentID
		if course.ID == uuid.Nil {
			course.ID = uuid.New()
		}
		course.Name = strings.TrimSpace(req.Name)
		if course.Name == "" {
			course.Name = "Course"
		}

		if _, err := s.repo.GetTournament(ctx, s.db, req.TournamentID); err != nil {
			return tournamenttypes.Course{}, err
		}
		if err := s.repo.UpsertCourse(ctx, s.db, req.TournamentID, course); err != nil {
			return tournamenttypes.Course{}, err
		}
		return course, nil
	})
}

// courseFromCard builds a validated course from the card's par and index rows.
func courseFromCard(card *parsers.Scorecard) (tournamenttypes.Course, error) {
	n := card.HoleCount()
	if len(card.StrokeIndexes) != n {
		return tournamenttypes.Course{}, fmt.Errorf("%w: scorecard has %d pars but %d stroke indexes",
			tournamenttypes.ErrInvalidCourse, n, len(card.StrokeIndexes))
	}

	holes := make([]tournamenttypes.Hole, n)
	for i := range n {
		holes[i] = tournamenttypes.Hole{
			Number:      i + 1,
			Par:         card.Pars[i],
			StrokeIndex: card.StrokeIndexes[i],
		}
	}
	course := tournamenttypes.Course{Holes: holes}
	if err := course.Validate(); err != nil {
		return tournamenttypes.Course{}, err
	}
	return course, nil
}
