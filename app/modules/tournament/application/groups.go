package tournamentservice

import (
	"context"
	"fmt"
	"strings"

	"github.com/Black-And-White-Club/golf-tournament/app/shared/attr"
	"github.com/Black-And-White-Club/golf-tournament/app/shared/session"
	tournamenttypes "github.com/Black-And-White-Club/golf-tournament/app/shared/types/tournament"
	"github.com/google/uuid"
)

func (s *TournamentService) ScheduleGroup(ctx context.Context, sess session.Session, req ScheduleGroupRequest) (tournamenttypes.Group, error) {
	return observe(s, ctx, "ScheduleGroup", req.TournamentID, func(ctx context.Context) (tournamenttypes.Group, error) {
		if err := requireAdmin(sess, req.TournamentID); err != nil {
			return tournamenttypes.Group{}, err
		}

		t, err := s.repo.GetTournament(ctx, s.db, req.TournamentID)
		if err != nil {
			return tournamenttypes.Group{}, err
		}
		if !t.ValidDay(req.Day) {
			return tournamenttypes.Group{}, fmt.Errorf("%w: day %d", ErrInvalidDay, req.Day)
		}

		course, err := s.repo.GetCourse(ctx, s.db, req.CourseID)
		if err != nil {
			return tournamenttypes.Group{}, fmt.Errorf("course %s: %w", req.CourseID, err)
		}
		if course.TournamentID != t.ID {
			return tournamenttypes.Group{}, fmt.Errorf("course %s: %w", req.CourseID, ErrWrongTournament)
		}

		seen := make(map[uuid.UUID]struct{}, len(req.PlayerIDs))
		players := make([]uuid.UUID, 0, len(req.PlayerIDs))
		for _, id := range req.PlayerIDs {
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			p, err := s.repo.GetPlayer(ctx, s.db, id)
			if err != nil {
				return tournamenttypes.Group{}, fmt.Errorf("player %s: %w", id, err)
			}
			if p.TournamentID != t.ID {
				return tournamenttypes.Group{}, fmt.Errorf("player %s: %w", id, ErrWrongTournament)
			}
			players = append(players, id)
		}

		loc, err := s.parser.Location(req.Timezone)
		if err != nil {
			return tournamenttypes.Group{}, err
		}
		teeTime, err := s.parser.Parse(req.TeeTime, loc, s.now())
		if err != nil {
			return tournamenttypes.Group{}, err
		}

		name := strings.TrimSpace(req.Name)
		if name == "" {
			name = fmt.Sprintf("Day %d group", req.Day)
		}

		g := tournamenttypes.Group{
			ID:           uuid.New(),
			TournamentID: t.ID,
			CourseID:     course.ID,
			Name:         name,
			Day:          req.Day,
			TeeTime:      teeTime,
			PlayerIDs:    players,
		}
		if err := s.repo.CreateGroup(ctx, s.db, g); err != nil {
			return tournamenttypes.Group{}, err
		}

		s.logger.InfoContext(ctx, "Group scheduled",
			attr.ExtractCorrelationID(ctx),
			attr.UUID("group_id", g.ID),
			attr.Int("day", g.Day),
			attr.Int("players", len(players)),
		)
		return g, nil
	})
}
