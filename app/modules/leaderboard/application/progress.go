package leaderboardservice

import (
	"context"
	"fmt"

	leaderboarddomain "github.com/Black-And-White-Club/golf-tournament/app/modules/leaderboard/domain"
	rounddomain "github.com/Black-And-White-Club/golf-tournament/app/modules/round/domain"
	"github.com/Black-And-White-Club/golf-tournament/app/shared/session"
	tournamenttypes "github.com/Black-And-White-Club/golf-tournament/app/shared/types/tournament"
	"github.com/google/uuid"
)

// ProgressPoint is the running total after one played hole.
type ProgressPoint struct {
	Day   int `json:"day"`
	Hole  int `json:"hole"`
	Total int `json:"total"`
}

// Progress is a player's running total across the counted rounds. The metric
// follows the tournament's scoring mode.
type Progress struct {
	PlayerID uuid.UUID                   `json:"player_id"`
	Name     string                      `json:"name"`
	Mode     tournamenttypes.ScoringMode `json:"mode"`
	Metric   string                      `json:"metric"`
	Points   []ProgressPoint             `json:"points"`
}

// Metric labels for Progress.
const (
	MetricStableford = "Stableford points"
	MetricToPar      = "Strokes to par"
	MetricNetToPar   = "Net to par"
)

func (s *LeaderboardService) PlayerProgress(ctx context.Context, sess session.Session, tournamentID, playerID uuid.UUID) (*Progress, error) {
	return observe(s, ctx, "PlayerProgress", tournamentID, func(ctx context.Context) (*Progress, error) {
		return s.progress(ctx, sess, tournamentID, playerID)
	})
}

func (s *LeaderboardService) ProgressChart(ctx context.Context, sess session.Session, tournamentID, playerID uuid.UUID) ([]byte, error) {
	return observe(s, ctx, "ProgressChart", tournamentID, func(ctx context.Context) ([]byte, error) {
		p, err := s.progress(ctx, sess, tournamentID, playerID)
		if err != nil {
			return nil, err
		}
		return GenerateProgressChart(p, s.palette)
	})
}

func (s *LeaderboardService) progress(ctx context.Context, sess session.Session, tournamentID, playerID uuid.UUID) (*Progress, error) {
	if err := checkTournament(sess, tournamentID); err != nil {
		return nil, err
	}
	snap, err := s.load(ctx, tournamentID)
	if err != nil {
		return nil, err
	}

	var name string
	found := false
	for _, p := range snap.players {
		if p.ID == playerID {
			name, found = p.Name, true
			break
		}
	}
	if !found {
		return nil, fmt.Errorf("player %s: %w", playerID, tournamenttypes.ErrNotFound)
	}

	if s.standings(snap, sess, leaderboarddomain.ScopeAll(), nil).blurred(playerID) {
		return nil, ErrWithheld
	}

	mode := snap.tournament.ScoringMode
	rounds := leaderboarddomain.PlayerRounds(leaderboarddomain.RankInput{
		Rounds:  snap.rounds,
		Groups:  snap.groups,
		Courses: snap.courses,
		Scope:   leaderboarddomain.ScopeAll(),
		Mode:    mode,
	}, playerID)

	return &Progress{
		PlayerID: playerID,
		Name:     name,
		Mode:     mode,
		Metric:   metricFor(mode),
		Points:   runningTotals(rounds, mode),
	}, nil
}

func metricFor(mode tournamenttypes.ScoringMode) string {
	switch mode {
	case tournamenttypes.ModeStrokes:
		return MetricToPar
	case tournamenttypes.ModeNet:
		return MetricNetToPar
	default:
		return MetricStableford
	}
}

// runningTotals walks the played holes of rounds in order. Unplayed holes are
// skipped rather than counted as zero.
func runningTotals(rounds []*rounddomain.Round, mode tournamenttypes.ScoringMode) []ProgressPoint {
	var (
		out   []ProgressPoint
		total int
	)
	for _, r := range rounds {
		for _, h := range r.Holes {
			if !h.Strokes.Played() {
				continue
			}
			gross := rounddomain.EffectiveGross(h.Strokes, h.Par, h.HandicapStrokes)
			switch mode {
			case tournamenttypes.ModeStrokes:
				total += gross - h.Par
			case tournamenttypes.ModeNet:
				total += rounddomain.NetDiff(gross, h.HandicapStrokes) - h.Par
			default:
				total += int(h.Points)
			}
			out = append(out, ProgressPoint{Day: r.Day, Hole: h.Hole, Total: total})
		}
	}
	return out
}
