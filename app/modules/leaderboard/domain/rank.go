// Package leaderboarddomain ranks players from persisted rounds. Everything in
// it is a pure projection: malformed rows degrade to zero holes played and
// never fail a ranking.
package leaderboarddomain

import (
	"cmp"
	"slices"

	rounddomain "github.com/Black-And-White-Club/golf-tournament/app/modules/round/domain"
	tournamenttypes "github.com/Black-And-White-Club/golf-tournament/app/shared/types/tournament"
	"github.com/google/uuid"
)

// Standing is one player's aggregated line on the board.
type Standing struct {
	PlayerID uuid.UUID
	Name     string
	// Position is 1-based and shared on equal ranking keys. Players without a
	// played hole have position 0.
	Position    int
	Gross       int
	Points      int
	Net         int
	HolesPlayed int
	// Days and RoundIDs list the selected round per day, ascending by day.
	Days     []int
	RoundIDs []uuid.UUID
}

// Started reports whether any hole counts toward the standing.
func (s Standing) Started() bool {
	return s.HolesPlayed > 0
}

// RankInput is everything Rank reads.
type RankInput struct {
	Rounds  []*rounddomain.Round
	Players []tournamenttypes.Player
	Groups  []tournamenttypes.Group
	Courses []tournamenttypes.Course
	Scope   Scope
	Mode    tournamenttypes.ScoringMode
}

type playerDay struct {
	player uuid.UUID
	day    int
}

// Rank aggregates one round per player per day and orders the result by mode.
// Players with no played hole follow everyone else in input order.
func Rank(in RankInput) []Standing {
	groups := indexGroups(in.Groups)
	courses := indexCourses(in.Courses)

	chosen := selectRounds(in.Rounds, groups, in.Scope)

	byPlayer := make(map[uuid.UUID]*Standing, len(in.Players))
	order := make([]uuid.UUID, 0, len(in.Players))
	add := func(id uuid.UUID, name string) *Standing {
		if s, ok := byPlayer[id]; ok {
			return s
		}
		s := &Standing{PlayerID: id, Name: name}
		byPlayer[id] = s
		order = append(order, id)
		return s
	}
	for _, p := range in.Players {
		add(p.ID, p.Name)
	}

	for _, r := range in.Rounds {
		if r == nil {
			continue
		}
		g, ok := groups[r.GroupID]
		if !ok || chosen[playerDay{r.PlayerID, g.Day}] != r {
			continue
		}
		scored := Rescore(r, courses[g.CourseID])

		s := add(r.PlayerID, "")
		s.Gross += scored.TotalGross
		s.Points += scored.TotalPoints
		s.Net += scored.TotalNet
		s.HolesPlayed += scored.HolesPlayed()
		s.Days = append(s.Days, g.Day)
		s.RoundIDs = append(s.RoundIDs, r.ID)
	}

	started := make([]Standing, 0, len(order))
	var waiting []Standing
	for _, id := range order {
		s := byPlayer[id]
		sortByDay(s)
		if s.Started() {
			started = append(started, *s)
		} else {
			waiting = append(waiting, *s)
		}
	}

	compare := Comparator(in.Mode)
	slices.SortStableFunc(started, compare)
	for i := range started {
		if i > 0 && compare(started[i-1], started[i]) == 0 {
			started[i].Position = started[i-1].Position
			continue
		}
		started[i].Position = i + 1
	}

	return append(started, waiting...)
}

// selectRounds picks the representative round for every (player, day) in
// scope: a submitted round wins, then the most recently updated one. Rounds
// whose group is unknown are left out.
func selectRounds(rounds []*rounddomain.Round, groups map[uuid.UUID]tournamenttypes.Group, scope Scope) map[playerDay]*rounddomain.Round {
	chosen := make(map[playerDay]*rounddomain.Round)
	for _, r := range rounds {
		if r == nil {
			continue
		}
		g, ok := groups[r.GroupID]
		if !ok || !scope.Includes(g.Day) {
			continue
		}
		k := playerDay{r.PlayerID, g.Day}
		if cur, ok := chosen[k]; !ok || preferred(r, cur) {
			chosen[k] = r
		}
	}
	return chosen
}

// PlayerRounds returns the rescored rounds that feed playerID's standing,
// ascending by day.
func PlayerRounds(in RankInput, playerID uuid.UUID) []*rounddomain.Round {
	groups := indexGroups(in.Groups)
	courses := indexCourses(in.Courses)

	var out []*rounddomain.Round
	for k, r := range selectRounds(in.Rounds, groups, in.Scope) {
		if k.player != playerID {
			continue
		}
		out = append(out, Rescore(r, courses[groups[r.GroupID].CourseID]))
	}
	slices.SortFunc(out, func(a, b *rounddomain.Round) int {
		return cmp.Compare(groups[a.GroupID].Day, groups[b.GroupID].Day)
	})
	return out
}

func preferred(a, b *rounddomain.Round) bool {
	if a.Submitted != b.Submitted {
		return a.Submitted
	}
	return a.UpdatedAt.After(b.UpdatedAt)
}

// Rescore returns a copy of r with every derived value rebuilt from course.
// A zero course leaves par and handicap strokes at zero.
func Rescore(r *rounddomain.Round, course tournamenttypes.Course) *rounddomain.Round {
	c := *r
	c.Holes = slices.Clone(r.Holes)
	c.Recalculate(course)
	return &c
}

// Comparator orders two started standings for mode. Unknown modes rank as
// handicap.
func Comparator(mode tournamenttypes.ScoringMode) func(a, b Standing) int {
	switch mode {
	case tournamenttypes.ModeStrokes:
		return func(a, b Standing) int { return cmp.Compare(a.Gross, b.Gross) }
	case tournamenttypes.ModeNet:
		return func(a, b Standing) int { return cmp.Compare(a.Net, b.Net) }
	default:
		return func(a, b Standing) int {
			if c := cmp.Compare(b.Points, a.Points); c != 0 {
				return c
			}
			return cmp.Compare(b.HolesPlayed, a.HolesPlayed)
		}
	}
}

func sortByDay(s *Standing) {
	if len(s.Days) < 2 {
		return
	}
	idx := make([]int, len(s.Days))
	for i := range idx {
		idx[i] = i
	}
	slices.SortStableFunc(idx, func(a, b int) int { return cmp.Compare(s.Days[a], s.Days[b]) })
	days := make([]int, len(idx))
	ids := make([]uuid.UUID, len(idx))
	for i, j := range idx {
		days[i], ids[i] = s.Days[j], s.RoundIDs[j]
	}
	s.Days, s.RoundIDs = days, ids
}

func indexGroups(groups []tournamenttypes.Group) map[uuid.UUID]tournamenttypes.Group {
	out := make(map[uuid.UUID]tournamenttypes.Group, len(groups))
	for _, g := range groups {
		out[g.ID] = g
	}
	return out
}

func indexCourses(courses []tournamenttypes.Course) map[uuid.UUID]tournamenttypes.Course {
	out := make(map[uuid.UUID]tournamenttypes.Course, len(courses))
	for _, c := range courses {
		out[c.ID] = c
	}
	return out
}
