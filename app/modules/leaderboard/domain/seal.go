package leaderboarddomain

import (
	rounddomain "github.com/Black-And-White-Club/golf-tournament/app/modules/round/domain"
	tournamenttypes "github.com/Black-And-White-Club/golf-tournament/app/shared/types/tournament"
	"github.com/google/uuid"
)

// LooseSeal reports whether any round in a final-day group has an entry on
// the course's last hole. Contest payouts finalize on this signal.
func LooseSeal(rounds []*rounddomain.Round, groups []tournamenttypes.Group, courses []tournamenttypes.Course, finalDay int) bool {
	final := finalDayGroups(groups, finalDay)
	if len(final) == 0 {
		return false
	}
	byCourse := indexCourses(courses)

	for _, r := range rounds {
		if r == nil {
			continue
		}
		g, ok := final[r.GroupID]
		if !ok {
			continue
		}
		if Rescore(r, byCourse[g.CourseID]).LastHolePlayed() {
			return true
		}
	}
	return false
}

// StrictSeal reports whether every member of every final-day group holds a
// completed round in that group. It is false until at least one final-day
// group with members exists. The top-of-board blur keys off this signal.
func StrictSeal(rounds []*rounddomain.Round, groups []tournamenttypes.Group, courses []tournamenttypes.Course, finalDay int) bool {
	final := finalDayGroups(groups, finalDay)
	byCourse := indexCourses(courses)

	type seat struct{ group, player uuid.UUID }
	complete := make(map[seat]bool)
	for _, r := range rounds {
		if r == nil {
			continue
		}
		g, ok := final[r.GroupID]
		if !ok {
			continue
		}
		if Rescore(r, byCourse[g.CourseID]).Completed {
			complete[seat{r.GroupID, r.PlayerID}] = true
		}
	}

	members := 0
	for _, g := range final {
		for _, p := range g.PlayerIDs {
			members++
			if !complete[seat{g.ID, p}] {
				return false
			}
		}
	}
	return members > 0
}

func finalDayGroups(groups []tournamenttypes.Group, finalDay int) map[uuid.UUID]tournamenttypes.Group {
	out := make(map[uuid.UUID]tournamenttypes.Group)
	for _, g := range groups {
		if g.Day == finalDay {
			out[g.ID] = g
		}
	}
	return out
}
