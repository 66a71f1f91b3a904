package rounddomain

import (
	"time"

	tournamenttypes "github.com/Black-And-White-Club/golf-tournament/app/shared/types/tournament"
	"github.com/google/uuid"
)

// State is the lifecycle position of a round.
type State string

const (
	StateNotStarted State = "not_started"
	StateDraft      State = "draft"
	StateComplete   State = "complete"
	StateSubmitted  State = "submitted"
)

// HoleScore is one hole on a round. Everything except Strokes is derived from
// the course and the round's handicap and is rebuilt by Recalculate.
type HoleScore struct {
	Hole            int         `json:"hole"`
	Strokes         HoleStrokes `json:"strokes"`
	Par             int         `json:"par"`
	HandicapStrokes int         `json:"handicap_strokes"`
	Points          Points      `json:"points"`
	Net             int         `json:"net"`
}

// Round is one player's scorecard for one group.
type Round struct {
	ID           uuid.UUID
	TournamentID uuid.UUID
	GroupID      uuid.UUID
	PlayerID     uuid.UUID
	Day          int

	Holes       []HoleScore
	TotalGross  int
	TotalPoints int
	// TotalNet sums unclamped per-hole net and may go negative.
	TotalNet int

	// HandicapUsed is snapshotted from the player when the round is created
	// and only changes through an admin override.
	HandicapUsed int

	Completed bool
	Submitted bool

	Reference          ReferenceCard
	DiscrepancyFlagged bool
	DiscrepancyNotes   []Discrepancy

	Version   int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewRound starts an empty card for player in group, snapshotting handicap.
func NewRound(tournamentID, groupID, playerID uuid.UUID, day, handicap int, course tournamenttypes.Course) *Round {
	r := &Round{
		ID:           uuid.New(),
		TournamentID: tournamentID,
		GroupID:      groupID,
		PlayerID:     playerID,
		Day:          day,
		HandicapUsed: handicap,
		Holes:        make([]HoleScore, course.HoleCount()),
	}
	r.Recalculate(course)
	return r
}

// State derives the lifecycle state from the stored flags and holes.
func (r *Round) State() State {
	switch {
	case r.Submitted:
		return StateSubmitted
	case r.Completed:
		return StateComplete
	case r.HolesPlayed() > 0:
		return StateDraft
	default:
		return StateNotStarted
	}
}

// Recalculate rebuilds every derived value from the course. Hole entries are
// re-seated by hole number; entries outside the course are dropped.
func (r *Round) Recalculate(course tournamenttypes.Course) {
	n := course.HoleCount()
	if n > 0 {
		seated := make([]HoleScore, n)
		for i, h := range r.Holes {
			num := h.Hole
			if num == 0 {
				num = i + 1
			}
			if num < 1 || num > n {
				continue
			}
			seated[num-1].Strokes = h.Strokes
		}
		r.Holes = seated
	}

	r.TotalGross, r.TotalPoints, r.TotalNet = 0, 0, 0
	complete := len(r.Holes) > 0

	for i := range r.Holes {
		h := &r.Holes[i]
		h.Hole = i + 1
		h.Par, h.HandicapStrokes = 0, 0
		if ch, ok := course.Hole(h.Hole); ok {
			h.Par = ch.Par
			h.HandicapStrokes = StrokesForHole(r.HandicapUsed, ch.StrokeIndex, n)
		}

		if !h.Strokes.Played() {
			h.Points, h.Net = 0, 0
			complete = false
			continue
		}

		gross := EffectiveGross(h.Strokes, h.Par, h.HandicapStrokes)
		res := ScoreHole(gross, h.Par, h.HandicapStrokes)
		h.Points, h.Net = res.Points, res.Net

		r.TotalGross += gross
		r.TotalPoints += int(res.Points)
		r.TotalNet += NetDiff(gross, h.HandicapStrokes)
	}

	r.Completed = complete
}

// SetHole records an entry for hole and reports whether the value changed.
// Derived values are stale until Recalculate runs.
func (r *Round) SetHole(hole int, s HoleStrokes) (bool, error) {
	if hole < 1 || hole > len(r.Holes) {
		return false, ErrInvalidHole
	}
	prev := r.Holes[hole-1].Strokes
	r.Holes[hole-1].Strokes = s
	return prev != s, nil
}

// CheckMutable rejects player-side mutation of a submitted round. Admins pass.
func (r *Round) CheckMutable(admin bool, op string) error {
	if r.Submitted && !admin {
		return NewStateError(r.ID, r.State(), op, ErrRoundLocked)
	}
	return nil
}

// HolesPlayed counts holes with a counted or picked-up entry.
func (r *Round) HolesPlayed() int {
	played := 0
	for _, h := range r.Holes {
		if h.Strokes.Played() {
			played++
		}
	}
	return played
}

// MissingHoles lists the hole numbers without an entry, ascending.
func (r *Round) MissingHoles() []int {
	var missing []int
	for _, h := range r.Holes {
		if !h.Strokes.Played() {
			missing = append(missing, h.Hole)
		}
	}
	return missing
}

// LastHolePlayed reports whether the course's final hole has an entry.
func (r *Round) LastHolePlayed() bool {
	if len(r.Holes) == 0 {
		return false
	}
	return r.Holes[len(r.Holes)-1].Strokes.Played()
}

// Submit locks the round. Missing holes yield a ValidationError. Differences
// from the reference card yield a DiscrepancyWarning unless confirm is set, in
// which case the official card is kept and the differences are recorded. The
// flag always describes the card as last submitted, so a clean resubmission
// after an unlock clears it.
func (r *Round) Submit(confirm bool) ([]Discrepancy, error) {
	if r.Submitted {
		return nil, NewStateError(r.ID, r.State(), "submit", ErrRoundLocked)
	}
	if missing := r.MissingHoles(); len(missing) > 0 {
		return nil, &ValidationError{MissingHoles: missing}
	}

	found := DetectDiscrepancies(r.Holes, r.Reference)
	if len(found) > 0 {
		if !confirm {
			return found, &DiscrepancyWarning{Discrepancies: found}
		}
		r.DiscrepancyFlagged = true
		r.DiscrepancyNotes = found
	} else {
		r.DiscrepancyFlagged = false
		r.DiscrepancyNotes = nil
	}

	r.Submitted = true
	return found, nil
}

// Unlock reopens a submitted round for editing. It clears completed as well;
// the next Recalculate derives it again from the holes.
func (r *Round) Unlock() error {
	if !r.Submitted {
		return NewStateError(r.ID, r.State(), "unlock", ErrNotLocked)
	}
	r.Submitted = false
	r.Completed = false
	return nil
}

// AchievementInput returns the play for hole and the plays on holes before it.
func (r *Round) AchievementInput(hole int) (HolePlay, []HolePlay, bool) {
	if hole < 1 || hole > len(r.Holes) {
		return HolePlay{}, nil, false
	}
	prior := make([]HolePlay, 0, hole-1)
	for _, h := range r.Holes[:hole-1] {
		prior = append(prior, HolePlay{Hole: h.Hole, Strokes: h.Strokes, Par: h.Par})
	}
	latest := r.Holes[hole-1]
	return HolePlay{Hole: latest.Hole, Strokes: latest.Strokes, Par: latest.Par}, prior, true
}
