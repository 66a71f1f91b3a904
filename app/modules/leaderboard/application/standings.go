package leaderboardservice

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	leaderboarddomain "github.com/Black-And-White-Club/golf-tournament/app/modules/leaderboard/domain"
	"github.com/Black-And-White-Club/golf-tournament/app/shared/session"
	tournamenttypes "github.com/Black-And-White-Club/golf-tournament/app/shared/types/tournament"
	"github.com/google/uuid"
)

// BlurredRows is how many rows at the top of the board are withheld between
// the strict seal and the reveal.
const BlurredRows = 5

// Row is one line of the board as shown to a particular caller. Numeric
// fields are nil while the row is blurred; Position is also nil for players
// who have not started.
type Row struct {
	PlayerID    uuid.UUID `json:"player_id"`
	Name        string    `json:"name"`
	Position    *int      `json:"position"`
	Gross       *int      `json:"gross"`
	Points      *int      `json:"points"`
	Net         *int      `json:"net"`
	HolesPlayed *int      `json:"holes_played"`
	Days        []int     `json:"days,omitempty"`
	Blurred     bool      `json:"blurred,omitempty"`
}

// Standings is a ranked board plus the seal signals.
type Standings struct {
	TournamentID uuid.UUID                   `json:"tournament_id"`
	Scope        string                      `json:"scope"`
	Mode         tournamenttypes.ScoringMode `json:"mode"`
	Rows         []Row                       `json:"rows"`
	// Sealed is the strict seal: every final-day player has finished.
	Sealed bool `json:"sealed"`
	// ContestsFinal is the loose seal: some final-day player reached the last
	// hole. Betting and prediction payouts read this.
	ContestsFinal bool      `json:"contests_final"`
	Revealed      bool      `json:"revealed"`
	Blurred       bool      `json:"blurred"`
	GeneratedAt   time.Time `json:"generated_at"`
}

func (s *LeaderboardService) GetStandings(ctx context.Context, sess session.Session, tournamentID uuid.UUID, scope leaderboarddomain.Scope, mode *tournamenttypes.ScoringMode) (*Standings, error) {
	return observe(s, ctx, "GetStandings", tournamentID, func(ctx context.Context) (*Standings, error) {
		if err := checkTournament(sess, tournamentID); err != nil {
			return nil, err
		}
		if mode != nil && !mode.IsValid() {
			return nil, fmt.Errorf("%w: %q", ErrInvalidMode, *mode)
		}
		snap, err := s.load(ctx, tournamentID)
		if err != nil {
			return nil, err
		}
		return s.standings(snap, sess, scope, mode), nil
	})
}

// standings ranks snap for the caller. The blur only ever applies to non-admin
// callers once the strict seal holds and before the reveal.
func (s *LeaderboardService) standings(snap *snapshot, sess session.Session, scope leaderboarddomain.Scope, mode *tournamenttypes.ScoringMode) *Standings {
	t := snap.tournament
	m := t.ScoringMode
	if mode != nil {
		m = *mode
	}

	ranked := leaderboarddomain.Rank(leaderboarddomain.RankInput{
		Rounds:  snap.rounds,
		Players: snap.players,
		Groups:  snap.groups,
		Courses: snap.courses,
		Scope:   scope,
		Mode:    m,
	})

	out := &Standings{
		TournamentID:  t.ID,
		Scope:         scope.String(),
		Mode:          m,
		Rows:          make([]Row, 0, len(ranked)),
		Sealed:        leaderboarddomain.StrictSeal(snap.rounds, snap.groups, snap.courses, t.FinalDay()),
		ContestsFinal: leaderboarddomain.LooseSeal(snap.rounds, snap.groups, snap.courses, t.FinalDay()),
		Revealed:      t.Revealed,
		GeneratedAt:   s.now().UTC(),
	}
	for _, st := range ranked {
		out.Rows = append(out.Rows, toRow(st))
	}

	if out.Sealed && !out.Revealed && !isAdminOf(sess, t.ID) {
		blurTop(out.Rows, BlurredRows)
		out.Blurred = true
	}
	return out
}

func toRow(st leaderboarddomain.Standing) Row {
	r := Row{
		PlayerID:    st.PlayerID,
		Name:        st.Name,
		Gross:       ptr(st.Gross),
		Points:      ptr(st.Points),
		Net:         ptr(st.Net),
		HolesPlayed: ptr(st.HolesPlayed),
		Days:        st.Days,
	}
	if st.Position > 0 {
		r.Position = ptr(st.Position)
	}
	return r
}

// blurTop withholds the numbers on the first n started rows and orders them
// by name so the order does not give the result away.
func blurTop(rows []Row, n int) {
	end := 0
	for end < len(rows) && end < n && rows[end].Position != nil {
		end++
	}
	top := rows[:end]
	for i := range top {
		top[i] = Row{PlayerID: top[i].PlayerID, Name: top[i].Name, Blurred: true}
	}
	slices.SortStableFunc(top, func(a, b Row) int {
		return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
	})
}

// blurred reports whether playerID is withheld on the board.
func (st *Standings) blurred(playerID uuid.UUID) bool {
	for _, r := range st.Rows {
		if r.PlayerID == playerID {
			return r.Blurred
		}
	}
	return false
}

func ptr[T any](v T) *T {
	return &v
}
