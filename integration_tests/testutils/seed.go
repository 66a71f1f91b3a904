package testutils

import (
	"context"
	"fmt"
	"testing"
	"time"

	tournamentdb "github.com/Black-And-White-Club/golf-tournament/app/modules/tournament/infrastructure/repositories"
	tournamenttypes "github.com/Black-And-White-Club/golf-tournament/app/shared/types/tournament"
	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// Fixture is a one-day tournament with one par-4 eighteen-hole course and a
// single group holding every player.
type Fixture struct {
	Tournament tournamenttypes.Tournament
	Course     tournamenttypes.Course
	Group      tournamenttypes.Group
	Players    []tournamenttypes.Player
}

// SeedTournament writes a Fixture through the tournament repository.
func SeedTournament(t *testing.T, ctx context.Context, env *TestEnvironment, mode tournamenttypes.ScoringMode, players int) Fixture {
	t.Helper()
	repo := tournamentdb.NewRepository(env.DB)

	f := Fixture{Tournament: tournamenttypes.Tournament{
		ID:          uuid.New(),
		Name:        fmt.Sprintf("%s Open", gofakeit.City()),
		ScoringMode: mode,
		Days:        1,
	}}
	require.NoError(t, repo.CreateTournament(ctx, env.DB, f.Tournament))

	f.Course = tournamenttypes.Course{ID: uuid.New(), TournamentID: f.Tournament.ID, Name: gofakeit.Company() + " Links"}
	for n := 1; n <= 18; n++ {
		f.Course.Holes = append(f.Course.Holes, tournamenttypes.Hole{Number: n, Par: 4, StrokeIndex: n})
	}
	require.NoError(t, repo.UpsertCourse(ctx, env.DB, f.Tournament.ID, f.Course))

	for i := 0; i < players; i++ {
		p := tournamenttypes.Player{
			ID:           uuid.New(),
			TournamentID: f.Tournament.ID,
			Name:         gofakeit.Name(),
		}
		require.NoError(t, repo.CreatePlayer(ctx, env.DB, p))
		f.Players = append(f.Players, p)
	}

	f.Group = tournamenttypes.Group{
		ID:           uuid.New(),
		TournamentID: f.Tournament.ID,
		CourseID:     f.Course.ID,
		Name:         "Group 1",
		Day:          1,
		TeeTime:      time.Now().UTC().Truncate(time.Minute),
	}
	for _, p := range f.Players {
		f.Group.PlayerIDs = append(f.Group.PlayerIDs, p.ID)
	}
	require.NoError(t, repo.CreateGroup(ctx, env.DB, f.Group))
	return f
}
