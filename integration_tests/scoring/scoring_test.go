package scoring_test

import (
	"context"
	"testing"
	"time"

	"github.com/Black-And-White-Club/golf-tournament/app/eventbus"
	authdomain "github.com/Black-And-White-Club/golf-tournament/app/modules/auth/domain"
	leaderboardservice "github.com/Black-And-White-Club/golf-tournament/app/modules/leaderboard/application"
	leaderboarddomain "github.com/Black-And-White-Club/golf-tournament/app/modules/leaderboard/domain"
	roundservice "github.com/Black-And-White-Club/golf-tournament/app/modules/round/application"
	rounddomain "github.com/Black-And-White-Club/golf-tournament/app/modules/round/domain"
	roundevents "github.com/Black-And-White-Club/golf-tournament/app/modules/round/domain/events"
	roundqueue "github.com/Black-And-White-Club/golf-tournament/app/modules/round/infrastructure/queue"
	rounddb "github.com/Black-And-White-Club/golf-tournament/app/modules/round/infrastructure/repositories"
	tournamentdb "github.com/Black-And-White-Club/golf-tournament/app/modules/tournament/infrastructure/repositories"
	"github.com/Black-And-White-Club/golf-tournament/app/shared/session"
	tournamenttypes "github.com/Black-And-White-Club/golf-tournament/app/shared/types/tournament"
	"github.com/Black-And-White-Club/golf-tournament/integration_tests/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type services struct {
	rounds      *roundservice.RoundService
	roundRepo   rounddb.Repository
	leaderboard *leaderboardservice.LeaderboardService
}

func newServices(poster roundservice.AchievementPoster) services {
	obs := testEnv.Obs
	tournaments := tournamentdb.NewRepository(testEnv.DB)
	roundRepo := rounddb.NewRepository(testEnv.DB)
	return services{
		rounds: roundservice.NewRoundService(roundRepo, tournaments, poster, testEnv.EventBus,
			testEnv.Logger, obs.Registry.RoundMetrics, obs.Registry.Tracer, testEnv.DB),
		roundRepo: roundRepo,
		leaderboard: leaderboardservice.NewLeaderboardService(roundRepo, tournaments, testEnv.EventBus,
			testEnv.Logger, obs.Registry.LeaderboardMetrics, obs.Registry.Tracer, testEnv.DB),
	}
}

func playerSession(f testutils.Fixture, p tournamenttypes.Player) session.Session {
	return session.Session{PlayerID: p.ID, TournamentID: f.Tournament.ID, Role: authdomain.RolePlayer}
}

func playRound(t *testing.T, ctx context.Context, svc services, f testutils.Fixture, p tournamenttypes.Player, strokes int) *rounddomain.Round {
	t.Helper()
	var last *rounddomain.Round
	for hole := 1; hole <= len(f.Course.Holes); hole++ {
		s, err := rounddomain.NewStrokes(strokes)
		require.NoError(t, err)
		res, err := svc.rounds.SaveHole(ctx, playerSession(f, p), roundservice.SaveHoleRequest{
			TournamentID: f.Tournament.ID,
			GroupID:      f.Group.ID,
			PlayerID:     p.ID,
			Hole:         hole,
			Strokes:      s,
		})
		require.NoError(t, err)
		last = res.Round
	}
	return last
}

func TestScoring_PersistsAndRanks(t *testing.T) {
	ctx := reset(t)
	svc := newServices(nil)
	f := testutils.SeedTournament(t, ctx, testEnv, tournamenttypes.ModeStrokes, 2)
	leader, trailer := f.Players[0], f.Players[1]

	r := playRound(t, ctx, svc, f, trailer, 5)
	assert.Equal(t, 90, r.TotalGross)
	assert.True(t, r.Completed)
	r = playRound(t, ctx, svc, f, leader, 4)
	assert.Equal(t, 72, r.TotalGross)

	stored, err := svc.roundRepo.GetByGroupAndPlayer(ctx, testEnv.DB, f.Group.ID, leader.ID)
	require.NoError(t, err)
	assert.Equal(t, 72, stored.TotalGross)
	assert.Len(t, stored.Holes, 18)

	admin := session.Session{TournamentID: f.Tournament.ID, Role: authdomain.RoleAdmin}
	board, err := svc.leaderboard.GetStandings(ctx, admin, f.Tournament.ID, leaderboarddomain.ScopeAll(), nil)
	require.NoError(t, err)
	require.Len(t, board.Rows, 2)
	assert.Equal(t, leader.ID, board.Rows[0].PlayerID)
	assert.Equal(t, 72, *board.Rows[0].Gross)
	assert.Equal(t, trailer.ID, board.Rows[1].PlayerID)
	assert.Equal(t, 90, *board.Rows[1].Gross)
	assert.True(t, board.Sealed)
	assert.True(t, board.ContestsFinal)
}

func TestRoundRepository_RejectsStaleVersion(t *testing.T) {
	ctx := reset(t)
	svc := newServices(nil)
	f := testutils.SeedTournament(t, ctx, testEnv, tournamenttypes.ModeHandicap, 1)
	p := f.Players[0]

	round := rounddomain.NewRound(f.Tournament.ID, f.Group.ID, p.ID, f.Group.Day, p.HandicapIndex, f.Course)
	require.NoError(t, svc.roundRepo.Create(ctx, testEnv.DB, round))

	first, err := svc.roundRepo.GetByID(ctx, testEnv.DB, round.ID)
	require.NoError(t, err)
	second, err := svc.roundRepo.GetByID(ctx, testEnv.DB, round.ID)
	require.NoError(t, err)

	require.NoError(t, svc.roundRepo.Update(ctx, testEnv.DB, first))
	assert.ErrorIs(t, svc.roundRepo.Update(ctx, testEnv.DB, second), rounddb.ErrStaleVersion)

	assert.ErrorIs(t, svc.roundRepo.Create(ctx, testEnv.DB,
		rounddomain.NewRound(f.Tournament.ID, f.Group.ID, p.ID, f.Group.Day, 0, f.Course)), rounddb.ErrDuplicate)
}

func TestSaveHole_QueuesAchievementJob(t *testing.T) {
	ctx := reset(t)
	queue, err := roundqueue.NewService(ctx, testEnv.DB, testEnv.Logger,
		roundqueue.Config{DSN: testEnv.Config.Postgres.DSN, MaxWorkers: 1}, nil, testEnv.EventBus)
	require.NoError(t, err)
	t.Cleanup(func() { _ = queue.Stop(context.Background()) })

	svc := newServices(queue)
	f := testutils.SeedTournament(t, ctx, testEnv, tournamenttypes.ModeHandicap, 1)
	p := f.Players[0]

	birdie, err := rounddomain.NewStrokes(3)
	require.NoError(t, err)
	res, err := svc.rounds.SaveHole(ctx, playerSession(f, p), roundservice.SaveHoleRequest{
		GroupID: f.Group.ID, PlayerID: p.ID, Hole: 1, Strokes: birdie,
	})
	require.NoError(t, err)
	require.NotEmpty(t, res.Achievements)

	jobs, err := queue.PendingJobs(ctx, res.Round.ID)
	require.NoError(t, err)
	require.Len(t, jobs, len(res.Achievements))
	assert.Equal(t, "available", jobs[0].State)
}

func TestSaveHole_PublishesOverNATS(t *testing.T) {
	ctx := reset(t)
	subCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	msgs, err := testEnv.EventBus.Subscribe(subCtx, roundevents.HoleSavedV1)
	require.NoError(t, err)

	svc := newServices(nil)
	f := testutils.SeedTournament(t, ctx, testEnv, tournamenttypes.ModeHandicap, 1)
	p := f.Players[0]
	par, err := rounddomain.NewStrokes(4)
	require.NoError(t, err)
	_, err = svc.rounds.SaveHole(ctx, playerSession(f, p), roundservice.SaveHoleRequest{
		GroupID: f.Group.ID, PlayerID: p.ID, Hole: 7, Strokes: par,
	})
	require.NoError(t, err)

	select {
	case msg := <-msgs:
		msg.Ack()
		payload, err := eventbus.Decode[roundevents.HoleSavedPayloadV1](msg)
		require.NoError(t, err)
		assert.Equal(t, f.Tournament.ID, payload.TournamentID)
		assert.Equal(t, p.ID, payload.PlayerID)
		assert.Equal(t, 7, payload.Hole)
		assert.Equal(t, 1, payload.HolesPlayed)
	case <-time.After(10 * time.Second):
		t.Fatal("hole saved event not delivered")
	}
}
