package leaderboardhandlers

import (
	"context"
	"net/http"

	leaderboardservice "github.com/Black-And-White-Club/golf-tournament/app/modules/leaderboard/application"
	leaderboarddomain "github.com/Black-And-White-Club/golf-tournament/app/modules/leaderboard/domain"
	"github.com/Black-And-White-Club/golf-tournament/app/shared/session"
	tournamenttypes "github.com/Black-And-White-Club/golf-tournament/app/shared/types/tournament"
	"github.com/google/uuid"
)

// FakeService is a programmable leaderboardservice.Service.
type FakeService struct {
	trace []string

	GetStandingsFunc    func(ctx context.Context, sess session.Session, tournamentID uuid.UUID, scope leaderboarddomain.Scope, mode *tournamenttypes.ScoringMode) (*leaderboardservice.Standings, error)
	RevealStandingsFunc func(ctx context.Context, sess session.Session, tournamentID uuid.UUID) error
	PlayerProgressFunc  func(ctx context.Context, sess session.Session, tournamentID, playerID uuid.UUID) (*leaderboardservice.Progress, error)
	ProgressChartFunc   func(ctx context.Context, sess session.Session, tournamentID, playerID uuid.UUID) ([]byte, error)
	ExportStandingsFunc func(ctx context.Context, sess session.Session, tournamentID uuid.UUID, mode *tournamenttypes.ScoringMode) ([]byte, error)
}

func (f *FakeService) Trace() []string { return f.trace }

func (f *FakeService) GetStandings(ctx context.Context, sess session.Session, tournamentID uuid.UUID, scope leaderboarddomain.Scope, mode *tournamenttypes.ScoringMode) (*leaderboardservice.Standings, error) {
	f.trace = append(f.trace, "GetStandings")
	if f.GetStandingsFunc != nil {
		return f.GetStandingsFunc(ctx, sess, tournamentID, scope, mode)
	}
	return &leaderboardservice.Standings{TournamentID: tournamentID, Scope: scope.String()}, nil
}

func (f *FakeService) RevealStandings(ctx context.Context, sess session.Session, tournamentID uuid.UUID) error {
	f.trace = append(f.trace, "RevealStandings")
	if f.RevealStandingsFunc != nil {
		return f.RevealStandingsFunc(ctx, sess, tournamentID)
	}
	return nil
}

func (f *FakeService) PlayerProgress(ctx context.Context, sess session.Session, tournamentID, playerID uuid.UUID) (*leaderboardservice.Progress, error) {
	f.trace = append(f.trace, "PlayerProgress")
	if f.PlayerProgressFunc != nil {
		return f.PlayerProgressFunc(ctx, sess, tournamentID, playerID)
	}
	return &leaderboardservice.Progress{PlayerID: playerID}, nil
}

func (f *FakeService) ProgressChart(ctx context.Context, sess session.Session, tournamentID, playerID uuid.UUID) ([]byte, error) {
	f.trace = append(f.trace, "ProgressChart")
	if f.ProgressChartFunc != nil {
		return f.ProgressChartFunc(ctx, sess, tournamentID, playerID)
	}
	return []byte("\x89PNG"), nil
}

func (f *FakeService) ExportStandings(ctx context.Context, sess session.Session, tournamentID uuid.UUID, mode *tournamenttypes.ScoringMode) ([]byte, error) {
	f.trace = append(f.trace, "ExportStandings")
	if f.ExportStandingsFunc != nil {
		return f.ExportStandingsFunc(ctx, sess, tournamentID, mode)
	}
	return []byte("PK"), nil
}

// FakeLive records Serve calls instead of upgrading.
type FakeLive struct {
	Calls []uuid.UUID
}

func (f *FakeLive) Serve(w http.ResponseWriter, _ *http.Request, tournamentID uuid.UUID, _ session.Session, _ leaderboarddomain.Scope, _ *tournamenttypes.ScoringMode) {
	f.Calls = append(f.Calls, tournamentID)
	w.WriteHeader(http.StatusSwitchingProtocols)
}
