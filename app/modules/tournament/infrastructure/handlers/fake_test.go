package tournamenthandlers

import (
	"context"

	tournamentservice "github.com/Black-And-White-Club/golf-tournament/app/modules/tournament/application"
	"github.com/Black-And-White-Club/golf-tournament/app/shared/session"
	tournamenttypes "github.com/Black-And-White-Club/golf-tournament/app/shared/types/tournament"
	"github.com/google/uuid"
)

// FakeService is a programmable tournamentservice.Service.
type FakeService struct {
	trace []string

	CreateTournamentFunc func(ctx context.Context, req tournamentservice.CreateTournamentRequest) (tournamenttypes.Tournament, error)
	GetTournamentFunc    func(ctx context.Context, id uuid.UUID) (tournamenttypes.Tournament, error)
	RegisterPlayerFunc   func(ctx context.Context, sess session.Session, req tournamentservice.RegisterPlayerRequest) (tournamenttypes.Player, error)
	ImportCourseFunc     func(ctx context.Context, sess session.Session, req tournamentservice.ImportCourseRequest) (tournamenttypes.Course, error)
	ScheduleGroupFunc    func(ctx context.Context, sess session.Session, req tournamentservice.ScheduleGroupRequest) (tournamenttypes.Group, error)
}

func (f *FakeService) Trace() []string { return f.trace }

func (f *FakeService) CreateTournament(ctx context.Context, req tournamentservice.CreateTournamentRequest) (tournamenttypes.Tournament, error) {
	f.trace = append(f.trace, "CreateTournament")
	if f.CreateTournamentFunc != nil {
		return f.CreateTournamentFunc(ctx, req)
	}
	return tournamenttypes.Tournament{}, nil
}

func (f *FakeService) GetTournament(ctx context.Context, id uuid.UUID) (tournamenttypes.Tournament, error) {
	f.trace = append(f.trace, "GetTournament")
	if f.GetTournamentFunc != nil {
		return f.GetTournamentFunc(ctx, id)
	}
	return tournamenttypes.Tournament{ID: id}, nil
}

func (f *FakeService) RegisterPlayer(ctx context.Context, sess session.Session, req tournamentservice.RegisterPlayerRequest) (tournamenttypes.Player, error) {
	f.trace = append(f.trace, "RegisterPlayer")
	if f.RegisterPlayerFunc != nil {
		return f.RegisterPlayerFunc(ctx, sess, req)
	}
	return tournamenttypes.Player{ID: uuid.New(), TournamentID: req.TournamentID, Name: req.Name}, nil
}

func (f *FakeService) ImportCourse(ctx context.Context, sess session.Session, req tournamentservice.ImportCourseRequest) (tournamenttypes.Course, error) {
	f.trace = append(f.trace, "ImportCourse")
	if f.ImportCourseFunc != nil {
		return f.ImportCourseFunc(ctx, sess, req)
	}
	return tournamenttypes.Course{ID: uuid.New()}, nil
}

func (f *FakeService) ScheduleGroup(ctx context.Context, sess session.Session, req tournamentservice.ScheduleGroupRequest) (tournamenttypes.Group, error) {
	f.trace = append(f.trace, "ScheduleGroup")
	if f.ScheduleGroupFunc != nil {
		return f.ScheduleGroupFunc(ctx, sess, req)
	}
	return tournamenttypes.Group{ID: uuid.New()}, nil
}
