package roundhandlers

import (
	"context"

	roundservice "github.com/Black-And-White-Club/golf-tournament/app/modules/round/application"
	rounddomain "github.com/Black-And-White-Club/golf-tournament/app/modules/round/domain"
	"github.com/Black-And-White-Club/golf-tournament/app/shared/session"
	"github.com/google/uuid"
)

// FakeService is a programmable roundservice.Service. Unset Func fields
// return an empty round.
type FakeService struct {
	trace []string

	GetRoundFunc            func(ctx context.Context, sess session.Session, groupID, playerID uuid.UUID) (*rounddomain.Round, error)
	SaveHoleFunc            func(ctx context.Context, sess session.Session, req roundservice.SaveHoleRequest) (*roundservice.SaveHoleResult, error)
	SubmitRoundFunc         func(ctx context.Context, sess session.Session, req roundservice.SubmitRequest) (*roundservice.SubmitResult, error)
	UnlockRoundFunc         func(ctx context.Context, sess session.Session, roundID uuid.UUID) (*rounddomain.Round, error)
	OverrideHandicapFunc    func(ctx context.Context, sess session.Session, roundID uuid.UUID, handicap int) (*rounddomain.Round, error)
	SetReferenceCardFunc    func(ctx context.Context, sess session.Session, roundID uuid.UUID, ref rounddomain.ReferenceCard) (*rounddomain.Round, error)
	ImportReferenceCardFunc func(ctx context.Context, sess session.Session, roundID uuid.UUID, data []byte, playerName string) (*rounddomain.Round, error)
}

func (f *FakeService) Trace() []string { return f.trace }

func (f *FakeService) GetRound(ctx context.Context, sess session.Session, groupID, playerID uuid.UUID) (*rounddomain.Round, error) {
	f.trace = append(f.trace, "GetRound")
	if f.GetRoundFunc != nil {
		return f.GetRoundFunc(ctx, sess, groupID, playerID)
	}
	return &rounddomain.Round{GroupID: groupID, PlayerID: playerID}, nil
}

func (f *FakeService) SaveHole(ctx context.Context, sess session.Session, req roundservice.SaveHoleRequest) (*roundservice.SaveHoleResult, error) {
	f.trace = append(f.trace, "SaveHole")
	if f.SaveHoleFunc != nil {
		return f.SaveHoleFunc(ctx, sess, req)
	}
	return &roundservice.SaveHoleResult{Round: &rounddomain.Round{ID: uuid.New()}}, nil
}

func (f *FakeService) SubmitRound(ctx context.Context, sess session.Session, req roundservice.SubmitRequest) (*roundservice.SubmitResult, error) {
	f.trace = append(f.trace, "SubmitRound")
	if f.SubmitRoundFunc != nil {
		return f.SubmitRoundFunc(ctx, sess, req)
	}
	return &roundservice.SubmitResult{Round: &rounddomain.Round{ID: req.RoundID, Submitted: true}}, nil
}

func (f *FakeService) UnlockRound(ctx context.Context, sess session.Session, roundID uuid.UUID) (*rounddomain.Round, error) {
	f.trace = append(f.trace, "UnlockRound")
	if f.UnlockRoundFunc != nil {
		return f.UnlockRoundFunc(ctx, sess, roundID)
	}
	return &rounddomain.Round{ID: roundID}, nil
}

func (f *FakeService) OverrideHandicap(ctx context.Context, sess session.Session, roundID uuid.UUID, handicap int) (*rounddomain.Round, error) {
	f.trace = append(f.trace, "OverrideHandicap")
	if f.OverrideHandicapFunc != nil {
		return f.OverrideHandicapFunc(ctx, sess, roundID, handicap)
	}
	return &rounddomain.Round{ID: roundID, HandicapUsed: handicap}, nil
}

func (f *FakeService) SetReferenceCard(ctx context.Context, sess session.Session, roundID uuid.UUID, ref rounddomain.ReferenceCard) (*rounddomain.Round, error) {
	f.trace = append(f.trace, "SetReferenceCard")
	if f.SetReferenceCardFunc != nil {
		return f.SetReferenceCardFunc(ctx, sess, roundID, ref)
	}
	return &rounddomain.Round{ID: roundID, Reference: ref}, nil
}

func (f *FakeService) ImportReferenceCard(ctx context.Context, sess session.Session, roundID uuid.UUID, data []byte, playerName string) (*rounddomain.Round, error) {
	f.trace = append(f.trace, "ImportReferenceCard")
	if f.ImportReferenceCardFunc != nil {
		return f.ImportReferenceCardFunc(ctx, sess, roundID, data, playerName)
	}
	return &rounddomain.Round{ID: roundID}, nil
}
