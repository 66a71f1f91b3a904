package leaderboardservice

import (
	"context"
	"sync"

	rounddomain "github.com/Black-And-White-Club/golf-tournament/app/modules/round/domain"
	tournamenttypes "github.com/Black-And-White-Club/golf-tournament/app/shared/types/tournament"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// ------------------------
// Fake Store
// ------------------------

// FakeStore serves one tournament's setup data and rounds from memory. It
// satisfies both RoundReader and TournamentStore.
type FakeStore struct {
	mu    sync.Mutex
	trace []string

	Tournament tournamenttypes.Tournament
	Rounds     []*rounddomain.Round
	Players    []tournamenttypes.Player
	Groups     []tournamenttypes.Group
	Courses    []tournamenttypes.Course

	ListByTournamentFunc func(ctx context.Context, tournamentID uuid.UUID) ([]*rounddomain.Round, error)
	SetRevealedFunc      func(ctx context.Context, id uuid.UUID, revealed bool) error
}

func (f *FakeStore) record(step string) {
	f.trace = append(f.trace, step)
}

func (f *FakeStore) Trace() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.trace...)
}

func (f *FakeStore) GetTournament(_ context.Context, _ bun.IDB, id uuid.UUID) (tournamenttypes.Tournament, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("GetTournament")
	if id != f.Tournament.ID {
		return tournamenttypes.Tournament{}, tournamenttypes.ErrNotFound
	}
	return f.Tournament, nil
}

func (f *FakeStore) SetRevealed(ctx context.Context, _ bun.IDB, id uuid.UUID, revealed bool) error {
	f.mu.Lock()
	f.record("SetRevealed")
	fn := f.SetRevealedFunc
	f.mu.Unlock()
	if fn != nil {
		return fn(ctx, id, revealed)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Tournament.Revealed = revealed
	return nil
}

func (f *FakeStore) ListByTournament(ctx context.Context, _ bun.IDB, tournamentID uuid.UUID) ([]*rounddomain.Round, error) {
	f.mu.Lock()
	f.record("ListByTournament")
	fn := f.ListByTournamentFunc
	f.mu.Unlock()
	if fn != nil {
		return fn(ctx, tournamentID)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*rounddomain.Round(nil), f.Rounds...), nil
}

func (f *FakeStore) ListCourses(_ context.Context, _ bun.IDB, _ uuid.UUID) ([]tournamenttypes.Course, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("ListCourses")
	return append([]tournamenttypes.Course(nil), f.Courses...), nil
}

func (f *FakeStore) ListGroups(_ context.Context, _ bun.IDB, _ uuid.UUID) ([]tournamenttypes.Group, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("ListGroups")
	return append([]tournamenttypes.Group(nil), f.Groups...), nil
}

func (f *FakeStore) ListPlayers(_ context.Context, _ bun.IDB, _ uuid.UUID) ([]tournamenttypes.Player, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("ListPlayers")
	return append([]tournamenttypes.Player(nil), f.Players...), nil
}

// ------------------------
// Fake Publisher
// ------------------------

type FakePublisher struct {
	mu       sync.Mutex
	Topics   []string
	Messages []*message.Message

	PublishFunc func(topic string, msgs ...*message.Message) error
}

func (f *FakePublisher) Publish(topic string, msgs ...*message.Message) error {
	f.mu.Lock()
	f.Topics = append(f.Topics, topic)
	f.Messages = append(f.Messages, msgs...)
	f.mu.Unlock()
	if f.PublishFunc != nil {
		return f.PublishFunc(topic, msgs...)
	}
	return nil
}
