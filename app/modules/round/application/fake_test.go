package roundservice

import (
	"context"
	"errors"
	"sync"

	rounddomain "github.com/Black-And-White-Club/golf-tournament/app/modules/round/domain"
	roundevents "github.com/Black-And-White-Club/golf-tournament/app/modules/round/domain/events"
	rounddb "github.com/Black-And-White-Club/golf-tournament/app/modules/round/infrastructure/repositories"
	tournamenttypes "github.com/Black-And-White-Club/golf-tournament/app/shared/types/tournament"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// ------------------------
// Fake Repo
// ------------------------

// FakeRepo is an in-memory round store. Func fields override the default
// behaviour per method.
type FakeRepo struct {
	mu     sync.Mutex
	trace  []string
	rounds map[uuid.UUID]*rounddomain.Round

	GetByIDFunc             func(ctx context.Context, roundID uuid.UUID) (*rounddomain.Round, error)
	GetByGroupAndPlayerFunc func(ctx context.Context, groupID, playerID uuid.UUID) (*rounddomain.Round, error)
	CreateFunc              func(ctx context.Context, round *rounddomain.Round) error
	UpdateFunc              func(ctx context.Context, round *rounddomain.Round) error
}

func NewFakeRepo() *FakeRepo {
	return &FakeRepo{rounds: map[uuid.UUID]*rounddomain.Round{}}
}

func (f *FakeRepo) record(step string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.trace = append(f.trace, step)
}

func (f *FakeRepo) Trace() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.trace...)
}

// Seed stores a copy of round.
func (f *FakeRepo) Seed(round *rounddomain.Round) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rounds[round.ID] = cloneRound(round)
}

// Stored returns a copy of the stored round.
func (f *FakeRepo) Stored(id uuid.UUID) *rounddomain.Round {
	f.mu.Lock()
	defer f.mu.Unlock()
	if r, ok := f.rounds[id]; ok {
		return cloneRound(r)
	}
	return nil
}

func (f *FakeRepo) GetByID(ctx context.Context, _ bun.IDB, roundID uuid.UUID) (*rounddomain.Round, error) {
	f.record("GetByID")
	if f.GetByIDFunc != nil {
		return f.GetByIDFunc(ctx, roundID)
	}
	if r := f.Stored(roundID); r != nil {
		return r, nil
	}
	return nil, rounddb.ErrNotFound
}

func (f *FakeRepo) GetByGroupAndPlayer(ctx context.Context, _ bun.IDB, groupID, playerID uuid.UUID) (*rounddomain.Round, error) {
	f.record("GetByGroupAndPlayer")
	if f.GetByGroupAndPlayerFunc != nil {
		return f.GetByGroupAndPlayerFunc(ctx, groupID, playerID)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.rounds {
		if r.GroupID == groupID && r.PlayerID == playerID {
			return cloneRound(r), nil
		}
	}
	return nil, rounddb.ErrNotFound
}

func (f *FakeRepo) Create(ctx context.Context, _ bun.IDB, round *rounddomain.Round) error {
	f.record("Create")
	if f.CreateFunc != nil {
		return f.CreateFunc(ctx, round)
	}
	if round.Version == 0 {
		round.Version = 1
	}
	f.Seed(round)
	return nil
}

func (f *FakeRepo) Update(ctx context.Context, _ bun.IDB, round *rounddomain.Round) error {
	f.record("Update")
	if f.UpdateFunc != nil {
		return f.UpdateFunc(ctx, round)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.rounds[round.ID]
	if !ok || stored.Version != round.Version {
		return rounddb.ErrStaleVersion
	}
	round.Version++
	f.rounds[round.ID] = cloneRound(round)
	return nil
}

func (f *FakeRepo) ListByTournament(context.Context, bun.IDB, uuid.UUID) ([]*rounddomain.Round, error) {
	return nil, errors.New("not implemented")
}

func (f *FakeRepo) ListByGroup(context.Context, bun.IDB, uuid.UUID) ([]*rounddomain.Round, error) {
	return nil, errors.New("not implemented")
}

func cloneRound(r *rounddomain.Round) *rounddomain.Round {
	c := *r
	c.Holes = append([]rounddomain.HoleScore(nil), r.Holes...)
	if r.Reference != nil {
		c.Reference = make(rounddomain.ReferenceCard, len(r.Reference))
		for k, v := range r.Reference {
			c.Reference[k] = v
		}
	}
	c.DiscrepancyNotes = append([]rounddomain.Discrepancy(nil), r.DiscrepancyNotes...)
	return &c
}

// ------------------------
// Fake Tournament Reader
// ------------------------

type FakeTournaments struct {
	Groups  map[uuid.UUID]tournamenttypes.Group
	Courses map[uuid.UUID]tournamenttypes.Course
	Players map[uuid.UUID]tournamenttypes.Player

	GetGroupFunc func(ctx context.Context, id uuid.UUID) (tournamenttypes.Group, error)
}

func (f *FakeTournaments) GetGroup(ctx context.Context, _ bun.IDB, id uuid.UUID) (tournamenttypes.Group, error) {
	if f.GetGroupFunc != nil {
		return f.GetGroupFunc(ctx, id)
	}
	if g, ok := f.Groups[id]; ok {
		return g, nil
	}
	return tournamenttypes.Group{}, tournamenttypes.ErrNotFound
}

func (f *FakeTournaments) GetCourse(_ context.Context, _ bun.IDB, id uuid.UUID) (tournamenttypes.Course, error) {
	if c, ok := f.Courses[id]; ok {
		return c, nil
	}
	return tournamenttypes.Course{}, tournamenttypes.ErrNotFound
}

func (f *FakeTournaments) GetPlayer(_ context.Context, _ bun.IDB, id uuid.UUID) (tournamenttypes.Player, error) {
	if p, ok := f.Players[id]; ok {
		return p, nil
	}
	return tournamenttypes.Player{}, tournamenttypes.ErrNotFound
}

// ------------------------
// Fake Poster & Publisher
// ------------------------

type FakePoster struct {
	mu     sync.Mutex
	Posted []rounddomain.Achievement

	PostAchievementFunc func(ctx context.Context, round roundevents.RoundRef, a rounddomain.Achievement) error
}

func (f *FakePoster) PostAchievement(ctx context.Context, round roundevents.RoundRef, a rounddomain.Achievement) error {
	f.mu.Lock()
	f.Posted = append(f.Posted, a)
	f.mu.Unlock()
	if f.PostAchievementFunc != nil {
		return f.PostAchievementFunc(ctx, round, a)
	}
	return nil
}

type FakePublisher struct {
	mu     sync.Mutex
	Topics []string

	PublishFunc func(topic string, msgs ...*message.Message) error
}

func (f *FakePublisher) Publish(topic string, msgs ...*message.Message) error {
	f.mu.Lock()
	f.Topics = append(f.Topics, topic)
	f.mu.Unlock()
	if f.PublishFunc != nil {
		return f.PublishFunc(topic, msgs...)
	}
	return nil
}
