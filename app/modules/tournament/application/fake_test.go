package tournamentservice

import (
	"context"
	"sync"

	tournamenttypes "github.com/Black-And-White-Club/golf-tournament/app/shared/types/tournament"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// FakeRepo is an in-memory tournamentdb.Repository.
type FakeRepo struct {
	mu    sync.Mutex
	trace []string

	Tournaments map[uuid.UUID]tournamenttypes.Tournament
	Courses     map[uuid.UUID]tournamenttypes.Course
	Groups      map[uuid.UUID]tournamenttypes.Group
	Players     map[uuid.UUID]tournamenttypes.Player

	CreateGroupFunc func(ctx context.Context, g tournamenttypes.Group) error
}

func NewFakeRepo() *FakeRepo {
	return &FakeRepo{
		Tournaments: map[uuid.UUID]tournamenttypes.Tournament{},
		Courses:     map[uuid.UUID]tournamenttypes.Course{},
		Groups:      map[uuid.UUID]tournamenttypes.Group{},
		Players:     map[uuid.UUID]tournamenttypes.Player{},
	}
}

func (f *FakeRepo) record(step string) {
	f.trace = append(f.trace, step)
}

func (f *FakeRepo) Trace() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.trace...)
}

func (f *FakeRepo) GetTournament(_ context.Context, _ bun.IDB, id uuid.UUID) (tournamenttypes.Tournament, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("GetTournament")
	t, ok := f.Tournaments[id]
	if !ok {
		return tournamenttypes.Tournament{}, tournamenttypes.ErrNotFound
	}
	return t, nil
}

func (f *FakeRepo) CreateTournament(_ context.Context, _ bun.IDB, t tournamenttypes.Tournament) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("CreateTournament")
	f.Tournaments[t.ID] = t
	return nil
}

func (f *FakeRepo) SetRevealed(_ context.Context, _ bun.IDB, id uuid.UUID, revealed bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("SetRevealed")
	t, ok := f.Tournaments[id]
	if !ok {
		return tournamenttypes.ErrNotFound
	}
	t.Revealed = revealed
	f.Tournaments[id] = t
	return nil
}

func (f *FakeRepo) GetCourse(_ context.Context, _ bun.IDB, id uuid.UUID) (tournamenttypes.Course, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("GetCourse")
	c, ok := f.Courses[id]
	if !ok {
		return tournamenttypes.Course{}, tournamenttypes.ErrNotFound
	}
	return c, nil
}

func (f *FakeRepo) ListCourses(_ context.Context, _ bun.IDB, tournamentID uuid.UUID) ([]tournamenttypes.Course, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []tournamenttypes.Course
	for _, c := range f.Courses {
		if c.TournamentID == tournamentID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *FakeRepo) UpsertCourse(_ context.Context, _ bun.IDB, tournamentID uuid.UUID, c tournamenttypes.Course) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("UpsertCourse")
	c.TournamentID = tournamentID
	f.Courses[c.ID] = c
	return nil
}

func (f *FakeRepo) GetGroup(_ context.Context, _ bun.IDB, id uuid.UUID) (tournamenttypes.Group, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	g, ok := f.Groups[id]
	if !ok {
		return tournamenttypes.Group{}, tournamenttypes.ErrNotFound
	}
	return g, nil
}

func (f *FakeRepo) ListGroups(_ context.Context, _ bun.IDB, tournamentID uuid.UUID) ([]tournamenttypes.Group, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []tournamenttypes.Group
	for _, g := range f.Groups {
		if g.TournamentID == tournamentID {
			out = append(out, g)
		}
	}
	return out, nil
}

func (f *FakeRepo) CreateGroup(ctx context.Context, _ bun.IDB, g tournamenttypes.Group) error {
	if f.CreateGroupFunc != nil {
		return f.CreateGroupFunc(ctx, g)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("CreateGroup")
	f.Groups[g.ID] = g
	return nil
}

func (f *FakeRepo) GetPlayer(_ context.Context, _ bun.IDB, id uuid.UUID) (tournamenttypes.Player, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.Players[id]
	if !ok {
		return tournamenttypes.Player{}, tournamenttypes.ErrNotFound
	}
	return p, nil
}

func (f *FakeRepo) ListPlayers(_ context.Context, _ bun.IDB, tournamentID uuid.UUID) ([]tournamenttypes.Player, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []tournamenttypes.Player
	for _, p := range f.Players {
		if p.TournamentID == tournamentID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *FakeRepo) CreatePlayer(_ context.Context, _ bun.IDB, p tournamenttypes.Player) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("CreatePlayer")
	f.Players[p.ID] = p
	return nil
}
