package tournamentservice

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	authdomain "github.com/Black-And-White-Club/golf-tournament/app/modules/auth/domain"
	"github.com/Black-And-White-Club/golf-tournament/app/shared/session"
	tournamenttypes "github.com/Black-And-White-Club/golf-tournament/app/shared/types/tournament"
	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.opentelemetry.io/otel/trace/noop"
)

func newTestService(repo *FakeRepo) *TournamentService {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := NewTournamentService(repo, logger, nil, noop.NewTracerProvider().Tracer("test"), nil)
	svc.now = func() time.Time { return time.Date(2026, 5, 1, 7, 0, 0, 0, time.UTC) }
	return svc
}

func seedTournament(repo *FakeRepo) tournamenttypes.Tournament {
	t := tournamenttypes.Tournament{
		ID:          uuid.New(),
		Name:        gofakeit.Company() + " Open",
		ScoringMode: tournamenttypes.ModeHandicap,
		Days:        2,
	}
	repo.Tournaments[t.ID] = t
	return t
}

func adminOf(id uuid.UUID) session.Session {
	return session.Session{PlayerID: uuid.New(), TournamentID: id, Role: authdomain.RoleAdmin}
}

func scorecardXLSX(t *testing.T, rows ...[]any) []byte {
	t.Helper()
	book := excelize.NewFile()
	sheet := book.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, book.SetSheetRow(sheet, cell, &row))
	}
	buf, err := book.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func TestCreateTournament(t *testing.T) {
	tests := []struct {
		name    string
		req     CreateTournamentRequest
		wantErr error
	}{
		{name: "defaults to handicap", req: CreateTournamentRequest{Name: "Club Champs", Days: 2}},
		{name: "net with day zero", req: CreateTournamentRequest{Name: "Away Trip", Days: 3, HasDayZero: true, ScoringMode: tournamenttypes.ModeNet}},
		{name: "no name", req: CreateTournamentRequest{Days: 1}, wantErr: ErrInvalidRequest},
		{name: "no days", req: CreateTournamentRequest{Name: "X"}, wantErr: ErrInvalidRequest},
		{name: "bad mode", req: CreateTournamentRequest{Name: "X", Days: 1, ScoringMode: "matchplay"}, wantErr: ErrInvalidRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := NewFakeRepo()
			got, err := newTestService(repo).CreateTournament(context.Background(), tt.req)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, repo.Tournaments)
				return
			}
			require.NoError(t, err)
			assert.True(t, got.ScoringMode.IsValid())
			assert.Equal(t, got, repo.Tournaments[got.ID])
		})
	}
}

func TestRegisterPlayer(t *testing.T) {
	repo := NewFakeRepo()
	tour := seedTournament(repo)
	svc := newTestService(repo)

	p, err := svc.RegisterPlayer(context.Background(), adminOf(tour.ID), RegisterPlayerRequest{
		TournamentID: tour.ID, Name: " " + gofakeit.FirstName() + " ", HandicapIndex: 18,
	})
	require.NoError(t, err)
	assert.Equal(t, p, repo.Players[p.ID])
	assert.NotContains(t, p.Name, " ")

	_, err = svc.RegisterPlayer(context.Background(), session.Session{Role: authdomain.RolePlayer}, RegisterPlayerRequest{TournamentID: tour.ID, Name: "A"})
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.RegisterPlayer(context.Background(), adminOf(uuid.New()), RegisterPlayerRequest{TournamentID: tour.ID, Name: "A"})
	assert.ErrorIs(t, err, ErrForbidden, "admin of another tournament")

	_, err = svc.RegisterPlayer(context.Background(), adminOf(tour.ID), RegisterPlayerRequest{TournamentID: tour.ID, Name: "A", HandicapIndex: -1})
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestImportCourse(t *testing.T) {
	repo := NewFakeRepo()
	tour := seedTournament(repo)
	svc := newTestService(repo)
	admin := adminOf(tour.ID)

	t.Run("valid card", func(t *testing.T) {
		data := scorecardXLSX(t,
			[]any{"Hole", 1, 2, 3},
			[]any{"Par", 4, 3, 5},
			[]any{"SI", 2, 3, 1},
		)
		course, err := svc.ImportCourse(context.Background(), admin, ImportCourseRequest{TournamentID: tour.ID, Name: "Old Course", XLSX: data})
		require.NoError(t, err)
		assert.Equal(t, []tournamenttypes.Hole{
			{Number: 1, Par: 4, StrokeIndex: 2},
			{Number: 2, Par: 3, StrokeIndex: 3},
			{Number: 3, Par: 5, StrokeIndex: 1},
		}, course.Holes)
		assert.Equal(t, tour.ID, repo.Courses[course.ID].TournamentID)
	})

	t.Run("replaces by id", func(t *testing.T) {
		id := uuid.New()
		data := scorecardXLSX(t, []any{"Par", 3}, []any{"Index", 1})
		_, err := svc.ImportCourse(context.Background(), admin, ImportCourseRequest{TournamentID: tour.ID, CourseID: id, XLSX: data})
		require.NoError(t, err)
		assert.Equal(t, "Course", repo.Courses[id].Name)
	})

	tests := []struct {
		name string
		rows [][]any
	}{
		{name: "missing index row", rows: [][]any{{"Par", 4, 3}}},
		{name: "duplicate index", rows: [][]any{{"Par", 4, 3}, {"SI", 1, 1}}},
		{name: "par out of range", rows: [][]any{{"Par", 2, 3}, {"SI", 1, 2}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.ImportCourse(context.Background(), admin, ImportCourseRequest{TournamentID: tour.ID, XLSX: scorecardXLSX(t, tt.rows...)})
			assert.ErrorIs(t, err, tournamenttypes.ErrInvalidCourse)
		})
	}

	t.Run("not a workbook", func(t *testing.T) {
		_, err := svc.ImportCourse(context.Background(), admin, ImportCourseRequest{TournamentID: tour.ID, XLSX: []byte("nope")})
		assert.ErrorIs(t, err, tournamenttypes.ErrInvalidCourse)
	})
}

func TestScheduleGroup(t *testing.T) {
	repo := NewFakeRepo()
	tour := seedTournament(repo)
	course := tournamenttypes.Course{ID: uuid.New(), TournamentID: tour.ID, Name: "Links", Holes: []tournamenttypes.Hole{{Number: 1, Par: 4, StrokeIndex: 1}}}
	repo.Courses[course.ID] = course
	p1 := tournamenttypes.Player{ID: uuid.New(), TournamentID: tour.ID, Name: gofakeit.Name()}
	p2 := tournamenttypes.Player{ID: uuid.New(), TournamentID: tour.ID, Name: gofakeit.Name()}
	stranger := tournamenttypes.Player{ID: uuid.New(), TournamentID: uuid.New(), Name: gofakeit.Name()}
	for _, p := range []tournamenttypes.Player{p1, p2, stranger} {
		repo.Players[p.ID] = p
	}
	svc := newTestService(repo)
	admin := adminOf(tour.ID)

	base := ScheduleGroupRequest{
		TournamentID: tour.ID,
		CourseID:     course.ID,
		Day:          1,
		TeeTime:      "2026-05-02T08:30:00Z",
		PlayerIDs:    []uuid.UUID{p1.ID, p2.ID, p1.ID},
	}

	g, err := svc.ScheduleGroup(context.Background(), admin, base)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{p1.ID, p2.ID}, g.PlayerIDs, "duplicates dropped")
	assert.Equal(t, "Day 1 group", g.Name)
	assert.Equal(t, time.Date(2026, 5, 2, 8, 30, 0, 0, time.UTC), g.TeeTime)
	assert.Contains(t, repo.Groups, g.ID)

	tests := []struct {
		name    string
		mutate  func(r *ScheduleGroupRequest)
		wantErr error
	}{
		{name: "day zero not scheduled", mutate: func(r *ScheduleGroupRequest) { r.Day = 0 }, wantErr: ErrInvalidDay},
		{name: "day past the end", mutate: func(r *ScheduleGroupRequest) { r.Day = 3 }, wantErr: ErrInvalidDay},
		{name: "unknown course", mutate: func(r *ScheduleGroupRequest) { r.CourseID = uuid.New() }, wantErr: tournamenttypes.ErrNotFound},
		{name: "unknown player", mutate: func(r *ScheduleGroupRequest) { r.PlayerIDs = []uuid.UUID{uuid.New()} }, wantErr: tournamenttypes.ErrNotFound},
		{name: "foreign player", mutate: func(r *ScheduleGroupRequest) { r.PlayerIDs = []uuid.UUID{stranger.ID} }, wantErr: ErrWrongTournament},
		{name: "bad zone", mutate: func(r *ScheduleGroupRequest) { r.Timezone = "Nowhere/Special" }, wantErr: ErrInvalidTimezone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := base
			tt.mutate(&req)
			_, err := svc.ScheduleGroup(context.Background(), admin, req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	t.Run("store failure surfaces", func(t *testing.T) {
		boom := errors.New("connection reset")
		repo.CreateGroupFunc = func(context.Context, tournamenttypes.Group) error { return boom }
		defer func() { repo.CreateGroupFunc = nil }()
		_, err := svc.ScheduleGroup(context.Background(), admin, base)
		assert.ErrorIs(t, err, boom)
	})

	t.Run("viewer rejected", func(t *testing.T) {
		_, err := svc.ScheduleGroup(context.Background(), session.Session{Role: authdomain.RoleViewer}, base)
		assert.ErrorIs(t, err, ErrForbidden)
	})
}
