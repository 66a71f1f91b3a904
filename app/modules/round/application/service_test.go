package roundservice

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	authdomain "github.com/Black-And-White-Club/golf-tournament/app/modules/auth/domain"
	rounddomain "github.com/Black-And-White-Club/golf-tournament/app/modules/round/domain"
	roundevents "github.com/Black-And-White-Club/golf-tournament/app/modules/round/domain/events"
	rounddb "github.com/Black-And-White-Club/golf-tournament/app/modules/round/infrastructure/repositories"
	"github.com/Black-And-White-Club/golf-tournament/app/shared/opmetrics"
	"github.com/Black-And-White-Club/golf-tournament/app/shared/session"
	tournamenttypes "github.com/Black-And-White-Club/golf-tournament/app/shared/types/tournament"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.opentelemetry.io/otel/trace/noop"
)

type fixture struct {
	svc         *RoundService
	repo        *FakeRepo
	tournaments *FakeTournaments
	poster      *FakePoster
	publisher   *FakePublisher

	tournamentID uuid.UUID
	groupID      uuid.UUID
	playerID     uuid.UUID
	partnerID    uuid.UUID
	course       tournamenttypes.Course
}

// newFixture builds a four-hole course and a two-player group. The player
// carries handicap 4, so every hole gets one stroke.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		repo:         NewFakeRepo(),
		poster:       &FakePoster{},
		publisher:    &FakePublisher{},
		tournamentID: uuid.New(),
		groupID:      uuid.New(),
		playerID:     uuid.New(),
		partnerID:    uuid.New(),
	}
	f.course = tournamenttypes.Course{
		ID:   uuid.New(),
		Name: "Links",
		Holes: []tournamenttypes.Hole{
			{Number: 1, Par: 4, StrokeIndex: 1},
			{Number: 2, Par: 3, StrokeIndex: 3},
			{Number: 3, Par: 5, StrokeIndex: 2},
			{Number: 4, Par: 4, StrokeIndex: 4},
		},
	}
	f.tournaments = &FakeTournaments{
		Groups: map[uuid.UUID]tournamenttypes.Group{
			f.groupID: {
				ID:           f.groupID,
				TournamentID: f.tournamentID,
				CourseID:     f.course.ID,
				Day:          1,
				PlayerIDs:    []uuid.UUID{f.playerID, f.partnerID},
			},
		},
		Courses: map[uuid.UUID]tournamenttypes.Course{f.course.ID: f.course},
		Players: map[uuid.UUID]tournamenttypes.Player{
			f.playerID:  {ID: f.playerID, TournamentID: f.tournamentID, Name: "Ann", HandicapIndex: 4},
			f.partnerID: {ID: f.partnerID, TournamentID: f.tournamentID, Name: "Ben", HandicapIndex: 0},
		},
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	f.svc = NewRoundService(f.repo, f.tournaments, f.poster, f.publisher, logger,
		opmetrics.NewNoop(), noop.NewTracerProvider().Tracer("test"), nil)
	return f
}

func (f *fixture) player() session.Session {
	return session.Session{PlayerID: f.playerID, TournamentID: f.tournamentID, Role: authdomain.RolePlayer}
}

func (f *fixture) partner() session.Session {
	return session.Session{PlayerID: f.partnerID, TournamentID: f.tournamentID, Role: authdomain.RolePlayer}
}

func (f *fixture) admin() session.Session {
	return session.Session{PlayerID: uuid.New(), TournamentID: f.tournamentID, Role: authdomain.RoleAdmin}
}

func (f *fixture) save(t *testing.T, sess session.Session, hole int, s rounddomain.HoleStrokes) (*SaveHoleResult, error) {
	t.Helper()
	return f.svc.SaveHole(context.Background(), sess, SaveHoleRequest{
		TournamentID: f.tournamentID,
		GroupID:      f.groupID,
		PlayerID:     f.playerID,
		Hole:         hole,
		Strokes:      s,
	})
}

// seedRound stores a round for the player with the given strokes per hole.
func (f *fixture) seedRound(t *testing.T, strokes ...int) *rounddomain.Round {
	t.Helper()
	r := rounddomain.NewRound(f.tournamentID, f.groupID, f.playerID, 1, 4, f.course)
	for i, n := range strokes {
		_, err := r.SetHole(i+1, rounddomain.MustStrokes(n))
		require.NoError(t, err)
	}
	r.Recalculate(f.course)
	r.Version = 1
	f.repo.Seed(r)
	return r
}

func TestNewRoundService(t *testing.T) {
	svc := NewRoundService(NewFakeRepo(), &FakeTournaments{}, nil, nil, nil, nil, nil, nil)
	require.NotNil(t, svc)
	assert.NotNil(t, svc.logger)
	var _ Service = svc
}

func TestSaveHole_CreatesRoundOnFirstEntry(t *testing.T) {
	f := newFixture(t)

	out, err := f.save(t, f.player(), 1, rounddomain.MustStrokes(3))
	require.NoError(t, err)

	assert.True(t, out.Created)
	assert.True(t, out.Changed)
	assert.Equal(t, 4, out.Round.HandicapUsed)
	assert.Len(t, out.Round.Holes, 4)
	assert.Equal(t, rounddomain.StateDraft, out.Round.State())
	// gross 3, one stroke received, par 4: net eagle.
	assert.Equal(t, 4, out.Round.TotalPoints)
	assert.Equal(t, []string{"GetByGroupAndPlayer", "Create"}, f.repo.Trace())

	require.Len(t, out.Achievements, 1)
	assert.Equal(t, rounddomain.AchievementBirdie, out.Achievements[0].Kind)
	assert.Equal(t, out.Achievements, f.poster.Posted)
	assert.Equal(t, []string{roundevents.HoleSavedV1}, f.publisher.Topics)
}

func TestSaveHole_Authorization(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name    string
		sess    session.Session
		wantErr error
	}{
		{name: "partner cannot edit", sess: f.partner(), wantErr: rounddomain.ErrForbidden},
		{name: "viewer cannot edit", sess: session.Session{Role: authdomain.RoleViewer}, wantErr: rounddomain.ErrForbidden},
		{
			name:    "other tournament",
			sess:    session.Session{PlayerID: f.playerID, TournamentID: uuid.New(), Role: authdomain.RolePlayer},
			wantErr: rounddomain.ErrForbidden,
		},
		{name: "owner", sess: f.player()},
		{name: "admin", sess: f.admin()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.save(t, tt.sess, 2, rounddomain.MustStrokes(3))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestSaveHole_RejectsUnknownHoleAndPlayer(t *testing.T) {
	f := newFixture(t)

	_, err := f.save(t, f.player(), 5, rounddomain.MustStrokes(4))
	assert.ErrorIs(t, err, rounddomain.ErrInvalidHole)

	_, err = f.svc.SaveHole(context.Background(), f.admin(), SaveHoleRequest{
		GroupID:  f.groupID,
		PlayerID: uuid.New(),
		Hole:     1,
		Strokes:  rounddomain.MustStrokes(4),
	})
	assert.ErrorIs(t, err, tournamenttypes.ErrNotFound)

	_, err = f.svc.SaveHole(context.Background(), f.player(), SaveHoleRequest{
		GroupID:  uuid.New(),
		PlayerID: f.playerID,
		Hole:     1,
		Strokes:  rounddomain.MustStrokes(4),
	})
	assert.ErrorIs(t, err, tournamenttypes.ErrNotFound)
}

func TestSaveHole_LockedRound(t *testing.T) {
	f := newFixture(t)
	r := f.seedRound(t, 4, 3, 5, 4)
	stored := f.repo.Stored(r.ID)
	stored.Submitted = true
	f.repo.Seed(stored)

	_, err := f.save(t, f.player(), 2, rounddomain.MustStrokes(2))
	require.Error(t, err)
	assert.ErrorIs(t, err, rounddomain.ErrRoundLocked)
	var stateErr *rounddomain.StateError
	require.ErrorAs(t, err, &stateErr)
	assert.Equal(t, rounddomain.StateSubmitted, stateErr.State)

	out, err := f.save(t, f.admin(), 2, rounddomain.MustStrokes(2))
	require.NoError(t, err)
	assert.True(t, out.Round.Submitted)
	assert.Equal(t, int64(2), f.repo.Stored(r.ID).Version)
}

func TestSaveHole_VersionConflicts(t *testing.T) {
	t.Run("stale expected version", func(t *testing.T) {
		f := newFixture(t)
		f.seedRound(t, 4)
		stale := int64(0)

		_, err := f.svc.SaveHole(context.Background(), f.player(), SaveHoleRequest{
			GroupID: f.groupID, PlayerID: f.playerID, Hole: 2,
			Strokes: rounddomain.MustStrokes(3), ExpectedVersion: &stale,
		})
		assert.ErrorIs(t, err, rounddomain.ErrVersionConflict)
		assert.NotContains(t, f.repo.Trace(), "Update")
	})

	t.Run("concurrent writer wins", func(t *testing.T) {
		f := newFixture(t)
		f.seedRound(t, 4)
		f.repo.UpdateFunc = func(context.Context, *rounddomain.Round) error {
			return rounddb.ErrStaleVersion
		}

		_, err := f.save(t, f.player(), 2, rounddomain.MustStrokes(3))
		assert.ErrorIs(t, err, rounddomain.ErrVersionConflict)
		assert.Empty(t, f.publisher.Topics)
	})

	t.Run("concurrent create retries as update", func(t *testing.T) {
		f := newFixture(t)
		f.repo.CreateFunc = func(_ context.Context, r *rounddomain.Round) error {
			f.repo.CreateFunc = nil
			f.seedRound(t, 5)
			return rounddb.ErrDuplicate
		}

		out, err := f.save(t, f.player(), 2, rounddomain.MustStrokes(3))
		require.NoError(t, err)
		assert.False(t, out.Created)
		assert.Equal(t, 2, out.Round.HolesPlayed())
		assert.Equal(t, []string{"GetByGroupAndPlayer", "Create", "GetByGroupAndPlayer", "Update"}, f.repo.Trace())
	})
}

func TestSaveHole_StoreFailureIsPersistenceError(t *testing.T) {
	f := newFixture(t)
	f.seedRound(t, 4)
	f.repo.UpdateFunc = func(context.Context, *rounddomain.Round) error {
		return errors.New("connection reset")
	}

	_, err := f.save(t, f.player(), 2, rounddomain.MustStrokes(3))
	var pe *rounddomain.PersistenceError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "save hole", pe.Op)
}

func TestSaveHole_PosterFailureDoesNotFailSave(t *testing.T) {
	f := newFixture(t)
	f.poster.PostAchievementFunc = func(context.Context, roundevents.RoundRef, rounddomain.Achievement) error {
		return errors.New("queue down")
	}
	f.publisher.PublishFunc = func(string, ...*message.Message) error {
		return errors.New("bus down")
	}

	out, err := f.save(t, f.player(), 1, rounddomain.MustStrokes(1))
	require.NoError(t, err)
	require.Len(t, f.poster.Posted, 1)
	assert.Equal(t, rounddomain.AchievementHoleInOne, f.poster.Posted[0].Kind)
	assert.Equal(t, 1, out.Round.HolesPlayed())
}

func TestSaveHole_UnchangedValueIsQuiet(t *testing.T) {
	f := newFixture(t)
	r := f.seedRound(t, 3)

	out, err := f.save(t, f.player(), 1, rounddomain.MustStrokes(3))
	require.NoError(t, err)

	assert.False(t, out.Changed)
	assert.Empty(t, out.Achievements)
	assert.Empty(t, f.poster.Posted)
	assert.Empty(t, f.publisher.Topics)
	assert.NotContains(t, f.repo.Trace(), "Update")
	assert.Equal(t, r.Version, f.repo.Stored(r.ID).Version)
}

func TestSaveHole_PickUp(t *testing.T) {
	f := newFixture(t)
	f.seedRound(t, 4, 3, 5)

	out, err := f.save(t, f.player(), 4, rounddomain.PickedUp())
	require.NoError(t, err)

	assert.Empty(t, out.Achievements)
	assert.True(t, out.Round.Completed)
	assert.Equal(t, 4, out.Round.HolesPlayed())
	assert.Equal(t, rounddomain.PointsNone, out.Round.Holes[3].Points)
	// The pick-up counts as par 4 + 2 + one handicap stroke.
	assert.Equal(t, 4+3+5+7, out.Round.TotalGross)
}

func TestSubmitRound(t *testing.T) {
	t.Run("missing holes", func(t *testing.T) {
		f := newFixture(t)
		r := f.seedRound(t, 4, 3)

		_, err := f.svc.SubmitRound(context.Background(), f.player(), SubmitRequest{RoundID: r.ID})
		var ve *rounddomain.ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, []int{3, 4}, ve.MissingHoles)
	})

	t.Run("discrepancy needs confirmation", func(t *testing.T) {
		f := newFixture(t)
		r := f.seedRound(t, 4, 3, 5, 4)
		stored := f.repo.Stored(r.ID)
		stored.Reference = rounddomain.ReferenceCard{2: 4}
		f.repo.Seed(stored)

		_, err := f.svc.SubmitRound(context.Background(), f.player(), SubmitRequest{RoundID: r.ID})
		var warn *rounddomain.DiscrepancyWarning
		require.ErrorAs(t, err, &warn)
		assert.Equal(t, []rounddomain.Discrepancy{{Hole: 2, Official: 3, Reference: 4}}, warn.Discrepancies)
		assert.NotContains(t, f.repo.Trace(), "Update")
		assert.False(t, f.repo.Stored(r.ID).Submitted)

		out, err := f.svc.SubmitRound(context.Background(), f.player(), SubmitRequest{RoundID: r.ID, Confirm: true})
		require.NoError(t, err)
		assert.True(t, out.Round.Submitted)
		assert.True(t, out.Round.DiscrepancyFlagged)
		official, _ := out.Round.Holes[1].Strokes.Count()
		assert.Equal(t, 3, official)
		assert.Equal(t, []string{roundevents.RoundSubmittedV1, roundevents.DiscrepancyFlaggedV1}, f.publisher.Topics)
	})

	t.Run("clean submission then locked", func(t *testing.T) {
		f := newFixture(t)
		r := f.seedRound(t, 4, 3, 5, 4)

		out, err := f.svc.SubmitRound(context.Background(), f.player(), SubmitRequest{RoundID: r.ID})
		require.NoError(t, err)
		assert.Empty(t, out.Discrepancies)
		assert.Equal(t, rounddomain.StateSubmitted, f.repo.Stored(r.ID).State())
		assert.Equal(t, []string{roundevents.RoundSubmittedV1}, f.publisher.Topics)

		_, err = f.svc.SubmitRound(context.Background(), f.player(), SubmitRequest{RoundID: r.ID})
		assert.ErrorIs(t, err, rounddomain.ErrRoundLocked)
	})

	t.Run("not found and forbidden", func(t *testing.T) {
		f := newFixture(t)
		r := f.seedRound(t, 4, 3, 5, 4)

		_, err := f.svc.SubmitRound(context.Background(), f.player(), SubmitRequest{RoundID: uuid.New()})
		assert.ErrorIs(t, err, rounddomain.ErrRoundNotFound)

		_, err = f.svc.SubmitRound(context.Background(), f.partner(), SubmitRequest{RoundID: r.ID})
		assert.ErrorIs(t, err, rounddomain.ErrForbidden)
	})
}

func TestUnlockRound(t *testing.T) {
	f := newFixture(t)
	r := f.seedRound(t, 4, 3, 5, 4)

	_, err := f.svc.UnlockRound(context.Background(), f.admin(), r.ID)
	assert.ErrorIs(t, err, rounddomain.ErrNotLocked)

	_, err = f.svc.SubmitRound(context.Background(), f.player(), SubmitRequest{RoundID: r.ID})
	require.NoError(t, err)

	_, err = f.svc.UnlockRound(context.Background(), f.player(), r.ID)
	assert.ErrorIs(t, err, rounddomain.ErrForbidden)

	unlocked, err := f.svc.UnlockRound(context.Background(), f.admin(), r.ID)
	require.NoError(t, err)
	assert.False(t, unlocked.Submitted)
	assert.False(t, unlocked.Completed)
	assert.Contains(t, f.publisher.Topics, roundevents.RoundUnlockedV1)

	// The next player save sees a complete, editable card again.
	out, err := f.save(t, f.player(), 2, rounddomain.MustStrokes(4))
	require.NoError(t, err)
	assert.Equal(t, rounddomain.StateComplete, out.Round.State())
}

func TestOverrideHandicap(t *testing.T) {
	f := newFixture(t)
	r := f.seedRound(t, 4, 3, 5, 4)
	before := f.repo.Stored(r.ID).TotalPoints

	_, err := f.svc.OverrideHandicap(context.Background(), f.player(), r.ID, 0)
	assert.ErrorIs(t, err, rounddomain.ErrForbidden)

	_, err = f.svc.OverrideHandicap(context.Background(), f.admin(), r.ID, -1)
	assert.ErrorIs(t, err, rounddomain.ErrInvalidHandicap)

	out, err := f.svc.OverrideHandicap(context.Background(), f.admin(), r.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, out.HandicapUsed)
	// Four par holes lose one stroke each: 3 points down to 2 per hole.
	assert.Equal(t, before-4, out.TotalPoints)
}

func TestSetReferenceCard(t *testing.T) {
	f := newFixture(t)
	r := f.seedRound(t, 4, 3)

	tests := []struct {
		name    string
		sess    session.Session
		ref     rounddomain.ReferenceCard
		wantErr error
	}{
		{name: "hole outside course", sess: f.partner(), ref: rounddomain.ReferenceCard{9: 4}, wantErr: rounddomain.ErrInvalidReference},
		{name: "zero strokes", sess: f.partner(), ref: rounddomain.ReferenceCard{1: 0}, wantErr: rounddomain.ErrInvalidReference},
		{name: "outsider", sess: session.Session{PlayerID: uuid.New(), Role: authdomain.RolePlayer}, ref: rounddomain.ReferenceCard{1: 4}, wantErr: rounddomain.ErrForbidden},
		{name: "owner replaces own check", sess: f.player(), ref: rounddomain.ReferenceCard{1: 4}, wantErr: rounddomain.ErrForbidden},
		{name: "owner clears own check", sess: f.player(), ref: rounddomain.ReferenceCard{}, wantErr: rounddomain.ErrForbidden},
		{name: "partner attaches", sess: f.partner(), ref: rounddomain.ReferenceCard{1: 4, 2: 4}},
		{name: "admin corrects", sess: f.admin(), ref: rounddomain.ReferenceCard{1: 4, 2: 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := f.svc.SetReferenceCard(context.Background(), tt.sess, r.ID, tt.ref)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			if diff := cmp.Diff(tt.ref, out.Reference); diff != "" {
				t.Errorf("reference mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSubmitRound_OwnerCannotClearReference(t *testing.T) {
	f := newFixture(t)
	r := f.seedRound(t, 4, 3, 5, 4)

	_, err := f.svc.SetReferenceCard(context.Background(), f.partner(), r.ID, rounddomain.ReferenceCard{2: 4})
	require.NoError(t, err)

	_, err = f.svc.SubmitRound(context.Background(), f.player(), SubmitRequest{RoundID: r.ID})
	var warn *rounddomain.DiscrepancyWarning
	require.ErrorAs(t, err, &warn)

	_, err = f.svc.SetReferenceCard(context.Background(), f.player(), r.ID, rounddomain.ReferenceCard{})
	require.ErrorIs(t, err, rounddomain.ErrForbidden)
	assert.Equal(t, rounddomain.ReferenceCard{2: 4}, f.repo.Stored(r.ID).Reference)

	_, err = f.svc.SubmitRound(context.Background(), f.player(), SubmitRequest{RoundID: r.ID})
	require.ErrorAs(t, err, &warn)

	out, err := f.svc.SubmitRound(context.Background(), f.player(), SubmitRequest{RoundID: r.ID, Confirm: true})
	require.NoError(t, err)
	assert.True(t, out.Round.DiscrepancyFlagged)
}

func TestImportReferenceCard(t *testing.T) {
	f := newFixture(t)
	r := f.seedRound(t, 4, 3, 5, 4)

	book := excelize.NewFile()
	sheet := book.GetSheetName(0)
	require.NoError(t, book.SetSheetRow(sheet, "A1", &[]any{"Hole", 1, 2, 3, 4}))
	require.NoError(t, book.SetSheetRow(sheet, "A2", &[]any{"Par", 4, 3, 5, 4}))
	require.NoError(t, book.SetSheetRow(sheet, "A3", &[]any{"Ann", 4, 4, "PU", 4}))
	buf, err := book.WriteToBuffer()
	require.NoError(t, err)

	out, err := f.svc.ImportReferenceCard(context.Background(), f.partner(), r.ID, buf.Bytes(), "ann")
	require.NoError(t, err)
	assert.Equal(t, rounddomain.ReferenceCard{1: 4, 2: 4, 4: 4}, out.Reference)

	_, err = f.svc.ImportReferenceCard(context.Background(), f.partner(), r.ID, buf.Bytes(), "Zed")
	assert.ErrorIs(t, err, rounddomain.ErrInvalidReference)

	_, err = f.svc.ImportReferenceCard(context.Background(), f.partner(), r.ID, []byte("not a workbook"), "Ann")
	assert.ErrorIs(t, err, rounddomain.ErrInvalidReference)
}

func TestGetRound(t *testing.T) {
	f := newFixture(t)

	empty, err := f.svc.GetRound(context.Background(), f.partner(), f.groupID, f.playerID)
	require.NoError(t, err)
	assert.Equal(t, uuid.Nil, empty.ID)
	assert.Equal(t, rounddomain.StateNotStarted, empty.State())
	assert.Len(t, empty.Holes, 4)

	f.seedRound(t, 4, 3)
	got, err := f.svc.GetRound(context.Background(), f.partner(), f.groupID, f.playerID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.HolesPlayed())
	assert.Equal(t, rounddomain.PointsBirdie, got.Holes[0].Points)

	_, err = f.svc.GetRound(context.Background(), f.partner(), f.groupID, uuid.New())
	assert.ErrorIs(t, err, rounddomain.ErrRoundNotFound)
}
