package tournamentservice

import (
	"context"

	"github.com/Black-And-White-Club/golf-tournament/app/shared/session"
	tournamenttypes "github.com/Black-And-White-Club/golf-tournament/app/shared/types/tournament"
	"github.com/google/uuid"
)

// Service manages the setup data rounds are scored against.
type Service interface {
	// CreateTournament registers a tournament. It is an operator action and
	// takes no session.
	CreateTournament(ctx context.Context, req CreateTournamentRequest) (tournamenttypes.Tournament, error)
	GetTournament(ctx context.Context, id uuid.UUID) (tournamenttypes.Tournament, error)

	// RegisterPlayer adds an entrant. Admin only.
	RegisterPlayer(ctx context.Context, sess session.Session, req RegisterPlayerRequest) (tournamenttypes.Player, error)

	// ImportCourse reads pars and stroke indexes from an XLSX scorecard. Admin only.
	ImportCourse(ctx context.Context, sess session.Session, req ImportCourseRequest) (tournamenttypes.Course, error)

	// ScheduleGroup creates a group with a natural-language tee time. Admin only.
	ScheduleGroup(ctx context.Context, sess session.Session, req ScheduleGroupRequest) (tournamenttypes.Group, error)
}

type CreateTournamentRequest struct {
	Name        string
	ScoringMode tournamenttypes.ScoringMode
	Days        int
	HasDayZero  bool
}

type RegisterPlayerRequest struct {
	TournamentID  uuid.UUID
	Name          string
	HandicapIndex int
}

type ImportCourseRequest struct {
	TournamentID uuid.UUID
	// CourseID replaces an existing course when set.
	CourseID uuid.UUID
	Name     string
	XLSX     []byte
}

type ScheduleGroupRequest struct {
	TournamentID uuid.UUID
	CourseID     uuid.UUID
	Name         string
	Day          int
	// TeeTime accepts RFC 3339 or phrases like "saturday 8:30am".
	TeeTime string
	// Timezone is an IANA name or a US abbreviation; empty means UTC.
	Timezone  string
	PlayerIDs []uuid.UUID
}
