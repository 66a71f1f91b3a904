package tournamentdb

import (
	"time"

	tournamenttypes "github.com/Black-And-White-Club/golf-tournament/app/shared/types/tournament"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Tournament holds the configuration the leaderboard reads.
type Tournament struct {
	bun.BaseModel `bun:"table:tournaments,alias:t"`

	ID          uuid.UUID                   `bun:"id,pk,type:uuid"`
	Name        string                      `bun:"name,notnull"`
	ScoringMode tournamenttypes.ScoringMode `bun:"scoring_mode,notnull,default:'handicap'"`
	Days        int                         `bun:"days,notnull,default:1"`
	HasDayZero  bool                        `bun:"has_day_zero,notnull,default:false"`
	Revealed    bool                        `bun:"revealed,notnull,default:false"`
	CreatedAt   time.Time                   `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt   time.Time                   `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

// Course stores its holes inline; a course is always read whole.
type Course struct {
	bun.BaseModel `bun:"table:courses,alias:c"`

	ID           uuid.UUID              `bun:"id,pk,type:uuid"`
	TournamentID uuid.UUID              `bun:"tournament_id,type:uuid,notnull"`
	Name         string                 `bun:"name,notnull"`
	Holes        []tournamenttypes.Hole `bun:"holes,type:jsonb,notnull"`
	CreatedAt    time.Time              `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}

// Group is a day's pairing on one course.
type Group struct {
	bun.BaseModel `bun:"table:tee_groups,alias:g"`

	ID           uuid.UUID   `bun:"id,pk,type:uuid"`
	TournamentID uuid.UUID   `bun:"tournament_id,type:uuid,notnull"`
	CourseID     uuid.UUID   `bun:"course_id,type:uuid,notnull"`
	Name         string      `bun:"name,notnull"`
	Day          int         `bun:"day,notnull"`
	TeeTime      time.Time   `bun:"tee_time,nullzero"`
	PlayerIDs    []uuid.UUID `bun:"player_ids,type:jsonb,notnull"`
	CreatedAt    time.Time   `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}

// Player is a tournament entrant.
type Player struct {
	bun.BaseModel `bun:"table:players,alias:p"`

	ID            uuid.UUID `bun:"id,pk,type:uuid"`
	TournamentID  uuid.UUID `bun:"tournament_id,type:uuid,notnull"`
	Name          string    `bun:"name,notnull"`
	HandicapIndex int       `bun:"handicap_index,notnull,default:0"`
	CreatedAt     time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}

func (t *Tournament) toTypes() tournamenttypes.Tournament {
	return tournamenttypes.Tournament{
		ID:          t.ID,
		Name:        t.Name,
		ScoringMode: t.ScoringMode,
		Days:        t.Days,
		HasDayZero:  t.HasDayZero,
		Revealed:    t.Revealed,
	}
}

func (c *Course) toTypes() tournamenttypes.Course {
	return tournamenttypes.Course{ID: c.ID, TournamentID: c.TournamentID, Name: c.Name, Holes: c.Holes}
}

func (g *Group) toTypes() tournamenttypes.Group {
	return tournamenttypes.Group{
		ID:           g.ID,
		TournamentID: g.TournamentID,
		CourseID:     g.CourseID,
		Name:         g.Name,
		Day:          g.Day,
		TeeTime:      g.TeeTime,
		PlayerIDs:    g.PlayerIDs,
	}
}

func (p *Player) toTypes() tournamenttypes.Player {
	return tournamenttypes.Player{
		ID:            p.ID,
		TournamentID:  p.TournamentID,
		Name:          p.Name,
		HandicapIndex: p.HandicapIndex,
	}
}
