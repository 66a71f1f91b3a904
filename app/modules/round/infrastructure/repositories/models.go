package rounddb

import (
	"context"
	"time"

	rounddomain "github.com/Black-And-White-Club/golf-tournament/app/modules/round/domain"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Round is the persisted scorecard for one player in one group.
// HoleScores stores one entry per hole: 0 unset, -1 picked up, >0 strokes.
type Round struct {
	bun.BaseModel `bun:"table:rounds,alias:r"`

	ID                 uuid.UUID                 `bun:"id,pk,type:uuid"`
	TournamentID       uuid.UUID                 `bun:"tournament_id,type:uuid,notnull"`
	GroupID            uuid.UUID                 `bun:"group_id,type:uuid,notnull,unique:rounds_group_player"`
	PlayerID           uuid.UUID                 `bun:"player_id,type:uuid,notnull,unique:rounds_group_player"`
	Day                int                       `bun:"day,notnull"`
	HoleScores         []int                     `bun:"hole_scores,type:jsonb,notnull"`
	TotalGross         int                       `bun:"total_gross,notnull,default:0"`
	TotalPoints        int                       `bun:"total_points,notnull,default:0"`
	TotalNet           int                       `bun:"total_net,notnull,default:0"`
	HandicapUsed       int                       `bun:"handicap_used,notnull"`
	Completed          bool                      `bun:"completed,notnull,default:false"`
	Submitted          bool                      `bun:"submitted,notnull,default:false"`
	ReferenceScores    map[int]int               `bun:"reference_scores,type:jsonb,nullzero"`
	DiscrepancyFlagged bool                      `bun:"discrepancy_flagged,notnull,default:false"`
	DiscrepancyNotes   []rounddomain.Discrepancy `bun:"discrepancy_notes,type:jsonb,nullzero"`
	Version            int64                     `bun:"version,notnull,default:1"`
	CreatedAt          time.Time                 `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt          time.Time                 `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

var _ bun.BeforeAppendModelHook = (*Round)(nil)

// BeforeAppendModel stamps timestamps on insert and update.
func (r *Round) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	now := time.Now().UTC()
	switch query.(type) {
	case *bun.InsertQuery:
		if r.CreatedAt.IsZero() {
			r.CreatedAt = now
		}
		r.UpdatedAt = now
	case *bun.UpdateQuery:
		r.UpdatedAt = now
	}
	return nil
}

func toDomain(m *Round) *rounddomain.Round {
	holes := make([]rounddomain.HoleScore, len(m.HoleScores))
	for i, v := range m.HoleScores {
		holes[i] = rounddomain.HoleScore{Hole: i + 1, Strokes: rounddomain.FromStorage(v)}
	}

	var ref rounddomain.ReferenceCard
	if m.ReferenceScores != nil {
		ref = rounddomain.ReferenceCard(m.ReferenceScores)
	}

	return &rounddomain.Round{
		ID:                 m.ID,
		TournamentID:       m.TournamentID,
		GroupID:            m.GroupID,
		PlayerID:           m.PlayerID,
		Day:                m.Day,
		Holes:              holes,
		TotalGross:         m.TotalGross,
		TotalPoints:        m.TotalPoints,
		TotalNet:           m.TotalNet,
		HandicapUsed:       m.HandicapUsed,
		Completed:          m.Completed,
		Submitted:          m.Submitted,
		Reference:          ref,
		DiscrepancyFlagged: m.DiscrepancyFlagged,
		DiscrepancyNotes:   m.DiscrepancyNotes,
		Version:            m.Version,
		CreatedAt:          m.CreatedAt,
		UpdatedAt:          m.UpdatedAt,
	}
}

func fromDomain(r *rounddomain.Round) *Round {
	scores := make([]int, len(r.Holes))
	for i, h := range r.Holes {
		scores[i] = h.Strokes.ToStorage()
	}

	var ref map[int]int
	if r.Reference != nil {
		ref = map[int]int(r.Reference)
	}

	return &Round{
		ID:                 r.ID,
		TournamentID:       r.TournamentID,
		GroupID:            r.GroupID,
		PlayerID:           r.PlayerID,
		Day:                r.Day,
		HoleScores:         scores,
		TotalGross:         r.TotalGross,
		TotalPoints:        r.TotalPoints,
		TotalNet:           r.TotalNet,
		HandicapUsed:       r.HandicapUsed,
		Completed:          r.Completed,
		Submitted:          r.Submitted,
		ReferenceScores:    ref,
		DiscrepancyFlagged: r.DiscrepancyFlagged,
		DiscrepancyNotes:   r.DiscrepancyNotes,
		Version:            r.Version,
		CreatedAt:          r.CreatedAt,
		UpdatedAt:          r.UpdatedAt,
	}
}
