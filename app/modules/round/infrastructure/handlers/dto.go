package roundhandlers

import (
	"time"

	rounddomain "github.com/Black-And-White-Club/golf-tournament/app/modules/round/domain"
	"github.com/google/uuid"
)

type roundResponse struct {
	ID                 *uuid.UUID                `json:"id,omitempty"`
	TournamentID       uuid.UUID                 `json:"tournament_id"`
	GroupID            uuid.UUID                 `json:"group_id"`
	PlayerID           uuid.UUID                 `json:"player_id"`
	Day                int                       `json:"day"`
	State              rounddomain.State         `json:"state"`
	Holes              []rounddomain.HoleScore   `json:"holes"`
	TotalGross         int                       `json:"total_gross"`
	TotalPoints        int                       `json:"total_points"`
	TotalNet           int                       `json:"total_net"`
	HandicapUsed       int                       `json:"handicap_used"`
	Completed          bool                      `json:"completed"`
	Submitted          bool                      `json:"submitted"`
	Reference          rounddomain.ReferenceCard `json:"reference,omitempty"`
	DiscrepancyFlagged bool                      `json:"discrepancy_flagged"`
	DiscrepancyNotes   []rounddomain.Discrepancy `json:"discrepancy_notes,omitempty"`
	Version            int64                     `json:"version"`
	UpdatedAt          *time.Time                `json:"updated_at,omitempty"`
	Achievements       []rounddomain.Achievement `json:"achievements,omitempty"`
	Changed            *bool                     `json:"changed,omitempty"`
}

// toResponse maps a round. An unsaved round has no ID or timestamp.
func toResponse(r *rounddomain.Round) roundResponse {
	resp := roundResponse{
		TournamentID:       r.TournamentID,
		GroupID:            r.GroupID,
		PlayerID:           r.PlayerID,
		Day:                r.Day,
		State:              r.State(),
		Holes:              r.Holes,
		TotalGross:         r.TotalGross,
		TotalPoints:        r.TotalPoints,
		TotalNet:           r.TotalNet,
		HandicapUsed:       r.HandicapUsed,
		Completed:          r.Completed,
		Submitted:          r.Submitted,
		Reference:          r.Reference,
		DiscrepancyFlagged: r.DiscrepancyFlagged,
		DiscrepancyNotes:   r.DiscrepancyNotes,
		Version:            r.Version,
	}
	if r.ID != uuid.Nil {
		id := r.ID
		resp.ID = &id
	}
	if !r.UpdatedAt.IsZero() {
		ts := r.UpdatedAt
		resp.UpdatedAt = &ts
	}
	return resp
}

type saveHoleBody struct {
	Strokes         rounddomain.HoleStrokes `json:"strokes"`
	ExpectedVersion *int64                  `json:"expected_version"`
	TournamentID    uuid.UUID               `json:"tournament_id"`
}

type submitBody struct {
	Confirm         bool   `json:"confirm"`
	ExpectedVersion *int64 `json:"expected_version"`
}

type handicapBody struct {
	Handicap *int `json:"handicap"`
}

type referenceBody struct {
	Holes rounddomain.ReferenceCard `json:"holes"`
}
