// Package roundevents defines the topics and payloads the round module
// publishes.
package roundevents

import (
	"time"

	rounddomain "github.com/Black-And-White-Club/golf-tournament/app/modules/round/domain"
	"github.com/google/uuid"
)

// Topics.
const (
	HoleSavedV1          = "round.hole.saved.v1"
	RoundSubmittedV1     = "round.submitted.v1"
	RoundUnlockedV1      = "round.unlocked.v1"
	DiscrepancyFlaggedV1 = "round.discrepancy.flagged.v1"
	AchievementPostedV1  = "achievement.posted.v1"
)

// RoundRef identifies the round an event concerns.
type RoundRef struct {
	RoundID      uuid.UUID `json:"round_id"`
	TournamentID uuid.UUID `json:"tournament_id"`
	GroupID      uuid.UUID `json:"group_id"`
	PlayerID     uuid.UUID `json:"player_id"`
	Day          int       `json:"day"`
}

// Ref builds a RoundRef from a round.
func Ref(r *rounddomain.Round) RoundRef {
	return RoundRef{
		RoundID:      r.ID,
		TournamentID: r.TournamentID,
		GroupID:      r.GroupID,
		PlayerID:     r.PlayerID,
		Day:          r.Day,
	}
}

// HoleSavedPayloadV1 is published after every persisted hole entry.
type HoleSavedPayloadV1 struct {
	RoundRef
	Hole        int                     `json:"hole"`
	Strokes     rounddomain.HoleStrokes `json:"strokes"`
	TotalPoints int                     `json:"total_points"`
	TotalGross  int                     `json:"total_gross"`
	HolesPlayed int                     `json:"holes_played"`
	Completed   bool                    `json:"completed"`
	Version     int64                   `json:"version"`
	SavedBy     uuid.UUID               `json:"saved_by"`
	SavedAt     time.Time               `json:"saved_at"`
}

// RoundSubmittedPayloadV1 is published when a round locks.
type RoundSubmittedPayloadV1 struct {
	RoundRef
	TotalGross         int       `json:"total_gross"`
	TotalPoints        int       `json:"total_points"`
	TotalNet           int       `json:"total_net"`
	DiscrepancyFlagged bool      `json:"discrepancy_flagged"`
	SubmittedAt        time.Time `json:"submitted_at"`
}

// RoundUnlockedPayloadV1 is published when an admin reopens a round.
type RoundUnlockedPayloadV1 struct {
	RoundRef
	UnlockedBy uuid.UUID `json:"unlocked_by"`
	UnlockedAt time.Time `json:"unlocked_at"`
}

// DiscrepancyFlaggedPayloadV1 is published for rounds submitted over a
// disagreeing reference card.
type DiscrepancyFlaggedPayloadV1 struct {
	RoundRef
	Discrepancies []rounddomain.Discrepancy `json:"discrepancies"`
}

// AchievementPostedPayloadV1 is what the social feed consumes.
type AchievementPostedPayloadV1 struct {
	RoundRef
	Kind     rounddomain.AchievementKind `json:"kind"`
	Hole     int                         `json:"hole"`
	Strokes  int                         `json:"strokes"`
	Par      int                         `json:"par"`
	Streak   int                         `json:"streak,omitempty"`
	PostedAt time.Time                   `json:"posted_at"`
}
