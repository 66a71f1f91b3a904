// Package leaderboardevents defines the topics the leaderboard module
// publishes.
package leaderboardevents

import (
	"time"

	"github.com/google/uuid"
)

const (
	RevealedV1 = "leaderboard.revealed.v1"
)

// RevealedPayloadV1 is published when an admin lifts the top-of-board blur.
type RevealedPayloadV1 struct {
	TournamentID uuid.UUID `json:"tournament_id"`
	RevealedBy   uuid.UUID `json:"revealed_by"`
	RevealedAt   time.Time `json:"revealed_at"`
}
