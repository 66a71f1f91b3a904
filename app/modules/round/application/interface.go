package roundservice

import (
	"context"

	rounddomain "github.com/Black-And-White-Club/golf-tournament/app/modules/round/domain"
	"github.com/Black-And-White-Club/golf-tournament/app/shared/session"
	"github.com/google/uuid"
)

// Service is the round lifecycle: entry, submission, unlock and the admin
// corrections. Every call carries the caller's session explicitly.
type Service interface {
	GetRound(ctx context.Context, sess session.Session, groupID, playerID uuid.UUID) (*rounddomain.Round, error)
	SaveHole(ctx context.Context, sess session.Session, req SaveHoleRequest) (*SaveHoleResult, error)
	SubmitRound(ctx context.Context, sess session.Session, req SubmitRequest) (*SubmitResult, error)
	UnlockRound(ctx context.Context, sess session.Session, roundID uuid.UUID) (*rounddomain.Round, error)
	OverrideHandicap(ctx context.Context, sess session.Session, roundID uuid.UUID, handicap int) (*rounddomain.Round, error)
	SetReferenceCard(ctx context.Context, sess session.Session, roundID uuid.UUID, ref rounddomain.ReferenceCard) (*rounddomain.Round, error)
	ImportReferenceCard(ctx context.Context, sess session.Session, roundID uuid.UUID, data []byte, playerName string) (*rounddomain.Round, error)
}

// SaveHoleRequest records one hole for one player.
type SaveHoleRequest struct {
	TournamentID uuid.UUID
	GroupID      uuid.UUID
	PlayerID     uuid.UUID
	Hole         int
	Strokes      rounddomain.HoleStrokes
	// ExpectedVersion, when set, must equal the stored round version.
	ExpectedVersion *int64
}

// SaveHoleResult is the round after the save.
type SaveHoleResult struct {
	Round        *rounddomain.Round
	Changed      bool
	Created      bool
	Achievements []rounddomain.Achievement
}

// SubmitRequest locks a round.
type SubmitRequest struct {
	RoundID         uuid.UUID
	Confirm         bool
	ExpectedVersion *int64
}

// SubmitResult is the locked round and any discrepancies recorded on it.
type SubmitResult struct {
	Round         *rounddomain.Round
	Discrepancies []rounddomain.Discrepancy
}
