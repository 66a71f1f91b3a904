package authservice

import (
	"context"
	"time"

	authdomain "github.com/Black-And-White-Club/golf-tournament/app/modules/auth/domain"
	"github.com/Black-And-White-Club/golf-tournament/app/shared/session"
	"github.com/google/uuid"
)

// Service turns bearer tokens into sessions and mints tokens for the CLI.
type Service interface {
	// IssueToken signs a token for a tournament participant.
	IssueToken(ctx context.Context, req IssueTokenRequest) (*TokenResponse, error)

	// Authenticate validates a bearer token and returns the caller's session.
	Authenticate(ctx context.Context, token string) (session.Session, error)
}

// IssueTokenRequest describes who the token is for.
type IssueTokenRequest struct {
	PlayerID     uuid.UUID
	TournamentID uuid.UUID
	Role         authdomain.Role
	// TTL defaults to the configured lifetime when zero.
	TTL time.Duration
}

// TokenResponse carries a signed token and its expiry.
type TokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}
