// Package session defines the explicit caller context passed into every core
// operation. Services never read caller identity from globals or storage.
package session

import (
	"context"

	authdomain "github.com/Black-And-White-Club/golf-tournament/app/modules/auth/domain"
	"github.com/google/uuid"
)

// Session identifies who is calling and in which tournament.
type Session struct {
	PlayerID     uuid.UUID
	TournamentID uuid.UUID
	Role         authdomain.Role
}

// IsAdmin reports whether the caller holds the admin capability.
func (s Session) IsAdmin() bool {
	return s.Role.CanAdminister()
}

// CanEditPlayer reports whether the caller may mutate playerID's scorecard.
func (s Session) CanEditPlayer(playerID uuid.UUID) bool {
	if s.IsAdmin() {
		return true
	}
	return s.Role == authdomain.RolePlayer && s.PlayerID != uuid.Nil && s.PlayerID == playerID
}

// FromClaims builds a session from validated token claims.
func FromClaims(c *authdomain.Claims) Session {
	return Session{
		PlayerID:     c.PlayerID,
		TournamentID: c.TournamentID,
		Role:         c.Role,
	}
}

type ctxKey struct{}

// NewContext attaches s to ctx. Only the HTTP edge uses this; handlers pull the
// session back out and pass it explicitly.
func NewContext(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// FromContext returns the session attached by NewContext.
func FromContext(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(ctxKey{}).(Session)
	return s, ok
}
