package authdomain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrInvalidRole is returned for a role outside viewer, player and admin.
	ErrInvalidRole = errors.New("invalid role")

	// ErrPlayerRequired is returned when a player token names no player.
	ErrPlayerRequired = errors.New("player role requires a player id")
)

// Claims is what a bearer token asserts about its holder. A zero TournamentID
// means the token is good for every tournament.
type Claims struct {
	PlayerID     uuid.UUID
	TournamentID uuid.UUID
	Role         Role
	ExpiresAt    time.Time
	IssuedAt     time.Time
}

// Validate rejects unknown roles and player tokens that name no player.
func (c *Claims) Validate() error {
	if !c.Role.IsValid() {
		return ErrInvalidRole
	}
	if c.Role == RolePlayer && c.PlayerID == uuid.Nil {
		return ErrPlayerRequired
	}
	return nil
}

// Global reports whether the claims are not pinned to one tournament.
func (c *Claims) Global() bool {
	return c.TournamentID == uuid.Nil
}

func (c *Claims) IsExpired() bool {
	return time.Now().After(c.ExpiresAt)
}
