package leaderboardservice

import "errors"

var (
	// ErrForbidden is returned when the caller may not act on the tournament.
	ErrForbidden = errors.New("forbidden")
	// ErrInvalidMode is returned for an unknown scoring mode override.
	ErrInvalidMode = errors.New("invalid scoring mode")
	// ErrWithheld is returned for details of a player whose standing is
	// currently blurred.
	ErrWithheld = errors.New("standing withheld until results are revealed")
)
