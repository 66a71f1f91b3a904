package authservice

import (
	"errors"

	authdomain "github.com/Black-And-White-Club/golf-tournament/app/modules/auth/domain"
)

var (
	// ErrInvalidToken wraps every reason a bearer token is refused.
	ErrInvalidToken = errors.New("invalid authentication token")

	ErrInvalidRole    = authdomain.ErrInvalidRole
	ErrPlayerRequired = authdomain.ErrPlayerRequired
)
