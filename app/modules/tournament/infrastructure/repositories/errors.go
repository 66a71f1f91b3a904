package tournamentdb

import (
	"errors"

	tournamenttypes "github.com/Black-And-White-Club/golf-tournament/app/shared/types/tournament"
)

var (
	// ErrNotFound indicates the requested tournament, course, group or player does not exist.
	ErrNotFound = tournamenttypes.ErrNotFound

	// ErrNoRowsAffected indicates an UPDATE matched no rows.
	ErrNoRowsAffected = errors.New("no rows affected")
)
