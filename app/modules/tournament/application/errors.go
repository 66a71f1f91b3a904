package tournamentservice

import "errors"

var (
	ErrForbidden       = errors.New("admin capability required")
	ErrWrongTournament = errors.New("record belongs to another tournament")
	ErrInvalidDay      = errors.New("day is not on the tournament schedule")
	ErrInvalidTeeTime  = errors.New("could not parse tee time")
	ErrInvalidTimezone = errors.New("unknown timezone")
	ErrInvalidRequest  = errors.New("invalid request")
)
