package rounddomain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

var (
	// ErrRoundLocked is matched by every StateError raised for a submitted round.
	ErrRoundLocked = errors.New("round is submitted and locked")

	// ErrForbidden is returned when the session lacks the capability for an operation.
	ErrForbidden = errors.New("operation not permitted for this session")

	// ErrVersionConflict is returned when a round changed between load and save.
	ErrVersionConflict = errors.New("round was modified concurrently")

	// ErrRoundNotFound is returned when no round matches the lookup.
	ErrRoundNotFound = errors.New("round not found")

	// ErrInvalidHole is returned for a hole number outside the course.
	ErrInvalidHole = errors.New("hole number outside course")

	// ErrNotLocked is returned when unlocking a round that is not submitted.
	ErrNotLocked = errors.New("round is not submitted")

	// ErrInvalidHandicap is returned for a negative handicap override.
	ErrInvalidHandicap = errors.New("handicap must not be negative")

	// ErrInvalidReference is wrapped by reference card input that cannot be used.
	ErrInvalidReference = errors.New("invalid reference card")
)

// ValidationError lists the holes still missing a score at submission.
type ValidationError struct {
	MissingHoles []int
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.MissingHoles))
	for i, h := range e.MissingHoles {
		parts[i] = strconv.Itoa(h)
	}
	return "missing scores for holes: " + strings.Join(parts, ", ")
}

// DiscrepancyWarning interrupts a submission whose card disagrees with the
// reference card. The caller resubmits with confirmation to proceed.
type DiscrepancyWarning struct {
	Discrepancies []Discrepancy
}

func (e *DiscrepancyWarning) Error() string {
	return fmt.Sprintf("scorecard differs from reference on %d hole(s)", len(e.Discrepancies))
}

// StateError is an attempted transition the round's state does not allow.
type StateError struct {
	RoundID uuid.UUID
	State   State
	Op      string
	cause   error
}

// NewStateError builds a StateError that matches cause with errors.Is.
func NewStateError(roundID uuid.UUID, state State, op string, cause error) *StateError {
	return &StateError{RoundID: roundID, State: state, Op: op, cause: cause}
}

func (e *StateError) Error() string {
	return fmt.Sprintf("%s not allowed on round %s in state %s: %v", e.Op, e.RoundID, e.State, e.cause)
}

func (e *StateError) Unwrap() error { return e.cause }

// PersistenceError wraps a store failure. Callers surface it as retryable.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence failure during %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
