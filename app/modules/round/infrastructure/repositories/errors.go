package rounddb

import "errors"

// Sentinel errors for the repository layer.
// These report database state; the service decides what they mean for the caller.
var (
	// ErrNotFound indicates the requested round does not exist.
	ErrNotFound = errors.New("round not found")

	// ErrStaleVersion indicates an update matched no row at the expected version.
	ErrStaleVersion = errors.New("round version is stale")

	// ErrDuplicate indicates a round already exists for the (group, player) pair.
	ErrDuplicate = errors.New("round already exists for group and player")
)
