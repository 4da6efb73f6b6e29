package job

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a job is missing or belongs to another tenant.
// The two cases are deliberately indistinguishable to the caller.
var ErrNotFound = errors.New("job not found")

// ErrVersionConflict is returned when a save observes a stale version token.
// Callers should re-read the job and retry.
var ErrVersionConflict = errors.New("job was modified concurrently")

// ValidationError wraps a user-facing message about a malformed request field.
type ValidationError struct{ Msg string }

func (e *ValidationError) Error() string { return e.Msg }

// InvalidStateError reports an operation disallowed in the job's current
// status.
type InvalidStateError struct {
	Op     string
	Status Status
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("job cannot be %s in current status: %s", e.Op, e.Status)
}
