package runstore

import "fmt"

// RunNotFoundError reports a lookup with an unknown run ID.
type RunNotFoundError struct {
	RunID string
}

func (e *RunNotFoundError) Error() string {
	return fmt.Sprintf("run %q not found", e.RunID)
}

// AlreadySealedError reports a write to a run that has already reached a
// terminal status.
type AlreadySealedError struct {
	RunID string
}

func (e *AlreadySealedError) Error() string {
	return fmt.Sprintf("run %q is already sealed", e.RunID)
}
