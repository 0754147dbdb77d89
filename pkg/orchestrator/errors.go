package orchestrator

import (
	"fmt"
	"strings"
)

// ValidationError reports inputs that stayed missing or unreadable after
// the bounded retry. It carries every attempted path so the failure is
// actionable without rerunning.
type ValidationError struct {
	Paths    []string
	Attempts int
	Err      error
}

func (e *ValidationError) Error() string {
	if len(e.Paths) == 0 {
		return fmt.Sprintf("orchestrator: validation failed: %v", e.Err)
	}
	return fmt.Sprintf("orchestrator: validation failed after %d attempts for %s: %v",
		e.Attempts, strings.Join(e.Paths, ", "), e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// ProcessingError wraps a renderer-internal or output-generation failure
// with the stage it occurred in. It is fatal to the pass.
type ProcessingError struct {
	Stage State
	Err   error
}

func (e *ProcessingError) Error() string {
	return fmt.Sprintf("orchestrator: %s failed: %v", e.Stage, e.Err)
}

func (e *ProcessingError) Unwrap() error {
	return e.Err
}
