package app

import (
	"errors"
	"fmt"
)

// Sentinel errors for application lifecycle states.
var (
	// ErrAlreadyRunning is returned when Run is called twice.
	ErrAlreadyRunning = errors.New("application already running")
	// ErrNotRunning is returned for operations that need a running
	// application.
	ErrNotRunning = errors.New("application not running")
)

// InitError wraps a component initialization failure.
type InitError struct {
	Component string
	Err       error
}

func (e *InitError) Error() string {
	return fmt.Sprintf("failed to initialize %s: %v", e.Component, e.Err)
}

func (e *InitError) Unwrap() error {
	return e.Err
}
