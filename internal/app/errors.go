package app

import (
	"errors"
	"fmt"
)

// Session errors.
var (
	// ErrInvalidLogLevel indicates an unknown log level name.
	ErrInvalidLogLevel = errors.New("invalid log level")

	// ErrSessionClosed indicates the session was shut down.
	ErrSessionClosed = errors.New("session closed")
)

// InitError is a failure to initialize one session component.
type InitError struct {
	Component string
	Err       error
}

func (e *InitError) Error() string {
	return fmt.Sprintf("init %s: %v", e.Component, e.Err)
}

func (e *InitError) Unwrap() error {
	return e.Err
}
