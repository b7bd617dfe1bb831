package task

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for the task package.
var (
	// ErrUnknownTask is returned when a task name is not in the catalog.
	ErrUnknownTask = errors.New("unknown task")

	// ErrDuplicateTask is returned when two catalog entries share a name.
	ErrDuplicateTask = errors.New("duplicate task name")
)

// UnboundPlaceholderError lists placeholders that had no binding.
type UnboundPlaceholderError struct {
	Placeholders []Placeholder
}

func (e *UnboundPlaceholderError) Error() string {
	names := make([]string, len(e.Placeholders))
	for i, p := range e.Placeholders {
		names[i] = p.Token()
	}
	return "unbound placeholders: " + strings.Join(names, ", ")
}

// CommandError is a failure of an external command that captured its output.
// Enumeration errors of this type have their output copied to the
// diagnostics channel.
type CommandError struct {
	Command string
	Stdout  string
	Stderr  string
	Err     error
}

func (e *CommandError) Error() string {
	err := e.Err
	if err == nil {
		err = errors.New("command failed")
	}
	if e.Command == "" {
		return err.Error()
	}
	return fmt.Sprintf("%s: %v", e.Command, err)
}

// Unwrap returns the underlying error.
func (e *CommandError) Unwrap() error {
	return e.Err
}
