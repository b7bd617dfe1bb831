package task

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dshills/oradew/internal/integration/process"
	"github.com/dshills/oradew/internal/logging"
)

// Manager spawns the tool for one workspace.
//
// Spawns are fire and forget: Dispatch and Execute return once the child
// is running, never inspect its exit code and never capture its output.
// The returned handle lets callers opt into waiting.
type Manager struct {
	inv        *Invocation
	supervisor *process.Supervisor
	logger     logging.Logger

	// environ supplies the base environment the bag is overlaid on.
	environ func() []string

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithSupervisor tracks spawned processes in s.
func WithSupervisor(s *process.Supervisor) ManagerOption {
	return func(m *Manager) {
		m.supervisor = s
	}
}

// WithManagerLogger sets the manager logger.
func WithManagerLogger(l logging.Logger) ManagerOption {
	return func(m *Manager) {
		m.logger = l
	}
}

// WithBaseEnviron replaces os.Environ as the base environment.
func WithBaseEnviron(fn func() []string) ManagerOption {
	return func(m *Manager) {
		m.environ = fn
	}
}

// WithStdio replaces the inherited standard streams. Nil keeps the caller's stream.
func WithStdio(stdin io.Reader, stdout, stderr io.Writer) ManagerOption {
	return func(m *Manager) {
		m.stdin, m.stdout, m.stderr = stdin, stdout, stderr
	}
}

// NewManager creates a manager over a resolved invocation.
func NewManager(inv *Invocation, opts ...ManagerOption) *Manager {
	m := &Manager{
		inv:     inv,
		logger:  logging.Nop(),
		environ: os.Environ,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.supervisor == nil {
		m.supervisor = process.NewSupervisor()
	}
	return m
}

// Supervisor returns the supervisor tracking spawned processes.
func (m *Manager) Supervisor() *process.Supervisor {
	return m.supervisor
}

// Dispatch spawns the tool with the base arguments followed by raw.
func (m *Manager) Dispatch(ctx context.Context, raw []string) (*process.Process, error) {
	name := "oradew"
	if len(raw) > 0 {
		name = raw[0]
	}
	return m.spawn(ctx, name, m.inv.Command(), m.inv.Argv(raw), m.inv.Environment())
}

// Execute substitutes the task's placeholders from bindings and spawns it.
func (m *Manager) Execute(ctx context.Context, t *Task, bindings Bindings) (*process.Process, error) {
	args, err := ResolveTokens(t.Execution.Args, bindings)
	if err != nil {
		return nil, fmt.Errorf("resolve task %s: %w", t.Name, err)
	}
	return m.spawn(ctx, t.Name, t.Execution.Command, args, t.Execution.Env)
}

func (m *Manager) spawn(ctx context.Context, name, command string, args []string, env Environment) (*process.Process, error) {
	m.logger.Info("Executing oradew task: " + strings.Join(args, " "))

	proc, err := m.supervisor.Spawn(ctx, process.Spec{
		Name:    name,
		Command: command,
		Args:    args,
		Env:     env.Environ(m.environ()),
		Stdin:   m.stdin,
		Stdout:  m.stdout,
		Stderr:  m.stderr,
	})
	if err != nil {
		m.logger.Error("spawn failed", "task", name, "command", command, "error", err)
		return nil, err
	}

	m.logger.Debug("spawned", "task", name, "pid", proc.PID(), "id", proc.ID)
	return proc, nil
}
