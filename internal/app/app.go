// Package app wires the oradew session: settings, logging, the resolved
// invocation and the task provider and manager built on it.
package app

import (
	"context"
	"io"
	"os"
	"sync"
	"time"

	"github.com/dshills/oradew/internal/config"
	"github.com/dshills/oradew/internal/integration/process"
	"github.com/dshills/oradew/internal/integration/task"
	"github.com/dshills/oradew/internal/logging"
)

// DefaultShutdownTimeout is how long Shutdown waits for children after SIGTERM.
const DefaultShutdownTimeout = 5 * time.Second

// Session is one workspace's integration state. It is created once and
// shared by every command.
type Session struct {
	mu sync.RWMutex

	settings *config.Settings
	logger   logging.Logger
	metrics  *Metrics

	invocation *task.Invocation
	provider   *task.Provider
	manager    *task.Manager
	supervisor *process.Supervisor

	closed   bool
	shutdown sync.Once

	opts Options
}

// Options configures a session.
type Options struct {
	// WorkspacePath is the workspace root. Empty uses the working directory.
	WorkspacePath string

	// ExtensionPath is the root the tool is installed under. Empty uses WorkspacePath.
	ExtensionPath string

	// StoragePath is the tool's private storage directory. Empty uses the
	// user cache directory.
	StoragePath string

	// ConfigPath is the settings file. Empty uses .oradew.toml in the workspace.
	ConfigPath string

	// Silent and Color override the settings file when non-nil.
	Silent *bool
	Color  *bool

	// LogLevel overrides the settings file when non-empty.
	LogLevel string

	// LogJSON forces JSON log output.
	LogJSON bool

	// Stdin, Stdout and Stderr default to the process streams. The tool
	// inherits them; logs and diagnostics go to Stderr.
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// IsTerminal decides color when neither flag nor settings set it.
	IsTerminal func() bool
}

// New creates a session with the given options.
func New(opts Options) (*Session, error) {
	s := &Session{
		opts:    opts,
		metrics: NewMetrics(),
	}

	if err := newBootstrapper(s, opts).bootstrap(); err != nil {
		return nil, err
	}
	return s, nil
}

// Settings returns the loaded settings.
func (s *Session) Settings() *config.Settings {
	return s.settings
}

// Logger returns the session logger.
func (s *Session) Logger() logging.Logger {
	return s.logger
}

// Metrics returns the session run metrics.
func (s *Session) Metrics() *Metrics {
	return s.metrics
}

// Invocation returns the resolved invocation.
func (s *Session) Invocation() *task.Invocation {
	return s.invocation
}

// Provider returns the task provider.
func (s *Session) Provider() *task.Provider {
	return s.provider
}

// Supervisor returns the supervisor tracking spawned tools.
func (s *Session) Supervisor() *process.Supervisor {
	return s.supervisor
}

// Context returns ctx carrying the session logger.
func (s *Session) Context(ctx context.Context) context.Context {
	return logging.ContextWithLogger(ctx, s.logger)
}

// Tasks returns the provided task list.
func (s *Session) Tasks(ctx context.Context) []*task.Task {
	tasks := s.provider.ProvideTasks(ctx)
	s.metrics.RecordProvide(len(tasks))
	return tasks
}

// Dispatch spawns the tool with raw arguments after the base arguments.
func (s *Session) Dispatch(ctx context.Context, raw []string) (*process.Process, error) {
	if s.isClosed() {
		return nil, ErrSessionClosed
	}
	proc, err := s.manager.Dispatch(ctx, raw)
	s.metrics.RecordSpawn(err)
	return proc, err
}

// Execute spawns t with its placeholders bound.
func (s *Session) Execute(ctx context.Context, t *task.Task, bindings task.Bindings) (*process.Process, error) {
	if s.isClosed() {
		return nil, ErrSessionClosed
	}
	proc, err := s.manager.Execute(ctx, t, bindings)
	s.metrics.RecordSpawn(err)
	return proc, err
}

// Shutdown stops every running tool, waiting up to timeout after SIGTERM
// before killing. It is safe to call more than once.
func (s *Session) Shutdown(timeout time.Duration) {
	s.shutdown.Do(func() {
		s.mu.Lock()
		s.closed = true
		s.mu.Unlock()

		if running := s.supervisor.Count(); running > 0 {
			s.logger.Info("stopping running tasks", "count", running)
		}
		s.supervisor.Shutdown(timeout)
		s.logger.Debug("session closed", s.metrics.Snapshot().KeyVals()...)
	})
}

func (s *Session) isClosed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.closed
}

func (o Options) stderr() io.Writer {
	if o.Stderr != nil {
		return o.Stderr
	}
	return os.Stderr
}
