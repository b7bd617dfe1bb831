package app

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dshills/oradew/internal/config"
	"github.com/dshills/oradew/internal/integration/process"
	"github.com/dshills/oradew/internal/integration/task"
	"github.com/dshills/oradew/internal/logging"
)

// bootstrapper handles component initialization with proper cleanup on failure.
type bootstrapper struct {
	session   *Session
	opts      Options
	initOrder []string
}

// newBootstrapper creates a new bootstrapper for the session.
func newBootstrapper(s *Session, opts Options) *bootstrapper {
	return &bootstrapper{
		session:   s,
		opts:      opts,
		initOrder: make([]string, 0, 5),
	}
}

// bootstrap initializes all components in dependency order.
// On failure, it cleans up already-initialized components.
func (b *bootstrapper) bootstrap() error {
	steps := []func() error{
		b.resolveRoots,
		b.initSettings,
		b.initLogger,
		b.initInvocation,
		b.initSupervisor,
		b.initProvider,
		b.initManager,
	}
	for _, step := range steps {
		if err := step(); err != nil {
			b.cleanup()
			return err
		}
	}
	return nil
}

// resolveRoots fills in default workspace, extension and storage roots and
// makes them absolute.
func (b *bootstrapper) resolveRoots() error {
	if b.opts.WorkspacePath == "" {
		wd, err := os.Getwd()
		if err != nil {
			return &InitError{Component: "workspace", Err: err}
		}
		b.opts.WorkspacePath = wd
	}
	if b.opts.ExtensionPath == "" {
		b.opts.ExtensionPath = b.opts.WorkspacePath
	}
	if b.opts.StoragePath == "" {
		b.opts.StoragePath = defaultStoragePath()
	}
	if b.opts.ConfigPath == "" {
		b.opts.ConfigPath = config.DefaultPath(b.opts.WorkspacePath)
	}

	// The tool changes into the workspace before reading its config paths,
	// so every root handed to it must be absolute.
	for _, root := range []*string{
		&b.opts.WorkspacePath,
		&b.opts.ExtensionPath,
		&b.opts.StoragePath,
		&b.opts.ConfigPath,
	} {
		abs, err := filepath.Abs(*root)
		if err != nil {
			return &InitError{Component: "workspace", Err: err}
		}
		*root = abs
	}

	b.session.opts = b.opts
	return nil
}

// defaultStoragePath returns the per-user storage directory.
func defaultStoragePath() string {
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, "oradew")
	}
	return filepath.Join(os.TempDir(), "oradew")
}

// initSettings loads the settings file and environment overrides.
func (b *bootstrapper) initSettings() error {
	settings, err := config.Load(b.opts.ConfigPath)
	if err != nil {
		return &InitError{Component: "settings", Err: err}
	}

	if b.opts.Silent != nil {
		settings.Chatty = !*b.opts.Silent
	}
	if b.opts.Color != nil {
		color := *b.opts.Color
		settings.Color = &color
	}
	if b.opts.LogLevel != "" {
		settings.LogLevel = b.opts.LogLevel
	}
	if b.opts.LogJSON {
		settings.LogJSON = true
	}

	b.session.settings = settings
	b.initOrder = append(b.initOrder, "settings")
	return nil
}

// initLogger creates the session logger.
func (b *bootstrapper) initLogger() error {
	raw := b.session.settings.LogLevel
	level := logging.ParseLevel(raw)
	// ParseLevel falls back to info for unknown names.
	if level == logging.InfoLevel && raw != "" && raw != string(logging.InfoLevel) {
		return &InitError{
			Component: "logger",
			Err:       fmt.Errorf("%w: %q", ErrInvalidLogLevel, raw),
		}
	}

	cfg := logging.DefaultConfig()
	cfg.Level = level
	cfg.Output = b.opts.stderr()
	cfg.JSON = b.session.settings.LogJSON

	b.session.logger = logging.NewLogger(cfg).With("workspace", b.opts.WorkspacePath)
	b.initOrder = append(b.initOrder, "logger")
	return nil
}

// initInvocation resolves paths, base arguments and the environment bag.
func (b *bootstrapper) initInvocation() error {
	settings := b.session.settings

	interpreter, err := settings.Interpreter()
	if err != nil {
		return &InitError{Component: "invocation", Err: err}
	}

	b.session.invocation = task.Build(task.Options{
		WorkspaceRoot: b.opts.WorkspacePath,
		ContextRoot:   b.opts.ExtensionPath,
		StorageRoot:   b.opts.StoragePath,
		Silent:        settings.Silent(),
		Color:         settings.ColorEnabled(b.opts.IsTerminal),
		Interpreter:   interpreter,
		ExtraEnv:      settings.EnvVariables,
	})

	paths := b.session.invocation.Paths()
	b.session.logger.Debug("resolved invocation",
		"tool", paths.ToolEntry,
		"storage", paths.StorageRoot,
		"interpreter", interpreter[0],
	)
	b.initOrder = append(b.initOrder, "invocation")
	return nil
}

// initSupervisor creates the process supervisor.
func (b *bootstrapper) initSupervisor() error {
	metrics := b.session.metrics
	logger := b.session.logger

	b.session.supervisor = process.NewSupervisor(
		process.WithProcessExitCallback(func(p *process.Process) {
			metrics.RecordExit(p.ExitCode(), p.Runtime())
			logger.Debug("task exited", "task", p.Name, "code", p.ExitCode(), "state", p.State())
		}),
	)
	b.initOrder = append(b.initOrder, "supervisor")
	return nil
}

// initProvider creates the task provider.
func (b *bootstrapper) initProvider() error {
	b.session.provider = task.NewProvider(b.session.invocation,
		task.WithLogger(b.session.logger.With("component", "provider")),
		task.WithDiagnosticsSink(b.opts.stderr()),
	)
	b.initOrder = append(b.initOrder, "provider")
	return nil
}

// initManager creates the task manager.
func (b *bootstrapper) initManager() error {
	b.session.manager = task.NewManager(b.session.invocation,
		task.WithSupervisor(b.session.supervisor),
		task.WithManagerLogger(b.session.logger.With("component", "manager")),
		task.WithStdio(b.opts.Stdin, b.opts.Stdout, b.opts.Stderr),
	)
	b.initOrder = append(b.initOrder, "manager")
	return nil
}

// cleanup releases initialized components in reverse order.
func (b *bootstrapper) cleanup() {
	for i := len(b.initOrder) - 1; i >= 0; i-- {
		b.cleanupComponent(b.initOrder[i])
	}
}

// cleanupComponent cleans up a single component.
func (b *bootstrapper) cleanupComponent(component string) {
	switch component {
	case "supervisor":
		if b.session.supervisor != nil {
			b.session.supervisor.Shutdown(DefaultShutdownTimeout)
			b.session.supervisor = nil
		}
	case "manager":
		b.session.manager = nil
	case "provider":
		b.session.provider = nil
	case "invocation":
		b.session.invocation = nil
	case "logger":
		b.session.logger = nil
	case "settings":
		b.session.settings = nil
	}
}
