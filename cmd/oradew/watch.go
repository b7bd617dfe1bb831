package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/dshills/oradew/internal/app"
	"github.com/dshills/oradew/internal/integration/task"
	"github.com/dshills/oradew/internal/watch"
)

// errNoEnvironment is returned when watch has no environment to compile against.
var errNoEnvironment = errors.New("watch needs --env")

func newWatchCmd(opts *rootOptions) *cobra.Command {
	var (
		env      string
		interval time.Duration
		quiet    time.Duration
		exts     []string
		include  []string
		poll     bool
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Run compileOnSave whenever source files are saved",
		Long: "Watch detects saved PL/SQL sources in the workspace and runs the\n" +
			"background compileOnSave task once per burst of saves.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if env == "" {
				return errNoEnvironment
			}

			s, err := opts.session(cmd)
			if err != nil {
				return err
			}
			defer s.Shutdown(app.DefaultShutdownTimeout)

			ctx, stop := signal.NotifyContext(s.Context(cmd.Context()), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			wopts := []watch.Option{
				watch.WithInterval(interval),
				watch.WithQuietPeriod(quiet),
				watch.WithExtensions(exts...),
				watch.WithNotify(!poll),
				watch.WithLogger(s.Logger().With("component", "watch")),
			}
			if len(include) > 0 {
				wopts = append(wopts, watch.WithPatterns(include...))
			}

			w, err := watch.New(s.Invocation().Paths().WorkspaceRoot,
				compileOnSave(ctx, s, task.Bindings{task.PlaceholderEnvironment: env}),
				wopts...,
			)
			if err != nil {
				return err
			}

			s.Logger().Info("watching for saves", "root", w.Root(), "files", len(w.WatchedFiles()))
			w.Start()
			<-ctx.Done()
			w.Stop()
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&env, "env", "", "environment to compile against, e.g. DEV")
	flags.DurationVar(&interval, "interval", 500*time.Millisecond, "polling interval")
	flags.DurationVar(&quiet, "quiet", 300*time.Millisecond, "time without saves before compiling")
	flags.StringSliceVar(&exts, "ext", watch.DefaultExtensions, "source file extensions")
	flags.StringSliceVar(&include, "include", nil, "doublestar patterns relative to the workspace, e.g. src/**/*.sql (replaces --ext)")
	flags.BoolVar(&poll, "poll", false, "poll only, without filesystem events")
	return cmd
}

// compileOnSave returns a save handler that starts the compileOnSave task.
// Runs are not awaited; overlapping runs are allowed.
func compileOnSave(ctx context.Context, s *app.Session, bindings task.Bindings) watch.Handler {
	return func(changes []watch.Change) {
		t := s.Provider().CompileOnSaveTask()
		proc, err := s.Execute(ctx, t, bindings)
		if err != nil {
			s.Logger().Error("compileOnSave failed to start", "error", err)
			return
		}
		s.Logger().Info("compileOnSave started", "files", len(changes), "pid", proc.PID())
	}
}
