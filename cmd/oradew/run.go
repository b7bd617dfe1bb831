package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dshills/oradew/internal/app"
	"github.com/dshills/oradew/internal/integration/process"
)

func newRunCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [args...]",
		Short: "Run the tool with raw arguments",
		Long: "Run starts the tool with the base arguments followed by args and\n" +
			"exits with the tool's exit code. Flags after the first argument are\n" +
			"passed to the tool.",
		Example: "  oradew run compile --env DEV --changed true\n" +
			"  oradew -w ./project run package --env UAT",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.session(cmd)
			if err != nil {
				return err
			}
			defer s.Shutdown(app.DefaultShutdownTimeout)

			proc, err := s.Dispatch(s.Context(cmd.Context()), args)
			if err != nil {
				return err
			}
			return waitForExit(s, proc)
		},
	}
	cmd.Flags().SetInterspersed(false)
	return cmd
}

// waitForExit forwards SIGINT and SIGTERM to the tool until it exits and
// turns a non-zero exit into an exitError.
func waitForExit(s *app.Session, proc *process.Process) error {
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(signals)

	for {
		select {
		case sig := <-signals:
			s.Logger().Debug("forwarding signal", "signal", sig, "pid", proc.PID())
			s.Supervisor().Signal(sig)
		case <-proc.Done():
			code := proc.ExitCode()
			if code == 0 {
				return nil
			}
			// Killed by a signal.
			if code < 0 {
				code = 1
			}
			return &exitError{code: code}
		}
	}
}
