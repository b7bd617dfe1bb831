package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dshills/oradew/internal/app"
	"github.com/dshills/oradew/internal/integration/task"
)

func newResolveCmd(opts *rootOptions) *cobra.Command {
	var (
		editor task.EditorContext
		run    bool
	)

	cmd := &cobra.Command{
		Use:   "resolve <task>",
		Short: "Resolve a catalog task's placeholders and print or run it",
		Example: "  oradew resolve compile--file --env DEV --file src/HR/EMP.sql --user HR\n" +
			"  oradew resolve deploy --env PROD --user HR --run",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := task.Lookup(args[0])
			if err != nil {
				return err
			}

			s, err := opts.session(cmd)
			if err != nil {
				return err
			}
			defer s.Shutdown(app.DefaultShutdownTimeout)

			t := s.Provider().ResolveTask(task.NewDefinition(d.Name, d.Params()))
			if t == nil {
				return fmt.Errorf("%w: %s", task.ErrUnknownTask, d.Name)
			}
			bindings := editor.Bindings()

			if !run {
				resolved, err := task.ResolveTokens(t.Execution.Args, bindings)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), t.Execution.Command+" "+joinArgs(resolved))
				return nil
			}

			proc, err := s.Execute(s.Context(cmd.Context()), t, bindings)
			if err != nil {
				return err
			}
			return waitForExit(s, proc)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&editor.Environment, "env", "", "active environment, e.g. DEV")
	flags.StringVar(&editor.PickedEnvironment, "deploy-env", "", "environment picked for deploy (default: --env)")
	flags.StringVar(&editor.File, "file", "", "current file")
	flags.StringVar(&editor.Selection, "selection", "", "selected text, e.g. an object name")
	flags.IntVar(&editor.Line, "line", 0, "cursor line (1-based)")
	flags.StringVar(&editor.User, "user", "", "database user")
	flags.StringVar(&editor.GeneratorFunction, "func", "", "code generator function")
	flags.BoolVar(&run, "run", false, "run the resolved task instead of printing it")
	return cmd
}
