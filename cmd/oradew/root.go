package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/dshills/oradew/internal/app"
)

// streams are the standard streams commands read and write.
type streams struct {
	in  io.Reader
	out io.Writer
	err io.Writer

	// isTerminal reports whether out is a terminal.
	isTerminal func() bool
}

func defaultStreams() streams {
	return streams{
		in:  os.Stdin,
		out: os.Stdout,
		err: os.Stderr,
		isTerminal: func() bool {
			return term.IsTerminal(int(os.Stdout.Fd()))
		},
	}
}

// rootOptions holds the global flags.
type rootOptions struct {
	streams streams

	workspace string
	extension string
	storage   string
	config    string
	silent    bool
	color     bool
	logLevel  string
	logJSON   bool
}

func newRootCmd(s streams) *cobra.Command {
	opts := &rootOptions{streams: s}

	root := &cobra.Command{
		Use:   "oradew",
		Short: "Run oradew build and deploy tasks",
		Long: "oradew runs the Oracle PL/SQL workflow tool for a workspace.\n\n" +
			"The tool is started with the workspace, project file and config paths\n" +
			"resolved, and inherits the terminal.",
		Version:       fmt.Sprintf("%s (commit %s, built %s)", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetIn(s.in)
	root.SetOut(s.out)
	root.SetErr(s.err)

	flags := root.PersistentFlags()
	flags.StringVarP(&opts.workspace, "workspace", "w", "", "workspace root (default: current directory)")
	flags.StringVar(&opts.extension, "extension", "", "directory the tool is installed under (default: workspace)")
	flags.StringVar(&opts.storage, "storage", "", "tool storage directory (default: user cache directory)")
	flags.StringVarP(&opts.config, "config", "c", "", "settings file (default: <workspace>/.oradew.toml)")
	flags.BoolVar(&opts.silent, "silent", true, "run the tool with --silent")
	flags.BoolVar(&opts.color, "color", false, "run the tool with --color (default: when stdout is a terminal)")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level (debug, info, warn, error, disabled)")
	flags.BoolVar(&opts.logJSON, "log-json", false, "write logs as JSON")

	root.AddCommand(
		newRunCmd(opts),
		newTasksCmd(opts),
		newResolveCmd(opts),
		newPathsCmd(opts),
		newWatchCmd(opts),
	)
	return root
}

// session creates the app session from the global flags. Flags the user
// did not set leave the settings file in charge.
func (o *rootOptions) session(cmd *cobra.Command) (*app.Session, error) {
	sopts := app.Options{
		WorkspacePath: o.workspace,
		ExtensionPath: o.extension,
		StoragePath:   o.storage,
		ConfigPath:    o.config,
		LogLevel:      o.logLevel,
		LogJSON:       o.logJSON,
		Stdin:         o.streams.in,
		Stdout:        o.streams.out,
		Stderr:        o.streams.err,
		IsTerminal:    o.streams.isTerminal,
	}

	flags := cmd.Flags()
	if flags.Changed("silent") {
		silent := o.silent
		sopts.Silent = &silent
	}
	if flags.Changed("color") {
		color := o.color
		sopts.Color = &color
	}

	return app.New(sopts)
}
