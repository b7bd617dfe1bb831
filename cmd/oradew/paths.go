package main

import (
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newPathsCmd(opts *rootOptions) *cobra.Command {
	var showSettings bool

	cmd := &cobra.Command{
		Use:   "paths",
		Short: "Print the resolved paths and tool environment",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := opts.session(cmd)
			if err != nil {
				return err
			}

			if showSettings {
				data, err := s.Settings().Marshal()
				if err != nil {
					return fmt.Errorf("rendering settings: %w", err)
				}
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}

			inv := s.Invocation()
			p := inv.Paths()

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintf(w, "workspace\t%s\n", p.WorkspaceRoot)
			fmt.Fprintf(w, "tool\t%s\n", p.ToolEntry)
			fmt.Fprintf(w, "project\t%s\n", p.ToolProjectFile)
			fmt.Fprintf(w, "storage\t%s\n", p.StorageRoot)
			fmt.Fprintf(w, "dbconfig\t%s\n", p.DBConfig)
			fmt.Fprintf(w, "wsconfig\t%s\n", p.WSConfig)
			fmt.Fprintf(w, "command\t%s %s\n", inv.Command(), joinArgs(inv.Argv(nil)))

			vars := inv.Environment().Vars()
			keys := make([]string, 0, len(vars))
			for k := range vars {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				fmt.Fprintf(w, "env\t%s=%s\n", k, vars[k])
			}
			return w.Flush()
		},
	}

	cmd.Flags().BoolVar(&showSettings, "settings", false, "print the effective settings as TOML")
	return cmd
}

// joinArgs renders args for display, quoting any that contain spaces.
func joinArgs(args []string) string {
	quoted := make([]string, len(args))
	for i, a := range args {
		if a == "" || strings.ContainsAny(a, " \t\"'") {
			quoted[i] = fmt.Sprintf("%q", a)
			continue
		}
		quoted[i] = a
	}
	return strings.Join(quoted, " ")
}
