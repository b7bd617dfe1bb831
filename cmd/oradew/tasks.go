package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/dshills/oradew/internal/integration/task"
)

// taskView is the JSON shape of one provided task.
type taskView struct {
	task.Definition
	Group        task.Group `json:"group,omitempty"`
	Background   bool       `json:"isBackground,omitempty"`
	Placeholders []string   `json:"placeholders,omitempty"`
	Command      string     `json:"command"`
	Args         []string   `json:"args"`
}

func newTasksCmd(opts *rootOptions) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "List the provided tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := opts.session(cmd)
			if err != nil {
				return err
			}

			tasks := s.Tasks(s.Context(cmd.Context()))
			views := make([]taskView, 0, len(tasks))
			for _, t := range tasks {
				views = append(views, newTaskView(t))
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(views)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tGROUP\tPARAMS")
			for _, v := range views {
				fmt.Fprintf(w, "%s\t%s\t%s\n", v.Name, v.Group, joinArgs(v.Params))
			}
			return w.Flush()
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print tasks as JSON")
	return cmd
}

func newTaskView(t *task.Task) taskView {
	v := taskView{
		Definition: *t.Definition,
		Background: t.IsBackground,
		Command:    t.Execution.Command,
		Args:       t.Execution.Args,
	}
	if d, err := task.Lookup(t.Name); err == nil {
		v.Group = d.Group
		for _, p := range d.Placeholders() {
			v.Placeholders = append(v.Placeholders, p.Token())
		}
	}
	return v
}
