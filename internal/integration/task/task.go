package task

import "strings"

const (
	// TaskType is the task definition type the host registers for oradew.
	TaskType = "oradew"
	// TaskSource is shown by the host next to each task.
	TaskSource = "oradew"
	// ProblemMatcher is the host problem matcher applied to tool output.
	ProblemMatcher = "$oracle-plsql"
)

// Scope is where a task applies.
type Scope string

// ScopeWorkspace makes a task available to the whole workspace.
const ScopeWorkspace Scope = "workspace"

// RevealKind controls whether the host shows the task output panel.
type RevealKind string

const (
	RevealAlways RevealKind = "always"
	RevealSilent RevealKind = "silent"
	RevealNever  RevealKind = "never"
)

// Definition is the task stub exchanged with the host: a name plus its
// parameters in host token form.
type Definition struct {
	Type   string   `json:"type"`
	Name   string   `json:"name"`
	Params []string `json:"params"`
}

// NewDefinition creates a definition of type TaskType.
func NewDefinition(name string, params []string) *Definition {
	return &Definition{Type: TaskType, Name: name, Params: params}
}

// ProcessExecution is the process specification the host runs.
type ProcessExecution struct {
	Command string
	Args    []string
	Env     Environment
}

// CommandLine renders the execution for display.
func (p ProcessExecution) CommandLine() string {
	return strings.Join(append([]string{p.Command}, p.Args...), " ")
}

// Task is a runnable task: base arguments plus the definition's parameters.
type Task struct {
	// Definition is the definition the task was built from. The host requires
	// a resolved task to carry the same definition it passed in.
	Definition *Definition

	Name           string
	Source         string
	Scope          Scope
	Execution      ProcessExecution
	ProblemMatcher string
	IsBackground   bool
	Reveal         RevealKind
}

// NewTask builds a task for def. Neither def nor the invocation is
// modified; every call returns fresh argument slices.
func (i *Invocation) NewTask(def *Definition) *Task {
	return &Task{
		Definition: def,
		Name:       def.Name,
		Source:     TaskSource,
		Scope:      ScopeWorkspace,
		Execution: ProcessExecution{
			Command: i.Command(),
			Args:    i.Argv(def.Params),
			Env:     i.Environment(),
		},
		ProblemMatcher: ProblemMatcher,
		Reveal:         RevealAlways,
	}
}

// TaskFor builds a task for a catalog descriptor.
func (i *Invocation) TaskFor(d Descriptor) *Task {
	t := i.NewTask(NewDefinition(d.Name, d.Params()))
	if d.Background {
		t.IsBackground = true
		t.Reveal = RevealSilent
	}
	return t
}
