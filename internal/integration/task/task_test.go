package task

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTask(t *testing.T) {
	inv := Build(testOptions())
	def := NewDefinition("init", []string{"init"})

	task := inv.NewTask(def)

	assert.Same(t, def, task.Definition)
	assert.Equal(t, "init", task.Name)
	assert.Equal(t, TaskSource, task.Source)
	assert.Equal(t, ScopeWorkspace, task.Scope)
	assert.Equal(t, ProblemMatcher, task.ProblemMatcher)
	assert.Equal(t, RevealAlways, task.Reveal)
	assert.False(t, task.IsBackground)

	assert.Equal(t, "node", task.Execution.Command)
	assert.Equal(t, append(inv.BaseArgs(), "init"), task.Execution.Args)
	assert.Equal(t, "init", task.Execution.Args[len(task.Execution.Args)-1])
	assert.Equal(t, inv.Environment(), task.Execution.Env)
}

func TestNewTask_DoesNotMutateInputs(t *testing.T) {
	inv := Build(testOptions())
	base := inv.BaseArgs()
	params := []string{"compile", "--env", "${command:oradew.getEnvironment}"}
	def := NewDefinition("compile--all", params)

	first := inv.NewTask(def)
	second := inv.NewTask(def)

	assert.Equal(t, base, inv.BaseArgs())
	assert.Equal(t, []string{"compile", "--env", "${command:oradew.getEnvironment}"}, def.Params)

	first.Execution.Args[0] = "mutated"
	assert.NotEqual(t, "mutated", second.Execution.Args[0])
	assert.NotEqual(t, "mutated", inv.BaseArgs()[0])
	assert.Equal(t, "compile", def.Params[0])
}

func TestNewTask_DistinctEnvironmentMaps(t *testing.T) {
	opts := testOptions()
	opts.ExtraEnv = map[string]string{"A": "1"}
	inv := Build(opts)

	first := inv.TaskFor(Catalog()[1])
	second := inv.TaskFor(Catalog()[1])
	first.Execution.Env.Extra["A"] = "changed"

	assert.Equal(t, "1", second.Execution.Env.Extra["A"])
}

func TestTaskFor_Background(t *testing.T) {
	inv := Build(testOptions())

	task := inv.TaskFor(CompileOnSave())
	assert.True(t, task.IsBackground)
	assert.Equal(t, RevealSilent, task.Reveal)
	assert.Equal(t, TaskType, task.Definition.Type)
	assert.Equal(t, "compileOnSave", task.Definition.Name)
}

func TestProcessExecution_CommandLine(t *testing.T) {
	inv := Build(Options{WorkspaceRoot: "/ws", ContextRoot: "/ext", StorageRoot: "/store"})
	d, err := Lookup("init")
	require.NoError(t, err)

	line := inv.TaskFor(d).Execution.CommandLine()
	assert.True(t, strings.HasPrefix(line, "node "))
	assert.True(t, strings.HasSuffix(line, " init"))
	assert.Contains(t, line, "--cwd")
}
