package task

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProvider_ProvideTasks(t *testing.T) {
	inv := Build(testOptions())
	p := NewProvider(inv)

	tasks := p.ProvideTasks(context.Background())

	catalog := Catalog()
	require.Len(t, tasks, len(catalog))
	for i, task := range tasks {
		d := catalog[i]
		assert.Equal(t, d.Name, task.Name)
		assert.Equal(t, d.Name, task.Definition.Name)
		assert.Equal(t, TaskType, task.Definition.Type)
		assert.Equal(t, d.Params(), task.Definition.Params)
		assert.Equal(t, inv.Argv(d.Params()), task.Execution.Args)
		assert.Equal(t, ProblemMatcher, task.ProblemMatcher)
	}

	assert.False(t, p.HasOutputChannel(), "success must not create the diagnostics channel")
}

func TestProvider_ProvideTasks_InitSuffix(t *testing.T) {
	p := NewProvider(Build(testOptions()))

	var initTask *Task
	for _, task := range p.ProvideTasks(context.Background()) {
		if task.Name == "init" {
			initTask = task
		}
	}
	require.NotNil(t, initTask)

	args := initTask.Execution.Args
	assert.Equal(t, "init", args[len(args)-1])
	assert.Equal(t, Build(testOptions()).BaseArgs(), args[:len(args)-1])
}

func TestProvider_ProvideTasks_FreshEachCall(t *testing.T) {
	p := NewProvider(Build(testOptions()))

	first := p.ProvideTasks(context.Background())
	second := p.ProvideTasks(context.Background())

	require.Equal(t, len(first), len(second))
	assert.NotSame(t, first[0], second[0])
	first[0].Execution.Args[0] = "mutated"
	assert.NotEqual(t, "mutated", second[0].Execution.Args[0])
}

func TestProvider_ProvideTasks_CommandFailure(t *testing.T) {
	var sink bytes.Buffer
	p := NewProvider(Build(testOptions()),
		WithDiagnosticsSink(&sink),
		WithCatalogFunc(func(context.Context) ([]Descriptor, error) {
			return nil, &CommandError{
				Command: "node gulp.js --tasks",
				Stdout:  "partial output",
				Stderr:  "boom",
				Err:     errors.New("exit status 1"),
			}
		}),
	)

	tasks := p.ProvideTasks(context.Background())

	assert.NotNil(t, tasks)
	assert.Empty(t, tasks)
	require.True(t, p.HasOutputChannel())

	channel := p.OutputChannel()
	assert.Equal(t, OutputChannelName, channel.Name())
	lines := channel.Lines()
	require.Len(t, lines, 3)
	assert.Equal(t, "boom", lines[0].Content)
	assert.Equal(t, "partial output", lines[1].Content)
	assert.Equal(t, "Auto detecting oradew tasks failed. node gulp.js --tasks: exit status 1", lines[2].Content)
	assert.True(t, channel.Visible())
	assert.True(t, channel.PreserveFocus())

	assert.Contains(t, sink.String(), "[Oradew Auto Detection] boom\n")
}

func TestProvider_ProvideTasks_PlainError(t *testing.T) {
	p := NewProvider(Build(testOptions()),
		WithCatalogFunc(func(context.Context) ([]Descriptor, error) {
			return nil, errors.New("no workspace")
		}),
	)

	assert.Empty(t, p.ProvideTasks(context.Background()))
	assert.Equal(t, "Auto detecting oradew tasks failed. no workspace", p.OutputChannel().Content())
}

func TestProvider_ProvideTasks_Panic(t *testing.T) {
	p := NewProvider(Build(testOptions()),
		WithCatalogFunc(func(context.Context) ([]Descriptor, error) {
			panic("catalog exploded")
		}),
	)

	assert.Empty(t, p.ProvideTasks(context.Background()))
	assert.Contains(t, p.OutputChannel().Content(), "catalog exploded")
	assert.True(t, p.OutputChannel().Visible())
}

func TestProvider_ProvideTasks_DuplicateNamesStillProvided(t *testing.T) {
	p := NewProvider(Build(testOptions()),
		WithCatalogFunc(func(context.Context) ([]Descriptor, error) {
			return []Descriptor{{Name: "a", Args: args("a")}, {Name: "a", Args: args("b")}}, nil
		}),
	)

	assert.Len(t, p.ProvideTasks(context.Background()), 2)
	assert.False(t, p.HasOutputChannel())
}

func TestProvider_ResolveTask(t *testing.T) {
	inv := Build(testOptions())
	p := NewProvider(inv)

	def := NewDefinition("compile--file", []string{"compile", "--file", "${file}"})
	task := p.ResolveTask(def)

	require.NotNil(t, task)
	assert.Same(t, def, task.Definition)
	assert.Equal(t, inv.Argv(def.Params), task.Execution.Args)
}

func TestProvider_ResolveTask_Missing(t *testing.T) {
	p := NewProvider(Build(testOptions()))

	assert.Nil(t, p.ResolveTask(nil))
	assert.Nil(t, p.ResolveTask(&Definition{Type: TaskType, Params: []string{"init"}}))
	assert.Nil(t, p.ResolveTask(&Definition{Type: TaskType, Name: "init"}))

	task := p.ResolveTask(&Definition{Type: TaskType, Name: "bare", Params: []string{}})
	require.NotNil(t, task)
	assert.Equal(t, Build(testOptions()).BaseArgs(), task.Execution.Args)
}

func TestProvider_CompileOnSaveTask(t *testing.T) {
	task := NewProvider(Build(testOptions())).CompileOnSaveTask()

	assert.Equal(t, "compileOnSave", task.Name)
	assert.True(t, task.IsBackground)
	assert.Equal(t, RevealSilent, task.Reveal)
}

func TestProvider_OutputChannelIsShared(t *testing.T) {
	p := NewProvider(Build(testOptions()))
	assert.False(t, p.HasOutputChannel())
	assert.Same(t, p.OutputChannel(), p.OutputChannel())
	assert.True(t, p.HasOutputChannel())
}
