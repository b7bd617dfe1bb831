package task

import (
	"sort"
	"strings"
)

// Environment variable names handed to the tool.
const (
	EnvStoragePath  = "storagePath"
	EnvDBConfigPath = "dbConfigPath"
	EnvWSConfigPath = "wsConfigPath"
)

// DefaultInterpreter runs the tool's launcher script.
var DefaultInterpreter = []string{"node"}

// Options are the inputs of Build.
type Options struct {
	WorkspaceRoot string
	ContextRoot   string
	StorageRoot   string

	// Silent adds "--silent true". False adds nothing.
	Silent bool
	// Color adds "--color true". False adds nothing.
	Color bool

	// Interpreter is the executable and its leading arguments. Empty means DefaultInterpreter.
	Interpreter []string

	// ExtraEnv is added to the tool environment. It cannot override the config path variables.
	ExtraEnv map[string]string
}

// Environment is the environment bag passed unchanged to every spawn.
type Environment struct {
	StoragePath  string
	DBConfigPath string
	WSConfigPath string

	// Extra holds user supplied variables.
	Extra map[string]string

	// InheritStdio is always true: the tool writes straight to the caller's streams.
	InheritStdio bool
}

// Vars returns the bag as a map.
func (e Environment) Vars() map[string]string {
	vars := make(map[string]string, len(e.Extra)+3)
	for k, v := range e.Extra {
		vars[k] = v
	}
	vars[EnvStoragePath] = e.StoragePath
	vars[EnvDBConfigPath] = e.DBConfigPath
	vars[EnvWSConfigPath] = e.WSConfigPath
	return vars
}

// Environ overlays the bag on base (KEY=VALUE pairs) and returns a sorted
// environment for exec. Bag entries override base entries. The result merges
// with base rather than replacing it, so the tool still sees PATH and HOME.
func (e Environment) Environ(base []string) []string {
	envMap := make(map[string]string, len(base)+len(e.Extra)+3)
	for _, kv := range base {
		if idx := strings.Index(kv, "="); idx > 0 {
			envMap[kv[:idx]] = kv[idx+1:]
		}
	}
	for k, v := range e.Vars() {
		envMap[k] = v
	}

	keys := make([]string, 0, len(envMap))
	for k := range envMap {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	env := make([]string, 0, len(keys))
	for _, k := range keys {
		env = append(env, k+"="+envMap[k])
	}
	return env
}

// clone returns a copy that shares no map with e.
func (e Environment) clone() Environment {
	c := e
	if e.Extra != nil {
		c.Extra = make(map[string]string, len(e.Extra))
		for k, v := range e.Extra {
			c.Extra[k] = v
		}
	}
	return c
}

// Invocation is the resolved, immutable invocation context of one workspace.
type Invocation struct {
	paths       Paths
	env         Environment
	baseArgs    []string
	interpreter []string
}

// Build resolves paths, environment and base arguments. It is pure:
// the same options always give the same result.
func Build(opts Options) *Invocation {
	paths := NewPaths(opts.WorkspaceRoot, opts.ContextRoot, opts.StorageRoot)

	baseArgs := []string{
		paths.ToolEntry,
		"--cwd", paths.WorkspaceRoot,
		"--gulpfile", paths.ToolProjectFile,
	}
	// The tool misreads explicit "false" values, so these flags are only
	// ever emitted as "true".
	if opts.Color {
		baseArgs = append(baseArgs, "--color", "true")
	}
	if opts.Silent {
		baseArgs = append(baseArgs, "--silent", "true")
	}

	interpreter := opts.Interpreter
	if len(interpreter) == 0 {
		interpreter = DefaultInterpreter
	}

	env := Environment{
		StoragePath:  paths.StorageRoot,
		DBConfigPath: paths.DBConfig,
		WSConfigPath: paths.WSConfig,
		Extra:        opts.ExtraEnv,
		InheritStdio: true,
	}

	return &Invocation{
		paths:       paths,
		env:         env.clone(),
		baseArgs:    baseArgs,
		interpreter: append([]string(nil), interpreter...),
	}
}

// Paths returns the resolved paths.
func (i *Invocation) Paths() Paths {
	return i.paths
}

// Environment returns a copy of the environment bag.
func (i *Invocation) Environment() Environment {
	return i.env.clone()
}

// BaseArgs returns a copy of the base argument vector.
func (i *Invocation) BaseArgs() []string {
	return append([]string(nil), i.baseArgs...)
}

// Command returns the executable to spawn.
func (i *Invocation) Command() string {
	return i.interpreter[0]
}

// Argv returns the full argument list after Command:
// interpreter arguments, base arguments, then suffix. The result is a new slice.
func (i *Invocation) Argv(suffix []string) []string {
	argv := make([]string, 0, len(i.interpreter)-1+len(i.baseArgs)+len(suffix))
	argv = append(argv, i.interpreter[1:]...)
	argv = append(argv, i.baseArgs...)
	argv = append(argv, suffix...)
	return argv
}

// Params returns base arguments followed by suffix, without interpreter arguments.
func (i *Invocation) Params(suffix []string) []string {
	params := make([]string, 0, len(i.baseArgs)+len(suffix))
	params = append(params, i.baseArgs...)
	params = append(params, suffix...)
	return params
}
