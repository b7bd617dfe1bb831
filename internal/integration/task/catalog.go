package task

import "fmt"

// Group categorizes catalog tasks.
type Group string

const (
	GroupGenerate Group = "generate"
	GroupSetup    Group = "setup"
	GroupBuild    Group = "build"
	GroupImport   Group = "import"
	GroupPackage  Group = "package"
	GroupDeploy   Group = "deploy"
	GroupTest     Group = "test"
)

// Descriptor is a static catalog entry: a task name and its argument suffix.
type Descriptor struct {
	Name  string
	Args  []Arg
	Group Group

	// Background tasks run without stealing focus, e.g. compile on save.
	Background bool
}

// Params returns the argument suffix in host token form.
func (d Descriptor) Params() []string {
	return Tokens(d.Args)
}

// Placeholders returns the distinct placeholders d needs, in order of first use.
func (d Descriptor) Placeholders() []Placeholder {
	seen := make(map[Placeholder]bool)
	var ps []Placeholder
	for _, a := range d.Args {
		if a.IsPlaceholder() && !seen[a.Placeholder()] {
			seen[a.Placeholder()] = true
			ps = append(ps, a.Placeholder())
		}
	}
	return ps
}

func args(parts ...any) []Arg {
	out := make([]Arg, len(parts))
	for i, p := range parts {
		switch v := p.(type) {
		case string:
			out[i] = Lit(v)
		case Placeholder:
			out[i] = Var(v)
		default:
			panic(fmt.Sprintf("catalog: unsupported arg %T", p))
		}
	}
	return out
}

// activeEnv is the environment the user has selected in the editor.
const activeEnv = PlaceholderEnvironment

// Catalog returns the task catalog in display order. Each call builds a new slice.
func Catalog() []Descriptor {
	return []Descriptor{
		{
			Name:  "generator",
			Group: GroupGenerate,
			Args: args("generate",
				"--env", activeEnv,
				"--func", PlaceholderGeneratorFunction,
				"--file", PlaceholderFile,
				"--object", PlaceholderSelectedText,
				"--user", PlaceholderUser),
		},
		{Name: "init", Group: GroupSetup, Args: args("init")},
		{Name: "create", Group: GroupSetup, Args: args("create", "--env", activeEnv)},
		{Name: "compile", Group: GroupBuild, Args: args("compile", "--env", activeEnv, "--changed", "true")},
		{
			Name:  "compile--file",
			Group: GroupBuild,
			Args:  args("compile", "--env", activeEnv, "--file", PlaceholderFile, "--user", PlaceholderUser),
		},
		{Name: "compile--all", Group: GroupBuild, Args: args("compile", "--env", activeEnv)},
		{
			Name:  "compile--object",
			Group: GroupBuild,
			Args: args("compile",
				"--env", activeEnv,
				"--file", PlaceholderFile,
				"--object", PlaceholderSelectedText,
				"--line", PlaceholderLineNumber,
				"--user", PlaceholderUser),
		},
		{Name: "import", Group: GroupImport, Args: args("import", "--env", activeEnv)},
		{
			Name:  "import--file",
			Group: GroupImport,
			Args:  args("import", "--env", activeEnv, "--file", PlaceholderFile, "--ease", "false"),
		},
		{
			Name:  "import--object",
			Group: GroupImport,
			Args:  args("import", "--env", activeEnv, "--object", PlaceholderSelectedText, "--user", PlaceholderUser),
		},
		{Name: "package", Group: GroupPackage, Args: args("package", "--env", activeEnv)},
		{Name: "package--delta", Group: GroupPackage, Args: args("package", "--env", activeEnv, "--delta")},
		{
			Name:  "deploy",
			Group: GroupDeploy,
			Args:  args("run", "--env", PlaceholderPickEnvironment, "--user", PlaceholderUser),
		},
		{
			Name:  "deploy--file",
			Group: GroupDeploy,
			Args:  args("run", "--env", activeEnv, "--file", PlaceholderFile, "--user", PlaceholderUser),
		},
		{Name: "test", Group: GroupTest, Args: args("test", "--env", activeEnv)},
	}
}

// CompileOnSave returns the background task run after a file is saved.
// It is not part of Catalog.
func CompileOnSave() Descriptor {
	return Descriptor{
		Name:       "compileOnSave",
		Group:      GroupBuild,
		Args:       args("compileOnSave", "--env", activeEnv),
		Background: true,
	}
}

// Lookup finds a descriptor by name in the catalog or the compile-on-save task.
func Lookup(name string) (Descriptor, error) {
	for _, d := range append(Catalog(), CompileOnSave()) {
		if d.Name == name {
			return d, nil
		}
	}
	return Descriptor{}, fmt.Errorf("%w: %s", ErrUnknownTask, name)
}

// ValidateCatalog checks that descriptor names are unique. The host looks
// tasks up by name, so a duplicate makes one of them unreachable.
func ValidateCatalog(ds []Descriptor) error {
	seen := make(map[string]bool, len(ds))
	for _, d := range ds {
		if seen[d.Name] {
			return fmt.Errorf("%w: %s", ErrDuplicateTask, d.Name)
		}
		seen[d.Name] = true
	}
	return nil
}
