package task

import (
	"regexp"
	"strconv"
)

// Placeholder names a late-bound argument that the host fills in just
// before execution.
type Placeholder string

// Placeholders used by the catalog.
const (
	PlaceholderFile              Placeholder = "file"
	PlaceholderSelectedText      Placeholder = "selectedText"
	PlaceholderLineNumber        Placeholder = "lineNumber"
	PlaceholderEnvironment       Placeholder = "command:oradew.getEnvironment"
	PlaceholderPickEnvironment   Placeholder = "command:oradew.pickEnvironment"
	PlaceholderGeneratorFunction Placeholder = "command:oradew.getGeneratorFunction"
	PlaceholderUser              Placeholder = "command:oradew.getUser"
)

// Token returns the host token form, e.g. "${file}".
func (p Placeholder) Token() string {
	return "${" + string(p) + "}"
}

// Arg is one element of a task argument list: a literal or a placeholder.
type Arg struct {
	literal     string
	placeholder Placeholder
}

// Lit returns a literal argument.
func Lit(s string) Arg {
	return Arg{literal: s}
}

// Var returns a placeholder argument.
func Var(p Placeholder) Arg {
	return Arg{placeholder: p}
}

// IsPlaceholder reports whether a is a placeholder.
func (a Arg) IsPlaceholder() bool {
	return a.placeholder != ""
}

// Placeholder returns the placeholder name, or "" for literals.
func (a Arg) Placeholder() Placeholder {
	return a.placeholder
}

// String returns the literal value or the placeholder token.
func (a Arg) String() string {
	if a.IsPlaceholder() {
		return a.placeholder.Token()
	}
	return a.literal
}

var tokenPattern = regexp.MustCompile(`^\$\{([^}]+)\}$`)

// ParseArg turns a host token back into an Arg. Anything that is not a
// whole "${name}" token is a literal.
func ParseArg(s string) Arg {
	if m := tokenPattern.FindStringSubmatch(s); m != nil {
		return Var(Placeholder(m[1]))
	}
	return Lit(s)
}

// ParseArgs parses each token with ParseArg.
func ParseArgs(tokens []string) []Arg {
	args := make([]Arg, len(tokens))
	for i, t := range tokens {
		args[i] = ParseArg(t)
	}
	return args
}

// Tokens renders args in host token form.
func Tokens(args []Arg) []string {
	tokens := make([]string, len(args))
	for i, a := range args {
		tokens[i] = a.String()
	}
	return tokens
}

// Bindings maps placeholders to concrete values. A present key is bound,
// even when its value is empty.
type Bindings map[Placeholder]string

// ResolvePlaceholders substitutes every placeholder in args and returns a
// new slice. All unbound placeholders are reported in one error.
func ResolvePlaceholders(args []Arg, bindings Bindings) ([]string, error) {
	out := make([]string, len(args))
	var missing []Placeholder
	for i, a := range args {
		if !a.IsPlaceholder() {
			out[i] = a.literal
			continue
		}
		v, ok := bindings[a.placeholder]
		if !ok {
			missing = append(missing, a.placeholder)
			continue
		}
		out[i] = v
	}
	if len(missing) > 0 {
		return nil, &UnboundPlaceholderError{Placeholders: missing}
	}
	return out, nil
}

// ResolveTokens parses tokens and substitutes placeholders.
func ResolveTokens(tokens []string, bindings Bindings) ([]string, error) {
	return ResolvePlaceholders(ParseArgs(tokens), bindings)
}

// EditorContext is the editor state placeholders are usually bound from.
type EditorContext struct {
	// File is the current file.
	File string

	// Selection is the selected text.
	Selection string

	// Line is the 1-based cursor line; 0 means unknown.
	Line int

	// Environment is the active database environment, e.g. "DEV".
	Environment string

	// PickedEnvironment is the environment chosen for a deploy. Empty uses Environment.
	PickedEnvironment string

	// GeneratorFunction is the chosen code generator.
	GeneratorFunction string

	// User is the database user to run as.
	User string
}

// Bindings returns bindings for every non-empty field.
func (c EditorContext) Bindings() Bindings {
	b := make(Bindings)
	set := func(p Placeholder, v string) {
		if v != "" {
			b[p] = v
		}
	}

	set(PlaceholderFile, c.File)
	set(PlaceholderSelectedText, c.Selection)
	if c.Line > 0 {
		b[PlaceholderLineNumber] = strconv.Itoa(c.Line)
	}
	set(PlaceholderEnvironment, c.Environment)
	if c.PickedEnvironment != "" {
		b[PlaceholderPickEnvironment] = c.PickedEnvironment
	} else {
		set(PlaceholderPickEnvironment, c.Environment)
	}
	set(PlaceholderGeneratorFunction, c.GeneratorFunction)
	set(PlaceholderUser, c.User)
	return b
}
