package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/shlex"
	"github.com/pelletier/go-toml/v2"
)

// FileName is the workspace settings file name.
const FileName = ".oradew.toml"

// DefaultExecutable runs the tool's launcher script.
const DefaultExecutable = "node"

// Settings holds the per-workspace session settings.
type Settings struct {
	// Chatty shows the tool's full output. When false the tool runs with --silent.
	Chatty bool `toml:"chatty"`

	// Color forces colored tool output on or off. Nil means auto-detect.
	Color *bool `toml:"color,omitempty"`

	// CLIExecutable is the interpreter command line, split with shell word rules.
	CLIExecutable string `toml:"cliExecutable"`

	// EnvVariables are added to every spawned tool process.
	EnvVariables map[string]string `toml:"envVariables"`

	// EnvFile is a dotenv file merged under EnvVariables. Relative paths
	// are resolved against the settings file's directory.
	EnvFile string `toml:"envFile,omitempty"`

	// LogLevel is the minimum log level (debug, info, warn, error).
	LogLevel string `toml:"logLevel"`

	// LogJSON switches log output to JSON.
	LogJSON bool `toml:"logJson"`
}

// Default returns the built-in settings.
func Default() *Settings {
	return &Settings{
		Chatty:        false,
		CLIExecutable: DefaultExecutable,
		EnvVariables:  make(map[string]string),
		LogLevel:      "info",
	}
}

// DefaultPath returns the settings file path for a workspace.
func DefaultPath(workspace string) string {
	return filepath.Join(workspace, FileName)
}

// Load reads settings from path, applies ORADEW_* environment overrides and
// merges the configured env file. A missing settings file yields the defaults.
func Load(path string) (*Settings, error) {
	s := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("reading settings file %s: %w", path, err)
		default:
			if err := decode(path, data, s); err != nil {
				return nil, err
			}
		}
	}

	if err := ApplyEnv(s, os.Environ()); err != nil {
		return nil, err
	}
	if err := s.LoadEnvFile(filepath.Dir(path)); err != nil {
		return nil, err
	}
	return s, nil
}

// LoadFromReader parses TOML settings from r on top of the defaults.
// Environment overrides are not applied.
func LoadFromReader(r io.Reader) (*Settings, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading settings: %w", err)
	}
	s := Default()
	if err := decode("<reader>", data, s); err != nil {
		return nil, err
	}
	return s, nil
}

func decode(source string, data []byte, s *Settings) error {
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(s); err != nil {
		pe := &ParseError{Path: source, Message: err.Error(), Err: err}
		var decErr *toml.DecodeError
		if errors.As(err, &decErr) {
			pe.Line, pe.Column = decErr.Position()
		}
		return pe
	}
	if s.EnvVariables == nil {
		s.EnvVariables = make(map[string]string)
	}
	return nil
}

// Silent reports whether the tool should run with --silent.
func (s *Settings) Silent() bool {
	return !s.Chatty
}

// ColorEnabled resolves the color setting. When unset, isTerminal decides.
func (s *Settings) ColorEnabled(isTerminal func() bool) bool {
	if s.Color != nil {
		return *s.Color
	}
	if isTerminal == nil {
		return false
	}
	return isTerminal()
}

// Interpreter splits CLIExecutable into the executable and its leading arguments.
func (s *Settings) Interpreter() ([]string, error) {
	words, err := shlex.Split(s.CLIExecutable)
	if err != nil {
		return nil, fmt.Errorf("parse cli executable %q: %w", s.CLIExecutable, err)
	}
	if len(words) == 0 {
		return nil, ErrEmptyExecutable
	}
	return words, nil
}

// Marshal renders the settings as TOML.
func (s *Settings) Marshal() ([]byte, error) {
	return toml.Marshal(s)
}
