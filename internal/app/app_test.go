package app

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/oradew/internal/config"
	"github.com/dshills/oradew/internal/integration/task"
)

// echoSettings runs the tool through sh so the test can see its arguments.
const echoSettings = `cliExecutable = '''sh -c 'printf "%s\n" "$@"' sh'''
`

func writeSettings(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, config.FileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func newTestSession(t *testing.T, opts Options) *Session {
	t.Helper()
	if opts.WorkspacePath == "" {
		opts.WorkspacePath = t.TempDir()
	}
	if opts.StoragePath == "" {
		opts.StoragePath = t.TempDir()
	}
	if opts.Stderr == nil {
		opts.Stderr = &bytes.Buffer{}
	}

	s, err := New(opts)
	require.NoError(t, err)
	t.Cleanup(func() { s.Shutdown(time.Second) })
	return s
}

func TestNew_Defaults(t *testing.T) {
	ws := t.TempDir()
	s := newTestSession(t, Options{WorkspacePath: ws})

	paths := s.Invocation().Paths()
	assert.Equal(t, filepath.Clean(ws), paths.WorkspaceRoot)
	assert.Equal(t, filepath.Join(ws, "node_modules", "gulp", "bin", "gulp.js"), paths.ToolEntry,
		"extension root defaults to the workspace")

	args := s.Invocation().BaseArgs()
	assert.Equal(t, []string{"--silent", "true"}, args[len(args)-2:], "default settings run silent")
	assert.NotNil(t, s.Provider())
	assert.NotNil(t, s.Supervisor())
	assert.NotNil(t, s.Logger())
}

func TestNew_RelativeRoots(t *testing.T) {
	origWD, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(origWD) })
	cwd, err := os.Getwd()
	require.NoError(t, err)

	s := newTestSession(t, Options{WorkspacePath: "./project", StoragePath: "store"})

	ws := filepath.Join(cwd, "project")
	paths := s.Invocation().Paths()
	assert.Equal(t, ws, paths.WorkspaceRoot)
	assert.Equal(t, filepath.Join(cwd, "store"), paths.StorageRoot)
	assert.Equal(t, filepath.Join(ws, "dbconfig.json"), paths.DBConfig)
	assert.Equal(t, filepath.Join(ws, "oradewrc.json"), paths.WSConfig)

	args := s.Invocation().BaseArgs()
	assert.Equal(t, filepath.Join(ws, "node_modules", "gulp", "bin", "gulp.js"), args[0])
	assert.Equal(t, []string{"--cwd", ws}, args[1:3])

	vars := s.Invocation().Environment().Vars()
	for _, k := range []string{task.EnvStoragePath, task.EnvDBConfigPath, task.EnvWSConfigPath} {
		assert.True(t, filepath.IsAbs(vars[k]), "%s = %q is not absolute", k, vars[k])
	}
}

func TestNew_FlagOverrides(t *testing.T) {
	silent, color := false, true
	s := newTestSession(t, Options{Silent: &silent, Color: &color})

	assert.Equal(t, []string{"--color", "true"}, s.Invocation().BaseArgs()[5:])
	assert.True(t, s.Settings().Chatty, "Silent=false makes the session chatty")
}

func TestNew_ColorFromTerminal(t *testing.T) {
	s := newTestSession(t, Options{IsTerminal: func() bool { return true }})

	assert.Contains(t, s.Invocation().BaseArgs(), "--color")
}

func TestNew_SettingsFile(t *testing.T) {
	ws := t.TempDir()
	writeSettings(t, ws, `chatty = true
[envVariables]
NLS_LANG = "AMERICAN_AMERICA.AL32UTF8"
`)
	s := newTestSession(t, Options{WorkspacePath: ws})

	assert.True(t, s.Settings().Chatty)
	assert.Equal(t, "AMERICAN_AMERICA.AL32UTF8", s.Invocation().Environment().Extra["NLS_LANG"])
}

func TestNew_InvalidSettings(t *testing.T) {
	ws := t.TempDir()
	writeSettings(t, ws, "chatty = = true\n")

	_, err := New(Options{WorkspacePath: ws, Stderr: &bytes.Buffer{}})

	var initErr *InitError
	require.ErrorAs(t, err, &initErr)
	assert.Equal(t, "settings", initErr.Component)

	var parseErr *config.ParseError
	assert.ErrorAs(t, err, &parseErr)
}

func TestNew_InvalidLogLevel(t *testing.T) {
	_, err := New(Options{
		WorkspacePath: t.TempDir(),
		StoragePath:   t.TempDir(),
		LogLevel:      "loud",
		Stderr:        &bytes.Buffer{},
	})
	assert.ErrorIs(t, err, ErrInvalidLogLevel)
}

func TestNew_EmptyExecutable(t *testing.T) {
	ws := t.TempDir()
	writeSettings(t, ws, "cliExecutable = \"  \"\n")

	_, err := New(Options{WorkspacePath: ws, Stderr: &bytes.Buffer{}})
	assert.ErrorIs(t, err, config.ErrEmptyExecutable)
}

func TestSession_Tasks(t *testing.T) {
	s := newTestSession(t, Options{})

	tasks := s.Tasks(context.Background())
	assert.Len(t, tasks, len(task.Catalog()))
	assert.Equal(t, uint64(1), s.Metrics().Snapshot().Provides)
}

func TestSession_Dispatch(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}

	ws := t.TempDir()
	writeSettings(t, ws, echoSettings)
	var out bytes.Buffer
	s := newTestSession(t, Options{WorkspacePath: ws, Stdout: &out})

	proc, err := s.Dispatch(context.Background(), []string{"extra", "--flag"})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	code, err := proc.Wait(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, code)
	s.Supervisor().Wait()

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	assert.Equal(t, []string{"extra", "--flag"}, lines[len(lines)-2:])

	snapshot := s.Metrics().Snapshot()
	assert.Equal(t, uint64(1), snapshot.Spawned)
	assert.Equal(t, uint64(1), snapshot.Exited)
}

func TestSession_ShutdownIdempotent(t *testing.T) {
	s := newTestSession(t, Options{})

	s.Shutdown(time.Second)
	s.Shutdown(time.Second)

	_, err := s.Dispatch(context.Background(), []string{"init"})
	assert.ErrorIs(t, err, ErrSessionClosed)
	assert.True(t, s.Supervisor().IsShuttingDown())
}

func TestInitError(t *testing.T) {
	base := errors.New("boom")
	err := &InitError{Component: "settings", Err: base}

	assert.Equal(t, "init settings: boom", err.Error())
	assert.ErrorIs(t, err, base)
}
