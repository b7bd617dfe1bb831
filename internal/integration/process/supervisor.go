package process

import (
	"context"
	"io"
	"os"
	"os/exec"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// Spec describes a child process to spawn.
type Spec struct {
	// Name is a display name, usually the task name.
	Name string

	// Command is the executable; resolved through PATH when it has no separator.
	Command string

	// Args are the arguments after the command.
	Args []string

	// Env is the full child environment. Nil inherits the caller's environment.
	Env []string

	// Dir is the working directory. Empty uses the caller's.
	Dir string

	// Stdin, Stdout and Stderr default to the caller's standard streams.
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

func (s Spec) cmd() *exec.Cmd {
	args := make([]string, len(s.Args))
	copy(args, s.Args)

	cmd := exec.Command(s.Command, args...)
	cmd.Env = s.Env
	cmd.Dir = s.Dir

	cmd.Stdin = s.Stdin
	if cmd.Stdin == nil {
		cmd.Stdin = os.Stdin
	}
	cmd.Stdout = s.Stdout
	if cmd.Stdout == nil {
		cmd.Stdout = os.Stdout
	}
	cmd.Stderr = s.Stderr
	if cmd.Stderr == nil {
		cmd.Stderr = os.Stderr
	}
	return cmd
}

// Supervisor tracks spawned child processes.
//
// It does not limit or serialize spawns; overlapping runs of the same
// task are allowed. Supervisor is safe for concurrent use.
type Supervisor struct {
	mu        sync.RWMutex
	processes map[string]*Process
	closed    atomic.Bool

	onProcessExit func(p *Process)
}

// SupervisorOption configures a Supervisor instance.
type SupervisorOption func(*Supervisor)

// WithProcessExitCallback sets a callback for when processes exit.
func WithProcessExitCallback(fn func(p *Process)) SupervisorOption {
	return func(s *Supervisor) {
		s.onProcessExit = fn
	}
}

// NewSupervisor creates a new process supervisor.
func NewSupervisor(opts ...SupervisorOption) *Supervisor {
	s := &Supervisor{
		processes: make(map[string]*Process),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Spawn starts the process described by spec and returns as soon as it is
// running. It never waits for the child to exit.
//
// ctx only gates the start: once running, the child outlives ctx and is
// stopped through Signal, Kill or Shutdown.
func (s *Supervisor) Spawn(ctx context.Context, spec Spec) (*Process, error) {
	if spec.Command == "" {
		return nil, ErrEmptyCommand
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.Start(spec.Name, spec.cmd())
}

// Start starts cmd as a tracked process under a fresh ID.
func (s *Supervisor) Start(name string, cmd *exec.Cmd) (*Process, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed.Load() {
		return nil, ErrSupervisorShutdown
	}

	proc := NewProcess(uuid.NewString(), name, cmd)

	// Start before tracking so failed starts are never listed.
	if err := proc.start(); err != nil {
		return nil, err
	}

	s.processes[proc.ID] = proc
	go s.monitorProcess(proc)

	return proc, nil
}

// monitorProcess watches for process exit and cleans up.
func (s *Supervisor) monitorProcess(proc *Process) {
	<-proc.Done()

	if s.onProcessExit != nil {
		func() {
			// A failing callback must not leave the process tracked forever.
			defer func() { _ = recover() }()
			s.onProcessExit(proc)
		}()
	}

	s.mu.Lock()
	delete(s.processes, proc.ID)
	s.mu.Unlock()
}

// Get returns a process by ID, or nil.
func (s *Supervisor) Get(id string) *Process {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.processes[id]
}

// GetByName returns processes matching the given name.
func (s *Supervisor) GetByName(name string) []*Process {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*Process
	for _, p := range s.processes {
		if p.Name == name {
			result = append(result, p)
		}
	}
	return result
}

// List returns all managed processes.
func (s *Supervisor) List() []*Process {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*Process, 0, len(s.processes))
	for _, p := range s.processes {
		result = append(result, p)
	}
	return result
}

// Count returns the number of managed processes.
func (s *Supervisor) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.processes)
}

// Signal forwards sig to every running process.
func (s *Supervisor) Signal(sig os.Signal) {
	for _, p := range s.List() {
		if p.IsRunning() {
			_ = p.Signal(sig)
		}
	}
}

// Kill kills a process by ID.
func (s *Supervisor) Kill(id string) error {
	proc := s.Get(id)
	if proc == nil {
		return ErrProcessNotFound
	}
	if !proc.IsRunning() {
		return nil
	}
	return proc.Kill()
}

// Shutdown terminates all processes.
//
// It sends SIGTERM and waits up to timeout; processes still running after
// that are killed. Shutdown blocks until all processes are removed.
func (s *Supervisor) Shutdown(timeout time.Duration) {
	if s.closed.Swap(true) {
		return
	}

	procs := s.List()
	if len(procs) == 0 {
		return
	}

	for _, p := range procs {
		if p.IsRunning() {
			_ = p.Terminate()
		}
	}

	done := make(chan struct{})
	go func() {
		for _, p := range procs {
			<-p.Done()
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(timeout):
		for _, p := range procs {
			if p.IsRunning() {
				_ = p.Kill()
			}
		}
		<-done
	}

	s.waitForCleanup()
}

// waitForCleanup waits for monitor goroutines to untrack every process.
func (s *Supervisor) waitForCleanup() {
	for s.Count() > 0 {
		time.Sleep(time.Millisecond)
	}
}

// IsShuttingDown returns true if the supervisor is shutting down.
func (s *Supervisor) IsShuttingDown() bool {
	return s.closed.Load()
}

// Wait blocks until every tracked process has exited and been untracked.
func (s *Supervisor) Wait() {
	for _, p := range s.List() {
		<-p.Done()
	}
	s.waitForCleanup()
}
