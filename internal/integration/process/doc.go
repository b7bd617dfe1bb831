// Package process spawns and tracks the external tool's child processes.
//
// Children inherit the caller's standard streams by default, so the tool's
// output reaches the user unmodified. Each spawn returns a *Process handle
// that callers may ignore (fire and forget) or use to await the exit code.
//
// # Supervisor
//
//	supervisor := process.NewSupervisor()
//	defer supervisor.Shutdown(5 * time.Second)
//
//	proc, err := supervisor.Spawn(ctx, process.Spec{
//	    Name:    "compile",
//	    Command: "node",
//	    Args:    []string{"gulp.js", "compile"},
//	})
//	if err != nil {
//	    return err
//	}
//
//	code, err := proc.Wait(ctx)
//
// # Thread Safety
//
// Both Supervisor and Process are safe for concurrent use.
package process
