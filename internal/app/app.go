// Package app manages application processes for automation sessions:
// launching an executable, attaching to a running process by pid or name,
// and waiting for exit. The process table is consulted through the
// platform.ProcessSystem contract.
package app

import (
	"errors"
	"fmt"
	"time"

	"uiauto/internal/platform"
)

// ErrNotRunning is returned when an operation needs a live process and the
// target has already exited.
var ErrNotRunning = errors.New("process is not running")

// ErrProcessNotFound is returned when no process matches the requested
// name or pid.
var ErrProcessNotFound = errors.New("process not found")

// Application is an owned handle to one application process. Release it
// with Close when done; closing the handle does not affect the process.
type Application struct {
	proc platform.Process
}

// Launch starts an executable with arguments and attaches to it.
func Launch(ps platform.ProcessSystem, exe string, args []string) (*Application, error) {
	if ps == nil {
		return nil, fmt.Errorf("no process system available")
	}
	proc, err := ps.Launch(exe, args)
	if err != nil {
		return nil, fmt.Errorf("launch %s: %w", exe, err)
	}
	return &Application{proc: proc}, nil
}

// AttachPID attaches to a running process by pid.
func AttachPID(ps platform.ProcessSystem, pid int) (*Application, error) {
	if ps == nil {
		return nil, fmt.Errorf("no process system available")
	}
	proc, err := ps.Open(pid)
	if err != nil {
		return nil, fmt.Errorf("attach to pid %d: %w", pid, err)
	}
	return &Application{proc: proc}, nil
}

// AttachName attaches to the first running process whose executable name
// matches name (case-insensitive, platform rules).
func AttachName(ps platform.ProcessSystem, name string) (*Application, error) {
	if ps == nil {
		return nil, fmt.Errorf("no process system available")
	}
	pids, err := ps.PIDsByName(name)
	if err != nil {
		return nil, fmt.Errorf("look up process %q: %w", name, err)
	}
	if len(pids) == 0 {
		return nil, fmt.Errorf("%q: %w", name, ErrProcessNotFound)
	}
	return AttachPID(ps, pids[0])
}

// PID returns the process ID.
func (a *Application) PID() int { return a.proc.PID() }

// Running reports whether the process is still alive.
func (a *Application) Running() bool { return a.proc.Running() }

// Terminate forcibly ends the process. It fails with ErrNotRunning if the
// process has already exited.
func (a *Application) Terminate() error {
	if !a.proc.Running() {
		return fmt.Errorf("pid %d: %w", a.proc.PID(), ErrNotRunning)
	}
	if err := a.proc.Terminate(); err != nil {
		return fmt.Errorf("terminate pid %d: %w", a.proc.PID(), err)
	}
	return nil
}

// Wait blocks until the process exits and returns its exit code. A zero
// timeout waits forever.
func (a *Application) Wait(timeout time.Duration) (int, error) {
	code, err := a.proc.Wait(timeout)
	if err != nil {
		return 0, fmt.Errorf("wait for pid %d: %w", a.proc.PID(), err)
	}
	return code, nil
}

// Close releases the process handle.
func (a *Application) Close() error {
	return a.proc.Close()
}
