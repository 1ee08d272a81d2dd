// Package launcher runs external programs as child processes and reports
// how they terminated. The parent blocks until the child finishes; there
// is no job control and no cancellation of a running child.
package launcher

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"syscall"

	"go.uber.org/zap"
	"golang.org/x/sys/unix"
)

// ExitCodeNotFound is the distinguished status for a program that could
// not be found or executed, matching the usual shell convention.
const ExitCodeNotFound = 127

// Outcome describes one external command execution.
type Outcome struct {
	Program  string
	ExitCode int
	Signaled bool
	Signal   unix.Signal
	// StartErr is set when process creation itself failed (resource
	// exhaustion), as opposed to the program merely being missing.
	StartErr error
}

// Report renders the one-line status the shell prints after the child
// terminates. Empty for a silent zero-status success.
func (o Outcome) Report() string {
	switch {
	case o.StartErr != nil:
		return fmt.Sprintf("guish: failed to start '%s': %v", o.Program, o.StartErr)
	case o.Signaled:
		return fmt.Sprintf("[ Program '%s' terminated by signal %d (%s) ]", o.Program, int(o.Signal), unix.SignalName(o.Signal))
	case o.ExitCode != 0:
		return fmt.Sprintf("[ Program '%s' returned exit code %d ]", o.Program, o.ExitCode)
	default:
		return ""
	}
}

// Launcher creates child processes that inherit the shell's standard
// streams and environment. The streams are injectable for tests.
type Launcher struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	logger *zap.Logger
}

func NewLauncher(logger *zap.Logger) *Launcher {
	return &Launcher{
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		logger: logger,
	}
}

// Run resolves name on PATH, launches it with args, and waits for
// termination. A missing or unexecutable program produces a diagnostic on
// the error stream and the distinguished 127 status; the shell itself is
// never affected by the child's fate.
func (l *Launcher) Run(name string, args []string) Outcome {
	outcome := Outcome{Program: name}

	cmd := exec.Command(name, args...)
	cmd.Stdin = l.Stdin
	cmd.Stdout = l.Stdout
	cmd.Stderr = l.Stderr
	// Environment is inherited from the parent by default.

	err := cmd.Start()
	if err != nil {
		if isLookupFailure(err) {
			errno := errnoOf(err)
			fmt.Fprintf(l.Stderr, "The program '%s' seems missing. Error code is: %d (%s)\n",
				name, int(errno), errno.Error())
			l.logger.Debug("program not found", zap.String("program", name), zap.Error(err))
			outcome.ExitCode = ExitCodeNotFound
			return outcome
		}

		// Process creation itself failed; no child exists.
		l.logger.Warn("failed to start child process", zap.String("program", name), zap.Error(err))
		outcome.StartErr = err
		outcome.ExitCode = -1
		return outcome
	}

	err = cmd.Wait()
	if err == nil {
		outcome.ExitCode = 0
		return outcome
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		ws, ok := exitErr.Sys().(syscall.WaitStatus)
		if ok && unix.WaitStatus(ws).Signaled() {
			outcome.Signaled = true
			outcome.Signal = unix.WaitStatus(ws).Signal()
			outcome.ExitCode = 128 + int(outcome.Signal)
			l.logger.Debug("child terminated by signal",
				zap.String("program", name), zap.String("signal", unix.SignalName(outcome.Signal)))
			return outcome
		}
		outcome.ExitCode = exitErr.ExitCode()
		return outcome
	}

	// Wait itself failed; treat like a start failure.
	l.logger.Warn("failed to wait for child process", zap.String("program", name), zap.Error(err))
	outcome.StartErr = err
	outcome.ExitCode = -1
	return outcome
}

// isLookupFailure reports whether err means the program could not be
// found or executed, rather than the spawn failing for resource reasons.
func isLookupFailure(err error) bool {
	if errors.Is(err, exec.ErrNotFound) {
		return true
	}
	var execErr *exec.Error
	if errors.As(err, &execErr) {
		return true
	}
	return errors.Is(err, unix.ENOENT) || errors.Is(err, unix.EACCES) || errors.Is(err, unix.ENOEXEC)
}

// errnoOf digs the underlying errno out of an exec lookup error, falling
// back to ENOENT when the error carries none.
func errnoOf(err error) unix.Errno {
	var errno unix.Errno
	if errors.As(err, &errno) {
		return errno
	}
	return unix.ENOENT
}
