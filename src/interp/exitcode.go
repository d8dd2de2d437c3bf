package interp

import (
	"os/exec"
	"syscall"
)

// exitCodeOf extracts a process's exit code from the error Cmd.Wait
// returns, treating a nil error as success and any non-ExitError as the
// generic internal-error code.
func exitCodeOf(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if ok := asExitError(err, &exitErr); ok {
		if status, ok := exitErr.Sys().(syscall.WaitStatus); ok {
			if status.Signaled() {
				// Mirrors the source's convention of reporting a
				// signal-terminated process as the negative signal number
				// (Python's os.wait treats the exit code as a signed
				// char); aggregateExit's pipe_err fold depends on that
				// sign to tell a signal death from a normal nonzero exit.
				return -int(status.Signal())
			}
			return status.ExitStatus()
		}
		return exitErr.ExitCode()
	}
	return 127
}

func asExitError(err error, target **exec.ExitError) bool {
	if ee, ok := err.(*exec.ExitError); ok {
		*target = ee
		return true
	}
	return false
}

func wasInterrupted(err error) bool {
	var exitErr *exec.ExitError
	if !asExitError(err, &exitErr) {
		return false
	}
	status, ok := exitErr.Sys().(syscall.WaitStatus)
	return ok && status.Signaled() && status.Signal() == syscall.SIGINT
}

// aggregateExit folds each command's exit code into the pipeline's
// overall exit, per spec.md §4.E.2.
//
// Without pipe_err, the aggregate is simply the last command's exit.
// With pipe_err, the first exit seeds the fold; every later exit that's
// negative collapses via min (most negative wins) and every later exit
// that's non-negative collapses via max (largest error code wins),
// compared only within its own sign class. negate then inverts the
// final value's zero/nonzero polarity.
func aggregateExit(exits []int, pipeErr, negate bool) int {
	if len(exits) == 0 {
		return 0
	}
	var exit int
	if !pipeErr {
		exit = exits[len(exits)-1]
	} else {
		exit = exits[0]
		for _, res := range exits[1:] {
			if res < 0 {
				exit = min(exit, res)
			} else {
				exit = max(exit, res)
			}
		}
	}
	if negate {
		if exit == 0 {
			return 1
		}
		return 0
	}
	return exit
}
