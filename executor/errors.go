package executor

import (
	"fmt"
	"strings"
)

// ProcessError is returned when the executor cannot be launched, exits non-zero or is killed
// on timeout. Stdout and Stderr hold the tail of what the process printed.
type ProcessError struct {
	Method   string
	ExitCode int
	TimedOut bool
	Stdout   string
	Stderr   string
	Err      error
}

func (e *ProcessError) Error() string {
	if e.TimedOut {
		return fmt.Sprintf("executor %s timed out: %v", e.Method, e.Err)
	}
	msg := fmt.Sprintf("executor %s failed (exit %d): %v", e.Method, e.ExitCode, e.Err)
	if tail := strings.TrimSpace(e.Stderr); tail != "" {
		msg += ": " + lastLine(tail)
	}
	return msg
}

func (e *ProcessError) Unwrap() error { return e.Err }

// IOError is returned when the output file the executor was asked to write is missing or
// unreadable after the run.
type IOError struct {
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("read executor output %s: %v", e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

func lastLine(s string) string {
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		return s[i+1:]
	}
	return s
}
