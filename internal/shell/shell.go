// Package shell runs host-style shell command lines through an embedded POSIX
// interpreter, so probes like "command -v" behave the same on every platform.
package shell

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"
)

// Runner executes a shell command line without echoing its output.
// A non-zero exit status is returned as an error.
type Runner interface {
	Quiet(ctx context.Context, command string) error
}

// Interp is a Runner backed by mvdan.cc/sh. Each call gets a fresh interpreter.
type Interp struct {
	// Dir is the working directory; empty means the process cwd
	Dir string
	// Env overrides the process environment when non-nil
	Env []string
}

// NewInterp creates an interpreter-backed Runner rooted at dir
func NewInterp(dir string) *Interp {
	return &Interp{Dir: dir}
}

// Quiet parses and runs command with stdin closed and stdout/stderr discarded
func (s *Interp) Quiet(ctx context.Context, command string) error {
	prog, err := syntax.NewParser().Parse(strings.NewReader(command), "")
	if err != nil {
		return fmt.Errorf("failed to parse shell command: %w", err)
	}

	env := s.Env
	if env == nil {
		env = os.Environ()
	}

	opts := []interp.RunnerOption{
		interp.Env(expand.ListEnviron(env...)),
		interp.StdIO(nil, io.Discard, io.Discard),
	}
	if s.Dir != "" {
		opts = append(opts, interp.Dir(s.Dir))
	}

	runner, err := interp.New(opts...)
	if err != nil {
		return fmt.Errorf("failed to create shell runner: %w", err)
	}

	return runner.Run(ctx, prog)
}

// ExitCode reports the exit status carried by err: 0 for nil, the status for
// an interpreter exit, and -1 for any other failure.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	if status, ok := interp.IsExitStatus(err); ok {
		return int(status)
	}
	return -1
}
