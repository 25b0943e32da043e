package harness

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
)

// Invocation describes one run of the implementation under test.
type Invocation struct {
	Command string
	Args    []string

	// Dir is the working directory, the case directory on disk.
	Dir string

	Stdout io.Writer
	Stderr io.Writer
}

// Invoker runs the implementation under test.
//
// Invoke returns the process exit code. A non-nil error means the process
// crashed: it could not be started, was killed by a signal, or was
// interrupted by ctx. A nonzero exit code alone is not an error.
type Invoker interface {
	Invoke(ctx context.Context, inv Invocation) (exitCode int, err error)
}

// ExecInvoker runs the implementation as a local process.
type ExecInvoker struct {
	// Env is appended to the current process environment.
	Env []string
}

// Invoke implements Invoker.
func (e ExecInvoker) Invoke(ctx context.Context, inv Invocation) (int, error) {
	cmd := exec.CommandContext(ctx, inv.Command, inv.Args...)
	cmd.Dir = inv.Dir
	cmd.Stdout = inv.Stdout
	cmd.Stderr = inv.Stderr
	if len(e.Env) > 0 {
		cmd.Env = append(os.Environ(), e.Env...)
	}

	err := cmd.Run()
	if err == nil {
		return 0, nil
	}

	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		return -1, fmt.Errorf("failed to run %s: %w", inv.Command, err)
	}
	if code := exitErr.ExitCode(); code >= 0 {
		return code, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return -1, fmt.Errorf("%s interrupted: %w", inv.Command, ctxErr)
	}
	return -1, fmt.Errorf("%s terminated: %s", inv.Command, exitErr.ProcessState)
}
