package driver

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"time"
)

// Runner executes one command line and reports its exit code and merged
// stdout+stderr. Implementations must treat a non-zero exit as a normal
// outcome, not an error; err is reserved for failures to launch at all.
type Runner interface {
	Run(ctx context.Context, argv []string) (exitCode int, output []byte, err error)
}

// ExecRunner runs command lines as real child processes.
type ExecRunner struct {
	// Dir is the working directory for the child. Empty means inherit.
	Dir string

	// Env holds extra environment entries appended to the inherited
	// environment, e.g. the harness root marker.
	Env []string

	// Timeout bounds a single attempt. Zero means no limit.
	Timeout time.Duration
}

// Run launches argv and waits for it to finish, capturing merged output.
//
// The child inherits the harness environment plus r.Env. A non-zero exit
// is returned as (code, output, nil); only spawn failures (missing
// executable, permission, context cancellation before start) produce an
// error.
func (r *ExecRunner) Run(ctx context.Context, argv []string) (int, []byte, error) {
	if len(argv) == 0 {
		return 0, nil, fmt.Errorf("exec runner: empty command line")
	}

	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = r.Dir
	cmd.Env = append(os.Environ(), r.Env...)

	out, err := cmd.CombinedOutput()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return exitErr.ExitCode(), out, nil
		}
		return 0, out, fmt.Errorf("launch %q: %w", argv[0], err)
	}
	return 0, out, nil
}
