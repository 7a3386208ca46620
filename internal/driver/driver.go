package driver

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/roach88/bandprobe/internal/plan"
)

// usageExitCode is the exit status the target tool is assumed to use when
// the supplied arguments were not understood. This convention is an
// external assumption; keep every use behind IsUsageExit so an alternate
// convention can be substituted without touching the search loop.
const usageExitCode = 2

// IsUsageExit reports whether code signals that the tool rejected the
// invocation's shape rather than failing on the work itself.
func IsUsageExit(code int) bool {
	return code == usageExitCode
}

// Outcome is the final result of driving one plan.
type Outcome struct {
	// Attempt is the invocation that produced ExitCode: the first one the
	// tool accepted, or the plan's last entry when every attempt was a
	// usage error.
	Attempt plan.Attempt

	// ExitCode of the final attempt. 0 means success; 2 means the whole
	// plan was exhausted on usage errors.
	ExitCode int

	// OK is true only for a zero exit.
	OK bool

	// Tried counts how many attempts actually ran.
	Tried int
}

// Driver walks attempt plans.
type Driver struct {
	Runner Runner
	Logger *slog.Logger
}

// New returns a Driver using the given runner. A nil logger falls back to
// slog.Default.
func New(r Runner, logger *slog.Logger) *Driver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Driver{Runner: r, Logger: logger}
}

// Drive executes the plan's attempts strictly in order, recording every
// attempt (command line, captured output, exit code) in the log file at
// logPath. The log is truncated on open, so after a re-run into the same
// output directory it holds only the latest run's attempts.
//
// A usage exit moves to the next attempt; any other exit code stops the
// search immediately and becomes the outcome. If the plan is exhausted the
// outcome is the last attempt with the usage exit code and OK=false.
//
// Errors are reserved for harness-level failures: an unlaunchable tool,
// an unwritable log, or context cancellation. Those abort the run.
func (d *Driver) Drive(ctx context.Context, p plan.Plan, logPath string) (Outcome, error) {
	if len(p.Attempts) == 0 {
		return Outcome{}, fmt.Errorf("drive: empty plan")
	}

	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return Outcome{}, fmt.Errorf("drive: open attempt log: %w", err)
	}
	defer logFile.Close()

	for i, attempt := range p.Attempts {
		if err := ctx.Err(); err != nil {
			return Outcome{}, fmt.Errorf("drive: %w", err)
		}

		code, out, err := d.Runner.Run(ctx, attempt)
		if err != nil {
			return Outcome{}, fmt.Errorf("drive: %w", err)
		}

		if err := writeAttemptRecord(logFile, attempt, out, code); err != nil {
			return Outcome{}, fmt.Errorf("drive: %w", err)
		}

		d.Logger.Debug("attempt finished",
			"attempt", i+1,
			"of", len(p.Attempts),
			"command", attempt.String(),
			"exit_code", code,
		)

		if !IsUsageExit(code) {
			return Outcome{
				Attempt:  attempt,
				ExitCode: code,
				OK:       code == 0,
				Tried:    i + 1,
			}, nil
		}
	}

	last := p.Attempts[len(p.Attempts)-1]
	return Outcome{
		Attempt:  last,
		ExitCode: usageExitCode,
		OK:       false,
		Tried:    len(p.Attempts),
	}, nil
}

// writeAttemptRecord appends one attempt to the per-band log. Nothing is
// silently dropped: superseded attempts stay in the log for debugging.
func writeAttemptRecord(w io.Writer, attempt plan.Attempt, output []byte, code int) error {
	if _, err := fmt.Fprintf(w, "$ %s\n", attempt.String()); err != nil {
		return fmt.Errorf("write attempt log: %w", err)
	}
	if len(output) > 0 {
		if _, err := w.Write(output); err != nil {
			return fmt.Errorf("write attempt log: %w", err)
		}
		if output[len(output)-1] != '\n' {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return fmt.Errorf("write attempt log: %w", err)
			}
		}
	}
	if _, err := fmt.Fprintf(w, "exit %d\n\n", code); err != nil {
		return fmt.Errorf("write attempt log: %w", err)
	}
	return nil
}
