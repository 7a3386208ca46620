package suite

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/roach88/bandprobe/internal/driver"
	"github.com/roach88/bandprobe/internal/plan"
	"github.com/roach88/bandprobe/internal/probe"
)

// RootEnvVar is set in every child process so a target tool living in the
// harness's own module tree can resolve the repository root.
const RootEnvVar = "BANDPROBE_ROOT"

// Options configures a suite run.
type Options struct {
	// Tool is the argv prefix launching the target tool. Required.
	Tool []string

	// Root is the directory datasets are discovered under. Defaults to ".".
	Root string

	// Pattern is the dataset glob, relative to Root. Defaults to
	// DefaultPattern.
	Pattern string

	// OutDir receives all artifacts: summary, help text, dataset list,
	// per-band directories. Required.
	OutDir string

	// Max limits the number of bands processed; 0 means no limit.
	Max int

	// FailFast stops the suite after the first failed band.
	FailFast bool

	// Timeout bounds each attempt's child process. Zero means no limit.
	Timeout time.Duration

	// Tokens generates run IDs. Defaults to UUIDv7Generator.
	Tokens TokenGenerator

	// Runner executes attempts. Defaults to an ExecRunner rooted at Root.
	// Tests substitute a scripted runner.
	Runner driver.Runner

	// Logger defaults to slog.Default.
	Logger *slog.Logger
}

// Runner drives the full band suite: one introspection, then the
// plan -> drive pipeline per discovered band.
type Runner struct {
	opts   Options
	runner driver.Runner
	logger *slog.Logger
	tokens TokenGenerator
}

// New creates a suite runner, applying defaults for unset options.
func New(opts Options) *Runner {
	if opts.Root == "" {
		opts.Root = "."
	}
	if opts.Pattern == "" {
		opts.Pattern = DefaultPattern
	}
	if opts.Tokens == nil {
		opts.Tokens = UUIDv7Generator{}
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Runner == nil {
		root, err := filepath.Abs(opts.Root)
		if err != nil {
			root = opts.Root
		}
		opts.Runner = &driver.ExecRunner{
			Dir:     opts.Root,
			Env:     []string{RootEnvVar + "=" + root},
			Timeout: opts.Timeout,
		}
	}
	return &Runner{
		opts:   opts,
		runner: opts.Runner,
		logger: opts.Logger,
		tokens: opts.Tokens,
	}
}

// Run executes the suite and persists all artifacts into OutDir.
//
// The returned summary is always non-nil and already persisted (best
// effort) even on failure. The error is a RunError for discovery-class
// failures (no datasets, unlaunchable tool) and for artifact I/O problems;
// band failures are not errors, they are summary content.
func (r *Runner) Run(ctx context.Context) (*Summary, error) {
	summary := &Summary{
		RunID:     r.tokens.Generate(),
		StartedAt: time.Now().UTC(),
		Tool:      r.opts.Tool,
		Pattern:   r.opts.Pattern,
	}

	if err := os.MkdirAll(r.opts.OutDir, 0o755); err != nil {
		return summary, WrapRunError(ErrCodeArtifact, "create output directory", err)
	}
	if len(r.opts.Tool) == 0 {
		return r.fail(summary, NewRunError(ErrCodeToolUnavailable, "no target tool configured"))
	}

	r.logger.Info("suite starting", "run_id", summary.RunID, "tool", strings.Join(r.opts.Tool, " "))

	// One introspection per run; the help text is owned by the suite for
	// the run's lifetime.
	help, err := probe.Introspect(ctx, r.runner, r.opts.Tool)
	if err != nil {
		return r.fail(summary, WrapRunError(ErrCodeToolUnavailable, "target tool introspection failed", err))
	}
	if err := writeHelpText(r.opts.OutDir, help); err != nil {
		return summary, WrapRunError(ErrCodeArtifact, "persist help text", err)
	}
	summary.HelpTextPath = HelpTextFileName

	surface := probe.Extract(help)
	r.logger.Debug("surface extracted",
		"flags", len(surface.Flags),
		"subcommands", strings.Join(surface.Subcommands, ","),
	)

	datasets, err := Discover(r.opts.Root, r.opts.Pattern)
	if err != nil {
		return r.fail(summary, WrapRunError(ErrCodeNoDatasets, "dataset discovery failed", err))
	}
	if len(datasets) == 0 {
		return r.fail(summary, NewRunError(ErrCodeNoDatasets,
			fmt.Sprintf("no datasets matched pattern %q under %s", r.opts.Pattern, r.opts.Root)))
	}
	if r.opts.Max > 0 && len(datasets) > r.opts.Max {
		datasets = datasets[:r.opts.Max]
	}
	if err := writeDatasets(r.opts.OutDir, datasets); err != nil {
		return summary, WrapRunError(ErrCodeArtifact, "persist dataset list", err)
	}

	drv := driver.New(r.runner, r.logger)

	for _, dataset := range datasets {
		res, err := r.runBand(ctx, drv, surface, dataset)
		if err != nil {
			// Spawn failures and cancellation abort the whole run.
			return r.fail(summary, err)
		}

		summary.Results = append(summary.Results, res)
		summary.Total++
		if res.OK {
			summary.OKCount++
		} else {
			summary.Failures++
			if r.opts.FailFast {
				r.logger.Warn("fail-fast: stopping after first failed band", "band", res.Band)
				break
			}
		}
	}

	// One passing band is an overall pass.
	summary.OK = summary.OKCount > 0

	if err := WriteSummary(r.opts.OutDir, summary); err != nil {
		return summary, WrapRunError(ErrCodeArtifact, "persist summary", err)
	}

	r.logger.Info("suite finished",
		"run_id", summary.RunID,
		"ok", summary.OK,
		"total", summary.Total,
		"failures", summary.Failures,
	)
	return summary, nil
}

// runBand probes one dataset: builds its attempt plan, drives it, and
// fingerprints whatever the tool produced.
func (r *Runner) runBand(ctx context.Context, drv *driver.Driver, surface probe.Surface, dataset string) (BandResult, error) {
	name := bandName(dataset)
	bandDir := filepath.Join(r.opts.OutDir, "bands", name)
	if err := os.MkdirAll(bandDir, 0o755); err != nil {
		return BandResult{}, WrapRunError(ErrCodeArtifact, "create band directory", err)
	}

	logPath := filepath.Join(bandDir, AttemptLogName)
	p := plan.Build(surface, r.opts.Tool, dataset, bandDir)

	r.logger.Info("band starting", "band", dataset, "attempts_planned", len(p.Attempts))

	start := time.Now()
	outcome, err := drv.Drive(ctx, p, logPath)
	if err != nil {
		if ctx.Err() != nil {
			return BandResult{}, err
		}
		return BandResult{}, WrapRunError(ErrCodeToolUnavailable, "target tool cannot be executed", err)
	}
	seconds := time.Since(start).Seconds()

	produced, err := fingerprintDir(bandDir, r.opts.OutDir)
	if err != nil {
		return BandResult{}, WrapRunError(ErrCodeArtifact, "fingerprint band output", err)
	}

	relLog, err := filepath.Rel(r.opts.OutDir, logPath)
	if err != nil {
		relLog = logPath
	}
	relBand, err := filepath.Rel(r.opts.OutDir, bandDir)
	if err != nil {
		relBand = bandDir
	}

	res := BandResult{
		Band:     dataset,
		OK:       outcome.OK,
		ExitCode: outcome.ExitCode,
		Command:  outcome.Attempt,
		Attempts: outcome.Tried,
		Log:      filepath.ToSlash(relLog),
		OutDir:   filepath.ToSlash(relBand),
		Seconds:  seconds,
		Produced: produced,
	}

	r.logger.Info("band finished",
		"band", dataset,
		"ok", res.OK,
		"exit_code", res.ExitCode,
		"attempts", res.Attempts,
	)
	return res, nil
}

// fail records a run-level failure in the summary, persists it best
// effort, and returns the error.
func (r *Runner) fail(summary *Summary, err error) (*Summary, error) {
	summary.OK = false
	summary.Error = err.Error()
	if writeErr := WriteSummary(r.opts.OutDir, summary); writeErr != nil {
		r.logger.Error("could not persist failure summary", "error", writeErr)
	}
	return summary, err
}

// bandName derives the band identifier from the dataset path: the base
// name without extension.
func bandName(dataset string) string {
	base := filepath.Base(dataset)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
