package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/bandprobe/internal/config"
	"github.com/roach88/bandprobe/internal/store"
	"github.com/roach88/bandprobe/internal/suite"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Tool     []string
	Pattern  string
	OutDir   string
	Root     string
	DB       string
	Max      int
	FailFast bool
	Timeout  int
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run [config.yaml]",
		Short: "Run the band suite against the target tool",
		Long: `Run the full band suite: introspect the target tool's help text,
derive candidate invocations per band dataset, and execute them in order
until one is accepted. Artifacts (summary JSON, captured help text,
dataset list, per-band attempt logs) are written to the output directory.

Settings come from an optional YAML config file; flags override it.

Exit codes:
  0 - At least one band passed
  1 - Every processed band failed
  2 - Discovery failure (no datasets, tool not launchable) or bad usage
  3 - Internal harness fault

Examples:
  bandprobe run --tool ./analyze
  bandprobe run ci.yaml --fail-fast
  bandprobe run --tool python3 --tool scripts/run_tool.py --pattern "data/band_*.csv"`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath := ""
			if len(args) == 1 {
				configPath = args[0]
			}
			return runSuite(opts, configPath, cmd)
		},
	}

	cmd.Flags().StringArrayVar(&opts.Tool, "tool", nil, "target tool argv token (repeat for interpreter + script)")
	cmd.Flags().StringVar(&opts.Pattern, "pattern", "", "dataset glob pattern")
	cmd.Flags().StringVar(&opts.OutDir, "outdir", "", "artifact output directory")
	cmd.Flags().StringVar(&opts.Root, "root", ".", "dataset discovery root")
	cmd.Flags().StringVar(&opts.DB, "db", "", "SQLite history database path")
	cmd.Flags().IntVar(&opts.Max, "max", 0, "limit number of bands (0 = no limit)")
	cmd.Flags().BoolVar(&opts.FailFast, "fail-fast", false, "stop on first failed band")
	cmd.Flags().IntVar(&opts.Timeout, "timeout", 0, "per-attempt timeout in seconds (0 = none)")

	return cmd
}

func runSuite(opts *RunOptions, configPath string, cmd *cobra.Command) (err error) {
	logLevel := slog.LevelInfo
	if opts.Verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	cfg, err := resolveConfig(opts, configPath, cmd)
	if err != nil {
		return err
	}

	// Internal faults go to a dedicated artifact with full diagnostic
	// detail and a distinct exit code.
	defer func() {
		if r := recover(); r != nil {
			msg := fmt.Sprintf("internal fault: %v", r)
			if writeErr := suite.WriteFault(cfg.OutDir, msg, string(debug.Stack())); writeErr != nil {
				logger.Error("could not write fault artifact", "error", writeErr)
			}
			logger.Error("internal fault", "panic", r)
			err = NewExitError(ExitInternalFault, msg)
		}
	}()

	parentCtx := cmd.Context()
	if parentCtx == nil {
		parentCtx = context.Background()
	}
	ctx, cancel := context.WithCancel(parentCtx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	go func() {
		select {
		case sig := <-sigChan:
			logger.Info("received signal, aborting suite", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	runner := suite.New(suite.Options{
		Tool:     cfg.Tool,
		Root:     opts.Root,
		Pattern:  cfg.Pattern,
		OutDir:   cfg.OutDir,
		Max:      cfg.Max,
		FailFast: cfg.FailFast,
		Timeout:  time.Duration(cfg.TimeoutSeconds) * time.Second,
		Logger:   logger,
	})

	summary, runErr := runner.Run(ctx)

	if cfg.DB != "" && summary != nil {
		recordHistory(ctx, cfg.DB, summary, logger)
	}

	formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}

	if runErr != nil {
		code := ExitInternalFault
		errCode := "E_INTERNAL"
		switch suite.ErrorCode(runErr) {
		case suite.ErrCodeNoDatasets, suite.ErrCodeToolUnavailable, suite.ErrCodeArtifact:
			code = ExitCommandError
			errCode = "E_" + string(suite.ErrorCode(runErr))
		}
		if outErr := formatter.Error(errCode, runErr.Error(), nil); outErr != nil {
			return outErr
		}
		return WrapExitError(code, "suite aborted", runErr)
	}

	if opts.Format == "json" {
		if outErr := formatter.Success(summary); outErr != nil {
			return outErr
		}
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "Bands OK: %d / %d\n", summary.OKCount, summary.Total)
	}

	if !summary.OK {
		return NewExitError(ExitFailure, fmt.Sprintf("all %d band(s) failed", summary.Total))
	}
	return nil
}

// resolveConfig layers the optional config file under the flags that were
// explicitly set, then validates the merged result.
func resolveConfig(opts *RunOptions, configPath string, cmd *cobra.Command) (config.Config, error) {
	cfg := config.Default()
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			return cfg, WrapExitError(ExitCommandError, "invalid config", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("tool") {
		cfg.Tool = opts.Tool
	}
	if flags.Changed("pattern") {
		cfg.Pattern = opts.Pattern
	}
	if flags.Changed("outdir") {
		cfg.OutDir = opts.OutDir
	}
	if flags.Changed("db") {
		cfg.DB = opts.DB
	}
	if flags.Changed("max") {
		cfg.Max = opts.Max
	}
	if flags.Changed("fail-fast") {
		cfg.FailFast = opts.FailFast
	}
	if flags.Changed("timeout") {
		cfg.TimeoutSeconds = opts.Timeout
	}

	if len(cfg.Tool) == 0 {
		return cfg, NewExitError(ExitCommandError, "no target tool configured: set --tool or the config file's tool list")
	}
	if err := cfg.Validate(); err != nil {
		return cfg, WrapExitError(ExitCommandError, "invalid configuration", err)
	}
	return cfg, nil
}

// recordHistory appends the summary to the SQLite history database. A
// failure to record history does not fail the run; it is logged and the
// suite verdict stands.
func recordHistory(ctx context.Context, dbPath string, summary *suite.Summary, logger *slog.Logger) {
	st, err := store.Open(dbPath)
	if err != nil {
		logger.Error("could not open history database", "path", dbPath, "error", err)
		return
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			logger.Error("error closing history database", "error", closeErr)
		}
	}()

	if err := st.RecordRun(ctx, summary); err != nil {
		logger.Error("could not record run history", "error", err)
		return
	}
	logger.Debug("run recorded", "db", dbPath, "run_id", summary.RunID)
}
