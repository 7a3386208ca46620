package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/bandprobe/internal/store"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	DB    string
	Limit int
	RunID string
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded suite runs",
		Long: `List suite runs recorded in the SQLite history database, newest
first. With --run, show the band results of one run instead.

Examples:
  bandprobe history --db ci_history.db
  bandprobe history --db ci_history.db --limit 5
  bandprobe history --db ci_history.db --run 0190f1f0-...`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return showHistory(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.DB, "db", "", "SQLite history database path (required)")
	cmd.Flags().IntVar(&opts.Limit, "limit", 20, "maximum runs to list (0 = no limit)")
	cmd.Flags().StringVar(&opts.RunID, "run", "", "show band results for this run ID")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func showHistory(opts *HistoryOptions, cmd *cobra.Command) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	st, err := store.Open(opts.DB)
	if err != nil {
		return WrapExitError(ExitCommandError, "cannot open history database", err)
	}
	defer st.Close()

	formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}
	w := cmd.OutOrStdout()

	if opts.RunID != "" {
		bands, err := st.ListBands(ctx, opts.RunID)
		if err != nil {
			return WrapExitError(ExitCommandError, "cannot read band results", err)
		}
		if opts.Format == "json" {
			return formatter.Success(bands)
		}
		for _, b := range bands {
			mark := "FAIL"
			if b.OK {
				mark = "ok"
			}
			fmt.Fprintf(w, "%-4s exit=%-3d attempts=%-3d %.2fs  %s\n", mark, b.ExitCode, b.Attempts, b.Seconds, b.Band)
		}
		return nil
	}

	runs, err := st.ListRuns(ctx, opts.Limit)
	if err != nil {
		return WrapExitError(ExitCommandError, "cannot read run history", err)
	}
	if opts.Format == "json" {
		return formatter.Success(runs)
	}
	for _, r := range runs {
		verdict := "FAIL"
		if r.Passed {
			verdict = "PASS"
		}
		fmt.Fprintf(w, "%s  %s  %d/%d ok  %s\n",
			r.StartedAt.Format("2006-01-02 15:04:05"), verdict, r.OKCount, r.Total, r.Tool)
	}
	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs recorded.")
	}
	return nil
}
