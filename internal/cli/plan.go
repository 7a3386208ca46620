package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/bandprobe/internal/driver"
	"github.com/roach88/bandprobe/internal/plan"
	"github.com/roach88/bandprobe/internal/probe"
)

// PlanOptions holds flags for the plan command.
type PlanOptions struct {
	*RootOptions
	Tool   []string
	OutDir string
}

// NewPlanCommand creates the plan command. It shows the attempt plan the
// prober would try for a dataset without executing any of it, for
// debugging why a particular invocation was (or was not) attempted.
func NewPlanCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &PlanOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "plan <dataset>",
		Short: "Show the attempt plan for a dataset without executing it",
		Long: `Introspect the target tool's help text and print the ordered attempt
plan that the run command would execute for the given dataset. Only the
help invocation is executed; no attempt runs.

Examples:
  bandprobe plan test_data/band_01.csv --tool ./analyze
  bandprobe plan a.csv --tool ./analyze --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return showPlan(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringArrayVar(&opts.Tool, "tool", nil, "target tool argv token (repeat for interpreter + script)")
	cmd.Flags().StringVar(&opts.OutDir, "outdir", "_ci_out", "output directory assumed by the plan")
	_ = cmd.MarkFlagRequired("tool")

	return cmd
}

func showPlan(opts *PlanOptions, dataset string, cmd *cobra.Command) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	help, err := probe.Introspect(ctx, &driver.ExecRunner{}, opts.Tool)
	if err != nil {
		return WrapExitError(ExitCommandError, "cannot introspect target tool", err)
	}
	surface := probe.Extract(help)
	p := plan.Build(surface, opts.Tool, dataset, opts.OutDir)

	if opts.Format == "json" {
		formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}
		return formatter.Success(p)
	}

	w := cmd.OutOrStdout()
	if p.InputFlag != "" {
		fmt.Fprintf(w, "input flag:  %s\n", p.InputFlag)
	}
	if p.OutputFlag != "" {
		fmt.Fprintf(w, "output flag: %s\n", p.OutputFlag)
	}
	fmt.Fprintf(w, "attempts: %d\n", len(p.Attempts))
	for _, a := range p.Attempts {
		fmt.Fprintf(w, "  %s\n", a.String())
	}
	return nil
}
