package helpers

import (
	"context"

	"github.com/spf13/cobra"

	"hostprov.dev/hostprov/internal/output"
	"hostprov.dev/hostprov/internal/runtime"
)

// ContextFactory builds the runtime context a command runs with
type ContextFactory func(ctx context.Context, opts runtime.Options) (*runtime.Context, error)

// Run is a helper that provides a runtime context to a command's execution function
func Run(cmd *cobra.Command, factory ContextFactory, opts *runtime.Options, fn func(ctx *runtime.Context) error) error {
	ctx, err := factory(cmd.Context(), *opts)
	if err != nil {
		return err
	}
	defer func() { _ = ctx.Close() }()
	return fn(ctx)
}

// RunReport runs an action that produces a report and prints the summary.
// Runs rejected before the first step print nothing beyond the error.
func RunReport(cmd *cobra.Command, factory ContextFactory, opts *runtime.Options, fn func(ctx *runtime.Context) (*output.Report, error)) error {
	return Run(cmd, factory, opts, func(ctx *runtime.Context) error {
		report, err := fn(ctx)
		if report != nil && len(report.Steps) > 0 {
			ctx.Splog.Newline()
			ctx.Splog.Page(report.Render())
		}
		return err
	})
}
