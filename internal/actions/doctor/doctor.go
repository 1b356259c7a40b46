// Package doctor provides diagnostic functionality for checking that a host
// can be provisioned by hostprov.
package doctor

import (
	"fmt"

	"hostprov.dev/hostprov/internal/runtime"
)

// Result is the outcome of a doctor run
type Result struct {
	Warnings []string
	Errors   []string
}

// Action runs diagnostic checks on the host and the tools hostprov drives
func Action(ctx *runtime.Context) (*Result, error) {
	splog := ctx.Splog
	res := &Result{}

	splog.Info("Running hostprov doctor...")
	splog.Newline()

	splog.Info("Host:")
	checkHost(ctx, res)
	splog.Newline()

	splog.Info("Tools:")
	checkTools(ctx, res)
	splog.Newline()

	splog.Info("Services:")
	checkServices(ctx)

	splog.Newline()
	switch {
	case len(res.Errors) > 0:
		splog.Warn("Doctor found %d error(s) and %d warning(s).", len(res.Errors), len(res.Warnings))
		for _, e := range res.Errors {
			splog.Error("  %s", e)
		}
		for _, w := range res.Warnings {
			splog.Warn("  %s", w)
		}
		splog.Tip("Fix the errors above and run 'hostprov doctor' again.")
		return res, fmt.Errorf("doctor found %d error(s)", len(res.Errors))
	case len(res.Warnings) > 0:
		splog.Info("Doctor found %d warning(s). This host can be provisioned.", len(res.Warnings))
		for _, w := range res.Warnings {
			splog.Warn("  %s", w)
		}
	default:
		splog.Info("✅ All checks passed. This host can be provisioned.")
	}
	return res, nil
}

func (r *Result) warn(format string, args ...interface{}) string {
	msg := fmt.Sprintf(format, args...)
	r.Warnings = append(r.Warnings, msg)
	return msg
}

func (r *Result) fail(format string, args ...interface{}) string {
	msg := fmt.Sprintf(format, args...)
	r.Errors = append(r.Errors, msg)
	return msg
}
