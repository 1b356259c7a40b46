package nginx

import (
	"fmt"

	"hostprov.dev/hostprov/internal/actions"
	"hostprov.dev/hostprov/internal/output"
	"hostprov.dev/hostprov/internal/runtime"
)

// Uninstall removes nginx. Configuration, logs and the web root survive
// unless PurgeData is set.
func Uninstall(ctx *runtime.Context, opts UninstallOptions) (*output.Report, error) {
	report := output.NewReport("nginx uninstall", ctx.Splog)
	s := ctx.Settings.Nginx

	if err := actions.CheckHost(ctx, report); err != nil {
		return report, err
	}

	if opts.PurgeData {
		prompt := fmt.Sprintf("Permanently delete %s, %s and %s?", s.ConfDir, s.LogDir, s.WebRoot)
		if err := actions.ConfirmPurge(ctx, opts.AssumeYes, prompt); err != nil {
			return report, err
		}
	}

	actions.StopService(ctx, report, s.Service)
	actions.Backup(ctx, report, "nginx", s.ConfDir, s.WebRoot)

	if err := actions.RemovePackages(ctx, report, s.Packages); err != nil {
		return report, err
	}

	actions.ApplyFirewall(ctx, report, false, webRules...)

	if opts.PurgeData {
		actions.PurgePaths(ctx, report, s.ConfDir, s.LogDir, s.WebRoot)
	} else {
		report.Skipped(actions.StepPurge, "kept %s (pass --purge-data to remove)", s.WebRoot)
	}

	actions.CleanCache(ctx, report)
	actions.NoteFinalState(ctx, report, s.Service, s.Binary, s.WebRoot)
	return report, report.Err()
}
