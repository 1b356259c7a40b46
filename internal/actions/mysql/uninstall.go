package mysql

import (
	"fmt"

	"hostprov.dev/hostprov/internal/actions"
	"hostprov.dev/hostprov/internal/output"
	"hostprov.dev/hostprov/internal/runtime"
)

// Uninstall removes MySQL. The data directory survives unless PurgeData is
// set, and a backup is always attempted before anything is removed.
func Uninstall(ctx *runtime.Context, opts UninstallOptions) (*output.Report, error) {
	report := output.NewReport("MySQL uninstall", ctx.Splog)
	s := ctx.Settings.MySQL

	if err := actions.CheckHost(ctx, report); err != nil {
		return report, err
	}

	if opts.PurgeData {
		prompt := fmt.Sprintf("Permanently delete %s, %s and %s?", s.DataDir, s.ConfigFile, s.LogFile)
		if err := actions.ConfirmPurge(ctx, opts.AssumeYes, prompt); err != nil {
			return report, err
		}
	}

	actions.StopService(ctx, report, s.Service)
	actions.Backup(ctx, report, "mysql", s.DataDir, s.ConfigFile)

	if err := actions.RemovePackages(ctx, report, s.Packages); err != nil {
		return report, err
	}

	if opts.PurgeData {
		actions.PurgePaths(ctx, report, s.DataDir, s.LogFile, s.ConfigFile)
	} else {
		report.Skipped(actions.StepPurge, "kept %s (pass --purge-data to remove)", s.DataDir)
	}

	if opts.RemoveKeys {
		actions.RemoveKeys(ctx, report, s.KeyPattern)
	} else {
		report.Skipped(actions.StepRemoveKeys, "pass --remove-keys to remove")
	}

	actions.CleanCache(ctx, report)
	actions.NoteFinalState(ctx, report, s.Service, s.Binary, s.DataDir)
	return report, report.Err()
}
