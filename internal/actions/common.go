package actions

import (
	"fmt"
	"os"
	"strings"

	hperrors "hostprov.dev/hostprov/internal/errors"
	"hostprov.dev/hostprov/internal/output"
	"hostprov.dev/hostprov/internal/runtime"
	"hostprov.dev/hostprov/internal/system"
)

// Step names shared by the install and uninstall sequences
const (
	StepHost         = "Host check"
	StepStop         = "Stop service"
	StepBackup       = "Backup"
	StepRemove       = "Remove packages"
	StepPurge        = "Purge data"
	StepRemoveKeys   = "Remove repository keys"
	StepCleanCache   = "Clean package cache"
	StepFirewall     = "Firewall"
	StepReadiness    = "Wait for service"
	StepEnable       = "Enable service"
	StepInstallPkgs  = "Install packages"
	StepWriteConfig  = "Write configuration"
	StepRestart      = "Restart service"
	StepReload       = "Reload service"
	StepSELinux      = "SELinux"
	StepValidateConf = "Validate configuration"
)

// CheckHost runs the precondition checks and records the detected host.
// Nothing has touched the host when it returns an error.
func CheckHost(ctx *runtime.Context, report *output.Report) error {
	profile, err := ctx.RequireSupportedHost()
	if err != nil {
		return err
	}
	report.OK(StepHost, "%s", profile)
	return nil
}

// ConfirmPurge asks before a destructive purge unless assumeYes is set. A
// refusal, or no way to ask, returns ErrDeclined.
func ConfirmPurge(ctx *runtime.Context, assumeYes bool, prompt string) error {
	if assumeYes {
		return nil
	}
	ok, err := ctx.Confirmer.Confirm(prompt)
	if err != nil {
		return fmt.Errorf("%w: %v", hperrors.ErrDeclined, err)
	}
	if !ok {
		return hperrors.ErrDeclined
	}
	return nil
}

// StopService disables and stops unit. Advisory.
func StopService(ctx *runtime.Context, report *output.Report, unit string) {
	if !system.UnitExists(ctx, ctx.Runner, unit) {
		report.Skipped(StepStop, "%s.service not present", unit)
		return
	}
	if err := system.DisableNow(ctx, ctx.Runner, unit); err != nil {
		report.Warn(StepStop, err)
		return
	}
	report.Changed(StepStop, "%s stopped and disabled", unit)
}

// Backup archives the paths that exist to <backup dir>/<prefix>-backup-<ts>.tar.gz.
// Advisory: a failed backup never blocks the uninstall.
func Backup(ctx *runtime.Context, report *output.Report, prefix string, paths ...string) string {
	existing := system.ExistingPaths(paths)
	if len(existing) == 0 {
		report.Skipped(StepBackup, "nothing to back up")
		return ""
	}

	dest := system.BackupPath(ctx.Settings.Backup.Dir, prefix, ctx.Now())
	if err := system.CreateArchive(ctx, ctx.Runner, dest, existing); err != nil {
		report.Warn(StepBackup, err)
		return ""
	}
	report.Changed(StepBackup, "%s", dest)
	return dest
}

// RemovePackages removes whichever of pkgs are installed. A package manager
// failure is fatal.
func RemovePackages(ctx *runtime.Context, report *output.Report, pkgs []string) error {
	installed := system.InstalledPackages(ctx, ctx.Runner, pkgs)
	if len(installed) == 0 {
		report.Skipped(StepRemove, "not installed")
		return nil
	}
	ctx.Splog.Debug("Removing %s", strings.Join(installed, ", "))
	if err := system.RemovePackages(ctx, ctx.Runner, installed...); err != nil {
		return report.Abort(StepRemove, err)
	}
	report.Changed(StepRemove, "%s", strings.Join(installed, " "))
	return nil
}

// PurgePaths deletes paths recursively. Missing paths are not an error.
func PurgePaths(ctx *runtime.Context, report *output.Report, paths ...string) {
	removed := []string{}
	for _, p := range paths {
		if p == "" || p == "/" {
			continue
		}
		if _, err := os.Lstat(p); os.IsNotExist(err) {
			continue
		}
		if err := os.RemoveAll(p); err != nil {
			report.Fail(StepPurge, fmt.Errorf("failed to remove %s: %w", p, err))
			return
		}
		removed = append(removed, p)
	}
	if len(removed) == 0 {
		report.OK(StepPurge, "nothing to remove")
		return
	}
	report.Changed(StepPurge, "removed %s", strings.Join(removed, ", "))
}

// CleanCache clears the package manager metadata. Advisory.
func CleanCache(ctx *runtime.Context, report *output.Report) {
	if err := system.CleanCache(ctx, ctx.Runner); err != nil {
		report.Warn(StepCleanCache, err)
		return
	}
	report.Changed(StepCleanCache, "dnf clean all")
}

// ApplyFirewall opens or closes rules in the permanent firewalld config and
// reloads when anything changed. Advisory; skipped when firewalld is not running.
func ApplyFirewall(ctx *runtime.Context, report *output.Report, open bool, rules ...system.FirewallRule) {
	if !system.FirewallRunning(ctx, ctx.Runner) {
		report.Skipped(StepFirewall, "firewalld not running")
		return
	}

	changed := []string{}
	for _, rule := range rules {
		present := system.FirewallHasRule(ctx, ctx.Runner, rule)
		switch {
		case open && !present:
			if err := system.FirewallAdd(ctx, ctx.Runner, rule); err != nil {
				report.Warn(StepFirewall, err)
				return
			}
			changed = append(changed, "+"+rule.String())
		case !open && present:
			if err := system.FirewallRemove(ctx, ctx.Runner, rule); err != nil {
				report.Warn(StepFirewall, err)
				return
			}
			changed = append(changed, "-"+rule.String())
		}
	}

	if len(changed) == 0 {
		report.OK(StepFirewall, "no change")
		return
	}
	if err := system.FirewallReload(ctx, ctx.Runner); err != nil {
		report.Warn(StepFirewall, err)
		return
	}
	report.Changed(StepFirewall, "%s", strings.Join(changed, " "))
}

// WaitForService polls check with the configured fixed budget. A timeout is
// a non-fatal failure.
func WaitForService(ctx *runtime.Context, report *output.Report, unit string, check system.CheckFunc) bool {
	r := ctx.Settings.Readiness
	ctx.Splog.Debug("Waiting for %s (%d x %s)", unit, r.Attempts, r.Interval)
	if err := system.WaitReady(ctx, r.Attempts, r.Interval, check); err != nil {
		report.Fail(StepReadiness, fmt.Errorf("%s: %w", unit, err))
		return false
	}
	report.OK(StepReadiness, "%s is ready", unit)
	return true
}

// NoteFinalState records what is left on the host after an uninstall
func NoteFinalState(ctx *runtime.Context, report *output.Report, unit, binary string, dataDirs ...string) {
	if system.UnitExists(ctx, ctx.Runner, unit) {
		report.Note("Service unit %s.service is still present.", unit)
	} else {
		report.Note("Service unit %s.service not present.", unit)
	}

	if path, err := ctx.Runner.LookPath(binary); err == nil {
		report.Note("Binary %s still present at %s.", binary, path)
	} else {
		report.Note("Binary %s not found.", binary)
	}

	for _, dir := range dataDirs {
		if len(system.ExistingPaths([]string{dir})) == 0 {
			report.Note("Data dir removed or not present.")
		} else {
			report.Note("Data dir preserved at %s.", dir)
		}
	}
}

// RemoveKeys erases the imported rpm signing keys whose summary matches
// pattern. Advisory.
func RemoveKeys(ctx *runtime.Context, report *output.Report, pattern string) {
	keys, err := system.ListGPGKeys(ctx, ctx.Runner)
	if err != nil {
		report.Warn(StepRemoveKeys, err)
		return
	}
	matching, err := system.MatchingGPGKeys(keys, pattern)
	if err != nil {
		report.Warn(StepRemoveKeys, err)
		return
	}
	if len(matching) == 0 {
		report.OK(StepRemoveKeys, "no keys match %q", pattern)
		return
	}

	removed := []string{}
	for _, key := range matching {
		if err := system.RemoveGPGKey(ctx, ctx.Runner, key); err != nil {
			report.Warn(StepRemoveKeys, err)
			return
		}
		removed = append(removed, key.Name)
	}
	report.Changed(StepRemoveKeys, "%s", strings.Join(removed, " "))
}
