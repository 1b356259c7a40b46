package doctor

import (
	"hostprov.dev/hostprov/internal/host"
	"hostprov.dev/hostprov/internal/runtime"
	"hostprov.dev/hostprov/internal/system"
)

// Tool is an external command hostprov runs
type Tool struct {
	Name     string
	Required bool
	Purpose  string
}

// Tools lists every command the provisioning steps invoke
var Tools = []Tool{
	{Name: "dnf", Required: true, Purpose: "package installs"},
	{Name: "rpm", Required: true, Purpose: "package queries and keys"},
	{Name: "systemctl", Required: true, Purpose: "service management"},
	{Name: "tar", Required: true, Purpose: "uninstall backups"},
	{Name: "firewall-cmd", Purpose: "firewall rules"},
	{Name: "getenforce", Purpose: "SELinux mode"},
	{Name: "semanage", Purpose: "SELinux file contexts"},
	{Name: "mysql", Purpose: "MySQL configuration"},
	{Name: "mysqladmin", Purpose: "MySQL readiness"},
	{Name: "nginx", Purpose: "nginx configuration checks"},
}

func checkHost(ctx *runtime.Context, res *Result) {
	splog := ctx.Splog

	profile, target, err := host.Detect(ctx.Settings.Host.OSReleaseFile, ctx.Targets)
	if err != nil {
		splog.Error("  %s", res.fail("%v", err))
	} else {
		splog.Info("  ✅ %s (%s)", profile, target.Name)
	}

	if ctx.IsRoot != nil && !ctx.IsRoot() {
		splog.Warn("  %s", res.warn("not running as root; install and uninstall need root"))
	} else {
		splog.Info("  ✅ running as root")
	}

	if mode := system.SELinuxMode(ctx, ctx.Runner); mode != "" {
		splog.Info("  ✅ SELinux %s", mode)
	}
	if system.FirewallRunning(ctx, ctx.Runner) {
		splog.Info("  ✅ firewalld running")
	} else {
		splog.Info("  firewalld not running; firewall steps will be skipped")
	}
}

func checkTools(ctx *runtime.Context, res *Result) {
	splog := ctx.Splog
	for _, tool := range Tools {
		path, err := ctx.Runner.LookPath(tool.Name)
		switch {
		case err == nil:
			splog.Info("  ✅ %s (%s)", tool.Name, path)
		case tool.Required:
			splog.Error("  %s", res.fail("%s is not installed or not in PATH (%s)", tool.Name, tool.Purpose))
		default:
			splog.Warn("  %s", res.warn("%s is not installed (%s)", tool.Name, tool.Purpose))
		}
	}
}

func checkServices(ctx *runtime.Context) {
	for _, unit := range []string{ctx.Settings.MySQL.Service, ctx.Settings.Nginx.Service} {
		switch {
		case system.IsActive(ctx, ctx.Runner, unit):
			ctx.Splog.Info("  %s: active", unit)
		case system.UnitExists(ctx, ctx.Runner, unit):
			ctx.Splog.Info("  %s: installed, not running", unit)
		default:
			ctx.Splog.Info("  %s: not installed", unit)
		}
	}
}
