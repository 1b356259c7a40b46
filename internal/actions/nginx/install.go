package nginx

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"hostprov.dev/hostprov/internal/actions"
	"hostprov.dev/hostprov/internal/output"
	"hostprov.dev/hostprov/internal/runtime"
	"hostprov.dev/hostprov/internal/system"
)

// nginx step names
const (
	StepWebRoot = "Web root"
	StepSite    = "Site configuration"
)

// Firewall services opened for the site
var webRules = []system.FirewallRule{system.ServiceRule("http"), system.ServiceRule("https")}

// Install provisions nginx serving req.WebRoot
func Install(ctx *runtime.Context, req InstallRequest) (*output.Report, error) {
	report := output.NewReport("nginx install", ctx.Splog)
	s := ctx.Settings.Nginx
	r := ctx.Runner

	if err := req.Validate(); err != nil {
		return report, err
	}
	if err := actions.CheckHost(ctx, report); err != nil {
		return report, err
	}

	if installed := system.InstalledPackages(ctx, r, s.Packages); len(installed) == len(s.Packages) {
		report.Skipped(actions.StepInstallPkgs, "already installed")
	} else {
		if err := system.InstallPackages(ctx, r, s.Packages...); err != nil {
			return report, report.Abort(actions.StepInstallPkgs, err)
		}
		report.Changed(actions.StepInstallPkgs, "%s", strings.Join(s.Packages, " "))
	}

	ensureWebRoot(report, req.WebRoot)

	site, err := RenderSite(req, s.LogDir)
	if err != nil {
		return report, report.Abort(StepSite, err)
	}
	sitePath := filepath.Join(s.SiteDir, req.SiteName()+".conf")
	siteChanged, err := writeIfChanged(sitePath, site, 0644)
	switch {
	case err != nil:
		return report, report.Abort(StepSite, err)
	case siteChanged:
		report.Changed(StepSite, "%s", sitePath)
	default:
		report.OK(StepSite, "%s", sitePath)
	}

	if _, err := r.Run(ctx, s.Binary, "-t"); err != nil {
		return report, report.Abort(actions.StepValidateConf, err)
	}
	report.OK(actions.StepValidateConf, "%s -t", s.Binary)

	wasActive := system.IsActive(ctx, r, s.Service)
	if err := system.EnableNow(ctx, r, s.Service); err != nil {
		report.Fail(actions.StepEnable, err)
	} else if wasActive {
		report.OK(actions.StepEnable, "%s already running", s.Service)
	} else {
		report.Changed(actions.StepEnable, "%s enabled and started", s.Service)
	}

	ready := actions.WaitForService(ctx, report, s.Service, system.UnitActive(r, s.Service))
	if siteChanged && wasActive && ready {
		if err := system.Reload(ctx, r, s.Service); err != nil {
			report.Warn(actions.StepReload, err)
		} else {
			report.Changed(actions.StepReload, "%s reloaded", s.Service)
		}
	}

	configureSELinux(ctx, report, req.WebRoot)

	if req.OpenFirewall {
		actions.ApplyFirewall(ctx, report, true, webRules...)
	} else {
		report.Skipped(actions.StepFirewall, "--open-firewall=false")
	}

	report.Note("Serving %s as %s on port 80.", req.WebRoot, req.ServerName)
	return report, report.Err()
}

func ensureWebRoot(report *output.Report, webRoot string) {
	if _, err := os.Stat(webRoot); err == nil {
		report.OK(StepWebRoot, "%s", webRoot)
		return
	}
	if err := os.MkdirAll(webRoot, 0755); err != nil {
		report.Fail(StepWebRoot, err)
		return
	}
	if _, err := writeIfChanged(filepath.Join(webRoot, "index.html"), indexPage, 0644); err != nil {
		report.Fail(StepWebRoot, err)
		return
	}
	report.Changed(StepWebRoot, "created %s", webRoot)
}

// configureSELinux lets nginx proxy and read the web root. Only applies in
// enforcing mode; failures are advisory.
func configureSELinux(ctx *runtime.Context, report *output.Report, webRoot string) {
	mode := system.SELinuxMode(ctx, ctx.Runner)
	if mode != "Enforcing" {
		if mode == "" {
			mode = "not available"
		}
		report.Skipped(actions.StepSELinux, "%s", mode)
		return
	}

	r := ctx.Runner
	if err := system.SetBoolean(ctx, r, "httpd_can_network_connect", true); err != nil {
		report.Warn(actions.StepSELinux, err)
		return
	}
	if err := system.AddFileContext(ctx, r, "httpd_sys_content_t", webRoot); err != nil {
		report.Warn(actions.StepSELinux, err)
		return
	}
	if err := system.Restorecon(ctx, r, webRoot); err != nil {
		report.Warn(actions.StepSELinux, fmt.Errorf("restorecon %s: %w", webRoot, err))
		return
	}
	report.Changed(actions.StepSELinux, "httpd_can_network_connect, httpd_sys_content_t on %s", webRoot)
}
