package mysql

import (
	"strings"

	"hostprov.dev/hostprov/internal/actions"
	"hostprov.dev/hostprov/internal/output"
	"hostprov.dev/hostprov/internal/runtime"
	"hostprov.dev/hostprov/internal/system"
)

// MySQL step names
const (
	StepRepository     = "MySQL repository"
	StepRepositoryKey  = "Repository key"
	StepServerPackage  = "Server package"
	StepRootCredential = "Root credential"
	StepRootDefault    = "Root password"
	StepAppAccount     = "Database and user"
	StepBindAddress    = "Bind address"
)

// Install provisions MySQL 8 and the application database and account. It
// returns the report together with nil, a fatal error, or ErrDegraded.
func Install(ctx *runtime.Context, req InstallRequest) (*output.Report, error) {
	report := output.NewReport("MySQL install", ctx.Splog)
	s := ctx.Settings.MySQL
	r := ctx.Runner

	if err := req.Validate(); err != nil {
		return report, err
	}
	if err := actions.CheckHost(ctx, report); err != nil {
		return report, err
	}

	if system.IsInstalled(ctx, r, s.ServerPackage) {
		report.Skipped(StepRepository, "already installed")
		report.Skipped(StepRepositoryKey, "already installed")
		report.Skipped(StepServerPackage, "already installed")
	} else {
		if err := system.InstallPackages(ctx, r, s.RepoRPMURL); err != nil {
			return report, report.Abort(StepRepository, err)
		}
		report.Changed(StepRepository, "%s", s.RepoRPMURL)

		if err := system.ImportKey(ctx, r, s.GPGKeyURL); err != nil {
			report.Warn(StepRepositoryKey, err)
		} else {
			report.Changed(StepRepositoryKey, "%s", s.GPGKeyURL)
		}

		if err := system.InstallPackages(ctx, r, s.ServerPackage); err != nil {
			return report, report.Abort(StepServerPackage, err)
		}
		report.Changed(StepServerPackage, "%s", s.ServerPackage)
	}

	// A service that fails to start is not fatal: readiness and the SQL
	// steps below fail on their own and the run ends degraded.
	wasActive := system.IsActive(ctx, r, s.Service)
	if err := system.EnableNow(ctx, r, s.Service); err != nil {
		report.Fail(actions.StepEnable, err)
	} else if wasActive {
		report.OK(actions.StepEnable, "%s already running", s.Service)
	} else {
		report.Changed(actions.StepEnable, "%s enabled and started", s.Service)
	}

	actions.WaitForService(ctx, report, s.Service, system.MySQLPing(r))

	client := NewClient(r)
	BootstrapRoot(ctx, report, client, req)
	if req.DefaultRoot {
		report.Warnf(StepRootDefault, "using the built-in default root password; pass root_password to choose one")
	}

	ensureAccount(ctx, report, client, req)
	configureBindAddress(ctx, report, req)
	actions.ApplyFirewall(ctx, report, req.AllowRemote, system.PortRule(s.MySQLPortRule()))

	report.Note("Database %s with user %s@%s.", req.DBName, req.DBUser, req.AccountHost())
	report.Note("mysqld listens on %s:%d.", req.BindAddress(), s.Port)
	return report, report.Err()
}

func ensureAccount(ctx *runtime.Context, report *output.Report, client *Client, req InstallRequest) {
	root := Credential{Label: PathPermanent, Password: req.RootPassword}

	existed := false
	if query, err := AccountStateSQL(req); err == nil {
		out, err := client.Exec(ctx, root, query)
		existed = err == nil && strings.TrimSpace(out) == "2"
	}

	statements, err := AppAccountSQL(req)
	if err != nil {
		report.Fail(StepAppAccount, err)
		return
	}
	if _, err := client.Exec(ctx, root, statements); err != nil {
		report.Fail(StepAppAccount, err)
		return
	}
	if existed {
		report.OK(StepAppAccount, "%s and %s@%s already present", req.DBName, req.DBUser, req.AccountHost())
		return
	}
	report.Changed(StepAppAccount, "created %s and %s@%s", req.DBName, req.DBUser, req.AccountHost())
}

func configureBindAddress(ctx *runtime.Context, report *output.Report, req InstallRequest) {
	s := ctx.Settings.MySQL
	changed, err := UpdateBindAddress(s.ConfigFile, req.BindAddress())
	if err != nil {
		report.Fail(StepBindAddress, err)
		return
	}
	if !changed {
		report.OK(StepBindAddress, "bind-address=%s", req.BindAddress())
		return
	}
	report.Changed(StepBindAddress, "bind-address=%s", req.BindAddress())

	if err := system.Restart(ctx, ctx.Runner, s.Service); err != nil {
		report.Warn(actions.StepRestart, err)
		return
	}
	report.Changed(actions.StepRestart, "%s restarted", s.Service)
}
