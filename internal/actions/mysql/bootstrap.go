package mysql

import (
	"fmt"

	"hostprov.dev/hostprov/internal/output"
	"hostprov.dev/hostprov/internal/runtime"
)

// Bootstrap paths, in the order they are tried
const (
	PathPermanent    = "permanent"
	PathTemporary    = "temporary"
	PathPasswordless = "passwordless"
	PathFallback     = "fallback"
)

// BootstrapRoot makes req.RootPassword the root credential. The first path
// that works wins; it returns the path taken, or "" when none worked.
func BootstrapRoot(ctx *runtime.Context, report *output.Report, client *Client, req InstallRequest) string {
	permanent := Credential{Label: PathPermanent, Password: req.RootPassword}
	if client.Works(ctx, permanent) {
		report.OK(StepRootCredential, "root password already set")
		return PathPermanent
	}

	alter, err := RootPasswordSQL(req)
	if err != nil {
		report.Fail(StepRootCredential, err)
		return ""
	}

	tmp, found, err := ReadTemporaryPassword(ctx.Settings.MySQL.LogFile)
	if err != nil {
		ctx.Splog.Debug("%v", err)
	}
	if found {
		cred := Credential{Label: PathTemporary, Password: tmp, Expired: true}
		if _, err := client.Exec(ctx, cred, alter); err == nil {
			report.Changed(StepRootCredential, "set from the temporary password")
			return PathTemporary
		}
		ctx.Splog.Debug("Temporary password rejected, trying passwordless root")
	}

	passwordless := Credential{Label: PathPasswordless}
	if client.Works(ctx, passwordless) {
		if _, err := client.Exec(ctx, passwordless, alter); err != nil {
			report.Fail(StepRootCredential, err)
			return ""
		}
		report.Changed(StepRootCredential, "set through passwordless root")
		return PathPasswordless
	}

	// Nothing is known to work: try the change anyway and check the result
	_, alterErr := client.Exec(ctx, passwordless, alter)
	if client.Works(ctx, permanent) {
		report.Warnf(StepRootCredential, "set through the unauthenticated fallback; no known credential applied, verify root access")
		return PathFallback
	}
	if alterErr == nil {
		alterErr = fmt.Errorf("root password could not be verified")
	}
	report.Fail(StepRootCredential, fmt.Errorf("no credential path worked (temporary, passwordless, fallback): %w", alterErr))
	return ""
}
