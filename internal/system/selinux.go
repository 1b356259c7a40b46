package system

import (
	"context"
	"strings"
)

// SELinuxMode returns the output of getenforce ("Enforcing", "Permissive",
// "Disabled"), or "" when the SELinux tools are not installed.
func SELinuxMode(ctx context.Context, r Runner) string {
	if !Available(r, "getenforce") {
		return ""
	}
	out, err := r.Run(ctx, "getenforce")
	if err != nil {
		return ""
	}
	return strings.TrimSpace(out)
}

// SetBoolean persistently sets an SELinux boolean
func SetBoolean(ctx context.Context, r Runner, name string, on bool) error {
	value := "0"
	if on {
		value = "1"
	}
	_, err := r.Run(ctx, "setsebool", "-P", name, value)
	return err
}

// AddFileContext labels everything below dir with the given type.
// semanage refuses to add a spec twice, so an existing spec is modified instead.
func AddFileContext(ctx context.Context, r Runner, seType, dir string) error {
	spec := strings.TrimSuffix(dir, "/") + "(/.*)?"
	_, err := r.Run(ctx, "semanage", "fcontext", "-a", "-t", seType, spec)
	if err == nil {
		return nil
	}
	if strings.Contains(StderrOf(err), "already defined") {
		_, err = r.Run(ctx, "semanage", "fcontext", "-m", "-t", seType, spec)
	}
	return err
}

// Restorecon relabels path recursively
func Restorecon(ctx context.Context, r Runner, path string) error {
	_, err := r.Run(ctx, "restorecon", "-R", path)
	return err
}
