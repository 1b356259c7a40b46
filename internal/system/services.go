package system

import (
	"context"
	"strings"
)

// EnableNow enables a unit at boot and starts it
func EnableNow(ctx context.Context, r Runner, unit string) error {
	_, err := r.Run(ctx, "systemctl", "enable", "--now", unit)
	return err
}

// DisableNow stops a unit and disables it at boot
func DisableNow(ctx context.Context, r Runner, unit string) error {
	_, err := r.Run(ctx, "systemctl", "disable", "--now", unit)
	return err
}

// Restart restarts a unit
func Restart(ctx context.Context, r Runner, unit string) error {
	_, err := r.Run(ctx, "systemctl", "restart", unit)
	return err
}

// Reload asks a unit to reload its configuration
func Reload(ctx context.Context, r Runner, unit string) error {
	_, err := r.Run(ctx, "systemctl", "reload", unit)
	return err
}

// IsActive reports whether a unit is running
func IsActive(ctx context.Context, r Runner, unit string) bool {
	_, err := r.Run(ctx, "systemctl", "is-active", "--quiet", unit)
	return err == nil
}

// UnitExists reports whether systemd has a unit file for unit
func UnitExists(ctx context.Context, r Runner, unit string) bool {
	if !strings.Contains(unit, ".") {
		unit += ".service"
	}
	out, err := r.Run(ctx, "systemctl", "list-unit-files", unit, "--no-legend")
	if err != nil {
		return false
	}
	return strings.TrimSpace(out) != ""
}
