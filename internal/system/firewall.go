package system

import (
	"context"
)

// FirewallRule is either a port ("3306/tcp") or a named service ("http")
type FirewallRule struct {
	Port    string
	Service string
}

// PortRule builds a rule for a port/protocol pair
func PortRule(port string) FirewallRule {
	return FirewallRule{Port: port}
}

// ServiceRule builds a rule for a firewalld service name
func ServiceRule(service string) FirewallRule {
	return FirewallRule{Service: service}
}

func (f FirewallRule) String() string {
	if f.Port != "" {
		return f.Port
	}
	return f.Service
}

func (f FirewallRule) flag(verb string) string {
	if f.Port != "" {
		return "--" + verb + "-port=" + f.Port
	}
	return "--" + verb + "-service=" + f.Service
}

// FirewallRunning reports whether firewalld is installed and running
func FirewallRunning(ctx context.Context, r Runner) bool {
	if !Available(r, "firewall-cmd") {
		return false
	}
	_, err := r.Run(ctx, "firewall-cmd", "--state")
	return err == nil
}

// FirewallHasRule reports whether the permanent configuration holds rule.
// firewall-cmd --query-* exits 1 for "no".
func FirewallHasRule(ctx context.Context, r Runner, rule FirewallRule) bool {
	_, err := r.Run(ctx, "firewall-cmd", "--permanent", rule.flag("query"))
	return err == nil
}

// FirewallAdd adds a permanent rule
func FirewallAdd(ctx context.Context, r Runner, rule FirewallRule) error {
	_, err := r.Run(ctx, "firewall-cmd", "--permanent", rule.flag("add"))
	return err
}

// FirewallRemove removes a permanent rule
func FirewallRemove(ctx context.Context, r Runner, rule FirewallRule) error {
	_, err := r.Run(ctx, "firewall-cmd", "--permanent", rule.flag("remove"))
	return err
}

// FirewallReload applies the permanent configuration to the runtime
func FirewallReload(ctx context.Context, r Runner) error {
	_, err := r.Run(ctx, "firewall-cmd", "--reload")
	return err
}
