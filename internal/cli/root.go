// Package cli wires the hostprov commands to their actions.
package cli

import (
	"github.com/spf13/cobra"

	"hostprov.dev/hostprov/internal/cli/helpers"
	"hostprov.dev/hostprov/internal/runtime"
)

// NewRootCmd creates the root cobra command
func NewRootCmd(version, commit, date string) *cobra.Command {
	return NewRootCmdWithFactory(version, commit, date, runtime.NewContext)
}

// NewRootCmdWithFactory creates the root command with a custom context
// factory, which tests use to run commands against a fake host.
func NewRootCmdWithFactory(version, commit, date string, factory helpers.ContextFactory) *cobra.Command {
	opts := &runtime.Options{}

	rootCmd := &cobra.Command{
		Use:   "hostprov",
		Short: "hostprov installs and removes MySQL 8 and nginx on Amazon Linux 2023 and RHEL 9",
		Long: `hostprov installs, configures and uninstalls MySQL 8 and nginx on Amazon Linux 2023
and RHEL 9 hosts. Every command is safe to re-run and ends with a summary of what
changed.

Exit status is 0 on success, 1 when a precondition fails (unsupported OS, not
root, bad arguments, declined confirmation), 3 when the run finished with failed
steps, and the exit status of the failing command when a fatal step fails.`,
		Version:      version,
		SilenceUsage: true,
	}
	rootCmd.SetVersionTemplate("hostprov {{.Version}}\n")

	rootCmd.PersistentFlags().StringVar(&opts.ConfigFile, "config", "", "Settings file (default /etc/hostprov/hostprov.yaml when present)")
	rootCmd.PersistentFlags().BoolVar(&opts.Debug, "debug", false, "Print every command as it runs")

	rootCmd.AddCommand(
		newMySQLCmd(factory, opts),
		newNginxCmd(factory, opts),
		newDoctorCmd(factory, opts),
		newVersionCmd(version, commit, date),
	)

	return rootCmd
}
