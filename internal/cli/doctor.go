package cli

import (
	"github.com/spf13/cobra"

	"hostprov.dev/hostprov/internal/actions/doctor"
	"hostprov.dev/hostprov/internal/cli/helpers"
	"hostprov.dev/hostprov/internal/runtime"
)

// newDoctorCmd creates the doctor command
func newDoctorCmd(factory helpers.ContextFactory, opts *runtime.Options) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check that this host can be provisioned",
		Long: `Run diagnostic checks without changing anything.

The doctor command checks:
  - Host: supported OS, root privileges, SELinux mode and firewalld
  - Tools: the package, service, firewall, SELinux and archive commands
  - Services: whether mysqld and nginx are installed and running`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return helpers.Run(cmd, factory, opts, func(ctx *runtime.Context) error {
				_, err := doctor.Action(ctx)
				return err
			})
		},
	}
}
