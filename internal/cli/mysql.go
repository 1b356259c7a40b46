package cli

import (
	"github.com/spf13/cobra"

	"hostprov.dev/hostprov/internal/actions/mysql"
	"hostprov.dev/hostprov/internal/cli/helpers"
	"hostprov.dev/hostprov/internal/output"
	"hostprov.dev/hostprov/internal/runtime"
)

func newMySQLCmd(factory helpers.ContextFactory, opts *runtime.Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mysql",
		Short: "Install or uninstall MySQL 8 Community Server",
	}
	cmd.AddCommand(newMySQLInstallCmd(factory, opts), newMySQLUninstallCmd(factory, opts))
	return cmd
}

func newMySQLInstallCmd(factory helpers.ContextFactory, opts *runtime.Options) *cobra.Command {
	return &cobra.Command{
		Use:   "install <db_name> <db_user> <db_password> [root_password] [allow_remote]",
		Short: "Install MySQL 8 and create an application database and user",
		Long: `Install MySQL 8 from the MySQL community repository, start it, set the root
password and create a database with a user that has all privileges on it.

root_password defaults to the configured default root password. allow_remote is
yes or no (default no): yes binds mysqld to 0.0.0.0, grants the user from any
host and opens the MySQL port in firewalld.`,
		Example: `  hostprov mysql install appdb appuser 'S3cret!'
  hostprov mysql install appdb appuser 'S3cret!' 'R00t!pass' yes`,
		Args:              cobra.ArbitraryArgs,
		ValidArgsFunction: helpers.CompleteInstallArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return helpers.RunReport(cmd, factory, opts, func(ctx *runtime.Context) (*output.Report, error) {
				req, err := mysql.ParseInstallArgs(args, ctx.Settings.MySQL.DefaultRootPassword)
				if err != nil {
					return nil, err
				}
				return mysql.Install(ctx, req)
			})
		},
	}
}

func newMySQLUninstallCmd(factory helpers.ContextFactory, opts *runtime.Options) *cobra.Command {
	var uninstall mysql.UninstallOptions

	cmd := &cobra.Command{
		Use:   "uninstall",
		Short: "Stop and remove MySQL, optionally deleting its data",
		Long: `Stop and remove MySQL. The data directory and server configuration are archived
to the backup directory before anything is removed, and are kept unless
--purge-data is given. --purge-data asks for confirmation unless --yes is set.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return helpers.RunReport(cmd, factory, opts, func(ctx *runtime.Context) (*output.Report, error) {
				return mysql.Uninstall(ctx, uninstall)
			})
		},
	}

	cmd.Flags().BoolVar(&uninstall.PurgeData, "purge-data", false, "Delete the data directory, server log and server configuration")
	cmd.Flags().BoolVar(&uninstall.RemoveKeys, "remove-keys", false, "Remove the MySQL repository signing keys from rpm")
	cmd.Flags().BoolVarP(&uninstall.AssumeYes, "yes", "y", false, "Do not ask for confirmation")

	return cmd
}
