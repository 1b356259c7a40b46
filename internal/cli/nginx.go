package cli

import (
	"github.com/spf13/cobra"

	"hostprov.dev/hostprov/internal/actions/nginx"
	"hostprov.dev/hostprov/internal/cli/helpers"
	"hostprov.dev/hostprov/internal/output"
	"hostprov.dev/hostprov/internal/runtime"
)

func newNginxCmd(factory helpers.ContextFactory, opts *runtime.Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "nginx",
		Short: "Install or uninstall nginx",
	}
	cmd.AddCommand(newNginxInstallCmd(factory, opts), newNginxUninstallCmd(factory, opts))
	return cmd
}

func newNginxInstallCmd(factory helpers.ContextFactory, opts *runtime.Options) *cobra.Command {
	var req nginx.InstallRequest

	cmd := &cobra.Command{
		Use:   "install",
		Short: "Install nginx serving a static site",
		Long: `Install nginx, write a server block for --server-name serving --web-root, check
the configuration with nginx -t and start the service. On SELinux enforcing hosts
the web root is labeled for httpd. The http and https firewalld services are opened
unless --open-firewall=false.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return helpers.RunReport(cmd, factory, opts, func(ctx *runtime.Context) (*output.Report, error) {
				if req.WebRoot == "" {
					req.WebRoot = ctx.Settings.Nginx.WebRoot
				}
				return nginx.Install(ctx, req)
			})
		},
	}

	cmd.Flags().StringVar(&req.ServerName, "server-name", nginx.DefaultServerName, "server_name of the site")
	cmd.Flags().StringVar(&req.WebRoot, "web-root", "", "Directory to serve (default nginx.web_root setting)")
	cmd.Flags().BoolVar(&req.OpenFirewall, "open-firewall", true, "Open the http and https services in firewalld")

	return cmd
}

func newNginxUninstallCmd(factory helpers.ContextFactory, opts *runtime.Options) *cobra.Command {
	var uninstall nginx.UninstallOptions

	cmd := &cobra.Command{
		Use:   "uninstall",
		Short: "Stop and remove nginx, optionally deleting its configuration and content",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return helpers.RunReport(cmd, factory, opts, func(ctx *runtime.Context) (*output.Report, error) {
				return nginx.Uninstall(ctx, uninstall)
			})
		},
	}

	cmd.Flags().BoolVar(&uninstall.PurgeData, "purge-data", false, "Delete the nginx configuration, logs and web root")
	cmd.Flags().BoolVarP(&uninstall.AssumeYes, "yes", "y", false, "Do not ask for confirmation")

	return cmd
}
