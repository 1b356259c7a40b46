// Package helpers provides shared helper functions for CLI commands.
package helpers

import (
	"github.com/spf13/cobra"
)

// CompleteInstallArgs is a cobra.ValidArgsFunction for mysql install. Only
// allow_remote, the fifth argument, has a fixed set of values.
func CompleteInstallArgs(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) == 4 {
		return []string{"yes", "no"}, cobra.ShellCompDirectiveNoFileComp
	}
	return nil, cobra.ShellCompDirectiveNoFileComp
}
