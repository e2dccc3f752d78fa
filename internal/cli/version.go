package cli

import (
	"github.com/spf13/cobra"
)

func getVersionCmd(root *rootCommand) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show application version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			root.out.printf("smquery v%s (%s)\n", root.gs.Version, root.gs.Commit)
		},
	}
}
