package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/b97tsk/coop/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show build information",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "coopdemo %s %s/%s %s\n",
			version.String(), runtime.GOOS, runtime.GOARCH, runtime.Version())
		if version.Date != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "built %s\n", version.Date)
		}
	},
}
