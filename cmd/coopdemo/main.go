// Command coopdemo runs demo scenarios on the coop cooperative scheduler.
package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/b97tsk/coop/internal/version"
)

var rootCmd = &cobra.Command{
	Use:           "coopdemo",
	Short:         "Run cooperative scheduler demo scenarios",
	Long:          `coopdemo runs scenarios of sleeping, polling and hard-idled tasks on a single-threaded cooperative scheduler.`,
	SilenceUsage:  true,
	SilenceErrors: false,
}

func main() {
	rootCmd.Version = version.String()

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().String("config", "", "path to a TOML scenario file (default: built-in scenarios)")
	rootCmd.PersistentFlags().String("log-level", "", "log level (debug|info|warn|error)")
	rootCmd.PersistentFlags().String("log-format", "", "log format (text|json)")
	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
