package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List available scenarios",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tTASKS\tDESCRIPTION")
		for _, s := range cfg.Scenarios {
			fmt.Fprintf(w, "%s\t%d\t%s\n", s.Name, len(s.Tasks), s.Description)
		}
		return w.Flush()
	},
}
