package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/guarzo/pkmchase/internal/fallback"
	"github.com/guarzo/pkmchase/internal/sets"
)

var setsCmd = &cobra.Command{
	Use:   "sets",
	Short: "List the supported sets",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		table := fallback.Default()
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tNAME\tSERIES\tSAMPLE DATA")
		for _, s := range sets.Default().Options() {
			sample := color.HiBlackString("no")
			if table.Has(s.ID) {
				sample = color.GreenString("yes")
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", s.ID, s.Name, s.Series, sample)
		}
		return tw.Flush()
	},
}
