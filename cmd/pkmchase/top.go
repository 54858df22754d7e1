package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/guarzo/pkmchase/internal/chase"
	"github.com/guarzo/pkmchase/internal/currency"
	"github.com/guarzo/pkmchase/internal/report"
)

var (
	topLimit int
	topJSON  bool
	topCSV   bool
)

var topCmd = &cobra.Command{
	Use:   "top [set_id]",
	Short: "Print the top chase cards of a set",
	Long: `Top prints the ranked chase cards of one set. Use 'pkmchase sets' for the
list of set ids.

Examples:
  pkmchase top sv1
  pkmchase top sv-151 --limit 5
  pkmchase top sv3 --csv > obsidian-flames.csv`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		res := newService(cfg, log).Top(cmd.Context(), args[0], topLimit)
		if topCSV {
			return report.WriteCSV(cmd.OutOrStdout(), res)
		}
		if topJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(res)
		}
		writeResult(cmd.OutOrStdout(), res)
		if res.Notice == chase.NoticeUnsupported {
			return fmt.Errorf("unknown set %q", args[0])
		}
		return nil
	},
}

func init() {
	topCmd.Flags().IntVarP(&topLimit, "limit", "n", 0, "number of cards (default CHASE_LIMIT)")
	topCmd.Flags().BoolVar(&topJSON, "json", false, "print the result as JSON")
	topCmd.Flags().BoolVar(&topCSV, "csv", false, "print the result as CSV")
	topCmd.MarkFlagsMutuallyExclusive("json", "csv")
}

// writeResult renders a result as an aligned table.
func writeResult(w io.Writer, res chase.Result) {
	title := res.SetID
	if res.SetName != "" {
		title = fmt.Sprintf("%s (%s)", res.SetName, res.SetID)
	}
	fmt.Fprintln(w, color.New(color.Bold).Sprint(title))
	if res.Notice != "" {
		fmt.Fprintln(w, color.YellowString(res.Notice))
	}
	if len(res.Cards) == 0 {
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tCARD\tNO.\tRARITY\tPRICE\tSOURCE")
	for _, c := range res.Cards {
		source := c.BestSource().Label()
		if c.HasLivePricing {
			source = color.GreenString(source)
		} else {
			source = color.YellowString(source)
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n",
			c.Rank, c.Name, c.Number, c.Rarity, color.CyanString(currency.Format(c.BestPrice())), source)
	}
	tw.Flush()
}
