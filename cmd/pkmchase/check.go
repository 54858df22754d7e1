package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/guarzo/pkmchase/internal/chase"
	"github.com/guarzo/pkmchase/internal/currency"
	"github.com/guarzo/pkmchase/internal/progress"
)

var checkQuiet bool

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Compute every supported set and report which ones have live pricing",
	Long: `Check runs the configured strategy once for every set in the dropdown and
summarizes whether each set was priced live, served from sample data or left
empty. It is a quick way to verify credentials and the daily quota.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc := newService(cfg, log)
		options := svc.Sets()

		bar := progress.New(cmd.ErrOrStderr(), "Checking sets", len(options), !checkQuiet && term.IsTerminal(2))
		bar.Start()
		results := make([]chase.Result, 0, len(options))
		for _, set := range options {
			if err := cmd.Context().Err(); err != nil {
				return err
			}
			results = append(results, svc.Top(cmd.Context(), set.ID, 0))
			bar.Step(set.ID)
		}
		bar.Finish()

		writeSummary(cmd.OutOrStdout(), results)
		return nil
	},
}

func init() {
	checkCmd.Flags().BoolVarP(&checkQuiet, "quiet", "q", false, "do not draw a progress bar")
}

// writeSummary prints one line per set with its status and top card.
func writeSummary(w io.Writer, results []chase.Result) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SET\tSTATUS\tCARDS\tTOP CARD\tPRICE")
	for _, res := range results {
		status := color.GreenString("live")
		switch {
		case res.Fallback && len(res.Cards) > 0:
			status = color.YellowString("sample")
		case len(res.Cards) == 0:
			status = color.RedString("empty")
		}

		top, price := "-", "-"
		if len(res.Cards) > 0 {
			top = res.Cards[0].Name
			price = currency.Format(res.Cards[0].BestPrice())
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\n", res.SetID, status, len(res.Cards), top, price)
	}
	tw.Flush()
}
