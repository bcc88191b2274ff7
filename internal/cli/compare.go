package cli

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/piwi3910/cutlist/internal/engine"
)

type comparisonRow struct {
	Scenario      string  `json:"scenario"`
	KerfWidth     float64 `json:"kerfWidth"`
	OverageFactor float64 `json:"overageFactor"`
	BoardsUsed    int     `json:"boardsUsed"`
	BoardsNeeded  int     `json:"boardsNeeded"`
	WastePercent  float64 `json:"wastePercent"`
	EstimatedCost float64 `json:"estimatedCost"`
	Skipped       int     `json:"skipped"`
}

func newCompareCommand(opts *Options) *cobra.Command {
	var f optimizerFlags
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Compare boards, waste and cost across kerf and overage settings",
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := LoggerFromContext(cmd.Context())

			p, kerf, overage, err := f.resolve(cmd, opts.Config)
			if err != nil {
				return err
			}

			optimizer := engine.New(engine.WithLogger(logger))
			results := optimizer.CompareScenarios(engine.BuildDefaultScenarios(kerf, overage), p.Parts, p.Stocks, p.ModifiedAt)

			rows := make([]comparisonRow, 0, len(results))
			for _, r := range results {
				rows = append(rows, comparisonRow{
					Scenario:      r.Scenario.Name,
					KerfWidth:     r.Scenario.KerfWidth,
					OverageFactor: r.Scenario.OverageFactor,
					BoardsUsed:    r.BoardsUsed,
					BoardsNeeded:  r.BoardsNeeded,
					WastePercent:  r.WastePercent,
					EstimatedCost: r.EstimatedCost,
					Skipped:       r.SkippedCount,
				})
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(rows)
			}

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', tabwriter.AlignRight)
			fmt.Fprintln(tw, "SCENARIO\tKERF\tOVERAGE\tBOARDS\tTO BUY\tWASTE %\tCOST\tSKIPPED\t")
			for _, r := range rows {
				fmt.Fprintf(tw, "%s\t%.3f\t%.0f%%\t%d\t%d\t%.1f\t%.2f\t%d\t\n",
					r.Scenario, r.KerfWidth, r.OverageFactor*100, r.BoardsUsed, r.BoardsNeeded,
					r.WastePercent, r.EstimatedCost, r.Skipped)
			}
			return tw.Flush()
		},
	}

	f.register(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print results as JSON")
	return cmd
}
