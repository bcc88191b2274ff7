package cli

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/piwi3910/cutlist/internal/model"
)

func newEstimateCommand(opts *Options) *cobra.Command {
	var f optimizerFlags
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "estimate",
		Short: "Estimate boards to buy from part area, without packing",
		Long: "Estimate divides each stock's total part area, padded by kerf, by the board " +
			"area. It is a quick lower bound: generate may need more boards once parts are laid out.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := LoggerFromContext(cmd.Context())

			p, kerf, overage, err := f.resolve(cmd, opts.Config)
			if err != nil {
				return err
			}

			estimates := make([]model.PurchaseEstimate, 0, len(p.Stocks))
			for _, s := range p.Stocks {
				est := model.EstimatePurchase(p.Parts, s, kerf, overage)
				if est.TotalPartArea == 0 {
					continue
				}
				if est.BoardArea <= 0 {
					logger.Warn("stock has no area, skipping estimate", "stock", s.ID)
					continue
				}
				estimates = append(estimates, est)
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(estimates)
			}

			var boards int
			var cost float64
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', tabwriter.AlignRight)
			fmt.Fprintln(tw, "STOCK\tPART AREA\tEXACT\tMIN\tTO BUY\tBOARD FT\tCOST\t")
			for _, e := range estimates {
				fmt.Fprintf(tw, "%s\t%.1f\t%.2f\t%d\t%d\t%.2f\t%.2f\t\n",
					e.StockName, e.TotalPartArea, e.BoardsNeededExact, e.BoardsNeededMin,
					e.BoardsWithOverage, e.BoardFeet, e.EstimatedCost)
				boards += e.BoardsWithOverage
				cost += e.EstimatedCost
			}
			fmt.Fprintf(tw, "Total\t\t\t\t%d\t\t%.2f\t\n", boards, cost)
			logger.Debug("estimate", "kerf", kerf, "overage", overage, "stocks", len(estimates))
			return tw.Flush()
		},
	}

	f.register(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print estimates as JSON")
	return cmd
}
