package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/piwi3910/cutlist/internal/engine"
	"github.com/piwi3910/cutlist/internal/export"
	"github.com/piwi3910/cutlist/internal/model"
	"github.com/piwi3910/cutlist/internal/project"
)

type generateFlags struct {
	optimizerFlags
	exportFlags
	output string
	bypass bool
}

// exportFlags names the report files shared by generate and export.
type exportFlags struct {
	pdf    string
	labels string
	csv    string
	xlsx   string
}

func (f *exportFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.pdf, "pdf", "", "Export a PDF report")
	cmd.Flags().StringVar(&f.labels, "labels", "", "Export a PDF of QR part labels")
	cmd.Flags().StringVar(&f.csv, "csv", "", "Export cut instructions as CSV")
	cmd.Flags().StringVar(&f.xlsx, "xlsx", "", "Export an Excel shopping list")
}

func (f *exportFlags) requested() bool {
	return f.pdf != "" || f.labels != "" || f.csv != "" || f.xlsx != ""
}

func newGenerateCommand(opts *Options) *cobra.Command {
	var f generateFlags

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate an optimized cut list for a project",
		Long: "Generate packs every part onto its stock, writes the cut list as JSON " +
			"(to stdout unless --output is set) and optionally exports reports.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := LoggerFromContext(cmd.Context())

			p, kerf, overage, err := f.resolve(cmd, opts.Config)
			if err != nil {
				return err
			}

			issues := model.Validate(p.Parts, p.Stocks)
			for _, i := range issues {
				if i.Severity == model.SeverityWarning {
					logger.Warn(i.Message, "code", i.Code)
				}
			}
			bypassed := append([]model.ValidationIssue{}, p.BypassedIssues...)
			if model.HasErrors(issues) {
				if !f.bypass {
					if err := printIssues(cmd.ErrOrStderr(), issues); err != nil {
						return err
					}
					return fmt.Errorf("project has %d validation errors, rerun with --bypass to generate anyway", countErrors(issues))
				}
				for _, i := range issues {
					if i.Severity == model.SeverityError {
						bypassed = append(bypassed, i)
					}
				}
				logger.Warn("generating despite validation errors", "errors", countErrors(issues))
			}

			optimizer := engine.New(engine.WithLogger(logger))
			cl := optimizer.Generate(p.Parts, p.Stocks, kerf, overage, p.ModifiedAt, bypassed)

			if f.output != "" {
				if err := project.SaveCutList(f.output, cl); err != nil {
					return err
				}
				logger.Info("cut list saved", "path", f.output)
			} else {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				if err := enc.Encode(cl); err != nil {
					return fmt.Errorf("failed to write cut list: %w", err)
				}
			}

			if err := f.runExports(logger, cl); err != nil {
				return err
			}

			stats := cl.Statistics
			logger.Info("summary",
				"boards", stats.TotalBoards,
				"board_feet", fmt.Sprintf("%.2f", stats.TotalBoardFeet),
				"cost", fmt.Sprintf("%.2f", stats.EstimatedCost),
				"waste_pct", fmt.Sprintf("%.1f", stats.WastePercentage),
				"skipped", len(cl.SkippedParts))
			return nil
		},
	}

	f.optimizerFlags.register(cmd)
	f.exportFlags.register(cmd)
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "Write the cut list JSON to this file")
	cmd.Flags().BoolVar(&f.bypass, "bypass", false, "Generate even when validation reports errors")

	return cmd
}

func (f *exportFlags) runExports(logger *slog.Logger, cl model.CutList) error {
	exports := []struct {
		kind string
		path string
		fn   func(string, model.CutList) error
	}{
		{"pdf", f.pdf, export.ExportPDF},
		{"labels", f.labels, export.ExportLabels},
		{"csv", f.csv, export.ExportInstructionsCSV},
		{"xlsx", f.xlsx, export.ExportShoppingList},
	}

	for _, e := range exports {
		if e.path == "" {
			continue
		}
		err := e.fn(e.path, cl)
		if errors.Is(err, export.ErrNothingToExport) {
			logger.Warn("nothing to export", "kind", e.kind, "path", e.path)
			continue
		}
		if err != nil {
			return fmt.Errorf("%s export: %w", e.kind, err)
		}
		logger.Info("exported", "kind", e.kind, "path", e.path)
	}
	return nil
}
