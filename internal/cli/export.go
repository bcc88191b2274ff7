package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/piwi3910/cutlist/internal/project"
)

func newExportCommand(_ *Options) *cobra.Command {
	var (
		f       exportFlags
		input   string
		srcFile string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export reports from a saved cut list",
		Long: "Export renders PDF, label, CSV and Excel reports from a cut list written by " +
			"generate --output. With --file, reports are marked stale when the project " +
			"changed after the cut list was generated.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := LoggerFromContext(cmd.Context())
			if !f.requested() {
				return errors.New("nothing to export, set at least one of --pdf, --labels, --csv or --xlsx")
			}

			cl, err := project.LoadCutList(input)
			if err != nil {
				return err
			}

			if srcFile != "" {
				p, err := project.Load(srcFile)
				if err != nil {
					return err
				}
				if p.ModifiedAt != cl.ProjectModifiedAt {
					cl.IsStale = true
					logger.Warn("project changed since the cut list was generated",
						"project", srcFile,
						"generated_from", cl.ProjectModifiedAt,
						"modified_at", p.ModifiedAt)
				}
			}

			return f.runExports(logger, cl)
		},
	}

	f.register(cmd)
	cmd.Flags().StringVarP(&input, "input", "i", "", "Cut list JSON written by generate --output")
	cmd.Flags().StringVarP(&srcFile, "file", "f", "", "Project file used to detect a stale cut list")
	_ = cmd.MarkFlagRequired("input")

	return cmd
}
