package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/piwi3910/cutlist/internal/model"
	"github.com/piwi3910/cutlist/internal/project"
)

func newValidateCommand(_ *Options) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check a project for problems before optimizing",
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := project.Load(file)
			if err != nil {
				return err
			}

			issues := model.Validate(p.Parts, p.Stocks)
			if len(issues) == 0 {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), "No issues found.")
				return err
			}
			if err := printIssues(cmd.OutOrStdout(), issues); err != nil {
				return err
			}
			if model.HasErrors(issues) {
				return fmt.Errorf("project %s has %d validation errors", file, countErrors(issues))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Project file (.json, .yaml, .yml, .toml)")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func printIssues(w io.Writer, issues []model.ValidationIssue) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SEVERITY\tCODE\tPART\tMESSAGE")
	for _, i := range issues {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", i.Severity, i.Code, i.PartName, i.Message)
	}
	return tw.Flush()
}

func countErrors(issues []model.ValidationIssue) int {
	n := 0
	for _, i := range issues {
		if i.Severity == model.SeverityError {
			n++
		}
	}
	return n
}
