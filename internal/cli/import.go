package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/piwi3910/cutlist/internal/importer"
	"github.com/piwi3910/cutlist/internal/model"
	"github.com/piwi3910/cutlist/internal/project"
)

func newImportCommand(_ *Options) *cobra.Command {
	var (
		stockID   string
		thickness float64
		output    string
		noBackup  bool
	)

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import parts from a CSV, Excel or DXF file into a project",
		Long: "Import reads parts from a .csv, .xlsx or .dxf file and appends them to the " +
			"project given by --output, creating it if it does not exist.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := LoggerFromContext(cmd.Context())
			src := args[0]

			var result importer.ImportResult
			switch ext := strings.ToLower(filepath.Ext(src)); ext {
			case ".csv", ".tsv", ".txt":
				result = importer.ImportCSV(src)
			case ".xlsx":
				result = importer.ImportExcel(src)
			case ".dxf":
				result = importer.ImportDXF(src, stockID, thickness)
			default:
				return fmt.Errorf("unsupported import format %q", ext)
			}
			result.ApplyDefaults(stockID, thickness)

			for _, w := range result.Warnings {
				logger.Warn(w, "file", src)
			}
			for _, e := range result.Errors {
				logger.Error(e, "file", src)
			}
			if len(result.Parts) == 0 {
				return fmt.Errorf("no parts imported from %s", src)
			}

			p, err := loadOrCreateProject(output)
			if err != nil {
				return err
			}
			warned := make(map[string]bool)
			for _, part := range result.Parts {
				if warned[part.StockID] || p.FindStock(part.StockID) != nil {
					continue
				}
				warned[part.StockID] = true
				logger.Warn("stock not defined in project, add it before generating",
					"stock", part.StockID, "project", output)
			}
			p.Parts = append(p.Parts, result.Parts...)

			if !noBackup {
				backup, err := project.Backup(output, time.Now())
				if err != nil {
					return err
				}
				if backup != "" {
					logger.Info("project backed up", "path", backup)
				}
			}
			if err := project.Save(output, p); err != nil {
				return err
			}
			logger.Info("parts imported",
				"file", src,
				"parts", len(result.Parts),
				"errors", len(result.Errors),
				"project", output)
			return nil
		},
	}

	cmd.Flags().StringVar(&stockID, "stock", "", "Stock ID for parts that do not name one")
	cmd.Flags().Float64Var(&thickness, "thickness", 0.75, "Thickness in inches for parts that do not set one")
	cmd.Flags().StringVarP(&output, "output", "o", "project.yaml", "Project file to create or append to")
	cmd.Flags().BoolVar(&noBackup, "no-backup", false, "Do not keep a copy of the project before appending")
	_ = cmd.MarkFlagRequired("stock")

	return cmd
}

func loadOrCreateProject(path string) (model.Project, error) {
	_, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		p := model.NewProject()
		p.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		return p, nil
	}
	if err != nil {
		return model.Project{}, err
	}
	return project.Load(path)
}
