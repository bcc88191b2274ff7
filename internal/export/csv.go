package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/piwi3910/cutlist/internal/model"
)

var instructionHeader = []string{
	"Part ID", "Part", "Stock", "Length", "Width", "Thickness", "Can Rotate", "Glue-up Strip", "Notes",
}

// WriteInstructionsCSV writes one row per cut instruction.
func WriteInstructionsCSV(w io.Writer, cl model.CutList) error {
	if len(cl.Instructions) == 0 {
		return ErrNothingToExport
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(instructionHeader); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, inst := range cl.Instructions {
		record := []string{
			inst.PartID,
			inst.PartName,
			inst.StockName,
			inches(inst.CutLength),
			inches(inst.CutWidth),
			inches(inst.Thickness),
			strconv.FormatBool(inst.CanRotate),
			strconv.FormatBool(inst.IsGlueUpStrip),
			inst.Notes,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ExportInstructionsCSV writes the instruction CSV to a file.
func ExportInstructionsCSV(path string, cl model.CutList) error {
	if len(cl.Instructions) == 0 {
		return ErrNothingToExport
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create CSV: %w", err)
	}
	if err := WriteInstructionsCSV(f, cl); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
