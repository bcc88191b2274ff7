package export

import (
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/cutlist/internal/model"
)

// Sheet names in the shopping list workbook.
const (
	SheetShopping = "Shopping List"
	SheetCutList  = "Cut List"
	SheetOffcuts  = "Offcuts"
)

// ExportShoppingList writes an Excel workbook with what to buy per stock,
// every cut instruction, and the reusable offcuts left over.
func ExportShoppingList(path string, cl model.CutList) error {
	if len(cl.StockBoards) == 0 {
		return ErrNothingToExport
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetShopping); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}
	for _, name := range []string{SheetCutList, SheetOffcuts} {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("failed to add sheet %q: %w", name, err)
		}
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create style: %w", err)
	}

	if err := writeShoppingSheet(f, bold, cl); err != nil {
		return err
	}
	if err := writeCutListSheet(f, bold, cl); err != nil {
		return err
	}
	if err := writeOffcutSheet(f, bold, cl); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

// writeRows writes a bold header followed by data rows starting at A1.
func writeRows(f *excelize.File, sheet string, bold int, header []interface{}, rows [][]interface{}) error {
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write %s header: %w", sheet, err)
	}
	last, err := excelize.CoordinatesToCellName(len(header), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", last, bold); err != nil {
		return fmt.Errorf("failed to style %s header: %w", sheet, err)
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", sheet, i+2, err)
		}
	}
	return f.SetColWidth(sheet, "A", "A", 28)
}

func writeShoppingSheet(f *excelize.File, bold int, cl model.CutList) error {
	header := []interface{}{
		"Stock", "Pricing", "Price", "Boards Used", "Boards to Buy",
		"Board Feet", "Linear Feet", "Avg Utilization %", "Cost", "Waste Cost",
	}
	var rows [][]interface{}
	for _, s := range cl.Statistics.ByStock {
		rows = append(rows, []interface{}{
			s.StockName, string(s.PricingUnit), s.PricePerUnit, s.ActualBoardsUsed, s.BoardsNeeded,
			round2(s.BoardFeet), round2(s.LinearFeet), round2(s.AverageUtilization), round2(s.Cost), round2(s.WasteCost),
		})
	}
	stats := cl.Statistics
	rows = append(rows,
		[]interface{}{},
		[]interface{}{"Total", "", "", stats.TotalBoards, "", round2(stats.TotalBoardFeet), "", "", round2(stats.EstimatedCost), round2(stats.WasteCost)},
		[]interface{}{"Waste %", round2(stats.WastePercentage)},
		[]interface{}{"Overage", round2(cl.OverageFactor * 100)},
	)
	return writeRows(f, SheetShopping, bold, header, rows)
}

func writeCutListSheet(f *excelize.File, bold int, cl model.CutList) error {
	header := []interface{}{"Part", "Stock", "Length", "Width", "Thickness", "Can Rotate", "Glue-up Strip", "Notes"}
	rows := make([][]interface{}, 0, len(cl.Instructions))
	for _, inst := range cl.Instructions {
		rows = append(rows, []interface{}{
			inst.PartName, inst.StockName, inst.CutLength, inst.CutWidth, inst.Thickness,
			inst.CanRotate, inst.IsGlueUpStrip, inst.Notes,
		})
	}
	for _, name := range cl.SkippedParts {
		rows = append(rows, []interface{}{name, "NOT PLACED"})
	}
	return writeRows(f, SheetCutList, bold, header, rows)
}

func writeOffcutSheet(f *excelize.File, bold int, cl model.CutList) error {
	header := []interface{}{"Stock", "Board", "X", "Y", "Length", "Width", "Area (sq in)"}
	offcuts := model.DetectAllOffcuts(cl)
	rows := make([][]interface{}, 0, len(offcuts))
	for _, o := range offcuts {
		rows = append(rows, []interface{}{
			o.StockName, o.BoardIndex, round2(o.X), round2(o.Y), round2(o.Length), round2(o.Width), round2(o.Area()),
		})
	}
	rows = append(rows,
		[]interface{}{},
		[]interface{}{"Total", len(offcuts), "", "", "", "", round2(model.TotalOffcutArea(offcuts))},
	)
	return writeRows(f, SheetOffcuts, bold, header, rows)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
