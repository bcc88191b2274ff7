package export

import (
	"errors"
	"math"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/cutlist/internal/model"
)

func TestExportShoppingList(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shopping.xlsx")
	cl := buildTestCutList()

	if err := ExportShoppingList(path, cl); err != nil {
		t.Fatalf("ExportShoppingList returned error: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("failed to open workbook: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	want := []string{SheetShopping, SheetCutList, SheetOffcuts}
	if len(sheets) != len(want) {
		t.Fatalf("expected sheets %v, got %v", want, sheets)
	}
	for i := range want {
		if sheets[i] != want[i] {
			t.Errorf("expected sheet %d to be %q, got %q", i, want[i], sheets[i])
		}
	}

	rows, err := f.GetRows(SheetShopping)
	if err != nil {
		t.Fatalf("failed to read shopping sheet: %v", err)
	}
	if rows[0][0] != "Stock" || rows[1][0] != "Walnut 4/4" || rows[2][0] != "Birch Ply 3/4" {
		t.Errorf("unexpected shopping rows %v", rows)
	}

	cutRows, err := f.GetRows(SheetCutList)
	if err != nil {
		t.Fatalf("failed to read cut list sheet: %v", err)
	}
	// Header, instructions, then one row per skipped part.
	if len(cutRows) != 1+len(cl.Instructions)+len(cl.SkippedParts) {
		t.Errorf("expected %d cut list rows, got %d", 1+len(cl.Instructions)+len(cl.SkippedParts), len(cutRows))
	}
	last := cutRows[len(cutRows)-1]
	if last[0] != "Too Long" || last[1] != "NOT PLACED" {
		t.Errorf("expected skipped part row, got %v", last)
	}
}

func TestExportShoppingList_OffcutTotal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "offcuts.xlsx")
	cl := buildTestCutList()
	if err := ExportShoppingList(path, cl); err != nil {
		t.Fatalf("ExportShoppingList returned error: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("failed to open workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(SheetOffcuts)
	if err != nil {
		t.Fatalf("failed to read offcut sheet: %v", err)
	}
	offcuts := model.DetectAllOffcuts(cl)
	// Header, offcuts, blank spacer, total.
	if len(rows) != len(offcuts)+3 {
		t.Fatalf("expected %d offcut rows, got %d", len(offcuts)+3, len(rows))
	}
	last := rows[len(rows)-1]
	if len(last) != 7 || last[0] != "Total" || last[1] != strconv.Itoa(len(offcuts)) {
		t.Fatalf("unexpected total row %v", last)
	}
	got, err := strconv.ParseFloat(last[6], 64)
	if err != nil {
		t.Fatalf("total area %q is not a number: %v", last[6], err)
	}
	if want := model.TotalOffcutArea(offcuts); math.Abs(got-want) > 0.01 {
		t.Errorf("expected total offcut area %.2f, got %.2f", want, got)
	}
}

func TestExportShoppingList_Empty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.xlsx")
	if err := ExportShoppingList(path, model.CutList{}); !errors.Is(err, ErrNothingToExport) {
		t.Fatalf("expected ErrNothingToExport, got %v", err)
	}
}

func TestRound2(t *testing.T) {
	if round2(1.005) > 1.01 || round2(2.344) != 2.34 || round2(0) != 0 {
		t.Error("unexpected rounding")
	}
}
