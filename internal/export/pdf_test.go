package export

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/piwi3910/cutlist/internal/engine"
	"github.com/piwi3910/cutlist/internal/model"
)

// buildTestCutList generates a realistic cut list with two stocks, a glue-up
// panel, a rotated piece and one part that cannot be placed.
func buildTestCutList() model.CutList {
	stocks := []model.Stock{
		{ID: "walnut", Name: "Walnut 4/4", Length: 96, Width: 6, Thickness: 1,
			PricingUnit: model.PricePerBoardFoot, PricePerUnit: 12.5},
		{ID: "ply", Name: "Birch Ply 3/4", Length: 96, Width: 48, Thickness: 0.75,
			PricingUnit: model.PricePerItem, PricePerUnit: 85},
	}
	parts := []model.Part{
		{ID: "p1", Name: "Top", Length: 48, Width: 16, Thickness: 1, StockID: "walnut", GlueUpPanel: true, Color: "#8b4513"},
		{ID: "p2", Name: "Apron", Length: 40, Width: 4, Thickness: 1, StockID: "walnut", GrainSensitive: true},
		{ID: "p3", Name: "Side", Length: 30, Width: 16, Thickness: 0.75, StockID: "ply"},
		{ID: "p4", Name: "Shelf", Length: 14, Width: 40, Thickness: 0.75, StockID: "ply"},
		{ID: "p5", Name: "Too Long", Length: 120, Width: 4, Thickness: 1, StockID: "walnut"},
	}
	issues := []model.ValidationIssue{{
		Code: model.IssuePartTooLarge, Severity: model.SeverityError,
		PartID: "p5", PartName: "Too Long", Message: "Part \"Too Long\" does not fit stock",
	}}
	return engine.GenerateOptimizedCutList(parts, stocks, 0.125, 0.15, "2024-03-01T12:00:00Z", issues)
}

func requireFile(t *testing.T, path string, minSize int64) {
	t.Helper()
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("file was not created: %v", err)
	}
	if info.Size() < minSize {
		t.Errorf("file seems too small: %d bytes", info.Size())
	}
}

func TestExportPDF_CreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cutlist.pdf")

	cl := buildTestCutList()
	if len(cl.SkippedParts) == 0 || len(cl.StockBoards) < 2 {
		t.Fatalf("test cut list not as expected: %d boards, skipped %v", len(cl.StockBoards), cl.SkippedParts)
	}

	if err := ExportPDF(path, cl); err != nil {
		t.Fatalf("ExportPDF returned error: %v", err)
	}
	requireFile(t, path, 500)
}

func TestExportPDF_StaleCutList(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stale.pdf")
	cl := buildTestCutList()
	cl.IsStale = true

	if err := ExportPDF(path, cl); err != nil {
		t.Fatalf("ExportPDF returned error: %v", err)
	}
	requireFile(t, path, 500)
}

func TestExportPDF_EmptyCutList(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.pdf")

	err := ExportPDF(path, model.CutList{})
	if !errors.Is(err, ErrNothingToExport) {
		t.Fatalf("expected ErrNothingToExport, got %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("no file should be written for an empty cut list")
	}
}

func TestParseHexColor(t *testing.T) {
	tests := []struct {
		in     string
		want   partColor
		wantOK bool
	}{
		{"#8b4513", partColor{139, 69, 19}, true},
		{"FFFFFF", partColor{255, 255, 255}, true},
		{"#fff", partColor{}, false},
		{"", partColor{}, false},
		{"#zzzzzz", partColor{}, false},
	}
	for _, tc := range tests {
		got, ok := parseHexColor(tc.in)
		if got != tc.want || ok != tc.wantOK {
			t.Errorf("parseHexColor(%q) = %v, %v; want %v, %v", tc.in, got, ok, tc.want, tc.wantOK)
		}
	}
}

func TestColorForFallsBackToPalette(t *testing.T) {
	if got := colorFor("", 1); got != partColors[1] {
		t.Errorf("expected palette color, got %v", got)
	}
	if got := colorFor("", len(partColors)); got != partColors[0] {
		t.Errorf("expected palette to wrap, got %v", got)
	}
}

func TestLabelFontSize(t *testing.T) {
	if labelFontSize(50, 50) != 8 || labelFontSize(30, 100) != 7 || labelFontSize(10, 100) != 6 {
		t.Error("unexpected label font sizes")
	}
}

func TestInches(t *testing.T) {
	if got := inches(5.0); got != "5" {
		t.Errorf("expected 5, got %s", got)
	}
	if got := inches(0.1254); got != "0.125" {
		t.Errorf("expected 0.125, got %s", got)
	}
}
