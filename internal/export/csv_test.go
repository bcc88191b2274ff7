package export

import (
	"bytes"
	"encoding/csv"
	"errors"
	"path/filepath"
	"testing"

	"github.com/piwi3910/cutlist/internal/model"
)

func TestWriteInstructionsCSV(t *testing.T) {
	cl := buildTestCutList()

	var buf bytes.Buffer
	if err := WriteInstructionsCSV(&buf, cl); err != nil {
		t.Fatalf("WriteInstructionsCSV returned error: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}
	if len(records) != len(cl.Instructions)+1 {
		t.Fatalf("expected %d rows, got %d", len(cl.Instructions)+1, len(records))
	}
	if records[0][1] != "Part" || records[0][8] != "Notes" {
		t.Errorf("unexpected header %v", records[0])
	}

	first := records[1]
	if first[1] != "Top (strip 1/3)" || first[2] != "Walnut 4/4" || first[3] != "48" || first[7] != "true" {
		t.Errorf("unexpected first row %v", first)
	}
	if first[8] == "" {
		t.Error("first glue-up strip should carry the panel note")
	}
}

func TestWriteInstructionsCSV_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteInstructionsCSV(&buf, model.CutList{}); !errors.Is(err, ErrNothingToExport) {
		t.Fatalf("expected ErrNothingToExport, got %v", err)
	}
}

func TestExportInstructionsCSV_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "cuts.csv")
	if err := ExportInstructionsCSV(path, buildTestCutList()); err != nil {
		t.Fatalf("ExportInstructionsCSV returned error: %v", err)
	}
	requireFile(t, path, 100)
}
