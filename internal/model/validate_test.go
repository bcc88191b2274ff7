package model

import (
	"testing"
)

func testStock() Stock {
	return Stock{ID: "s1", Name: "Walnut 4/4", Length: 96, Width: 6, Thickness: 1}
}

func TestValidateCleanProject(t *testing.T) {
	parts := []Part{{ID: "p1", Name: "Rail", Length: 30, Width: 3, Thickness: 1, StockID: "s1"}}
	issues := Validate(parts, []Stock{testStock()})
	if len(issues) != 0 {
		t.Errorf("expected no issues, got %+v", issues)
	}
	if HasErrors(issues) {
		t.Error("HasErrors should be false for no issues")
	}
}

func TestValidateIssues(t *testing.T) {
	tests := []struct {
		name     string
		part     Part
		wantCode string
		wantSev  Severity
	}{
		{"missing stock", Part{Name: "A", Length: 10, Width: 2, Thickness: 1}, IssueMissingStock, SeverityError},
		{"unknown stock", Part{Name: "B", Length: 10, Width: 2, Thickness: 1, StockID: "nope"}, IssueUnknownStock, SeverityError},
		{"zero length", Part{Name: "C", Length: 0, Width: 2, Thickness: 1, StockID: "s1"}, IssueInvalidDimensions, SeverityError},
		{"too long", Part{Name: "D", Length: 100, Width: 2, Thickness: 1, StockID: "s1"}, IssuePartTooLarge, SeverityError},
		{"grain blocks rotation", Part{Name: "E", Length: 5, Width: 8, Thickness: 1, StockID: "s1", GrainSensitive: true}, IssuePartTooLarge, SeverityError},
		{"glue-up too long", Part{Name: "F", Length: 120, Width: 20, Thickness: 1, StockID: "s1", GlueUpPanel: true}, IssuePartTooLarge, SeverityError},
		{"glue-up strip cap", Part{Name: "G", Length: 20, Width: 400, Thickness: 1, StockID: "s1", GlueUpPanel: true}, IssueStripCapExceeded, SeverityWarning},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			issues := Validate([]Part{tc.part}, []Stock{testStock()})
			if len(issues) != 1 {
				t.Fatalf("expected 1 issue, got %d: %+v", len(issues), issues)
			}
			if issues[0].Code != tc.wantCode {
				t.Errorf("expected code %s, got %s", tc.wantCode, issues[0].Code)
			}
			if issues[0].Severity != tc.wantSev {
				t.Errorf("expected severity %s, got %s", tc.wantSev, issues[0].Severity)
			}
			if issues[0].PartName != tc.part.Name {
				t.Errorf("expected part name %s, got %s", tc.part.Name, issues[0].PartName)
			}
		})
	}
}

func TestValidateRotatablePartFits(t *testing.T) {
	parts := []Part{{Name: "Short", Length: 5, Width: 8, Thickness: 1, StockID: "s1"}}
	if issues := Validate(parts, []Stock{testStock()}); len(issues) != 0 {
		t.Errorf("rotatable part should fit, got %+v", issues)
	}
}

func TestValidateInvalidStock(t *testing.T) {
	issues := Validate(nil, []Stock{{ID: "bad", Name: "Bad"}})
	if len(issues) != 1 || issues[0].Code != IssueInvalidStock {
		t.Fatalf("expected invalid stock issue, got %+v", issues)
	}
	if !HasErrors(issues) {
		t.Error("HasErrors should be true")
	}
}
