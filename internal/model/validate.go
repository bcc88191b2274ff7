package model

import (
	"fmt"
	"math"
)

// MaxGlueUpStrips caps how many strips a single glue-up panel is split into.
const MaxGlueUpStrips = 50

// Validation issue codes.
const (
	IssueMissingStock      = "missing_stock"
	IssueUnknownStock      = "unknown_stock"
	IssueInvalidDimensions = "invalid_dimensions"
	IssuePartTooLarge      = "part_too_large"
	IssueStripCapExceeded  = "glue_up_strip_cap"
	IssueInvalidStock      = "invalid_stock"
)

// Validate checks parts and stocks before optimization. Errors mark parts the
// optimizer will exclude or skip; warnings mark parts whose output will not be
// what the user probably expects.
func Validate(parts []Part, stocks []Stock) []ValidationIssue {
	var issues []ValidationIssue

	byID := make(map[string]Stock, len(stocks))
	for _, s := range stocks {
		if s.Length <= 0 || s.Width <= 0 || s.Thickness <= 0 {
			issues = append(issues, ValidationIssue{
				Code:     IssueInvalidStock,
				Severity: SeverityError,
				Message:  fmt.Sprintf("Stock %q has non-positive dimensions", s.Name),
			})
		}
		if _, ok := byID[s.ID]; !ok {
			byID[s.ID] = s
		}
	}

	for _, p := range parts {
		issue := func(code string, sev Severity, format string, args ...any) {
			issues = append(issues, ValidationIssue{
				Code:     code,
				Severity: sev,
				PartID:   p.ID,
				PartName: p.Name,
				Message:  fmt.Sprintf(format, args...),
			})
		}

		if p.StockID == "" {
			issue(IssueMissingStock, SeverityError, "Part %q has no stock assigned", p.Name)
			continue
		}
		stock, ok := byID[p.StockID]
		if !ok {
			issue(IssueUnknownStock, SeverityError, "Part %q references unknown stock %q", p.Name, p.StockID)
			continue
		}
		if p.CutLength() <= 0 || p.CutWidth() <= 0 || p.Thickness <= 0 {
			issue(IssueInvalidDimensions, SeverityError, "Part %q has non-positive dimensions", p.Name)
			continue
		}
		if stock.Length <= 0 || stock.Width <= 0 {
			continue
		}

		if p.GlueUpPanel {
			if p.CutLength() > stock.Length {
				issue(IssuePartTooLarge, SeverityError,
					"Glue-up panel %q is %.3f\" long but stock %q is only %.3f\"", p.Name, p.CutLength(), stock.Name, stock.Length)
			}
			if strips := math.Ceil(p.CutWidth() / stock.Width); strips > MaxGlueUpStrips {
				issue(IssueStripCapExceeded, SeverityWarning,
					"Glue-up panel %q needs %.0f strips; capped at %d wider strips", p.Name, strips, MaxGlueUpStrips)
			}
			continue
		}

		fitsNormal := p.CutLength() <= stock.Length && p.CutWidth() <= stock.Width
		fitsRotated := !p.GrainSensitive && p.CutWidth() <= stock.Length && p.CutLength() <= stock.Width
		if !fitsNormal && !fitsRotated {
			issue(IssuePartTooLarge, SeverityError,
				"Part %q (%.3f\" x %.3f\") does not fit stock %q (%.3f\" x %.3f\")",
				p.Name, p.CutLength(), p.CutWidth(), stock.Name, stock.Length, stock.Width)
		}
	}

	return issues
}

// HasErrors reports whether any issue has error severity.
func HasErrors(issues []ValidationIssue) bool {
	for _, i := range issues {
		if i.Severity == SeverityError {
			return true
		}
	}
	return false
}
