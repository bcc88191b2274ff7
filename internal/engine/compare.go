package engine

import (
	"fmt"

	"github.com/piwi3910/cutlist/internal/model"
)

// Scenario is a named kerf/overage combination to compare.
type Scenario struct {
	Name          string
	KerfWidth     float64
	OverageFactor float64
}

// ComparisonResult holds the cut list and headline numbers for one scenario.
type ComparisonResult struct {
	Scenario      Scenario
	CutList       model.CutList
	BoardsUsed    int
	BoardsNeeded  int
	WastePercent  float64
	EstimatedCost float64
	SkippedCount  int
}

// CompareScenarios generates a cut list per scenario, in scenario order.
func (o *Optimizer) CompareScenarios(scenarios []Scenario, parts []model.Part, stocks []model.Stock, projectModifiedAt string) []ComparisonResult {
	results := make([]ComparisonResult, 0, len(scenarios))

	for _, scenario := range scenarios {
		cl := o.Generate(parts, stocks, scenario.KerfWidth, scenario.OverageFactor, projectModifiedAt, nil)

		needed := 0
		for _, s := range cl.Statistics.ByStock {
			needed += s.BoardsNeeded
		}

		results = append(results, ComparisonResult{
			Scenario:      scenario,
			CutList:       cl,
			BoardsUsed:    cl.Statistics.TotalBoards,
			BoardsNeeded:  needed,
			WastePercent:  cl.Statistics.WastePercentage,
			EstimatedCost: cl.Statistics.EstimatedCost,
			SkippedCount:  len(cl.SkippedParts),
		})
	}

	return results
}

// BuildDefaultScenarios returns what-if alternatives around the current
// settings. Variants that would equal the current settings are left out.
func BuildDefaultScenarios(kerfWidth, overageFactor float64) []Scenario {
	scenarios := []Scenario{
		{Name: "Current", KerfWidth: kerfWidth, OverageFactor: overageFactor},
	}

	if kerfWidth > 0 {
		scenarios = append(scenarios,
			Scenario{
				Name:          fmt.Sprintf("Half kerf (%s\")", formatInches(kerfWidth/2)),
				KerfWidth:     kerfWidth / 2,
				OverageFactor: overageFactor,
			},
			Scenario{Name: "Zero kerf", KerfWidth: 0, OverageFactor: overageFactor},
		)
	}

	if overageFactor > 0 {
		scenarios = append(scenarios, Scenario{Name: "No overage", KerfWidth: kerfWidth, OverageFactor: 0})
	}

	return scenarios
}
