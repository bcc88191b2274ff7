package engine

import "github.com/piwi3910/cutlist/internal/model"

// PartToPlace is the geometry-only record the packer consumes. Width runs along
// the board length (the part's cut length) and Height across the board width
// (the part's cut width).
type PartToPlace struct {
	ID          string
	DisplayName string
	Width       float64
	Height      float64
	CanRotate   bool
	Color       string
	IsGlueUp    bool
}

// Area returns the footprint used for best-fit-decreasing ordering.
func (p PartToPlace) Area() float64 {
	return p.Width * p.Height
}

// PreparePlacements expands parts into packer records, splitting glue-up
// panels into strips exactly as BuildInstructions does.
func PreparePlacements(parts []model.Part, stock model.Stock) []PartToPlace {
	var out []PartToPlace
	for _, part := range parts {
		if !part.GlueUpPanel {
			out = append(out, PartToPlace{
				ID:          part.ID,
				DisplayName: part.Name,
				Width:       part.CutLength(),
				Height:      part.CutWidth(),
				CanRotate:   !part.GrainSensitive,
				Color:       part.Color,
			})
			continue
		}

		plan := planStrips(part.CutWidth(), stock.Width)
		for i := 0; i < plan.count; i++ {
			out = append(out, PartToPlace{
				ID:          part.ID,
				DisplayName: stripName(part.Name, i, plan.count),
				Width:       part.CutLength(),
				Height:      plan.stripWidth(i),
				CanRotate:   false,
				Color:       part.Color,
				IsGlueUp:    true,
			})
		}
	}
	return out
}
