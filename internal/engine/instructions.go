package engine

import (
	"fmt"
	"math"
	"strconv"

	"github.com/piwi3910/cutlist/internal/model"
)

// stripPlan describes how a glue-up panel is divided into strips. Instructions
// and placements both derive their strips from it so the two never disagree.
type stripPlan struct {
	count    int
	width    float64 // Width of every strip but the last
	cutWidth float64
	capped   bool // The true strip count exceeded model.MaxGlueUpStrips
}

func planStrips(cutWidth, stockWidth float64) stripPlan {
	n := 1
	capped := false
	if stockWidth > 0 {
		// Clamp before converting: huge ratios overflow int.
		r := math.Ceil(cutWidth/stockWidth - epsilon)
		switch {
		case !(r <= model.MaxGlueUpStrips):
			n, capped = model.MaxGlueUpStrips, true
		case r > 1:
			n = int(r)
		}
	}
	return stripPlan{
		count:    n,
		width:    cutWidth / float64(n),
		cutWidth: cutWidth,
		capped:   capped,
	}
}

// stripWidth returns the width of strip i (0-based). The last strip takes the
// remainder so the widths always sum to the panel's cut width.
func (sp stripPlan) stripWidth(i int) float64 {
	if i == sp.count-1 {
		return sp.cutWidth - sp.width*float64(sp.count-1)
	}
	return sp.width
}

func stripName(name string, i, n int) string {
	return fmt.Sprintf("%s (strip %d/%d)", name, i+1, n)
}

// BuildInstructions converts a part into its cut instructions: one for an
// ordinary part, one per strip for a glue-up panel.
func BuildInstructions(part model.Part, stock model.Stock) []model.CutInstruction {
	if !part.GlueUpPanel {
		return []model.CutInstruction{{
			PartID:    part.ID,
			PartName:  part.Name,
			CutLength: part.CutLength(),
			CutWidth:  part.CutWidth(),
			Thickness: part.Thickness,
			StockID:   stock.ID,
			StockName: stock.Name,
			CanRotate: !part.GrainSensitive,
			Color:     part.Color,
			Notes:     part.Notes,
		}}
	}

	plan := planStrips(part.CutWidth(), stock.Width)
	instructions := make([]model.CutInstruction, 0, plan.count)
	for i := 0; i < plan.count; i++ {
		inst := model.CutInstruction{
			PartID:        part.ID,
			PartName:      stripName(part.Name, i, plan.count),
			CutLength:     part.CutLength(),
			CutWidth:      plan.stripWidth(i),
			Thickness:     part.Thickness,
			StockID:       stock.ID,
			StockName:     stock.Name,
			CanRotate:     false,
			IsGlueUpStrip: true,
			Color:         part.Color,
		}
		if i == 0 {
			inst.Notes = glueUpNotes(part.Notes, plan)
		}
		instructions = append(instructions, inst)
	}
	return instructions
}

func glueUpNotes(original string, plan stripPlan) string {
	note := fmt.Sprintf("Glue-up panel: %d strips × %s\" = %s\" final width",
		plan.count, formatInches(plan.width), formatInches(plan.cutWidth))
	if plan.capped {
		note += fmt.Sprintf(" (capped at %d strips)", model.MaxGlueUpStrips)
	}
	if original == "" {
		return note
	}
	return original + "\n" + note
}

// formatInches renders a dimension with at most three decimals and no
// trailing zeros.
func formatInches(v float64) string {
	return strconv.FormatFloat(math.Round(v*1000)/1000, 'f', -1, 64)
}
