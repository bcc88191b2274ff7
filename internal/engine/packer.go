package engine

import (
	"math"
	"slices"
	"sort"

	"github.com/piwi3910/cutlist/internal/model"
)

// epsilon absorbs floating point noise from strip-width division when
// comparing dimensions.
const epsilon = 1e-9

// Rectangle is a free region on a board. X runs along the board length and Y
// across its width.
type Rectangle struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// Fit is the chosen free rectangle and orientation for a part. UsedWidth and
// UsedHeight include any kerf the part consumes.
type Fit struct {
	Rect       Rectangle
	Index      int
	Rotated    bool
	UsedWidth  float64
	UsedHeight float64
}

// PackResult is the outcome of packing one stock's placements.
type PackResult struct {
	Boards       []model.StockBoard
	SkippedParts []string
}

// withKerf adds the saw kerf to a dimension only when the part does not use up
// the full available dimension. An exact fit needs no cut on that side.
func withKerf(dim, avail, kerf float64) float64 {
	if dim < avail-epsilon {
		return dim + kerf
	}
	return dim
}

// findBestFit picks the free rectangle whose shorter leftover side is smallest
// (best short side fit). Ties keep the earliest candidate, and the unrotated
// orientation is tried before the rotated one. Glue-up strips take no kerf on
// their height so adjacent strips stay flush for glue-up.
func findBestFit(freeRects []Rectangle, width, height float64, canRotate bool, kerf float64, isGlueUpStrip bool) (Fit, bool) {
	var best Fit
	found := false
	bestScore := math.Inf(1)

	try := func(i int, r Rectangle, w, h float64, rotated bool) {
		reqW := withKerf(w, r.Width, kerf)
		reqH := h
		if !isGlueUpStrip {
			reqH = withKerf(h, r.Height, kerf)
		}
		if reqW > r.Width+epsilon || reqH > r.Height+epsilon {
			return
		}
		score := math.Min(r.Width-reqW, r.Height-reqH)
		if score < bestScore {
			bestScore = score
			best = Fit{Rect: r, Index: i, Rotated: rotated, UsedWidth: reqW, UsedHeight: reqH}
			found = true
		}
	}

	for i, r := range freeRects {
		try(i, r, width, height, false)
		if canRotate {
			try(i, r, height, width, true)
		}
	}
	return best, found
}

// splitRectangle removes the consumed free rectangle and adds up to two
// guillotine remainders: one to the right spanning the full original height,
// and one above spanning only the used width. Degenerate remainders are
// dropped. Free rectangles are never merged.
func splitRectangle(freeRects []Rectangle, index int, consumed Rectangle, usedWidth, usedHeight float64) []Rectangle {
	out := make([]Rectangle, 0, len(freeRects)+1)
	out = append(out, freeRects[:index]...)
	out = append(out, freeRects[index+1:]...)

	right := Rectangle{
		X:      consumed.X + usedWidth,
		Y:      consumed.Y,
		Width:  consumed.Width - usedWidth,
		Height: consumed.Height,
	}
	top := Rectangle{
		X:      consumed.X,
		Y:      consumed.Y + usedHeight,
		Width:  usedWidth,
		Height: consumed.Height - usedHeight,
	}
	for _, r := range []Rectangle{right, top} {
		if r.Width > epsilon && r.Height > epsilon {
			out = append(out, r)
		}
	}
	return out
}

// boardState tracks a board while it is being filled.
type boardState struct {
	stock      model.Stock
	index      int
	freeRects  []Rectangle
	placements []model.CutPlacement
}

func newBoardState(stock model.Stock, index int) *boardState {
	return &boardState{
		stock: stock,
		index: index,
		freeRects: []Rectangle{
			{X: 0, Y: 0, Width: stock.Length, Height: stock.Width},
		},
	}
}

func (b *boardState) place(p PartToPlace, kerf float64) bool {
	fit, ok := findBestFit(b.freeRects, p.Width, p.Height, p.CanRotate, kerf, p.IsGlueUp)
	if !ok {
		return false
	}

	w, h := p.Width, p.Height
	if fit.Rotated {
		w, h = h, w
	}
	b.placements = append(b.placements, model.CutPlacement{
		PartID:        p.ID,
		PartName:      p.DisplayName,
		X:             fit.Rect.X,
		Y:             fit.Rect.Y,
		Width:         w,
		Height:        h,
		Rotated:       fit.Rotated,
		IsGlueUpStrip: p.IsGlueUp,
		Color:         p.Color,
	})
	b.freeRects = splitRectangle(b.freeRects, fit.Index, fit.Rect, fit.UsedWidth, fit.UsedHeight)
	return true
}

func (b *boardState) finish() model.StockBoard {
	board := model.StockBoard{
		StockID:        b.stock.ID,
		StockName:      b.stock.Name,
		BoardIndex:     b.index,
		StockLength:    b.stock.Length,
		StockWidth:     b.stock.Width,
		StockThickness: b.stock.Thickness,
		Placements:     b.placements,
	}
	for _, p := range b.placements {
		board.UsedArea += p.Area()
	}
	total := board.TotalArea()
	board.WasteArea = total - board.UsedArea
	if total > 0 {
		board.UtilizationPercent = board.UsedArea / total * 100
	}
	return board
}

// PackOntoStock places parts onto as many boards of one stock as needed using
// best-fit decreasing: parts are stably sorted by area, largest first, and each
// goes to the best free rectangle on the open board. When a part does not fit,
// the board is closed and a fresh one opened; a part that does not fit an
// empty board is skipped.
func PackOntoStock(placements []PartToPlace, stock model.Stock, kerf float64) PackResult {
	sorted := slices.Clone(placements)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Area() > sorted[j].Area()
	})

	result := PackResult{
		Boards:       []model.StockBoard{},
		SkippedParts: []string{},
	}
	current := newBoardState(stock, 1)

	for _, p := range sorted {
		if current.place(p, kerf) {
			continue
		}
		if len(current.placements) > 0 {
			result.Boards = append(result.Boards, current.finish())
			current = newBoardState(stock, len(result.Boards)+1)
			if current.place(p, kerf) {
				continue
			}
		}
		result.SkippedParts = append(result.SkippedParts, p.DisplayName)
	}

	if len(current.placements) > 0 {
		result.Boards = append(result.Boards, current.finish())
	}
	return result
}
