package model

import (
	"math"
	"sort"
)

// Offcut represents a usable rectangular remnant left on a board after cutting.
type Offcut struct {
	StockID    string  `json:"stockId"`
	StockName  string  `json:"stockName"`
	BoardIndex int     `json:"boardIndex"`
	X          float64 `json:"x"`      // Along the board length
	Y          float64 `json:"y"`      // Across the board width
	Length     float64 `json:"length"` // Usable length (in)
	Width      float64 `json:"width"`  // Usable width (in)
}

// Area returns the offcut area in square inches.
func (o Offcut) Area() float64 {
	return o.Length * o.Width
}

// MinOffcutDimension is the minimum length or width (in inches) for a remnant
// to be worth keeping. Anything narrower is waste.
const MinOffcutDimension = 3.0

// MinOffcutArea is the minimum area (sq in) for a remnant to be worth keeping.
const MinOffcutArea = 36.0

// DetectOffcuts finds the remnant strips beyond the bounding box of all
// placements on a board: the strip past the last cut along the length, and the
// strip above the placements across the width.
func DetectOffcuts(board StockBoard, kerf float64) []Offcut {
	length := board.StockLength
	width := board.StockWidth

	newOffcut := func(x, y, l, w float64) Offcut {
		return Offcut{
			StockID:    board.StockID,
			StockName:  board.StockName,
			BoardIndex: board.BoardIndex,
			X:          x,
			Y:          y,
			Length:     l,
			Width:      w,
		}
	}

	if len(board.Placements) == 0 {
		return []Offcut{newOffcut(0, 0, length, width)}
	}

	var maxRight, maxTop float64
	for _, p := range board.Placements {
		maxRight = math.Max(maxRight, p.X+p.Width+kerf)
		maxTop = math.Max(maxTop, p.Y+p.Height+kerf)
	}

	var offcuts []Offcut

	rightLen := length - maxRight
	if usable(rightLen, width) {
		offcuts = append(offcuts, newOffcut(maxRight, 0, rightLen, width))
	}

	// Limited to the placed footprint so it does not overlap the right strip.
	topWidth := width - maxTop
	topLen := math.Min(maxRight, length)
	if usable(topLen, topWidth) {
		offcuts = append(offcuts, newOffcut(0, maxTop, topLen, topWidth))
	}

	sort.SliceStable(offcuts, func(i, j int) bool {
		return offcuts[i].Area() > offcuts[j].Area()
	})
	return offcuts
}

func usable(l, w float64) bool {
	return l >= MinOffcutDimension && w >= MinOffcutDimension && l*w >= MinOffcutArea
}

// DetectAllOffcuts finds offcuts across every board of a cut list.
func DetectAllOffcuts(cl CutList) []Offcut {
	var all []Offcut
	for _, b := range cl.StockBoards {
		all = append(all, DetectOffcuts(b, cl.KerfWidth)...)
	}
	return all
}

// TotalOffcutArea returns the summed area of offcuts in square inches.
func TotalOffcutArea(offcuts []Offcut) float64 {
	var total float64
	for _, o := range offcuts {
		total += o.Area()
	}
	return total
}
