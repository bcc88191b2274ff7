package model

import "math"

// CubicInchesPerBoardFoot is the volume of one board foot: 12" x 12" x 1".
const CubicInchesPerBoardFoot = 144.0

// BoardFeet returns the board-foot volume of a single board.
func BoardFeet(length, width, thickness float64) float64 {
	return length * width * thickness / CubicInchesPerBoardFoot
}

// LinearFeet converts a length in inches to feet.
func LinearFeet(length float64) float64 {
	return length / 12.0
}

// PaddedBoardCount applies the overage factor to a board count and rounds
// up. The small offset keeps products like 10*1.1 from ceiling to an extra
// board. A negative overage counts as zero.
func PaddedBoardCount(actual int, overage float64) int {
	if overage < 0 {
		overage = 0
	}
	return int(math.Ceil(float64(actual)*(1+overage) - 1e-9))
}

// PurchaseEstimate holds an area-based estimate of boards to buy for one stock,
// computed before any layout is attempted.
type PurchaseEstimate struct {
	StockID           string  `json:"stockId"`
	StockName         string  `json:"stockName"`
	TotalPartArea     float64 `json:"totalPartArea"`     // sq in, including kerf allowance
	BoardArea         float64 `json:"boardArea"`         // sq in of one board
	BoardsNeededExact float64 `json:"boardsNeededExact"` // Fractional board count
	BoardsNeededMin   int     `json:"boardsNeededMin"`   // Ceiling of exact
	BoardsWithOverage int     `json:"boardsWithOverage"` // Recommended count including overage
	BoardFeet         float64 `json:"boardFeet"`
	EstimatedCost     float64 `json:"estimatedCost"`
}

// EstimatePurchase computes a lower-bound board count for parts assigned to
// stock, padding each part by kerf on both axes. Glue-up panels count their full
// cut area. The estimate ignores layout, so packing may need more boards.
func EstimatePurchase(parts []Part, stock Stock, kerfWidth, overageFactor float64) PurchaseEstimate {
	est := PurchaseEstimate{StockID: stock.ID, StockName: stock.Name}
	for _, p := range parts {
		if p.StockID != stock.ID {
			continue
		}
		est.TotalPartArea += (p.CutLength() + kerfWidth) * (p.CutWidth() + kerfWidth)
	}

	est.BoardArea = stock.Area()
	if est.BoardArea <= 0 {
		return est
	}
	est.BoardsNeededExact = est.TotalPartArea / est.BoardArea
	est.BoardsNeededMin = int(math.Ceil(est.BoardsNeededExact))
	est.BoardsWithOverage = PaddedBoardCount(est.BoardsNeededMin, overageFactor)
	est.BoardFeet = BoardFeet(stock.Length, stock.Width, stock.Thickness) * float64(est.BoardsWithOverage)

	if stock.PricingUnit == PricePerBoardFoot {
		est.EstimatedCost = est.BoardFeet * stock.PricePerUnit
	} else {
		est.EstimatedCost = float64(est.BoardsWithOverage) * stock.PricePerUnit
	}
	return est
}
