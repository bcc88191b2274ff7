package engine

import "github.com/piwi3910/cutlist/internal/model"

// Aggregate computes cut list statistics. Overage pads only the purchase
// quantities (boards needed, board feet, linear feet, cost); TotalBoards and
// waste figures reflect the boards actually used. A negative overage is
// treated as zero.
func Aggregate(boards []model.StockBoard, stocks []model.Stock, overageFactor float64, totalPartCount int) model.CutListStatistics {
	if overageFactor < 0 {
		overageFactor = 0
	}

	stats := model.CutListStatistics{
		TotalParts:  totalPartCount,
		TotalBoards: len(boards),
		ByStock:     []model.StockSummary{},
	}

	byStock := make(map[string][]model.StockBoard)
	var totalUsed, totalWaste float64
	for _, b := range boards {
		byStock[b.StockID] = append(byStock[b.StockID], b)
		totalUsed += b.UsedArea
		totalWaste += b.WasteArea
	}

	seen := make(map[string]bool, len(stocks))
	for _, stock := range stocks {
		if seen[stock.ID] {
			continue
		}
		seen[stock.ID] = true

		group := byStock[stock.ID]
		if len(group) == 0 {
			continue
		}
		summary := summarizeStock(stock, group, overageFactor)
		stats.ByStock = append(stats.ByStock, summary)
		stats.TotalBoardFeet += summary.BoardFeet
		stats.EstimatedCost += summary.Cost
		stats.WasteCost += summary.WasteCost
	}

	if totalUsed+totalWaste > 0 {
		stats.WastePercentage = totalWaste / (totalUsed + totalWaste) * 100
	}
	return stats
}

func summarizeStock(stock model.Stock, boards []model.StockBoard, overage float64) model.StockSummary {
	actual := len(boards)
	needed := model.PaddedBoardCount(actual, overage)

	var waste, util float64
	for _, b := range boards {
		waste += b.WasteArea
		util += b.UtilizationPercent
	}

	s := model.StockSummary{
		StockID:            stock.ID,
		StockName:          stock.Name,
		PricingUnit:        stock.PricingUnit,
		PricePerUnit:       stock.PricePerUnit,
		BoardsNeeded:       needed,
		ActualBoardsUsed:   actual,
		BoardFeet:          model.BoardFeet(stock.Length, stock.Width, stock.Thickness) * float64(needed),
		LinearFeet:         model.LinearFeet(stock.Length) * float64(needed),
		AverageUtilization: util / float64(actual),
		WasteArea:          waste,
	}

	if stock.PricingUnit == model.PricePerBoardFoot {
		s.Cost = s.BoardFeet * stock.PricePerUnit
		s.WasteCost = waste * stock.Thickness / model.CubicInchesPerBoardFoot * stock.PricePerUnit
		return s
	}

	s.Cost = float64(needed) * stock.PricePerUnit
	if usedStockArea := stock.Area() * float64(actual); usedStockArea > 0 {
		s.WasteCost = waste / usedStockArea * float64(actual) * stock.PricePerUnit
	}
	return s
}
