// Package export writes generated cut lists to PDF reports, label sheets,
// CSV and Excel files.
package export

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/go-pdf/fpdf"

	"github.com/piwi3910/cutlist/internal/model"
)

// ErrNothingToExport is returned when a cut list has no boards to render.
var ErrNothingToExport = errors.New("cut list has no boards to export")

// partColor represents an RGB color for a placed part.
type partColor struct {
	R, G, B int
}

// partColors is the fallback palette for parts without their own color.
var partColors = []partColor{
	{R: 76, G: 175, B: 80},  // green
	{R: 33, G: 150, B: 243}, // blue
	{R: 255, G: 152, B: 0},  // orange
	{R: 156, G: 39, B: 176}, // purple
	{R: 0, G: 188, B: 212},  // cyan
	{R: 244, G: 67, B: 54},  // red
	{R: 255, G: 235, B: 59}, // yellow
	{R: 121, G: 85, B: 72},  // brown
}

// parseHexColor reads "#rrggbb". ok is false for anything else.
func parseHexColor(s string) (partColor, bool) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 {
		return partColor{}, false
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return partColor{}, false
	}
	return partColor{R: int(v >> 16 & 0xff), G: int(v >> 8 & 0xff), B: int(v & 0xff)}, true
}

// colorFor picks a placement's own color, falling back to the palette.
func colorFor(hex string, i int) partColor {
	if c, ok := parseHexColor(hex); ok {
		return c
	}
	return partColors[i%len(partColors)]
}

// Page layout constants (A4 landscape in mm).
const (
	pageWidth    = 297.0
	pageHeight   = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	headerHeight = 12.0
	statsHeight  = 30.0
	drawAreaTop  = marginTop + headerHeight + 5.0
)

// ExportPDF generates a PDF report of a cut list. Each stock board is rendered
// on its own page with a layout diagram, followed by a summary page.
func ExportPDF(path string, cl model.CutList) error {
	if len(cl.StockBoards) == 0 {
		return ErrNothingToExport
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, marginBottom)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	for _, board := range cl.StockBoards {
		pdf.AddPage()
		renderBoardPage(pdf, tr, board, cl.KerfWidth)
	}

	pdf.AddPage()
	renderSummaryPage(pdf, tr, cl)

	if err := pdf.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("failed to write PDF: %w", err)
	}
	return nil
}

// renderBoardPage draws a single stock board on the current PDF page.
func renderBoardPage(pdf *fpdf.Fpdf, tr func(string) string, board model.StockBoard, kerf float64) {
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(marginLeft, marginTop)
	title := fmt.Sprintf("%s - Board %d (%s\" x %s\" x %s\")", board.StockName, board.BoardIndex,
		inches(board.StockLength), inches(board.StockWidth), inches(board.StockThickness))
	pdf.CellFormat(pageWidth-marginLeft-marginRight, headerHeight, tr(title), "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(marginLeft, marginTop+headerHeight)
	stats := fmt.Sprintf("Pieces: %d | Used: %.1f sq in | Waste: %.1f sq in | Utilization: %.1f%%",
		len(board.Placements), board.UsedArea, board.WasteArea, board.UtilizationPercent)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 5, stats, "", 0, "L", false, 0, "")

	drawWidth := pageWidth - marginLeft - marginRight
	drawHeight := pageHeight - drawAreaTop - marginBottom - statsHeight

	scale := math.Min(drawWidth/board.StockLength, drawHeight/board.StockWidth)
	canvasW := board.StockLength * scale
	canvasH := board.StockWidth * scale

	offsetX := marginLeft + (drawWidth-canvasW)/2
	offsetY := drawAreaTop

	// Board background (wood color)
	pdf.SetFillColor(210, 180, 140)
	pdf.SetDrawColor(100, 100, 100)
	pdf.SetLineWidth(0.5)
	pdf.Rect(offsetX, offsetY, canvasW, canvasH, "FD")

	drawOffcuts(pdf, model.DetectOffcuts(board, kerf), scale, offsetX, offsetY)

	for i, p := range board.Placements {
		col := colorFor(p.Color, i)
		pw := p.Width * scale
		ph := p.Height * scale
		px := offsetX + p.X*scale
		py := offsetY + p.Y*scale

		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.SetDrawColor(30, 30, 30)
		pdf.SetLineWidth(0.3)
		pdf.Rect(px, py, pw, ph, "FD")

		// Part label (only if rectangle is large enough)
		if pw > 15 && ph > 5 {
			pdf.SetFont("Helvetica", "", labelFontSize(pw, ph))
			pdf.SetTextColor(0, 0, 0)

			label := tr(p.PartName)
			dims := fmt.Sprintf("%s x %s", inches(p.Width), inches(p.Height))
			labelW := pdf.GetStringWidth(label)
			dimsW := pdf.GetStringWidth(dims)

			if labelW < pw-2 {
				pdf.SetXY(px+(pw-labelW)/2, py+ph/2-4)
				pdf.CellFormat(labelW, 4, label, "", 0, "C", false, 0, "")
			}
			if ph > 10 && dimsW < pw-2 {
				pdf.SetXY(px+(pw-dimsW)/2, py+ph/2)
				pdf.CellFormat(dimsW, 4, dims, "", 0, "C", false, 0, "")
			}
		}
	}

	drawDimensionAnnotations(pdf, board, offsetX, offsetY, canvasW, canvasH)
	drawPartsLegend(pdf, tr, board, offsetY+canvasH+7)
}

// drawOffcuts hatches reusable remnants so they stand out from scrap.
func drawOffcuts(pdf *fpdf.Fpdf, offcuts []model.Offcut, scale, offsetX, offsetY float64) {
	for _, o := range offcuts {
		ox := offsetX + o.X*scale
		oy := offsetY + o.Y*scale
		ow := o.Length * scale
		oh := o.Width * scale

		pdf.SetFillColor(235, 220, 190)
		pdf.SetDrawColor(120, 90, 40)
		pdf.SetLineWidth(0.2)
		pdf.Rect(ox, oy, ow, oh, "FD")
		drawHatchPattern(pdf, ox, oy, ow, oh)

		if ow > 20 && oh > 6 {
			pdf.SetFont("Helvetica", "B", 6)
			pdf.SetTextColor(120, 90, 40)
			label := fmt.Sprintf("OFFCUT %s x %s", inches(o.Length), inches(o.Width))
			labelW := pdf.GetStringWidth(label)
			if labelW < ow-2 {
				pdf.SetXY(ox+(ow-labelW)/2, oy+oh/2-2)
				pdf.CellFormat(labelW, 4, label, "", 0, "C", false, 0, "")
			}
		}
	}
	pdf.SetTextColor(0, 0, 0)
}

// drawHatchPattern draws diagonal lines inside a rectangle.
func drawHatchPattern(pdf *fpdf.Fpdf, x, y, w, h float64) {
	pdf.SetLineWidth(0.15)

	spacing := 4.0
	maxDist := w + h

	for d := spacing; d < maxDist; d += spacing {
		x1 := x + math.Max(0, d-h)
		y1 := y + math.Min(h, d)
		x2 := x + math.Min(w, d)
		y2 := y + math.Max(0, d-w)

		pdf.Line(x1, y1, x2, y2)
	}
}

// drawDimensionAnnotations adds length and width labels outside the board rectangle.
func drawDimensionAnnotations(pdf *fpdf.Fpdf, board model.StockBoard, offsetX, offsetY, canvasW, canvasH float64) {
	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(80, 80, 80)

	lengthLabel := inches(board.StockLength) + "\""
	lLabelW := pdf.GetStringWidth(lengthLabel)
	pdf.SetXY(offsetX+(canvasW-lLabelW)/2, offsetY+canvasH+1)
	pdf.CellFormat(lLabelW, 4, lengthLabel, "", 0, "C", false, 0, "")

	widthLabel := inches(board.StockWidth) + "\""
	pdf.TransformBegin()
	pdf.TransformRotate(90, offsetX-3, offsetY+canvasH/2)
	wLabelW := pdf.GetStringWidth(widthLabel)
	pdf.SetXY(offsetX-3-wLabelW/2, offsetY+canvasH/2-2)
	pdf.CellFormat(wLabelW, 4, widthLabel, "", 0, "C", false, 0, "")
	pdf.TransformEnd()

	pdf.SetTextColor(0, 0, 0)
}

// drawPartsLegend renders a compact legend of placed parts below the diagram.
func drawPartsLegend(pdf *fpdf.Fpdf, tr func(string) string, board model.StockBoard, startY float64) {
	if len(board.Placements) == 0 {
		return
	}

	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(marginLeft, startY)
	pdf.CellFormat(30, 4, "Pieces:", "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	xPos := marginLeft + 32
	maxX := pageWidth - marginRight

	for i, p := range board.Placements {
		col := colorFor(p.Color, i)
		label := tr(fmt.Sprintf("%s (%s x %s)", p.PartName, inches(p.Width), inches(p.Height)))
		if p.Rotated {
			label += " R"
		}
		labelW := pdf.GetStringWidth(label) + 6

		if xPos+labelW > maxX {
			startY += 5
			xPos = marginLeft
		}
		if startY > pageHeight-marginBottom-5 {
			break
		}

		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.Rect(xPos, startY+0.5, 3, 3, "F")

		pdf.SetXY(xPos+4, startY)
		pdf.CellFormat(labelW-4, 4, label, "", 0, "L", false, 0, "")

		xPos += labelW + 2
	}
}

// renderSummaryPage draws the final summary page with overall statistics.
func renderSummaryPage(pdf *fpdf.Fpdf, tr func(string) string, cl model.CutList) {
	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 10, "Cut List Summary", "", 0, "L", false, 0, "")

	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.5)
	pdf.Line(marginLeft, marginTop+12, pageWidth-marginRight, marginTop+12)

	y := marginTop + 18
	stats := cl.Statistics

	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Overall Statistics", "", 0, "L", false, 0, "")
	y += 9

	summaryItems := []struct {
		label string
		value string
	}{
		{"Total Parts", strconv.Itoa(stats.TotalParts)},
		{"Boards Used", strconv.Itoa(stats.TotalBoards)},
		{"Board Feet to Buy", fmt.Sprintf("%.2f", stats.TotalBoardFeet)},
		{"Waste", fmt.Sprintf("%.1f%%", stats.WastePercentage)},
		{"Estimated Cost", fmt.Sprintf("$%.2f", stats.EstimatedCost)},
		{"Cost of Waste", fmt.Sprintf("$%.2f", stats.WasteCost)},
		{"Kerf / Overage", fmt.Sprintf("%s\" / %.0f%%", inches(cl.KerfWidth), cl.OverageFactor*100)},
	}

	pdf.SetFont("Helvetica", "", 10)
	for _, item := range summaryItems {
		pdf.SetXY(marginLeft+5, y)
		pdf.CellFormat(60, 6, item.label+":", "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(40, 6, item.value, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		y += 6
	}

	y += 5

	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Stock Breakdown", "", 0, "L", false, 0, "")
	y += 9

	colWidths := []float64{60, 25, 25, 30, 30, 30, 30, 37}
	headers := []string{"Stock", "Used", "To Buy", "Board Feet", "Linear Feet", "Avg Util.", "Cost", "Waste Cost"}

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	xPos := marginLeft
	for i, header := range headers {
		pdf.SetXY(xPos, y)
		pdf.CellFormat(colWidths[i], 6, header, "1", 0, "C", true, 0, "")
		xPos += colWidths[i]
	}
	y += 6

	pdf.SetFont("Helvetica", "", 9)
	for i, s := range stats.ByStock {
		xPos = marginLeft
		rowData := []string{
			tr(s.StockName),
			strconv.Itoa(s.ActualBoardsUsed),
			strconv.Itoa(s.BoardsNeeded),
			fmt.Sprintf("%.2f", s.BoardFeet),
			fmt.Sprintf("%.1f", s.LinearFeet),
			fmt.Sprintf("%.1f%%", s.AverageUtilization),
			fmt.Sprintf("$%.2f", s.Cost),
			fmt.Sprintf("$%.2f", s.WasteCost),
		}

		if i%2 == 0 {
			pdf.SetFillColor(245, 245, 245)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}

		for j, cell := range rowData {
			pdf.SetXY(xPos, y)
			pdf.CellFormat(colWidths[j], 6, cell, "1", 0, "C", true, 0, "")
			xPos += colWidths[j]
		}
		y += 6
	}

	if len(cl.SkippedParts) > 0 {
		y += 8
		pdf.SetFont("Helvetica", "B", 11)
		pdf.SetTextColor(200, 0, 0)
		pdf.SetXY(marginLeft, y)
		pdf.CellFormat(200, 7, "WARNING: Parts that could not be placed", "", 0, "L", false, 0, "")
		y += 8

		pdf.SetFont("Helvetica", "", 9)
		pdf.SetTextColor(0, 0, 0)
		for _, name := range cl.SkippedParts {
			if y > pageHeight-marginBottom-10 {
				break
			}
			pdf.SetXY(marginLeft+5, y)
			pdf.CellFormat(200, 5, tr("- "+name), "", 0, "L", false, 0, "")
			y += 5
		}
	}

	if len(cl.BypassedIssues) > 0 {
		y += 6
		pdf.SetFont("Helvetica", "B", 11)
		pdf.SetTextColor(180, 100, 0)
		pdf.SetXY(marginLeft, y)
		pdf.CellFormat(200, 7, "Validation issues bypassed", "", 0, "L", false, 0, "")
		y += 8

		pdf.SetFont("Helvetica", "", 9)
		pdf.SetTextColor(0, 0, 0)
		for _, issue := range cl.BypassedIssues {
			if y > pageHeight-marginBottom-10 {
				break
			}
			pdf.SetXY(marginLeft+5, y)
			pdf.CellFormat(250, 5, tr(fmt.Sprintf("- [%s] %s", issue.Severity, issue.Message)), "", 0, "L", false, 0, "")
			y += 5
		}
	}

	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(120, 120, 120)
	pdf.SetXY(marginLeft, pageHeight-marginBottom)
	footer := "Generated " + cl.GeneratedAt
	if cl.IsStale {
		footer += " - project changed since generation"
	}
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 4, footer, "", 0, "C", false, 0, "")
}

// labelFontSize returns an appropriate font size based on the rectangle dimensions.
func labelFontSize(w, h float64) float64 {
	minDim := math.Min(w, h)
	switch {
	case minDim > 40:
		return 8
	case minDim > 20:
		return 7
	default:
		return 6
	}
}

// inches formats a dimension with up to three decimals.
func inches(v float64) string {
	return strconv.FormatFloat(math.Round(v*1000)/1000, 'f', -1, 64)
}
