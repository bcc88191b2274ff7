// Package importer provides CSV and Excel import functionality for part lists.
// It supports automatic delimiter detection, flexible column mapping, and
// case-insensitive header recognition.
package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/cutlist/internal/model"
)

// MaxQuantity caps the copies a single row may expand into.
const MaxQuantity = 10000

// ImportResult holds the results of an import operation.
type ImportResult struct {
	Parts    []model.Part
	Errors   []string
	Warnings []string
}

// ColumnMapping maps semantic column roles to their indices in the data.
// A value of -1 means the column is absent.
type ColumnMapping struct {
	Name        int
	Length      int
	Width       int
	Thickness   int
	Quantity    int
	Stock       int
	Grain       int
	GlueUp      int
	ExtraLength int
	ExtraWidth  int
	Notes       int
}

func (m *ColumnMapping) roles() map[string]*int {
	return map[string]*int{
		"name":         &m.Name,
		"length":       &m.Length,
		"width":        &m.Width,
		"thickness":    &m.Thickness,
		"quantity":     &m.Quantity,
		"stock":        &m.Stock,
		"grain":        &m.Grain,
		"glueup":       &m.GlueUp,
		"extra_length": &m.ExtraLength,
		"extra_width":  &m.ExtraWidth,
		"notes":        &m.Notes,
	}
}

// headerAliases maps canonical column names to their accepted aliases (all lowercase).
var headerAliases = map[string][]string{
	"name":         {"name", "label", "part", "part name", "description", "desc", "piece", "item"},
	"length":       {"length", "len", "l", "long"},
	"width":        {"width", "w", "wide"},
	"thickness":    {"thickness", "thick", "t", "thk"},
	"quantity":     {"quantity", "qty", "count", "num", "amount", "pcs", "pieces"},
	"stock":        {"stock", "stock id", "stockid", "material", "board", "species"},
	"grain":        {"grain", "grain sensitive", "grain direction", "grain dir"},
	"glueup":       {"glue-up", "glueup", "glue up", "glue-up panel", "panel"},
	"extra_length": {"extra length", "extra_length", "length allowance", "extra l"},
	"extra_width":  {"extra width", "extra_width", "width allowance", "extra w"},
	"notes":        {"notes", "note", "comment", "comments"},
}

// positionalMapping is used when the first row is not a recognizable header:
// Name, Length, Width, Thickness, Quantity, Stock.
var positionalMapping = ColumnMapping{
	Name:        0,
	Length:      1,
	Width:       2,
	Thickness:   3,
	Quantity:    4,
	Stock:       5,
	Grain:       -1,
	GlueUp:      -1,
	ExtraLength: -1,
	ExtraWidth:  -1,
	Notes:       -1,
}

// DetectCSVDelimiter reads the file content and determines the most likely CSV delimiter.
// It tries comma, semicolon, tab, and pipe. The delimiter that produces the most
// consistent (non-one) column count across lines wins.
func DetectCSVDelimiter(data []byte) rune {
	candidates := []rune{',', ';', '\t', '|'}
	bestDelimiter := ','
	bestScore := 0

	for _, delim := range candidates {
		reader := csv.NewReader(bytes.NewReader(data))
		reader.Comma = delim
		reader.LazyQuotes = true
		reader.FieldsPerRecord = -1

		records, err := reader.ReadAll()
		if err != nil || len(records) < 1 {
			continue
		}

		firstCols := len(records[0])
		if firstCols < 2 {
			continue
		}

		score := 0
		for _, row := range records {
			if len(row) == firstCols {
				score++
			}
		}

		weighted := score*10 + firstCols
		if weighted > bestScore {
			bestScore = weighted
			bestDelimiter = delim
		}
	}

	return bestDelimiter
}

// DetectColumns examines a header row and returns a ColumnMapping.
// Matching is case-insensitive against the known aliases for each role; the
// first matching column wins. Returns the positional mapping and false if no
// header cell was recognized.
func DetectColumns(row []string) (ColumnMapping, bool) {
	mapping := ColumnMapping{}
	roles := mapping.roles()
	for _, idx := range roles {
		*idx = -1
	}

	isHeader := false
	for i, cell := range row {
		normalized := strings.ToLower(strings.TrimSpace(cell))
		for role, aliases := range headerAliases {
			for _, alias := range aliases {
				if normalized != alias {
					continue
				}
				isHeader = true
				if idx := roles[role]; *idx == -1 {
					*idx = i
				}
			}
		}
	}

	if !isHeader {
		return positionalMapping, false
	}
	return mapping, true
}

// parseFlag interprets yes/no style cells used by the grain and glue-up
// columns. The second result is false for unrecognized text.
func parseFlag(s string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "y", "true", "1", "x":
		return true, true
	case "", "no", "n", "false", "0", "-", "none":
		return false, true
	default:
		return false, false
	}
}

// getCell safely retrieves a cell value from a row by column index.
// Returns empty string if the index is out of range or negative.
func getCell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func parseDimension(row []string, idx int, field, rowLabel string, required bool) (float64, string) {
	s := getCell(row, idx)
	if s == "" {
		if required {
			return 0, fmt.Sprintf("%s: Missing %s value", rowLabel, field)
		}
		return 0, ""
	}
	v, err := strconv.ParseFloat(strings.TrimSuffix(s, "\""), 64)
	if err != nil {
		return 0, fmt.Sprintf("%s: Invalid %s '%s'", rowLabel, field, s)
	}
	return v, ""
}

// parseRow extracts parts from a row using the given column mapping. A
// quantity above one expands into numbered copies.
// Returns the parts, any error message, and any warnings.
func parseRow(row []string, mapping ColumnMapping, rowLabel string, partCount int) ([]model.Part, string, []string) {
	name := getCell(row, mapping.Name)
	if name == "" {
		name = fmt.Sprintf("Part %d", partCount+1)
	}

	length, errMsg := parseDimension(row, mapping.Length, "length", rowLabel, true)
	if errMsg != "" {
		return nil, errMsg, nil
	}
	width, errMsg := parseDimension(row, mapping.Width, "width", rowLabel, true)
	if errMsg != "" {
		return nil, errMsg, nil
	}
	thickness, errMsg := parseDimension(row, mapping.Thickness, "thickness", rowLabel, false)
	if errMsg != "" {
		return nil, errMsg, nil
	}
	extraLength, errMsg := parseDimension(row, mapping.ExtraLength, "extra length", rowLabel, false)
	if errMsg != "" {
		return nil, errMsg, nil
	}
	extraWidth, errMsg := parseDimension(row, mapping.ExtraWidth, "extra width", rowLabel, false)
	if errMsg != "" {
		return nil, errMsg, nil
	}

	qty := 1
	if qtyStr := getCell(row, mapping.Quantity); qtyStr != "" {
		var err error
		qty, err = strconv.Atoi(qtyStr)
		if err != nil {
			return nil, fmt.Sprintf("%s: Invalid quantity '%s'", rowLabel, qtyStr), nil
		}
	}

	if length <= 0 || width <= 0 || qty <= 0 {
		return nil, fmt.Sprintf("%s: Length, width, and quantity must be positive", rowLabel), nil
	}
	if qty > MaxQuantity {
		return nil, fmt.Sprintf("%s: Quantity %d exceeds the limit of %d", rowLabel, qty, MaxQuantity), nil
	}
	if thickness < 0 || extraLength < 0 || extraWidth < 0 {
		return nil, fmt.Sprintf("%s: Thickness and allowances cannot be negative", rowLabel), nil
	}

	var warnings []string
	grain, ok := parseFlag(getCell(row, mapping.Grain))
	if !ok {
		warnings = append(warnings, fmt.Sprintf("%s: Unknown grain value '%s', treating as not grain sensitive", rowLabel, getCell(row, mapping.Grain)))
	}
	glueUp, ok := parseFlag(getCell(row, mapping.GlueUp))
	if !ok {
		warnings = append(warnings, fmt.Sprintf("%s: Unknown glue-up value '%s', treating as a solid part", rowLabel, getCell(row, mapping.GlueUp)))
	}

	parts := make([]model.Part, 0, qty)
	for i := 1; i <= qty; i++ {
		partName := name
		if qty > 1 {
			partName = fmt.Sprintf("%s #%d", name, i)
		}
		part := model.NewPart(partName, length, width, thickness, getCell(row, mapping.Stock))
		part.ExtraLength = extraLength
		part.ExtraWidth = extraWidth
		part.GrainSensitive = grain
		part.GlueUpPanel = glueUp
		part.Notes = getCell(row, mapping.Notes)
		parts = append(parts, part)
	}

	return parts, "", warnings
}

// isEmptyRow returns true if the row has no meaningful content.
func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// ImportCSV imports parts from a CSV file.
// It automatically detects the delimiter and maps columns by header names.
// Supports comma, semicolon, tab, and pipe delimiters.
func ImportCSV(path string) ImportResult {
	result := ImportResult{}

	data, err := os.ReadFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open file: %v", err))
		return result
	}

	if len(bytes.TrimSpace(data)) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	delimiter := DetectCSVDelimiter(data)
	var warnings []string
	if delimiter != ',' {
		delimName := map[rune]string{';': "semicolon", '\t': "tab", '|': "pipe"}[delimiter]
		warnings = append(warnings, fmt.Sprintf("Detected %s delimiter", delimName))
	}

	records, err := readCSV(bytes.NewReader(data), delimiter)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read CSV: %v", err))
		return result
	}
	if len(records) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	return importFromRows(records, "Line", warnings)
}

// ImportCSVFromReader imports parts from a CSV reader with a specific delimiter.
// This is useful for testing or when the delimiter is already known.
func ImportCSVFromReader(reader io.Reader, delimiter rune) ImportResult {
	result := ImportResult{}

	records, err := readCSV(reader, delimiter)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read CSV: %v", err))
		return result
	}
	if len(records) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	return importFromRows(records, "Line", nil)
}

func readCSV(r io.Reader, delimiter rune) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.Comma = delimiter
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1
	return reader.ReadAll()
}

// ImportExcel imports parts from an Excel (.xlsx) file.
// Reads the first sheet and auto-detects column mapping from headers.
func ImportExcel(path string) ImportResult {
	result := ImportResult{}

	f, err := excelize.OpenFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open Excel file: %v", err))
		return result
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		result.Errors = append(result.Errors, "Excel file has no sheets")
		return result
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read Excel data: %v", err))
		return result
	}

	if len(rows) == 0 {
		result.Errors = append(result.Errors, "Sheet is empty")
		return result
	}

	return importFromRows(rows, "Row", nil)
}

// importFromRows is the shared import logic for both CSV and Excel data.
// It detects headers, maps columns, and parses each row into parts.
func importFromRows(rows [][]string, rowPrefix string, initialWarnings []string) ImportResult {
	result := ImportResult{
		Warnings: initialWarnings,
	}

	if len(rows) == 0 {
		result.Errors = append(result.Errors, "No data rows found")
		return result
	}

	mapping, hasHeader := DetectColumns(rows[0])
	startRow := 0
	if hasHeader {
		startRow = 1
		result.Warnings = append(result.Warnings, "Detected header row, skipping")

		var missing []string
		if mapping.Length == -1 {
			missing = append(missing, "Length")
		}
		if mapping.Width == -1 {
			missing = append(missing, "Width")
		}
		if len(missing) > 0 {
			result.Errors = append(result.Errors, fmt.Sprintf("Required columns not found in header: %s", strings.Join(missing, ", ")))
			return result
		}
	} else if len(rows[0]) >= 3 {
		// An unrecognized header still has text where the length belongs.
		if _, err := strconv.ParseFloat(strings.TrimSpace(rows[0][1]), 64); err != nil {
			startRow = 1
			result.Warnings = append(result.Warnings, "Detected header row, skipping")
		}
	}

	for i := startRow; i < len(rows); i++ {
		row := rows[i]
		if isEmptyRow(row) {
			continue
		}

		rowLabel := fmt.Sprintf("%s %d", rowPrefix, i+1)
		parts, errMsg, warnings := parseRow(row, mapping, rowLabel, len(result.Parts))
		if errMsg != "" {
			result.Errors = append(result.Errors, errMsg)
			continue
		}
		result.Warnings = append(result.Warnings, warnings...)
		result.Parts = append(result.Parts, parts...)
	}

	return result
}

// ApplyDefaults fills in a stock ID and thickness for imported parts that do
// not carry their own.
func (r *ImportResult) ApplyDefaults(stockID string, thickness float64) {
	for i := range r.Parts {
		if r.Parts[i].StockID == "" {
			r.Parts[i].StockID = stockID
		}
		if r.Parts[i].Thickness == 0 {
			r.Parts[i].Thickness = thickness
		}
	}
}
