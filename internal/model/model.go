package model

import "github.com/google/uuid"

// GrainDirection describes which way the wood grain runs on a stock board.
type GrainDirection string

const (
	GrainNone   GrainDirection = "none"   // Sheet goods without a visible grain (MDF, melamine)
	GrainLength GrainDirection = "length" // Grain runs along the board length
	GrainWidth  GrainDirection = "width"  // Grain runs across the board width
)

func (g GrainDirection) String() string {
	switch g {
	case GrainLength:
		return "Length"
	case GrainWidth:
		return "Width"
	default:
		return "None"
	}
}

// PricingUnit determines how a stock's price is interpreted.
type PricingUnit string

const (
	PricePerItem      PricingUnit = "per_item"   // Price is per board or sheet
	PricePerBoardFoot PricingUnit = "board_foot" // Price is per board foot of volume
)

// Part represents a logical piece to cut. All dimensions are in inches.
type Part struct {
	ID             string  `json:"id" yaml:"id" toml:"id"`
	Name           string  `json:"name" yaml:"name" toml:"name"`
	Length         float64 `json:"length" yaml:"length" toml:"length"`
	Width          float64 `json:"width" yaml:"width" toml:"width"`
	Thickness      float64 `json:"thickness" yaml:"thickness" toml:"thickness"`
	StockID        string  `json:"stockId" yaml:"stockId" toml:"stockId"`
	ExtraLength    float64 `json:"extraLength,omitempty" yaml:"extraLength,omitempty" toml:"extraLength,omitempty"` // Joinery allowance added to length
	ExtraWidth     float64 `json:"extraWidth,omitempty" yaml:"extraWidth,omitempty" toml:"extraWidth,omitempty"`    // Joinery allowance added to width
	GrainSensitive bool    `json:"grainSensitive" yaml:"grainSensitive" toml:"grainSensitive"`
	GlueUpPanel    bool    `json:"glueUpPanel,omitempty" yaml:"glueUpPanel,omitempty" toml:"glueUpPanel,omitempty"`
	Color          string  `json:"color,omitempty" yaml:"color,omitempty" toml:"color,omitempty"` // Display color, "#rrggbb"
	Notes          string  `json:"notes,omitempty" yaml:"notes,omitempty" toml:"notes,omitempty"`
}

// NewPart creates a part with a generated ID and no allowances.
func NewPart(name string, length, width, thickness float64, stockID string) Part {
	return Part{
		ID:        uuid.New().String()[:8],
		Name:      name,
		Length:    length,
		Width:     width,
		Thickness: thickness,
		StockID:   stockID,
	}
}

// CutLength returns the length to cut, including the joinery allowance.
func (p Part) CutLength() float64 {
	return p.Length + p.ExtraLength
}

// CutWidth returns the width to cut, including the joinery allowance.
func (p Part) CutWidth() float64 {
	return p.Width + p.ExtraWidth
}

// Stock represents a physical board or sheet type parts are cut from.
type Stock struct {
	ID             string         `json:"id" yaml:"id" toml:"id"`
	Name           string         `json:"name" yaml:"name" toml:"name"`
	Length         float64        `json:"length" yaml:"length" toml:"length"`
	Width          float64        `json:"width" yaml:"width" toml:"width"`
	Thickness      float64        `json:"thickness" yaml:"thickness" toml:"thickness"`
	GrainDirection GrainDirection `json:"grainDirection,omitempty" yaml:"grainDirection,omitempty" toml:"grainDirection,omitempty"`
	PricingUnit    PricingUnit    `json:"pricingUnit" yaml:"pricingUnit" toml:"pricingUnit"`
	PricePerUnit   float64        `json:"pricePerUnit" yaml:"pricePerUnit" toml:"pricePerUnit"`
	Color          string         `json:"color,omitempty" yaml:"color,omitempty" toml:"color,omitempty"`
}

// Area returns the face area of one board in square inches.
func (s Stock) Area() float64 {
	return s.Length * s.Width
}

// CutInstruction is the human-facing instruction for one piece: either a whole
// part or one strip of a glue-up panel.
type CutInstruction struct {
	PartID        string  `json:"partId"`
	PartName      string  `json:"partName"`
	CutLength     float64 `json:"cutLength"`
	CutWidth      float64 `json:"cutWidth"`
	Thickness     float64 `json:"thickness"`
	StockID       string  `json:"stockId"`
	StockName     string  `json:"stockName"`
	CanRotate     bool    `json:"canRotate"`
	IsGlueUpStrip bool    `json:"isGlueUpStrip"`
	Color         string  `json:"color,omitempty"`
	Notes         string  `json:"notes,omitempty"`
}

// CutPlacement is one piece positioned on a board. X runs along the board
// length, Y across its width. Width and Height are the placed size, so they are
// already swapped when Rotated is set.
type CutPlacement struct {
	PartID        string  `json:"partId"`
	PartName      string  `json:"partName"`
	X             float64 `json:"x"`
	Y             float64 `json:"y"`
	Width         float64 `json:"width"`
	Height        float64 `json:"height"`
	Rotated       bool    `json:"rotated"`
	IsGlueUpStrip bool    `json:"isGlueUpStrip"`
	Color         string  `json:"color,omitempty"`
}

// Area returns the placed area in square inches.
func (p CutPlacement) Area() float64 {
	return p.Width * p.Height
}

// StockBoard is one physical board instance of a stock type with its placements.
type StockBoard struct {
	StockID            string         `json:"stockId"`
	StockName          string         `json:"stockName"`
	BoardIndex         int            `json:"boardIndex"` // 1-based, per stock
	StockLength        float64        `json:"stockLength"`
	StockWidth         float64        `json:"stockWidth"`
	StockThickness     float64        `json:"stockThickness"`
	Placements         []CutPlacement `json:"placements"`
	UsedArea           float64        `json:"usedArea"`
	WasteArea          float64        `json:"wasteArea"`
	UtilizationPercent float64        `json:"utilizationPercent"`
}

// TotalArea returns the board face area.
func (b StockBoard) TotalArea() float64 {
	return b.StockLength * b.StockWidth
}

// StockSummary is the per-stock roll-up of a cut list.
type StockSummary struct {
	StockID            string      `json:"stockId"`
	StockName          string      `json:"stockName"`
	PricingUnit        PricingUnit `json:"pricingUnit"`
	PricePerUnit       float64     `json:"pricePerUnit"`
	BoardsNeeded       int         `json:"boardsNeeded"`     // After overage
	ActualBoardsUsed   int         `json:"actualBoardsUsed"` // As packed
	BoardFeet          float64     `json:"boardFeet"`
	LinearFeet         float64     `json:"linearFeet"`
	AverageUtilization float64     `json:"averageUtilization"`
	WasteArea          float64     `json:"wasteArea"`
	Cost               float64     `json:"cost"`
	WasteCost          float64     `json:"wasteCost"`
}

// CutListStatistics aggregates the whole project.
type CutListStatistics struct {
	TotalParts      int            `json:"totalParts"`
	TotalBoards     int            `json:"totalBoards"`
	TotalBoardFeet  float64        `json:"totalBoardFeet"`
	WastePercentage float64        `json:"wastePercentage"`
	EstimatedCost   float64        `json:"estimatedCost"`
	WasteCost       float64        `json:"wasteCost"`
	ByStock         []StockSummary `json:"byStock"`
}

// Severity classifies a validation issue.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// ValidationIssue is a problem found in the project before optimization.
type ValidationIssue struct {
	Code     string   `json:"code" yaml:"code" toml:"code"`
	Severity Severity `json:"severity" yaml:"severity" toml:"severity"`
	PartID   string   `json:"partId,omitempty" yaml:"partId,omitempty" toml:"partId,omitempty"`
	PartName string   `json:"partName,omitempty" yaml:"partName,omitempty" toml:"partName,omitempty"`
	Message  string   `json:"message" yaml:"message" toml:"message"`
}

// CutList is the complete optimizer result.
type CutList struct {
	ID                string            `json:"id"`
	GeneratedAt       string            `json:"generatedAt"` // RFC 3339, UTC
	ProjectModifiedAt string            `json:"projectModifiedAt"`
	IsStale           bool              `json:"isStale"` // Set by callers when the project changes after generation
	Instructions      []CutInstruction  `json:"instructions"`
	StockBoards       []StockBoard      `json:"stockBoards"`
	Statistics        CutListStatistics `json:"statistics"`
	BypassedIssues    []ValidationIssue `json:"bypassedIssues"`
	SkippedParts      []string          `json:"skippedParts"`
	KerfWidth         float64           `json:"kerfWidth"`
	OverageFactor     float64           `json:"overageFactor"`
}

// PlacementCount returns the number of placed pieces across all boards.
func (c CutList) PlacementCount() int {
	total := 0
	for _, b := range c.StockBoards {
		total += len(b.Placements)
	}
	return total
}

// Project ties the optimizer inputs together for load/save.
type Project struct {
	Name           string            `json:"name" yaml:"name" toml:"name"`
	ModifiedAt     string            `json:"modifiedAt,omitempty" yaml:"modifiedAt,omitempty" toml:"modifiedAt,omitempty"`
	KerfWidth      *float64          `json:"kerfWidth,omitempty" yaml:"kerfWidth,omitempty" toml:"kerfWidth,omitempty"`
	OverageFactor  *float64          `json:"overageFactor,omitempty" yaml:"overageFactor,omitempty" toml:"overageFactor,omitempty"`
	Parts          []Part            `json:"parts" yaml:"parts" toml:"parts"`
	Stocks         []Stock           `json:"stocks" yaml:"stocks" toml:"stocks"`
	BypassedIssues []ValidationIssue `json:"bypassedIssues,omitempty" yaml:"bypassedIssues,omitempty" toml:"bypassedIssues,omitempty"`
}

// NewProject returns an empty untitled project.
func NewProject() Project {
	return Project{
		Name:   "Untitled",
		Parts:  []Part{},
		Stocks: []Stock{},
	}
}

// FindStock returns the first stock with the given ID, or nil.
func (p *Project) FindStock(id string) *Stock {
	for i := range p.Stocks {
		if p.Stocks[i].ID == id {
			return &p.Stocks[i]
		}
	}
	return nil
}
