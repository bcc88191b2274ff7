package engine

import (
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/piwi3910/cutlist/internal/model"
)

// Optimizer generates cut lists. Its logger, clock and ID source are
// injectable so output can be made reproducible in tests.
type Optimizer struct {
	logger *slog.Logger
	now    func() time.Time
	newID  func() string
}

// Option configures an Optimizer.
type Option func(*Optimizer)

// WithLogger sets the logger used for skipped parts and saturated glue-ups.
func WithLogger(l *slog.Logger) Option {
	return func(o *Optimizer) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithClock sets the time source for GeneratedAt.
func WithClock(now func() time.Time) Option {
	return func(o *Optimizer) {
		if now != nil {
			o.now = now
		}
	}
}

// WithIDGenerator sets the cut list ID source.
func WithIDGenerator(gen func() string) Option {
	return func(o *Optimizer) {
		if gen != nil {
			o.newID = gen
		}
	}
}

// New creates an optimizer. Without options it logs nothing and stamps
// cut lists with the wall clock and random IDs.
func New(opts ...Option) *Optimizer {
	o := &Optimizer{
		logger: slog.New(slog.DiscardHandler),
		now:    time.Now,
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// GenerateOptimizedCutList runs a default Optimizer.
func GenerateOptimizedCutList(parts []model.Part, stocks []model.Stock, kerfWidth, overageFactor float64, projectModifiedAt string, bypassedIssues []model.ValidationIssue) model.CutList {
	return New().Generate(parts, stocks, kerfWidth, overageFactor, projectModifiedAt, bypassedIssues)
}

// Generate builds instructions, packs every stock independently and
// aggregates statistics. Parts without a stock, or whose stock is missing,
// are left out entirely and do not count toward TotalParts.
func (o *Optimizer) Generate(parts []model.Part, stocks []model.Stock, kerfWidth, overageFactor float64, projectModifiedAt string, bypassedIssues []model.ValidationIssue) model.CutList {
	if kerfWidth < 0 {
		kerfWidth = 0
	}
	if overageFactor < 0 {
		overageFactor = 0
	}

	cl := model.CutList{
		ID:                o.newID(),
		GeneratedAt:       o.now().UTC().Format(time.RFC3339),
		ProjectModifiedAt: projectModifiedAt,
		Instructions:      []model.CutInstruction{},
		StockBoards:       []model.StockBoard{},
		BypassedIssues:    []model.ValidationIssue{},
		SkippedParts:      []string{},
		KerfWidth:         kerfWidth,
		OverageFactor:     overageFactor,
	}
	if len(bypassedIssues) > 0 {
		cl.BypassedIssues = slices.Clone(bypassedIssues)
	}

	groups, totalParts := groupByStock(parts, stocks)
	for _, g := range groups {
		for _, p := range g.parts {
			if p.GlueUpPanel {
				if plan := planStrips(p.CutWidth(), g.stock.Width); plan.capped {
					o.logger.Warn("glue-up panel exceeds strip cap, using wider strips",
						"part", p.Name,
						"stock", g.stock.Name,
						"strips", plan.count,
						"strip_width", plan.width)
				}
			}
			cl.Instructions = append(cl.Instructions, BuildInstructions(p, g.stock)...)
		}

		result := PackOntoStock(PreparePlacements(g.parts, g.stock), g.stock, kerfWidth)
		for _, name := range result.SkippedParts {
			o.logger.Warn("part skipped, does not fit on an empty board",
				"part", name,
				"stock", g.stock.Name,
				"board_count", len(result.Boards),
				"stock_length", g.stock.Length,
				"stock_width", g.stock.Width)
		}
		o.logger.Debug("packed stock",
			"stock", g.stock.Name,
			"parts", len(g.parts),
			"boards", len(result.Boards),
			"skipped", len(result.SkippedParts))

		cl.StockBoards = append(cl.StockBoards, result.Boards...)
		cl.SkippedParts = append(cl.SkippedParts, result.SkippedParts...)
	}

	cl.Statistics = Aggregate(cl.StockBoards, stocks, overageFactor, totalParts)
	o.logger.Info("cut list generated",
		"id", cl.ID,
		"parts", totalParts,
		"boards", cl.Statistics.TotalBoards,
		"skipped", len(cl.SkippedParts))
	return cl
}

// stockGroup holds one stock and the parts assigned to it.
type stockGroup struct {
	stock model.Stock
	parts []model.Part
}

// groupByStock assigns parts to their stock in stock-list order. The first
// stock wins when IDs repeat. It also returns the number of parts that landed
// in a group.
func groupByStock(parts []model.Part, stocks []model.Stock) ([]stockGroup, int) {
	index := make(map[string]int, len(stocks))
	groups := make([]stockGroup, 0, len(stocks))
	for _, s := range stocks {
		if _, ok := index[s.ID]; ok {
			continue
		}
		index[s.ID] = len(groups)
		groups = append(groups, stockGroup{stock: s})
	}

	total := 0
	for _, p := range parts {
		if p.StockID == "" {
			continue
		}
		i, ok := index[p.StockID]
		if !ok {
			continue
		}
		groups[i].parts = append(groups[i].parts, p)
		total++
	}

	nonEmpty := groups[:0]
	for _, g := range groups {
		if len(g.parts) > 0 {
			nonEmpty = append(nonEmpty, g)
		}
	}
	return nonEmpty, total
}
