package model

import "testing"

func TestNewPart(t *testing.T) {
	p := NewPart("Shelf", 30, 10, 0.75, "ply")

	if len(p.ID) != 8 {
		t.Errorf("expected 8 character ID, got %q", p.ID)
	}
	if p.Name != "Shelf" || p.StockID != "ply" {
		t.Errorf("unexpected part %+v", p)
	}
	if p.GrainSensitive || p.GlueUpPanel {
		t.Error("new parts should not be grain sensitive or glue-ups")
	}

	other := NewPart("Shelf", 30, 10, 0.75, "ply")
	if other.ID == p.ID {
		t.Error("expected unique IDs")
	}
}

func TestCutDimensionsIncludeAllowances(t *testing.T) {
	p := Part{Length: 30, Width: 10, ExtraLength: 1.5, ExtraWidth: 0.25}
	if got := p.CutLength(); got != 31.5 {
		t.Errorf("expected cut length 31.5, got %v", got)
	}
	if got := p.CutWidth(); got != 10.25 {
		t.Errorf("expected cut width 10.25, got %v", got)
	}
}

func TestStockArea(t *testing.T) {
	s := Stock{Name: "Walnut 8/4", Length: 96, Width: 8, Thickness: 2}
	if s.Area() != 768 {
		t.Errorf("expected area 768, got %v", s.Area())
	}
}

func TestCutListPlacementCount(t *testing.T) {
	cl := CutList{StockBoards: []StockBoard{
		{Placements: make([]CutPlacement, 3)},
		{Placements: make([]CutPlacement, 2)},
		{},
	}}
	if got := cl.PlacementCount(); got != 5 {
		t.Errorf("expected 5 placements, got %d", got)
	}
}

func TestProjectFindStock(t *testing.T) {
	p := NewProject()
	p.Stocks = []Stock{
		{ID: "oak", Name: "Oak"},
		{ID: "oak", Name: "Oak duplicate"},
		{ID: "ply", Name: "Ply"},
	}

	if s := p.FindStock("oak"); s == nil || s.Name != "Oak" {
		t.Errorf("expected first oak stock, got %+v", s)
	}
	if s := p.FindStock("maple"); s != nil {
		t.Errorf("expected nil for unknown stock, got %+v", s)
	}
}
