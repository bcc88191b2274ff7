package importer

import (
	"path/filepath"
	"testing"

	"github.com/yofu/dxf"
)

func TestChainSegments_Rectangle(t *testing.T) {
	segs := []segment{
		{start: point{0, 0}, end: point{30, 0}},
		{start: point{30, 12}, end: point{30, 0}},
		{start: point{30, 12}, end: point{0, 12}},
		{start: point{0, 12}, end: point{0, 0}},
	}

	outlines := chainSegments(segs, 0.01)

	if len(outlines) != 1 {
		t.Fatalf("expected 1 outline, got %d", len(outlines))
	}
	if len(outlines[0]) != 4 {
		t.Errorf("expected 4 vertices, got %d", len(outlines[0]))
	}
	if a := outlines[0].area(); a != 360 {
		t.Errorf("expected area 360, got %f", a)
	}
}

func TestChainSegments_OpenChainDropped(t *testing.T) {
	segs := []segment{
		{start: point{0, 0}, end: point{10, 0}},
		{start: point{10, 0}, end: point{10, 10}},
	}
	if outlines := chainSegments(segs, 0.01); len(outlines) != 0 {
		t.Errorf("expected no outlines for open chain, got %d", len(outlines))
	}
}

func TestOutlineBoundingBox(t *testing.T) {
	o := outline{{2, 3}, {10, 3}, {10, 7}, {2, 7}}
	min, max := o.boundingBox()
	if min != (point{2, 3}) || max != (point{10, 7}) {
		t.Errorf("unexpected bounding box %v %v", min, max)
	}
}

func TestImportDXF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "parts.dxf")

	d := dxf.NewDrawing()
	// A 12" x 30" panel drawn upright, so length and width must swap.
	corners := [][2]float64{{0, 0}, {12, 0}, {12, 30}, {0, 30}}
	for i := range corners {
		a, b := corners[i], corners[(i+1)%len(corners)]
		if _, err := d.Line(a[0], a[1], 0, b[0], b[1], 0); err != nil {
			t.Fatalf("failed to add line: %v", err)
		}
	}
	if _, err := d.Circle(50, 50, 0, 2); err != nil {
		t.Fatalf("failed to add circle: %v", err)
	}
	if err := d.SaveAs(path); err != nil {
		t.Fatalf("failed to save DXF: %v", err)
	}

	result := ImportDXF(path, "ply", 0.75)

	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Parts) != 2 {
		t.Fatalf("expected 2 parts, got %d", len(result.Parts))
	}

	disc := result.Parts[0]
	if disc.Length != 4 || disc.Width != 4 {
		t.Errorf("expected 4 x 4 disc, got %v x %v", disc.Length, disc.Width)
	}
	if disc.Notes == "" {
		t.Error("expected non-rectangular note on disc")
	}

	panel := result.Parts[1]
	if panel.Length != 30 || panel.Width != 12 {
		t.Errorf("expected 30 x 12 panel, got %v x %v", panel.Length, panel.Width)
	}
	if panel.StockID != "ply" || panel.Thickness != 0.75 {
		t.Errorf("expected stock ply at 0.75\", got %q at %v", panel.StockID, panel.Thickness)
	}
}

func TestImportDXF_FileNotFound(t *testing.T) {
	if result := ImportDXF("/nonexistent/parts.dxf", "s", 1); len(result.Errors) == 0 {
		t.Error("expected error for nonexistent file")
	}
}
