package camera

import (
	"math"
	"testing"
)

func near(a, b float32) bool {
	return math.Abs(float64(a-b)) < 0.01
}

func TestNew(t *testing.T) {
	cam := New(800, 600, 60)

	if cam.X != 30 || cam.Y != 30 {
		t.Errorf("expected camera at (30, 30), got (%f, %f)", cam.X, cam.Y)
	}
	if cam.Zoom != 1.0 {
		t.Errorf("expected zoom 1.0, got %f", cam.Zoom)
	}
	// Limiting dimension is the 600px height.
	if cam.Scale() != 10 {
		t.Errorf("expected scale 10, got %f", cam.Scale())
	}
}

func TestWorldToScreen(t *testing.T) {
	cam := New(800, 600, 60)

	testCases := []struct {
		wx, wy, sx, sy float32
	}{
		{30, 30, 400, 300}, // centre
		{0, 0, 100, 600},   // bottom-left of the grid
		{0, 60, 100, 0},    // top-left
		{60, 60, 700, 0},   // top-right
	}
	for _, tc := range testCases {
		sx, sy := cam.WorldToScreen(tc.wx, tc.wy)
		if !near(sx, tc.sx) || !near(sy, tc.sy) {
			t.Errorf("(%v,%v): expected (%v,%v), got (%v,%v)", tc.wx, tc.wy, tc.sx, tc.sy, sx, sy)
		}
	}
}

func TestScreenToWorldRoundtrip(t *testing.T) {
	cam := New(800, 600, 60)
	cam.SetZoom(2.5)
	cam.Pan(40, -30)

	testCases := []struct{ sx, sy float32 }{
		{400, 300},
		{10, 10},
		{790, 550},
	}
	for _, tc := range testCases {
		wx, wy := cam.ScreenToWorld(tc.sx, tc.sy)
		sx, sy := cam.WorldToScreen(wx, wy)
		if !near(sx, tc.sx) || !near(sy, tc.sy) {
			t.Errorf("roundtrip failed: (%f,%f) -> (%f,%f) -> (%f,%f)",
				tc.sx, tc.sy, wx, wy, sx, sy)
		}
	}
}

func TestPanAtFittedZoomStaysCentred(t *testing.T) {
	cam := New(800, 600, 60)
	cam.Pan(-200, 150)

	if cam.X != 30 || cam.Y != 30 {
		t.Errorf("expected centred view, got (%f, %f)", cam.X, cam.Y)
	}
}

func TestPanClampsToDomain(t *testing.T) {
	cam := New(800, 600, 60)
	cam.SetZoom(2) // scale 20: half extents 20 x 15

	cam.Pan(-1000, 0)
	if cam.X != 20 {
		t.Errorf("expected X clamped to 20, got %f", cam.X)
	}

	cam.Pan(0, 100) // dragging down moves the view down 5 units
	if !near(cam.Y, 25) {
		t.Errorf("expected Y 25, got %f", cam.Y)
	}

	cam.Pan(0, -10000)
	if cam.Y != 45 {
		t.Errorf("expected Y clamped to 45, got %f", cam.Y)
	}
}

func TestZoomClamp(t *testing.T) {
	cam := New(800, 600, 60)

	cam.SetZoom(0.1)
	if cam.Zoom != 1 {
		t.Errorf("expected zoom clamped to 1, got %f", cam.Zoom)
	}

	cam.SetZoom(100)
	if cam.Zoom != 16 {
		t.Errorf("expected zoom clamped to 16, got %f", cam.Zoom)
	}

	cam.SetZoom(2)
	cam.ZoomBy(2)
	if cam.Zoom != 4 {
		t.Errorf("expected zoom 4, got %f", cam.Zoom)
	}
}

func TestVisibleCells(t *testing.T) {
	cam := New(800, 600, 60)

	x0, y0, x1, y1 := cam.VisibleCells()
	if x0 != 0 || y0 != 0 || x1 != 59 || y1 != 59 {
		t.Errorf("fitted view: expected (0,0,59,59), got (%d,%d,%d,%d)", x0, y0, x1, y1)
	}

	cam.SetZoom(2)
	x0, y0, x1, y1 = cam.VisibleCells()
	if x0 != 10 || y0 != 15 || x1 != 50 || y1 != 45 {
		t.Errorf("zoomed view: expected (10,15,50,45), got (%d,%d,%d,%d)", x0, y0, x1, y1)
	}
}

func TestIsVisible(t *testing.T) {
	cam := New(800, 600, 60)
	cam.SetZoom(4) // half extents 10 x 7.5 around (30, 30)

	if !cam.IsVisible(30, 30, 0.1) {
		t.Error("centre should be visible")
	}
	if cam.IsVisible(5, 5, 0.5) {
		t.Error("far point should not be visible")
	}
	if !cam.IsVisible(19, 30, 2) {
		t.Error("edge point with large radius should be visible")
	}
}

func TestResizeKeepsViewInDomain(t *testing.T) {
	cam := New(800, 600, 60)
	cam.SetZoom(2)
	cam.Pan(-1000, 0) // X = 20

	cam.Resize(1200, 600) // halfW grows to 30
	if cam.X != 30 {
		t.Errorf("expected X re-centred to 30, got %f", cam.X)
	}
}

func TestReset(t *testing.T) {
	cam := New(800, 600, 60)
	cam.SetZoom(3)
	cam.Pan(100, 100)

	cam.Reset()

	if cam.X != 30 || cam.Y != 30 {
		t.Errorf("expected position (30, 30), got (%f, %f)", cam.X, cam.Y)
	}
	if cam.Zoom != 1.0 {
		t.Errorf("expected zoom 1.0, got %f", cam.Zoom)
	}
}
