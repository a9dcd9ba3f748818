package camera

import (
	"math"
	"testing"
)

func near(a, b float32) bool {
	return math.Abs(float64(a-b)) < 0.01
}

func TestNewFitsArena(t *testing.T) {
	cam := New(800, 600, 800, 600)
	if cam.X != 400 || cam.Y != 300 {
		t.Errorf("expected camera at (400, 300), got (%f, %f)", cam.X, cam.Y)
	}
	if cam.Zoom != 1.0 {
		t.Errorf("expected zoom 1.0, got %f", cam.Zoom)
	}

	// Wide arena in a square viewport: limiting axis is width
	cam = New(600, 600, 1200, 600)
	if !near(cam.Zoom, 0.5) {
		t.Errorf("expected fit zoom 0.5, got %f", cam.Zoom)
	}
	if !near(cam.MinZoom, 0.25) {
		t.Errorf("expected MinZoom 0.25, got %f", cam.MinZoom)
	}
}

func TestWorldToScreenCentered(t *testing.T) {
	cam := New(800, 600, 800, 600)
	sx, sy := cam.WorldToScreen(400, 300)
	if !near(sx, 400) || !near(sy, 300) {
		t.Errorf("expected screen center (400, 300), got (%f, %f)", sx, sy)
	}
	// Origin maps to the top-left corner at 1:1
	sx, sy = cam.WorldToScreen(0, 0)
	if !near(sx, 0) || !near(sy, 0) {
		t.Errorf("expected (0, 0), got (%f, %f)", sx, sy)
	}
}

func TestScreenToWorldRoundtrip(t *testing.T) {
	cam := New(800, 600, 1600, 1200)
	cam.SetZoom(2)
	cam.Pan(150, -40)

	testCases := []struct{ sx, sy float32 }{
		{400, 300},
		{10, 10},
		{790, 590},
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

func TestPanClampsToArena(t *testing.T) {
	cam := New(800, 600, 800, 600)
	cam.SetZoom(2) // visible area 400x300

	cam.Pan(-10000, -10000)
	if !near(cam.X, 200) || !near(cam.Y, 150) {
		t.Errorf("expected clamp to (200, 150), got (%f, %f)", cam.X, cam.Y)
	}

	cam.Pan(10000, 10000)
	if !near(cam.X, 600) || !near(cam.Y, 450) {
		t.Errorf("expected clamp to (600, 450), got (%f, %f)", cam.X, cam.Y)
	}
}

func TestZoomedOutStaysCentered(t *testing.T) {
	cam := New(800, 600, 800, 600)
	cam.Pan(100, 100)
	if cam.X != 400 || cam.Y != 300 {
		t.Errorf("whole arena visible, center should not move: (%f, %f)", cam.X, cam.Y)
	}
}

func TestZoomClamp(t *testing.T) {
	cam := New(800, 600, 800, 600)

	cam.SetZoom(0.1)
	if !near(cam.Zoom, 0.5) {
		t.Errorf("expected zoom clamped to 0.5, got %f", cam.Zoom)
	}

	cam.SetZoom(10.0)
	if cam.Zoom != 6.0 {
		t.Errorf("expected zoom clamped to 6.0, got %f", cam.Zoom)
	}
}

func TestIsVisible(t *testing.T) {
	cam := New(800, 600, 1600, 1200)
	cam.SetZoom(1) // visible (400..1200, 300..900)

	if !cam.IsVisible(800, 600, 5) {
		t.Error("center should be visible")
	}
	if cam.IsVisible(1500, 1100, 5) {
		t.Error("far point should not be visible")
	}
	if !cam.IsVisible(380, 600, 30) {
		t.Error("edge point with large radius should be visible")
	}
}

func TestResizeKeepsZoomInRange(t *testing.T) {
	cam := New(800, 600, 800, 600)
	cam.SetZoom(0.5)
	cam.Resize(1600, 1200)
	if cam.Zoom < cam.MinZoom {
		t.Errorf("zoom %f below min %f after resize", cam.Zoom, cam.MinZoom)
	}
	if !near(cam.MinZoom, 1.0) {
		t.Errorf("expected MinZoom 1.0 after resize, got %f", cam.MinZoom)
	}
}

func TestReset(t *testing.T) {
	cam := New(800, 600, 800, 600)
	cam.SetZoom(3)
	cam.Pan(200, 200)

	cam.Reset()

	if cam.X != 400 || cam.Y != 300 {
		t.Errorf("expected position (400, 300), got (%f, %f)", cam.X, cam.Y)
	}
	if cam.Zoom != 1.0 {
		t.Errorf("expected zoom 1.0, got %f", cam.Zoom)
	}
}
