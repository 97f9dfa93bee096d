package pocketing

import (
	"math"
	"testing"
)

func TestInsertTrochoidsFlagsTightCorner(t *testing.T) {
	// A path with one sharp right-angle corner surrounded by long straight
	// runs: the corner triple has a small turn radius relative to the
	// trochoidRadiusMin threshold.
	points := []Point{
		{0, 0}, {10, 0}, {10.1, 0.1}, {10.2, 1}, {10, 10}, {20, 10},
	}
	shape := insertTrochoids(points, 5, 1, 2, 3, false)
	if len(shape.Overlays) == 0 {
		t.Fatal("insertTrochoids() found no tight-radius overlay, want at least one")
	}
	for _, o := range shape.Overlays {
		if o.Kind != OverlayTightRadius {
			t.Errorf("overlay kind = %v, want OverlayTightRadius when useTrochoids=false", o.Kind)
		}
	}
}

func TestInsertTrochoidsReplacesHotspotWithArcsWhenEnabled(t *testing.T) {
	// Build a tight circular arc run (small radius) long enough to exceed
	// trochoidPitch, surrounded by straight approach/exit runs.
	var points []Point
	points = append(points, Point{-10, -1})
	points = append(points, Point{0, -1})
	n := 20
	for i := 0; i <= n; i++ {
		a := math.Pi * float64(i) / float64(n)
		points = append(points, Point{1 * math.Cos(a), 1 * math.Sin(a) - 1})
	}
	points = append(points, Point{10, -1})

	shape := insertTrochoids(points, 0.8, 0.3, 0.5, 1, true)
	foundArc := false
	for _, e := range shape.Elements {
		if e.Kind == ElemArc {
			foundArc = true
		}
	}
	if !foundArc {
		t.Error("insertTrochoids() did not insert any arc elements for a long tight-radius run")
	}
	foundOverlay := false
	for _, o := range shape.Overlays {
		if o.Kind == OverlayTrochoidCenter {
			foundOverlay = true
		}
	}
	if !foundOverlay {
		t.Error("insertTrochoids() did not emit a TrochoidCenter overlay")
	}
}

func TestInsertTrochoidsStraightPathHasNoOverlays(t *testing.T) {
	points := []Point{{0, 0}, {10, 0}, {20, 0}, {30, 0}}
	shape := insertTrochoids(points, 1, 0.5, 1, 1, true)
	if len(shape.Overlays) != 0 {
		t.Errorf("insertTrochoids() on a straight line produced %d overlays, want 0", len(shape.Overlays))
	}
	if len(shape.Elements) != 3 {
		t.Errorf("insertTrochoids() produced %d elements, want 3 line segments", len(shape.Elements))
	}
}

func TestLinesFromPointsCount(t *testing.T) {
	pts := []Point{{0, 0}, {1, 0}, {2, 0}, {3, 0}}
	got := linesFromPoints(pts)
	if len(got) != 3 {
		t.Errorf("linesFromPoints() = %d elements, want 3", len(got))
	}
}

func TestCumulativeLengthMonotonic(t *testing.T) {
	pts := []Point{{0, 0}, {3, 4}, {3, 8}}
	cum := cumulativeLength(pts)
	if cum[0] != 0 {
		t.Errorf("cumulativeLength()[0] = %v, want 0", cum[0])
	}
	if !almostEqual(cum[1], 5) {
		t.Errorf("cumulativeLength()[1] = %v, want 5", cum[1])
	}
	if !almostEqual(cum[2], 9) {
		t.Errorf("cumulativeLength()[2] = %v, want 9", cum[2])
	}
}
