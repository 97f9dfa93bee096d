package pocketing

import "testing"

func TestTargetChord(t *testing.T) {
	got := targetChord(3, 10)
	want := 1.5 // min(3*0.5, 10*0.25) = min(1.5, 2.5)
	if !almostEqual(got, want) {
		t.Errorf("targetChord() = %v, want %v", got, want)
	}
}

func TestResampleAddsIntermediatePoints(t *testing.T) {
	l := rectLoop(0, 0, 20, 20)
	out := resample(l, 2, 1, 0.1)
	if out.Len() <= l.Len() {
		t.Errorf("resample() produced %d points, want more than the original %d", out.Len(), l.Len())
	}
	if !almostEqualTol(Area(out), Area(l), 1e-6) {
		t.Errorf("resample() changed enclosed area: %v vs %v", Area(out), Area(l))
	}
}

func TestResampleLeavesSmallLoopUntouched(t *testing.T) {
	l := Loop{Points: []Point{{0, 0}, {1, 0}, {0, 1}}}
	out := resample(l, 0.5, 0.1, 0.01)
	if out.Len() < 3 {
		t.Fatalf("resample() dropped points: got %d", out.Len())
	}
}

func TestFilletRoundsSharpCorner(t *testing.T) {
	// fillet's circumradius proxy for local curvature only reflects a
	// corner's true sharpness once the loop carries closely-spaced
	// points there (the planner always resamples before filleting), so
	// this test resamples first, matching real usage.
	l := resample(rectLoop(0, 0, 20, 20), 2, 0.5, 0.05)
	result := fillet(l, 3)
	if len(result.Overlays) != 4 {
		t.Fatalf("fillet() produced %d overlays, want 4 (one per square corner)", len(result.Overlays))
	}
	if result.Loop.Len() <= l.Len() {
		t.Errorf("fillet() did not add arc points, got %d points", result.Loop.Len())
	}
	if Area(result.Loop) >= Area(l) {
		t.Errorf("fillet() should shrink enclosed area slightly, got %v vs %v", Area(result.Loop), Area(l))
	}
}

func TestFilletLeavesGentleCornersAlone(t *testing.T) {
	l := circleLoop(0, 0, 10, 64)
	result := fillet(l, 0.01)
	if len(result.Overlays) != 0 {
		t.Errorf("fillet() inserted %d arcs on an already-gentle curve, want 0", len(result.Overlays))
	}
}
