package pocketing

import "testing"

func TestWeilerAthertonDifferenceOverlappingSquares(t *testing.T) {
	subject := rectLoop(0, 0, 10, 10)
	clip := rectLoop(5, 5, 15, 15) // overlaps the top-right quadrant of subject
	out, err := weilerAthertonDifference(subject, clip)
	if err != nil {
		t.Fatalf("weilerAthertonDifference() error = %v", err)
	}
	if len(out) == 0 {
		t.Fatal("weilerAthertonDifference() produced no loops")
	}
	total := 0.0
	for _, l := range out {
		total += Area(l)
	}
	want := Area(subject) - 25.0 // the 5x5 overlap removed
	if !almostEqualTol(total, want, 0.5) {
		t.Errorf("weilerAthertonDifference() total area = %v, want ~%v", total, want)
	}
}

func TestWeilerAthertonDifferenceNonOverlappingReturnsSubject(t *testing.T) {
	subject := rectLoop(0, 0, 10, 10)
	clip := rectLoop(20, 20, 30, 30)
	out, err := weilerAthertonDifference(subject, clip)
	if err != nil {
		t.Fatalf("weilerAthertonDifference() error = %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("weilerAthertonDifference() produced %d loops, want 1 (no crossing found)", len(out))
	}
}

// TestTraceContourReportsUnclosed hand-builds a subject/clip crossing
// graph whose jump chain ping-pongs between one subject crossing and one
// clip crossing forever, never revisiting the start index. traceContour
// must report closed=false once its step budget runs out rather than
// returning the partial point list as if it were a valid ring.
func TestTraceContourReportsUnclosed(t *testing.T) {
	sv := []wavert{
		{isXing: true, partner: 0}, // start
		{isXing: true, partner: 0},
		{isXing: true, partner: 0},
	}
	cv := []wavert{
		{},
		{isXing: true, partner: 1},
	}

	_, closed := traceContour(sv, cv, 0)
	if closed {
		t.Error("traceContour() reported closed=true for a crossing graph that never revisits start")
	}
}
