package pocketing

import "testing"

func TestAdaptiveStepoverTriggersOnNarrowNeck(t *testing.T) {
	// A narrow neck: the outer ring's window around the bridge point is
	// much longer than the inner ring's, pushing the ratio above
	// adaptiveRatioBaseline.
	outer := rectLoop(0, 0, 60, 60)
	inner := rectLoop(25, 25, 35, 35)
	rings := []Ring{{Loop: outer}, {Loop: inner}}
	groups := stitch(rings, false)
	if len(groups) != 1 {
		t.Fatalf("stitch() produced %d groups, want 1", len(groups))
	}
	zones, overlays := adaptiveStepover(groups[0], 2, 2, 6, 0)
	if len(zones) == 0 {
		t.Error("adaptiveStepover() found no slowdown zone, want at least one near the bridge")
	}
	if len(overlays) != len(zones) {
		t.Errorf("adaptiveStepover() overlays = %d, want %d matching zones", len(overlays), len(zones))
	}
	for _, z := range zones {
		if z.FeedPct <= 0 || z.FeedPct > 1 {
			t.Errorf("slowdownZone.FeedPct = %v, want in (0,1]", z.FeedPct)
		}
	}
}

func TestAdaptiveStepoverNoOpWithoutBridges(t *testing.T) {
	g := stitchGroup{Points: rectLoop(0, 0, 10, 10).Points}
	zones, overlays := adaptiveStepover(g, 2, 2, 6, 0)
	if len(zones) != 0 || len(overlays) != 0 {
		t.Errorf("adaptiveStepover() on a bridge-less group produced %d zones, want 0", len(zones))
	}
}

func TestFeedPctAtDefaultsToFull(t *testing.T) {
	if got := feedPctAt(nil, Point{1, 1}); got != 1.0 {
		t.Errorf("feedPctAt() with no zones = %v, want 1.0", got)
	}
}

func TestFeedPctAtAppliesCoveringZone(t *testing.T) {
	zones := []slowdownZone{{Center: Point{0, 0}, Radius: 5, FeedPct: 0.5}}
	if got := feedPctAt(zones, Point{1, 1}); got != 0.5 {
		t.Errorf("feedPctAt() inside zone = %v, want 0.5", got)
	}
	if got := feedPctAt(zones, Point{100, 100}); got != 1.0 {
		t.Errorf("feedPctAt() outside zone = %v, want 1.0", got)
	}
}
