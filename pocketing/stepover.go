package pocketing

import "math"

// adaptiveRatioBaseline is the perimeter-ratio threshold above which the
// adaptive stepover modulator engages, per spec.md §4.5.
const adaptiveRatioBaseline = 1.25

// stepoverFloorFrac bounds the effective local stepover at 0.35 * tool_d.
const stepoverFloorFrac = 0.35

// slowdownZone is a local region of the stitched curve where the motion
// linker should scale the requested feed, produced by the adaptive
// stepover modulator at each bridge whose local perimeter ratio exceeds
// adaptiveRatioBaseline.
type slowdownZone struct {
	Center  Point
	Radius  float64 // straight-line radius of effect
	FeedPct float64
}

// adaptiveStepover implements spec.md §4.5. For every bridge point in the
// group, it measures the perimeter ratio between the outer and inner ring
// in a neighborhood of length 3*stepoverMM (the smoothing window fixed by
// SPEC_FULL.md §D.2: 1.5*stepoverMM on each side of the bridge point,
// measured along each ring's own loop). When the ratio exceeds
// adaptiveRatioBaseline, it emits a slowdownZone and a matching Slowdown
// overlay with a feed percentage derived from the target-stepover
// reduction, floored at stepoverFloorFrac*tool_d worth of feed.
func adaptiveStepover(group stitchGroup, stepoverMM, targetStepoverMM, toolD, userSlowdownFeedPct float64) ([]slowdownZone, []Overlay) {
	if targetStepoverMM <= 0 {
		targetStepoverMM = stepoverMM
	}
	halfWindow := 1.5 * stepoverMM

	var zones []slowdownZone
	var overlays []Overlay
	for _, b := range group.Bridges {
		if b.OuterRingIdx < 0 || b.OuterRingIdx >= len(group.ClusterRings) {
			continue
		}
		if b.InnerRingIdx < 0 || b.InnerRingIdx >= len(group.ClusterRings) {
			continue
		}
		outerLoop := group.ClusterRings[b.OuterRingIdx].Loop
		innerLoop := group.ClusterRings[b.InnerRingIdx].Loop

		outerLen := windowLength(outerLoop, b.OuterPt, halfWindow)
		innerLen := windowLength(innerLoop, b.InnerPt, halfWindow)
		if innerLen <= 1e-9 {
			continue
		}
		ratio := outerLen / innerLen
		if ratio <= adaptiveRatioBaseline {
			continue
		}

		scale := adaptiveRatioBaseline / ratio
		effectiveStepover := math.Max(targetStepoverMM*scale, stepoverFloorFrac*toolD)
		feedPct := effectiveStepover / targetStepoverMM
		if userSlowdownFeedPct > 0 {
			feedPct = math.Min(feedPct, userSlowdownFeedPct)
		}
		feedPct = math.Max(0.05, math.Min(1.0, feedPct))

		zones = append(zones, slowdownZone{Center: b.OuterPt, Radius: halfWindow, FeedPct: feedPct})
		overlays = append(overlays, Overlay{Kind: OverlaySlowdown, At: b.OuterPt, FeedPct: feedPct})
	}
	return zones, overlays
}

// windowLength walks whole edges from the vertex nearest center, first
// forward and then backward, stopping in each direction at the first edge
// that brings that direction's length to at least halfWindow (or after
// one full lap), and returns the sum of both directions. Each direction
// can overshoot halfWindow by up to one edge length.
func windowLength(loop Loop, center Point, halfWindow float64) float64 {
	pts := loop.Points
	n := len(pts)
	if n < 2 {
		return 0
	}
	startIdx, _ := nearestPoint(center, pts)

	total := 0.0
	acc := 0.0
	for step := 1; step <= n && acc < halfWindow; step++ {
		i := (startIdx + step - 1) % n
		j := (startIdx + step) % n
		d := pts[i].Dist(pts[j])
		acc += d
		total += d
	}
	acc = 0.0
	for step := 1; step <= n && acc < halfWindow; step++ {
		i := (startIdx - step + 1 + n) % n
		j := (startIdx - step + n) % n
		d := pts[i].Dist(pts[j])
		acc += d
		total += d
	}
	return total
}

// feedPctAt returns the minimum feed percentage of any slowdown zone
// whose center is within Radius of p, or 1.0 if none apply.
func feedPctAt(zones []slowdownZone, p Point) float64 {
	best := 1.0
	for _, z := range zones {
		if p.Dist(z.Center) <= z.Radius && z.FeedPct < best {
			best = z.FeedPct
		}
	}
	return best
}
