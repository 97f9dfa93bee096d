package pocketing

// groupPlan is one disjoint stitched cluster's shaped cutting geometry
// within a single radial pass.
type groupPlan struct {
	Elements []PathElement
}

// passPlan is one radial pass (one ring stack) worth of cutting geometry,
// shared by every Z depth layer since this kernel's LoopSet does not vary
// with Z.
type passPlan struct {
	Groups []groupPlan
}

// linkMotions implements spec.md §4.7: it converts the per-pass, per-depth
// path elements into one ordered motion sequence, inserting safe-Z
// retracts between disjoint ring groups in the same pass and between
// depth layers, and plunges at feed_z between every retract and the next
// cut.
func linkMotions(passes []passPlan, depthZs []float64, safeZ, feedXY, feedZ float64) []MotionPrimitive {
	var out []MotionPrimitive
	if len(passes) == 0 || len(depthZs) == 0 {
		return out
	}

	firstXY := firstPointOf(passes)
	out = append(out, MotionPrimitive{Kind: MotionRapid, To: firstXY, Z: safeZ})

	cur := firstXY
	for li, z := range depthZs {
		for gi, pass := range passes {
			for gj, group := range pass.Groups {
				if len(group.Elements) == 0 {
					continue
				}
				start := group.Elements[0].StartPoint()
				if li > 0 || gi > 0 || gj > 0 {
					out = append(out, MotionPrimitive{Kind: MotionRapid, To: cur, Z: safeZ})
					out = append(out, MotionPrimitive{Kind: MotionRapid, To: start, Z: safeZ})
				} else {
					out = append(out, MotionPrimitive{Kind: MotionRapid, To: start, Z: safeZ})
				}
				out = append(out, MotionPrimitive{Kind: MotionLinear, To: start, Z: z, Feed: feedZ,
					Meta: MotionMeta{FeedPct: 1.0}})

				for _, el := range group.Elements {
					out = append(out, motionFor(el, z, feedXY))
				}
				cur = group.Elements[len(group.Elements)-1].EndPoint()
			}
		}
	}

	out = append(out, MotionPrimitive{Kind: MotionRapid, To: cur, Z: safeZ})
	return out
}

func motionFor(el PathElement, z, feedXY float64) MotionPrimitive {
	pct := el.FeedPct
	if pct <= 0 {
		pct = 1.0
	}
	feed := feedXY * pct
	meta := MotionMeta{FeedPct: pct}

	if el.Kind == ElemArc {
		kind := MotionArcCW
		if el.CCW {
			kind = MotionArcCCW
		}
		return MotionPrimitive{
			Kind: kind, To: el.EndPoint(), Z: z, Center: el.Center, Radius: el.Radius,
			Feed: feed, Meta: meta,
		}
	}
	return MotionPrimitive{Kind: MotionLinear, To: el.EndPoint(), Z: z, Feed: feed, Meta: meta}
}

func firstPointOf(passes []passPlan) Point {
	for _, p := range passes {
		for _, g := range p.Groups {
			if len(g.Elements) > 0 {
				return g.Elements[0].StartPoint()
			}
		}
	}
	return Point{}
}
