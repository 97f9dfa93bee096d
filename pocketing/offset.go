package pocketing

import "math"

// validateLoop checks the spec.md §3 Loop invariants: at least 3 distinct
// points, non-zero signed area, and no crossing or touching between
// non-adjacent edges (self-intersection). Intersections between different
// loops of a set are checked by validateLoopSet.
func validateLoop(l Loop, field string) error {
	pts := stripDuplicates(l.Points, 1e-12)
	if len(pts) < 3 {
		return &BadInputError{Field: field, Reason: "fewer than 3 distinct points"}
	}
	if Area(Loop{Points: pts}) < 1e-12 {
		return &BadInputError{Field: field, Reason: "zero-area loop"}
	}
	n := len(pts)
	for i := 0; i < n; i++ {
		for j := i + 2; j < n; j++ {
			if i == 0 && j == n-1 {
				continue // adjacent through the closing edge
			}
			if _, ok := segmentIntersect(pts[i], pts[(i+1)%n], pts[j], pts[(j+1)%n]); ok {
				return &BadInputError{Field: field, Reason: "self-intersecting loop"}
			}
		}
	}
	return nil
}

// validateLoopSet checks that islands lie strictly inside the outer loop
// and that no two loops in the set intersect, per spec.md §3 and the
// boundary behavior in §8 ("islands touching the outer boundary at
// exactly one point must be rejected").
func validateLoopSet(ls LoopSet) error {
	if err := validateLoop(ls.Outer, "loops.outer"); err != nil {
		return err
	}
	for i, isl := range ls.Islands {
		field := "loops.islands[" + itoa(i) + "]"
		if err := validateLoop(isl, field); err != nil {
			return err
		}
		if loopsIntersect(ls.Outer, isl) {
			return &BadInputError{Field: field, Reason: "island intersects or touches the outer boundary"}
		}
		for _, p := range isl.Points {
			if !PointInLoop(p, ls.Outer) {
				return &BadInputError{Field: field, Reason: "island not contained in outer loop"}
			}
		}
	}
	for i := 0; i < len(ls.Islands); i++ {
		for j := i + 1; j < len(ls.Islands); j++ {
			if loopsIntersect(ls.Islands[i], ls.Islands[j]) {
				field := "loops.islands[" + itoa(j) + "]"
				return &BadInputError{Field: field, Reason: "islands overlap"}
			}
		}
	}
	return nil
}

func itoa(i int) string {
	if i == 0 {
		return "0"
	}
	neg := i < 0
	if neg {
		i = -i
	}
	var buf [20]byte
	p := len(buf)
	for i > 0 {
		p--
		buf[p] = byte('0' + i%10)
		i /= 10
	}
	if neg {
		p--
		buf[p] = '-'
	}
	return string(buf[p:])
}

// outwardNormal returns the unit normal to the directed edge a->b that
// points away from the interior of a CCW-oriented polygon.
func outwardNormal(a, b Point) Point {
	dir := b.Sub(a).Unit()
	return Point{dir.Y, -dir.X}
}

// offsetLoop grows (delta > 0) or shrinks (delta < 0) the area enclosed by
// l by |delta|, regardless of l's input orientation: the convention is
// normalized internally so the caller never has to reason about CW vs CCW.
// Returns the offset loop in the ORIGINAL input orientation, plus false if
// the loop collapsed (shrunk to zero or negative area).
func offsetLoop(l Loop, delta float64, join JoinKind, miterLimit float64) (Loop, bool) {
	wasCW := Orient(l) == CW
	work := l
	if wasCW {
		work = Reversed(l)
	}
	pts := stripDuplicates(work.Points, 1e-9)
	n := len(pts)
	if n < 3 {
		return Loop{}, false
	}

	// A shrink past the loop's narrowest half-width folds the per-vertex
	// intersection construction below back onto itself instead of
	// collapsing to a degenerate point: the resulting polygon looks
	// superficially valid (still CCW, still positive area) but no longer
	// bounds the region the caller asked for. Treat any shrink at or
	// beyond that bound as a full collapse up front.
	if delta < 0 {
		b := Bounds(Loop{Points: pts})
		halfMin := 0.5 * math.Min(b.Width(), b.Height())
		if -delta >= halfMin {
			return Loop{}, false
		}
	}

	normals := make([]Point, n)
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		normals[i] = outwardNormal(pts[i], pts[j])
	}

	out := make([]Point, 0, n*2)
	for j := 0; j < n; j++ {
		k := (j - 1 + n) % n
		nk, nj := normals[k], normals[j]
		sinA := nk.Cross(nj)
		cosA := nk.Dot(nj)

		switch {
		case cosA > 0.999:
			// Nearly collinear: a single offset point suffices.
			out = append(out, pts[j].Add(nj.Scale(delta)))
		case sinA*delta > 1e-12:
			// Edges diverge in the direction of growth: fill the gap.
			switch join {
			case JoinRound:
				angle := math.Atan2(sinA, cosA)
				arc := SampleArc(pts[j], math.Abs(delta), angleOf(nk), angleOf(nk)+signedSweep(angle, delta), delta > 0, math.Abs(delta)*0.02)
				out = append(out, arc...)
			default: // JoinMiter
				q := delta / (cosA + 1)
				miterPt := pts[j].Add(Point{nk.X + nj.X, nk.Y + nj.Y}.Scale(q))
				if miterPt.Dist(pts[j]) > miterLimit*math.Abs(delta) {
					out = append(out, pts[j].Add(nk.Scale(delta)), pts[j].Add(nj.Scale(delta)))
				} else {
					out = append(out, miterPt)
				}
			}
		default:
			// Edges converge: the exact offset vertex is where the two
			// offset edges cross.
			a0 := pts[k].Add(nk.Scale(delta))
			a1 := pts[j].Add(nk.Scale(delta))
			b0 := pts[j].Add(nj.Scale(delta))
			b1 := ((j + 1) % n)
			b1Pt := pts[b1].Add(nj.Scale(delta))
			if ip, ok := lineIntersect(a0, a1.Sub(a0), b0, b1Pt.Sub(b0)); ok {
				out = append(out, ip)
			} else {
				out = append(out, pts[j].Add(nj.Scale(delta)))
			}
		}
	}

	out = stripDuplicates(out, 1e-9)
	if len(out) < 3 {
		return Loop{}, false
	}
	result := Loop{Points: out}
	if Area(result) < 1e-9 {
		return Loop{}, false
	}
	if wasCW {
		result = Reversed(result)
	}
	return result, true
}

func angleOf(v Point) float64 { return math.Atan2(v.Y, v.X) }

// signedSweep returns the sweep (in the arc direction implied by delta's
// sign) equal in magnitude to angle but always taken the short way round.
func signedSweep(angle, delta float64) float64 {
	if delta > 0 {
		if angle < 0 {
			angle += 2 * math.Pi
		}
		return angle
	}
	if angle > 0 {
		angle -= 2 * math.Pi
	}
	return angle
}

// lineIntersect returns the intersection of the infinite line through p1
// with direction d1 and the infinite line through p2 with direction d2.
func lineIntersect(p1, d1, p2, d2 Point) (Point, bool) {
	denom := d1.Cross(d2)
	if math.Abs(denom) < 1e-12 {
		return Point{}, false
	}
	diff := p2.Sub(p1)
	t := diff.Cross(d2) / denom
	return p1.Add(d1.Scale(t)), true
}

// segmentIntersect returns the point where segments a0-a1 and b0-b1 cross,
// if any (collinear overlaps are reported as no intersection: offset
// curves produced by offsetLoop essentially never overlap collinearly in
// practice, and a tangency is not a crossing).
func segmentIntersect(a0, a1, b0, b1 Point) (Point, bool) {
	d1 := a1.Sub(a0)
	d2 := b1.Sub(b0)
	denom := d1.Cross(d2)
	if math.Abs(denom) < 1e-12 {
		return Point{}, false
	}
	diff := b0.Sub(a0)
	t := diff.Cross(d2) / denom
	u := diff.Cross(d1) / denom
	if t < -1e-9 || t > 1+1e-9 || u < -1e-9 || u > 1+1e-9 {
		return Point{}, false
	}
	return a0.Add(d1.Scale(t)), true
}

// loopsIntersect reports whether any edge of a crosses or touches any
// edge of b.
func loopsIntersect(a, b Loop) bool {
	na, nb := len(a.Points), len(b.Points)
	for i := 0; i < na; i++ {
		a0, a1 := a.Points[i], a.Points[(i+1)%na]
		for j := 0; j < nb; j++ {
			b0, b1 := b.Points[j], b.Points[(j+1)%nb]
			if _, ok := segmentIntersect(a0, a1, b0, b1); ok {
				return true
			}
		}
	}
	return false
}

// offset implements spec.md §4.2's `offset(loop_set, d, ...)`: a single
// inward offset of a LoopSet by distance d, producing zero or more
// disjoint output Rings.
func offset(ls LoopSet, d float64, join JoinKind, miterLimit float64) ([]Ring, error) {
	if d <= 0 {
		return nil, &InfeasibleError{Reason: "offset distance must be positive"}
	}
	shrunk, ok := offsetLoop(ls.Outer, -d, join, miterLimit)
	if !ok {
		return nil, nil // natural collapse
	}

	subject := []Loop{shrunk}
	for _, isl := range ls.Islands {
		grown, ok := offsetLoop(isl, d, join, miterLimit)
		if !ok {
			continue // island shrank to nothing growing the other way never collapses; defensive only
		}
		var err error
		subject, err = differenceAgainstClip(subject, grown)
		if err != nil {
			return nil, err
		}
	}

	rings := make([]Ring, 0, len(subject))
	for _, l := range subject {
		rings = append(rings, Ring{Loop: l, Offset: d})
	}
	return rings, nil
}

// differenceAgainstClip subtracts clip from every loop in subjects,
// handling the common case (no intersection) directly and falling back to
// Weiler-Atherton polygon clipping (booldiff.go) only when clip actually
// crosses a subject loop, per spec.md §4.2's edge policy. A non-nil error
// is always an *OffsetFailureError propagated from weilerAthertonDifference.
func differenceAgainstClip(subjects []Loop, clip Loop) ([]Loop, error) {
	out := make([]Loop, 0, len(subjects)+1)
	clipUsed := false
	for _, s := range subjects {
		if !loopsIntersect(s, clip) {
			if len(s.Points) > 0 && PointInLoop(clip.Points[0], s) {
				// clip lies fully inside s: two disjoint rings, the
				// outer boundary and the island boundary.
				out = append(out, s)
				if !clipUsed {
					out = append(out, clip)
					clipUsed = true
				}
			} else {
				out = append(out, s)
			}
			continue
		}
		pieces, err := weilerAthertonDifference(s, clip)
		if err != nil {
			return nil, err
		}
		out = append(out, pieces...)
		clipUsed = true
	}
	if !clipUsed {
		out = append(out, clip)
	}
	return out, nil
}

// fill implements spec.md §4.2's `fill(...)`: successive inward offsets
// starting at margin+tool_d/2 and stepping by stepover_mm until collapse
// or max_rings, returning one ring group per pass.
func fill(ls LoopSet, toolD, stepoverMM, margin float64, maxRings int, join JoinKind, miterLimit float64) ([][]Ring, error) {
	var passes [][]Ring
	d := margin + toolD/2
	for i := 0; i < maxRings; i++ {
		rings, err := offset(ls, d, join, miterLimit)
		if err != nil {
			if ofe, ok := err.(*OffsetFailureError); ok {
				ofe.Pass = i
			}
			return passes, err
		}
		if len(rings) == 0 {
			break
		}
		for k := range rings {
			rings[k].Depth = len(passes)
		}
		passes = append(passes, rings)
		d += stepoverMM
	}
	return passes, nil
}
