package pocketing

import "sort"

// weilerAthertonDifference computes subject minus clip for two simple,
// crossing polygons using the Weiler-Atherton polygon clipping algorithm.
// It is only invoked by differenceAgainstClip (offset.go) when an
// island's grown boundary actually crosses the shrunk outer boundary or a
// previously produced ring — the common, non-crossing case is handled
// directly without this machinery.
//
// A non-nil error is always an *OffsetFailureError: traceContour failed to
// close a contour within its bounded step budget, which per spec.md §4.2
// means the engine could not produce a valid ring set for this pass.
func weilerAthertonDifference(subject, clip Loop) ([]Loop, error) {
	subj := subject
	if Orient(subj) == CW {
		subj = Reversed(subj)
	}
	cl := clip
	if Orient(cl) == CW {
		cl = Reversed(cl)
	}

	sv, cv, anyCrossing := buildCrossingLists(subj.Points, cl.Points)
	if !anyCrossing {
		// Degenerate: caller believed they crossed but no transversal
		// intersection was found (pure tangency). Leave subject intact;
		// see DESIGN.md for why this is not treated as an offset failure.
		return []Loop{subject}, nil
	}
	classifyEntries(sv, cl.Points)

	var out []Loop
	for startIdx, v := range sv {
		if !v.isXing || !v.entry || v.visited {
			continue
		}
		contour, closed := traceContour(sv, cv, startIdx)
		if !closed {
			return nil, &OffsetFailureError{Reason: "weiler-atherton contour did not close within its bounded step budget"}
		}
		out = append(out, contour)
	}
	if len(out) == 0 {
		// clip fully swallows subject (every crossing was "exit"-only, or
		// none survived classification): treat as full collapse.
		return nil, nil
	}
	return out, nil
}

type wavert struct {
	P        Point
	isXing   bool
	partner  int // index into the other list, valid when isXing
	entry    bool
	visited  bool
}

// buildCrossingLists walks both polygons, finds every transversal
// intersection between their edges, and returns each polygon's vertex
// list augmented with intersection points inserted in edge-parametric
// order, cross-linked by index.
func buildCrossingLists(subj, cl []Point) ([]wavert, []wavert, bool) {
	type xing struct {
		si, ci     int     // edge index on subject / clip
		ts, tc     float64 // parametric position along each edge
		p          Point
	}
	var xs []xing
	ns, nc := len(subj), len(cl)
	for i := 0; i < ns; i++ {
		a0, a1 := subj[i], subj[(i+1)%ns]
		for j := 0; j < nc; j++ {
			b0, b1 := cl[j], cl[(j+1)%nc]
			if p, t, u, ok := segmentIntersectParam(a0, a1, b0, b1); ok {
				xs = append(xs, xing{i, j, t, u, p})
			}
		}
	}
	if len(xs) == 0 {
		return nil, nil, false
	}

	sv := make([]wavert, 0, ns+len(xs))
	svXingIdx := make([][]int, ns) // per-edge list of xs indices (unsorted)
	for k, x := range xs {
		svXingIdx[x.si] = append(svXingIdx[x.si], k)
	}
	svPos := make([]int, len(xs)) // final position of each crossing in sv

	for i := 0; i < ns; i++ {
		sv = append(sv, wavert{P: subj[i]})
		idxs := svXingIdx[i]
		sort.Slice(idxs, func(a, b int) bool { return xs[idxs[a]].ts < xs[idxs[b]].ts })
		for _, k := range idxs {
			svPos[k] = len(sv)
			sv = append(sv, wavert{P: xs[k].p, isXing: true})
		}
	}

	cv := make([]wavert, 0, nc+len(xs))
	cvXingIdx := make([][]int, nc)
	for k, x := range xs {
		cvXingIdx[x.ci] = append(cvXingIdx[x.ci], k)
	}
	for j := 0; j < nc; j++ {
		cv = append(cv, wavert{P: cl[j]})
		idxs := cvXingIdx[j]
		sort.Slice(idxs, func(a, b int) bool { return xs[idxs[a]].tc < xs[idxs[b]].tc })
		for _, k := range idxs {
			sv[svPos[k]].partner = len(cv)
			cv = append(cv, wavert{P: xs[k].p, isXing: true, partner: svPos[k]})
		}
	}
	return sv, cv, true
}

// classifyEntries marks each subject-list crossing as "entry" (the
// subject path is about to go inside the clip polygon) or "exit".
func classifyEntries(sv []wavert, clipPts []Point) {
	n := len(sv)
	for i := range sv {
		if !sv[i].isXing {
			continue
		}
		next := sv[(i+1)%n].P
		mid := Point{(sv[i].P.X + next.X) / 2, (sv[i].P.Y + next.Y) / 2}
		sv[i].entry = PointInLoop(mid, Loop{Points: clipPts})
	}
}

// traceContour follows one closed output contour of subject-minus-clip
// starting at an unvisited entry crossing: walk subject forward to the
// next crossing, jump to clip and walk it BACKWARD (staying outside the
// clip region) to the next crossing, jump back to subject, and repeat
// until the starting crossing is reached again. The bool return reports
// whether the contour actually closed (reached start again) before
// maxSteps ran out; a false result is a caller-visible failure, not a
// valid partial ring.
func traceContour(sv, cv []wavert, start int) (Loop, bool) {
	var pts []Point
	onSubject := true
	i := start
	maxSteps := 4 * (len(sv) + len(cv) + 1)
	closed := false
	for step := 0; step < maxSteps; step++ {
		v := &sv2cv(sv, cv, onSubject)[i]
		v.visited = true
		pts = append(pts, v.P)
		if onSubject {
			next := (i + 1) % len(sv)
			if sv[next].isXing && next != start {
				i = sv[next].partner
				onSubject = false
				continue
			}
			if next == start {
				closed = true
				break
			}
			i = next
		} else {
			prev := (i - 1 + len(cv)) % len(cv)
			if cv[prev].isXing {
				partner := cv[prev].partner
				i = partner
				onSubject = true
				if partner == start {
					closed = true
					break
				}
				continue
			}
			i = prev
		}
	}
	return Loop{Points: stripDuplicates(pts, 1e-9)}, closed
}

func sv2cv(sv, cv []wavert, onSubject bool) []wavert {
	if onSubject {
		return sv
	}
	return cv
}

// segmentIntersectParam is segmentIntersect but also returns the
// parametric position of the crossing along each segment, needed to
// order multiple crossings on the same edge.
func segmentIntersectParam(a0, a1, b0, b1 Point) (Point, float64, float64, bool) {
	d1 := a1.Sub(a0)
	d2 := b1.Sub(b0)
	denom := d1.Cross(d2)
	if denom == 0 {
		return Point{}, 0, 0, false
	}
	diff := b0.Sub(a0)
	t := diff.Cross(d2) / denom
	u := diff.Cross(d1) / denom
	if t < -1e-9 || t > 1+1e-9 || u < -1e-9 || u > 1+1e-9 {
		return Point{}, 0, 0, false
	}
	return a0.Add(d1.Scale(t)), t, u, true
}
