package pocketing

import (
	"math"
	"sort"
)

// stitchedRing is one ring's contribution to a stitched spiral, carrying
// its own closed point list plus bookkeeping needed by the stitcher and
// the adaptive stepover modulator.
type stitchedRing struct {
	Ring Ring
	Pts  []Point // in traversal order already (direction applied)
}

// bridge is a short straight connector between two nested rings, recorded
// by ring-vertex indices rather than raw points to avoid cyclic geometry
// references (spec.md Design Notes §9).
type bridge struct {
	OuterRingIdx, OuterVertIdx int
	InnerRingIdx, InnerVertIdx int
	OuterPt, InnerPt           Point
}

// stitchGroup is one disjoint cluster of nested rings stitched into a
// single continuous curve, plus the bridge points used to do so (consumed
// by the adaptive stepover modulator).
type stitchGroup struct {
	Points       []Point
	Bridges      []bridge
	ClusterRings []Ring // rings of this cluster, inner-to-outer, indexed by bridge.OuterRingIdx/InnerRingIdx
}

// stitch implements spec.md §4.4: order the rings of one pass inner-to-
// outer by enclosed area, cluster them into disjoint nesting groups, and
// join each group into one continuous curve via nearest-point bridges.
// Direction policy: climb=true cuts with the outer ring traversed CW and
// inner rings CCW (and vice-versa for conventional milling) so the bridge
// transition never reverses engagement, per spec.md §4.4 point 4.
func stitch(rings []Ring, climb bool) []stitchGroup {
	clusters := clusterByNesting(rings)

	var groups []stitchGroup
	for _, cluster := range clusters {
		sort.Slice(cluster, func(i, j int) bool {
			return Area(cluster[i].Loop) < Area(cluster[j].Loop)
		})

		var pts []Point
		var bridges []bridge
		for idx, r := range cluster {
			// cluster is sorted area-ascending, so idx==len(cluster)-1 is the
			// literal outermost ring; depth counts inward from there so the
			// outermost ring always gets climb's direction, per spec.md
			// §4.4 point 4 ("outer ring traversed CW, inner CCW" for
			// climb=true).
			depth := len(cluster) - 1 - idx
			outerGoesCW := climb
			dirCW := outerGoesCW == (depth%2 == 0)
			ordered := orientFor(r.Loop, dirCW)

			if idx == 0 {
				pts = append(pts, ordered...)
				continue
			}
			// bridge from the last emitted point to the nearest point on
			// the next ring.
			from := pts[len(pts)-1]
			bi, bp := nearestPoint(from, ordered)
			rotated := append(append([]Point{}, ordered[bi:]...), ordered[:bi]...)
			// cluster is area-ascending, so ring idx encloses ring idx-1.
			bridges = append(bridges, bridge{
				OuterRingIdx: idx,
				InnerRingIdx: idx - 1,
				OuterVertIdx: bi,
				OuterPt:      bp,
				InnerPt:      from,
			})
			pts = append(pts, bp)
			pts = append(pts, rotated...)
			pts = append(pts, bp) // return to bridge point to close the inner loop before continuing
		}
		groups = append(groups, stitchGroup{Points: pts, Bridges: bridges, ClusterRings: cluster})
	}
	return groups
}

// clusterByNesting groups rings of one pass into disjoint nesting
// clusters: a ring belongs to the same cluster as another if one contains
// the other. Rings that contain nothing and are contained by nothing form
// their own single-ring cluster (e.g. an island ring far from any other
// ring in the same pass).
func clusterByNesting(rings []Ring) [][]Ring {
	n := len(rings)
	parent := make([]int, n)
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(x int) int {
		for parent[x] != x {
			parent[x] = parent[parent[x]]
			x = parent[x]
		}
		return x
	}
	union := func(a, b int) {
		ra, rb := find(a), find(b)
		if ra != rb {
			parent[ra] = rb
		}
	}

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if ringsNested(rings[i], rings[j]) {
				union(i, j)
			}
		}
	}

	groupsByRoot := make(map[int][]Ring)
	var order []int
	for i := 0; i < n; i++ {
		r := find(i)
		if _, seen := groupsByRoot[r]; !seen {
			order = append(order, r)
		}
		groupsByRoot[r] = append(groupsByRoot[r], rings[i])
	}
	out := make([][]Ring, 0, len(order))
	for _, r := range order {
		out = append(out, groupsByRoot[r])
	}
	return out
}

// ringsNested reports whether one ring's loop lies inside the other's, a
// cheap proxy for "these two rings bridge into the same spiral": a vertex
// of the smaller-area ring lies inside the larger-area ring.
func ringsNested(a, b Ring) bool {
	if len(a.Loop.Points) == 0 || len(b.Loop.Points) == 0 {
		return false
	}
	if Area(a.Loop) <= Area(b.Loop) {
		return PointInLoop(a.Loop.Points[0], b.Loop)
	}
	return PointInLoop(b.Loop.Points[0], a.Loop)
}

// orientFor returns the loop's points starting traversal so that the
// result runs CW if cw is true, CCW otherwise.
func orientFor(l Loop, cw bool) []Point {
	if (Orient(l) == CW) == cw {
		return append([]Point{}, l.Points...)
	}
	return Reversed(l).Points
}

// nearestPoint returns the index into candidates whose point is nearest
// to from, by bounded linear scan (ring vertex counts are small enough —
// spec.md §5 bounds this by sample-point count per ring — that a spatial
// index would add complexity without a measurable benefit).
func nearestPoint(from Point, candidates []Point) (int, Point) {
	best := 0
	bestD := math.Inf(1)
	for i, p := range candidates {
		d := from.Dist(p)
		if d < bestD {
			bestD = d
			best = i
		}
	}
	return best, candidates[best]
}
