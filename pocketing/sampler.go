package pocketing

import "math"

// targetChord implements spec.md §4.3: target_chord = min(stepover_mm *
// 0.5, tool_d * 0.25).
func targetChord(stepoverMM, toolD float64) float64 {
	return math.Min(stepoverMM*0.5, toolD*0.25)
}

// resample implements the ring sampler: it re-spaces a loop's vertices at
// an arc-length spacing <= targetChordLen, inserting extra points near
// vertices whose discrete curvature exceeds 1/cornerRadiusMin so the
// chord error there stays within chordTol (0.01 * tool_d).
func resample(l Loop, targetChordLen, cornerRadiusMin, chordTol float64) Loop {
	pts := l.Points
	n := len(pts)
	if n < 3 {
		return l
	}
	maxCurvature := 1 / math.Max(cornerRadiusMin, 1e-9)

	out := make([]Point, 0, n*2)
	for i := 0; i < n; i++ {
		a := pts[(i-1+n)%n]
		b := pts[i]
		c := pts[(i+1)%n]
		nextPt := pts[(i+1)%n]
		edgeLen := b.Dist(nextPt)

		k := DiscreteCurvature(a, b, c, maxCurvature)
		spacing := targetChordLen
		if k > 0 && k >= 1/math.Max(cornerRadiusMin, 1e-9)*0.999 {
			// Honor the tighter chord tolerance near sharp vertices:
			// chord = 2*sqrt(2*r*tol - tol^2) for radius r = 1/k.
			r := 1 / k
			if r > chordTol {
				spacing = math.Min(spacing, 2*math.Sqrt(2*r*chordTol-chordTol*chordTol))
			}
		}
		spacing = math.Max(spacing, 1e-6)

		out = append(out, b)
		steps := int(math.Ceil(edgeLen / spacing))
		for s := 1; s <= steps-1; s++ {
			t := float64(s) / float64(steps)
			out = append(out, Point{
				X: b.X + (nextPt.X-b.X)*t,
				Y: b.Y + (nextPt.Y-b.Y)*t,
			})
		}
	}
	return Loop{Points: stripDuplicates(out, 1e-9)}
}

// filletResult is the output of the corner filleter: the reshaped loop
// plus the Fillet overlays emitted for every inserted arc.
type filletResult struct {
	Loop     Loop
	Overlays []Overlay
}

// fillet implements spec.md §4.3's corner filleter: at each convex vertex
// of a resampled ring whose implied turn radius is below
// cornerRadiusMin, replace the sharp corner with a tangent arc of radius
// cornerRadiusMin. Concave corners are left untouched; ambiguous
// near-collinear tangencies are left untouched too (no fillet inserted).
func fillet(l Loop, cornerRadiusMin float64) filletResult {
	wasCW := Orient(l) == CW
	work := l
	if wasCW {
		work = Reversed(l)
	}
	pts := work.Points
	n := len(pts)
	if n < 3 {
		return filletResult{Loop: l}
	}

	var out []Point
	var overlays []Overlay
	for i := 0; i < n; i++ {
		a := pts[(i-1+n)%n]
		b := pts[i]
		c := pts[(i+1)%n]

		if !IsConvex(a, b, c) {
			out = append(out, b)
			continue
		}
		r := circumradius(a, b, c)
		if math.IsInf(r, 1) || r >= cornerRadiusMin || r <= 1e-9 {
			// Either already gentle enough, or nearly collinear (r huge)
			// — tie-break: keep the vertex, no fillet.
			out = append(out, b)
			continue
		}

		arc, center, ok := tangentFillet(a, b, c, cornerRadiusMin)
		if !ok {
			out = append(out, b)
			continue
		}
		out = append(out, arc...)
		overlays = append(overlays, Overlay{Kind: OverlayFillet, At: center, Radius: cornerRadiusMin})
	}

	result := Loop{Points: stripDuplicates(out, 1e-9)}
	if wasCW {
		result = Reversed(result)
	}
	return filletResult{Loop: result, Overlays: overlays}
}

// tangentFillet computes the small arc of the given radius tangent to
// segments a-b and b-c, replacing the sharp vertex b.
func tangentFillet(a, b, c Point, radius float64) ([]Point, Point, bool) {
	dir1 := a.Sub(b).Unit() // from b back towards a
	dir2 := c.Sub(b).Unit() // from b forward towards c

	// Half-angle between the two incoming directions.
	cosTheta := dir1.Dot(dir2)
	cosTheta = math.Max(-1, math.Min(1, cosTheta))
	theta := math.Acos(cosTheta)
	if theta < 1e-6 || math.Pi-theta < 1e-6 {
		return nil, Point{}, false // collinear or fully reflexed: no stable tangent point
	}
	half := theta / 2
	dist := radius / math.Tan(half) // distance from b to each tangent point along dir1/dir2

	maxD := math.Min(a.Dist(b), c.Dist(b)) / 2
	if dist <= 0 || dist > maxD {
		return nil, Point{}, false
	}

	t1 := b.Add(dir1.Scale(dist))
	t2 := b.Add(dir2.Scale(dist))

	bisector := Point{dir1.X + dir2.X, dir1.Y + dir2.Y}
	bn := bisector.Norm()
	if bn < 1e-12 {
		return nil, Point{}, false
	}
	bisector = bisector.Scale(1 / bn)
	centerDist := radius / math.Sin(half)
	center := b.Add(bisector.Scale(centerDist))

	startAngle := angleOf(t1.Sub(center))
	endAngle := angleOf(t2.Sub(center))
	ccw := IsConvex(a, b, c) // for a CCW-normalized loop, convex turn fillets sweep CCW
	pts := SampleArc(center, radius, startAngle, endAngle, ccw, radius*0.01)
	return pts, center, true
}
