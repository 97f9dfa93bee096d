package pocketing

import "math"

// epsScale is the factor behind the default degeneracy tolerance: EpsFor
// multiplies it by a loop's largest bounding-box dimension. Components that need a
// tolerance take it as an explicit parameter (per SPEC_FULL.md's ambient
// stack: no module-level configuration, spec.md Design Notes §9).
const epsScale = 1e-9

// BBox is an axis-aligned bounding box.
type BBox struct {
	MinX, MinY, MaxX, MaxY float64
}

// Width returns the box's extent along X.
func (b BBox) Width() float64 { return b.MaxX - b.MinX }

// Height returns the box's extent along Y.
func (b BBox) Height() float64 { return b.MaxY - b.MinY }

// MaxDim returns the larger of Width and Height.
func (b BBox) MaxDim() float64 { return math.Max(b.Width(), b.Height()) }

// Bounds returns the axis-aligned bounding box of a loop's vertices.
func Bounds(l Loop) BBox {
	if len(l.Points) == 0 {
		return BBox{}
	}
	b := BBox{l.Points[0].X, l.Points[0].Y, l.Points[0].X, l.Points[0].Y}
	for _, p := range l.Points[1:] {
		b.MinX = math.Min(b.MinX, p.X)
		b.MinY = math.Min(b.MinY, p.Y)
		b.MaxX = math.Max(b.MaxX, p.X)
		b.MaxY = math.Max(b.MaxY, p.Y)
	}
	return b
}

// EpsFor returns the default degeneracy tolerance for a loop: 1e-9 times
// the loop's largest bounding-box dimension, per spec.md §4.1.
func EpsFor(l Loop) float64 {
	d := Bounds(l).MaxDim()
	if d <= 0 {
		return epsScale
	}
	return epsScale * d
}

// SegmentLength returns the Euclidean length of the segment a-b.
func SegmentLength(a, b Point) float64 { return a.Dist(b) }

// SignedArea returns the signed area of a closed polyline via the shoelace
// formula. Positive for CCW loops, negative for CW.
func SignedArea(l Loop) float64 {
	pts := l.Points
	n := len(pts)
	if n < 3 {
		return 0
	}
	sum := 0.0
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		sum += pts[i].X*pts[j].Y - pts[j].X*pts[i].Y
	}
	return sum / 2
}

// Area returns the unsigned area enclosed by the loop.
func Area(l Loop) float64 { return math.Abs(SignedArea(l)) }

// Orient returns the loop's winding direction.
func Orient(l Loop) Orientation {
	if SignedArea(l) >= 0 {
		return CCW
	}
	return CW
}

// Reversed returns a copy of the loop with vertex order reversed (and
// therefore orientation flipped).
func Reversed(l Loop) Loop {
	n := len(l.Points)
	out := make([]Point, n)
	for i, p := range l.Points {
		out[n-1-i] = p
	}
	return Loop{Points: out}
}

// Perimeter returns the closed-loop perimeter length (sum of edge
// lengths, including the implicit closing edge).
func Perimeter(l Loop) float64 {
	pts := l.Points
	n := len(pts)
	if n < 2 {
		return 0
	}
	total := 0.0
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		total += pts[i].Dist(pts[j])
	}
	return total
}

// PointInLoop reports whether pt lies inside or on l using an
// even-odd ray-casting test. Points exactly on the boundary are reported
// as inside (conservative for the island-containment check in offset.go).
func PointInLoop(pt Point, l Loop) bool {
	pts := l.Points
	n := len(pts)
	if n < 3 {
		return false
	}
	inside := false
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		pi, pj := pts[i], pts[j]
		if onSegment(pt, pi, pj) {
			return true
		}
		if (pi.Y > pt.Y) != (pj.Y > pt.Y) {
			xCross := pi.X + (pt.Y-pi.Y)/(pj.Y-pi.Y)*(pj.X-pi.X)
			if pt.X < xCross {
				inside = !inside
			}
		}
	}
	return inside
}

func onSegment(pt, a, b Point) bool {
	cross := (b.X-a.X)*(pt.Y-a.Y) - (b.Y-a.Y)*(pt.X-a.X)
	if math.Abs(cross) > 1e-9*math.Max(1, a.Dist(b)) {
		return false
	}
	dot := (pt.X-a.X)*(b.X-a.X) + (pt.Y-a.Y)*(b.Y-a.Y)
	if dot < 0 {
		return false
	}
	lenSq := (b.X-a.X)*(b.X-a.X) + (b.Y-a.Y)*(b.Y-a.Y)
	return dot <= lenSq
}

// DiscreteCurvature estimates the curvature at vertex b of the triple
// (a, b, c) as the inverse circumradius of the three points, clamped to
// [0, maxCurvature] to avoid blowing up on near-collinear triples.
func DiscreteCurvature(a, b, c Point, maxCurvature float64) float64 {
	r := circumradius(a, b, c)
	if r <= 0 || math.IsInf(r, 1) || math.IsNaN(r) {
		return 0
	}
	k := 1 / r
	if k > maxCurvature {
		return maxCurvature
	}
	return k
}

// circumradius returns the radius of the circle through a, b, c, or +Inf
// if the three points are collinear.
func circumradius(a, b, c Point) float64 {
	ab := a.Dist(b)
	bc := b.Dist(c)
	ca := c.Dist(a)
	area2 := math.Abs((b.X-a.X)*(c.Y-a.Y) - (c.X-a.X)*(b.Y-a.Y))
	if area2 < 1e-12 {
		return math.Inf(1)
	}
	return (ab * bc * ca) / (2 * area2)
}

// TurnRadius estimates the instantaneous path radius at vertex b of the
// triple (a, b, c); it is the reciprocal of DiscreteCurvature without
// clamping, used where an unclamped radius is needed (e.g. trochoid
// hotspot detection).
func TurnRadius(a, b, c Point) float64 {
	return circumradius(a, b, c)
}

// IsConvex reports whether vertex b of the CCW-oriented triple (a,b,c) is
// a convex turn (left turn). Loop must be CCW for the convention to match
// "convex means exterior angle outward"; callers normalize orientation
// first.
func IsConvex(a, b, c Point) bool {
	return a.Sub(b).Cross(c.Sub(b)) < 0
}

// SampleArc returns points along the arc centered at `center` with the
// given radius, sweeping from startAngle to endAngle (ccw if ccw is true),
// spaced so that the chord error stays within chordTol.
func SampleArc(center Point, radius, startAngle, endAngle float64, ccw bool, chordTol float64) []Point {
	sweep := endAngle - startAngle
	if ccw {
		for sweep < 0 {
			sweep += 2 * math.Pi
		}
	} else {
		for sweep > 0 {
			sweep -= 2 * math.Pi
		}
	}
	if radius <= 0 {
		return []Point{center}
	}
	// Max angular step such that the chord sagitta stays within chordTol:
	// sagitta = r(1-cos(theta/2)) <= chordTol  =>  theta <= 2*acos(1-tol/r)
	ratio := 1 - chordTol/radius
	ratio = math.Max(-1, math.Min(1, ratio))
	maxStep := 2 * math.Acos(ratio)
	if maxStep <= 1e-6 || math.IsNaN(maxStep) {
		maxStep = math.Pi / 32
	}
	steps := int(math.Ceil(math.Abs(sweep) / maxStep))
	if steps < 1 {
		steps = 1
	}
	pts := make([]Point, 0, steps+1)
	for i := 0; i <= steps; i++ {
		a := startAngle + sweep*float64(i)/float64(steps)
		pts = append(pts, Point{
			X: center.X + radius*math.Cos(a),
			Y: center.Y + radius*math.Sin(a),
		})
	}
	return pts
}

// stripDuplicates removes consecutive duplicate points (and, for closed
// loops, a trailing point that duplicates the first) within tol.
func stripDuplicates(pts []Point, tol float64) []Point {
	if len(pts) == 0 {
		return pts
	}
	out := make([]Point, 0, len(pts))
	out = append(out, pts[0])
	for _, p := range pts[1:] {
		if p.Dist(out[len(out)-1]) > tol {
			out = append(out, p)
		}
	}
	if len(out) > 1 && out[0].Dist(out[len(out)-1]) <= tol {
		out = out[:len(out)-1]
	}
	return out
}
