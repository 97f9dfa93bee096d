// Package pocketing implements the adaptive pocketing kernel: a pure,
// single-threaded function that turns a set of planar boundary loops and a
// set of cutting parameters into an ordered, machine-aware toolpath plus
// diagnostic overlays and a runtime estimate.
//
// The kernel performs no I/O and holds no state between calls to Plan. All
// configuration is passed by value in a PlanInput and every PlanOutput is
// owned exclusively by its caller.
package pocketing

import "math"

// Units is the user-selectable length unit for one Plan invocation. All
// lengths in a PlanInput are expressed in the same Units; the kernel never
// mixes them within a call.
type Units uint8

const (
	Millimeters Units = iota
	Inches
)

// Point is a finite 2-D coordinate in the active Units.
type Point struct {
	X, Y float64
}

// Sub returns p - q.
func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

// Add returns p + q.
func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }

// Scale returns p scaled by s.
func (p Point) Scale(s float64) Point { return Point{p.X * s, p.Y * s} }

// Dot returns the dot product of p and q treated as vectors.
func (p Point) Dot(q Point) float64 { return p.X*q.X + p.Y*q.Y }

// Cross returns the 2-D cross product (z-component) of p and q.
func (p Point) Cross(q Point) float64 { return p.X*q.Y - p.Y*q.X }

// Dist returns the Euclidean distance between p and q.
func (p Point) Dist(q Point) float64 {
	dx, dy := p.X-q.X, p.Y-q.Y
	return math.Hypot(dx, dy)
}

// Norm returns the Euclidean length of p treated as a vector.
func (p Point) Norm() float64 { return math.Hypot(p.X, p.Y) }

// Unit returns p normalized to unit length, or the zero vector if p is
// (numerically) zero.
func (p Point) Unit() Point {
	n := p.Norm()
	if n < 1e-15 {
		return Point{}
	}
	return Point{p.X / n, p.Y / n}
}

// Orientation is the winding direction of a closed polyline.
type Orientation uint8

const (
	CCW Orientation = iota
	CW
)

// Loop is an ordered sequence of >= 3 distinct points describing a closed
// polyline (the edge from the last point back to the first is implicit).
// A Loop never stores a duplicate of its first point at the end.
type Loop struct {
	Points []Point
}

// NewLoop constructs a Loop from the given points without validation; use
// validateLoop (offset.go) to check the spec.md §3 invariants.
func NewLoop(points []Point) Loop {
	return Loop{Points: append([]Point(nil), points...)}
}

// Len returns the number of vertices in the loop.
func (l Loop) Len() int { return len(l.Points) }

// LoopSet is one outer loop plus zero or more island loops. Per spec.md §3
// the outer loop and islands are mutually non-intersecting and islands lie
// strictly inside the outer loop.
type LoopSet struct {
	Outer   Loop
	Islands []Loop
}

// Ring is a closed polyline produced by inward-offsetting a LoopSet. Each
// ring remembers the offset distance and pass depth that produced it.
type Ring struct {
	Loop     Loop
	Offset   float64 // cumulative inward offset distance from the original boundary
	Depth    int     // zero-based radial pass index assigned by fill
	IsIsland bool    // island-derived marker; offset and fill never set it, so their rings carry false
}

// JoinKind selects the corner-join geometry used by the offset engine.
type JoinKind uint8

const (
	JoinRound JoinKind = iota
	JoinMiter
)

// Strategy selects how a ring stack is turned into cutting motion.
type Strategy uint8

const (
	// StrategySpiral stitches nested rings into one continuous spiral cut.
	StrategySpiral Strategy = iota
	// StrategyLanes cuts each ring as a discrete closed lane with a
	// retract between consecutive rings.
	StrategyLanes
)

// PathElement is a single piece of cutting (or non-cutting) geometry
// produced by the shaping stages, before it is turned into motion
// primitives by the motion linker.
type PathElement struct {
	Kind   PathElementKind
	P0, P1 Point   // Line and Rapid endpoints
	Center Point   // Arc center
	Radius float64 // Arc radius
	Start  float64 // Arc start angle, radians
	End    float64 // Arc end angle, radians
	CCW    bool    // Arc sweep direction

	// FeedPct, when non-zero, overrides the base feed for this element
	// as a fraction in (0,1]; set by the adaptive stepover modulator.
	FeedPct float64
}

// PathElementKind tags the variant carried by a PathElement.
type PathElementKind uint8

const (
	ElemLine PathElementKind = iota
	ElemArc
	ElemRapid
)

// StartPoint returns the element's starting coordinate.
func (e PathElement) StartPoint() Point {
	if e.Kind == ElemArc {
		return Point{e.Center.X + e.Radius*math.Cos(e.Start), e.Center.Y + e.Radius*math.Sin(e.Start)}
	}
	return e.P0
}

// EndPoint returns the element's ending coordinate.
func (e PathElement) EndPoint() Point {
	if e.Kind == ElemArc {
		return Point{e.Center.X + e.Radius*math.Cos(e.End), e.Center.Y + e.Radius*math.Sin(e.End)}
	}
	return e.P1
}

// Length returns the element's own geometric length (arc length for arcs,
// straight length for lines, straight length for rapids).
func (e PathElement) Length() float64 {
	switch e.Kind {
	case ElemLine, ElemRapid:
		return e.P0.Dist(e.P1)
	case ElemArc:
		sweep := e.End - e.Start
		if e.CCW && sweep < 0 {
			sweep += 2 * math.Pi
		} else if !e.CCW && sweep > 0 {
			sweep -= 2 * math.Pi
		}
		return math.Abs(sweep) * e.Radius
	}
	return 0
}

// BindingConstraint is the dominant physical limit that determined a
// motion segment's time, per spec.md §4.8.
type BindingConstraint uint8

const (
	BindingNone BindingConstraint = iota
	BindingFeedCap
	BindingAccel
	BindingJerk
)

func (b BindingConstraint) String() string {
	switch b {
	case BindingFeedCap:
		return "feed_cap"
	case BindingAccel:
		return "accel"
	case BindingJerk:
		return "jerk"
	default:
		return "none"
	}
}

// MotionMeta is the small typed bag carried by every motion primitive, in
// place of the source's untyped dictionaries (see SPEC_FULL.md / Design
// Notes §9).
type MotionMeta struct {
	Binding   BindingConstraint
	FeedPct   float64 // 1.0 on cutting motions unless overridden by a Slowdown overlay; 0 on rapids
	TimeS     float64
	Engagement float64 // optional radial-engagement hint, 0 if unset
}

// MotionKind tags the variant carried by a MotionPrimitive.
type MotionKind uint8

const (
	MotionRapid MotionKind = iota // G0
	MotionLinear                  // G1
	MotionArcCW                   // G2
	MotionArcCCW                  // G3
)

// MotionPrimitive is one entry in the ordered output toolpath.
type MotionPrimitive struct {
	Kind   MotionKind
	To     Point
	Z      float64 // absolute Z of the endpoint
	Center Point   // arc center, valid for MotionArcCW/MotionArcCCW
	Radius float64 // arc radius, valid for MotionArcCW/MotionArcCCW
	Feed   float64 // requested feed, mm/min or in/min; 0 for rapids
	Meta   MotionMeta
}

// OverlayKind tags the variant carried by an Overlay.
type OverlayKind uint8

const (
	OverlayFillet OverlayKind = iota
	OverlayTightRadius
	OverlaySlowdown
	OverlayTrochoidCenter
)

// Overlay is a diagnostic marker emitted during shaping for downstream
// visualization. The kernel never renders overlays itself.
type Overlay struct {
	Kind    OverlayKind
	At      Point
	Radius  float64 // Fillet, TightRadius, TrochoidCenter
	FeedPct float64 // Slowdown
}

// CapsHistogram counts cutting motions by their dominant binding
// constraint. Modeled as a typed struct rather than a map per
// SPEC_FULL.md §C.3.
type CapsHistogram struct {
	FeedCap int
	Accel   int
	Jerk    int
	None    int
}

// Total returns the sum of all four buckets.
func (h CapsHistogram) Total() int { return h.FeedCap + h.Accel + h.Jerk + h.None }

// PlanStats summarizes the plan's physical quantities.
type PlanStats struct {
	LengthMM      float64
	TimeS         float64
	MoveCount     int
	AreaMM2       float64
	VolumeMM3     float64
	CapsHistogram CapsHistogram
}

// PlanOutput is the complete result of a successful Plan call.
type PlanOutput struct {
	Motions  []MotionPrimitive
	Stats    PlanStats
	Overlays []Overlay
}

// MachineLimits are the physical limits read by the jerk-aware estimator.
// Other MachineProfile fields are advisory and not consulted by this
// kernel.
type MachineLimits struct {
	FeedXY    float64 // mm/min cap on requested XY feed
	FeedZ     float64 // mm/min cap on requested plunge feed
	Rapid     float64 // mm/min rapid traverse rate
	Accel     float64 // mm/s^2
	Jerk      float64 // mm/s^3
	CornerTol float64 // mm, advisory corner tolerance
}

// MachineAxes carries advisory travel limits; not consulted by this kernel.
type MachineAxes struct {
	TravelX, TravelY, TravelZ float64
}

// MachineSpindle carries advisory spindle range; not consulted by this
// kernel.
type MachineSpindle struct {
	MinRPM, MaxRPM float64
}

// MachineProfile describes the machine the plan will run on. The kernel
// only reads Limits; Axes, Spindle, SafeZDefault and PostIDDefault are
// advisory fields passed through for downstream collaborators.
type MachineProfile struct {
	Limits        MachineLimits
	Axes          MachineAxes
	Spindle       MachineSpindle
	SafeZDefault  float64
	PostIDDefault string
}
