package pocketing

import "math"

// floatTolerance mirrors the teacher's floatingPointTolerance, scaled up
// slightly since this package works in mm/inch, not fixed-point.
const floatTolerance = 1e-6

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) <= floatTolerance
}

func almostEqualTol(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func rectLoop(minX, minY, maxX, maxY float64) Loop {
	return Loop{Points: []Point{
		{minX, minY}, {maxX, minY}, {maxX, maxY}, {minX, maxY},
	}}
}

func circleLoop(cx, cy, r float64, n int) Loop {
	pts := make([]Point, n)
	for i := 0; i < n; i++ {
		a := 2 * math.Pi * float64(i) / float64(n)
		pts[i] = Point{cx + r*math.Cos(a), cy + r*math.Sin(a)}
	}
	return Loop{Points: pts}
}
