package pocketing

import "math"

// overheadMultiplier is the dwell/overhead factor applied to the summed
// per-segment time, per spec.md §4.8.
const overheadMultiplier = 1.10

// estimateTimes implements spec.md §4.8: it walks motions in order (never
// reordering them), assigns each one a jerk-limited S-curve time and a
// dominant BindingConstraint in its Meta, and returns the total estimated
// time plus a histogram of the binding constraint across cutting motions
// (G1/G2/G3 — rapids are excluded from the histogram but still
// contribute to the total time).
func estimateTimes(motions []MotionPrimitive, profile MachineProfile) (float64, CapsHistogram) {
	accel := profile.Limits.Accel
	jerk := profile.Limits.Jerk

	var total float64
	var hist CapsHistogram
	var prev Point
	var prevZ float64
	first := true

	for i := range motions {
		m := &motions[i]

		var d float64
		if first {
			first = false
		} else {
			dx := m.To.X - prev.X
			dy := m.To.Y - prev.Y
			dz := m.Z - prevZ
			d = math.Sqrt(dx*dx + dy*dy + dz*dz)
		}
		prev, prevZ = m.To, m.Z

		var feedCap, requested, radius float64
		switch m.Kind {
		case MotionRapid:
			feedCap = profile.Limits.Rapid
			requested = profile.Limits.Rapid
		case MotionLinear:
			feedCap = profile.Limits.FeedXY
			requested = m.Feed
		case MotionArcCW, MotionArcCCW:
			feedCap = profile.Limits.FeedXY
			requested = m.Feed
			radius = m.Radius
		}

		t, binding := segmentTime(d, requested, feedCap, accel, jerk, radius)
		m.Meta.TimeS = t
		m.Meta.Binding = binding
		total += t

		if m.Kind != MotionRapid {
			switch binding {
			case BindingFeedCap:
				hist.FeedCap++
			case BindingAccel:
				hist.Accel++
			case BindingJerk:
				hist.Jerk++
			default:
				hist.None++
			}
		}
	}

	return total * overheadMultiplier, hist
}

// segmentTime computes the jerk-limited S-curve time for a single segment
// of distance d requesting the given feed (mm/min), capped by feedCap
// (mm/min), under the given accel (mm/s^2) and jerk (mm/s^3). radius is
// non-zero for arc segments, applying the centripetal acceleration cap.
func segmentTime(d, requestedFeedMMPerMin, feedCapMMPerMin, accel, jerk, radius float64) (float64, BindingConstraint) {
	vReq := requestedFeedMMPerMin / 60
	feedCap := feedCapMMPerMin / 60

	vEff := vReq
	binding := BindingNone
	if vReq > feedCap {
		vEff = feedCap
		binding = BindingFeedCap
	}
	if radius > 0 {
		if centripetalCap := math.Sqrt(accel * radius); vEff > centripetalCap {
			vEff = centripetalCap
			binding = BindingAccel
		}
	}

	ta := accel / jerk
	sa := 0.5 * accel * ta * ta

	rampLimited := d < 2*sa
	if !rampLimited {
		vReach := math.Sqrt(2 * accel * (d - 2*sa))
		rampLimited = vReach < 0.9*vEff
	}

	if rampLimited {
		if binding != BindingFeedCap {
			if jerk < 2*accel {
				binding = BindingJerk
			} else {
				binding = BindingAccel
			}
		}
		return 2 * math.Sqrt(d/math.Max(accel, 1e-12)), binding
	}

	t := 2*ta + (d-2*sa)/vEff
	return t, binding
}
