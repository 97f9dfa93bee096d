package pocketing

import "math"

// mmPerInch is the conversion factor used to normalize PlanInput.Units to
// the kernel's internal canonical unit (millimeters). PlanOutput is
// always reported in millimeters (its fields are named accordingly,
// spec.md §6.4) regardless of the input Units, which is what makes the
// unit-consistency testable property in spec.md §8 hold trivially: two
// equivalent inputs in different Units normalize to the same internal
// geometry.
const mmPerInch = 25.4

// PlanInput is the kernel's single configuration surface, spec.md §6.1.
type PlanInput struct {
	Loops LoopSet
	Units Units

	ToolD    float64
	Stepover float64 // fraction of ToolD, in (0,1)

	// TargetStepover is the adaptive modulator's target; defaults to
	// Stepover when zero.
	TargetStepover float64

	StepdownMM float64
	ZRough     float64 // < 0
	SafeZ      float64 // > 0
	Margin     float64 // >= 0

	Strategy Strategy
	Climb    bool

	Smoothing float64 // in [0,1], sampler densification weight

	CornerRadiusMin float64

	UseTrochoids      bool
	TrochoidRadius    float64
	TrochoidRadiusMin float64
	TrochoidPitch     float64

	SlowdownFeedPct float64 // in (0,1]

	FeedXY, FeedZ float64

	MachineProfile *MachineProfile // optional; nil uses DefaultMachineProfile(FeedXY, FeedZ)
}

// DefaultMachineProfile implements the spec.md §6.1 fallback: "if absent,
// §4.8 uses defaults from feed_xy/feed_z and an accel/jerk of
// (800 mm/s^2, 2000 mm/s^3)".
func DefaultMachineProfile(feedXY, feedZ float64) MachineProfile {
	return MachineProfile{
		Limits: MachineLimits{
			FeedXY:    feedXY,
			FeedZ:     feedZ,
			Rapid:     math.Max(feedXY*3, 3000),
			Accel:     800,
			Jerk:      2000,
			CornerTol: 0.01,
		},
	}
}

// KernelConfig is the derived, unit-normalized parameter set computed
// once at the top of Plan (spec.md §4.10 step 2), mirroring the teacher's
// pattern of precomputing stepsPerRad/stepSin/stepCos once per
// ClipperOffset.Execute rather than recomputing per call.
type KernelConfig struct {
	Loops LoopSet

	ToolD          float64
	StepoverMM     float64
	TargetStepoverMM float64
	StepdownMM     float64
	ZRough         float64
	SafeZ          float64
	Margin         float64

	Strategy Strategy
	Climb    bool

	TargetChord     float64
	CornerRadiusMin float64

	UseTrochoids      bool
	TrochoidRadius    float64
	TrochoidRadiusMin float64
	TrochoidPitch     float64

	SlowdownFeedPct float64

	FeedXY, FeedZ float64

	DepthLayers []float64 // absolute Z of each pass, most negative last

	Profile MachineProfile

	JoinKind    JoinKind
	MiterLimit  float64
	MaxRings    int
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func toMM(v float64, u Units) float64 {
	if u == Inches {
		return v * mmPerInch
	}
	return v
}

// validateInput checks the spec.md §7 BadInput / Infeasible / ProfileMismatch
// conditions that can be checked before any offsetting is attempted.
func validateInput(in PlanInput) error {
	if err := validateLoopSet(in.Loops); err != nil {
		return err
	}
	if in.ToolD <= 0 {
		return &BadInputError{Field: "tool_d", Reason: "must be > 0"}
	}
	if in.Smoothing < 0 || in.Smoothing > 1 {
		return &BadInputError{Field: "smoothing", Reason: "must be in [0,1]"}
	}
	if in.Stepover <= 0 || in.Stepover >= 1 {
		return &BadInputError{Field: "stepover", Reason: "must be in (0,1)"}
	}
	if in.TargetStepover != 0 && (in.TargetStepover <= 0 || in.TargetStepover >= 1) {
		return &BadInputError{Field: "target_stepover", Reason: "must be in (0,1)"}
	}
	if in.SafeZ <= 0 {
		return &BadInputError{Field: "safe_z", Reason: "must be > 0"}
	}
	if in.ZRough >= 0 {
		return &BadInputError{Field: "z_rough", Reason: "must be < 0"}
	}
	if in.Margin < 0 {
		return &BadInputError{Field: "margin", Reason: "must be >= 0"}
	}
	if in.CornerRadiusMin <= 0 {
		return &BadInputError{Field: "corner_radius_min", Reason: "must be > 0"}
	}
	if in.FeedXY <= 0 {
		return &BadInputError{Field: "feed_xy", Reason: "must be > 0"}
	}
	if in.FeedZ <= 0 {
		return &BadInputError{Field: "feed_z", Reason: "must be > 0"}
	}
	if in.UseTrochoids {
		if in.TrochoidRadius <= 0 {
			return &BadInputError{Field: "trochoid_radius", Reason: "must be > 0"}
		}
		if in.TrochoidRadiusMin <= 0 {
			return &BadInputError{Field: "trochoid_radius_min", Reason: "must be > 0"}
		}
		if in.TrochoidPitch <= 0 {
			return &BadInputError{Field: "trochoid_pitch", Reason: "must be > 0"}
		}
	}
	if in.SlowdownFeedPct != 0 && (in.SlowdownFeedPct <= 0 || in.SlowdownFeedPct > 1) {
		return &BadInputError{Field: "slowdown_feed_pct", Reason: "must be in (0,1]"}
	}

	toolDMM := toMM(in.ToolD, in.Units)
	marginMM := toMM(in.Margin, in.Units)
	if in.StepdownMM <= 0 {
		return &InfeasibleError{Reason: "stepdown_mm must be > 0"}
	}
	// safe_z > 0 > z_rough is already guaranteed by the checks above, so
	// safe_z is always above z_rough once we get here.

	outerBounds := Bounds(in.Loops.Outer)
	if toolDMM+2*marginMM >= toMM(outerBounds.MaxDim(), in.Units) {
		return &InfeasibleError{Reason: "tool_d + 2*margin leaves no cuttable area"}
	}

	if in.MachineProfile != nil {
		l := in.MachineProfile.Limits
		if l.FeedXY <= 0 || l.FeedZ <= 0 || l.Rapid <= 0 || l.Accel <= 0 || l.Jerk <= 0 {
			return &ProfileMismatchError{Reason: "machine profile limits must all be positive"}
		}
	}
	return nil
}

// deriveConfig implements spec.md §4.10 step 2: normalize units and
// compute every derived parameter once.
func deriveConfig(in PlanInput) KernelConfig {
	u := in.Units
	cfg := KernelConfig{
		Loops:           normalizeLoopSetUnits(in.Loops, u),
		ToolD:           toMM(in.ToolD, u),
		StepoverMM:      toMM(in.ToolD, u) * in.Stepover,
		StepdownMM:      toMM(in.StepdownMM, u),
		ZRough:          toMM(in.ZRough, u),
		SafeZ:           toMM(in.SafeZ, u),
		Margin:          toMM(in.Margin, u),
		Strategy:        in.Strategy,
		Climb:           in.Climb,
		CornerRadiusMin: toMM(in.CornerRadiusMin, u),

		UseTrochoids:      in.UseTrochoids,
		TrochoidRadius:    toMM(in.TrochoidRadius, u),
		TrochoidRadiusMin: toMM(in.TrochoidRadiusMin, u),
		TrochoidPitch:     toMM(in.TrochoidPitch, u),

		SlowdownFeedPct: in.SlowdownFeedPct,
		FeedXY:          in.FeedXY,
		FeedZ:           in.FeedZ,

		JoinKind:   JoinRound,
		MiterLimit: 2.0,
		MaxRings:   4096,
	}
	targetStepover := in.TargetStepover
	if targetStepover == 0 {
		targetStepover = in.Stepover
	}
	cfg.TargetStepoverMM = cfg.ToolD * targetStepover

	// Smoothing (spec.md §6.1: "sampler densification weight", in [0,1])
	// tightens the resampler's target chord: 0 leaves the base chord
	// untouched, 1 halves it, doubling point density on the densest
	// curves.
	cfg.TargetChord = targetChord(cfg.StepoverMM, cfg.ToolD) * (1 - 0.5*clamp01(in.Smoothing))

	if in.MachineProfile != nil {
		cfg.Profile = *in.MachineProfile
	} else {
		cfg.Profile = DefaultMachineProfile(in.FeedXY, in.FeedZ)
	}

	depth := math.Abs(cfg.ZRough)
	// The small tolerance keeps unit-conversion rounding (e.g. 6.0000000001
	// layers) from adding a duplicate final layer.
	layers := int(math.Ceil(depth/cfg.StepdownMM - 1e-9))
	if layers < 1 {
		layers = 1
	}
	cfg.DepthLayers = make([]float64, layers)
	for i := 0; i < layers; i++ {
		z := -math.Min(cfg.StepdownMM*float64(i+1), depth)
		cfg.DepthLayers[i] = z
	}
	cfg.DepthLayers[layers-1] = cfg.ZRough

	return cfg
}

func normalizeLoopSetUnits(ls LoopSet, u Units) LoopSet {
	if u != Inches {
		return ls
	}
	return LoopSet{
		Outer:   scaleLoop(ls.Outer, mmPerInch),
		Islands: scaleLoops(ls.Islands, mmPerInch),
	}
}

func scaleLoop(l Loop, factor float64) Loop {
	out := make([]Point, len(l.Points))
	for i, p := range l.Points {
		out[i] = Point{p.X * factor, p.Y * factor}
	}
	return Loop{Points: out}
}

func scaleLoops(ls []Loop, factor float64) []Loop {
	out := make([]Loop, len(ls))
	for i, l := range ls {
		out[i] = scaleLoop(l, factor)
	}
	return out
}
