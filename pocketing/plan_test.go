package pocketing

import "testing"

func rectangularPocketInput() PlanInput {
	return PlanInput{
		Loops:           LoopSet{Outer: rectLoop(0, 0, 80, 60)},
		Units:           Millimeters,
		ToolD:           6,
		Stepover:        0.45,
		StepdownMM:      2,
		ZRough:          -6,
		SafeZ:           8,
		Margin:          0.5,
		Strategy:        StrategySpiral,
		Climb:           true,
		CornerRadiusMin: 1.5,
		FeedXY:          2000,
		FeedZ:           400,
	}
}

func TestPlanRectangularPocketNoIslands(t *testing.T) {
	out, err := Plan(rectangularPocketInput())
	if err != nil {
		t.Fatalf("Plan() error = %v", err)
	}
	if len(out.Motions) == 0 {
		t.Fatal("Plan() produced no motions")
	}
	if out.Stats.MoveCount != len(out.Motions) {
		t.Errorf("Stats.MoveCount = %d, want %d", out.Stats.MoveCount, len(out.Motions))
	}
	if out.Stats.LengthMM <= 0 {
		t.Errorf("Stats.LengthMM = %v, want > 0", out.Stats.LengthMM)
	}
	if out.Stats.TimeS <= 0 {
		t.Errorf("Stats.TimeS = %v, want > 0", out.Stats.TimeS)
	}
	if out.Stats.AreaMM2 <= 0 {
		t.Errorf("Stats.AreaMM2 = %v, want > 0", out.Stats.AreaMM2)
	}
	if out.Stats.VolumeMM3 <= 0 {
		t.Errorf("Stats.VolumeMM3 = %v, want > 0", out.Stats.VolumeMM3)
	}

	first, last := out.Motions[0], out.Motions[len(out.Motions)-1]
	if first.Kind != MotionRapid || first.Z != 8 {
		t.Errorf("first motion = %+v, want a safe-z rapid", first)
	}
	if last.Kind != MotionRapid || last.Z != 8 {
		t.Errorf("last motion = %+v, want a safe-z rapid", last)
	}
}

func TestPlanPocketWithOneIsland(t *testing.T) {
	in := rectangularPocketInput()
	in.Loops.Islands = []Loop{rectLoop(30, 20, 50, 40)}

	out, err := Plan(in)
	if err != nil {
		t.Fatalf("Plan() error = %v", err)
	}
	if len(out.Motions) == 0 {
		t.Fatal("Plan() produced no motions for a pocket with an island")
	}
	if out.Stats.AreaMM2 >= Area(in.Loops.Outer) {
		t.Errorf("Stats.AreaMM2 = %v, want less than the outer area since the island is subtracted", out.Stats.AreaMM2)
	}
}

func TestPlanTightCornerPocketProducesTrochoidOverlay(t *testing.T) {
	in := rectangularPocketInput()
	in.UseTrochoids = true
	in.TrochoidRadius = 1
	in.TrochoidRadiusMin = 4
	in.TrochoidPitch = 1

	out, err := Plan(in)
	if err != nil {
		t.Fatalf("Plan() error = %v", err)
	}
	foundTrochoid := false
	for _, o := range out.Overlays {
		if o.Kind == OverlayTrochoidCenter {
			foundTrochoid = true
		}
	}
	if !foundTrochoid {
		t.Error("Plan() with use_trochoids=true and a generous radius_min produced no TrochoidCenter overlay")
	}
}

func TestPlanMachineProfileTimeMonotonicity(t *testing.T) {
	slow := rectangularPocketInput()
	fast := rectangularPocketInput()
	fast.FeedXY *= 4
	fast.FeedZ *= 4

	outSlow, err := Plan(slow)
	if err != nil {
		t.Fatalf("Plan(slow) error = %v", err)
	}
	outFast, err := Plan(fast)
	if err != nil {
		t.Fatalf("Plan(fast) error = %v", err)
	}
	if outFast.Stats.TimeS >= outSlow.Stats.TimeS {
		t.Errorf("Plan() with 4x feed took %v, want less than slower plan's %v", outFast.Stats.TimeS, outSlow.Stats.TimeS)
	}
}

func TestPlanFeedCapSaturationReflectedInHistogram(t *testing.T) {
	in := rectangularPocketInput()
	in.FeedXY = 50000 // far beyond any reasonable machine limit
	p := DefaultMachineProfile(500, 400)
	in.MachineProfile = &p

	out, err := Plan(in)
	if err != nil {
		t.Fatalf("Plan() error = %v", err)
	}
	if out.Stats.CapsHistogram.FeedCap == 0 {
		t.Error("Plan() with feed far above the machine's feed_xy limit produced no feed_cap binding")
	}
	if out.Stats.CapsHistogram.Total() == 0 {
		t.Error("Plan() CapsHistogram is empty")
	}
}

func TestPlanDegenerateLoopRejected(t *testing.T) {
	in := rectangularPocketInput()
	in.Loops.Outer = Loop{Points: []Point{{0, 0}, {1, 0}}}

	_, err := Plan(in)
	if err == nil {
		t.Fatal("Plan() accepted a degenerate 2-point outer loop")
	}
	if _, ok := err.(*BadInputError); !ok {
		t.Errorf("Plan() error type = %T, want *BadInputError", err)
	}
}

func TestPlanInfeasibleWhenToolTooLarge(t *testing.T) {
	in := rectangularPocketInput()
	in.ToolD = 200 // larger than the 80x60 pocket

	_, err := Plan(in)
	if err == nil {
		t.Fatal("Plan() accepted a tool diameter larger than the pocket")
	}
	if _, ok := err.(*InfeasibleError); !ok {
		t.Errorf("Plan() error type = %T, want *InfeasibleError", err)
	}
}

func TestPlanOffsetIdempotenceUnderLanesStrategy(t *testing.T) {
	in := rectangularPocketInput()
	in.Strategy = StrategyLanes

	out, err := Plan(in)
	if err != nil {
		t.Fatalf("Plan() error = %v", err)
	}
	if len(out.Motions) == 0 {
		t.Fatal("Plan() with StrategyLanes produced no motions")
	}
}

func TestPlanUnitConsistencyMillimetersVsInches(t *testing.T) {
	mm := rectangularPocketInput()
	inch := rectangularPocketInput()
	inch.Units = Inches
	inch.Loops = LoopSet{Outer: scaleLoop(mm.Loops.Outer, 1/mmPerInch)}
	inch.ToolD = mm.ToolD / mmPerInch
	inch.StepdownMM = mm.StepdownMM / mmPerInch
	inch.ZRough = mm.ZRough / mmPerInch
	inch.SafeZ = mm.SafeZ / mmPerInch
	inch.Margin = mm.Margin / mmPerInch
	inch.CornerRadiusMin = mm.CornerRadiusMin / mmPerInch

	outMM, err := Plan(mm)
	if err != nil {
		t.Fatalf("Plan(mm) error = %v", err)
	}
	outInch, err := Plan(inch)
	if err != nil {
		t.Fatalf("Plan(inch) error = %v", err)
	}
	if !almostEqualTol(outMM.Stats.LengthMM, outInch.Stats.LengthMM, outMM.Stats.LengthMM*0.01) {
		t.Errorf("Plan() unit mismatch: mm LengthMM=%v, inch-equivalent LengthMM=%v", outMM.Stats.LengthMM, outInch.Stats.LengthMM)
	}
}

func TestPlanCapsHistogramSumsToCuttingMoveCount(t *testing.T) {
	out, err := Plan(rectangularPocketInput())
	if err != nil {
		t.Fatalf("Plan() error = %v", err)
	}
	cutting := 0
	for _, m := range out.Motions {
		if m.Kind != MotionRapid {
			cutting++
		}
	}
	if out.Stats.CapsHistogram.Total() != cutting {
		t.Errorf("CapsHistogram.Total() = %d, want %d (count of non-rapid motions)", out.Stats.CapsHistogram.Total(), cutting)
	}
}
