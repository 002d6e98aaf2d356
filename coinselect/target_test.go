package coinselect

import "testing"

func TestTargetFeeEffectiveRateNoReplace(t *testing.T) {
	target := TargetFee{Rate: 1000}
	if got := target.EffectiveRate(); got != 1000 {
		t.Fatalf("EffectiveRate() with no Replace = %d, want 1000", got)
	}
}

func TestTargetFeeEffectiveRateReplaceFloor(t *testing.T) {
	target := TargetFee{
		Rate: 500,
		Replace: &Replace{
			MaxFeerate:              800,
			IncrementalRelayFeerate: 250,
		},
	}
	if got := target.EffectiveRate(); got != 1050 {
		t.Fatalf("EffectiveRate() should clear the replacement floor: got %d, want 1050", got)
	}
}

func TestTargetFeeEffectiveRateRequestedAboveFloor(t *testing.T) {
	target := TargetFee{
		Rate: 2000,
		Replace: &Replace{
			MaxFeerate:              800,
			IncrementalRelayFeerate: 250,
		},
	}
	if got := target.EffectiveRate(); got != 2000 {
		t.Fatalf("EffectiveRate() should keep the requested rate when it already clears the floor: got %d, want 2000", got)
	}
}

func TestTargetMinReplacementFee(t *testing.T) {
	noReplace := Target{}
	if got := noReplace.MinReplacementFee(); got != 0 {
		t.Fatalf("MinReplacementFee() with no Replace = %d, want 0", got)
	}

	withReplace := Target{Fee: TargetFee{Replace: &Replace{Fee: 1500}}}
	if got := withReplace.MinReplacementFee(); got != 1501 {
		t.Fatalf("MinReplacementFee() must strictly exceed the original fee: got %d, want 1501", got)
	}
}

func TestTargetAmountNeeded(t *testing.T) {
	target := Target{Outputs: TargetOutputs{Value: 50000, Weight: 1000}}
	if got := target.AmountNeeded(); got != 50000 {
		t.Fatalf("AmountNeeded() = %d, want 50000", got)
	}
}
