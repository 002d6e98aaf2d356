package coinselect

import (
	"testing"

	"github.com/btcsuite/btcd/btcutil/psbt"
	"github.com/btcsuite/btcd/wire"

	"github.com/satoshikit/txcore/coininput"
)

type stubPlan struct{ satWeight int64 }

func (p stubPlan) WitnessVersion() (coininput.WitnessVersion, bool) {
	return coininput.WitnessV0, true
}
func (p stubPlan) AbsoluteTimelock() (coininput.LockTime, bool) { return coininput.LockTime{}, false }
func (p stubPlan) RelativeTimelock() (coininput.RelativeLockTime, bool) {
	return coininput.RelativeLockTime{}, false
}
func (p stubPlan) SatisfactionWeight() int64          { return p.satWeight }
func (p stubPlan) UpdatePSBTInput(in *psbt.PInput)    {}
func (p stubPlan) Satisfy(sat coininput.PSBTInputSatisfier) ([][]byte, []byte, error) {
	return nil, nil, nil
}

func inputWithValueAndStatus(value int64, status *coininput.ConfirmationStatus) coininput.Input {
	return coininput.NewFromPrevTxOut(stubPlan{satWeight: 108}, wire.OutPoint{}, wire.TxOut{Value: value}, status, false)
}

func TestCandidateEffectiveValue(t *testing.T) {
	group := coininput.NewInputGroup(inputWithValueAndStatus(100000, nil))
	c := NewCandidate(group)
	// rate 1000 sat/kWU, weight = txinBaseWeight(164) + 108 = 272 -> fee 272.
	got := c.EffectiveValue(1000)
	want := int64(100000 - 272)
	if got != want {
		t.Fatalf("EffectiveValue(1000) = %d, want %d", got, want)
	}
}

func TestCandidateWaste(t *testing.T) {
	group := coininput.NewInputGroup(inputWithValueAndStatus(100000, nil))
	c := NewCandidate(group)
	waste := c.Waste(1000, 500)
	if waste <= 0 {
		t.Fatalf("Waste() at a target rate above the longterm rate should be positive, got %d", waste)
	}
	wasteReverse := c.Waste(500, 1000)
	if wasteReverse >= 0 {
		t.Fatalf("Waste() at a target rate below the longterm rate should be negative, got %d", wasteReverse)
	}
}

func TestCandidateConfirmedHeight(t *testing.T) {
	confirmed := inputWithValueAndStatus(1000, &coininput.ConfirmationStatus{Height: 500})
	group := coininput.NewInputGroup(confirmed)
	c := NewCandidate(group)

	height, ok := c.confirmedHeight()
	if !ok || height != 500 {
		t.Fatalf("confirmedHeight() = (%d, %v), want (500, true)", height, ok)
	}
}

func TestCandidateConfirmedHeightUnconfirmed(t *testing.T) {
	unconfirmed := inputWithValueAndStatus(1000, nil)
	group := coininput.NewInputGroup(unconfirmed)
	c := NewCandidate(group)

	_, ok := c.confirmedHeight()
	if ok {
		t.Fatalf("confirmedHeight() must report ok=false when any input in the group is unconfirmed")
	}
}

func TestCandidateConfirmedHeightTakesEarliest(t *testing.T) {
	a := inputWithValueAndStatus(1000, &coininput.ConfirmationStatus{Height: 500})
	b := inputWithValueAndStatus(1000, &coininput.ConfirmationStatus{Height: 200})
	group, ok := coininput.NewInputGroupFromInputs([]coininput.Input{a, b})
	if !ok {
		t.Fatalf("NewInputGroupFromInputs failed on a non-empty slice")
	}
	c := NewCandidate(group)

	height, ok := c.confirmedHeight()
	if !ok || height != 200 {
		t.Fatalf("confirmedHeight() = (%d, %v), want (200, true)", height, ok)
	}
}
