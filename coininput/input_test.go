package coininput

import (
	"testing"

	"github.com/btcsuite/btcd/btcutil/psbt"
	"github.com/btcsuite/btcd/wire"
)

type mockPlan struct {
	witnessVersion WitnessVersion
	hasWitness     bool
	absLock        LockTime
	hasAbsLock     bool
	relLock        RelativeLockTime
	hasRelLock     bool
	satWeight      int64
}

func (p mockPlan) WitnessVersion() (WitnessVersion, bool)     { return p.witnessVersion, p.hasWitness }
func (p mockPlan) AbsoluteTimelock() (LockTime, bool)         { return p.absLock, p.hasAbsLock }
func (p mockPlan) RelativeTimelock() (RelativeLockTime, bool) { return p.relLock, p.hasRelLock }
func (p mockPlan) SatisfactionWeight() int64                  { return p.satWeight }
func (p mockPlan) UpdatePSBTInput(in *psbt.PInput)             {}
func (p mockPlan) Satisfy(sat PSBTInputSatisfier) ([][]byte, []byte, error) {
	return nil, nil, nil
}

func coinbaseTx() *wire.MsgTx {
	return &wire.MsgTx{
		TxIn: []*wire.TxIn{{
			PreviousOutPoint: wire.OutPoint{Index: wire.MaxPrevOutIndex},
		}},
		TxOut: []*wire.TxOut{{Value: 5000000000}},
	}
}

func TestIsCoinbaseTx(t *testing.T) {
	plan := mockPlan{witnessVersion: WitnessV0, hasWitness: true}
	in, ok := NewFromPrevTx(plan, coinbaseTx(), 0, &ConfirmationStatus{Height: 100})
	if !ok {
		t.Fatalf("NewFromPrevTx failed on a valid output index")
	}
	if !in.IsCoinbase() {
		t.Fatalf("input spending a coinbase tx's only output should report IsCoinbase() = true")
	}
}

func TestIsImmature(t *testing.T) {
	plan := mockPlan{witnessVersion: WitnessV0, hasWitness: true}
	in, ok := NewFromPrevTx(plan, coinbaseTx(), 0, &ConfirmationStatus{Height: 100})
	if !ok {
		t.Fatalf("NewFromPrevTx failed")
	}

	if !in.IsImmature(100) {
		t.Fatalf("a coinbase output confirmed at height 100 must still be immature one block later")
	}
	if in.IsImmature(199) {
		t.Fatalf("a coinbase output confirmed at height 100 must be mature at tip 199 (100 confirmations)")
	}
	if !in.IsImmature(198) {
		t.Fatalf("a coinbase output confirmed at height 100 must still be immature at tip 198 (99 confirmations)")
	}
}

func TestIsTimelockedAbsolute(t *testing.T) {
	plan := mockPlan{
		absLock:    NewHeightLockTime(1000),
		hasAbsLock: true,
	}
	in := NewFromPrevTxOut(plan, wire.OutPoint{}, wire.TxOut{Value: 1000}, nil, false)

	if !in.IsTimelocked(900, 0) {
		t.Fatalf("input locked to height 1000 should be timelocked at tip 900")
	}
	if in.IsTimelocked(999, 0) {
		t.Fatalf("input locked to height 1000 should be spendable at tip 999 (spending height 1000)")
	}
}

func TestIsSpendableNowRequiresStatusForRelativeTimelock(t *testing.T) {
	plan := mockPlan{
		relLock:    NewRelativeHeightLockTime(10),
		hasRelLock: true,
	}
	in := NewFromPrevTxOut(plan, wire.OutPoint{}, wire.TxOut{Value: 1000}, nil, false)
	if in.IsSpendableNow(1000, 0) {
		t.Fatalf("an input with a relative timelock but no confirmation status must never report spendable")
	}
}

func TestWeightIncludesSatisfaction(t *testing.T) {
	plan := mockPlan{satWeight: 108}
	in := NewFromPrevTxOut(plan, wire.OutPoint{}, wire.TxOut{Value: 1000}, nil, false)
	want := txinBaseWeight + 108
	if got := in.Weight(); got != int64(want) {
		t.Fatalf("Weight() = %d, want %d", got, want)
	}
}

func TestForeignFinalizedInputHasNoPlan(t *testing.T) {
	pin := &psbt.PInput{FinalScriptWitness: []byte{0x01}}
	in := NewForeignFinalized(wire.OutPoint{}, wire.TxOut{Value: 1000}, nil, 0xffffffff, pin, 108, nil, false)

	if _, ok := in.Plan(); ok {
		t.Fatalf("a foreign finalized input must not expose a Plan")
	}
	got, ok := in.ForeignPSBTInput()
	if !ok || got != pin {
		t.Fatalf("ForeignPSBTInput() = (%v, %v), want (%v, true)", got, ok, pin)
	}
	if !in.IsSegwit() {
		t.Fatalf("a foreign input carrying a final witness should report IsSegwit() = true")
	}
}
