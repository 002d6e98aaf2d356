package psbtassembler

import (
	"testing"

	"github.com/btcsuite/btcd/btcutil/psbt"
	"github.com/btcsuite/btcd/wire"

	"github.com/satoshikit/txcore/coininput"
	"github.com/satoshikit/txcore/selection"
)

// queueRNG returns a fixed, caller-supplied sequence of Uint64 values, one
// per call, so anti-fee-sniping's coin-flip/offset draws are deterministic.
type queueRNG struct {
	values []uint64
	i      int
}

func (q *queueRNG) Uint64() uint64 {
	v := q.values[q.i]
	q.i++
	return v
}

type afsPlan struct {
	version    coininput.WitnessVersion
	hasVersion bool
	relLock    coininput.RelativeLockTime
	hasRelLock bool
}

func (p afsPlan) WitnessVersion() (coininput.WitnessVersion, bool) { return p.version, p.hasVersion }
func (p afsPlan) AbsoluteTimelock() (coininput.LockTime, bool)     { return coininput.LockTime{}, false }
func (p afsPlan) RelativeTimelock() (coininput.RelativeLockTime, bool) {
	return p.relLock, p.hasRelLock
}
func (p afsPlan) SatisfactionWeight() int64       { return 0 }
func (p afsPlan) UpdatePSBTInput(in *psbt.PInput) {}
func (p afsPlan) Satisfy(sat coininput.PSBTInputSatisfier) ([][]byte, []byte, error) {
	return nil, nil, nil
}

func nonRbfSegwitInput(height uint32) coininput.Input {
	plan := afsPlan{version: coininput.WitnessV0, hasVersion: true}
	return coininput.NewFromPrevTxOut(plan, wire.OutPoint{Index: 0}, wire.TxOut{Value: 1000},
		&coininput.ConfirmationStatus{Height: height}, false)
}

func rbfTaprootInput(index uint32, height uint32) coininput.Input {
	plan := afsPlan{
		version:    coininput.WitnessV1,
		hasVersion: true,
		relLock:    coininput.NewRelativeHeightLockTime(1),
		hasRelLock: true,
	}
	return coininput.NewFromPrevTxOut(plan, wire.OutPoint{Index: index}, wire.TxOut{Value: 1000},
		&coininput.ConfirmationStatus{Height: height}, false)
}

func TestMustUseLocktimeWithoutRBF(t *testing.T) {
	sel := selection.Selection{Inputs: []coininput.Input{nonRbfSegwitInput(100)}}
	if !mustUseLocktime(sel, Params{FallbackSequence: wire.MaxTxInSequenceNum}, 1000) {
		t.Fatalf("mustUseLocktime must be true when no input opts into RBF")
	}
}

func TestMustUseLocktimeWithNonTaprootRBF(t *testing.T) {
	plan := afsPlan{
		version:    coininput.WitnessV0,
		hasVersion: true,
		relLock:    coininput.NewRelativeHeightLockTime(1),
		hasRelLock: true,
	}
	in := coininput.NewFromPrevTxOut(plan, wire.OutPoint{}, wire.TxOut{Value: 1000},
		&coininput.ConfirmationStatus{Height: 100}, false)
	sel := selection.Selection{Inputs: []coininput.Input{in}}
	if !mustUseLocktime(sel, Params{}, 1000) {
		t.Fatalf("mustUseLocktime must be true when RBF is enabled but no input is taproot")
	}
}

func TestMustUseLocktimeFalseForAllTaprootRBF(t *testing.T) {
	sel := selection.Selection{Inputs: []coininput.Input{
		rbfTaprootInput(0, 900),
		rbfTaprootInput(1, 950),
	}}
	if mustUseLocktime(sel, Params{}, 1000) {
		t.Fatalf("mustUseLocktime should be false when every input is a confirmed taproot RBF input")
	}
}

func TestApplyAntiFeeSnipingLocktimePath(t *testing.T) {
	sel := selection.Selection{Inputs: []coininput.Input{nonRbfSegwitInput(100)}}
	params := Params{
		AntiFeeSniping: &AntiFeeSnipingParams{
			TipHeight: 1000,
			// mustUseLocktime short-circuits to true without a taproot input,
			// so coinFlip is never drawn: first value feeds oneInTen,
			// second feeds drawOffset.
			RNG: &queueRNG{values: []uint64{0, 37}},
		},
	}

	locktime, seqOverride := applyAntiFeeSniping(sel, params)
	if locktime.Unit() != coininput.Height {
		t.Fatalf("locktime path must produce a height-based locktime")
	}
	if locktime.Value() != 963 {
		t.Fatalf("locktime = %d, want tip_height(1000) - offset(37) = 963", locktime.Value())
	}
	if seqOverride != nil {
		t.Fatalf("locktime path must not produce a sequence override, got %v", seqOverride)
	}
}

func TestApplyAntiFeeSnipingLocktimePathOffsetSaturatesAtZero(t *testing.T) {
	sel := selection.Selection{Inputs: []coininput.Input{nonRbfSegwitInput(100)}}
	params := Params{
		AntiFeeSniping: &AntiFeeSnipingParams{
			TipHeight: 10,
			RNG:       &queueRNG{values: []uint64{0, 50}}, // offset 50 > tip height 10
		},
	}

	locktime, _ := applyAntiFeeSniping(sel, params)
	if locktime.Value() != 0 {
		t.Fatalf("an offset larger than tip height must saturate locktime at 0, got %d", locktime.Value())
	}
}

func TestApplyAntiFeeSnipingSequencePath(t *testing.T) {
	sel := selection.Selection{Inputs: []coininput.Input{
		rbfTaprootInput(0, 900), // 101 confirmations at tip 1000
		rbfTaprootInput(1, 950), // 51 confirmations at tip 1000
	}}
	params := Params{
		AntiFeeSniping: &AntiFeeSnipingParams{
			TipHeight: 1000,
			RNG: &queueRNG{values: []uint64{
				1, // coinFlip: odd -> false, stays on the sequence path
				1, // chosen = taprootOutpoints[1 % 2] -> index 1
				1, // oneInTen: 1%10 != 0 -> no offset applied
			}},
		},
	}

	locktime, seqOverride := applyAntiFeeSniping(sel, params)
	if locktime.Value() != 0 || locktime.Unit() != coininput.Height {
		t.Fatalf("sequence path must set lock_time to 0, got %+v", locktime)
	}
	chosenOutpoint := wire.OutPoint{Index: 1}
	seq, ok := seqOverride[chosenOutpoint]
	if !ok {
		t.Fatalf("sequence path must override the chosen input's sequence, got %v", seqOverride)
	}
	if seq != 51 {
		t.Fatalf("sequence override = %d, want the chosen input's confirmation count 51", seq)
	}
}
