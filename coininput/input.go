// Package coininput models a single candidate previous output (Input) and
// the non-empty, atomically-selected group of them (InputGroup) that the
// rest of the pipeline consumes.
package coininput

import (
	"github.com/btcsuite/btcd/btcutil/psbt"
	"github.com/btcsuite/btcd/wire"
)

// coinbaseMaturity is the number of additional blocks, beyond the
// confirming block itself, a coinbase output must wait before it is
// spendable (BIP34-era consensus rule, unchanged since genesis).
const coinbaseMaturity = 100

// txinBaseWeight is the weight, in witness units, of the outpoint (32+4),
// sequence (4), and empty scriptSig length byte (1) fields common to every
// transaction input, independent of its satisfaction.
const txinBaseWeight = (32 + 4 + 4 + 1) * 4

// ConfirmationStatus records the confirming block of a transaction.
type ConfirmationStatus struct {
	// Height is the absolute block height the transaction confirmed in.
	Height uint32
	// Time is the block's median-time-past at confirmation.
	Time uint32
}

// planSource is the unexported sum type backing Input: either a regular
// Plan-derived input, or a foreign input whose PSBT data already carries a
// final (or to-be-assumed-final) witness/scriptSig.
type planSource interface {
	absoluteTimelock() (LockTime, bool)
	relativeTimelock() (RelativeLockTime, bool)
	sequence() (uint32, bool)
	satisfactionWeight() int64
	isSegwit() bool
	asPlan() (Plan, bool)
	asForeignPSBTInput() (*psbt.PInput, bool)
}

type planHolder struct{ plan Plan }

func (h planHolder) absoluteTimelock() (LockTime, bool)         { return h.plan.AbsoluteTimelock() }
func (h planHolder) relativeTimelock() (RelativeLockTime, bool) { return h.plan.RelativeTimelock() }
func (h planHolder) sequence() (uint32, bool) {
	rtl, ok := h.plan.RelativeTimelock()
	if !ok {
		return 0, false
	}
	return rtl.ToSequence(), true
}
func (h planHolder) satisfactionWeight() int64 { return h.plan.SatisfactionWeight() }
func (h planHolder) isSegwit() bool {
	_, ok := h.plan.WitnessVersion()
	return ok
}
func (h planHolder) asPlan() (Plan, bool)                       { return h.plan, true }
func (h planHolder) asForeignPSBTInput() (*psbt.PInput, bool)   { return nil, false }

// foreignHolder backs a foreign finalized input: a PSBT input already
// carrying final_script_sig/final_script_witness, treated as an opaque
// already-satisfied input.
type foreignHolder struct {
	psbtInput        *psbt.PInput
	seq              uint32
	absLock          LockTime
	hasAbsLock       bool
	satWeight        int64
	segwit           bool
}

func (h foreignHolder) absoluteTimelock() (LockTime, bool) { return h.absLock, h.hasAbsLock }
func (h foreignHolder) relativeTimelock() (RelativeLockTime, bool) {
	return SequenceToRelativeLockTime(h.seq)
}
func (h foreignHolder) sequence() (uint32, bool)                { return h.seq, true }
func (h foreignHolder) satisfactionWeight() int64               { return h.satWeight }
func (h foreignHolder) isSegwit() bool                          { return h.segwit }
func (h foreignHolder) asPlan() (Plan, bool)                    { return nil, false }
func (h foreignHolder) asForeignPSBTInput() (*psbt.PInput, bool) { return h.psbtInput, true }

// Input is one candidate previous output, together with the metadata
// needed to select it, weigh it, and later turn it into a PSBT input.
type Input struct {
	outpoint   wire.OutPoint
	prevTxout  wire.TxOut
	prevTx     *wire.MsgTx // shared; many Inputs may point at the same tx
	source     planSource
	status     *ConfirmationStatus
	isCoinbase bool
}

// NewFromPrevTx builds an Input backed by a Plan, given the full previous
// transaction (required for legacy inputs, strongly recommended for segwit
// v0). prevTx is shared by reference across every Input constructed from
// it; callers should not mutate it afterwards.
func NewFromPrevTx(plan Plan, prevTx *wire.MsgTx, outputIndex uint32, status *ConfirmationStatus) (Input, bool) {
	if int(outputIndex) >= len(prevTx.TxOut) {
		return Input{}, false
	}
	txHash := prevTx.TxHash()
	return Input{
		outpoint:   wire.OutPoint{Hash: txHash, Index: outputIndex},
		prevTxout:  *prevTx.TxOut[outputIndex],
		prevTx:     prevTx,
		source:     planHolder{plan: plan},
		status:     status,
		isCoinbase: isCoinbaseTx(prevTx),
	}, true
}

// NewFromPrevTxOut builds an Input backed by a Plan when only the previous
// output (not the full transaction) is known. Legacy and mandated-full-tx
// segwit-v0 inputs built this way will fail PSBT assembly.
func NewFromPrevTxOut(plan Plan, outpoint wire.OutPoint, prevTxout wire.TxOut, status *ConfirmationStatus, isCoinbase bool) Input {
	return Input{
		outpoint:   outpoint,
		prevTxout:  prevTxout,
		source:     planHolder{plan: plan},
		status:     status,
		isCoinbase: isCoinbase,
	}
}

// NewForeignFinalized builds an Input for an externally-supplied, already
// finalized PSBT input: an opaque already-satisfied input with no Plan.
func NewForeignFinalized(outpoint wire.OutPoint, prevTxout wire.TxOut, prevTx *wire.MsgTx, sequence uint32,
	psbtInput *psbt.PInput, satisfactionWeight int64, status *ConfirmationStatus, isCoinbase bool) Input {

	segwit := psbtInput.FinalScriptWitness != nil
	var absLock LockTime
	hasAbsLock := false

	return Input{
		outpoint:  outpoint,
		prevTxout: prevTxout,
		prevTx:    prevTx,
		source: foreignHolder{
			psbtInput:  psbtInput,
			seq:        sequence,
			absLock:    absLock,
			hasAbsLock: hasAbsLock,
			satWeight:  satisfactionWeight,
			segwit:     segwit,
		},
		status:     status,
		isCoinbase: isCoinbase,
	}
}

func isCoinbaseTx(tx *wire.MsgTx) bool {
	if len(tx.TxIn) != 1 {
		return false
	}
	prevOut := &tx.TxIn[0].PreviousOutPoint
	return prevOut.Index == wire.MaxPrevOutIndex && prevOut.Hash == (wire.OutPoint{}).Hash
}

// PrevOutpoint is the previous output this Input spends.
func (in Input) PrevOutpoint() wire.OutPoint { return in.outpoint }

// PrevTxOut is the previous output's value and script_pubkey.
func (in Input) PrevTxOut() wire.TxOut { return in.prevTxout }

// PrevTx is the full previous transaction, if known.
func (in Input) PrevTx() *wire.MsgTx { return in.prevTx }

// Status is the confirmation status, if the input is confirmed.
func (in Input) Status() *ConfirmationStatus { return in.status }

// IsCoinbase reports whether the previous output resides in a coinbase tx.
func (in Input) IsCoinbase() bool { return in.isCoinbase }

// Plan returns the backing Plan, or ok=false for a foreign finalized input.
func (in Input) Plan() (Plan, bool) { return in.source.asPlan() }

// ForeignPSBTInput returns the backing finalized PSBT input, or ok=false
// for a Plan-backed input.
func (in Input) ForeignPSBTInput() (*psbt.PInput, bool) { return in.source.asForeignPSBTInput() }

// AbsoluteTimelock is the absolute locktime this input's satisfaction
// commits the spending tx to, if any.
func (in Input) AbsoluteTimelock() (LockTime, bool) { return in.source.absoluteTimelock() }

// RelativeTimelock is the relative locktime this input's satisfaction
// commits the spending tx's sequence to, if any.
func (in Input) RelativeTimelock() (RelativeLockTime, bool) { return in.source.relativeTimelock() }

// Sequence is the sequence value to use in the spending transaction's
// input, if the plan determines one.
func (in Input) Sequence() (uint32, bool) { return in.source.sequence() }

// SatisfactionWeight is the weight, in witness units, of satisfying this
// input (signatures, witness stack, or final scriptSig).
func (in Input) SatisfactionWeight() int64 { return in.source.satisfactionWeight() }

// IsSegwit reports whether this input is a segwit (v0 or v1) spend.
func (in Input) IsSegwit() bool { return in.source.isSegwit() }

// Weight is the total weight, in witness units, this input contributes to
// a transaction: the fixed txin base fields plus satisfaction weight.
func (in Input) Weight() int64 {
	return txinBaseWeight + in.source.satisfactionWeight()
}

// IsImmature reports whether this is a coinbase output that cannot yet be
// spent in the next block, i.e. confirmations (tipHeight+1-confirmHeight)
// are fewer than the 100-block coinbase maturity window.
func (in Input) IsImmature(tipHeight uint32) bool {
	if !in.isCoinbase {
		return false
	}
	if in.status == nil {
		// Coinbase inputs must carry a ConfirmationStatus; treat as
		// immature defensively since this should never happen by
		// construction.
		return true
	}
	age := saturatingSub(tipHeight, in.status.Height)
	return age+1 < coinbaseMaturity
}

// IsTimelocked reports whether this input's absolute or relative timelock
// is not yet satisfied at the given tip.
func (in Input) IsTimelocked(tipHeight uint32, tipMTP uint32) bool {
	spendingHeight := tipHeight + 1
	if lock, ok := in.AbsoluteTimelock(); ok {
		if !lock.IsSatisfiedBy(spendingHeight, tipMTP) {
			return true
		}
	}
	if lock, ok := in.RelativeTimelock(); ok {
		var relHeight, relTimeUnits uint32
		if in.status != nil {
			relHeight = saturatingSub(spendingHeight, in.status.Height)
			relTimeUnits = saturatingSub(tipMTP, in.status.Time) / sequenceLockTimeGranularity
		}
		if !lock.IsSatisfiedBy(relHeight, relTimeUnits) {
			return true
		}
	}
	return false
}

// IsSpendableNow reports whether this input can be included in a
// transaction confirmed at the next block, accounting for coinbase
// maturity and timelocks. If the plan declares a relative timelock but no
// ConfirmationStatus is known, this always returns false (maturity cannot
// be computed).
func (in Input) IsSpendableNow(tipHeight uint32, tipMTP uint32) bool {
	if _, ok := in.RelativeTimelock(); ok && in.status == nil {
		return false
	}
	return !in.IsImmature(tipHeight) && !in.IsTimelocked(tipHeight, tipMTP)
}

func saturatingSub(a, b uint32) uint32 {
	if a < b {
		return 0
	}
	return a - b
}
