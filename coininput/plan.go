package coininput

import (
	"github.com/btcsuite/btcd/btcutil/psbt"
	"github.com/btcsuite/btcd/wire"
)

// WitnessVersion tags the spend type of a previous output, mirroring
// BIP141's witness program versions.
type WitnessVersion int

const (
	// WitnessNone marks a legacy (non-segwit) previous output.
	WitnessNone WitnessVersion = -1
	// WitnessV0 marks a segwit v0 (P2WPKH/P2WSH, or P2SH-wrapped) output.
	WitnessV0 WitnessVersion = 0
	// WitnessV1 marks a taproot output.
	WitnessV1 WitnessVersion = 1
)

// PSBTInputSatisfier is the narrow view into a PSBT input that a Plan's
// Satisfy method consumes to pull signatures, preimages, and key origin
// data already deposited by an external signer. It intentionally exposes
// nothing beyond what a miniscript-style satisfier needs, keeping
// miniscript internals out of the selector and assembler per the plan
// contract in spec.md's design notes.
type PSBTInputSatisfier interface {
	// PInput is the PSBT input record to read signature/preimage/key
	// material from.
	PInput() *psbt.PInput
	// UnsignedTxIn is the corresponding unsigned transaction input (for
	// outpoint/sequence context during satisfaction).
	UnsignedTxIn() *wire.TxIn
}

// Plan is a precomputed spending recipe for one input, derived externally
// from a miniscript descriptor and the wallet's known assets (keys,
// preimages, timelocks). It is the sole contract through which this module
// talks to descriptor/miniscript machinery; the coin selector and PSBT
// assembler never see anything beyond this interface.
type Plan interface {
	// WitnessVersion reports the spend type, or ok=false for legacy
	// (pre-segwit) spends whose witness version concept doesn't apply.
	WitnessVersion() (version WitnessVersion, ok bool)

	// AbsoluteTimelock reports the locktime this input's satisfaction
	// commits the spending transaction to, if any.
	AbsoluteTimelock() (lock LockTime, ok bool)

	// RelativeTimelock reports the relative locktime (BIP68) this input's
	// satisfaction commits the spending transaction's sequence field to,
	// if any.
	RelativeTimelock() (lock RelativeLockTime, ok bool)

	// SatisfactionWeight is the weight, in witness units, of the
	// signature/witness data this plan will produce once satisfied.
	SatisfactionWeight() int64

	// UpdatePSBTInput populates PSBT input fields derivable ahead of
	// signing: BIP32 derivations, taproot key origins/scripts, and
	// redeem/witness scripts.
	UpdatePSBTInput(in *psbt.PInput)

	// Satisfy drives this plan's miniscript-equivalent satisfier against
	// the signed PSBT input, producing the witness stack (low to high,
	// as pushed) and legacy scriptSig bytes needed to spend the input.
	Satisfy(sat PSBTInputSatisfier) (witnessStack [][]byte, scriptSig []byte, err error)
}
