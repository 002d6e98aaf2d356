// Package psbtassembler turns a Selection into an unsigned PSBT, handling
// locktime/sequence reconciliation, witness/non-witness UTXO population,
// and the anti-fee-sniping locktime/sequence policy.
package psbtassembler

import (
	"github.com/btcsuite/btcd/wire"

	"github.com/satoshikit/txcore/coininput"
)

// fallbackSequence is rust-bitcoin's Sequence::ENABLE_RBF_NO_LOCKTIME: it
// signals BIP-125 opt-in replaceability (value < 0xfffffffe) while
// disabling this input's own BIP-68 relative locktime (bit 31 set).
const fallbackSequence uint32 = wire.MaxTxInSequenceNum - 2

// Params configures PSBT assembly.
type Params struct {
	// Version is the transaction version to use, default 2.
	Version int32

	// FallbackLocktime is used when no input declares an absolute
	// timelock.
	FallbackLocktime coininput.LockTime

	// FallbackSequence is used for inputs whose plan declares no relative
	// timelock.
	FallbackSequence uint32

	// MandateFullTxForSegwitV0 requires non_witness_utxo even for segwit
	// v0 inputs, default true (defends against the fee-lying attack on
	// unupgraded PSBT signers).
	MandateFullTxForSegwitV0 bool

	// AntiFeeSniping configures the optional locktime/sequence
	// discouragement policy; nil disables it.
	AntiFeeSniping *AntiFeeSnipingParams
}

// DefaultParams returns the spec's default assembly parameters.
func DefaultParams() Params {
	return Params{
		Version:                  2,
		FallbackLocktime:         coininput.NewHeightLockTime(0),
		FallbackSequence:         fallbackSequence,
		MandateFullTxForSegwitV0: true,
	}
}
