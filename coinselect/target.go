package coinselect

import "github.com/satoshikit/txcore/internal/feemath"

// Replace carries the BIP-125 obligations a replacement selection must
// satisfy: its fee must exceed the summed fee of every original tx, and
// its feerate must clear the highest original feerate plus the
// incremental relay feerate.
type Replace struct {
	// Fee is the sum of every original transaction's fee.
	Fee int64
	// MaxFeerate is the highest feerate among the original transactions.
	MaxFeerate feemath.FeeRate
	// IncrementalRelayFeerate is the minimum feerate bump a replacement
	// must clear over MaxFeerate (BIP-125 rule 6), default 1 sat/vB.
	IncrementalRelayFeerate feemath.FeeRate
}

// TargetFee is the feerate a selection must reach, plus optional RBF
// obligations.
type TargetFee struct {
	Rate    feemath.FeeRate
	Replace *Replace
}

// EffectiveRate is the feerate the selection must actually reach: the
// larger of the requested rate and (for RBF) the replacement floor.
func (f TargetFee) EffectiveRate() feemath.FeeRate {
	if f.Replace == nil {
		return f.Rate
	}
	floor := f.Replace.MaxFeerate + f.Replace.IncrementalRelayFeerate
	if floor > f.Rate {
		return floor
	}
	return f.Rate
}

// TargetOutputs summarizes the recipient outputs a selection must fund:
// their total value and total weight.
type TargetOutputs struct {
	Value  int64
	Weight int64
}

// Target is what a coin selection run must satisfy.
type Target struct {
	Fee     TargetFee
	Outputs TargetOutputs
}

// AmountNeeded is the effective value the selector must accumulate: a
// selection is met once the sum of its candidates' effective values (each
// already netting out that candidate's own input fee) reaches the target
// outputs' value plus the fee, at EffectiveRate, for the outputs' weight
// and the base transaction weight. MinReplacementFee is checked
// separately, against the assembled Selection's actual absolute fee, to
// enforce BIP-125 rule 3/4.
func (t Target) AmountNeeded() int64 {
	overhead := t.Fee.EffectiveRate().FeeForWeight(feemath.BaseTxWeight + t.Outputs.Weight)
	return t.Outputs.Value + overhead
}

// MinReplacementFee is the minimum absolute fee an RBF replacement must
// pay, strictly exceeding the summed fee of every original transaction
// (BIP-125 rule 3/4). Zero when this Target carries no Replace.
func (t Target) MinReplacementFee() int64 {
	if t.Fee.Replace == nil {
		return 0
	}
	return t.Fee.Replace.Fee + 1
}
