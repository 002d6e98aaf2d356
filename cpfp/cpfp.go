// Package cpfp builds a child transaction that bumps an unconfirmed
// package's feerate by spending its own outputs (child-pays-for-parent).
package cpfp

import (
	"github.com/satoshikit/txcore/coininput"
	"github.com/satoshikit/txcore/internal/dustrule"
	"github.com/satoshikit/txcore/internal/feemath"
	"github.com/satoshikit/txcore/selection"
)

// Package summarizes the unconfirmed parent package this child must bump.
type Package struct {
	// FeeSat is the sum of every parent transaction's fee.
	FeeSat int64
	// WeightWU is the sum of every parent transaction's weight.
	WeightWU int64
}

// Params configures a CPFP child.
type Params struct {
	Package Package

	// Inputs are the parent outputs to spend; the caller curates which
	// ones to include, there is no selection choice here.
	Inputs []coininput.Input

	// TargetPackageFeerate is the feerate the combined parent+child
	// package must reach.
	TargetPackageFeerate feemath.FeeRate

	// ChangeScript receives the sole child output.
	ChangeScript selection.ChangeScript

	// DustRelayFeerate overrides the default dust-relay feerate used to
	// check the child's output; zero means default.
	DustRelayFeerate int64
}

func inputsValue(inputs []coininput.Input) int64 {
	var total int64
	for _, in := range inputs {
		total += in.PrevTxOut().Value
	}
	return total
}

func inputsWeight(inputs []coininput.Input) int64 {
	var total int64
	for _, in := range inputs {
		total += in.Weight()
	}
	return total
}

// childOutputWeight is the weight, in WU, of a single P2TR/P2WSH-shaped
// output: 8 (value) + 1 (script length varint) + scriptLen, non-witness
// fields counted at 4 WU/byte.
func childOutputWeight(scriptLen int) int64 {
	return int64(8+1+scriptLen) * 4
}

// Build assembles the CPFP child Selection: every input in params.Inputs,
// spent entirely into a single change output sized to pay exactly the fee
// bump the package needs.
func Build(params Params) (*selection.Selection, error) {
	if len(params.Inputs) == 0 {
		return nil, noSpendableOutputs()
	}

	childWeight := feemath.BaseTxWeight +
		inputsWeight(params.Inputs) +
		childOutputWeight(len(params.ChangeScript.ScriptPubkey()))

	packageWeight := params.Package.WeightWU + childWeight
	requiredPackageFee := params.TargetPackageFeerate.FeeForWeight(packageWeight)

	childFee := requiredPackageFee - params.Package.FeeSat
	if childFee < 0 {
		return nil, invalidFeeCalculation()
	}

	totalInputValue := inputsValue(params.Inputs)
	outputValue := totalInputValue - childFee
	if outputValue < 0 {
		return nil, insufficientInputValue(childFee, totalInputValue)
	}

	floor := dustrule.MinimalNonDust(len(params.ChangeScript.ScriptPubkey()), params.DustRelayFeerate)
	if outputValue < floor {
		return nil, outputBelowDustLimit()
	}

	actualPackageFee := params.Package.FeeSat + childFee
	actualPackageFeerate := feemath.FeeRate(actualPackageFee * 1000 / packageWeight)
	if actualPackageFeerate < params.TargetPackageFeerate {
		return nil, insufficientPackageFeerate()
	}

	inputs := make([]coininput.Input, len(params.Inputs))
	copy(inputs, params.Inputs)

	return &selection.Selection{
		Inputs: inputs,
		Outputs: []selection.Output{
			{Value: outputValue, Source: params.ChangeScript},
		},
	}, nil
}
