package cpfp

import (
	"fmt"

	"github.com/satoshikit/txcore/txerr"
)

func invalidFeeCalculation() error {
	return txerr.New(txerr.InvalidFeeCalculation, "required package fee is below the parent package's existing fee")
}

func outputBelowDustLimit() error {
	return txerr.New(txerr.OutputBelowDustLimit, "cpfp child output value is below the dust limit")
}

func insufficientInputValue(needed, available int64) error {
	return &txerr.Error{
		Kind:      txerr.InsufficientInputValue,
		Msg:       fmt.Sprintf("needed %d sat, available %d sat", needed, available),
		Needed:    needed,
		Available: available,
	}
}

func insufficientPackageFeerate() error {
	return txerr.New(txerr.InsufficientPackageFeerate, "resulting package feerate is below the target")
}

func noSpendableOutputs() error {
	return txerr.New(txerr.NoSpendableOutputs, "cpfp requires at least one input to spend")
}
