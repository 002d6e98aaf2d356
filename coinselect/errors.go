package coinselect

import "github.com/satoshikit/txcore/txerr"

func insufficientFunds(needed, available int64) error {
	return txerr.Insufficient(needed, available)
}

func cannotMeetTarget() error {
	return txerr.New(txerr.CannotMeetTarget, "sum of available candidate value is below target")
}

func replacementFeeTooLow(actualFee, minFee int64) error {
	return &txerr.Error{
		Kind:      txerr.ReplacementFeeTooLow,
		Msg:       "replacement fee does not exceed the summed fee of the originals it replaces",
		Needed:    minFee,
		Available: actualFee,
	}
}
