package psbtassembler

import "github.com/satoshikit/txcore/txerr"

func lockTypeMismatch() error {
	return txerr.New(txerr.LockTypeMismatch, "absolute locktimes of selected inputs mix height and time units")
}

func missingFullTxForLegacyInput(outpoint string) error {
	return txerr.ForTx(txerr.MissingFullTxForLegacyInput, outpoint,
		"legacy input requires PSBT_IN_NON_WITNESS_UTXO")
}

func missingFullTxForSegwitV0Input(outpoint string) error {
	return txerr.ForTx(txerr.MissingFullTxForSegwitV0Input, outpoint,
		"segwit v0 input requires PSBT_IN_NON_WITNESS_UTXO")
}
