package canonical

import (
	"github.com/btcsuite/btcd/chaincfg/chainhash"

	"github.com/satoshikit/txcore/txerr"
)

func txNotCanonical(txid chainhash.Hash) *txerr.Error {
	return txerr.ForTx(txerr.TxNotCanonical, txid.String(), "tx is not part of the canonical set")
}

func replaceCoinbase(txid chainhash.Hash) *txerr.Error {
	return txerr.ForTx(txerr.ReplaceCoinbase, txid.String(), "cannot replace a coinbase transaction")
}
