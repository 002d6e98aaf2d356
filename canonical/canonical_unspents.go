// Package canonical indexes a consistent, mempool-aware view of
// transactions and their spends, answering "is this outpoint unspent?" and
// carving out replacement sets for RBF.
package canonical

import (
	"github.com/btcsuite/btcd/btcutil/psbt"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"

	"github.com/satoshikit/txcore/coininput"
	"github.com/satoshikit/txcore/rbf"
)

// TxWithStatus pairs a transaction with its confirmation status, or nil for
// an unconfirmed (mempool) transaction.
type TxWithStatus struct {
	Tx     *wire.MsgTx
	Status *coininput.ConfirmationStatus
}

// Unspents is our canonical view of unspent outputs, derived from a finite
// sequence of (tx, status) pairs assumed to be a consistent canonical set
// (no double-spends within the set).
type Unspents struct {
	txs      map[chainhash.Hash]*wire.MsgTx
	statuses map[chainhash.Hash]coininput.ConfirmationStatus
	spends   map[wire.OutPoint]chainhash.Hash
}

// New constructs a canonical unspent view from the given (tx, status)
// pairs. Runs in O(total outputs + inputs). Duplicate txids are resolved
// last-write-wins; the caller is expected to pass a consistent set.
func New(canonicalTxs []TxWithStatus) *Unspents {
	u := &Unspents{
		txs:      make(map[chainhash.Hash]*wire.MsgTx, len(canonicalTxs)),
		statuses: make(map[chainhash.Hash]coininput.ConfirmationStatus),
		spends:   make(map[wire.OutPoint]chainhash.Hash),
	}
	for _, entry := range canonicalTxs {
		txid := entry.Tx.TxHash()
		for _, txin := range entry.Tx.TxIn {
			u.spends[txin.PreviousOutPoint] = txid
		}
		u.txs[txid] = entry.Tx
		if entry.Status != nil {
			u.statuses[txid] = *entry.Status
		} else {
			delete(u.statuses, txid)
		}
	}
	return u
}

// IsUnspent reports whether outpoint refers to an existing output of a
// known tx and is not spent by any tx in this canonical set.
func (u *Unspents) IsUnspent(outpoint wire.OutPoint) bool {
	if _, spent := u.spends[outpoint]; spent {
		return false
	}
	tx, ok := u.txs[outpoint.Hash]
	if !ok {
		return false
	}
	return int(outpoint.Index) < len(tx.TxOut)
}

// TryGetUnspent looks up outpoint and, if it is unspent, builds an Input
// for it using the supplied plan. Returns ok=false if the outpoint is spent
// or unknown.
func (u *Unspents) TryGetUnspent(outpoint wire.OutPoint, plan coininput.Plan) (coininput.Input, bool) {
	if _, spent := u.spends[outpoint]; spent {
		return coininput.Input{}, false
	}
	prevTx, ok := u.txs[outpoint.Hash]
	if !ok {
		return coininput.Input{}, false
	}
	var status *coininput.ConfirmationStatus
	if s, ok := u.statuses[outpoint.Hash]; ok {
		status = &s
	}
	in, ok := coininput.NewFromPrevTx(plan, prevTx, outpoint.Index, status)
	if !ok {
		return coininput.Input{}, false
	}
	return in, true
}

// TryGetForeignUnspent looks up outpoint for an externally supplied,
// already-finalized PSBT input.
func (u *Unspents) TryGetForeignUnspent(outpoint wire.OutPoint, sequence uint32,
	psbtInput *psbt.PInput, satisfactionWeight int64) (coininput.Input, bool) {

	if _, spent := u.spends[outpoint]; spent {
		return coininput.Input{}, false
	}
	prevTx, ok := u.txs[outpoint.Hash]
	if !ok {
		return coininput.Input{}, false
	}
	if int(outpoint.Index) >= len(prevTx.TxOut) {
		return coininput.Input{}, false
	}
	var status *coininput.ConfirmationStatus
	if s, ok := u.statuses[outpoint.Hash]; ok {
		status = &s
	}
	isCoinbase := len(prevTx.TxIn) == 1 && prevTx.TxIn[0].PreviousOutPoint.Index == wire.MaxPrevOutIndex
	in := coininput.NewForeignFinalized(outpoint, *prevTx.TxOut[outpoint.Index], prevTx, sequence,
		psbtInput, satisfactionWeight, status, isCoinbase)
	return in, true
}

// ExtractReplacements atomically carves out an RbfSet for the given txids:
// it verifies every txid is present, computes transitive descendants,
// prunes originals that are themselves descendants of other originals
// (keeping only maximal elements of the replacement DAG), collects prevouts
// of the remaining originals, and removes the originals and their
// descendants from this Unspents so that subsequent TryGetUnspent calls
// return their prevouts as spendable.
func (u *Unspents) ExtractReplacements(txids []chainhash.Hash) (*rbf.Set, error) {
	rbfTxs := make(map[chainhash.Hash]*wire.MsgTx, len(txids))
	for _, txid := range txids {
		tx, ok := u.txs[txid]
		if !ok {
			return nil, txNotCanonical(txid)
		}
		rbfTxs[txid] = tx
	}
	for _, tx := range rbfTxs {
		if isCoinbaseTx(tx) {
			return nil, replaceCoinbase(tx.TxHash())
		}
	}

	// Walk every transitive descendant of the replacement set (any tx in
	// the canonical view spending an output of one we're about to remove,
	// regardless of whether it is itself one of the originals), so none
	// of them survive in the canonical view. Descendants that happen to
	// also be originals prune non-maximal elements of the replacement DAG.
	toRemove := make(map[chainhash.Hash]bool)
	stack := make([]chainhash.Hash, 0, len(rbfTxs))
	for txid := range rbfTxs {
		stack = append(stack, txid)
	}
	for len(stack) > 0 {
		txid := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if toRemove[txid] {
			continue
		}
		tx, ok := u.txs[txid]
		if !ok {
			continue
		}
		for vout := 0; vout < len(tx.TxOut); vout++ {
			op := wire.OutPoint{Hash: txid, Index: uint32(vout)}
			nextTxid, spent := u.spends[op]
			if !spent {
				continue
			}
			if _, known := u.txs[nextTxid]; !known {
				continue
			}
			if !toRemove[nextTxid] {
				log.Tracef("pruning %s as a descendant of replaced tx %s", nextTxid, txid)
				toRemove[nextTxid] = true
				stack = append(stack, nextTxid)
			}
		}
	}
	if len(toRemove) > 0 {
		log.Debugf("extract_replacements: pruning %d descendant(s) of %d original tx(es)",
			len(toRemove), len(rbfTxs))
	}
	for txid := range toRemove {
		delete(rbfTxs, txid)
	}

	// Collect prevouts of all txs remaining in the set.
	prevTxouts := make(map[wire.OutPoint]wire.TxOut)
	for _, tx := range rbfTxs {
		for _, txin := range tx.TxIn {
			op := txin.PreviousOutPoint
			prevTx, ok := u.txs[op.Hash]
			if !ok || int(op.Index) >= len(prevTx.TxOut) {
				return nil, txNotCanonical(op.Hash)
			}
			prevTxouts[op] = *prevTx.TxOut[op.Index]
		}
	}

	set, err := rbf.New(valuesOf(rbfTxs), prevTxouts)
	if err != nil {
		return nil, err
	}

	// Remove rbf txs (and their descendants) from canonical unspents.
	for txid := range rbfTxs {
		u.removeTx(txid)
	}
	for txid := range toRemove {
		u.removeTx(txid)
	}

	return set, nil
}

func (u *Unspents) removeTx(txid chainhash.Hash) {
	tx, ok := u.txs[txid]
	if !ok {
		return
	}
	delete(u.txs, txid)
	delete(u.statuses, txid)
	for _, txin := range tx.TxIn {
		delete(u.spends, txin.PreviousOutPoint)
	}
}

func valuesOf(m map[chainhash.Hash]*wire.MsgTx) []*wire.MsgTx {
	out := make([]*wire.MsgTx, 0, len(m))
	for _, tx := range m {
		out = append(out, tx)
	}
	return out
}

func isCoinbaseTx(tx *wire.MsgTx) bool {
	if len(tx.TxIn) != 1 {
		return false
	}
	prevOut := &tx.TxIn[0].PreviousOutPoint
	return prevOut.Index == wire.MaxPrevOutIndex && prevOut.Hash == (wire.OutPoint{}).Hash
}
