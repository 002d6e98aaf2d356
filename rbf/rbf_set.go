// Package rbf carves replaced transactions out of a canonical unspent view
// and derives the BIP-125 constraints a replacement transaction must honor.
package rbf

import (
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/wire"

	"github.com/satoshikit/txcore/coininput"
	"github.com/satoshikit/txcore/txerr"
)

// Set is the set of original transactions being replaced, together with
// the previous outputs every one of their inputs spends.
type Set struct {
	txByTxid   map[chainHashKey]*wire.MsgTx
	prevTxouts map[wire.OutPoint]wire.TxOut
}

// chainHashKey avoids importing chainhash just for a map key; wire.MsgTx's
// TxHash already returns chainhash.Hash, used directly as the key type.
type chainHashKey = [32]byte

// New builds an RbfSet from the original transactions and the previous
// outputs of every input they spend. Returns an error if any input's
// prevout is missing.
func New(txs []*wire.MsgTx, prevTxouts map[wire.OutPoint]wire.TxOut) (*Set, error) {
	s := &Set{
		txByTxid:   make(map[chainHashKey]*wire.MsgTx, len(txs)),
		prevTxouts: prevTxouts,
	}
	for _, tx := range txs {
		s.txByTxid[tx.TxHash()] = tx
	}
	for _, tx := range txs {
		for _, txin := range tx.TxIn {
			if _, ok := s.prevTxouts[txin.PreviousOutPoint]; !ok {
				return nil, txerr.New(txerr.MissingPrevTxout,
					"rbf: missing prevout for "+txin.PreviousOutPoint.String())
			}
		}
	}
	return s, nil
}

// Txids returns the txids of the original transactions being replaced, used
// to exclude them from canonicalization.
func (s *Set) Txids() []chainHashKey {
	ids := make([]chainHashKey, 0, len(s.txByTxid))
	for id := range s.txByTxid {
		ids = append(ids, id)
	}
	return ids
}

// CandidateFilter implements BIP-125 rule 2: a replacement may not spend a
// new unconfirmed input unless that input was already spent by one of the
// original transactions being replaced.
func (s *Set) CandidateFilter(tipHeight uint32) func(coininput.InputGroup) bool {
	prevSpends := make(map[wire.OutPoint]bool)
	for _, tx := range s.txByTxid {
		for _, txin := range tx.TxIn {
			prevSpends[txin.PreviousOutPoint] = true
		}
	}
	return func(group coininput.InputGroup) bool {
		keep := group.All(func(in coininput.Input) bool {
			if prevSpends[in.PrevOutpoint()] {
				return true
			}
			status := in.Status()
			return status != nil && status.Height <= tipHeight && status.Height > 0
		})
		if !keep {
			log.Tracef("rbf candidate filter pruning group %s: new unconfirmed input not spent by any original",
				group.Inputs()[0].PrevOutpoint())
		}
		return keep
	}
}

// MustSelectLargestInputPerTx returns a policy requiring the selector to
// include the largest not-itself-an-original-tx input of every original
// transaction, guaranteeing each original tx is actually replaced (BIP-125
// rule 1, approximated via "direct conflict"). contains reports whether an
// outpoint is present among the spendable candidates.
func (s *Set) MustSelectLargestInputPerTx(contains func(wire.OutPoint) bool) (map[wire.OutPoint]bool, error) {
	mustSelect := make(map[wire.OutPoint]bool, len(s.txByTxid))

	for txid, tx := range s.txByTxid {
		var largestValue int64
		var largestSpend wire.OutPoint
		found := false

		for _, txin := range tx.TxIn {
			spend := txin.PreviousOutPoint
			// Spends of another original tx in this set will be
			// replaced transitively by replacing the parent.
			if _, isOriginal := s.txByTxid[spend.Hash]; isOriginal {
				continue
			}
			txout, ok := s.prevTxouts[spend]
			if !ok {
				continue
			}
			if !contains(spend) {
				continue
			}
			if !found || txout.Value > largestValue {
				largestValue = txout.Value
				largestSpend = spend
				found = true
			}
		}

		if !found {
			return nil, txerr.ForTx(txerr.OriginalTxHasNoInputsAvailable,
				chainHashString(txid), "original tx has no input spend still available")
		}
		log.Debugf("original tx %s: direct conflict via largest input %s (%d sat)",
			chainHashString(txid), largestSpend, largestValue)
		mustSelect[largestSpend] = true
	}

	return mustSelect, nil
}

// OriginalTxStats summarizes one original tx's weight and fee, used to
// compute the minimum feerate (and minimum absolute fee, per rule 4/6) a
// replacement must beat.
type OriginalTxStats struct {
	WeightWU int64
	FeeSat   int64
}

// FeeratePerKWU returns the feerate of the original tx in sat/kWU.
func (s OriginalTxStats) FeeratePerKWU() int64 {
	if s.WeightWU == 0 {
		return 0
	}
	return s.FeeSat * 1000 / s.WeightWU
}

// Params are the BIP-125 derived constraints a replacement tx must satisfy,
// handed to the coin selector.
type Params struct {
	OriginalTxs             []OriginalTxStats
	IncrementalRelayFeerate btcutil.Amount // sat/kvB, default 1 sat/vB
}

// SelectorRbfParams computes the replacement fee obligations for the
// selector: the total fee of all original transactions (which the
// replacement's fee must exceed, rule 3/4) and their individual weight/fee
// for feerate comparisons (rule 6).
func (s *Set) SelectorRbfParams() Params {
	stats := make([]OriginalTxStats, 0, len(s.txByTxid))
	for _, tx := range s.txByTxid {
		stats = append(stats, OriginalTxStats{
			// TODO: use the witness-discounted weight (baseSize*3 +
			// totalSize) once original txs carry parsed witness data;
			// SerializeSize*4 overstates weight for segwit originals.
			WeightWU: int64(tx.SerializeSize()) * 4,
			FeeSat:   s.fee(tx),
		})
	}
	return Params{
		OriginalTxs:             stats,
		IncrementalRelayFeerate: 1000, // 1 sat/vB in sat/kvB
	}
}

func (s *Set) fee(tx *wire.MsgTx) int64 {
	var outputSum int64
	for _, txout := range tx.TxOut {
		outputSum += txout.Value
	}
	var inputSum int64
	for _, txin := range tx.TxIn {
		inputSum += s.prevTxouts[txin.PreviousOutPoint].Value
	}
	return inputSum - outputSum
}

func chainHashString(h chainHashKey) string {
	const hexdigits = "0123456789abcdef"
	var buf [64]byte
	for i := 0; i < 32; i++ {
		b := h[31-i]
		buf[i*2] = hexdigits[b>>4]
		buf[i*2+1] = hexdigits[b&0xf]
	}
	return string(buf[:])
}
