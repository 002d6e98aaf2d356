package psbtassembler

import (
	"github.com/btcsuite/btcd/wire"

	"github.com/satoshikit/txcore/coininput"
	"github.com/satoshikit/txcore/selection"
)

// RNG is the randomness surface anti-fee-sniping consumes: a coin flip and
// a uniform offset draw, both derived from a single 64-bit source.
type RNG interface {
	Uint64() uint64
}

// AntiFeeSnipingParams configures the optional locktime/sequence
// discouragement policy applied after locktime reconciliation.
type AntiFeeSnipingParams struct {
	// TipHeight is the current chain tip height.
	TipHeight uint32
	RNG       RNG
}

const (
	// maxTaprootConfirmationsForSequencePath bounds how stale a taproot
	// input's confirmation count can be before it is no longer eligible
	// for the sequence-based discouragement path.
	maxTaprootConfirmationsForSequencePath = 65535
	offsetDrawRange                        = 100 // offsets drawn uniformly from [0, 99]
)

func coinFlip(rng RNG) bool { return rng.Uint64()%2 == 0 }

func drawOffset(rng RNG) uint32 { return uint32(rng.Uint64() % offsetDrawRange) }

// oneInTen reports true with probability 1/10.
func oneInTen(rng RNG) bool { return rng.Uint64()%10 == 0 }

func confirmationsOf(in coininput.Input, tipHeight uint32) (confs uint32, confirmed bool) {
	status := in.Status()
	if status == nil {
		return 0, false
	}
	if status.Height == 0 || status.Height > tipHeight {
		return 0, false
	}
	return tipHeight - status.Height + 1, true
}

func mustUseLocktime(sel selection.Selection, params Params, tipHeight uint32) bool {
	rbfEnabled := false
	for _, in := range sel.Inputs {
		if sequenceFor(in, params, nil) < wire.MaxTxInSequenceNum-1 {
			rbfEnabled = true
			break
		}
	}
	if !rbfEnabled {
		return true
	}

	var taprootIndices []int
	for i, in := range sel.Inputs {
		plan, ok := in.Plan()
		if !ok {
			return true // foreign/finalized inputs are not taproot plans
		}
		if v, ok := plan.WitnessVersion(); ok && v == coininput.WitnessV1 {
			taprootIndices = append(taprootIndices, i)
		}
	}
	if len(taprootIndices) == 0 {
		return true
	}

	for _, in := range sel.Inputs {
		plan, ok := in.Plan()
		if !ok {
			return true
		}
		if v, ok := plan.WitnessVersion(); !ok || v != coininput.WitnessV1 {
			return true
		}
		if _, confirmed := confirmationsOf(in, tipHeight); !confirmed {
			return true
		}
		confs, _ := confirmationsOf(in, tipHeight)
		if confs > maxTaprootConfirmationsForSequencePath {
			return true
		}
	}

	return false
}

// applyAntiFeeSniping decides the final locktime and, for the
// sequence-based path, a per-outpoint sequence override map to layer on
// top of the plan-derived sequences. It supersedes the locktime step 1
// reconciled, per spec: anti-fee-sniping is applied after reconciliation
// and its locktime decision always wins.
func applyAntiFeeSniping(sel selection.Selection, params Params) (coininput.LockTime, map[wire.OutPoint]uint32) {
	afs := params.AntiFeeSniping
	mustLocktime := mustUseLocktime(sel, params, afs.TipHeight)
	useLocktime := mustLocktime || coinFlip(afs.RNG)
	log.Tracef("anti-fee-sniping coin flip: mustUseLocktime=%v useLocktime=%v", mustLocktime, useLocktime)

	if useLocktime {
		height := afs.TipHeight
		if oneInTen(afs.RNG) {
			offset := drawOffset(afs.RNG)
			log.Tracef("anti-fee-sniping backdating locktime by %d from tip %d", offset, height)
			if offset > height {
				height = 0
			} else {
				height -= offset
			}
		}
		return coininput.NewHeightLockTime(height), nil
	}

	var taprootOutpoints []wire.OutPoint
	for _, in := range sel.Inputs {
		plan, ok := in.Plan()
		if !ok {
			continue
		}
		if v, ok := plan.WitnessVersion(); ok && v == coininput.WitnessV1 {
			taprootOutpoints = append(taprootOutpoints, in.PrevOutpoint())
		}
	}
	chosen := taprootOutpoints[afs.RNG.Uint64()%uint64(len(taprootOutpoints))]
	log.Tracef("anti-fee-sniping sequence path: chose outpoint %s among %d taproot candidates",
		chosen, len(taprootOutpoints))

	var chosenConfs uint32
	for _, in := range sel.Inputs {
		if in.PrevOutpoint() == chosen {
			chosenConfs, _ = confirmationsOf(in, afs.TipHeight)
			break
		}
	}

	seq := chosenConfs
	if oneInTen(afs.RNG) {
		offset := drawOffset(afs.RNG)
		log.Tracef("anti-fee-sniping backdating sequence by %d from %d confirmations", offset, seq)
		if offset >= seq {
			seq = 1
		} else {
			seq -= offset
		}
	}

	return coininput.NewHeightLockTime(0), map[wire.OutPoint]uint32{chosen: seq}
}
