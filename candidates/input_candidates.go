// Package candidates turns selectable Inputs into the regrouped,
// filtered pool the coin selector consumes.
package candidates

import (
	"encoding/hex"

	"github.com/satoshikit/txcore/coininput"
)

// InputCandidates holds the inputs a selection run may draw from: an
// optional must-select group (every input in it is forced into the final
// Selection, used to guarantee RBF conflicts) and a pool of optional groups
// the selector is free to choose among.
type InputCandidates struct {
	mustSelect *coininput.InputGroup
	canSelect  []coininput.InputGroup
}

// New builds an InputCandidates from an optional must-select group (nil if
// there is none) and the pool of optional groups.
func New(mustSelect *coininput.InputGroup, canSelect []coininput.InputGroup) InputCandidates {
	cp := make([]coininput.InputGroup, len(canSelect))
	copy(cp, canSelect)
	return InputCandidates{mustSelect: mustSelect, canSelect: cp}
}

// MustSelect returns the must-select group, if any.
func (ic InputCandidates) MustSelect() (coininput.InputGroup, bool) {
	if ic.mustSelect == nil {
		return coininput.InputGroup{}, false
	}
	return *ic.mustSelect, true
}

// CanSelect returns the pool of optional groups.
func (ic InputCandidates) CanSelect() []coininput.InputGroup {
	return ic.canSelect
}

// Filter retains only optional groups satisfying pred. The must-select
// group, when present, is never filtered out — it is mandatory by
// definition.
func (ic InputCandidates) Filter(pred func(coininput.InputGroup) bool) InputCandidates {
	kept := make([]coininput.InputGroup, 0, len(ic.canSelect))
	for _, g := range ic.canSelect {
		if pred(g) {
			kept = append(kept, g)
		}
	}
	return InputCandidates{mustSelect: ic.mustSelect, canSelect: kept}
}

// FilterUnspendableNow builds a Filter predicate dropping any group with an
// input that is either an immature coinbase or still timelocked at
// spending_height := tip_height + 1 against the chain's current
// median-time-past.
func FilterUnspendableNow(tipHeight, tipMTP uint32) func(coininput.InputGroup) bool {
	return func(g coininput.InputGroup) bool {
		return g.IsSpendableNow(tipHeight, tipMTP)
	}
}

// GroupBySPK is the default Regroup key function: inputs sharing a
// script_pubkey are grouped together, biasing selection toward spending
// co-located UTXOs atomically to reduce address-linkage leakage.
func GroupBySPK(in coininput.Input) string {
	return hex.EncodeToString(in.PrevTxOut().PkScript)
}

// Regroup repartitions the optional candidate pool into new groups keyed by
// groupKeyFn, then applies filterPolicy to the result. Pass GroupBySPK for
// the default grouping bdk's wallet-extension layer falls back to when the
// caller supplies no key function. Regroup only touches the optional pool:
// a must-select group, if already established (typically by an RBF flow
// run after regrouping), is carried through untouched since splitting or
// merging mandatory inputs would undermine the guarantee that RBF conflict
// requires.
func Regroup[K comparable](ic InputCandidates, groupKeyFn func(coininput.Input) K, filterPolicy func(coininput.InputGroup) bool) InputCandidates {
	groups := make(map[K]*coininput.InputGroup)
	order := make([]K, 0)
	addInput := func(in coininput.Input) {
		key := groupKeyFn(in)
		g, ok := groups[key]
		if !ok {
			newGroup := coininput.NewInputGroup(in)
			groups[key] = &newGroup
			order = append(order, key)
			return
		}
		g.Push(in)
	}

	for _, g := range ic.canSelect {
		for _, in := range g.Inputs() {
			addInput(in)
		}
	}

	can := make([]coininput.InputGroup, 0, len(order))
	for _, key := range order {
		g := *groups[key]
		if filterPolicy(g) {
			can = append(can, g)
		}
	}
	return InputCandidates{mustSelect: ic.mustSelect, canSelect: can}
}
