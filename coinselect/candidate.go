// Package coinselect implements the branch-and-bound coin selector and its
// fallbacks over effective values and the waste metric.
package coinselect

import (
	"github.com/satoshikit/txcore/coininput"
	"github.com/satoshikit/txcore/internal/feemath"
)

// Candidate is one InputGroup as seen by the selector: its total value and
// weight, ready for effective-value arithmetic.
type Candidate struct {
	Group  coininput.InputGroup
	Value  int64
	Weight int64
}

// NewCandidate wraps an InputGroup as a selection Candidate.
func NewCandidate(g coininput.InputGroup) Candidate {
	return Candidate{Group: g, Value: g.Value(), Weight: g.Weight()}
}

// EffectiveValue is this candidate's value minus the fee needed to include
// it at the given feerate: value after accounting for the cost of spending
// the candidate.
func (c Candidate) EffectiveValue(rate feemath.FeeRate) int64 {
	return c.Value - rate.FeeForWeight(c.Weight)
}

// Waste is the extra cost, relative to spending this candidate at the
// long-term feerate instead of now: input_weight * (target_rate -
// longterm_rate). May be negative (spending now is cheaper).
func (c Candidate) Waste(targetRate, longtermRate feemath.FeeRate) int64 {
	return feemath.CeilDiv(c.Weight*(int64(targetRate)-int64(longtermRate)), 1000)
}

// confirmedHeight is the earliest confirmation height among this
// candidate's inputs, used by OldestFirst. ok is false if any input in the
// group is unconfirmed, since an unconfirmed (or foreign) group must sort
// after every confirmed one regardless of height.
func (c Candidate) confirmedHeight() (height uint32, ok bool) {
	first := true
	for _, in := range c.Group.Inputs() {
		status := in.Status()
		if status == nil {
			return 0, false
		}
		if first || status.Height < height {
			height = status.Height
			first = false
		}
	}
	return height, true
}
