package selection

import "github.com/satoshikit/txcore/coininput"

// Selection is the coin selector's final choice: an ordered list of Inputs
// plus an ordered list of Outputs, ready to become an unsigned PSBT.
//
// Invariants (enforced by construction in coinselect; this package does not
// check them for a Selection built by hand, e.g. by CPFP, though Fee reports
// a negative value when the first one is broken):
//   - total input value >= total output value (non-negative fee).
//   - inputs preserve selection order; outputs preserve target-then-change
//     order. Neither is reordered by this package.
type Selection struct {
	Inputs  []coininput.Input
	Outputs []Output
}

// InputValue is the sum of every selected input's previous output value.
func (s Selection) InputValue() int64 {
	var total int64
	for _, in := range s.Inputs {
		total += in.PrevTxOut().Value
	}
	return total
}

// OutputValue is the sum of every output's value.
func (s Selection) OutputValue() int64 {
	var total int64
	for _, out := range s.Outputs {
		total += out.Value
	}
	return total
}

// Fee is InputValue - OutputValue; negative indicates an invalid selection.
func (s Selection) Fee() int64 {
	return s.InputValue() - s.OutputValue()
}
