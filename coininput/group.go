package coininput

// InputGroup is a non-empty ordered list of Inputs treated atomically by
// the selector, used to bias selection toward spending co-located UTXOs
// (e.g. sharing a script_pubkey) together to reduce address-linkage
// leakage.
type InputGroup struct {
	inputs []Input
}

// NewInputGroup builds a group from a single input.
func NewInputGroup(input Input) InputGroup {
	return InputGroup{inputs: []Input{input}}
}

// NewInputGroupFromInputs builds a group from a slice of inputs. Returns
// false if inputs is empty, since an InputGroup can never be empty.
func NewInputGroupFromInputs(inputs []Input) (InputGroup, bool) {
	if len(inputs) == 0 {
		return InputGroup{}, false
	}
	cp := make([]Input, len(inputs))
	copy(cp, inputs)
	return InputGroup{inputs: cp}, true
}

// Inputs returns the inputs in this group, in order.
func (g InputGroup) Inputs() []Input { return g.inputs }

// Push appends an input to this group.
func (g *InputGroup) Push(input Input) { g.inputs = append(g.inputs, input) }

// Len is the number of inputs in this group.
func (g InputGroup) Len() int { return len(g.inputs) }

// Value is the total value of all inputs in this group.
func (g InputGroup) Value() int64 {
	var total int64
	for _, in := range g.inputs {
		total += in.prevTxout.Value
	}
	return total
}

// Weight is the total weight, in witness units, of all inputs in this
// group.
func (g InputGroup) Weight() int64 {
	var total int64
	for _, in := range g.inputs {
		total += in.Weight()
	}
	return total
}

// IsSegwit reports whether any input in this group is a segwit spend.
func (g InputGroup) IsSegwit() bool {
	for _, in := range g.inputs {
		if in.IsSegwit() {
			return true
		}
	}
	return false
}

// IsImmature reports whether any input in this group is an immature
// coinbase output.
func (g InputGroup) IsImmature(tipHeight uint32) bool {
	for _, in := range g.inputs {
		if in.IsImmature(tipHeight) {
			return true
		}
	}
	return false
}

// IsTimelocked reports whether any input in this group is not yet
// spendable due to a timelock.
func (g InputGroup) IsTimelocked(tipHeight, tipMTP uint32) bool {
	for _, in := range g.inputs {
		if in.IsTimelocked(tipHeight, tipMTP) {
			return true
		}
	}
	return false
}

// IsSpendableNow reports whether every input in this group is spendable
// now.
func (g InputGroup) IsSpendableNow(tipHeight, tipMTP uint32) bool {
	for _, in := range g.inputs {
		if !in.IsSpendableNow(tipHeight, tipMTP) {
			return false
		}
	}
	return true
}

// All reports whether pred holds for every input in this group.
func (g InputGroup) All(pred func(Input) bool) bool {
	for _, in := range g.inputs {
		if !pred(in) {
			return false
		}
	}
	return true
}

// Any reports whether pred holds for at least one input in this group.
func (g InputGroup) Any(pred func(Input) bool) bool {
	for _, in := range g.inputs {
		if pred(in) {
			return true
		}
	}
	return false
}
