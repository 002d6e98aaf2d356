package coinselect

import (
	"github.com/satoshikit/txcore/internal/dustrule"
	"github.com/satoshikit/txcore/internal/feemath"
)

// ChangeWeights describes the change output's own output weight and the
// weight of satisfying it in some future spend, used for dust and waste
// computation.
type ChangeWeights struct {
	OutputWeight int64 // weight, in WU, of the change TxOut itself
	SpendWeight  int64 // weight, in WU, of the future txin spending it
}

// ChangePolicy decides whether a surplus should become a change output or
// be forgone entirely as extra fee.
type ChangePolicy interface {
	// Decide returns the change value to use (0 meaning "no change") given
	// the surplus (selected effective value minus the target amount), the
	// change output's own weights, and the feerate the selection targets.
	Decide(surplus int64, weights ChangeWeights, targetRate feemath.FeeRate) (changeValue int64, hasChange bool)
}

// NoDust creates change whenever it would clear the dust threshold (and an
// optional caller-supplied floor).
type NoDust struct {
	DustRelayFeerate int64 // sat/kvB; 0 means dustrule.DefaultFeerate
	MinValue         int64
	ScriptLen        int
}

func (p NoDust) Decide(surplus int64, weights ChangeWeights, targetRate feemath.FeeRate) (int64, bool) {
	changeFee := targetRate.FeeForWeight(weights.OutputWeight)
	changeValue := surplus - changeFee
	if changeValue < 0 {
		changeValue = 0
	}
	floor := dustrule.MinimalNonDust(p.ScriptLen, p.DustRelayFeerate)
	if p.MinValue > floor {
		floor = p.MinValue
	}
	if changeValue < floor {
		return 0, false
	}
	return changeValue, true
}

// NoDustLeastWaste creates change only when it is not dust AND doing so
// reduces waste relative to paying the surplus as fee.
type NoDustLeastWaste struct {
	DustRelayFeerate int64
	MinValue         int64
	ScriptLen        int
	LongtermFeerate  feemath.FeeRate
}

func (p NoDustLeastWaste) Decide(surplus int64, weights ChangeWeights, targetRate feemath.FeeRate) (int64, bool) {
	changeValue, hasChange := (NoDust{
		DustRelayFeerate: p.DustRelayFeerate,
		MinValue:         p.MinValue,
		ScriptLen:        p.ScriptLen,
	}).Decide(surplus, weights, targetRate)
	if !hasChange {
		return 0, false
	}

	// Waste of creating the change output now: its own output weight cost
	// plus the future cost of spending it, evaluated at (target -
	// longterm) feerate; compared against paying the whole surplus as fee,
	// in which case the entire surplus counts as waste.
	changeCreationCost := targetRate.FeeForWeight(weights.OutputWeight) +
		feemath.CeilDiv(weights.SpendWeight*(int64(targetRate)-int64(p.LongtermFeerate)), 1000)
	wasteWithChange := changeCreationCost
	wasteWithoutChange := surplus // the entire surplus becomes fee, i.e. waste
	if wasteWithChange >= wasteWithoutChange {
		return 0, false
	}
	return changeValue, true
}
