package coinselect

import (
	"sort"

	"github.com/satoshikit/txcore/candidates"
	"github.com/satoshikit/txcore/coininput"
	"github.com/satoshikit/txcore/internal/feemath"
	"github.com/satoshikit/txcore/rbf"
	"github.com/satoshikit/txcore/selection"
)

// defaultMaxBnBIterations is the branch-and-bound hard cap used when
// SelectorParams.MaxBnBIterations is left at zero. spec.md's open question
// about lifting the constant out of a hardcoded location is resolved here:
// the constant lives on SelectorParams, defaulting to the historical
// 100,000.
const defaultMaxBnBIterations = 100_000

// SelectorParams configures a coin selection run.
type SelectorParams struct {
	// TargetFeerate is the feerate the resulting transaction should reach.
	// The actual feerate may be higher due to RBF requirements or rounding.
	TargetFeerate feemath.FeeRate

	// TargetOutputs are the recipient outputs that must be funded.
	TargetOutputs []selection.Output

	// ChangeScript is the source of the change output's script_pubkey and
	// satisfaction weight, used by ChangePolicy and waste computation.
	ChangeScript selection.ChangeScript

	// ChangePolicy decides whether a surplus becomes a change output.
	ChangePolicy ChangePolicy

	// Replace carries this selection's RBF obligations, nil if this is not
	// a replacement.
	Replace *Replace

	// LongtermFeerate is not read by Select; the waste-aware change policy
	// (NoDustLeastWaste) takes its long-term feerate from its own field.
	LongtermFeerate feemath.FeeRate

	// DustRelayFeerate is not read by Select; the change policies (NoDust,
	// NoDustLeastWaste) take their dust-relay feerate from their own
	// fields.
	DustRelayFeerate int64

	// MaxBnBIterations caps the branch-and-bound search; zero defaults to
	// 100,000.
	MaxBnBIterations int
}

func (p SelectorParams) maxIterations() int {
	if p.MaxBnBIterations > 0 {
		return p.MaxBnBIterations
	}
	return defaultMaxBnBIterations
}

func (p SelectorParams) target() Target {
	var outValue, outWeight int64
	for _, o := range p.TargetOutputs {
		outValue += o.Value
		outWeight += o.TxOut().SerializeSize() * 4 // vB -> WU for a non-witness field
	}
	return Target{
		Fee:     TargetFee{Rate: p.TargetFeerate, Replace: p.Replace},
		Outputs: TargetOutputs{Value: outValue, Weight: outWeight},
	}
}

func (p SelectorParams) changeWeights() ChangeWeights {
	scriptLen := len(p.ChangeScript.ScriptPubkey())
	outputWeight := int64(8+1+scriptLen) * 4
	// Assumes the change spend is segwit: outpoint(36)+sequence(4) base,
	// plus the plan's satisfaction weight.
	spendWeight := (36+4)*4 + p.ChangeScript.SatisfactionWeight()
	return ChangeWeights{OutputWeight: outputWeight, SpendWeight: spendWeight}
}

// NewFromRbfParams adapts an rbf.Params (derived from RbfSet.SelectorRbfParams)
// into the coinselect Replace this package's Target understands.
func NewFromRbfParams(p rbf.Params) *Replace {
	var maxFeerate feemath.FeeRate
	for _, otx := range p.OriginalTxs {
		if otx.WeightWU == 0 {
			continue
		}
		fr := feemath.FeeRate(otx.FeeSat * 1000 / otx.WeightWU)
		if fr > maxFeerate {
			maxFeerate = fr
		}
	}
	var totalFee int64
	for _, otx := range p.OriginalTxs {
		totalFee += otx.FeeSat
	}
	return &Replace{
		Fee:        totalFee,
		MaxFeerate: maxFeerate,
		// rbf.Params carries sat/kvB; FeeRate is sat/kWU (4 WU per vbyte).
		IncrementalRelayFeerate: feemath.FeeRate(feemath.CeilDiv(int64(p.IncrementalRelayFeerate), 4)),
	}
}

// Select runs algorithm over ic per params, returning the resulting
// Selection.
func Select(ic candidates.InputCandidates, params SelectorParams, algorithm Algorithm) (*selection.Selection, error) {
	target := params.target()

	var mustSelect []Candidate
	if g, ok := ic.MustSelect(); ok {
		mustSelect = append(mustSelect, NewCandidate(g))
	}
	optional := make([]Candidate, 0, len(ic.CanSelect()))
	for _, g := range ic.CanSelect() {
		optional = append(optional, NewCandidate(g))
	}

	var totalAvailable int64
	for _, c := range mustSelect {
		totalAvailable += c.Value
	}
	for _, c := range optional {
		totalAvailable += c.Value
	}
	if totalAvailable < target.AmountNeeded() {
		return nil, cannotMeetTarget()
	}

	selected, err := algorithm(mustSelect, optional, target, params)
	if err != nil {
		return nil, err
	}

	return finalize(selected, target, params)
}

// Algorithm picks a set of candidates (always including every must-select
// candidate) meeting target, returning InsufficientFunds if it cannot.
type Algorithm func(mustSelect, optional []Candidate, target Target, params SelectorParams) ([]Candidate, error)

func effectiveValueSum(rate feemath.FeeRate, cands []Candidate) int64 {
	var sum int64
	for _, c := range cands {
		sum += c.EffectiveValue(rate)
	}
	return sum
}

func totalValue(cands []Candidate) int64 {
	var sum int64
	for _, c := range cands {
		sum += c.Value
	}
	return sum
}

func finalize(selected []Candidate, target Target, params SelectorParams) (*selection.Selection, error) {
	rate := target.Fee.EffectiveRate()
	surplus := effectiveValueSum(rate, selected) - target.AmountNeeded()
	if surplus < 0 {
		return nil, insufficientFunds(target.AmountNeeded(), effectiveValueSum(rate, selected))
	}

	weights := changeWeightsFor(params)
	changeValue, hasChange := params.ChangePolicy.Decide(surplus, weights, rate)

	outputs := make([]selection.Output, len(params.TargetOutputs))
	copy(outputs, params.TargetOutputs)
	if hasChange {
		outputs = append(outputs, selection.Output{
			Value:  changeValue,
			Source: params.ChangeScript,
		})
	}

	inputs := make([]coininput.Input, 0)
	for _, c := range selected {
		inputs = append(inputs, c.Group.Inputs()...)
	}

	sel := &selection.Selection{Inputs: inputs, Outputs: outputs}

	if minFee := target.MinReplacementFee(); minFee > 0 {
		if actualFee := sel.Fee(); actualFee < minFee {
			return nil, replacementFeeTooLow(actualFee, minFee)
		}
	}

	return sel, nil
}

func changeWeightsFor(params SelectorParams) ChangeWeights {
	return params.changeWeights()
}

// BranchAndBound runs the branch-and-bound search for an exact (or
// near-exact, minimal-surplus) match, falling back to fallback when it
// cannot find one within params.MaxBnBIterations.
func BranchAndBound(fallback Algorithm) Algorithm {
	return func(mustSelect, optional []Candidate, target Target, params SelectorParams) ([]Candidate, error) {
		rate := target.Fee.EffectiveRate()

		requiredValue := effectiveValueSum(rate, mustSelect)

		optEff := make([]Candidate, 0, len(optional))
		for _, c := range optional {
			if c.EffectiveValue(rate) > 0 {
				optEff = append(optEff, c)
			}
		}
		sort.Slice(optEff, func(i, j int) bool {
			return optEff[i].EffectiveValue(rate) > optEff[j].EffectiveValue(rate)
		})

		availableValue := effectiveValueSum(rate, optEff)
		targetAmount := target.AmountNeeded()

		if requiredValue+availableValue < targetAmount {
			return nil, insufficientFunds(targetAmount, totalValue(mustSelect)+totalValue(optional))
		}

		if requiredValue >= targetAmount {
			// Already past target with only the required candidates;
			// there's no point running BnB, the excess becomes change or
			// fee downstream.
			return mustSelect, nil
		}

		costOfChange := changeWeightsFor(params).OutputWeight
		costOfChangeFee := rate.FeeForWeight(costOfChange)

		effValues := make([]int64, len(optEff))
		for i, c := range optEff {
			effValues[i] = c.EffectiveValue(rate)
		}

		best, ok := bnbSearch(optEff, effValues, requiredValue, availableValue, targetAmount, costOfChangeFee, params.maxIterations())
		if !ok {
			log.Debugf("branch-and-bound found no match among %d candidates for target %d, "+
				"falling back", len(optEff), targetAmount)
			return fallback(mustSelect, optional, target, params)
		}
		return append(append([]Candidate{}, mustSelect...), best...), nil
	}
}

// bnbSearch is the depth-first branch-and-bound loop, translated directly
// from the legacy BDK wallet's bnb() to operate over InputGroup-backed
// Candidates instead of individual UTXOs. optional must already be sorted
// by descending effective value and effValues[i] must be optional[i]'s
// effective value at the search's feerate.
func bnbSearch(optional []Candidate, effValues []int64, currValue, currAvailableValue, target, costOfChange int64, maxIterations int) ([]Candidate, bool) {
	// currentSelection[i] holds true if optional[i] is included, false if
	// it has been explicitly excluded. Its length can be less than
	// len(optional): that means those tail candidates haven't been
	// decided yet.
	currentSelection := make([]bool, 0, len(optional))

	var bestSelection []bool
	haveBest := false
	var bestValue int64

	for i := 0; i < maxIterations; i++ {
		backtrack := false

		if currValue+currAvailableValue < target || currValue > target+costOfChange {
			backtrack = true
		} else if currValue >= target {
			backtrack = true

			if !haveBest || currValue < bestValue {
				bestSelection = append([]bool{}, currentSelection...)
				bestValue = currValue
				haveBest = true
			}

			if currValue == target {
				break
			}
		}

		if backtrack {
			log.Tracef("bnb backtrack at depth %d: currValue=%d currAvailableValue=%d",
				len(currentSelection), currValue, currAvailableValue)

			// Walk backwards past every candidate already excluded on
			// this branch, restoring it to the available pool.
			for len(currentSelection) > 0 && !currentSelection[len(currentSelection)-1] {
				currentSelection = currentSelection[:len(currentSelection)-1]
				currAvailableValue += effValues[len(currentSelection)]
			}

			if len(currentSelection) == 0 {
				// Every branch has been explored.
				break
			}

			// The last included candidate's omission branch hasn't been
			// tried yet: flip it to excluded and continue forward.
			currentSelection[len(currentSelection)-1] = false
			currValue -= effValues[len(currentSelection)-1]
		} else {
			// Move forward, taking the inclusion branch first.
			idx := len(currentSelection)
			currAvailableValue -= effValues[idx]
			currentSelection = append(currentSelection, true)
			currValue += effValues[idx]
		}
	}

	if !haveBest {
		return nil, false
	}

	selected := make([]Candidate, 0, len(bestSelection))
	for i, include := range bestSelection {
		if include {
			selected = append(selected, optional[i])
		}
	}
	return selected, true
}
