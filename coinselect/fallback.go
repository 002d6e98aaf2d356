package coinselect

import "sort"

// greedyAccept walks optional in the order the caller has already sorted
// or shuffled it into, accepting candidates one at a time until the
// accumulated effective value (required plus accepted optional) meets
// target.AmountNeeded(). This is the shared tail of LargestFirst,
// OldestFirst, and SingleRandomDraw: only the ordering differs between
// them, exactly as in the ported legacy selection algorithms, where each
// variant feeds its own ordering into the same select_sorted_utxos walk.
func greedyAccept(mustSelect, optional []Candidate, target Target) ([]Candidate, error) {
	rate := target.Fee.EffectiveRate()
	targetAmount := target.AmountNeeded()

	selected := append([]Candidate{}, mustSelect...)
	accumulated := effectiveValueSum(rate, mustSelect)

	for _, c := range optional {
		if accumulated >= targetAmount {
			break
		}
		selected = append(selected, c)
		accumulated += c.EffectiveValue(rate)
	}

	if accumulated < targetAmount {
		return nil, insufficientFunds(targetAmount, totalValue(mustSelect)+totalValue(optional))
	}
	return selected, nil
}

// LargestFirst sorts the optional candidates by descending value and
// accepts the largest ones first until the target is met.
func LargestFirst(mustSelect, optional []Candidate, target Target, params SelectorParams) ([]Candidate, error) {
	sorted := append([]Candidate{}, optional...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Value > sorted[j].Value
	})
	return greedyAccept(mustSelect, sorted, target)
}

// OldestFirst sorts the optional candidates by ascending confirmation
// height (unconfirmed/foreign candidates sort last, lowest priority) and
// accepts the oldest ones first until the target is met.
func OldestFirst(mustSelect, optional []Candidate, target Target, params SelectorParams) ([]Candidate, error) {
	sorted := append([]Candidate{}, optional...)
	sort.SliceStable(sorted, func(i, j int) bool {
		hi, oki := sorted[i].confirmedHeight()
		hj, okj := sorted[j].confirmedHeight()
		if oki != okj {
			return oki
		}
		return hi < hj
	})
	return greedyAccept(mustSelect, sorted, target)
}

// SingleRandomDraw shuffles the optional candidates and accepts them in
// that random order until the target is met.
func SingleRandomDraw(rng RNG) Algorithm {
	return func(mustSelect, optional []Candidate, target Target, params SelectorParams) ([]Candidate, error) {
		shuffled := append([]Candidate{}, optional...)
		Shuffle(rng, shuffled)
		return greedyAccept(mustSelect, shuffled, target)
	}
}
