package coinselect

import (
	"math/rand"
	"testing"

	"github.com/satoshikit/txcore/coininput"
)

// seededRNG adapts a math/rand source to the RNG interface, giving tests a
// deterministic, fixed-seed stream.
type seededRNG struct{ r *rand.Rand }

func newSeededRNG(seed int64) seededRNG {
	return seededRNG{r: rand.New(rand.NewSource(seed))}
}

func (s seededRNG) Uint64() uint64 { return s.r.Uint64() }

func candidateOfValue(value int64) Candidate {
	group := coininput.NewInputGroup(inputWithValueAndStatus(value, nil))
	return NewCandidate(group)
}

func simpleTarget(amount int64) Target {
	return Target{Fee: TargetFee{Rate: 0}, Outputs: TargetOutputs{Value: amount}}
}

func TestLargestFirstPicksBiggestCandidatesFirst(t *testing.T) {
	optional := []Candidate{candidateOfValue(1000), candidateOfValue(5000), candidateOfValue(2000)}
	selected, err := LargestFirst(nil, optional, simpleTarget(4000), SelectorParams{})
	if err != nil {
		t.Fatalf("LargestFirst returned error: %v", err)
	}
	if len(selected) != 1 || selected[0].Value != 5000 {
		t.Fatalf("LargestFirst should satisfy a 4000 target with the single 5000 candidate, got %+v", selected)
	}
}

func TestLargestFirstInsufficientFunds(t *testing.T) {
	optional := []Candidate{candidateOfValue(1000), candidateOfValue(2000)}
	_, err := LargestFirst(nil, optional, simpleTarget(10000), SelectorParams{})
	if err == nil {
		t.Fatalf("LargestFirst should fail when available value is below target")
	}
}

func TestOldestFirstSortsConfirmedBeforeUnconfirmed(t *testing.T) {
	old := NewCandidate(coininput.NewInputGroup(inputWithValueAndStatus(1000, &coininput.ConfirmationStatus{Height: 100})))
	young := NewCandidate(coininput.NewInputGroup(inputWithValueAndStatus(1000, &coininput.ConfirmationStatus{Height: 900})))
	unconfirmed := NewCandidate(coininput.NewInputGroup(inputWithValueAndStatus(1000, nil)))

	selected, err := OldestFirst(nil, []Candidate{unconfirmed, young, old}, simpleTarget(1500), SelectorParams{})
	if err != nil {
		t.Fatalf("OldestFirst returned error: %v", err)
	}
	if len(selected) != 2 || selected[0].Group.Inputs()[0].Status().Height != 100 {
		t.Fatalf("OldestFirst should accept the oldest confirmed candidate first, got %+v", selected)
	}
}

func TestSingleRandomDrawIsDeterministicForAFixedSeed(t *testing.T) {
	optional := []Candidate{candidateOfValue(1000), candidateOfValue(2000), candidateOfValue(3000)}
	algo := SingleRandomDraw(newSeededRNG(42))

	first, err := algo(nil, optional, simpleTarget(6000), SelectorParams{})
	if err != nil {
		t.Fatalf("SingleRandomDraw returned error: %v", err)
	}

	algoAgain := SingleRandomDraw(newSeededRNG(42))
	second, err := algoAgain(nil, optional, simpleTarget(6000), SelectorParams{})
	if err != nil {
		t.Fatalf("SingleRandomDraw returned error: %v", err)
	}

	if len(first) != len(second) {
		t.Fatalf("same seed produced different selection sizes: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].Value != second[i].Value {
			t.Fatalf("same seed produced different selections at index %d: %d vs %d", i, first[i].Value, second[i].Value)
		}
	}
}
