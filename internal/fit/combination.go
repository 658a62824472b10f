package fit

import (
	"math"

	"github.com/samdwyer/diceforge/internal/dice"
)

// DiceCount is one entry of a dice multiset: Count copies of the die DieID.
type DiceCount struct {
	DieID string `json:"dieId"`
	Count int    `json:"count"`
}

// Combination is the outcome of a single-trait search: the chosen multiset,
// its combined expected value, and the absolute error against the target.
type Combination struct {
	Dice   []DiceCount
	Actual float64
	Err    float64
}

// evTolerance absorbs float noise when comparing combined expected values
// against the monotonicity floor.
const evTolerance = 1e-9

// searchCombination finds the multiset of at most maxDice dice, drawn with
// repetition from the pool, whose summed mean best approximates target.
//
// Candidates are enumerated depth-first in pool order, so the result is fully
// determined by the pool ordering. Ties on error prefer the smaller total die
// count; remaining ties keep the first candidate found, which is the
// lexicographically earliest count vector over the pool order.
//
// When constrained, candidates whose combined mean falls below minEV are
// rejected. The boolean result reports whether any candidate satisfied the
// constraint; callers fall back to an unconstrained search when it is false.
func searchCombination(pool []dice.Die, target float64, maxDice int, constrained bool, minEV float64) (Combination, bool) {
	best := Combination{Err: math.Inf(1)}
	found := false

	// With only non-negative means, adding dice never lowers the combined
	// value, which allows cutting branches already past target by more than
	// the best error so far.
	monotonicEV := true
	for _, d := range pool {
		if d.Mean < 0 {
			monotonicEV = false
			break
		}
	}

	counts := make([]int, len(pool))
	var walk func(i, used int, ev float64)
	walk = func(i, used int, ev float64) {
		if monotonicEV && ev-target > best.Err {
			return
		}
		if i == len(pool) {
			if constrained && ev < minEV-evTolerance {
				return
			}
			err := math.Abs(target - ev)
			if err < best.Err || (err == best.Err && used < totalCount(best.Dice)) {
				best = Combination{Dice: collect(pool, counts), Actual: ev, Err: err}
				found = true
			}
			return
		}
		for n := 0; n <= maxDice-used; n++ {
			counts[i] = n
			walk(i+1, used+n, ev+float64(n)*pool[i].Mean)
		}
		counts[i] = 0
	}
	walk(0, 0, 0)

	if !found {
		return Combination{Err: math.Abs(target)}, false
	}
	return best, true
}

// collect converts a count vector into the sparse DiceCount form, preserving
// pool order and skipping zero counts.
func collect(pool []dice.Die, counts []int) []DiceCount {
	out := make([]DiceCount, 0, len(counts))
	for i, n := range counts {
		if n > 0 {
			out = append(out, DiceCount{DieID: pool[i].ID, Count: n})
		}
	}
	return out
}

// totalCount sums the die counts of a multiset.
func totalCount(dc []DiceCount) int {
	total := 0
	for _, d := range dc {
		total += d.Count
	}
	return total
}
