// Package fit fits designer target curves with discrete dice combinations:
// for every trait level in range it searches the bounded multiset of catalog
// dice whose combined expected value best approximates the target.
package fit

import (
	"errors"
	"fmt"

	"github.com/samdwyer/diceforge/internal/curve"
	"github.com/samdwyer/diceforge/internal/dice"
	"github.com/samdwyer/diceforge/internal/tier"
)

// ErrInvalidParameter indicates constraints that cannot drive a search.
var ErrInvalidParameter = errors.New("invalid fit parameter")

// Search-space clamps. Inputs past these bounds are rejected up front rather
// than allowed to blow up the enumeration.
const (
	MaxDicePerCombination = 16
	MaxPoolSize           = 64
)

// Constraints bound the per-trait combination search for one class.
type Constraints struct {
	TraitRange curve.TraitRange
	MaxDice    int
	// RuneMultiplier is carried through to the effect schema for the host to
	// apply; the search itself never scales by it.
	RuneMultiplier   float64
	Monotonic        bool
	DiceAvailability []string // nil means the whole catalog
	Tiers            *tier.Classifier
}

// Result is the fitted breakpoint for one trait level.
type Result struct {
	Trait       int
	TargetValue float64
	ActualValue float64
	Dice        []DiceCount
	Color       string
	Err         float64
	// MonotonicViolation marks a trait where no combination could reach the
	// previous trait's value and the unconstrained best was used instead.
	MonotonicViolation bool
}

// FitCurve fits one class's full target curve. Traits are processed in
// ascending order; when Monotonic is set, each trait's search is floored at
// the previous accepted value, falling back to the unconstrained best (and
// flagging the result) when that floor is unreachable.
//
// FitCurve is pure and stateless: it holds nothing between calls, and
// identical inputs, including catalog ordering, produce identical results.
// An empty or fully filtered-out pool degrades to zero-valued results, never
// an error.
func FitCurve(catalog *dice.Catalog, params curve.Params, cons Constraints) ([]Result, error) {
	if cons.MaxDice <= 0 {
		return nil, fmt.Errorf("%w: maxDice must be positive, got %d", ErrInvalidParameter, cons.MaxDice)
	}
	if cons.MaxDice > MaxDicePerCombination {
		return nil, fmt.Errorf("%w: maxDice %d exceeds limit %d", ErrInvalidParameter, cons.MaxDice, MaxDicePerCombination)
	}

	targets, err := curve.Generate(params, cons.TraitRange)
	if err != nil {
		return nil, err
	}

	pool := catalog.Filter(cons.DiceAvailability).All()
	if len(pool) > MaxPoolSize {
		return nil, fmt.Errorf("%w: dice pool size %d exceeds limit %d", ErrInvalidParameter, len(pool), MaxPoolSize)
	}

	results := make([]Result, 0, len(targets))
	prevActual := 0.0
	for i, pt := range targets {
		constrained := cons.Monotonic && i > 0
		comb, ok := searchCombination(pool, pt.Value, cons.MaxDice, constrained, prevActual)
		violation := false
		if constrained && !ok {
			comb, _ = searchCombination(pool, pt.Value, cons.MaxDice, false, 0)
			violation = true
		}

		r := Result{
			Trait:              pt.Trait,
			TargetValue:        pt.Value,
			ActualValue:        comb.Actual,
			Dice:               comb.Dice,
			Err:                comb.Err,
			MonotonicViolation: violation,
		}
		if cons.Tiers != nil {
			r.Color = cons.Tiers.Classify(comb.Actual).ID
		}
		results = append(results, r)
		prevActual = comb.Actual
	}
	return results, nil
}

// TotalError sums the absolute error across a fitted curve. Comparable
// across classes fitted over the same trait range.
func TotalError(results []Result) float64 {
	total := 0.0
	for _, r := range results {
		total += r.Err
	}
	return total
}

// TotalSquaredError sums squared errors, weighting outliers more heavily.
func TotalSquaredError(results []Result) float64 {
	total := 0.0
	for _, r := range results {
		total += r.Err * r.Err
	}
	return total
}
