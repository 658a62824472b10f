package fit

import (
	"errors"
	"reflect"
	"testing"

	"github.com/samdwyer/diceforge/internal/curve"
	"github.com/samdwyer/diceforge/internal/dice"
	"github.com/samdwyer/diceforge/internal/tier"
)

func testCatalog() *dice.Catalog {
	return dice.NewCatalog([]dice.Def{
		{ID: "d4", Name: "D4", Faces: []float64{1, 2, 3, 4}},
		{ID: "d6", Name: "D6", Faces: []float64{1, 2, 3, 4, 5, 6}},
		{ID: "d8", Name: "D8", Faces: []float64{1, 2, 3, 4, 5, 6, 7, 8}},
	})
}

func testTiers(t *testing.T) *tier.Classifier {
	t.Helper()
	c, err := tier.NewClassifier([]tier.Threshold{
		{ID: "bronze", Min: 0, Max: 5},
		{ID: "silver", Min: 5, Max: 12},
		{ID: "gold", Min: 12, Max: 24},
		{ID: "prismatic", Min: 24, Max: 48},
	})
	if err != nil {
		t.Fatalf("NewClassifier failed: %v", err)
	}
	return c
}

func TestFitCurveMonotonicSingleDie(t *testing.T) {
	catalog := dice.NewCatalog([]dice.Def{
		{ID: "d6", Name: "D6", Faces: []float64{1, 2, 3, 4, 5, 6}},
	})
	results, err := FitCurve(catalog,
		curve.Params{Type: curve.Linear, Min: 1, Max: 5},
		Constraints{
			TraitRange: curve.TraitRange{Min: 2, Max: 6},
			MaxDice:    2,
			Monotonic:  true,
		})
	if err != nil {
		t.Fatalf("FitCurve failed: %v", err)
	}
	if len(results) != 5 {
		t.Fatalf("Expected 5 results, got %d", len(results))
	}

	// With only a mean-3.5 die the best fits are 0, then 1 die throughout.
	wantActuals := []float64{0, 3.5, 3.5, 3.5, 3.5}
	for i, r := range results {
		if r.ActualValue != wantActuals[i] {
			t.Errorf("Trait %d: expected actual %g, got %g", r.Trait, wantActuals[i], r.ActualValue)
		}
	}

	for i := 1; i < len(results); i++ {
		if results[i].ActualValue < results[i-1].ActualValue && !results[i].MonotonicViolation {
			t.Errorf("Unflagged monotonicity break at trait %d: %g after %g",
				results[i].Trait, results[i].ActualValue, results[i-1].ActualValue)
		}
	}
	for _, r := range results {
		if totalCount(r.Dice) > 2 {
			t.Errorf("Trait %d: combination uses %d dice, max is 2", r.Trait, totalCount(r.Dice))
		}
	}
}

func TestFitCurveRespectsAvailability(t *testing.T) {
	results, err := FitCurve(testCatalog(),
		curve.Params{Type: curve.Linear, Min: 2, Max: 20},
		Constraints{
			TraitRange:       curve.TraitRange{Min: 1, Max: 8},
			MaxDice:          4,
			DiceAvailability: []string{"d4", "d6"},
			Tiers:            testTiers(t),
		})
	if err != nil {
		t.Fatalf("FitCurve failed: %v", err)
	}

	allowed := map[string]bool{"d4": true, "d6": true}
	for _, r := range results {
		if totalCount(r.Dice) > 4 {
			t.Errorf("Trait %d: combination uses %d dice, max is 4", r.Trait, totalCount(r.Dice))
		}
		for _, dc := range r.Dice {
			if !allowed[dc.DieID] {
				t.Errorf("Trait %d: die %s not in availability list", r.Trait, dc.DieID)
			}
		}
		if r.Color == "" {
			t.Errorf("Trait %d: missing tier color", r.Trait)
		}
	}
}

func TestFitCurveDeterministic(t *testing.T) {
	params := curve.Params{Type: curve.Sigmoid, Min: 0, Max: 20, Inflection: 4, Steepness: 0.9}
	cons := Constraints{
		TraitRange: curve.TraitRange{Min: 1, Max: 8},
		MaxDice:    3,
		Monotonic:  true,
		Tiers:      testTiers(t),
	}

	first, err := FitCurve(testCatalog(), params, cons)
	if err != nil {
		t.Fatalf("FitCurve failed: %v", err)
	}
	second, err := FitCurve(testCatalog(), params, cons)
	if err != nil {
		t.Fatalf("FitCurve failed: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("Identical inputs produced different results")
	}
}

func TestFitCurveEmptyPool(t *testing.T) {
	results, err := FitCurve(testCatalog(),
		curve.Params{Type: curve.Linear, Min: 1, Max: 5},
		Constraints{
			TraitRange:       curve.TraitRange{Min: 2, Max: 6},
			MaxDice:          2,
			Monotonic:        true,
			DiceAvailability: []string{},
			Tiers:            testTiers(t),
		})
	if err != nil {
		t.Fatalf("FitCurve failed: %v", err)
	}

	for _, r := range results {
		if r.ActualValue != 0 {
			t.Errorf("Trait %d: expected actual 0 with empty pool, got %g", r.Trait, r.ActualValue)
		}
		if len(r.Dice) != 0 {
			t.Errorf("Trait %d: expected no dice, got %v", r.Trait, r.Dice)
		}
		if r.Err != r.TargetValue {
			t.Errorf("Trait %d: expected error %g, got %g", r.Trait, r.TargetValue, r.Err)
		}
		if r.Color != "bronze" {
			t.Errorf("Trait %d: expected lowest tier, got %q", r.Trait, r.Color)
		}
	}
}

func TestFitCurveInvalidParams(t *testing.T) {
	tests := []struct {
		name string
		cons Constraints
		want error
	}{
		{"zero maxDice", Constraints{TraitRange: curve.TraitRange{Min: 1, Max: 3}}, ErrInvalidParameter},
		{"negative maxDice", Constraints{TraitRange: curve.TraitRange{Min: 1, Max: 3}, MaxDice: -2}, ErrInvalidParameter},
		{"maxDice past clamp", Constraints{TraitRange: curve.TraitRange{Min: 1, Max: 3}, MaxDice: MaxDicePerCombination + 1}, ErrInvalidParameter},
		{"inverted traits", Constraints{TraitRange: curve.TraitRange{Min: 5, Max: 1}, MaxDice: 2}, curve.ErrInvalidParameter},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FitCurve(testCatalog(), curve.Params{Type: curve.Linear, Min: 0, Max: 1}, tt.cons)
			if !errors.Is(err, tt.want) {
				t.Errorf("Expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestTotalError(t *testing.T) {
	results := []Result{{Err: 0.5}, {Err: 1.5}, {Err: 0}}
	if got := TotalError(results); got != 2 {
		t.Errorf("TotalError = %g, want 2", got)
	}
	if got := TotalSquaredError(results); got != 2.5 {
		t.Errorf("TotalSquaredError = %g, want 2.5", got)
	}
}
