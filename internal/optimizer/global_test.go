package optimizer

import (
	"context"
	"errors"
	"math"
	"reflect"
	"testing"

	"gonum.org/v1/gonum/stat"

	"github.com/samdwyer/diceforge/internal/curve"
)

func singleTarget() []ClassTargets {
	return []ClassTargets{{
		Key:        "warrior",
		Name:       "Warrior",
		TraitRange: curve.TraitRange{Min: 1, Max: 1},
		Targets:    []Target{{Trait: 1, TargetEV: 3.5, DiceCount: 1}},
	}}
}

func multiClassTargets() []ClassTargets {
	return []ClassTargets{
		{
			Key: "warrior", Name: "Warrior",
			TraitRange: curve.TraitRange{Min: 1, Max: 3},
			Targets: []Target{
				{Trait: 1, TargetEV: 4, DiceCount: 1},
				{Trait: 2, TargetEV: 8, DiceCount: 2},
				{Trait: 3, TargetEV: 12, DiceCount: 3},
			},
		},
		{
			Key: "wizard", Name: "Wizard",
			TraitRange: curve.TraitRange{Min: 1, Max: 2},
			Targets: []Target{
				{Trait: 1, TargetEV: 3, DiceCount: 1},
				{Trait: 2, TargetEV: 9, DiceCount: 2},
			},
		},
	}
}

func TestOptimizeInvalidParams(t *testing.T) {
	tests := []struct {
		name string
		opts Options
	}{
		{"zero faces", Options{NumFaces: 0, MaxDice: 4, Iterations: 10}},
		{"zero maxDice", Options{NumFaces: 6, MaxDice: 0, Iterations: 10}},
		{"negative iterations", Options{NumFaces: 6, MaxDice: 4, Iterations: -1}},
		{"faces past clamp", Options{NumFaces: MaxFaces + 1, MaxDice: 4, Iterations: 10}},
		{"maxDice past clamp", Options{NumFaces: 6, MaxDice: MaxDiceCount + 1, Iterations: 10}},
		{"iterations past clamp", Options{NumFaces: 6, MaxDice: 4, Iterations: MaxIterations + 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Optimize(context.Background(), singleTarget(), tt.opts)
			if !errors.Is(err, ErrInvalidParameter) {
				t.Errorf("Expected ErrInvalidParameter, got %v", err)
			}
		})
	}
}

func TestOptimizeEmptyTargets(t *testing.T) {
	res, err := Optimize(context.Background(), nil, Options{NumFaces: 6, MaxDice: 4, Iterations: 100})
	if err != nil {
		t.Fatalf("Optimize failed: %v", err)
	}
	if len(res.Die.Faces) != 6 {
		t.Errorf("Expected 6 faces, got %d", len(res.Die.Faces))
	}
	if res.TotalError != 0 || res.MeanSquaredError != 0 {
		t.Errorf("Expected zero error for empty targets, got %g / %g", res.TotalError, res.MeanSquaredError)
	}
}

func TestOptimizeOutputShape(t *testing.T) {
	classTargets := multiClassTargets()
	res, err := Optimize(context.Background(), classTargets, Options{
		NumFaces: 4, MaxDice: 6, Iterations: 200, Seed: 7,
	})
	if err != nil {
		t.Fatalf("Optimize failed: %v", err)
	}

	if len(res.Die.Faces) != 4 {
		t.Fatalf("Expected 4 faces, got %d", len(res.Die.Faces))
	}
	if len(res.Classes) != len(classTargets) {
		t.Fatalf("Expected %d class results, got %d", len(classTargets), len(res.Classes))
	}
	for i, cls := range res.Classes {
		if cls.Key != classTargets[i].Key {
			t.Errorf("Class %d: key %s, want %s (input order must be preserved)", i, cls.Key, classTargets[i].Key)
		}
		if len(cls.Traits) != len(classTargets[i].Targets) {
			t.Errorf("Class %s: %d trait fits, want %d", cls.Key, len(cls.Traits), len(classTargets[i].Targets))
		}
		for j, tf := range cls.Traits {
			if tf.Trait != classTargets[i].Targets[j].Trait {
				t.Errorf("Class %s fit %d: trait %d, want %d", cls.Key, j, tf.Trait, classTargets[i].Targets[j].Trait)
			}
		}
	}

	// Faces come back sorted.
	for i := 1; i < len(res.Die.Faces); i++ {
		if res.Die.Faces[i] < res.Die.Faces[i-1] {
			t.Errorf("Faces not sorted: %v", res.Die.Faces)
		}
	}
}

func TestOptimizeSeedDeterminism(t *testing.T) {
	opts := Options{NumFaces: 6, MaxDice: 8, Iterations: 500, VariancePenalty: 0.1, Seed: 42}

	first, err := Optimize(context.Background(), multiClassTargets(), opts)
	if err != nil {
		t.Fatalf("Optimize failed: %v", err)
	}
	second, err := Optimize(context.Background(), multiClassTargets(), opts)
	if err != nil {
		t.Fatalf("Optimize failed: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("Same seed produced different results")
	}
}

func TestOptimizeMonotoneImprovement(t *testing.T) {
	// More iterations never worsen the best objective; with no variance
	// penalty the reported total error tracks the objective directly.
	base := Options{NumFaces: 6, MaxDice: 8, Seed: 42}

	prev := math.Inf(1)
	for _, iters := range []int{0, 50, 500, 5000} {
		opts := base
		opts.Iterations = iters
		res, err := Optimize(context.Background(), multiClassTargets(), opts)
		if err != nil {
			t.Fatalf("Optimize(%d iterations) failed: %v", iters, err)
		}
		if res.TotalError > prev+1e-9 {
			t.Errorf("Total error rose from %g to %g at %d iterations", prev, res.TotalError, iters)
		}
		prev = res.TotalError
	}
}

func TestOptimizeConvergesOnSingleTarget(t *testing.T) {
	// One target of EV 3.5 with one die: the initial face spread is centered
	// on 3.5, and hill-climbing must keep the mean there.
	res, err := Optimize(context.Background(), singleTarget(), Options{
		NumFaces: 6, MaxDice: 10, Iterations: 1, Seed: 1,
	})
	if err != nil {
		t.Fatalf("Optimize failed: %v", err)
	}

	mean := stat.Mean(res.Die.Faces, nil)
	if math.Abs(mean-3.5) > 1e-9 {
		t.Errorf("Expected face mean 3.5, got %g", mean)
	}
	if res.TotalError > 1e-9 {
		t.Errorf("Expected near-zero error, got %g", res.TotalError)
	}

	zero, err := Optimize(context.Background(), singleTarget(), Options{
		NumFaces: 6, MaxDice: 10, Iterations: 0, Seed: 1,
	})
	if err != nil {
		t.Fatalf("Optimize with 0 iterations failed: %v", err)
	}
	if len(zero.Die.Faces) != 6 {
		t.Errorf("Expected a valid result at 0 iterations, got %+v", zero)
	}
}
