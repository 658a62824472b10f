// Package optimizer jointly designs one shared die against several classes'
// target curves: it searches face values for a single die plus per-class
// per-trait dice counts minimizing aggregate squared error.
package optimizer

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sort"

	"go.opentelemetry.io/otel/attribute"
	"gonum.org/v1/gonum/stat"

	"github.com/samdwyer/diceforge/internal/curve"
	"github.com/samdwyer/diceforge/internal/telemetry"
)

// ErrInvalidParameter indicates optimizer options that cannot drive a search.
var ErrInvalidParameter = errors.New("invalid optimizer parameter")

// Hard clamps on the search dimensions.
const (
	MaxFaces      = 64
	MaxDiceCount  = 16
	MaxIterations = 1_000_000
)

// Target is one class's desired expected value at one trait level. DiceCount
// is the designer's suggested count, used only to scale the initial face
// range; the optimizer chooses its own counts.
type Target struct {
	Trait     int     `yaml:"trait"`
	TargetEV  float64 `yaml:"targetEV"`
	DiceCount int     `yaml:"diceCount"`
	Color     string  `yaml:"color"`
}

// ClassTargets is one class's full target curve for the joint design.
type ClassTargets struct {
	Key        string           `yaml:"key"`
	Name       string           `yaml:"name"`
	Color      string           `yaml:"color"`
	TraitRange curve.TraitRange `yaml:"traitRange"`
	Targets    []Target         `yaml:"targets"`
}

// Options are the optimizer hyperparameters. Seed fully determines the
// search: a fixed seed reproduces identical output.
type Options struct {
	NumFaces        int     `yaml:"numFaces"`
	MaxDice         int     `yaml:"maxDice"`
	Iterations      int     `yaml:"iterations"`
	VariancePenalty float64 `yaml:"variancePenalty"`
	Seed            int64   `yaml:"seed"`
}

// TraitFit is the achieved expected value against one target.
type TraitFit struct {
	Trait    int     `json:"trait"`
	TargetEV float64 `json:"targetEV"`
	ActualEV float64 `json:"actualEV"`
}

// ClassResult is one class's per-trait fit under the final die design.
type ClassResult struct {
	Key    string     `json:"key"`
	Name   string     `json:"name"`
	Color  string     `json:"color"`
	Traits []TraitFit `json:"traits"`
}

// DieDesign is the shared die produced by the optimizer.
type DieDesign struct {
	Faces []float64 `json:"faces"`
}

// Result is the final joint design: the shared die plus the fit each class
// achieves with it.
type Result struct {
	Die              DieDesign     `json:"die"`
	TotalError       float64       `json:"totalError"`
	MeanSquaredError float64       `json:"meanSquaredError"`
	Classes          []ClassResult `json:"classes"`
}

// Optimize runs hill-climbing over the shared die's face values.
//
// Each iteration perturbs one face within the value bounds implied by the
// targets, re-derives every target's best dice count in [1, MaxDice], and
// accepts the move only if the penalized objective does not exceed the best
// seen, so the recorded best objective is non-increasing across iterations.
// Classes are always evaluated in input order, keeping aggregation
// deterministic.
func Optimize(ctx context.Context, classTargets []ClassTargets, opts Options) (*Result, error) {
	if err := validate(opts); err != nil {
		return nil, err
	}

	tracer := telemetry.Tracer("optimizer")
	_, span := tracer.Start(ctx, "die.optimize")
	defer span.End()

	targetCount := 0
	for _, ct := range classTargets {
		targetCount += len(ct.Targets)
	}
	span.SetAttributes(
		attribute.Int("die.faces", opts.NumFaces),
		attribute.Int("optimize.targets", targetCount),
		attribute.Int("optimize.iterations", opts.Iterations),
	)

	lo, hi := faceBounds(classTargets)
	faces := seedFaces(opts.NumFaces, lo, hi)

	if targetCount == 0 {
		res := assemble(classTargets, faces, opts)
		span.SetAttributes(attribute.Float64("optimize.total_error", 0))
		return res, nil
	}

	rng := rand.New(rand.NewSource(opts.Seed))

	best := make([]float64, len(faces))
	copy(best, faces)
	bestObj := objective(classTargets, best, opts)

	step := (hi - lo) / 10
	if step <= 0 {
		step = 1
	}

	cand := make([]float64, len(faces))
	for i := 0; i < opts.Iterations; i++ {
		copy(cand, best)
		j := rng.Intn(len(cand))
		cand[j] = clamp(cand[j]+rng.NormFloat64()*step, lo, hi)

		if obj := objective(classTargets, cand, opts); obj <= bestObj {
			copy(best, cand)
			bestObj = obj
		}
	}

	sort.Float64s(best)
	res := assemble(classTargets, best, opts)
	span.SetAttributes(attribute.Float64("optimize.total_error", res.TotalError))
	return res, nil
}

func validate(opts Options) error {
	switch {
	case opts.NumFaces <= 0:
		return fmt.Errorf("%w: numFaces must be positive, got %d", ErrInvalidParameter, opts.NumFaces)
	case opts.NumFaces > MaxFaces:
		return fmt.Errorf("%w: numFaces %d exceeds limit %d", ErrInvalidParameter, opts.NumFaces, MaxFaces)
	case opts.MaxDice <= 0:
		return fmt.Errorf("%w: maxDice must be positive, got %d", ErrInvalidParameter, opts.MaxDice)
	case opts.MaxDice > MaxDiceCount:
		return fmt.Errorf("%w: maxDice %d exceeds limit %d", ErrInvalidParameter, opts.MaxDice, MaxDiceCount)
	case opts.Iterations < 0:
		return fmt.Errorf("%w: iterations must be non-negative, got %d", ErrInvalidParameter, opts.Iterations)
	case opts.Iterations > MaxIterations:
		return fmt.Errorf("%w: iterations %d exceeds limit %d", ErrInvalidParameter, opts.Iterations, MaxIterations)
	}
	return nil
}

// faceBounds derives the per-face value range from the targets: each target
// implies a per-die value of targetEV / diceCount, and faces are confined to
// the span of those ratios. With no targets a nominal [1, 6] die is assumed.
func faceBounds(classTargets []ClassTargets) (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, ct := range classTargets {
		for _, t := range ct.Targets {
			count := t.DiceCount
			if count <= 0 {
				count = 1
			}
			ratio := t.TargetEV / float64(count)
			lo = math.Min(lo, ratio)
			hi = math.Max(hi, ratio)
		}
	}
	if math.IsInf(lo, 1) {
		return 1, 6
	}
	if lo == hi {
		// Widen a degenerate range so perturbation has room to move.
		lo, hi = lo-1, hi+1
	}
	return lo, hi
}

// seedFaces spreads the initial face values evenly across [lo, hi].
func seedFaces(n int, lo, hi float64) []float64 {
	faces := make([]float64, n)
	if n == 1 {
		faces[0] = (lo + hi) / 2
		return faces
	}
	for i := range faces {
		faces[i] = lo + (hi-lo)*float64(i)/float64(n-1)
	}
	return faces
}

// bestCount picks the dice count in [1, maxDice] whose total expected value
// is closest to the target. Lower counts win ties.
func bestCount(targetEV, mean float64, maxDice int) (count int, actualEV float64) {
	count, actualEV = 1, mean
	bestErr := math.Abs(targetEV - mean)
	for c := 2; c <= maxDice; c++ {
		ev := float64(c) * mean
		if err := math.Abs(targetEV - ev); err < bestErr {
			count, actualEV, bestErr = c, ev, err
		}
	}
	return count, actualEV
}

// objective is the penalized aggregate error for a candidate face vector:
// the sum of squared per-target errors under each target's best count, plus
// the dispersion penalty on the faces.
func objective(classTargets []ClassTargets, faces []float64, opts Options) float64 {
	mean := stat.Mean(faces, nil)
	total := 0.0
	for _, ct := range classTargets {
		for _, t := range ct.Targets {
			_, ev := bestCount(t.TargetEV, mean, opts.MaxDice)
			diff := t.TargetEV - ev
			total += diff * diff
		}
	}
	if opts.VariancePenalty > 0 && len(faces) > 1 {
		total += opts.VariancePenalty * stat.Variance(faces, nil)
	}
	return total
}

// assemble builds the final result for a face vector, re-deriving each
// target's best count so reported actuals match the returned die. TotalError
// is the raw sum of squared errors, without the dispersion penalty.
func assemble(classTargets []ClassTargets, faces []float64, opts Options) *Result {
	mean := stat.Mean(faces, nil)

	res := &Result{
		Die:     DieDesign{Faces: faces},
		Classes: make([]ClassResult, 0, len(classTargets)),
	}
	targetCount := 0
	for _, ct := range classTargets {
		cr := ClassResult{
			Key:    ct.Key,
			Name:   ct.Name,
			Color:  ct.Color,
			Traits: make([]TraitFit, 0, len(ct.Targets)),
		}
		for _, t := range ct.Targets {
			_, ev := bestCount(t.TargetEV, mean, opts.MaxDice)
			cr.Traits = append(cr.Traits, TraitFit{Trait: t.Trait, TargetEV: t.TargetEV, ActualEV: ev})
			diff := t.TargetEV - ev
			res.TotalError += diff * diff
			targetCount++
		}
		res.Classes = append(res.Classes, cr)
	}
	if targetCount > 0 {
		res.MeanSquaredError = res.TotalError / float64(targetCount)
	}
	return res
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}
