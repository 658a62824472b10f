// Package curve generates target reward values across a trait range from
// parametric curve definitions.
package curve

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidParameter indicates a curve definition that cannot be evaluated.
var ErrInvalidParameter = errors.New("invalid curve parameter")

// Type identifies the shape of a target curve.
type Type int

const (
	Linear Type = iota
	Sigmoid
)

// String returns the curve type name.
func (t Type) String() string {
	switch t {
	case Linear:
		return "linear"
	case Sigmoid:
		return "sigmoid"
	default:
		return "unknown"
	}
}

// ParseType converts a curve type name (as found in gamedata JSON) to a Type.
func ParseType(s string) (Type, error) {
	switch s {
	case "linear":
		return Linear, nil
	case "sigmoid":
		return Sigmoid, nil
	default:
		return Linear, fmt.Errorf("%w: unknown curve type %q", ErrInvalidParameter, s)
	}
}

// TraitRange is an inclusive integer range of trait levels.
type TraitRange struct {
	Min int `json:"min" yaml:"min"`
	Max int `json:"max" yaml:"max"`
}

// Len returns the number of trait levels in the range.
func (r TraitRange) Len() int {
	return r.Max - r.Min + 1
}

// Valid reports whether the range contains at least one trait level.
func (r TraitRange) Valid() bool {
	return r.Max >= r.Min
}

// Params defines one target curve. Inflection and Steepness are only
// meaningful for sigmoid curves.
type Params struct {
	Type       Type
	Min        float64
	Max        float64
	Inflection float64
	Steepness  float64
}

// Point is the target value at one trait level.
type Point struct {
	Trait int
	Value float64
}

// Generate evaluates the curve at every integer trait in the range, in
// ascending trait order. It is pure: identical inputs always produce the
// identical point sequence.
func Generate(p Params, tr TraitRange) ([]Point, error) {
	if !tr.Valid() {
		return nil, fmt.Errorf("%w: trait range [%d,%d] is inverted", ErrInvalidParameter, tr.Min, tr.Max)
	}
	if p.Type == Sigmoid && p.Steepness == 0 {
		return nil, fmt.Errorf("%w: sigmoid curve requires inflection and steepness", ErrInvalidParameter)
	}

	points := make([]Point, 0, tr.Len())
	for t := tr.Min; t <= tr.Max; t++ {
		points = append(points, Point{Trait: t, Value: valueAt(p, tr, t)})
	}
	return points, nil
}

// ValueAt evaluates the curve at a single trait level.
func ValueAt(p Params, tr TraitRange, trait int) (float64, error) {
	if !tr.Valid() {
		return 0, fmt.Errorf("%w: trait range [%d,%d] is inverted", ErrInvalidParameter, tr.Min, tr.Max)
	}
	if p.Type == Sigmoid && p.Steepness == 0 {
		return 0, fmt.Errorf("%w: sigmoid curve requires inflection and steepness", ErrInvalidParameter)
	}
	return valueAt(p, tr, trait), nil
}

func valueAt(p Params, tr TraitRange, trait int) float64 {
	switch p.Type {
	case Sigmoid:
		return p.Min + (p.Max-p.Min)/(1+math.Exp(-p.Steepness*(float64(trait)-p.Inflection)))
	default:
		// A single-trait range has no slope to interpolate along.
		if tr.Max == tr.Min {
			return p.Min
		}
		frac := float64(trait-tr.Min) / float64(tr.Max-tr.Min)
		return p.Min + (p.Max-p.Min)*frac
	}
}
