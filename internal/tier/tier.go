// Package tier classifies numeric reward values into named color tiers
// (bronze, silver, gold, prismatic) via ordered threshold ranges.
package tier

import (
	"errors"
	"fmt"
	"sort"
)

// ErrInvalidThresholds indicates an unusable threshold set.
var ErrInvalidThresholds = errors.New("invalid tier thresholds")

// Threshold is one named value range. Ranges are half-open [Min, Max) except
// the highest tier, whose upper bound is inclusive so the curve maximum still
// classifies.
type Threshold struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Color string  `json:"color"` // hex, e.g. "#CD7F32"
}

// Classifier maps values to tiers. Thresholds are held sorted ascending by
// Min so classification order is deterministic regardless of input order.
type Classifier struct {
	thresholds []Threshold
}

// NewClassifier builds a classifier from the given thresholds. Thresholds
// must be non-empty and non-overlapping once sorted by Min.
func NewClassifier(thresholds []Threshold) (*Classifier, error) {
	if len(thresholds) == 0 {
		return nil, fmt.Errorf("%w: no thresholds", ErrInvalidThresholds)
	}
	sorted := make([]Threshold, len(thresholds))
	copy(sorted, thresholds)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Min < sorted[j].Min })

	for i, t := range sorted {
		if t.Max < t.Min {
			return nil, fmt.Errorf("%w: tier %q has inverted range [%g,%g]", ErrInvalidThresholds, t.ID, t.Min, t.Max)
		}
		if i > 0 && t.Min < sorted[i-1].Max {
			return nil, fmt.Errorf("%w: tier %q overlaps %q", ErrInvalidThresholds, t.ID, sorted[i-1].ID)
		}
	}
	return &Classifier{thresholds: sorted}, nil
}

// Classify returns the highest tier whose Min does not exceed the value.
// With contiguous ranges this is exactly "the range containing the value";
// values below every range clamp to the lowest tier and values above every
// range clamp to the highest. Classification never fails for a well-formed
// classifier.
func (c *Classifier) Classify(v float64) Threshold {
	chosen := c.thresholds[0]
	for _, t := range c.thresholds {
		if v >= t.Min {
			chosen = t
		}
	}
	return chosen
}

// Lowest returns the lowest tier. Used for degraded results such as an empty
// dice pool fit.
func (c *Classifier) Lowest() Threshold {
	return c.thresholds[0]
}

// All returns the thresholds sorted ascending.
func (c *Classifier) All() []Threshold {
	return c.thresholds
}
