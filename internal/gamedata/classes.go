package gamedata

import (
	"github.com/samdwyer/diceforge/internal/curve"
	"github.com/samdwyer/diceforge/internal/fit"
	"github.com/samdwyer/diceforge/internal/tier"
)

// CurveDef is the JSON form of a target curve definition.
type CurveDef struct {
	Type       string  `json:"type"`       // "linear" or "sigmoid"
	Min        float64 `json:"min"`        // Value at the bottom of the trait range
	Max        float64 `json:"max"`        // Value at the top of the trait range
	Inflection float64 `json:"inflection"` // Sigmoid midpoint trait
	Steepness  float64 `json:"steepness"`  // Sigmoid slope at the inflection
}

// ClassDef defines one class's balance configuration loaded from JSON.
type ClassDef struct {
	Key              string           `json:"key"`              // Unique identifier (e.g., "warrior")
	Name             string           `json:"name"`             // Display name (e.g., "Warrior")
	Color            string           `json:"color"`            // Hex accent color for charts
	Curve            CurveDef         `json:"curve"`            // Target reward curve
	TraitRange       curve.TraitRange `json:"traitRange"`       // Inclusive trait bounds
	MaxDice          int              `json:"maxDice"`          // Max dice per combination
	Monotonic        bool             `json:"monotonic"`        // Enforce non-decreasing fit
	RuneMultiplier   float64          `json:"runeMultiplier"`   // Informational scaling for the schema
	DiceAvailability []string         `json:"diceAvailability"` // Allowed die IDs
}

// CurveParams converts the JSON curve definition into engine parameters.
func (c *ClassDef) CurveParams() (curve.Params, error) {
	t, err := curve.ParseType(c.Curve.Type)
	if err != nil {
		return curve.Params{}, err
	}
	return curve.Params{
		Type:       t,
		Min:        c.Curve.Min,
		Max:        c.Curve.Max,
		Inflection: c.Curve.Inflection,
		Steepness:  c.Curve.Steepness,
	}, nil
}

// Constraints builds fit constraints from the class definition and the given
// tier classifier.
func (c *ClassDef) Constraints(tiers *tier.Classifier) fit.Constraints {
	return fit.Constraints{
		TraitRange:       c.TraitRange,
		MaxDice:          c.MaxDice,
		RuneMultiplier:   c.RuneMultiplier,
		Monotonic:        c.Monotonic,
		DiceAvailability: c.DiceAvailability,
		Tiers:            tiers,
	}
}

// ClassesFile represents the structure of classes.json.
type ClassesFile struct {
	Classes []ClassDef `json:"classes"`
}

// LoadClasses loads class definitions from the embedded classes.json file.
func LoadClasses() ([]ClassDef, error) {
	file, err := Load[ClassesFile]("classes.json")
	if err != nil {
		return nil, err
	}
	return file.Classes, nil
}

// MustLoadClasses loads class definitions, panicking on error.
func MustLoadClasses() []ClassDef {
	classes, err := LoadClasses()
	if err != nil {
		panic(err)
	}
	return classes
}
