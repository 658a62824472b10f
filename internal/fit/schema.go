package fit

import (
	"fmt"
)

// EffectKind tags the closed set of effect entries a breakpoint can carry.
type EffectKind string

const (
	EffectDice       EffectKind = "dice"
	EffectFlatStat   EffectKind = "flat_stat"
	EffectMultiplier EffectKind = "multiplier"
	EffectBenefit    EffectKind = "benefit"
	EffectBackupTrim EffectKind = "backup_trim"
)

// Effect is one entry of a breakpoint's effect list. Kind selects which of
// the remaining fields are meaningful; consumers must switch on Kind and
// treat unknown kinds as an error rather than ignore them.
type Effect struct {
	Kind EffectKind `json:"kind"`

	// EffectDice
	DieID string `json:"dieId,omitempty"`
	Count int    `json:"count,omitempty"`

	// EffectFlatStat
	Stat   string  `json:"stat,omitempty"`
	Amount float64 `json:"amount,omitempty"`

	// EffectMultiplier
	Factor float64 `json:"factor,omitempty"`

	// EffectBenefit
	BenefitID string `json:"benefitId,omitempty"`

	// EffectBackupTrim
	Keep int `json:"keep,omitempty"`
}

// String renders a single effect for logs and tables.
func (e Effect) String() string {
	switch e.Kind {
	case EffectDice:
		return fmt.Sprintf("%dx %s", e.Count, e.DieID)
	case EffectFlatStat:
		return fmt.Sprintf("%s %+g", e.Stat, e.Amount)
	case EffectMultiplier:
		return fmt.Sprintf("x%g", e.Factor)
	case EffectBenefit:
		return fmt.Sprintf("benefit %s", e.BenefitID)
	case EffectBackupTrim:
		return fmt.Sprintf("trim to %d", e.Keep)
	default:
		return fmt.Sprintf("unknown effect %q", string(e.Kind))
	}
}

// Breakpoint is one trait level's persisted configuration: the fitted values
// plus the effect entries the host writes to the class record.
type Breakpoint struct {
	Trait       int      `json:"trait"`
	TargetValue float64  `json:"targetValue"`
	ActualValue float64  `json:"actualValue"`
	Color       string   `json:"color,omitempty"`
	Effects     []Effect `json:"effects"`
}

// DiceCounts recovers the dice multiset from a breakpoint's effect list,
// inverting ResultsToEffectSchema for the dice entries.
func (b Breakpoint) DiceCounts() []DiceCount {
	out := make([]DiceCount, 0, len(b.Effects))
	for _, e := range b.Effects {
		if e.Kind == EffectDice {
			out = append(out, DiceCount{DieID: e.DieID, Count: e.Count})
		}
	}
	return out
}

// EffectSchema is the serialized form of a fitted curve: one breakpoint per
// trait in range. The host persists it verbatim; this package only defines
// the shape.
type EffectSchema struct {
	Breakpoints []Breakpoint `json:"breakpoints"`
}

// ResultsToEffectSchema serializes fit results into a breakpoint schema.
// Each result's dice multiset becomes dice-effect entries in multiset order;
// a non-zero runeMultiplier other than 1 is recorded as a multiplier effect
// on every breakpoint so the host can apply rune scaling downstream.
func ResultsToEffectSchema(results []Result, runeMultiplier float64) EffectSchema {
	schema := EffectSchema{Breakpoints: make([]Breakpoint, 0, len(results))}
	for _, r := range results {
		bp := Breakpoint{
			Trait:       r.Trait,
			TargetValue: r.TargetValue,
			ActualValue: r.ActualValue,
			Color:       r.Color,
			Effects:     make([]Effect, 0, len(r.Dice)+1),
		}
		for _, d := range r.Dice {
			bp.Effects = append(bp.Effects, Effect{Kind: EffectDice, DieID: d.DieID, Count: d.Count})
		}
		if runeMultiplier != 0 && runeMultiplier != 1 {
			bp.Effects = append(bp.Effects, Effect{Kind: EffectMultiplier, Factor: runeMultiplier})
		}
		schema.Breakpoints = append(schema.Breakpoints, bp)
	}
	return schema
}
