package gamedata

import (
	"github.com/samdwyer/diceforge/internal/curve"
	"github.com/samdwyer/diceforge/internal/optimizer"
)

// OptimizerTargets converts class definitions into the global optimizer's
// input form: each class contributes one target per trait, sampled from its
// curve, with the class's maxDice as the suggested dice count.
func OptimizerTargets(classes []ClassDef) ([]optimizer.ClassTargets, error) {
	out := make([]optimizer.ClassTargets, 0, len(classes))
	for _, cls := range classes {
		params, err := cls.CurveParams()
		if err != nil {
			return nil, err
		}
		points, err := curve.Generate(params, cls.TraitRange)
		if err != nil {
			return nil, err
		}

		ct := optimizer.ClassTargets{
			Key:        cls.Key,
			Name:       cls.Name,
			Color:      cls.Color,
			TraitRange: cls.TraitRange,
			Targets:    make([]optimizer.Target, 0, len(points)),
		}
		for _, pt := range points {
			ct.Targets = append(ct.Targets, optimizer.Target{
				Trait:     pt.Trait,
				TargetEV:  pt.Value,
				DiceCount: cls.MaxDice,
				Color:     cls.Color,
			})
		}
		out = append(out, ct)
	}
	return out, nil
}
