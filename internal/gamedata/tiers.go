package gamedata

import (
	"github.com/samdwyer/diceforge/internal/tier"
)

// TiersFile represents the structure of tiers.json.
type TiersFile struct {
	Tiers []tier.Threshold `json:"tiers"`
}

// LoadTiers loads color tier thresholds from the embedded tiers.json file.
func LoadTiers() ([]tier.Threshold, error) {
	file, err := Load[TiersFile]("tiers.json")
	if err != nil {
		return nil, err
	}
	return file.Tiers, nil
}

// MustLoadClassifier builds a tier classifier from the embedded thresholds,
// panicking on error.
func MustLoadClassifier() *tier.Classifier {
	thresholds, err := LoadTiers()
	if err != nil {
		panic(err)
	}
	c, err := tier.NewClassifier(thresholds)
	if err != nil {
		panic(err)
	}
	return c
}
