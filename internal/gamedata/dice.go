package gamedata

import (
	"github.com/samdwyer/diceforge/internal/dice"
)

// DiceFile represents the structure of dice.json.
type DiceFile struct {
	Dice []dice.Def `json:"dice"`
}

// LoadDice loads raw die definitions from the embedded dice.json file.
func LoadDice() ([]dice.Def, error) {
	file, err := Load[DiceFile]("dice.json")
	if err != nil {
		return nil, err
	}
	return file.Dice, nil
}

// MustLoadCatalog loads and normalizes the embedded dice into a catalog,
// panicking on error.
func MustLoadCatalog() *dice.Catalog {
	defs, err := LoadDice()
	if err != nil {
		panic(err)
	}
	return dice.NewCatalog(defs)
}
