// Package dice provides the die catalog used by the curve fitter and the
// global die optimizer.
package dice

import (
	"gonum.org/v1/gonum/stat"
)

// Def is a raw die definition as supplied by gamedata or an external caller.
type Def struct {
	ID    string    `json:"id"`
	Name  string    `json:"name"`
	Faces []float64 `json:"faces"`
}

// Die is a normalized die: a Def plus its expected value.
type Die struct {
	ID    string
	Name  string
	Faces []float64
	Mean  float64
}

// Catalog holds normalized dice in a fixed order. The order is significant:
// the combination search enumerates candidates in catalog order, so two
// catalogs with the same dice in the same order always fit identically.
type Catalog struct {
	dice []Die
	byID map[string]int
}

// NewCatalog normalizes raw definitions into a catalog. Dice with no faces
// are kept with Mean 0 rather than rejected; an empty input produces a valid
// empty catalog.
func NewCatalog(defs []Def) *Catalog {
	c := &Catalog{
		dice: make([]Die, 0, len(defs)),
		byID: make(map[string]int, len(defs)),
	}
	for _, d := range defs {
		die := Die{ID: d.ID, Name: d.Name, Faces: d.Faces}
		if len(d.Faces) > 0 {
			die.Mean = stat.Mean(d.Faces, nil)
		}
		c.byID[die.ID] = len(c.dice)
		c.dice = append(c.dice, die)
	}
	return c
}

// GetByID returns the die with the given ID, or nil if not found.
func (c *Catalog) GetByID(id string) *Die {
	i, ok := c.byID[id]
	if !ok {
		return nil
	}
	return &c.dice[i]
}

// All returns all dice in catalog order.
func (c *Catalog) All() []Die {
	return c.dice
}

// Count returns the number of dice in the catalog.
func (c *Catalog) Count() int {
	return len(c.dice)
}

// Filter returns a new catalog containing only the dice whose IDs appear in
// the allow-list. Catalog order is preserved; unknown IDs are ignored. A nil
// allow-list means no restriction and returns the catalog unchanged.
func (c *Catalog) Filter(allow []string) *Catalog {
	if allow == nil {
		return c
	}
	allowed := make(map[string]bool, len(allow))
	for _, id := range allow {
		allowed[id] = true
	}
	out := &Catalog{byID: make(map[string]int)}
	for _, d := range c.dice {
		if allowed[d.ID] {
			out.byID[d.ID] = len(out.dice)
			out.dice = append(out.dice, d)
		}
	}
	return out
}
