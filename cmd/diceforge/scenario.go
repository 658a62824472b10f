package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/samdwyer/diceforge/internal/optimizer"
)

// Scenario is a YAML-described global optimization run: the class target
// curves plus the optimizer hyperparameters.
type Scenario struct {
	Classes []optimizer.ClassTargets `yaml:"classes"`
	Options optimizer.Options        `yaml:"options"`
}

// loadScenario reads and parses a scenario YAML file.
func loadScenario(path string) (*Scenario, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file %s: %w", path, err)
	}

	var sc Scenario
	if err := yaml.Unmarshal(content, &sc); err != nil {
		return nil, fmt.Errorf("failed to parse scenario YAML from %s: %w", path, err)
	}
	return &sc, nil
}
