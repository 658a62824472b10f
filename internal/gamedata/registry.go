package gamedata

import (
	"errors"
)

// ClassRegistry holds loaded class definitions and provides lookup utilities.
type ClassRegistry struct {
	classes []ClassDef
	byKey   map[string]*ClassDef
}

// NewClassRegistry creates a registry from loaded class definitions.
func NewClassRegistry(classes []ClassDef) *ClassRegistry {
	registry := &ClassRegistry{
		classes: classes,
		byKey:   make(map[string]*ClassDef, len(classes)),
	}
	for i := range classes {
		registry.byKey[classes[i].Key] = &classes[i]
	}
	return registry
}

// LoadClassRegistry loads and creates a registry from the embedded classes.json.
func LoadClassRegistry() (*ClassRegistry, error) {
	classes, err := LoadClasses()
	if err != nil {
		return nil, err
	}
	if len(classes) == 0 {
		return nil, errors.New("no classes loaded from classes.json")
	}
	return NewClassRegistry(classes), nil
}

// MustLoadClassRegistry loads a registry, panicking on error.
func MustLoadClassRegistry() *ClassRegistry {
	registry, err := LoadClassRegistry()
	if err != nil {
		panic(err)
	}
	return registry
}

// GetByKey returns the class definition with the given key, or nil if not found.
func (r *ClassRegistry) GetByKey(key string) *ClassDef {
	return r.byKey[key]
}

// At returns the class definition at the given index, wrapping around the
// roster. Used by the tuner to cycle through classes.
func (r *ClassRegistry) At(i int) *ClassDef {
	if len(r.classes) == 0 {
		return nil
	}
	i %= len(r.classes)
	if i < 0 {
		i += len(r.classes)
	}
	return &r.classes[i]
}

// All returns all class definitions.
func (r *ClassRegistry) All() []ClassDef {
	return r.classes
}

// Count returns the number of classes in the registry.
func (r *ClassRegistry) Count() int {
	return len(r.classes)
}
