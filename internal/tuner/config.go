package tuner

// Config holds tuner configuration options.
type Config struct {
	// Seed for the global die optimizer's local search. A seed of 0 means a
	// time-based seed will be generated, so repeat runs explore differently.
	Seed int64

	// Iterations for the global die optimizer when triggered from the tuner.
	Iterations int

	// NumFaces for the shared die design.
	NumFaces int
}

// withDefaults fills zero-valued fields with workable defaults.
func (c Config) withDefaults() Config {
	if c.Iterations <= 0 {
		c.Iterations = 5000
	}
	if c.NumFaces <= 0 {
		c.NumFaces = 6
	}
	return c
}
