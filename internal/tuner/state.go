package tuner

// Mode represents which view the tuner is showing.
type Mode int

const (
	// ModeFit shows one class's fitted curve and breakpoint table.
	ModeFit Mode = iota
	// ModeOptimizer shows the shared-die design result.
	ModeOptimizer
)

// String returns a human-readable mode name.
func (m Mode) String() string {
	switch m {
	case ModeFit:
		return "Fit"
	case ModeOptimizer:
		return "Optimizer"
	default:
		return "Unknown"
	}
}
