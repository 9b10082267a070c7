package components

// Mode is the forager state machine state.
type Mode uint8

const (
	ModeSearching    Mode = iota // Wandering away from home, recording the trail
	ModeCarrying                 // Found food, retracing the trail home
	ModeForcedReturn             // Search budget exhausted, retracing home empty-handed
)

// String returns the lowercase mode name used in logs and CSV output.
func (m Mode) String() string {
	switch m {
	case ModeSearching:
		return "searching"
	case ModeCarrying:
		return "carrying"
	case ModeForcedReturn:
		return "forced_return"
	default:
		return "unknown"
	}
}

// Forager holds the per-agent state machine and the path back home.
type Forager struct {
	Mode  Mode
	Trail []Position // Visited cells since leaving home, oldest first
}

// CarryingFood reports whether the agent holds food.
func (f *Forager) CarryingFood() bool {
	return f.Mode == ModeCarrying
}

// ReturningHome reports whether the agent gave up searching.
func (f *Forager) ReturningHome() bool {
	return f.Mode == ModeForcedReturn
}
