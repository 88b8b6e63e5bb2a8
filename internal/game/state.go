// Package game runs a duel between two fighters and reports its outcome.
package game

// State represents the lifecycle of a Game.
type State int

const (
	// StateSetup is before the first turn: fighters are validated here.
	StateSetup State = iota
	// StateCombat is while turns are being exchanged.
	StateCombat
	// StateFinished is after a winner has been decided.
	StateFinished
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateSetup:
		return "setup"
	case StateCombat:
		return "combat"
	case StateFinished:
		return "finished"
	default:
		return "unknown"
	}
}
