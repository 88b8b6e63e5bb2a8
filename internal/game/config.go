package game

import "github.com/samdwyer/duelsim/internal/combat"

// DefaultMaxRounds bounds a fight whose fighters keep missing each other.
const DefaultMaxRounds = 1000

// Config holds fight configuration options.
type Config struct {
	// Seed for random number generation. The same seed replays the same fight.
	// A seed of 0 means a random seed will be generated.
	Seed int64

	// MaxRounds stops a fight that has not produced a winner. 0 means DefaultMaxRounds.
	MaxRounds int

	// ArmorModel selects how Defense mitigates hits. Empty means combat.ArmorFlat.
	ArmorModel combat.ArmorModel
}

func (c Config) maxRounds() int {
	if c.MaxRounds <= 0 {
		return DefaultMaxRounds
	}
	return c.MaxRounds
}
