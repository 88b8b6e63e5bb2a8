// Package dice provides the probability and damage-roll primitives used by
// the combat resolver.
//
// # Determinism
//
// A Roller never touches the global math/rand source. Two Rollers built from
// the same seed produce the same sequence of outcomes for the same sequence of
// calls, which is what makes a fight reproducible from its seed.
package dice

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
)

// ErrNegativeProbability is returned when a probability below zero is supplied.
var ErrNegativeProbability = errors.New("probability can't be less than zero")

// Roller draws random outcomes from an injected source.
type Roller struct {
	rng *rand.Rand
}

// NewRoller wraps an existing random source.
func NewRoller(rng *rand.Rand) *Roller {
	return &Roller{rng: rng}
}

// NewSeededRoller creates a Roller with its own source seeded with seed.
func NewSeededRoller(seed int64) *Roller {
	return NewRoller(rand.New(rand.NewSource(seed)))
}

// Rand exposes the underlying source for callers that need other draws
// (e.g. weighted bestiary picks) from the same stream.
func (r *Roller) Rand() *rand.Rand {
	return r.rng
}

// Chance reports whether an event with probability p happens.
// p is normalized first, so 33 and 0.33 mean the same thing.
func (r *Roller) Chance(p float64) (bool, error) {
	norm, err := Normalize(p)
	if err != nil {
		return false, err
	}
	return r.rng.Float64() < norm, nil
}

// Centred returns a value drawn uniformly from
// [central - central/fraction, central + central/fraction].
//
// A half range below 1 is rounded up to 1 so small values still vary.
// A fraction <= 0 disables variation and returns central unchanged.
func (r *Roller) Centred(central, fraction float64) float64 {
	if fraction <= 0 || central == 0 {
		return central
	}
	half := math.Abs(central / fraction)
	if half < 1 {
		half = math.Ceil(half)
	}
	return central - half + r.rng.Float64()*2*half
}

// Normalize maps a value onto [0, 1]:
//   - [0, 1] is returned as is
//   - (1, 100] is read as a percentage and divided by 100
//   - anything above 100 becomes 1
//   - negative values are rejected
func Normalize(value float64) (float64, error) {
	switch {
	case math.IsNaN(value):
		return 0, fmt.Errorf("normalize %v: not a number", value)
	case value < 0:
		return 0, fmt.Errorf("normalize %v: %w", value, ErrNegativeProbability)
	case value <= 1:
		return value, nil
	case value <= 100:
		return value / 100, nil
	default:
		return 1, nil
	}
}

// ExpDecay reduces input exponentially with factor:
// input * exp(-k * factor). With input 50, factor 100 and k 0.0217 the
// result is roughly 5.7.
func ExpDecay(input, factor, k float64) float64 {
	return input * math.Exp(-k*factor)
}

// Round rounds f to places decimal places.
func Round(f float64, places int) float64 {
	m := math.Pow(10, float64(places))
	return math.Round(f*m) / m
}
