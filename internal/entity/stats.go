// Package entity provides the combatants of a duel: players and monsters.
package entity

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/samdwyer/duelsim/internal/dice"
	"github.com/samdwyer/duelsim/internal/gamedata"
)

// ErrInvalidStat is returned when a stat block cannot produce a combatant.
var ErrInvalidStat = errors.New("invalid stat")

// Stats is the shared stat block of every combatant.
type Stats struct {
	Name string

	HP, MaxHP           int
	Attack              int
	Defense, MaxDefense int // Defense doubles as the armor pool in the decay model

	Precision       float64
	DamageVariation float64
	CritChance      float64
	CritMultiplier  float64
	DodgeChance     float64
	ArmorDecay      float64
}

// NewStats validates block and builds a full-health stat block.
// Probabilities are normalized, so percentages are accepted.
func NewStats(name string, block gamedata.StatBlock) (Stats, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Stats{}, fmt.Errorf("%w: name is required", ErrInvalidStat)
	}
	if block.HP <= 0 {
		return Stats{}, fmt.Errorf("%w: %s hp must be positive, got %d", ErrInvalidStat, name, block.HP)
	}
	if block.Attack < 0 {
		return Stats{}, fmt.Errorf("%w: %s attack must not be negative, got %d", ErrInvalidStat, name, block.Attack)
	}
	if block.Defense < 0 {
		return Stats{}, fmt.Errorf("%w: %s defense must not be negative, got %d", ErrInvalidStat, name, block.Defense)
	}
	if block.DamageVariation < 0 {
		return Stats{}, fmt.Errorf("%w: %s damage variation must not be negative", ErrInvalidStat, name)
	}
	if block.ArmorDecay < 0 {
		return Stats{}, fmt.Errorf("%w: %s armor decay must not be negative", ErrInvalidStat, name)
	}
	if block.CritMultiplier < 0 {
		return Stats{}, fmt.Errorf("%w: %s crit multiplier must not be negative", ErrInvalidStat, name)
	}

	s := Stats{
		Name:            name,
		HP:              block.HP,
		MaxHP:           block.HP,
		Attack:          block.Attack,
		Defense:         block.Defense,
		MaxDefense:      block.Defense,
		DamageVariation: block.DamageVariation,
		CritMultiplier:  block.CritMultiplier,
		ArmorDecay:      block.ArmorDecay,
	}
	if s.CritMultiplier < 1 {
		s.CritMultiplier = 1
	}

	chances := []struct {
		label string
		in    float64
		out   *float64
	}{
		{"precision", block.Precision, &s.Precision},
		{"crit chance", block.CritChance, &s.CritChance},
		{"dodge chance", block.DodgeChance, &s.DodgeChance},
	}
	for _, c := range chances {
		v, err := dice.Normalize(c.in)
		if err != nil {
			return Stats{}, fmt.Errorf("%w: %s %s: %v", ErrInvalidStat, name, c.label, err)
		}
		*c.out = v
	}

	return s, nil
}

// DisplayName title-cases a name for output ("gobelin" -> "Gobelin").
func DisplayName(name string) string {
	return cases.Title(language.English).String(strings.TrimSpace(name))
}

// =============================================================================
// Combatant interface implementation
// =============================================================================

// GetName returns the combatant's name.
func (s *Stats) GetName() string { return s.Name }

// IsAlive returns true if the combatant has HP remaining.
func (s *Stats) IsAlive() bool { return s.HP > 0 }

// GetHP returns current HP.
func (s *Stats) GetHP() int { return s.HP }

// GetMaxHP returns starting HP.
func (s *Stats) GetMaxHP() int { return s.MaxHP }

// GetAttack returns attack stat.
func (s *Stats) GetAttack() int { return s.Attack }

// GetDefense returns the current defense (remaining armor in the decay model).
func (s *Stats) GetDefense() int { return s.Defense }

func (s *Stats) GetPrecision() float64       { return s.Precision }
func (s *Stats) GetDamageVariation() float64 { return s.DamageVariation }
func (s *Stats) GetCritChance() float64      { return s.CritChance }
func (s *Stats) GetCritMultiplier() float64  { return s.CritMultiplier }
func (s *Stats) GetDodgeChance() float64     { return s.DodgeChance }
func (s *Stats) GetArmorDecay() float64      { return s.ArmorDecay }

// TakeDamage reduces HP and returns actual damage taken.
func (s *Stats) TakeDamage(amount int) int {
	if amount <= 0 {
		return 0
	}
	actual := amount
	if actual > s.HP {
		actual = s.HP
	}
	s.HP -= actual
	return actual
}

// WearArmor reduces the armor pool and returns the actual amount removed.
func (s *Stats) WearArmor(amount int) int {
	if amount <= 0 {
		return 0
	}
	actual := amount
	if actual > s.Defense {
		actual = s.Defense
	}
	s.Defense -= actual
	return actual
}

// Rename replaces the display name. Blank names are ignored.
func (s *Stats) Rename(name string) {
	if name = strings.TrimSpace(name); name != "" {
		s.Name = name
	}
}
