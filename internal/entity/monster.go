package entity

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/samdwyer/duelsim/internal/combat"
	"github.com/samdwyer/duelsim/internal/gamedata"
)

// MoveCategory is how a monster gets around.
type MoveCategory int

const (
	Terrestrial MoveCategory = iota
	Aerian
	Aquatic
)

// String returns the category name.
func (c MoveCategory) String() string {
	switch c {
	case Terrestrial:
		return "Terrestrial"
	case Aerian:
		return "Aerian"
	case Aquatic:
		return "Aquatic"
	default:
		return "Unknown"
	}
}

// ParseMoveCategory maps a catalog category to a MoveCategory.
// An empty category means Terrestrial.
func ParseMoveCategory(s string) (MoveCategory, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "terrestrial":
		return Terrestrial, nil
	case "aerian":
		return Aerian, nil
	case "aquatic":
		return Aquatic, nil
	default:
		return 0, fmt.Errorf("unknown move category %q", s)
	}
}

// Monster is a combatant created from a bestiary template.
type Monster struct {
	Stats
	Def      *gamedata.MonsterDef
	Category MoveCategory
}

// NewMonsterFromDef creates a fresh monster from a bestiary definition.
// The definition itself is never mutated.
func NewMonsterFromDef(def *gamedata.MonsterDef) (*Monster, error) {
	if def == nil {
		return nil, fmt.Errorf("%w: monster definition is required", gamedata.ErrUnknownMonster)
	}
	if err := def.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidStat, err)
	}
	category, err := ParseMoveCategory(def.Category)
	if err != nil {
		return nil, fmt.Errorf("monster %s: %w", def.ID, err)
	}

	name := def.Name
	if name == "" {
		name = def.ID
	}
	stats, err := NewStats(DisplayName(name), gamedata.StatBlock{
		HP:              def.HP,
		Attack:          def.Attack,
		Defense:         def.Defense,
		Precision:       def.Precision,
		DamageVariation: def.DamageVariation,
		CritChance:      def.CritChance,
		CritMultiplier:  def.CritMultiplier,
		DodgeChance:     def.DodgeChance,
		ArmorDecay:      def.ArmorDecay,
	})
	if err != nil {
		return nil, err
	}

	return &Monster{
		Stats:    stats,
		Def:      def,
		Category: category,
	}, nil
}

// ID returns the monster's bestiary identifier.
func (m *Monster) ID() string {
	return m.Def.ID
}

// Color returns the tcell color for this monster.
func (m *Monster) Color() tcell.Color {
	return m.Def.TCellColor()
}

// Tag returns a short description such as "Aerian".
func (m *Monster) Tag() string {
	return m.Category.String()
}

// Ensure Monster implements combat.Combatant
var _ combat.Combatant = (*Monster)(nil)
