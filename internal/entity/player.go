package entity

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/samdwyer/duelsim/internal/combat"
	"github.com/samdwyer/duelsim/internal/gamedata"
)

// Class represents a player's class.
type Class int

const (
	ClassWarrior Class = iota
	ClassArcher
)

// String returns the class name.
func (c Class) String() string {
	switch c {
	case ClassWarrior:
		return "Warrior"
	case ClassArcher:
		return "Archer"
	default:
		return "Unknown"
	}
}

// ID returns the class identifier for data lookup.
func (c Class) ID() string {
	switch c {
	case ClassWarrior:
		return "warrior"
	case ClassArcher:
		return "archer"
	default:
		return "unknown"
	}
}

// ParseClass maps a class id to its Class.
func ParseClass(id string) (Class, error) {
	switch strings.ToLower(strings.TrimSpace(id)) {
	case "warrior":
		return ClassWarrior, nil
	case "archer":
		return ClassArcher, nil
	default:
		return 0, fmt.Errorf("%w: %q", gamedata.ErrUnknownClass, id)
	}
}

// Player is a combatant built from the player base stats and a class.
type Player struct {
	Stats
	Class Class
	Def   *gamedata.ClassDef
}

// NewPlayer creates a player of the given class. An empty name defaults to
// the class display name.
func NewPlayer(name string, def *gamedata.ClassDef, base gamedata.StatBlock) (*Player, error) {
	if def == nil {
		return nil, fmt.Errorf("%w: class definition is required", gamedata.ErrUnknownClass)
	}
	class, err := ParseClass(def.ID)
	if err != nil {
		return nil, err
	}
	if name == "" {
		name = def.Name
	}

	stats, err := NewStats(DisplayName(name), def.Apply(base))
	if err != nil {
		return nil, err
	}

	return &Player{
		Stats: stats,
		Class: class,
		Def:   def,
	}, nil
}

// Color returns the class color for rendering.
func (p *Player) Color() tcell.Color {
	if p.Def != nil {
		return p.Def.TCellColor()
	}
	return tcell.ColorYellow
}

// Tag returns a short description such as "Warrior".
func (p *Player) Tag() string {
	return p.Class.String()
}

// Ensure Player implements combat.Combatant
var _ combat.Combatant = (*Player)(nil)
