package game

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"

	"github.com/samdwyer/duelsim/internal/entity"
	"github.com/samdwyer/duelsim/internal/gamedata"
)

// ErrUnknownCombatant is returned when a selector names neither a class nor a monster.
var ErrUnknownCombatant = errors.New("unknown combatant")

// Selector prefixes. A bare id is tried as a class first, then as a monster.
const (
	classPrefix   = "class:"
	monsterPrefix = "monster:"

	// RandomMonster picks a bestiary entry by spawn weight.
	RandomMonster = "random"
)

// Roster builds fresh fighters from the class and bestiary catalogs.
type Roster struct {
	classes  *gamedata.ClassRegistry
	bestiary *gamedata.Bestiary
}

// NewRoster creates a roster over the given catalogs.
func NewRoster(classes *gamedata.ClassRegistry, bestiary *gamedata.Bestiary) *Roster {
	return &Roster{
		classes:  classes,
		bestiary: bestiary,
	}
}

// LoadRoster creates a roster over the embedded catalogs.
func LoadRoster() (*Roster, error) {
	classes, err := gamedata.LoadClassRegistry()
	if err != nil {
		return nil, err
	}
	bestiary, err := gamedata.LoadBestiary()
	if err != nil {
		return nil, err
	}
	return NewRoster(classes, bestiary), nil
}

// Classes returns the class catalog.
func (r *Roster) Classes() *gamedata.ClassRegistry { return r.classes }

// Bestiary returns the monster catalog.
func (r *Roster) Bestiary() *gamedata.Bestiary { return r.bestiary }

// Build creates a full-health fighter for selector. name overrides the display
// name when set. rng is only drawn from for "monster:random" (or "random").
// Only catalog misses wrap ErrUnknownCombatant; a bad entry surfaces its own error.
func (r *Roster) Build(selector, name string, rng *rand.Rand) (Fighter, error) {
	sel := strings.ToLower(strings.TrimSpace(selector))

	var (
		f   Fighter
		err error
	)
	switch {
	case strings.HasPrefix(sel, classPrefix):
		f, err = r.buildPlayer(strings.TrimPrefix(sel, classPrefix), name)
	case strings.HasPrefix(sel, monsterPrefix):
		f, err = r.buildMonster(strings.TrimPrefix(sel, monsterPrefix), rng)
	case sel == RandomMonster:
		f, err = r.buildMonster(sel, rng)
	case r.classes.GetByID(sel) != nil:
		f, err = r.buildPlayer(sel, name)
	case r.bestiary.GetByID(sel) != nil:
		f, err = r.buildMonster(sel, rng)
	default:
		return nil, fmt.Errorf("%w: %q (classes: %s; monsters: %s)", ErrUnknownCombatant, selector,
			strings.Join(r.classes.IDs(), ", "), strings.Join(r.bestiary.IDs(), ", "))
	}
	if err != nil {
		return nil, err
	}

	if _, ok := f.(*entity.Monster); ok && name != "" {
		rename(f, entity.DisplayName(name))
	}
	return f, nil
}

// Pair builds both fighters of a duel. When both end up with the same name the
// second one is suffixed so the turn log stays readable.
func (r *Roster) Pair(selA, nameA, selB, nameB string, rng *rand.Rand) (Fighter, Fighter, error) {
	a, err := r.Build(selA, nameA, rng)
	if err != nil {
		return nil, nil, fmt.Errorf("fighter a: %w", err)
	}
	b, err := r.Build(selB, nameB, rng)
	if err != nil {
		return nil, nil, fmt.Errorf("fighter b: %w", err)
	}
	if a.GetName() == b.GetName() {
		rename(b, b.GetName()+" II")
	}
	return a, b, nil
}

func (r *Roster) buildPlayer(id, name string) (Fighter, error) {
	def, err := r.classes.Lookup(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnknownCombatant, err)
	}
	p, err := entity.NewPlayer(name, def, r.classes.Base())
	if err != nil {
		return nil, fmt.Errorf("build class %s: %w", def.ID, err)
	}
	return p, nil
}

func (r *Roster) buildMonster(id string, rng *rand.Rand) (Fighter, error) {
	var def *gamedata.MonsterDef
	if id == RandomMonster {
		if rng == nil {
			return nil, fmt.Errorf("random monster needs a random source")
		}
		def = r.bestiary.SpawnRandom(rng)
		if def == nil {
			return nil, fmt.Errorf("%w: %w: bestiary has no spawnable monsters", ErrUnknownCombatant, gamedata.ErrUnknownMonster)
		}
	} else {
		var err error
		if def, err = r.bestiary.Lookup(id); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrUnknownCombatant, err)
		}
	}
	m, err := entity.NewMonsterFromDef(def)
	if err != nil {
		return nil, fmt.Errorf("build monster %s: %w", def.ID, err)
	}
	return m, nil
}

func rename(f Fighter, name string) {
	if n, ok := f.(interface{ Rename(string) }); ok {
		n.Rename(name)
	}
}
