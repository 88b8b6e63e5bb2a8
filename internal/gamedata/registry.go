package gamedata

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"strings"
)

var (
	// ErrUnknownMonster is returned when a bestiary lookup misses.
	ErrUnknownMonster = errors.New("monster not found in bestiary")
	// ErrUnknownClass is returned when a class lookup misses.
	ErrUnknownClass = errors.New("unknown player class")
)

// Bestiary holds loaded monster definitions and provides lookup and spawning utilities.
type Bestiary struct {
	monsters    []MonsterDef
	index       map[string]int
	totalWeight int
}

// NewBestiary creates a bestiary from loaded monster definitions.
// Every definition is validated and ids must be unique.
func NewBestiary(monsters []MonsterDef) (*Bestiary, error) {
	b := &Bestiary{index: make(map[string]int, len(monsters))}
	for _, m := range monsters {
		key := normalizeID(m.ID)
		if _, dup := b.index[key]; dup {
			return nil, fmt.Errorf("duplicate monster id %q", m.ID)
		}
		if err := b.put(m); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// LoadBestiary loads and creates a bestiary from the embedded bestiary.json.
func LoadBestiary() (*Bestiary, error) {
	monsters, err := LoadMonsters()
	if err != nil {
		return nil, err
	}
	if len(monsters) == 0 {
		return nil, errors.New("no monsters loaded from bestiary.json")
	}
	return NewBestiary(monsters)
}

// Merge adds monsters to the bestiary. A definition whose id already exists
// replaces the previous one.
func (b *Bestiary) Merge(monsters []MonsterDef) error {
	for _, m := range monsters {
		if err := b.put(m); err != nil {
			return err
		}
	}
	return nil
}

func (b *Bestiary) put(m MonsterDef) error {
	if err := m.Validate(); err != nil {
		return err
	}
	key := normalizeID(m.ID)
	if i, ok := b.index[key]; ok {
		b.totalWeight -= b.monsters[i].SpawnWeight
		b.monsters[i] = m
	} else {
		b.index[key] = len(b.monsters)
		b.monsters = append(b.monsters, m)
	}
	b.totalWeight += m.SpawnWeight
	return nil
}

// GetByID returns the monster definition with the given ID, or nil if not found.
// Lookups ignore case and surrounding spaces.
func (b *Bestiary) GetByID(id string) *MonsterDef {
	i, ok := b.index[normalizeID(id)]
	if !ok {
		return nil
	}
	return &b.monsters[i]
}

// Lookup is GetByID with a descriptive error listing the known monsters.
func (b *Bestiary) Lookup(id string) (*MonsterDef, error) {
	if def := b.GetByID(id); def != nil {
		return def, nil
	}
	return nil, fmt.Errorf("%w: %q (known: %s)", ErrUnknownMonster, id, strings.Join(b.IDs(), ", "))
}

// SpawnRandom selects a random monster definition using weighted probability.
// Monsters with higher spawnWeight are more likely to be selected.
func (b *Bestiary) SpawnRandom(rng *rand.Rand) *MonsterDef {
	if b.totalWeight <= 0 || len(b.monsters) == 0 {
		return nil
	}

	roll := rng.Intn(b.totalWeight)

	cumulative := 0
	for i := range b.monsters {
		cumulative += b.monsters[i].SpawnWeight
		if roll < cumulative {
			return &b.monsters[i]
		}
	}

	return &b.monsters[0]
}

// IDs returns the sorted monster ids.
func (b *Bestiary) IDs() []string {
	ids := make([]string, 0, len(b.monsters))
	for _, m := range b.monsters {
		ids = append(ids, m.ID)
	}
	sort.Strings(ids)
	return ids
}

// All returns all monster definitions in load order.
func (b *Bestiary) All() []MonsterDef {
	return b.monsters
}

// Count returns the number of monster types in the bestiary.
func (b *Bestiary) Count() int {
	return len(b.monsters)
}

// =============================================================================
// ClassRegistry
// =============================================================================

// ClassRegistry holds the player base stats and class definitions.
type ClassRegistry struct {
	base    StatBlock
	classes map[string]*ClassDef
	all     []ClassDef
}

// NewClassRegistry creates a registry from loaded class definitions.
func NewClassRegistry(base StatBlock, classes []ClassDef) *ClassRegistry {
	registry := &ClassRegistry{
		base:    base,
		classes: make(map[string]*ClassDef),
		all:     classes,
	}
	for i := range classes {
		registry.classes[normalizeID(classes[i].ID)] = &classes[i]
	}
	return registry
}

// LoadClassRegistry loads and creates a registry from the embedded classes.json.
func LoadClassRegistry() (*ClassRegistry, error) {
	base, classes, err := LoadClasses()
	if err != nil {
		return nil, err
	}
	if len(classes) == 0 {
		return nil, errors.New("no classes loaded from classes.json")
	}
	return NewClassRegistry(base, classes), nil
}

// Base returns the stats every player starts from.
func (r *ClassRegistry) Base() StatBlock {
	return r.base
}

// GetByID returns the class definition with the given ID, or nil if not found.
func (r *ClassRegistry) GetByID(id string) *ClassDef {
	return r.classes[normalizeID(id)]
}

// Lookup is GetByID with a descriptive error.
func (r *ClassRegistry) Lookup(id string) (*ClassDef, error) {
	if def := r.GetByID(id); def != nil {
		return def, nil
	}
	return nil, fmt.Errorf("%w: %q (known: %s)", ErrUnknownClass, id, strings.Join(r.IDs(), ", "))
}

// IDs returns the sorted class ids.
func (r *ClassRegistry) IDs() []string {
	ids := make([]string, 0, len(r.all))
	for _, c := range r.all {
		ids = append(ids, c.ID)
	}
	sort.Strings(ids)
	return ids
}

// All returns all class definitions.
func (r *ClassRegistry) All() []ClassDef {
	return r.all
}

// Count returns the number of classes in the registry.
func (r *ClassRegistry) Count() int {
	return len(r.all)
}

func normalizeID(id string) string {
	return strings.ToLower(strings.TrimSpace(id))
}
