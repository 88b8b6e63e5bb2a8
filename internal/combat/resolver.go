// Package combat provides damage resolution for duels.
package combat

import (
	"fmt"
	"math"

	"github.com/samdwyer/duelsim/internal/dice"
)

// Combatant is the interface for any entity that can participate in combat.
// Both players and monsters implement this interface.
type Combatant interface {
	// Identity
	GetName() string
	IsAlive() bool

	// Stats
	GetHP() int
	GetMaxHP() int
	GetAttack() int
	GetDefense() int
	GetPrecision() float64
	GetDamageVariation() float64
	GetCritChance() float64
	GetCritMultiplier() float64
	GetDodgeChance() float64
	GetArmorDecay() float64

	// Mutations
	TakeDamage(amount int) int // Returns actual damage taken
	WearArmor(amount int) int  // Returns actual armor removed
}

// ArmorModel selects how a defender's Defense stat mitigates a hit.
type ArmorModel string

const (
	// ArmorFlat subtracts Defense from every hit.
	ArmorFlat ArmorModel = "flat"
	// ArmorDecay treats Defense as a depletable pool that scales damage down
	// exponentially while it lasts.
	ArmorDecay ArmorModel = "decay"
)

// ParseArmorModel validates a model name. An empty name means ArmorFlat.
func ParseArmorModel(name string) (ArmorModel, error) {
	switch ArmorModel(name) {
	case "", ArmorFlat:
		return ArmorFlat, nil
	case ArmorDecay:
		return ArmorDecay, nil
	default:
		return "", fmt.Errorf("unknown armor model %q (want %q or %q)", name, ArmorFlat, ArmorDecay)
	}
}

// AttackRoll is the attacker's half of a turn.
type AttackRoll struct {
	Hit  bool
	Crit bool
	Raw  float64 // Damage before the defender's armor; 0 on a miss
}

// DefenseResult is the defender's half of a turn.
type DefenseResult struct {
	Dodged   bool
	Absorbed int // Armor removed from the pool (decay model)
	Damage   int // HP actually lost
}

// TurnResult contains the outcome of one attack.
type TurnResult struct {
	Attacker      string
	Defender      string
	Attack        AttackRoll
	Defense       DefenseResult
	DefenderHP    int
	DefenderArmor int
	Killed        bool
}

// Resolver calculates and applies attacks.
type Resolver struct {
	roller *dice.Roller
	model  ArmorModel
}

// NewResolver creates a resolver drawing from roller. An empty model means ArmorFlat.
func NewResolver(roller *dice.Roller, model ArmorModel) *Resolver {
	if model == "" {
		model = ArmorFlat
	}
	return &Resolver{
		roller: roller,
		model:  model,
	}
}

// Model returns the armor model in use.
func (r *Resolver) Model() ArmorModel {
	return r.model
}

// Resolve performs one full attack from attacker on defender and applies it.
func (r *Resolver) Resolve(attacker, defender Combatant) (TurnResult, error) {
	roll, err := r.Attack(attacker)
	if err != nil {
		return TurnResult{}, fmt.Errorf("%s attack: %w", attacker.GetName(), err)
	}
	def, err := r.Defend(defender, roll)
	if err != nil {
		return TurnResult{}, fmt.Errorf("%s defense: %w", defender.GetName(), err)
	}
	return TurnResult{
		Attacker:      attacker.GetName(),
		Defender:      defender.GetName(),
		Attack:        roll,
		Defense:       def,
		DefenderHP:    defender.GetHP(),
		DefenderArmor: defender.GetDefense(),
		Killed:        !defender.IsAlive(),
	}, nil
}

// Attack rolls precision, damage spread and critical hit for attacker.
func (r *Resolver) Attack(attacker Combatant) (AttackRoll, error) {
	hit, err := r.roller.Chance(attacker.GetPrecision())
	if err != nil {
		return AttackRoll{}, err
	}
	if !hit {
		return AttackRoll{}, nil
	}

	raw := r.roller.Centred(float64(attacker.GetAttack()), attacker.GetDamageVariation())
	if raw < 0 {
		raw = 0
	}

	crit, err := r.roller.Chance(attacker.GetCritChance())
	if err != nil {
		return AttackRoll{}, err
	}
	if crit {
		raw *= attacker.GetCritMultiplier()
	}

	return AttackRoll{Hit: true, Crit: crit, Raw: raw}, nil
}

// Defend rolls the defender's dodge and applies the armor model to roll.
func (r *Resolver) Defend(defender Combatant, roll AttackRoll) (DefenseResult, error) {
	if !roll.Hit {
		return DefenseResult{}, nil
	}

	dodged, err := r.roller.Chance(defender.GetDodgeChance())
	if err != nil {
		return DefenseResult{}, err
	}
	if dodged {
		return DefenseResult{Dodged: true}, nil
	}

	switch r.model {
	case ArmorDecay:
		return r.defendDecay(defender, roll.Raw), nil
	default:
		return r.defendFlat(defender, roll.Raw), nil
	}
}

// defendFlat: damage = raw - defense (min 0)
func (r *Resolver) defendFlat(defender Combatant, raw float64) DefenseResult {
	damage := int(math.Floor(raw)) - defender.GetDefense()
	if damage < 0 {
		damage = 0
	}
	return DefenseResult{Damage: defender.TakeDamage(damage)}
}

// defendDecay lets the armor pool soak the decayed hit. Once the pool is
// empty the raw damage goes straight to HP.
func (r *Resolver) defendDecay(defender Combatant, raw float64) DefenseResult {
	armor := defender.GetDefense()
	if armor <= 0 {
		return DefenseResult{Damage: defender.TakeDamage(int(math.Floor(raw)))}
	}

	final := dice.ExpDecay(raw, float64(armor), defender.GetArmorDecay())
	if final < float64(armor) {
		return DefenseResult{Absorbed: defender.WearArmor(int(math.Ceil(final)))}
	}

	absorbed := defender.WearArmor(armor)
	overflow := int(math.Floor(final - float64(armor)))
	return DefenseResult{
		Absorbed: absorbed,
		Damage:   defender.TakeDamage(overflow),
	}
}

// CalculateDamage previews the HP damage of a plain hit (no spread, no crit,
// no dodge) without applying it.
func (r *Resolver) CalculateDamage(attacker, defender Combatant) int {
	raw := float64(attacker.GetAttack())
	armor := defender.GetDefense()

	switch r.model {
	case ArmorDecay:
		if armor <= 0 {
			return int(math.Floor(raw))
		}
		final := dice.ExpDecay(raw, float64(armor), defender.GetArmorDecay())
		if final < float64(armor) {
			return 0
		}
		return int(math.Floor(final - float64(armor)))
	default:
		damage := int(math.Floor(raw)) - armor
		if damage < 0 {
			damage = 0
		}
		return damage
	}
}

// CanDamage reports whether attacker could ever reduce defender's HP.
// It uses the best possible roll: top of the spread and a critical hit when
// the attacker can land one.
func (r *Resolver) CanDamage(attacker, defender Combatant) bool {
	if attacker.GetPrecision() <= 0 || attacker.GetAttack() <= 0 {
		return false
	}
	if r.model == ArmorDecay {
		// The pool wears down by at least one point per landed hit.
		return true
	}
	return bestFlooredRaw(attacker) > defender.GetDefense()
}

// bestFlooredRaw is the highest floor(raw) an attack roll can produce.
// The spread's upper end is exclusive (see dice.Roller.Centred), so with
// variation the best value is the last integer strictly below it.
func bestFlooredRaw(attacker Combatant) int {
	best := float64(attacker.GetAttack())
	spread := false
	if f := attacker.GetDamageVariation(); f > 0 {
		half := math.Abs(best / f)
		if half < 1 {
			half = math.Ceil(half)
		}
		best += half
		spread = true
	}
	if attacker.GetCritChance() > 0 && attacker.GetCritMultiplier() > 1 {
		best *= attacker.GetCritMultiplier()
	}
	if spread {
		return int(math.Ceil(best)) - 1
	}
	return int(math.Floor(best))
}
