package gamedata

import "github.com/gdamore/tcell/v2"

// StatBlock holds the base stats every player starts from before class
// modifiers are applied.
type StatBlock struct {
	HP              int     `json:"hp"`
	Attack          int     `json:"attack"`
	Defense         int     `json:"defense"`
	Precision       float64 `json:"precision"`
	DamageVariation float64 `json:"damageVariation"`
	CritChance      float64 `json:"critChance"`
	CritMultiplier  float64 `json:"critMultiplier"`
	DodgeChance     float64 `json:"dodgeChance"`
	ArmorDecay      float64 `json:"armorDecay"`
}

// ClassDef defines a playable class loaded from JSON.
type ClassDef struct {
	ID                string  `json:"id"`    // Unique identifier matching entity.Class (e.g., "warrior")
	Name              string  `json:"name"`  // Display name (e.g., "Warrior")
	Color             string  `json:"color"` // "#E0C040" or a colour name
	HPModifier        int     `json:"hpModifier"`
	AttackModifier    int     `json:"attackModifier"`
	DefenseModifier   int     `json:"defenseModifier"`
	PrecisionModifier float64 `json:"precisionModifier"`
	CritModifier      float64 `json:"critModifier"`
	DodgeModifier     float64 `json:"dodgeModifier"`
}

// TCellColor returns the color as a tcell.Color.
func (c *ClassDef) TCellColor() tcell.Color {
	return colorOrDefault(c.Color)
}

// Apply returns base with the class modifiers added.
func (c *ClassDef) Apply(base StatBlock) StatBlock {
	out := base
	out.HP += c.HPModifier
	out.Attack += c.AttackModifier
	out.Defense += c.DefenseModifier
	out.Precision = addChance(base.Precision, c.PrecisionModifier)
	out.CritChance = addChance(base.CritChance, c.CritModifier)
	out.DodgeChance = addChance(base.DodgeChance, c.DodgeModifier)
	return out
}

// addChance adds a fractional modifier to a probability, keeping a fractional
// base inside [0, 1]. Percentage bases (> 1) are left for normalization.
func addChance(base, mod float64) float64 {
	sum := base + mod
	if base <= 1 && sum > 1 {
		return 1
	}
	if base >= 0 && sum < 0 {
		return 0
	}
	return sum
}

// ClassesFile represents the structure of classes.json.
type ClassesFile struct {
	Base    StatBlock  `json:"base"`
	Classes []ClassDef `json:"classes"`
}

// LoadClasses loads the player base stats and class definitions from the
// embedded classes.json file.
func LoadClasses() (StatBlock, []ClassDef, error) {
	file, err := Load[ClassesFile]("classes.json")
	if err != nil {
		return StatBlock{}, nil, err
	}
	return file.Base, file.Classes, nil
}
