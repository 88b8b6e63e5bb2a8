package gamedata

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
)

// MonsterDef defines a bestiary monster loaded from JSON or YAML.
type MonsterDef struct {
	ID              string  `json:"id" yaml:"id"`                           // Unique identifier (e.g., "dragon")
	Name            string  `json:"name" yaml:"name"`                       // Display name (e.g., "Dragon")
	Category        string  `json:"category" yaml:"category"`               // terrestrial, aerian or aquatic
	Color           string  `json:"color" yaml:"color"`                     // "#D03020" or a colour name
	HP              int     `json:"hp" yaml:"hp"`                           // Starting hit points
	Attack          int     `json:"attack" yaml:"attack"`                   // Base damage per hit
	Defense         int     `json:"defense" yaml:"defense"`                 // Flat reduction or armor pool
	Precision       float64 `json:"precision" yaml:"precision"`             // Chance a swing lands
	DamageVariation float64 `json:"damageVariation" yaml:"damageVariation"` // Fraction of attack used as half range
	CritChance      float64 `json:"critChance" yaml:"critChance"`
	CritMultiplier  float64 `json:"critMultiplier" yaml:"critMultiplier"`
	DodgeChance     float64 `json:"dodgeChance" yaml:"dodgeChance"`
	ArmorDecay      float64 `json:"armorDecay" yaml:"armorDecay"`
	SpawnWeight     int     `json:"spawnWeight" yaml:"spawnWeight"` // Relative pick frequency for random opponents
}

// TCellColor returns the color as a tcell.Color.
func (m *MonsterDef) TCellColor() tcell.Color {
	return colorOrDefault(m.Color)
}

// Validate rejects definitions that could not produce a living combatant.
func (m *MonsterDef) Validate() error {
	if m.ID == "" {
		return fmt.Errorf("monster id is required")
	}
	if m.HP <= 0 {
		return fmt.Errorf("monster %s: hp must be positive, got %d", m.ID, m.HP)
	}
	if m.Attack < 0 || m.Defense < 0 {
		return fmt.Errorf("monster %s: attack and defense must not be negative", m.ID)
	}
	if m.SpawnWeight < 0 {
		return fmt.Errorf("monster %s: spawn weight must not be negative", m.ID)
	}
	if _, err := ParseColor(m.Color); err != nil {
		return fmt.Errorf("monster %s: %w", m.ID, err)
	}
	return nil
}

// BestiaryFile represents the structure of bestiary.json.
type BestiaryFile struct {
	Monsters []MonsterDef `json:"monsters" yaml:"monsters"`
}

// LoadMonsters loads monster definitions from the embedded bestiary.json file.
func LoadMonsters() ([]MonsterDef, error) {
	file, err := Load[BestiaryFile]("bestiary.json")
	if err != nil {
		return nil, err
	}
	return file.Monsters, nil
}

// LoadMonstersFile loads extra monster definitions from a JSON or YAML file on disk.
func LoadMonstersFile(path string) ([]MonsterDef, error) {
	file, err := LoadFile[BestiaryFile](path)
	if err != nil {
		return nil, err
	}
	return file.Monsters, nil
}
