package game

import (
	"github.com/gdamore/tcell/v2"

	"github.com/samdwyer/duelsim/internal/combat"
)

// Fighter is a combatant that can be shown on screen.
// Both entity.Player and entity.Monster implement this interface.
type Fighter interface {
	combat.Combatant
	Color() tcell.Color
	Tag() string // Short description, e.g. "Warrior" or "Aerian"
}

// CombatPhase represents the current phase of a fight.
type CombatPhase int

const (
	// PhaseFirstMover - the first listed fighter is about to attack
	PhaseFirstMover CombatPhase = iota
	// PhaseSecondMover - the second fighter is about to counter
	PhaseSecondMover
	// PhaseVictory - one fighter is down
	PhaseVictory
	// PhaseStalemate - nobody can win
	PhaseStalemate
)

// String returns a human-readable phase name.
func (p CombatPhase) String() string {
	switch p {
	case PhaseFirstMover:
		return "first_mover"
	case PhaseSecondMover:
		return "second_mover"
	case PhaseVictory:
		return "victory"
	case PhaseStalemate:
		return "stalemate"
	default:
		return "unknown"
	}
}

// Turn is one attack within a fight, with both fighters' state afterwards.
type Turn struct {
	Round    int // 1-based
	Number   int // 1-based, across the whole fight
	Attacker int // Index into CombatState.Fighters
	Result   combat.TurnResult
	HP       [2]int
	Armor    [2]int
}

// Dealt returns everything the hit took off the defender: HP plus armor worn.
func (t Turn) Dealt() int {
	return t.Result.Defense.Damage + t.Result.Defense.Absorbed
}

// Defender returns the index of the fighter that was attacked.
func (t Turn) Defender() int {
	return 1 - t.Attacker
}

// CombatState holds all state for one fight.
type CombatState struct {
	Phase       CombatPhase
	Fighters    [2]Fighter
	Active      int    // Which fighter attacks next (0 or 1)
	Round       int    // Current round, 0 before the first turn
	TurnCount   int    // Total turns taken
	LastMessage string // Message to display from last action
	Log         []Turn

	InitialArmor [2]int // Defense of each fighter before the first turn
}

// NewCombatState creates the state for a fight; a moves first.
func NewCombatState(a, b Fighter) *CombatState {
	return &CombatState{
		Phase:        PhaseFirstMover,
		Fighters:     [2]Fighter{a, b},
		LastMessage:  "Fight begins!",
		InitialArmor: [2]int{a.GetDefense(), b.GetDefense()},
	}
}

// Attacker returns the fighter whose turn it is.
func (cs *CombatState) Attacker() Fighter {
	return cs.Fighters[cs.Active]
}

// Defender returns the fighter about to be attacked.
func (cs *CombatState) Defender() Fighter {
	return cs.Fighters[1-cs.Active]
}

// AliveCount returns the number of fighters still standing.
func (cs *CombatState) AliveCount() int {
	count := 0
	for _, f := range cs.Fighters {
		if f.IsAlive() {
			count++
		}
	}
	return count
}

// Winner returns the index of the last fighter standing, or -1 while both
// (or neither) are alive.
func (cs *CombatState) Winner() int {
	if cs.AliveCount() != 1 {
		return -1
	}
	if cs.Fighters[0].IsAlive() {
		return 0
	}
	return 1
}

// record appends result to the log and advances the turn order.
func (cs *CombatState) record(result combat.TurnResult) Turn {
	cs.TurnCount++
	turn := Turn{
		Round:    cs.Round,
		Number:   cs.TurnCount,
		Attacker: cs.Active,
		Result:   result,
	}
	for i, f := range cs.Fighters {
		turn.HP[i] = f.GetHP()
		turn.Armor[i] = f.GetDefense()
	}
	cs.Log = append(cs.Log, turn)

	if result.Killed {
		cs.Phase = PhaseVictory
		cs.LastMessage = cs.Attacker().GetName() + " wins"
		return turn
	}

	cs.Active = 1 - cs.Active
	if cs.Active == 0 {
		cs.Phase = PhaseFirstMover
	} else {
		cs.Phase = PhaseSecondMover
	}
	return turn
}
