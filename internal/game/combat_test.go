package game

import (
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/samdwyer/duelsim/internal/combat"
	"github.com/samdwyer/duelsim/internal/entity"
	"github.com/samdwyer/duelsim/internal/gamedata"
)

// testFighter is a bare stat block that satisfies Fighter.
type testFighter struct {
	entity.Stats
}

func (f *testFighter) Color() tcell.Color { return tcell.ColorWhite }
func (f *testFighter) Tag() string { return "Test" }

// newTestFighter creates a fighter that always hits, never crits and never dodges.
func newTestFighter(t *testing.T, name string, hp, attack, defense int) *testFighter {
	t.Helper()
	stats, err := entity.NewStats(name, gamedata.StatBlock{
		HP:             hp,
		Attack:         attack,
		Defense:        defense,
		Precision:      1,
		CritMultiplier: 1,
	})
	if err != nil {
		t.Fatalf("NewStats(%s): %v", name, err)
	}
	return &testFighter{Stats: stats}
}

func TestCombatPhaseString(t *testing.T) {
	tests := []struct {
		phase    CombatPhase
		expected string
	}{
		{PhaseFirstMover, "first_mover"},
		{PhaseSecondMover, "second_mover"},
		{PhaseVictory, "victory"},
		{PhaseStalemate, "stalemate"},
		{CombatPhase(99), "unknown"},
	}

	for _, tt := range tests {
		got := tt.phase.String()
		if got != tt.expected {
			t.Errorf("CombatPhase(%d).String() = %q, want %q", tt.phase, got, tt.expected)
		}
	}
}

func TestStateString(t *testing.T) {
	tests := []struct {
		state    State
		expected string
	}{
		{StateSetup, "setup"},
		{StateCombat, "combat"},
		{StateFinished, "finished"},
		{State(7), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.state.String(); got != tt.expected {
			t.Errorf("State(%d).String() = %q, want %q", tt.state, got, tt.expected)
		}
	}
}

func TestNewCombatState(t *testing.T) {
	a := newTestFighter(t, "Alpha", 10, 3, 1)
	b := newTestFighter(t, "Beta", 10, 3, 2)

	cs := NewCombatState(a, b)

	if cs.Phase != PhaseFirstMover {
		t.Errorf("NewCombatState().Phase = %v, want PhaseFirstMover", cs.Phase)
	}
	if cs.Attacker() != a || cs.Defender() != b {
		t.Error("NewCombatState() should let the first fighter attack first")
	}
	if cs.Round != 0 || cs.TurnCount != 0 {
		t.Errorf("NewCombatState() round/turns = %d/%d, want 0/0", cs.Round, cs.TurnCount)
	}
	if cs.LastMessage != "Fight begins!" {
		t.Errorf("NewCombatState().LastMessage = %q, want %q", cs.LastMessage, "Fight begins!")
	}
	if cs.InitialArmor != [2]int{1, 2} {
		t.Errorf("NewCombatState().InitialArmor = %v, want [1 2]", cs.InitialArmor)
	}
}

func TestCombatStateRecordAlternates(t *testing.T) {
	a := newTestFighter(t, "Alpha", 10, 3, 0)
	b := newTestFighter(t, "Beta", 10, 3, 0)
	cs := NewCombatState(a, b)
	cs.Round = 1

	b.TakeDamage(3)
	turn := cs.record(combat.TurnResult{Attacker: "Alpha", Defender: "Beta", DefenderHP: 7})

	if turn.Number != 1 || turn.Round != 1 || turn.Attacker != 0 || turn.Defender() != 1 {
		t.Errorf("Unexpected turn %+v", turn)
	}
	if turn.HP != [2]int{10, 7} {
		t.Errorf("turn.HP = %v, want [10 7]", turn.HP)
	}
	if cs.Active != 1 || cs.Phase != PhaseSecondMover {
		t.Errorf("After first turn: active %d phase %v", cs.Active, cs.Phase)
	}

	cs.record(combat.TurnResult{Attacker: "Beta", Defender: "Alpha"})
	if cs.Active != 0 || cs.Phase != PhaseFirstMover {
		t.Errorf("After second turn: active %d phase %v", cs.Active, cs.Phase)
	}
	if len(cs.Log) != 2 || cs.TurnCount != 2 {
		t.Errorf("Log length %d, turn count %d, want 2/2", len(cs.Log), cs.TurnCount)
	}
}

func TestCombatStateRecordVictory(t *testing.T) {
	a := newTestFighter(t, "Alpha", 10, 3, 0)
	b := newTestFighter(t, "Beta", 10, 3, 0)
	cs := NewCombatState(a, b)

	if cs.Winner() != -1 {
		t.Errorf("Winner() with both alive = %d, want -1", cs.Winner())
	}

	b.TakeDamage(b.GetHP())
	cs.record(combat.TurnResult{Attacker: "Alpha", Defender: "Beta", Killed: true})

	if cs.Phase != PhaseVictory {
		t.Errorf("Phase = %v, want PhaseVictory", cs.Phase)
	}
	if cs.Active != 0 {
		t.Errorf("Active = %d, winner should stay active", cs.Active)
	}
	if cs.Winner() != 0 {
		t.Errorf("Winner() = %d, want 0", cs.Winner())
	}
	if cs.LastMessage != "Alpha wins" {
		t.Errorf("LastMessage = %q, want %q", cs.LastMessage, "Alpha wins")
	}
	if cs.AliveCount() != 1 {
		t.Errorf("AliveCount() = %d, want 1", cs.AliveCount())
	}
}

func TestTurnDealt(t *testing.T) {
	turn := Turn{Result: combat.TurnResult{Defense: combat.DefenseResult{Damage: 4, Absorbed: 3}}}
	if turn.Dealt() != 7 {
		t.Errorf("Dealt() = %d, want 7", turn.Dealt())
	}
}
