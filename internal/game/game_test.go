package game

import (
	"context"
	"errors"
	"testing"

	"github.com/samdwyer/duelsim/internal/combat"
	"github.com/samdwyer/duelsim/internal/gamedata"
)

// recordingPrinter counts what the game reports.
type recordingPrinter struct {
	starts, rounds, ends int
	turns                []Turn
	outcome              *Outcome
}

func (p *recordingPrinter) FightStart(a, b Fighter) { p.starts++ }
func (p *recordingPrinter) RoundStart(round int) { p.rounds++ }
func (p *recordingPrinter) Turn(cs *CombatState, turn Turn) { p.turns = append(p.turns, turn) }
func (p *recordingPrinter) FightEnd(outcome *Outcome) { p.ends++; p.outcome = outcome }

// exactClasses returns the shipped classes with every random element removed:
// every swing lands for exactly its attack value.
func exactClasses(t *testing.T) *gamedata.ClassRegistry {
	t.Helper()
	base, classes, err := gamedata.LoadClasses()
	if err != nil {
		t.Fatalf("LoadClasses: %v", err)
	}
	base.Precision = 1
	base.DamageVariation = 0
	base.CritChance = 0
	base.CritMultiplier = 1
	base.DodgeChance = 0
	return gamedata.NewClassRegistry(base, classes)
}

func newGame(t *testing.T, cfg Config, opts ...Option) *Game {
	t.Helper()
	g, err := New(cfg, opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return g
}

func TestWarriorVersusArcher(t *testing.T) {
	bestiary, err := gamedata.LoadBestiary()
	if err != nil {
		t.Fatalf("LoadBestiary: %v", err)
	}
	roster := NewRoster(exactClasses(t), bestiary)
	warrior, archer, err := roster.Pair("warrior", "", "archer", "", nil)
	if err != nil {
		t.Fatalf("Pair: %v", err)
	}

	printer := &recordingPrinter{}
	g := newGame(t, Config{Seed: 42, ArmorModel: combat.ArmorFlat}, WithPrinter(printer))

	outcome, err := g.Fight(context.Background(), warrior, archer)
	if err != nil {
		t.Fatalf("Fight: %v", err)
	}

	if outcome.WinnerName() != "Warrior" {
		t.Errorf("Expected Warrior to win, got %s", outcome.WinnerName())
	}
	if outcome.Rounds != 7 {
		t.Errorf("Expected 7 rounds, got %d", outcome.Rounds)
	}
	if outcome.Turns != 13 {
		t.Errorf("Expected 13 turns, got %d", outcome.Turns)
	}
	if warrior.GetHP() != 22 || outcome.WinnerHP != 22 {
		t.Errorf("Expected warrior HP 22, got %d (outcome %d)", warrior.GetHP(), outcome.WinnerHP)
	}
	if archer.GetHP() != 0 {
		t.Errorf("Expected archer HP 0, got %d", archer.GetHP())
	}
	// Each hit is 15-2 or 18-5; the last one only has 2 HP left to take.
	for _, turn := range outcome.Log {
		want := 13
		if turn.Number == 13 {
			want = 2
		}
		if turn.Result.Defense.Damage != want {
			t.Errorf("Turn %d dealt %d, want %d", turn.Number, turn.Result.Defense.Damage, want)
		}
	}

	if printer.starts != 1 || printer.ends != 1 {
		t.Errorf("Expected one start and one end, got %d/%d", printer.starts, printer.ends)
	}
	if printer.rounds != 7 || len(printer.turns) != 13 {
		t.Errorf("Printer saw %d rounds and %d turns, want 7/13", printer.rounds, len(printer.turns))
	}
	if printer.outcome != outcome {
		t.Error("Printer should receive the returned outcome")
	}
	if g.State() != StateFinished {
		t.Errorf("State = %v, want finished", g.State())
	}
	if g.CombatState().Phase != PhaseVictory {
		t.Errorf("Phase = %v, want victory", g.CombatState().Phase)
	}
}

func TestIdenticalFightersFirstMoverWins(t *testing.T) {
	a := newTestFighter(t, "Alpha", 50, 10, 0)
	b := newTestFighter(t, "Beta", 50, 10, 0)

	outcome, err := newGame(t, Config{Seed: 1}).Fight(context.Background(), a, b)
	if err != nil {
		t.Fatalf("Fight: %v", err)
	}

	if outcome.Winner != 0 {
		t.Errorf("Expected first mover to win, got fighter %d", outcome.Winner)
	}
	if outcome.Rounds != 5 || outcome.Turns != 9 {
		t.Errorf("Expected 5 rounds / 9 turns, got %d/%d", outcome.Rounds, outcome.Turns)
	}
	if a.GetHP() != 10 || b.GetHP() != 0 {
		t.Errorf("Expected HP 10/0, got %d/%d", a.GetHP(), b.GetHP())
	}
	if outcome.LoserFighter() != b {
		t.Error("LoserFighter() should be the second mover")
	}
}

func TestLoserAtZeroWinnerAlive(t *testing.T) {
	roster, err := LoadRoster()
	if err != nil {
		t.Fatalf("LoadRoster: %v", err)
	}

	for _, model := range []combat.ArmorModel{combat.ArmorFlat, combat.ArmorDecay} {
		for seed := int64(1); seed <= 40; seed++ {
			a, b, err := roster.Pair("warrior", "", "gobelin", "", nil)
			if err != nil {
				t.Fatalf("Pair: %v", err)
			}
			outcome, err := newGame(t, Config{Seed: seed, ArmorModel: model}).Fight(context.Background(), a, b)
			if err != nil {
				t.Fatalf("%s seed %d: %v", model, seed, err)
			}

			if hp := outcome.LoserFighter().GetHP(); hp != 0 {
				t.Errorf("%s seed %d: loser HP = %d, want 0", model, seed, hp)
			}
			if hp := outcome.WinnerFighter().GetHP(); hp <= 0 {
				t.Errorf("%s seed %d: winner HP = %d, want > 0", model, seed, hp)
			}
			for _, turn := range outcome.Log {
				if turn.Result.Defense.Damage < 0 || turn.HP[0] < 0 || turn.HP[1] < 0 {
					t.Errorf("%s seed %d: negative value in turn %+v", model, seed, turn)
				}
			}
		}
	}
}

func TestSameSeedSameFight(t *testing.T) {
	roster, err := LoadRoster()
	if err != nil {
		t.Fatalf("LoadRoster: %v", err)
	}

	run := func() *Outcome {
		a, b, err := roster.Pair("archer", "", "orc", "", nil)
		if err != nil {
			t.Fatalf("Pair: %v", err)
		}
		outcome, err := newGame(t, Config{Seed: 2024}).Fight(context.Background(), a, b)
		if err != nil {
			t.Fatalf("Fight: %v", err)
		}
		return outcome
	}

	first, second := run(), run()
	if len(first.Log) != len(second.Log) {
		t.Fatalf("Log lengths differ: %d vs %d", len(first.Log), len(second.Log))
	}
	for i := range first.Log {
		if first.Log[i] != second.Log[i] {
			t.Fatalf("Turn %d differs:\n%+v\n%+v", i+1, first.Log[i], second.Log[i])
		}
	}
	if first.ID == second.ID {
		t.Error("Expected distinct fight ids")
	}
	if first.Seed != 2024 {
		t.Errorf("Outcome seed = %d, want 2024", first.Seed)
	}
}

func TestZeroSeedIsResolved(t *testing.T) {
	g := newGame(t, Config{})
	if g.Seed() == 0 {
		t.Error("Expected a random seed to replace 0")
	}
	if g.Rand() == nil || g.Resolver() == nil {
		t.Error("Expected random stream and resolver")
	}
	if g.Resolver().Model() != combat.ArmorFlat {
		t.Errorf("Default armor model = %q, want flat", g.Resolver().Model())
	}
}

func TestNewRejectsUnknownArmorModel(t *testing.T) {
	if _, err := New(Config{Seed: 1, ArmorModel: "plate"}); err == nil {
		t.Error("Expected error for unknown armor model")
	}
}

func TestStalemateDetectedAtSetup(t *testing.T) {
	a := newTestFighter(t, "Alpha", 50, 5, 10)
	b := newTestFighter(t, "Beta", 50, 5, 10)

	printer := &recordingPrinter{}
	g := newGame(t, Config{Seed: 1}, WithPrinter(printer))
	_, err := g.Fight(context.Background(), a, b)
	if !errors.Is(err, ErrStalemate) {
		t.Fatalf("Expected ErrStalemate, got %v", err)
	}
	if printer.starts != 0 {
		t.Error("Stalemate should be reported before the fight starts")
	}
	if g.State() != StateFinished {
		t.Errorf("State = %v, want finished", g.State())
	}
}

func TestStalemateWithSpreadDetectedAtSetup(t *testing.T) {
	// 10 with variation 10 rolls in [9, 11), so it never beats defense 10.
	a := newTestFighter(t, "Alpha", 50, 10, 10)
	b := newTestFighter(t, "Beta", 50, 10, 10)
	a.DamageVariation = 10
	b.DamageVariation = 10

	printer := &recordingPrinter{}
	g := newGame(t, Config{Seed: 1}, WithPrinter(printer))
	_, err := g.Fight(context.Background(), a, b)
	if !errors.Is(err, ErrStalemate) {
		t.Fatalf("Expected ErrStalemate, got %v", err)
	}
	if printer.starts != 0 || printer.rounds != 0 {
		t.Errorf("Expected no rounds played, got %d starts and %d rounds", printer.starts, printer.rounds)
	}
}

func TestOneSidedFightIsNotStalemate(t *testing.T) {
	a := newTestFighter(t, "Alpha", 50, 20, 10)
	b := newTestFighter(t, "Beta", 50, 5, 0)

	outcome, err := newGame(t, Config{Seed: 1}).Fight(context.Background(), a, b)
	if err != nil {
		t.Fatalf("Fight: %v", err)
	}
	if outcome.Winner != 0 || a.GetHP() != 50 {
		t.Errorf("Expected untouched Alpha to win, got winner %d HP %d", outcome.Winner, a.GetHP())
	}
}

func TestMaxRoundsGuard(t *testing.T) {
	a := newTestFighter(t, "Alpha", 50, 10, 0)
	b := newTestFighter(t, "Beta", 50, 10, 0)
	a.DodgeChance = 1
	b.DodgeChance = 1

	g := newGame(t, Config{Seed: 1, MaxRounds: 3})
	_, err := g.Fight(context.Background(), a, b)
	if !errors.Is(err, ErrStalemate) {
		t.Fatalf("Expected ErrStalemate, got %v", err)
	}

	cs := g.CombatState()
	if cs.Phase != PhaseStalemate {
		t.Errorf("Phase = %v, want stalemate", cs.Phase)
	}
	if cs.Round != 3 || cs.TurnCount != 6 {
		t.Errorf("Expected 3 rounds / 6 turns, got %d/%d", cs.Round, cs.TurnCount)
	}
	for _, turn := range cs.Log {
		if !turn.Result.Defense.Dodged {
			t.Errorf("Turn %d should have been dodged", turn.Number)
		}
	}
}

func TestFightStopsOnCancelledContext(t *testing.T) {
	a := newTestFighter(t, "Alpha", 50, 10, 0)
	b := newTestFighter(t, "Beta", 50, 10, 0)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newGame(t, Config{Seed: 1}).Fight(ctx, a, b)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestFightRequiresTwoFighters(t *testing.T) {
	a := newTestFighter(t, "Alpha", 50, 10, 0)
	if _, err := newGame(t, Config{Seed: 1}).Fight(context.Background(), a, nil); !errors.Is(err, ErrUnknownCombatant) {
		t.Errorf("Expected ErrUnknownCombatant, got %v", err)
	}
}
