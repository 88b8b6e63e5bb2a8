package game

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/samdwyer/duelsim/internal/combat"
	"github.com/samdwyer/duelsim/internal/dice"
	"github.com/samdwyer/duelsim/internal/telemetry"
)

// ErrStalemate is returned when neither fighter can win.
var ErrStalemate = errors.New("stalemate")

// Printer receives the fight as it happens. ui.ConsolePrinter is the
// terminal implementation.
type Printer interface {
	FightStart(a, b Fighter)
	RoundStart(round int)
	Turn(cs *CombatState, turn Turn)
	FightEnd(outcome *Outcome)
}

type nopPrinter struct{}

func (nopPrinter) FightStart(Fighter, Fighter) {}
func (nopPrinter) RoundStart(int) {}
func (nopPrinter) Turn(*CombatState, Turn) {}
func (nopPrinter) FightEnd(*Outcome) {}

// Outcome is the result of a finished fight.
type Outcome struct {
	ID         uuid.UUID
	Fighters   [2]Fighter
	Winner     int // Index into Fighters; 0 is the first mover
	Rounds     int
	Turns      int
	WinnerHP   int
	Seed       int64
	ArmorModel combat.ArmorModel
	Log        []Turn
	FinishedAt time.Time

	InitialArmor [2]int
}

// WinnerFighter returns the fighter left standing.
func (o *Outcome) WinnerFighter() Fighter {
	return o.Fighters[o.Winner]
}

// LoserFighter returns the fighter that went down.
func (o *Outcome) LoserFighter() Fighter {
	return o.Fighters[1-o.Winner]
}

// WinnerName returns the winner's display name.
func (o *Outcome) WinnerName() string {
	return o.WinnerFighter().GetName()
}

// Game runs fights with a single seeded random stream.
type Game struct {
	cfg         Config
	seed        int64
	roller      *dice.Roller
	resolver    *combat.Resolver
	printer     Printer
	logger      *zap.Logger
	state       State
	combatState *CombatState
}

// Option configures a Game.
type Option func(*Game)

// WithPrinter sends the fight to p as it happens.
func WithPrinter(p Printer) Option {
	return func(g *Game) {
		if p != nil {
			g.printer = p
		}
	}
}

// WithLogger sets the diagnostics logger.
func WithLogger(l *zap.Logger) Option {
	return func(g *Game) {
		if l != nil {
			g.logger = l
		}
	}
}

// New creates a game. A zero seed is replaced by a random one; Seed reports
// the value actually used.
func New(cfg Config, opts ...Option) (*Game, error) {
	model, err := combat.ParseArmorModel(string(cfg.ArmorModel))
	if err != nil {
		return nil, err
	}
	seed, err := dice.ResolveSeed(cfg.Seed)
	if err != nil {
		return nil, err
	}
	cfg.Seed = seed
	cfg.ArmorModel = model

	roller := dice.NewSeededRoller(seed)
	g := &Game{
		cfg:      cfg,
		seed:     seed,
		roller:   roller,
		resolver: combat.NewResolver(roller, model),
		printer:  nopPrinter{},
		logger:   zap.NewNop(),
		state:    StateSetup,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// Seed returns the seed of the game's random stream.
func (g *Game) Seed() int64 { return g.seed }

// Rand returns the game's random stream, e.g. for picking a random monster.
func (g *Game) Rand() *rand.Rand { return g.roller.Rand() }

// Resolver returns the damage resolver.
func (g *Game) Resolver() *combat.Resolver { return g.resolver }

// State returns the lifecycle state.
func (g *Game) State() State { return g.state }

// CombatState returns the state of the current or last fight, or nil.
func (g *Game) CombatState() *CombatState { return g.combatState }

// Fight runs a duel to the death; a attacks first. Both fighters are mutated.
func (g *Game) Fight(ctx context.Context, a, b Fighter) (*Outcome, error) {
	if a == nil || b == nil {
		return nil, fmt.Errorf("%w: two fighters are required", ErrUnknownCombatant)
	}
	g.state = StateSetup

	tracer := telemetry.Tracer("fight")
	ctx, span := tracer.Start(ctx, "fight.start")
	defer span.End()
	span.SetAttributes(
		attribute.String("fighter_a", a.GetName()),
		attribute.String("fighter_b", b.GetName()),
		attribute.Int64("seed", g.seed),
		attribute.String("armor_model", string(g.resolver.Model())),
	)

	if !g.resolver.CanDamage(a, b) && !g.resolver.CanDamage(b, a) {
		g.state = StateFinished
		span.SetAttributes(attribute.Bool("stalemate", true))
		return nil, fmt.Errorf("%w: neither %s nor %s can hurt the other", ErrStalemate, a.GetName(), b.GetName())
	}

	g.logger.Info("fight started",
		zap.String("fighter_a", a.GetName()),
		zap.String("fighter_b", b.GetName()),
		zap.Int64("seed", g.seed),
		zap.String("armor_model", string(g.resolver.Model())),
	)

	cs := NewCombatState(a, b)
	g.combatState = cs
	g.state = StateCombat
	g.printer.FightStart(a, b)

	maxRounds := g.cfg.maxRounds()
	for cs.Phase != PhaseVictory && cs.Round < maxRounds {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("fight interrupted: %w", err)
		}

		cs.Round++
		g.printer.RoundStart(cs.Round)

		for range cs.Fighters {
			if err := g.executeTurn(ctx, cs); err != nil {
				return nil, err
			}
			if cs.Phase == PhaseVictory {
				break
			}
		}
	}

	g.state = StateFinished
	if cs.Phase != PhaseVictory {
		cs.Phase = PhaseStalemate
		cs.LastMessage = "Nobody wins"
		span.SetAttributes(attribute.Bool("stalemate", true))
		return nil, fmt.Errorf("%w: no winner after %d rounds", ErrStalemate, maxRounds)
	}

	outcome := g.endFight(ctx, cs)
	span.SetAttributes(attribute.String("winner", outcome.WinnerName()))
	return outcome, nil
}

// executeTurn lets the active fighter attack the other one.
func (g *Game) executeTurn(ctx context.Context, cs *CombatState) error {
	tracer := telemetry.Tracer("fight")
	_, span := tracer.Start(ctx, "fight.turn")
	defer span.End()

	attacker, defender := cs.Attacker(), cs.Defender()
	result, err := g.resolver.Resolve(attacker, defender)
	if err != nil {
		span.SetAttributes(attribute.Bool("failed", true))
		return fmt.Errorf("turn %d: %w", cs.TurnCount+1, err)
	}
	turn := cs.record(result)

	span.SetAttributes(
		attribute.Int("round", turn.Round),
		attribute.Int("turn", turn.Number),
		attribute.String("attacker", result.Attacker),
		attribute.String("defender", result.Defender),
		attribute.Bool("hit", result.Attack.Hit),
		attribute.Bool("crit", result.Attack.Crit),
		attribute.Bool("dodged", result.Defense.Dodged),
		attribute.Int("damage", result.Defense.Damage),
		attribute.Int("absorbed", result.Defense.Absorbed),
	)
	g.logger.Debug("turn",
		zap.Int("round", turn.Round),
		zap.Int("turn", turn.Number),
		zap.String("attacker", result.Attacker),
		zap.String("defender", result.Defender),
		zap.Float64("raw", result.Attack.Raw),
		zap.Bool("crit", result.Attack.Crit),
		zap.Bool("dodged", result.Defense.Dodged),
		zap.Int("damage", result.Defense.Damage),
		zap.Int("absorbed", result.Defense.Absorbed),
		zap.Int("defender_hp", result.DefenderHP),
	)

	g.printer.Turn(cs, turn)
	return nil
}

// endFight builds the outcome and reports it.
func (g *Game) endFight(ctx context.Context, cs *CombatState) *Outcome {
	winner := cs.Winner()
	outcome := &Outcome{
		ID:         uuid.New(),
		Fighters:   cs.Fighters,
		Winner:     winner,
		Rounds:     cs.Round,
		Turns:      cs.TurnCount,
		WinnerHP:   cs.Fighters[winner].GetHP(),
		Seed:       g.seed,
		ArmorModel: g.resolver.Model(),
		Log:        cs.Log,
		FinishedAt: time.Now().UTC(),

		InitialArmor: cs.InitialArmor,
	}

	tracer := telemetry.Tracer("fight")
	_, span := tracer.Start(ctx, "fight.end")
	span.SetAttributes(
		attribute.String("outcome", "victory"),
		attribute.String("winner", outcome.WinnerName()),
		attribute.String("loser", outcome.LoserFighter().GetName()),
		attribute.Int("rounds", outcome.Rounds),
		attribute.Int("turns_taken", outcome.Turns),
		attribute.Int("winner_hp_remaining", outcome.WinnerHP),
	)
	span.End()

	g.logger.Info("fight finished",
		zap.String("fight_id", outcome.ID.String()),
		zap.String("winner", outcome.WinnerName()),
		zap.String("loser", outcome.LoserFighter().GetName()),
		zap.Int("rounds", outcome.Rounds),
		zap.Int("turns", outcome.Turns),
		zap.Int("winner_hp", outcome.WinnerHP),
	)

	g.printer.FightEnd(outcome)
	return outcome
}
