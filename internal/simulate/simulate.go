// Package simulate runs batches of independent fights and summarises them.
//
// Fight i of a batch gets its own random stream seeded with seed+i and its own
// fighters, so fights share nothing and the summary does not depend on how
// many workers ran them.
package simulate

import (
	"context"
	"errors"
	"fmt"
	"math/rand"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/samdwyer/duelsim/internal/combat"
	"github.com/samdwyer/duelsim/internal/dice"
	"github.com/samdwyer/duelsim/internal/game"
	"github.com/samdwyer/duelsim/internal/telemetry"
)

// DefaultWorkers is used when Options.Workers is not positive.
const DefaultWorkers = 4

// zeroSeedStandIn replaces a derived seed of 0, which game.New would
// otherwise swap for a random one.
const zeroSeedStandIn = 0x5eed

// Builder creates the two fighters of one fight. rng is that fight's own
// stream, e.g. for picking a random monster.
type Builder func(rng *rand.Rand) (a, b game.Fighter, err error)

// Recorder receives every finished fight, in batch order.
type Recorder interface {
	RecordFight(ctx context.Context, outcome *game.Outcome) error
}

// Options configures a batch.
type Options struct {
	Runs       int
	Workers    int
	Seed       int64 // 0 means a random base seed
	MaxRounds  int
	ArmorModel combat.ArmorModel
	Logger     *zap.Logger
	Recorder   Recorder // Optional
}

// Summary aggregates a batch. It is written as JSON for outcome analysis.
type Summary struct {
	Fights         int            `json:"fights"`
	Seed           int64          `json:"seed"`
	ArmorModel     string         `json:"armor_model"`
	Wins           map[string]int `json:"wins"`
	FirstMoverWins int            `json:"first_mover_wins"`
	AvgRounds      float64        `json:"avg_rounds"`
	AvgWinnerHP    float64        `json:"avg_winner_hp"`
	Stalemates     int            `json:"stalemates"`
}

// WinRate returns the share of decided fights won by name.
func (s *Summary) WinRate(name string) float64 {
	decided := s.Fights - s.Stalemates
	if decided <= 0 {
		return 0
	}
	return float64(s.Wins[name]) / float64(decided)
}

// FightSeed returns the seed of fight index in a batch seeded with base.
func FightSeed(base int64, index int) int64 {
	seed := base + int64(index)
	if seed == 0 {
		return zeroSeedStandIn
	}
	return seed
}

type result struct {
	outcome   *game.Outcome
	stalemate bool
}

// Run plays opts.Runs fights built by build and summarises them.
// A stalemate is counted; any other error stops the batch.
func Run(ctx context.Context, opts Options, build Builder) (*Summary, error) {
	if build == nil {
		return nil, errors.New("fight builder is required")
	}
	if opts.Runs <= 0 {
		return nil, fmt.Errorf("runs must be positive, got %d", opts.Runs)
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}
	if workers > opts.Runs {
		workers = opts.Runs
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	model, err := combat.ParseArmorModel(string(opts.ArmorModel))
	if err != nil {
		return nil, err
	}
	base, err := dice.ResolveSeed(opts.Seed)
	if err != nil {
		return nil, err
	}

	tracer := telemetry.Tracer("simulate")
	ctx, span := tracer.Start(ctx, "simulate.batch")
	defer span.End()
	span.SetAttributes(
		attribute.Int("runs", opts.Runs),
		attribute.Int("workers", workers),
		attribute.Int64("seed", base),
		attribute.String("armor_model", string(model)),
	)

	results := make([]result, opts.Runs)
	jobs := make(chan int)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(jobs)
		for i := 0; i < opts.Runs; i++ {
			select {
			case jobs <- i:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
		return nil
	})
	for w := 0; w < workers; w++ {
		g.Go(func() error {
			for i := range jobs {
				res, err := runOne(gctx, i, base, opts.MaxRounds, model, build)
				if err != nil {
					return fmt.Errorf("fight %d: %w", i, err)
				}
				results[i] = res
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		span.SetAttributes(attribute.Bool("failed", true))
		return nil, err
	}

	summary := summarize(results, base, model)

	if opts.Recorder != nil {
		for _, res := range results {
			if res.outcome == nil {
				continue
			}
			if err := opts.Recorder.RecordFight(ctx, res.outcome); err != nil {
				return nil, fmt.Errorf("record fight: %w", err)
			}
		}
	}

	span.SetAttributes(
		attribute.Int("first_mover_wins", summary.FirstMoverWins),
		attribute.Int("stalemates", summary.Stalemates),
		attribute.Float64("avg_rounds", summary.AvgRounds),
	)
	logger.Info("batch finished",
		zap.Int("fights", summary.Fights),
		zap.Int64("seed", summary.Seed),
		zap.Int("workers", workers),
		zap.Int("stalemates", summary.Stalemates),
		zap.Float64("avg_rounds", summary.AvgRounds),
	)
	return summary, nil
}

// runOne plays fight i on its own stream.
func runOne(ctx context.Context, i int, base int64, maxRounds int, model combat.ArmorModel, build Builder) (result, error) {
	g, err := game.New(game.Config{
		Seed:       FightSeed(base, i),
		MaxRounds:  maxRounds,
		ArmorModel: model,
	})
	if err != nil {
		return result{}, err
	}
	a, b, err := build(g.Rand())
	if err != nil {
		return result{}, err
	}

	outcome, err := g.Fight(ctx, a, b)
	if errors.Is(err, game.ErrStalemate) {
		return result{stalemate: true}, nil
	}
	if err != nil {
		return result{}, err
	}
	// The turn log is only needed for replays.
	outcome.Log = nil
	return result{outcome: outcome}, nil
}

// summarize folds results in batch order.
func summarize(results []result, seed int64, model combat.ArmorModel) *Summary {
	s := &Summary{
		Fights:     len(results),
		Seed:       seed,
		ArmorModel: string(model),
		Wins:       map[string]int{},
	}

	var rounds, winnerHP int
	for _, res := range results {
		if res.stalemate {
			s.Stalemates++
			continue
		}
		o := res.outcome
		s.Wins[o.WinnerName()]++
		if o.Winner == 0 {
			s.FirstMoverWins++
		}
		rounds += o.Rounds
		winnerHP += o.WinnerHP
	}

	if decided := s.Fights - s.Stalemates; decided > 0 {
		s.AvgRounds = dice.Round(float64(rounds)/float64(decided), 2)
		s.AvgWinnerHP = dice.Round(float64(winnerHP)/float64(decided), 2)
	}
	return s
}
