// Package main is the entry point for duelsim.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"math/rand"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/samdwyer/duelsim/internal/config"
	"github.com/samdwyer/duelsim/internal/entity"
	"github.com/samdwyer/duelsim/internal/game"
	"github.com/samdwyer/duelsim/internal/gamedata"
	"github.com/samdwyer/duelsim/internal/logging"
	"github.com/samdwyer/duelsim/internal/simulate"
	"github.com/samdwyer/duelsim/internal/storage/sqlite"
	"github.com/samdwyer/duelsim/internal/telemetry"
	"github.com/samdwyer/duelsim/internal/ui"
)

const historyLimit = 10

func main() {
	// A .env file is optional; env vars may be set directly.
	_ = godotenv.Load()

	cfg, err := parseConfig(flag.NewFlagSet("duelsim", flag.ExitOnError), os.Args[1:])
	if err != nil {
		config.Exitf("duelsim: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err = run(ctx, cfg, os.Stdout)
	stop()
	if err != nil {
		config.Exitf("duelsim: %v", err)
	}
}

func run(ctx context.Context, cfg Config, stdout io.Writer) error {
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	shutdown, err := telemetry.Setup(ctx, cfg.telemetryConfig())
	if err != nil {
		// Fights still work without observability.
		logger.Warn("telemetry setup failed", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			logger.Warn("telemetry shutdown failed", zap.Error(err))
		}
	}()

	roster, err := loadRoster(cfg.Catalog)
	if err != nil {
		return err
	}
	if cfg.List {
		return printCatalog(stdout, roster)
	}

	var store *sqlite.Store
	if cfg.DBPath != "" {
		if store, err = openStore(ctx, cfg.DBPath); err != nil {
			return err
		}
		defer func() {
			if err := store.Close(); err != nil {
				logger.Warn("close store", zap.Error(err))
			}
		}()
	}
	if cfg.History {
		return printHistory(ctx, stdout, store)
	}

	if cfg.Runs > 1 {
		return runBatch(ctx, cfg, roster, store, logger, stdout)
	}
	return runFight(ctx, cfg, roster, store, logger, stdout)
}

func newLogger(cfg Config) (*zap.Logger, error) {
	if cfg.LogFile != "" {
		return logging.NewFile(cfg.LogLevel, cfg.LogFile)
	}
	return logging.New(cfg.LogLevel, os.Stderr)
}

// loadRoster loads the embedded catalogs plus the optional monsters file,
// whose entries replace embedded monsters with the same id.
func loadRoster(catalog string) (*game.Roster, error) {
	roster, err := game.LoadRoster()
	if err != nil {
		return nil, fmt.Errorf("load catalogs: %w", err)
	}
	if catalog == "" {
		return roster, nil
	}
	monsters, err := gamedata.LoadMonstersFile(catalog)
	if err != nil {
		return nil, err
	}
	if err := roster.Bestiary().Merge(monsters); err != nil {
		return nil, fmt.Errorf("merge %s: %w", catalog, err)
	}
	return roster, nil
}

func openStore(ctx context.Context, path string) (*sqlite.Store, error) {
	cleanPath := filepath.Clean(path)
	if dir := filepath.Dir(cleanPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage dir: %w", err)
		}
	}
	store, err := sqlite.Open(ctx, cleanPath)
	if err != nil {
		return nil, fmt.Errorf("open fight history: %w", err)
	}
	return store, nil
}

func runFight(ctx context.Context, cfg Config, roster *game.Roster, store *sqlite.Store, logger *zap.Logger, stdout io.Writer) error {
	g, err := game.New(cfg.gameConfig(),
		game.WithPrinter(ui.NewConsolePrinter(stdout, cfg.NoColor)),
		game.WithLogger(logger),
	)
	if err != nil {
		return err
	}

	a, b, err := roster.Pair(cfg.FighterA, cfg.NameA, cfg.FighterB, cfg.NameB, g.Rand())
	if err != nil {
		return err
	}

	outcome, err := g.Fight(ctx, a, b)
	if err != nil {
		return err
	}

	if store != nil {
		if err := store.RecordFight(ctx, outcome); err != nil {
			return err
		}
	}

	if !cfg.Replay {
		return nil
	}
	screen, err := ui.NewScreen()
	if err != nil {
		return fmt.Errorf("open replay screen: %w", err)
	}
	defer screen.Close()

	err = ui.NewReplay(screen, outcome).Run(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func runBatch(ctx context.Context, cfg Config, roster *game.Roster, store *sqlite.Store, logger *zap.Logger, stdout io.Writer) error {
	opts := cfg.batchOptions()
	opts.Logger = logger
	if store != nil {
		opts.Recorder = store
	}

	summary, err := simulate.Run(ctx, opts, func(rng *rand.Rand) (game.Fighter, game.Fighter, error) {
		return roster.Pair(cfg.FighterA, cfg.NameA, cfg.FighterB, cfg.NameB, rng)
	})
	if err != nil {
		return err
	}

	if cfg.Out != "" {
		return summary.WriteFile(cfg.Out)
	}
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(summary)
}

func printCatalog(w io.Writer, roster *game.Roster) error {
	classes := roster.Classes()
	fmt.Fprintf(w, "Classes (%d)\n", classes.Count())
	defs := classes.All()
	for i := range defs {
		p, err := entity.NewPlayer("", &defs[i], classes.Base())
		if err != nil {
			return fmt.Errorf("class %s: %w", defs[i].ID, err)
		}
		fmt.Fprintln(w, "  "+ui.DescribeCombatant(p, defs[i].ID))
	}

	bestiary := roster.Bestiary()
	fmt.Fprintf(w, "Monsters (%d)\n", bestiary.Count())
	monsters := bestiary.All()
	for i := range monsters {
		m, err := entity.NewMonsterFromDef(&monsters[i])
		if err != nil {
			return err
		}
		fmt.Fprintln(w, "  "+ui.DescribeCombatant(m, m.ID()))
	}
	return nil
}

func printHistory(ctx context.Context, w io.Writer, store *sqlite.Store) error {
	fights, err := store.ListFights(ctx, historyLimit)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, "Recent fights")
	for _, f := range fights {
		fmt.Fprintf(w, "  %s  %s vs %s -> %s (%d rounds, %d HP, seed %d, %s)\n",
			f.CreatedAt.Format(time.DateTime), f.FighterA, f.FighterB, f.Winner,
			f.Rounds, f.WinnerHP, f.Seed, f.ArmorModel)
	}

	rates, err := store.WinRates(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, "Win rates")
	for _, r := range rates {
		fmt.Fprintf(w, "  %-16s %3d/%-3d %5.1f%%\n", r.Name, r.Wins, r.Fights, r.Rate()*100)
	}
	return nil
}
