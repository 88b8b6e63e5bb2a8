package main

import (
	"flag"
	"fmt"

	"github.com/samdwyer/duelsim/internal/combat"
	"github.com/samdwyer/duelsim/internal/config"
	"github.com/samdwyer/duelsim/internal/game"
	"github.com/samdwyer/duelsim/internal/logging"
	"github.com/samdwyer/duelsim/internal/simulate"
	"github.com/samdwyer/duelsim/internal/telemetry"
)

// Config holds the duelsim settings. Env vars give the defaults, flags win.
type Config struct {
	FighterA   string `env:"DUELSIM_FIGHTER_A" envDefault:"warrior"`
	FighterB   string `env:"DUELSIM_FIGHTER_B" envDefault:"gobelin"`
	NameA      string `env:"DUELSIM_NAME_A"`
	NameB      string `env:"DUELSIM_NAME_B"`
	Seed       int64  `env:"DUELSIM_SEED"`
	ArmorModel string `env:"DUELSIM_ARMOR_MODEL" envDefault:"flat"`
	MaxRounds  int    `env:"DUELSIM_MAX_ROUNDS" envDefault:"1000"`

	Runs    int    `env:"DUELSIM_RUNS" envDefault:"1"`
	Workers int    `env:"DUELSIM_WORKERS" envDefault:"4"`
	Out     string `env:"DUELSIM_OUT"`

	DBPath  string `env:"DUELSIM_DB"`
	Catalog string `env:"DUELSIM_CATALOG"`

	Replay  bool `env:"DUELSIM_REPLAY"`
	List    bool
	History bool

	// NO_COLOR disables colour when set to anything non-empty.
	NoColorEnv string `env:"NO_COLOR"`
	NoColor    bool

	LogLevel string `env:"DUELSIM_LOG_LEVEL" envDefault:"warn"`
	LogFile  string `env:"DUELSIM_LOG_FILE"`

	OTelEndpoint     string `env:"DUELSIM_OTEL_ENDPOINT"`
	HoneycombKey     string `env:"HONEYCOMB_DUELSIM_API_KEY"`
	HoneycombDataset string `env:"HONEYCOMB_DUELSIM_DATASET"`
}

func bindFlags(cfg *Config, fs *flag.FlagSet) {
	fs.StringVar(&cfg.FighterA, "a", cfg.FighterA, "first fighter: class or monster id, optionally prefixed class: or monster:")
	fs.StringVar(&cfg.FighterB, "b", cfg.FighterB, "second fighter")
	fs.StringVar(&cfg.NameA, "name-a", cfg.NameA, "display name of the first fighter")
	fs.StringVar(&cfg.NameB, "name-b", cfg.NameB, "display name of the second fighter")
	fs.Int64Var(&cfg.Seed, "seed", cfg.Seed, "random seed (0 = random)")
	fs.StringVar(&cfg.ArmorModel, "armor", cfg.ArmorModel, "armor model: flat or decay")
	fs.IntVar(&cfg.MaxRounds, "max-rounds", cfg.MaxRounds, "rounds before a fight is called a stalemate")
	fs.IntVar(&cfg.Runs, "runs", cfg.Runs, "number of fights; more than 1 runs a batch and prints a JSON summary")
	fs.IntVar(&cfg.Workers, "workers", cfg.Workers, "batch workers")
	fs.StringVar(&cfg.Out, "out", cfg.Out, "write the batch summary JSON to this file")
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "SQLite fight history path")
	fs.StringVar(&cfg.Catalog, "catalog", cfg.Catalog, "extra monsters file (.json or .yaml, same keys as the embedded bestiary.json)")
	fs.BoolVar(&cfg.List, "list", false, "list classes and monsters, then exit")
	fs.BoolVar(&cfg.History, "history", false, "print recent fights and win rates from -db, then exit")
	fs.BoolVar(&cfg.Replay, "replay", cfg.Replay, "step through the fight on a terminal screen")
	fs.BoolVar(&cfg.NoColor, "no-color", cfg.NoColorEnv != "", "plain console output")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level: debug, info, warn, error")
	fs.StringVar(&cfg.LogFile, "log-file", cfg.LogFile, "append logs to this file instead of stderr")
}

// parseConfig reads env and args into a validated Config.
func parseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := config.ParseConfigFromArgs(&cfg, fs, args, bindFlags); err != nil {
		return Config{}, err
	}
	return cfg, cfg.validate()
}

func (c Config) validate() error {
	if c.Runs < 1 {
		return fmt.Errorf("-runs must be at least 1, got %d", c.Runs)
	}
	if c.Workers < 1 {
		return fmt.Errorf("-workers must be at least 1, got %d", c.Workers)
	}
	if c.MaxRounds < 1 {
		return fmt.Errorf("-max-rounds must be at least 1, got %d", c.MaxRounds)
	}
	if _, err := combat.ParseArmorModel(c.ArmorModel); err != nil {
		return err
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	if c.History && c.DBPath == "" {
		return fmt.Errorf("-history needs -db")
	}
	return nil
}

func (c Config) gameConfig() game.Config {
	return game.Config{
		Seed:       c.Seed,
		MaxRounds:  c.MaxRounds,
		ArmorModel: combat.ArmorModel(c.ArmorModel),
	}
}

func (c Config) batchOptions() simulate.Options {
	return simulate.Options{
		Runs:       c.Runs,
		Workers:    c.Workers,
		Seed:       c.Seed,
		MaxRounds:  c.MaxRounds,
		ArmorModel: combat.ArmorModel(c.ArmorModel),
	}
}

func (c Config) telemetryConfig() telemetry.Config {
	return telemetry.Config{
		Endpoint:         c.OTelEndpoint,
		HoneycombKey:     c.HoneycombKey,
		HoneycombDataset: c.HoneycombDataset,
	}
}
