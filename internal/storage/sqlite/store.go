// Package sqlite keeps a history of finished fights in SQLite.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"

	"github.com/samdwyer/duelsim/internal/game"
	"github.com/samdwyer/duelsim/internal/storage/sqlite/migrations"
	"github.com/samdwyer/duelsim/internal/storage/sqlitemigrate"
)

// ErrAlreadyRecorded is returned when a fight id is stored twice.
var ErrAlreadyRecorded = errors.New("fight already recorded")

// Fight is one stored fight.
type Fight struct {
	ID         uuid.UUID
	FighterA   string
	FighterB   string
	Winner     string
	Rounds     int
	Turns      int
	WinnerHP   int
	Seed       int64
	ArmorModel string
	CreatedAt  time.Time
}

// WinRate is a fighter's record over the whole history.
type WinRate struct {
	Name   string
	Fights int
	Wins   int
}

// Rate returns Wins / Fights.
func (w WinRate) Rate() float64 {
	if w.Fights == 0 {
		return 0
	}
	return float64(w.Wins) / float64(w.Fights)
}

// Store persists fights in SQLite.
type Store struct {
	sqlDB *sql.DB
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens the history database at path and applies embedded migrations.
func Open(ctx context.Context, path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := sqlitemigrate.Apply(ctx, sqlDB, migrations.FS); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// RecordFight stores a finished fight.
func (s *Store) RecordFight(ctx context.Context, outcome *game.Outcome) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if outcome == nil {
		return fmt.Errorf("outcome is required")
	}
	if outcome.Winner < 0 || outcome.Winner > 1 {
		return fmt.Errorf("outcome has no winner")
	}

	id := outcome.ID
	if id == uuid.Nil {
		id = uuid.New()
	}
	createdAt := outcome.FinishedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO fights (
		   id,
		   fighter_a,
		   fighter_b,
		   winner,
		   rounds,
		   turns,
		   winner_hp,
		   seed,
		   armor_model,
		   created_at
		 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id.String(),
		outcome.Fighters[0].GetName(),
		outcome.Fighters[1].GetName(),
		outcome.WinnerName(),
		outcome.Rounds,
		outcome.Turns,
		outcome.WinnerHP,
		outcome.Seed,
		string(outcome.ArmorModel),
		toMillis(createdAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %s", ErrAlreadyRecorded, id)
		}
		return fmt.Errorf("record fight: %w", err)
	}
	return nil
}

// ListFights returns up to limit fights, newest first. A limit of 0 or less
// returns all of them.
func (s *Store) ListFights(ctx context.Context, limit int) ([]Fight, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = -1
	}

	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT id, fighter_a, fighter_b, winner, rounds, turns, winner_hp, seed, armor_model, created_at
		 FROM fights
		 ORDER BY created_at DESC, rowid DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list fights: %w", err)
	}
	defer rows.Close()

	var fights []Fight
	for rows.Next() {
		var (
			f         Fight
			id        string
			createdAt int64
		)
		if err := rows.Scan(
			&id,
			&f.FighterA,
			&f.FighterB,
			&f.Winner,
			&f.Rounds,
			&f.Turns,
			&f.WinnerHP,
			&f.Seed,
			&f.ArmorModel,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("scan fight: %w", err)
		}
		if f.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("parse fight id %q: %w", id, err)
		}
		f.CreatedAt = fromMillis(createdAt)
		fights = append(fights, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate fights: %w", err)
	}
	return fights, nil
}

// WinRates returns every fighter's record, best win rate first.
func (s *Store) WinRates(ctx context.Context) ([]WinRate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT name, COUNT(*) AS fights, SUM(won) AS wins
		 FROM (
		   SELECT fighter_a AS name, fighter_a = winner AS won FROM fights
		   UNION ALL
		   SELECT fighter_b AS name, fighter_b = winner AS won FROM fights
		 )
		 GROUP BY name
		 ORDER BY CAST(SUM(won) AS REAL) / COUNT(*) DESC, COUNT(*) DESC, name`,
	)
	if err != nil {
		return nil, fmt.Errorf("win rates: %w", err)
	}
	defer rows.Close()

	var rates []WinRate
	for rows.Next() {
		var w WinRate
		if err := rows.Scan(&w.Name, &w.Fights, &w.Wins); err != nil {
			return nil, fmt.Errorf("scan win rate: %w", err)
		}
		rates = append(rates, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate win rates: %w", err)
	}
	return rates, nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint failed")
}
