package sqlitemigrate

import (
	"context"
	"database/sql"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	_ "modernc.org/sqlite"
)

func openDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "migrate.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func appliedNames(ctx context.Context, db *sql.DB) ([]string, error) {
	rows, err := db.QueryContext(ctx, "SELECT name FROM "+migrationTable+" ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func TestApplyRunsOnce(t *testing.T) {
	ctx := context.Background()
	db := openDB(t)
	migrations := fstest.MapFS{
		"002_more.sql": {Data: []byte("-- +migrate Up\nALTER TABLE things ADD COLUMN size INTEGER;\n-- +migrate Down\nSELECT 1;\n")},
		"001_init.sql": {Data: []byte("-- +migrate Up\nCREATE TABLE things (id INTEGER PRIMARY KEY);\n")},
		"README.md":    {Data: []byte("not sql")},
	}

	for i := 0; i < 2; i++ {
		if err := Apply(ctx, db, migrations); err != nil {
			t.Fatalf("Apply (pass %d): %v", i+1, err)
		}
	}

	names, err := appliedNames(ctx, db)
	if err != nil {
		t.Fatalf("appliedNames: %v", err)
	}
	if strings.Join(names, ",") != "001_init.sql,002_more.sql" {
		t.Errorf("applied = %v", names)
	}
	if _, err := db.Exec("INSERT INTO things (id, size) VALUES (1, 2)"); err != nil {
		t.Errorf("Expected migrated schema, got %v", err)
	}
}

func TestApplyRollsBackFailure(t *testing.T) {
	ctx := context.Background()
	db := openDB(t)
	migrations := fstest.MapFS{
		"001_bad.sql": {Data: []byte("CREATE TABLE ok (id INTEGER);\nNOT SQL AT ALL;")},
	}

	if err := Apply(ctx, db, migrations); err == nil {
		t.Fatal("Expected error for invalid migration")
	}
	names, err := appliedNames(ctx, db)
	if err != nil {
		t.Fatalf("appliedNames: %v", err)
	}
	if len(names) != 0 {
		t.Errorf("Failed migration was recorded: %v", names)
	}
}

func TestApplyRequiresDB(t *testing.T) {
	if err := Apply(context.Background(), nil, fstest.MapFS{}); err == nil {
		t.Error("Expected error for nil db")
	}
}

func TestUpSection(t *testing.T) {
	tests := []struct {
		name, content, expected string
	}{
		{"no markers", "SELECT 1;", "SELECT 1;"},
		{"up only", "-- +migrate Up\nSELECT 2;", "\nSELECT 2;"},
		{"up and down", "-- +migrate Up\nSELECT 3;\n-- +migrate Down\nSELECT 4;", "\nSELECT 3;\n"},
	}

	for _, tt := range tests {
		if got := UpSection(tt.content); got != tt.expected {
			t.Errorf("%s: UpSection = %q, want %q", tt.name, got, tt.expected)
		}
	}
}
