package store

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

// Store owns the SQLite connection for users, attempts and entitlements.
// It is constructed once at startup and injected; nothing here is global.
type Store struct {
	db *sqlx.DB
}

// Open connects to the SQLite database at path, creating parent directories
// and the schema as needed.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create data directory: %w", err)
		}
	}
	db, err := sqlx.Connect("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	// SQLite does not support multiple writers.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			api_token TEXT UNIQUE NOT NULL,
			learning_language TEXT NOT NULL DEFAULT 'english',
			language_level TEXT NOT NULL DEFAULT 'beginner',
			plan TEXT NOT NULL DEFAULT 'free',
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS attempts (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id INTEGER NOT NULL REFERENCES users(id),
			scenario_id TEXT NOT NULL,
			turn_index INTEGER NOT NULL,
			overall_score INTEGER NOT NULL,
			feedback_json TEXT NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_attempts_user ON attempts(user_id, scenario_id)`,
		`CREATE TABLE IF NOT EXISTS plan_features (
			plan TEXT NOT NULL,
			feature TEXT NOT NULL,
			PRIMARY KEY (plan, feature)
		)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return s.seedPlans()
}

// seedPlans installs the default feature matrix. Idempotent.
func (s *Store) seedPlans() error {
	defaults := map[string][]string{
		"free":    {"score"},
		"premium": {"score", "dialogue", "transcribe", "speak", "live"},
	}
	for plan, features := range defaults {
		for _, feature := range features {
			if _, err := s.db.Exec(
				`INSERT OR IGNORE INTO plan_features (plan, feature) VALUES ($1, $2)`,
				plan, feature,
			); err != nil {
				return fmt.Errorf("seed plans: %w", err)
			}
		}
	}
	return nil
}
