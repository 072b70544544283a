package leaderboard

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "modernc.org/sqlite"

	"dogstory/internal/player"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// SQLiteStore is a Store backed by a file-based SQLite database, migrated
// to its latest schema on open.
type SQLiteStore struct {
	db *sql.DB
}

// Open creates (if absent) and migrates the database at path, returning a
// ready-to-use Store.
func Open(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("leaderboard: opening database: %w", err)
	}

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, err
	}

	if err := migrateUp(db); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLiteStore{db: db}, nil
}

func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("leaderboard: applying %q: %w", p, err)
		}
	}
	return nil
}

func migrateUp(db *sql.DB) error {
	sourceDriver, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("leaderboard: opening embedded migrations: %w", err)
	}

	dbDriver, err := sqlite.WithInstance(db, &sqlite.Config{})
	if err != nil {
		return fmt.Errorf("leaderboard: creating sqlite migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, "sqlite", dbDriver)
	if err != nil {
		return fmt.Errorf("leaderboard: creating migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("leaderboard: applying migrations: %w", err)
	}
	return nil
}

// MigrationsFS exposes the embedded migration set. The `migrate` CLI
// subcommand does not use it; it applies migrations through Open.
func MigrationsFS() fs.FS {
	return migrationsFS
}

// Save inserts a retired player's final standing. A retirement_id already
// present is silently ignored rather than erroring, making retirement safe
// to replay after a crash between the leaderboard write and its
// acknowledgement upstream.
func (s *SQLiteStore) Save(p player.Retired) error {
	_, err := s.db.Exec(
		`INSERT OR IGNORE INTO retired_players (retirement_id, name, score, play_time_ms) VALUES (?, ?, ?, ?)`,
		p.ID, p.Name, p.Score, p.PlayTimeMs,
	)
	if err != nil {
		return fmt.Errorf("leaderboard: saving retired player: %w", err)
	}
	return nil
}

// Top returns up to limit ranked entries (highest score first, ties broken
// by lower play time, then by name) starting after offset entries.
func (s *SQLiteStore) Top(limit, offset int) ([]Entry, error) {
	rows, err := s.db.Query(
		`SELECT name, score, play_time_ms FROM retired_players
		 ORDER BY score DESC, play_time_ms ASC, name ASC
		 LIMIT ? OFFSET ?`,
		limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("leaderboard: querying top entries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Name, &e.Score, &e.PlayTimeMs); err != nil {
			return nil, fmt.Errorf("leaderboard: scanning entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Close releases the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
