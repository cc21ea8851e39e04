package store

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"time"

	"github.com/gofrs/flock"
	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// currentSchemaVersion is len(migrations).
const currentSchemaVersion = 1

// lockRetryDelay is how often a blocked writer retries the file lock.
const lockRetryDelay = 50 * time.Millisecond

// Store is the run history database.
type Store struct {
	db   *sql.DB
	lock *flock.Flock // nil for in-memory databases
}

// Open opens the history at path, creating it if needed, and brings its
// schema up to date while holding the write lock, so concurrent first
// opens migrate once. ":memory:" opens a private in-memory history with
// no file lock.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	// An in-memory database lives only as long as its one connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	s := &Store{db: db}
	if path != ":memory:" {
		s.lock = flock.New(path + ".lock")
	}
	err = s.withWriteLock(context.Background(), func() error {
		return initialise(db)
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return s, nil
}

// Close releases the database. It is safe to call more than once.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// withWriteLock runs fn while holding the cross-process write lock.
func (s *Store) withWriteLock(ctx context.Context, fn func() error) error {
	if s.lock == nil {
		return fn()
	}
	locked, err := s.lock.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return fmt.Errorf("acquire store lock: %w", err)
	}
	if !locked {
		return fmt.Errorf("acquire store lock: %s is held", s.lock.Path())
	}
	defer s.lock.Unlock()
	return fn()
}

// pragmas are applied on every open, before the schema.
var pragmas = []string{
	"PRAGMA journal_mode = WAL",
	"PRAGMA synchronous = NORMAL",
	"PRAGMA busy_timeout = 5000",
	"PRAGMA foreign_keys = ON",
}

func initialise(db *sql.DB) error {
	if err := db.Ping(); err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("%s: %w", pragma, err)
		}
	}
	// The outcomes cascade depends on it.
	if err := verifyPragma(db, "foreign_keys", "1"); err != nil {
		return err
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("create tables: %w", err)
	}
	return migrate(db)
}

// migrations[i] upgrades a history from user_version i to i+1.
var migrations = []string{
	`CREATE INDEX IF NOT EXISTS idx_runs_exercise_seq ON runs(exercise, seq)`,
}

// migrate runs every migration past the stored user_version.
func migrate(db *sql.DB) error {
	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("read user_version: %w", err)
	}
	for v := version; v < len(migrations); v++ {
		if _, err := db.Exec(migrations[v]); err != nil {
			return fmt.Errorf("migrate to v%d: %w", v+1, err)
		}
	}
	if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentSchemaVersion)); err != nil {
		return fmt.Errorf("set user_version: %w", err)
	}
	return nil
}

// verifyPragma reports an error unless pragma name reads as want.
func verifyPragma(db *sql.DB, name, want string) error {
	var got string
	if err := db.QueryRow("PRAGMA " + name).Scan(&got); err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	if got != want {
		return fmt.Errorf("%s = %q, want %q", name, got, want)
	}
	return nil
}
