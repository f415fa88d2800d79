package queue

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"showrunner/internal/config"
)

// Store persists production queue items in SQLite. One daemon and any number
// of offline CLI invocations may open the same file; WAL mode plus the busy
// retry below keep the writers from tripping over each other.
type Store struct {
	db   *sql.DB
	path string
}

// Open connects to the queue database at the configured path, creating the
// file and schema on first use.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	dbPath := cfg.QueueDatabasePath()
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	} {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close releases the database connection. Safe on a nil store.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Writes that lose the WAL write lock race get SQLITE_BUSY even with the
// busy_timeout pragma, because modernc's driver surfaces the code rather
// than blocking in all paths. Retry a handful of times with backoff.
const (
	sqliteBusyCode   = 5
	busyMaxAttempts  = 5
	busyFirstBackoff = 10 * time.Millisecond
	busyMaxBackoff   = 200 * time.Millisecond
)

func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	var coder interface{ Code() int }
	if errors.As(err, &coder) && coder.Code() == sqliteBusyCode {
		return true
	}
	return strings.Contains(err.Error(), "SQLITE_BUSY") ||
		strings.Contains(err.Error(), "database is locked")
}

func (s *Store) execWithRetry(ctx context.Context, query string, args ...any) (sql.Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	backoff := busyFirstBackoff
	for attempt := 1; ; attempt++ {
		res, err := s.db.ExecContext(ctx, query, args...)
		if err == nil {
			return res, nil
		}
		if !isSQLiteBusy(err) || attempt == busyMaxAttempts {
			return nil, err
		}
		select {
		case <-time.After(backoff):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		if backoff *= 2; backoff > busyMaxBackoff {
			backoff = busyMaxBackoff
		}
	}
}

func (s *Store) execWithoutResultRetry(ctx context.Context, query string, args ...any) error {
	_, err := s.execWithRetry(ctx, query, args...)
	return err
}
