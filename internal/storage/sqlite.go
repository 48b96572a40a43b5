package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const createSQLiteSearchCounts = `CREATE TABLE IF NOT EXISTS search_counts (
	query TEXT PRIMARY KEY,
	count INTEGER NOT NULL DEFAULT 1,
	movie_id INTEGER NOT NULL DEFAULT 0,
	title TEXT NOT NULL DEFAULT '',
	poster_url TEXT NOT NULL DEFAULT '',
	updated_at TIMESTAMP NOT NULL
)`

const createSQLiteSearchCountsIndex = `CREATE INDEX IF NOT EXISTS idx_search_counts_count ON search_counts(count DESC, query)`

// SQLiteStore keeps counters in a local SQLite file. It shares the table
// layout of PostgresStore.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens or creates the database at path.
func NewSQLiteStore(ctx context.Context, path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// One writer at a time; SQLite serializes anyway.
	db.SetMaxOpenConns(1)

	for _, stmt := range []string{createSQLiteSearchCounts, createSQLiteSearchCountsIndex} {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("creating schema: %w", err)
		}
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) RecordSearch(ctx context.Context, query string, movie Movie) error {
	if query == "" {
		return ErrEmptyQuery
	}

	now := time.Now().UTC()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO search_counts (query, count, movie_id, title, poster_url, updated_at)
		VALUES (?, 1, ?, ?, ?, ?)
		ON CONFLICT (query) DO UPDATE
		SET count = search_counts.count + 1, updated_at = excluded.updated_at`,
		query, movie.ID, movie.Title, movie.PosterURL, now,
	)
	if err != nil {
		return fmt.Errorf("recording search %q: %w", query, err)
	}
	return nil
}

func (s *SQLiteStore) ListTrending(ctx context.Context, limit int) ([]TrendingEntry, error) {
	if limit <= 0 {
		return []TrendingEntry{}, nil
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT query, count, movie_id, title, poster_url, updated_at
		FROM search_counts
		ORDER BY count DESC, query ASC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing trending: %w", err)
	}
	defer rows.Close()

	entries := []TrendingEntry{}
	for rows.Next() {
		var e TrendingEntry
		if err := rows.Scan(&e.Query, &e.Count, &e.MovieID, &e.Title, &e.PosterURL, &e.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning trending row: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
