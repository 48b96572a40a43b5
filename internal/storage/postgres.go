package storage

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
)

const createSearchCounts = `CREATE TABLE IF NOT EXISTS search_counts (
	query VARCHAR(256) PRIMARY KEY,
	count BIGINT NOT NULL DEFAULT 1,
	movie_id INTEGER NOT NULL DEFAULT 0,
	title VARCHAR(500) NOT NULL DEFAULT '',
	poster_url VARCHAR(1000) NOT NULL DEFAULT '',
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

const createSearchCountsIndex = `CREATE INDEX IF NOT EXISTS idx_search_counts_count ON search_counts(count DESC, query)`

// PostgresStore keeps counters in the search_counts table.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore opens the database, pings it and creates the table.
func NewPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(2)

	for _, stmt := range []string{createSearchCounts, createSearchCountsIndex} {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("migration failed: %w\nSQL: %s", err, stmt)
		}
	}

	return &PostgresStore{db: db}, nil
}

func (s *PostgresStore) RecordSearch(ctx context.Context, query string, movie Movie) error {
	if query == "" {
		return ErrEmptyQuery
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO search_counts (query, count, movie_id, title, poster_url, updated_at)
		VALUES ($1, 1, $2, $3, $4, NOW())
		ON CONFLICT (query) DO UPDATE
		SET count = search_counts.count + 1, updated_at = NOW()`,
		query, movie.ID, movie.Title, movie.PosterURL,
	)
	if err != nil {
		return fmt.Errorf("recording search %q: %w", query, err)
	}
	return nil
}

func (s *PostgresStore) ListTrending(ctx context.Context, limit int) ([]TrendingEntry, error) {
	if limit <= 0 {
		return []TrendingEntry{}, nil
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT query, count, movie_id, title, poster_url, updated_at
		FROM search_counts
		ORDER BY count DESC, query ASC
		LIMIT $1`, limit)
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

func (s *PostgresStore) Close() error {
	return s.db.Close()
}
