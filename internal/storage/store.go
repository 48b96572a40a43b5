package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"
)

var searchesBucket = []byte("searches")

// Store is the embedded Counter backed by a bbolt file.
type Store struct {
	db *bolt.DB
}

// NewStore opens (or creates) the database at dbPath. timeout bounds the wait
// for the file lock when another process holds it.
func NewStore(dbPath string, timeout time.Duration) (*Store, error) {
	if timeout <= 0 {
		timeout = 1 * time.Second
	}

	db, err := bolt.Open(dbPath, 0o600, &bolt.Options{Timeout: timeout})
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, createErr := tx.CreateBucketIfNotExists(searchesBucket)
		return createErr
	})

	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating buckets: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) RecordSearch(ctx context.Context, query string, movie Movie) error {
	if query == "" {
		return ErrEmptyQuery
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(searchesBucket)

		entry := TrendingEntry{
			Query:     query,
			MovieID:   movie.ID,
			Title:     movie.Title,
			PosterURL: movie.PosterURL,
		}
		if data := b.Get([]byte(query)); data != nil {
			if err := json.Unmarshal(data, &entry); err != nil {
				return fmt.Errorf("decoding entry %q: %w", query, err)
			}
		}

		entry.Count++
		entry.UpdatedAt = time.Now().UTC()

		data, err := json.Marshal(entry)
		if err != nil {
			return err
		}
		return b.Put([]byte(query), data)
	})
}

func (s *Store) ListTrending(ctx context.Context, limit int) ([]TrendingEntry, error) {
	if limit <= 0 {
		return []TrendingEntry{}, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries := []TrendingEntry{}
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(searchesBucket)
		return b.ForEach(func(_ []byte, v []byte) error {
			var entry TrendingEntry
			if err := json.Unmarshal(v, &entry); err != nil {
				return nil
			}
			entries = append(entries, entry)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	sortTrending(entries)
	return truncate(entries, limit), nil
}

// get returns the entry for query, or nil when it was never recorded.
func (s *Store) get(query string) (*TrendingEntry, error) {
	var entry *TrendingEntry
	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(searchesBucket).Get([]byte(query))
		if data == nil {
			return nil
		}
		entry = &TrendingEntry{}
		return json.Unmarshal(data, entry)
	})
	return entry, err
}
