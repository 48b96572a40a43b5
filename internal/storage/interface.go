package storage

import (
	"context"
	"errors"
	"sort"
)

// ErrEmptyQuery is returned by RecordSearch for a blank query.
var ErrEmptyQuery = errors.New("empty search query")

// Counter counts how often each query was searched and remembers the top
// hit of the first recorded search.
type Counter interface {
	// RecordSearch increments the counter for query, creating it with a
	// count of 1 and the given movie when absent. Increments are atomic.
	RecordSearch(ctx context.Context, query string, movie Movie) error

	// ListTrending returns at most limit entries, highest count first and
	// ties ordered by query.
	ListTrending(ctx context.Context, limit int) ([]TrendingEntry, error)

	Close() error
}

func sortTrending(entries []TrendingEntry) {
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Count != entries[j].Count {
			return entries[i].Count > entries[j].Count
		}
		return entries[i].Query < entries[j].Query
	})
}

func truncate(entries []TrendingEntry, limit int) []TrendingEntry {
	if len(entries) > limit {
		return entries[:limit]
	}
	return entries
}
