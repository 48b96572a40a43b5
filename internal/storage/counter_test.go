package storage

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runCounterSuite checks the behaviour every backend shares. c must be empty.
func runCounterSuite(t *testing.T, c Counter) {
	t.Helper()
	ctx := context.Background()

	t.Run("empty store lists nothing", func(t *testing.T) {
		entries, err := c.ListTrending(ctx, 5)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})

	t.Run("first search creates entry with count 1", func(t *testing.T) {
		movie := Movie{ID: 268, Title: "Batman", PosterURL: "https://image.tmdb.org/t/p/w500/b.jpg"}
		require.NoError(t, c.RecordSearch(ctx, "batman", movie))

		entries, err := c.ListTrending(ctx, 5)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "batman", entries[0].Query)
		assert.Equal(t, int64(1), entries[0].Count)
		assert.Equal(t, 268, entries[0].MovieID)
		assert.Equal(t, "Batman", entries[0].Title)
		assert.Equal(t, movie.PosterURL, entries[0].PosterURL)
	})

	t.Run("repeat search increments and keeps first movie", func(t *testing.T) {
		require.NoError(t, c.RecordSearch(ctx, "batman", Movie{ID: 999, Title: "Other"}))

		entries, err := c.ListTrending(ctx, 5)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, int64(2), entries[0].Count)
		assert.Equal(t, 268, entries[0].MovieID)
		assert.Equal(t, "Batman", entries[0].Title)
	})

	t.Run("ordering and limit", func(t *testing.T) {
		for i := 0; i < 3; i++ {
			require.NoError(t, c.RecordSearch(ctx, "alien", Movie{ID: 348, Title: "Alien"}))
		}
		require.NoError(t, c.RecordSearch(ctx, "zodiac", Movie{ID: 1949, Title: "Zodiac"}))
		require.NoError(t, c.RecordSearch(ctx, "heat", Movie{ID: 949, Title: "Heat"}))

		entries, err := c.ListTrending(ctx, 10)
		require.NoError(t, err)

		var queries []string
		for _, e := range entries {
			queries = append(queries, e.Query)
		}
		assert.Equal(t, []string{"alien", "batman", "heat", "zodiac"}, queries)

		limited, err := c.ListTrending(ctx, 3)
		require.NoError(t, err)
		require.Len(t, limited, 3)
		assert.Equal(t, "heat", limited[2].Query, "ties are broken by query")
	})

	t.Run("non-positive limit", func(t *testing.T) {
		entries, err := c.ListTrending(ctx, 0)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})

	t.Run("empty query rejected", func(t *testing.T) {
		assert.ErrorIs(t, c.RecordSearch(ctx, "", Movie{ID: 1}), ErrEmptyQuery)
	})

	t.Run("concurrent increments are not lost", func(t *testing.T) {
		const n = 20
		var wg sync.WaitGroup
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				assert.NoError(t, c.RecordSearch(ctx, "inception", Movie{ID: 27205, Title: "Inception"}))
			}()
		}
		wg.Wait()

		entries, err := c.ListTrending(ctx, 1)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "inception", entries[0].Query)
		assert.Equal(t, int64(n), entries[0].Count, fmt.Sprintf("expected %d increments", n))
	})
}
