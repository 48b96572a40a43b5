package storage

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps counters in a sorted set scored by count and the movie
// metadata of each query in a hash next to it.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// RedisOptions configures NewRedisStore.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
	Timeout  time.Duration
}

// NewRedisStore connects and pings the server.
func NewRedisStore(ctx context.Context, opts RedisOptions) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         opts.Addr,
		Password:     opts.Password,
		DB:           opts.DB,
		DialTimeout:  opts.Timeout,
		ReadTimeout:  opts.Timeout,
		WriteTimeout: opts.Timeout,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connecting to redis at %s: %w", opts.Addr, err)
	}

	return &RedisStore{client: client, prefix: opts.Prefix}, nil
}

func (s *RedisStore) trendingKey() string {
	return s.prefix + "trending"
}

func (s *RedisStore) searchKey(query string) string {
	return s.prefix + "search:" + query
}

func (s *RedisStore) RecordSearch(ctx context.Context, query string, movie Movie) error {
	if query == "" {
		return ErrEmptyQuery
	}

	key := s.searchKey(query)
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.ZIncrBy(ctx, s.trendingKey(), 1, query)
		// First hit wins, later searches only bump the counter
		pipe.HSetNX(ctx, key, "movie_id", movie.ID)
		pipe.HSetNX(ctx, key, "title", movie.Title)
		pipe.HSetNX(ctx, key, "poster_url", movie.PosterURL)
		pipe.HSet(ctx, key, "updated_at", time.Now().UTC().Format(time.RFC3339))
		return nil
	})
	if err != nil {
		return fmt.Errorf("recording search %q: %w", query, err)
	}
	return nil
}

func (s *RedisStore) ListTrending(ctx context.Context, limit int) ([]TrendingEntry, error) {
	if limit <= 0 {
		return []TrendingEntry{}, nil
	}

	top, err := s.client.ZRevRangeWithScores(ctx, s.trendingKey(), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("listing trending: %w", err)
	}
	if len(top) == 0 {
		return []TrendingEntry{}, nil
	}

	// Redis orders equal scores by member descending in a reverse range. Pull
	// every member tied with the cutoff so the query ordering can be applied.
	cutoff := strconv.FormatFloat(top[len(top)-1].Score, 'f', -1, 64)
	members, err := s.client.ZRangeByScoreWithScores(ctx, s.trendingKey(), &redis.ZRangeBy{
		Min: cutoff,
		Max: "+inf",
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("listing trending: %w", err)
	}

	entries := make([]TrendingEntry, 0, len(members))
	for _, z := range members {
		query, ok := z.Member.(string)
		if !ok {
			continue
		}
		entries = append(entries, TrendingEntry{Query: query, Count: int64(z.Score)})
	}
	sortTrending(entries)
	entries = truncate(entries, limit)

	cmds, err := s.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, e := range entries {
			pipe.HGetAll(ctx, s.searchKey(e.Query))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("loading trending metadata: %w", err)
	}

	for i, cmd := range cmds {
		fields := cmd.(*redis.MapStringStringCmd).Val()
		entries[i].MovieID, _ = strconv.Atoi(fields["movie_id"])
		entries[i].Title = fields["title"]
		entries[i].PosterURL = fields["poster_url"]
		if ts, parseErr := time.Parse(time.RFC3339, fields["updated_at"]); parseErr == nil {
			entries[i].UpdatedAt = ts
		}
	}

	return entries, nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
