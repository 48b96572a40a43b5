package storage

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// Runs against a real server only when REEL_TEST_REDIS_ADDR is set.
func TestRedisStore_Counter(t *testing.T) {
	addr := os.Getenv("REEL_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("REEL_TEST_REDIS_ADDR not set")
	}

	ctx := context.Background()
	prefix := fmt.Sprintf("reel-test-%d:", time.Now().UnixNano())

	store, err := NewRedisStore(ctx, RedisOptions{Addr: addr, Prefix: prefix, Timeout: 2 * time.Second})
	require.NoError(t, err)
	t.Cleanup(func() {
		keys, _ := store.client.Keys(ctx, prefix+"*").Result()
		if len(keys) > 0 {
			store.client.Del(ctx, keys...)
		}
		store.Close()
	})

	runCounterSuite(t, store)
}

func TestRedisStore_Unreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	_, err := NewRedisStore(ctx, RedisOptions{Addr: "127.0.0.1:1", Timeout: 100 * time.Millisecond})
	require.Error(t, err)
}
