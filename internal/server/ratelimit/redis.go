package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultRedisPrefix = "resumer:ratelimit:"

// hitScript applies the window rule atomically on the server. Times are Unix
// milliseconds; the key expires once its window can no longer be extended.
var hitScript = redis.NewScript(`
local now = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local start = tonumber(redis.call('HGET', KEYS[1], 'start'))
local count
if (not start) or (now - start > window) then
  start = now
  count = 1
  redis.call('HSET', KEYS[1], 'start', start, 'count', count)
else
  count = redis.call('HINCRBY', KEYS[1], 'count', 1)
end
redis.call('PEXPIREAT', KEYS[1], start + window + 1)
return {count, start}
`)

// RedisStore keeps windows in Redis so every instance shares the same counts.
type RedisStore struct {
	client redis.UniversalClient
	prefix string
	owned  bool
}

// NewRedisStore connects to the Redis server at url and verifies the connection.
func NewRedisStore(ctx context.Context, url string) (*RedisStore, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("could not parse redis connection string: %w", err)
	}

	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	store := NewRedisStoreWithClient(client, defaultRedisPrefix)
	store.owned = true
	return store, nil
}

// NewRedisStoreWithClient wraps an existing client. Keys are namespaced by prefix.
// The caller keeps ownership of the client.
func NewRedisStoreWithClient(client redis.UniversalClient, prefix string) *RedisStore {
	return &RedisStore{
		client: client,
		prefix: prefix,
	}
}

// Hit implements Store.
func (s *RedisStore) Hit(ctx context.Context, key string, now time.Time, window time.Duration) (Window, error) {
	values, err := hitScript.Run(ctx, s.client,
		[]string{s.prefix + key},
		now.UnixMilli(), window.Milliseconds(),
	).Int64Slice()
	if err != nil {
		return Window{}, fmt.Errorf("redis rate limit hit: %w", err)
	}
	if len(values) != 2 {
		return Window{}, fmt.Errorf("redis rate limit hit: unexpected reply %v", values)
	}

	return Window{
		Count: int(values[0]),
		Start: time.UnixMilli(values[1]),
	}, nil
}

// Close closes the client when the store created it.
func (s *RedisStore) Close() error {
	if s.owned {
		return s.client.Close()
	}
	return nil
}
