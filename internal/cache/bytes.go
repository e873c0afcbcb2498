package cache

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	redis "github.com/redis/go-redis/v9"
)

const keyExport = "payslip:export:%s"

// BytesCache stores downloaded export payloads.
type BytesCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

type memoryBytes struct {
	store Cache[string, []byte]
}

// NewMemoryBytes wraps an in-memory TTL cache.
func NewMemoryBytes(store Cache[string, []byte]) BytesCache {
	return &memoryBytes{store: store}
}

func (m *memoryBytes) Get(_ context.Context, key string) ([]byte, bool, error) {
	v, ok := m.store.Get(key)
	return v, ok, nil
}

func (m *memoryBytes) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	m.store.Set(key, value, ttl)
	return nil
}

type redisBytes struct {
	client *redis.Client
}

// NewRedisBytes stores payloads in redis so several instances share downloads.
func NewRedisBytes(client *redis.Client) BytesCache {
	return &redisBytes{client: client}
}

func (r *redisBytes) Get(ctx context.Context, key string) ([]byte, bool, error) {
	v, err := r.client.Get(ctx, exportKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return v, true, nil
}

func (r *redisBytes) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return r.client.Set(ctx, exportKey(key), value, ttl).Err()
}

func exportKey(key string) string {
	return fmt.Sprintf(keyExport, strings.TrimSpace(key))
}

type noopBytes struct{}

// NewNoop returns a cache that never stores anything.
func NewNoop() BytesCache { return noopBytes{} }

func (noopBytes) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }

func (noopBytes) Set(context.Context, string, []byte, time.Duration) error { return nil }
