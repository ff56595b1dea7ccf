package service

import (
	"context"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/patrickmn/go-cache"
)

// Blacklist remembers revoked access tokens by id until they expire.
type Blacklist interface {
	Add(ctx context.Context, tokenID string, ttl time.Duration) error
	Contains(ctx context.Context, tokenID string) (bool, error)
}

// MemoryBlacklist keeps revoked ids in process.
type MemoryBlacklist struct {
	store *cache.Cache
}

func NewMemoryBlacklist() *MemoryBlacklist {
	return &MemoryBlacklist{store: cache.New(time.Hour, 10*time.Minute)}
}

func (b *MemoryBlacklist) Add(_ context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	b.store.Set(tokenID, struct{}{}, ttl)
	return nil
}

func (b *MemoryBlacklist) Contains(_ context.Context, tokenID string) (bool, error) {
	_, found := b.store.Get(tokenID)
	return found, nil
}

// RedisBlacklist shares revoked ids between processes.
type RedisBlacklist struct {
	client *redis.Client
}

// NewRedisBlacklist connects to the server at url and pings it.
func NewRedisBlacklist(ctx context.Context, url string) (*RedisBlacklist, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}
	return &RedisBlacklist{client: client}, nil
}

func (b *RedisBlacklist) Add(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return b.client.Set(ctx, "blacklist:"+tokenID, 1, ttl).Err()
}

func (b *RedisBlacklist) Contains(ctx context.Context, tokenID string) (bool, error) {
	n, err := b.client.Exists(ctx, "blacklist:"+tokenID).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return false, err
	}
	return n > 0, nil
}

func (b *RedisBlacklist) Close() error {
	return b.client.Close()
}
