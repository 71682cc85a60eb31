package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"khabar/internal/news"
)

const redisKeyPrefix = "khabar:sent:"

// RedisStore keeps the delivered-set in Redis with a per-record TTL, so
// expiry needs no cleanup pass at all.
type RedisStore struct {
	client  *redis.Client
	ttl     time.Duration
	timeout time.Duration
}

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// NewRedisStore connects to Redis and verifies the connection.
func NewRedisStore(cfg RedisConfig, ttlHours int) (*RedisStore, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return &RedisStore{
		client:  rdb,
		ttl:     time.Duration(ttlHours) * time.Hour,
		timeout: 5 * time.Second,
	}, nil
}

// Load is a no-op: Redis is the source of truth and TTLs handle expiry.
func (rs *RedisStore) Load() error { return nil }

// Save is a no-op: every MarkDelivered is already durable.
func (rs *RedisStore) Save() error { return nil }

// IsDelivered reports whether the fingerprint key exists. Lookup errors are
// logged and treated as "not delivered".
func (rs *RedisStore) IsDelivered(fingerprint string) bool {
	ctx, cancel := context.WithTimeout(context.Background(), rs.timeout)
	defer cancel()

	n, err := rs.client.Exists(ctx, redisKeyPrefix+fingerprint).Result()
	if err != nil {
		slog.Warn("delivered-set lookup failed", "error", err)
		return false
	}
	return n > 0
}

// MarkDelivered stores the record under the fingerprint key with the
// configured TTL.
func (rs *RedisStore) MarkDelivered(it news.Item) error {
	payload, err := json.Marshal(SentItem{
		Fingerprint: it.Fingerprint,
		Title:       it.Title,
		Link:        it.URL,
		Category:    it.Category,
		Source:      it.Source,
		SentAt:      time.Now(),
	})
	if err != nil {
		return fmt.Errorf("marshal delivered record: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), rs.timeout)
	defer cancel()
	if err := rs.client.Set(ctx, redisKeyPrefix+it.Fingerprint, payload, rs.ttl).Err(); err != nil {
		return fmt.Errorf("mark delivered: %w", err)
	}
	return nil
}

// Close closes the Redis connection.
func (rs *RedisStore) Close() error {
	return rs.client.Close()
}
