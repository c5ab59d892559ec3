package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/researchkit/deepresearch/config"
	"github.com/researchkit/deepresearch/session"
)

// RedisStore persists session records in Redis, one list per session.
type RedisStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// RedisConfig holds Redis connection configuration.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Prefix   string        // key prefix for namespacing
	TTL      time.Duration // session expiry, 0 means no expiration
}

// DefaultRedisConfig returns default Redis configuration.
func DefaultRedisConfig() *RedisConfig {
	return &RedisConfig{
		Addr:   "localhost:6379",
		Prefix: "deepresearch:session:",
	}
}

// NewRedisStore creates a Redis-backed session store.
func NewRedisStore(cfg *RedisConfig) (*RedisStore, error) {
	if cfg == nil {
		cfg = DefaultRedisConfig()
	}
	if err := config.ValidateRedisConfig(cfg.Addr, cfg.DB, cfg.Prefix); err != nil {
		return nil, err
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	return &RedisStore{
		client: client,
		prefix: cfg.Prefix,
		ttl:    cfg.TTL,
	}, nil
}

func (s *RedisStore) key(sessionID string) string {
	return s.prefix + sessionID
}

// Append pushes the record onto the session's list and refreshes the
// expiry when a TTL is configured.
func (s *RedisStore) Append(ctx context.Context, rec *session.Record) error {
	if rec == nil {
		return fmt.Errorf("record cannot be nil")
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}

	key := s.key(rec.SessionID)
	if err := s.client.RPush(ctx, key, data).Err(); err != nil {
		return fmt.Errorf("failed to store record in Redis: %w", err)
	}
	if s.ttl > 0 {
		if err := s.client.Expire(ctx, key, s.ttl).Err(); err != nil {
			return fmt.Errorf("failed to set session expiry: %w", err)
		}
	}
	return nil
}

// History returns the session's records in append order.
func (s *RedisStore) History(ctx context.Context, sessionID string) ([]*session.Record, error) {
	items, err := s.client.LRange(ctx, s.key(sessionID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read session history: %w", err)
	}

	records := make([]*session.Record, 0, len(items))
	for _, item := range items {
		var rec session.Record
		if err := json.Unmarshal([]byte(item), &rec); err != nil {
			return nil, fmt.Errorf("failed to unmarshal record: %w", err)
		}
		records = append(records, &rec)
	}
	return records, nil
}

// Clear drops the session's history.
func (s *RedisStore) Clear(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, s.key(sessionID)).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// Count returns the number of records in the session.
func (s *RedisStore) Count(ctx context.Context, sessionID string) (int, error) {
	count, err := s.client.LLen(ctx, s.key(sessionID)).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to count session records: %w", err)
	}
	return int(count), nil
}

// Ping checks if the Redis connection is alive.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the Redis connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
