package redisstore

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type Store struct {
	client *redis.Client
}

func New(addr, password string, db int) *Store {
	return &Store{client: redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})}
}

func (s *Store) Close() error { return s.client.Close() }

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func profileKey(userID string) string { return "profile:" + userID }

// GetProfileJSON returns the cached snapshot payload; redis.Nil on miss.
func (s *Store) GetProfileJSON(ctx context.Context, userID string) (string, error) {
	return s.client.Get(ctx, profileKey(userID)).Result()
}

func (s *Store) SetProfileJSON(ctx context.Context, userID, payload string, ttl time.Duration) error {
	return s.client.Set(ctx, profileKey(userID), payload, ttl).Err()
}

// IncrChannelActivity bumps the per-channel activity counter kept by the
// notifier worker.
func (s *Store) IncrChannelActivity(ctx context.Context, channelID uint64) (int64, error) {
	return s.client.Incr(ctx, fmt.Sprintf("channel:%d:activity", channelID)).Result()
}
