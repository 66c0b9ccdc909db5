package currency

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisSnapshotKey = "faturaflow:exchange_rates"

// OpenRedis connects to addr and verifies the connection
func OpenRedis(addr string, db int) (*redis.Client, error) {
	r := redis.NewClient(&redis.Options{Addr: addr, DB: db})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := r.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return r, nil
}

// RedisStore keeps the shared snapshot in a single Redis key
type RedisStore struct {
	client *redis.Client
	key    string
}

// NewRedisStore creates a store on client
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client, key: redisSnapshotKey}
}

func (s *RedisStore) Load(ctx context.Context) (*Snapshot, error) {
	raw, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read rates: %w", err)
	}

	var snap Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil, fmt.Errorf("failed to decode rates: %w", err)
	}
	return &snap, nil
}

func (s *RedisStore) Save(ctx context.Context, snap *Snapshot, ttl time.Duration) error {
	raw, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to encode rates: %w", err)
	}
	return s.client.Set(ctx, s.key, raw, ttl).Err()
}
