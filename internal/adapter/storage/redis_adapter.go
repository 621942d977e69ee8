package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rl1809/vending/internal/core/domain"
	"github.com/rl1809/vending/internal/port"
)

const snapshotKeyPrefix = "vending:snapshot:"

type RedisAdapter struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisAdapter stores snapshots without expiry unless ttl is positive.
func NewRedisAdapter(client *redis.Client, ttl time.Duration) *RedisAdapter {
	return &RedisAdapter{client: client, ttl: ttl}
}

func (r *RedisAdapter) Save(ctx context.Context, machineID string, snapshot domain.Snapshot) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := r.client.Set(ctx, snapshotKeyPrefix+machineID, data, r.ttl).Err(); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

func (r *RedisAdapter) Load(ctx context.Context, machineID string) (domain.Snapshot, error) {
	var snapshot domain.Snapshot

	data, err := r.client.Get(ctx, snapshotKeyPrefix+machineID).Bytes()
	if errors.Is(err, redis.Nil) {
		return snapshot, port.ErrSnapshotNotFound
	}
	if err != nil {
		return snapshot, fmt.Errorf("load snapshot: %w", err)
	}

	if err := json.Unmarshal(data, &snapshot); err != nil {
		return snapshot, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	return snapshot, nil
}
