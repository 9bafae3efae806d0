package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/simbench/microsim/pkg/sim"
)

// Sessions are transient crawl artifacts; anything older than a day is stale.
const sessionTTL = 24 * time.Hour

// RedisStore implements the Store interface using Redis.
type RedisStore struct {
	client *redis.Client
	logger *slog.Logger
}

// Ensure RedisStore implements Store interface
var _ Store = (*RedisStore)(nil)

// NewRedisStore creates a new Redis store instance
func NewRedisStore(redisURL string, logger *slog.Logger) *RedisStore {
	rdb := redis.NewClient(&redis.Options{
		Addr: redisURL,
	})

	return &RedisStore{
		client: rdb,
		logger: logger,
	}
}

func (r *RedisStore) Ping(ctx context.Context) error {
	cmd := r.client.Ping(ctx)
	if err := cmd.Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

func (r *RedisStore) Close() error {
	if err := r.client.Close(); err != nil {
		r.logger.Error("Failed to close Redis connection", "error", err)
		return err
	}
	r.logger.Info("Redis connection closed")
	return nil
}

// WaitForConnection waits for Redis to become available (used during startup)
func (r *RedisStore) WaitForConnection(ctx context.Context) error {
	maxRetries := 30
	retryDelay := 2 * time.Second

	for i := 0; i < maxRetries; i++ {
		if err := r.Ping(ctx); err != nil {
			r.logger.Debug("Redis not ready yet", "error", err, "attempt", i+1)

			select {
			case <-ctx.Done():
				return fmt.Errorf("context cancelled while waiting for redis: %w", ctx.Err())
			case <-time.After(retryDelay):
				continue
			}
		}

		r.logger.Info("Redis connection established")
		return nil
	}

	return fmt.Errorf("redis did not become available after %d attempts", maxRetries)
}

func snapshotKey(id uuid.UUID, step int) string {
	return "session:" + id.String() + ":step:" + strconv.Itoa(step)
}

func stepsKey(id uuid.UUID) string {
	return "session:" + id.String() + ":steps"
}

func (r *RedisStore) SaveSnapshot(ctx context.Context, id uuid.UUID, step int, snap *sim.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		r.logger.Error("Failed to marshal snapshot", "session", id, "step", step, "error", err)
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	if err := r.client.Set(ctx, snapshotKey(id, step), string(data), sessionTTL).Err(); err != nil {
		r.logger.Error("Failed to save snapshot", "session", id, "step", step, "error", err)
		return fmt.Errorf("failed to save snapshot: %w", err)
	}

	// Track the highest step so the harness can walk a session in order.
	if err := r.client.Set(ctx, stepsKey(id), step, sessionTTL).Err(); err != nil {
		return fmt.Errorf("failed to save step counter: %w", err)
	}
	return nil
}

func (r *RedisStore) LoadSnapshot(ctx context.Context, id uuid.UUID, step int) (*sim.Snapshot, error) {
	cmd := r.client.Get(ctx, snapshotKey(id, step))
	if err := cmd.Err(); err != nil {
		if err == redis.Nil {
			r.logger.Warn("Snapshot not found", "session", id, "step", step)
			return nil, nil // Return nil for not found
		}
		r.logger.Error("Failed to load snapshot", "session", id, "step", step, "error", err)
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}

	var snap sim.Snapshot
	if err := json.Unmarshal([]byte(cmd.Val()), &snap); err != nil {
		r.logger.Error("Failed to unmarshal snapshot", "session", id, "step", step, "error", err)
		return nil, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}

	return &snap, nil
}

func (r *RedisStore) Steps(ctx context.Context, id uuid.UUID) (int, error) {
	cmd := r.client.Get(ctx, stepsKey(id))
	if err := cmd.Err(); err != nil {
		if err == redis.Nil {
			return -1, nil
		}
		return -1, fmt.Errorf("failed to load step counter: %w", err)
	}
	steps, err := strconv.Atoi(cmd.Val())
	if err != nil {
		return -1, fmt.Errorf("corrupt step counter %q: %w", cmd.Val(), err)
	}
	return steps, nil
}

func (r *RedisStore) DeleteSession(ctx context.Context, id uuid.UUID) error {
	steps, err := r.Steps(ctx, id)
	if err != nil {
		return err
	}
	keys := []string{stepsKey(id)}
	for i := 0; i <= steps; i++ {
		keys = append(keys, snapshotKey(id, i))
	}
	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		r.logger.Error("Failed to delete session", "session", id, "error", err)
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
