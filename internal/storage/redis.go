package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/mkurosawa/mystery-engine/pkg/state"
)

// RedisStorage implements the Storage interface using Redis for session
// state and the filesystem for static resources (scenario documents).
type RedisStorage struct {
	client  *redis.Client
	logger  *slog.Logger
	dataDir string
}

// Ensure RedisStorage implements Storage interface
var _ Storage = (*RedisStorage)(nil)

// NewRedisStorage creates a new Redis storage instance.
func NewRedisStorage(redisURL string, dataDir string, logger *slog.Logger) *RedisStorage {
	rdb := redis.NewClient(&redis.Options{
		Addr: redisURL,
	})

	if dataDir == "" {
		dataDir = "./data"
	}

	return &RedisStorage{
		client:  rdb,
		logger:  logger,
		dataDir: dataDir,
	}
}

func (r *RedisStorage) Ping(ctx context.Context) error {
	cmd := r.client.Ping(ctx)
	if err := cmd.Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

func (r *RedisStorage) Close() error {
	if err := r.client.Close(); err != nil {
		r.logger.Error("Failed to close Redis connection", "error", err)
		return err
	}
	r.logger.Info("Redis connection closed")
	return nil
}

// WaitForConnection waits for Redis to become available (used during startup).
func (r *RedisStorage) WaitForConnection(ctx context.Context) error {
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

func sessionKey(id uuid.UUID) string {
	return "session:" + id.String()
}

// SaveGameState writes the full session snapshot. There is no batching:
// callers persist after every state-changing operation.
func (r *RedisStorage) SaveGameState(ctx context.Context, gs *state.GameState) error {
	gs.UpdatedAt = time.Now()

	data, err := json.Marshal(gs)
	if err != nil {
		r.logger.Error("Failed to marshal session state", "uuid", gs.ID, "error", err)
		return fmt.Errorf("failed to marshal session state: %w", err)
	}

	cmd := r.client.Set(ctx, sessionKey(gs.ID), string(data), 0)
	if err := cmd.Err(); err != nil {
		r.logger.Error("Failed to save session state", "uuid", gs.ID, "error", err)
		return fmt.Errorf("failed to save session state: %w", err)
	}

	return nil
}

// LoadGameState reads a session snapshot. A missing key returns nil.
// A snapshot that no longer parses is treated as recoverable: the
// anomaly is logged and the caller gets nil, as if no save existed.
func (r *RedisStorage) LoadGameState(ctx context.Context, id uuid.UUID) (*state.GameState, error) {
	cmd := r.client.Get(ctx, sessionKey(id))
	if err := cmd.Err(); err != nil {
		if err == redis.Nil {
			r.logger.Warn("Session state not found", "uuid", id)
			return nil, nil
		}
		r.logger.Error("Failed to load session state", "uuid", id, "error", err)
		return nil, fmt.Errorf("failed to load session state: %w", err)
	}

	data := cmd.Val()
	if data == "" {
		r.logger.Warn("Session state not found", "uuid", id)
		return nil, nil
	}

	gs := state.NewGameState("")
	if err := json.Unmarshal([]byte(data), gs); err != nil {
		r.logger.Warn("Session state corrupted, falling back to defaults",
			"uuid", id, "error", err, "bytes", len(data))
		return nil, nil
	}
	gs.Migrate()

	return gs, nil
}

func (r *RedisStorage) DeleteGameState(ctx context.Context, id uuid.UUID) error {
	cmd := r.client.Del(ctx, sessionKey(id))
	if err := cmd.Err(); err != nil {
		r.logger.Error("Failed to delete session state", "uuid", id, "error", err)
		return fmt.Errorf("failed to delete session state: %w", err)
	}
	return nil
}
