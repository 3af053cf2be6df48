package state

import (
	"context"
	"fmt"
	"time"

	"github.com/camilaavilarinho/diabetes-diary-bot/internal/logger"
	"github.com/redis/go-redis/v9"
)

// Dialog state expires after an hour of inactivity; a half-finished
// entry is abandoned, never stored.
const stateTTL = time.Hour

// RedisManager keeps dialog state in Redis so a bot restart does not
// drop conversations mid-entry.
type RedisManager struct {
	client *redis.Client
}

// NewRedisManager creates a Redis-backed state manager
func NewRedisManager(redisHost, redisPort string) (*RedisManager, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%s", redisHost, redisPort),
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisManager{client: client}, nil
}

func stateKey(userID int64) string {
	return fmt.Sprintf("diary:state:%d", userID)
}

func tempKey(userID int64) string {
	return fmt.Sprintf("diary:temp:%d", userID)
}

// GetUserState gets the state for a user
func (m *RedisManager) GetUserState(userID int64) string {
	ctx, cancel := m.ctx()
	defer cancel()
	state, err := m.client.Get(ctx, stateKey(userID)).Result()
	if err != nil {
		if err != redis.Nil {
			logger.Error("Failed to read user state from redis", "error", err, "user_id", userID)
		}
		return None
	}
	return state
}

// SetUserState sets the state for a user
func (m *RedisManager) SetUserState(userID int64, state string) {
	ctx, cancel := m.ctx()
	defer cancel()
	if err := m.client.Set(ctx, stateKey(userID), state, stateTTL).Err(); err != nil {
		logger.Error("Failed to write user state to redis", "error", err, "user_id", userID)
	}
}

// ClearUserState clears the state for a user
func (m *RedisManager) ClearUserState(userID int64) {
	ctx, cancel := m.ctx()
	defer cancel()
	if err := m.client.Del(ctx, stateKey(userID)).Err(); err != nil {
		logger.Error("Failed to clear user state in redis", "error", err, "user_id", userID)
	}
}

// SetTempData sets one collected field for a user
func (m *RedisManager) SetTempData(userID int64, key, value string) {
	ctx, cancel := m.ctx()
	defer cancel()
	pipe := m.client.Pipeline()
	pipe.HSet(ctx, tempKey(userID), key, value)
	pipe.Expire(ctx, tempKey(userID), stateTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		logger.Error("Failed to write temp data to redis", "error", err, "user_id", userID)
	}
}

// GetTempData gets one collected field for a user
func (m *RedisManager) GetTempData(userID int64, key string) (string, bool) {
	ctx, cancel := m.ctx()
	defer cancel()
	value, err := m.client.HGet(ctx, tempKey(userID), key).Result()
	if err != nil {
		if err != redis.Nil {
			logger.Error("Failed to read temp data from redis", "error", err, "user_id", userID)
		}
		return "", false
	}
	return value, true
}

// ClearTempData drops all collected fields for a user
func (m *RedisManager) ClearTempData(userID int64) {
	ctx, cancel := m.ctx()
	defer cancel()
	if err := m.client.Del(ctx, tempKey(userID)).Err(); err != nil {
		logger.Error("Failed to clear temp data in redis", "error", err, "user_id", userID)
	}
}

func (m *RedisManager) ctx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 3*time.Second)
}
