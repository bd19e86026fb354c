package conversation

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"reserva/models"
	"reserva/utils"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const sessionKeyPrefix = "conv:ctx:"

// SessionKey renders the composite (tenantId, userId) session key.
func SessionKey(tenantID, userID string) string {
	return sessionKeyPrefix + tenantID + ":" + userID
}

// SessionStore is the ephemeral keeper of conversation contexts. A miss is
// indistinguishable from "user never interacted": Get always succeeds with a
// fresh IDLE context when nothing is stored.
type SessionStore interface {
	Get(ctx context.Context, tenantID, userID string) (*models.ConversationContext, error)
	Set(ctx context.Context, conv *models.ConversationContext) error
	Delete(ctx context.Context, tenantID, userID string) error
}

// RedisSessionStore implements SessionStore with whole-record JSON values and
// a sliding TTL: every successful read pushes expiry out to the full window.
type RedisSessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisSessionStore(client *redis.Client, ttl time.Duration) *RedisSessionStore {
	return &RedisSessionStore{client: client, ttl: ttl}
}

func (s *RedisSessionStore) Get(ctx context.Context, tenantID, userID string) (*models.ConversationContext, error) {
	key := SessionKey(tenantID, userID)
	data, err := s.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return models.NewConversationContext(tenantID, userID), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session %s: %w", key, err)
	}

	var conv models.ConversationContext
	if err := json.Unmarshal([]byte(data), &conv); err != nil {
		return nil, fmt.Errorf("failed to parse session %s: %w", key, err)
	}

	// Sliding expiration: a read counts as activity.
	if err := s.client.Expire(ctx, key, s.ttl).Err(); err != nil {
		utils.GetLogger().Warn("failed to refresh session TTL",
			zap.String("key", key), zap.Error(err))
	}
	return &conv, nil
}

func (s *RedisSessionStore) Set(ctx context.Context, conv *models.ConversationContext) error {
	key := SessionKey(conv.TenantID, conv.UserID)
	b, err := json.Marshal(conv)
	if err != nil {
		return fmt.Errorf("failed to marshal session %s: %w", key, err)
	}
	if err := s.client.Set(ctx, key, b, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store session %s: %w", key, err)
	}
	return nil
}

func (s *RedisSessionStore) Delete(ctx context.Context, tenantID, userID string) error {
	key := SessionKey(tenantID, userID)
	if err := s.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to delete session %s: %w", key, err)
	}
	return nil
}
