package helpers

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// SessionKeyPrefix is where signin sessions live in Redis. The auth
// middleware reads the same keys to validate bearer tokens.
const SessionKeyPrefix = "user:session:"

// RedisSessionStore keeps one session hash per user. Writing a new session
// replaces the sid field, which invalidates tokens from earlier signins.
type RedisSessionStore struct {
	Client *redis.Client
}

func NewRedisSessionStore(client *redis.Client) *RedisSessionStore {
	return &RedisSessionStore{Client: client}
}

func (s *RedisSessionStore) Save(ctx context.Context, userID string, fields map[string]any, ttl time.Duration) error {
	key := SessionKeyPrefix + userID
	if err := s.Client.HSet(ctx, key, fields).Err(); err != nil {
		return err
	}
	return s.Client.Expire(ctx, key, ttl).Err()
}

func (s *RedisSessionStore) Delete(ctx context.Context, userID string) error {
	return s.Client.Del(ctx, SessionKeyPrefix+userID).Err()
}
