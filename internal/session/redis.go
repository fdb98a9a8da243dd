package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/ljcl79/shophub/internal/domain"
)

const defaultSessionKey = "session:current"

// RedisSessionStore persists the session as JSON under a single redis key,
// with no expiry, so a restart finds it again.
type RedisSessionStore struct {
	client *redis.Client
	key    string
}

// NewRedisSessionStore builds a store around an existing client. An empty
// key selects the default.
func NewRedisSessionStore(client *redis.Client, key string) *RedisSessionStore {
	if key == "" {
		key = defaultSessionKey
	}
	return &RedisSessionStore{client: client, key: key}
}

func (s *RedisSessionStore) Save(ctx context.Context, sess domain.Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("marshal session failed: %w", err)
	}
	if err := s.client.Set(ctx, s.key, string(data), 0).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (s *RedisSessionStore) Load(ctx context.Context) (*domain.Session, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var sess domain.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("unmarshal session failed: %w", err)
	}
	return &sess, nil
}

func (s *RedisSessionStore) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}
