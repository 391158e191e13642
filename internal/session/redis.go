package session

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "session:"

type redisStore struct {
	client *redis.Client
}

// NewRedisStore devuelve un Store respaldado por Redis; la expiración la
// maneja el propio servidor.
func NewRedisStore(client *redis.Client) Store {
	return &redisStore{client: client}
}

func (s *redisStore) Get(ctx context.Context, sid string) (int64, error) {
	val, err := s.client.Get(ctx, redisKeyPrefix+sid).Result()
	if errors.Is(err, redis.Nil) {
		return 0, ErrNoSession
	}
	if err != nil {
		return 0, err
	}
	userID, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, ErrNoSession
	}
	return userID, nil
}

func (s *redisStore) Set(ctx context.Context, sid string, userID int64, ttl time.Duration) error {
	return s.client.Set(ctx, redisKeyPrefix+sid, strconv.FormatInt(userID, 10), ttl).Err()
}

func (s *redisStore) Delete(ctx context.Context, sid string) error {
	return s.client.Del(ctx, redisKeyPrefix+sid).Err()
}
