package storage

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

// Redis is a KV backend on a redis server. Entries carry no TTL since the
// store is the system of record, not a cache.
type Redis struct {
	client *redis.Client
}

func NewRedis(addr, password string, db int) *Redis {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &Redis{client: client}
}

func (s *Redis) Get(key string) ([]byte, error) {
	data, err := s.client.Get(context.Background(), key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return data, nil
}

func (s *Redis) Set(key string, value []byte) error {
	return s.client.Set(context.Background(), key, value, 0).Err()
}

func (s *Redis) Delete(key string) error {
	return s.client.Del(context.Background(), key).Err()
}

// Ping verifies connectivity at startup.
func (s *Redis) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
