package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Redis guarda la sesión del terminal en un Redis compartido, con claves
// "pos:<terminal>:token" y "pos:<terminal>:user".
type Redis struct {
	client *redis.Client
	prefix string
}

// RedisOptions conexión.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	Terminal string
}

// NewRedis abre el cliente y verifica la conexión con PING.
func NewRedis(ctx context.Context, opts RedisOptions) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("storage: redis ping: %w", err)
	}
	return NewRedisFromClient(client, opts.Terminal), nil
}

// NewRedisFromClient usa un cliente ya construido.
func NewRedisFromClient(client *redis.Client, terminal string) *Redis {
	return &Redis{client: client, prefix: "pos:" + terminal + ":"}
}

func (s *Redis) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := s.client.Get(ctx, s.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("storage: redis get %s: %w", key, err)
	}
	return v, true, nil
}

func (s *Redis) Set(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, s.prefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("storage: redis set %s: %w", key, err)
	}
	return nil
}

func (s *Redis) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = s.prefix + k
	}
	if err := s.client.Del(ctx, full...).Err(); err != nil {
		return fmt.Errorf("storage: redis del: %w", err)
	}
	return nil
}

// Close cierra el cliente.
func (s *Redis) Close() error {
	return s.client.Close()
}
