// Package cache реализует кэш подписок поверх Redis.
// Значения сериализуются в JSON; отсутствие ключа не считается ошибкой.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/magabrotheeeer/subscription-tracker/internal/config"
)

// Cache обёртка над клиентом Redis.
type Cache struct {
	Db *redis.Client
}

// InitServer подключается к Redis и проверяет соединение.
func InitServer(ctx context.Context, cfg config.RedisConnection) (*Cache, error) {
	const op = "cache.InitServer"
	db := redis.NewClient(&redis.Options{
		Addr:         cfg.AddressRedis,
		Password:     cfg.Password,
		DB:           cfg.DB,
		Username:     cfg.User,
		MaxRetries:   cfg.MaxRetries,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.TimeoutRedis,
		WriteTimeout: cfg.TimeoutRedis,
	})

	if err := db.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &Cache{Db: db}, nil
}

// Get пытается получить значение из кеша по ключу.
// Возвращает false без ошибки, если ключа нет.
func (c *Cache) Get(ctx context.Context, key string, result any) (bool, error) {
	const op = "cache.Get"
	val, err := c.Db.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	if err := json.Unmarshal([]byte(val), result); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return true, nil
}

// Set сохраняет значение в кеш с временем жизни.
func (c *Cache) Set(ctx context.Context, key string, value any, expiration time.Duration) error {
	jsonData, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.Db.Set(ctx, key, jsonData, expiration).Err()
}

// Invalidate удаляет значение из кеша по ключу.
func (c *Cache) Invalidate(ctx context.Context, key string) error {
	return c.Db.Del(ctx, key).Err()
}
