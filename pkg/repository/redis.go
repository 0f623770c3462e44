package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/example/storefront/pkg/auth"
	"github.com/example/storefront/pkg/config"
	"github.com/go-redis/redis/v8"
)

const cartCountTTL = 30 * time.Minute

// RedisRepository backs sessions and the cart-count cache.
type RedisRepository struct {
	client *redis.Client
	config *config.RedisConfig
}

func NewRedisRepository(cfg *config.RedisConfig) *RedisRepository {
	return &RedisRepository{
		client: redis.NewClient(&redis.Options{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
			PoolSize: cfg.PoolSize,
		}),
		config: cfg,
	}
}

func (r *RedisRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisRepository) Close() error {
	return r.client.Close()
}

func (r *RedisRepository) SetJSON(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, key, data, expiration).Err()
}

func (r *RedisRepository) GetJSON(ctx context.Context, key string, dest interface{}) error {
	data, err := r.client.Get(ctx, key).Result()
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(data), dest)
}

// Session storage, keyed by opaque token.

func sessionKey(token string) string {
	return fmt.Sprintf("session:%s", token)
}

func (r *RedisRepository) SaveSession(ctx context.Context, token string, session *auth.Session, ttl time.Duration) error {
	return r.SetJSON(ctx, sessionKey(token), session, ttl)
}

func (r *RedisRepository) GetSession(ctx context.Context, token string) (*auth.Session, error) {
	var session auth.Session
	err := r.GetJSON(ctx, sessionKey(token), &session)
	if errors.Is(err, redis.Nil) {
		return nil, auth.ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *RedisRepository) DeleteSession(ctx context.Context, token string) error {
	return r.client.Del(ctx, sessionKey(token)).Err()
}

// Cart-count cache for the badge-polling endpoint.

func cartCountKey(userID string) string {
	return fmt.Sprintf("cart_count:%s", userID)
}

func (r *RedisRepository) CartCount(ctx context.Context, userID string) (int, error) {
	val, err := r.client.Get(ctx, cartCountKey(userID)).Result()
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(val)
}

func (r *RedisRepository) SetCartCount(ctx context.Context, userID string, count int) error {
	return r.client.Set(ctx, cartCountKey(userID), count, cartCountTTL).Err()
}

func (r *RedisRepository) InvalidateCartCount(ctx context.Context, userID string) error {
	return r.client.Del(ctx, cartCountKey(userID)).Err()
}
