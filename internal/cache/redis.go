package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/makpal80/avtoray/internal/models"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const productsKey = "catalog:products"

type RedisClient struct {
	client *redis.Client
	ttl    time.Duration
	log    *zap.Logger
}

func NewRedisClient(addr, password string, db int, ttl time.Duration, log *zap.Logger) (*RedisClient, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	log.Info("Redis подключен", zap.String("addr", addr))

	return newWithClient(rdb, ttl, log), nil
}

func newWithClient(rdb *redis.Client, ttl time.Duration, log *zap.Logger) *RedisClient {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &RedisClient{client: rdb, ttl: ttl, log: log}
}

func (r *RedisClient) Close() error {
	return r.client.Close()
}

// Каталог

func (r *RedisClient) GetProducts(ctx context.Context) ([]models.Product, bool, error) {
	raw, err := r.client.Get(ctx, productsKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var products []models.Product
	if err := json.Unmarshal(raw, &products); err != nil {
		// битая запись не должна ломать каталог
		r.log.Warn("не удалось разобрать кэш каталога", zap.Error(err))
		return nil, false, nil
	}
	return products, true, nil
}

func (r *RedisClient) SetProducts(ctx context.Context, products []models.Product) error {
	raw, err := json.Marshal(products)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, productsKey, raw, r.ttl).Err()
}

func (r *RedisClient) InvalidateProducts(ctx context.Context) error {
	return r.client.Del(ctx, productsKey).Err()
}

// Rate limit

// Hit increments the counter for key; the window starts with the first hit.
func (r *RedisClient) Hit(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	pipe := r.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.ExpireNX(ctx, key, ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}
	return incr.Val(), nil
}

func (r *RedisClient) Count(ctx context.Context, key string) (int64, error) {
	n, err := r.client.Get(ctx, key).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return n, err
}

func (r *RedisClient) Reset(ctx context.Context, key string) error {
	return r.client.Del(ctx, key).Err()
}
