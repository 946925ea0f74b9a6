package dedup

import (
	"context"
	"fmt"
	"time"

	"github.com/medeiros-dev/notification-template-service/consumer/configs"
	"github.com/medeiros-dev/notification-template-service/consumer/internal/domain/port/dedup"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "notification:delivered:"

// RedisDeduplicator implements dedup.Deduplicator with SET NX and a TTL.
type RedisDeduplicator struct {
	client redis.UniversalClient
	ttl    time.Duration
}

var _ dedup.Deduplicator = (*RedisDeduplicator)(nil)

func NewRedisDeduplicator(client redis.UniversalClient, ttl time.Duration) *RedisDeduplicator {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &RedisDeduplicator{client: client, ttl: ttl}
}

// NewFromConfig dials Redis and verifies the connection.
func NewFromConfig(ctx context.Context, conf *configs.RedisConf) (*RedisDeduplicator, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     conf.Addr,
		Password: conf.Password,
		DB:       conf.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", conf.Addr, err)
	}
	return NewRedisDeduplicator(client, conf.TTL), nil
}

func (d *RedisDeduplicator) Claim(ctx context.Context, key string) (bool, error) {
	ok, err := d.client.SetNX(ctx, keyPrefix+key, time.Now().UTC().Format(time.RFC3339), d.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to claim delivery %s: %w", key, err)
	}
	return ok, nil
}

func (d *RedisDeduplicator) Release(ctx context.Context, key string) error {
	if err := d.client.Del(ctx, keyPrefix+key).Err(); err != nil {
		return fmt.Errorf("failed to release delivery %s: %w", key, err)
	}
	return nil
}

func (d *RedisDeduplicator) Close() error {
	return d.client.Close()
}
