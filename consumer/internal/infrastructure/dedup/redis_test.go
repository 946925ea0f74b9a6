package dedup

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/medeiros-dev/notification-template-service/consumer/configs"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDeduplicator(t *testing.T, ttl time.Duration) (*RedisDeduplicator, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	d := NewRedisDeduplicator(client, ttl)
	t.Cleanup(func() { _ = d.Close() })
	return d, mr
}

func TestRedisDeduplicator_ClaimRelease(t *testing.T) {
	ctx := context.Background()
	d, mr := newTestDeduplicator(t, time.Hour)

	claimed, err := d.Claim(ctx, "email:n1")
	require.NoError(t, err)
	assert.True(t, claimed)
	assert.True(t, mr.Exists(keyPrefix+"email:n1"))

	claimed, err = d.Claim(ctx, "email:n1")
	require.NoError(t, err)
	assert.False(t, claimed, "second claim must be rejected")

	require.NoError(t, d.Release(ctx, "email:n1"))
	claimed, err = d.Claim(ctx, "email:n1")
	require.NoError(t, err)
	assert.True(t, claimed, "released key can be claimed again")
}

func TestRedisDeduplicator_TTL(t *testing.T) {
	ctx := context.Background()
	d, mr := newTestDeduplicator(t, time.Minute)

	_, err := d.Claim(ctx, "sms:n2")
	require.NoError(t, err)
	assert.Equal(t, time.Minute, mr.TTL(keyPrefix+"sms:n2"))

	mr.FastForward(2 * time.Minute)
	claimed, err := d.Claim(ctx, "sms:n2")
	require.NoError(t, err)
	assert.True(t, claimed)
}

func TestRedisDeduplicator_ServerDown(t *testing.T) {
	d, mr := newTestDeduplicator(t, time.Minute)
	mr.Close()

	_, err := d.Claim(context.Background(), "email:n3")
	assert.Error(t, err)
}

func TestNewFromConfig(t *testing.T) {
	mr := miniredis.RunT(t)

	d, err := NewFromConfig(context.Background(), &configs.RedisConf{Addr: mr.Addr(), TTL: time.Minute})
	require.NoError(t, err)
	assert.NoError(t, d.Close())

	_, err = NewFromConfig(context.Background(), &configs.RedisConf{Addr: "127.0.0.1:1"})
	assert.Error(t, err)
}
