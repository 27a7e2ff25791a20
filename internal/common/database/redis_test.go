package database

import (
	"context"
	"errors"
	"testing"

	"activity-registry/internal/common/config"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRedis_RequiresAddress(t *testing.T) {
	_, err := NewRedis(config.RedisConfig{})
	require.Error(t, err)
}

func TestConnectRedis(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	client, err := ConnectRedis(context.Background(), config.RedisConfig{Address: mr.Addr()})
	require.NoError(t, err)
	defer client.Close()
	assert.NoError(t, client.Ping(context.Background()))
}

func TestConnectRedis_ClosesClientWhenPingFails(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	addr := mr.Addr()
	mr.Close()

	client, err := NewRedis(config.RedisConfig{Address: addr})
	require.NoError(t, err)

	ctx := context.Background()
	require.Error(t, client.pingOrClose(ctx))
	assert.ErrorIs(t, client.Client.Ping(ctx).Err(), redis.ErrClosed)

	c, err := ConnectRedis(ctx, config.RedisConfig{Address: addr})
	require.Error(t, err)
	assert.Nil(t, c)
}

func TestRedisClient_PingAndStream(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	client, err := NewRedis(config.RedisConfig{Address: mr.Addr()})
	require.NoError(t, err)
	defer client.Close()

	ctx := context.Background()
	require.NoError(t, client.Ping(ctx))

	id, err := client.AppendStream(ctx, "enrollments", 100, map[string]interface{}{
		"type":     "activity.signed_up",
		"activity": "Chess Club",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	entries, err := client.GetClient().XRange(ctx, "enrollments", "-", "+").Result()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Chess Club", entries[0].Values["activity"])
}

func TestRedisClient_PublishError(t *testing.T) {
	db, mock := redismock.NewClientMock()
	client := NewRedisFromClient(db)

	mock.ExpectPublish("enrollments", "payload").SetErr(errors.New("connection refused"))

	_, err := client.Publish(context.Background(), "enrollments", "payload")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis publish to enrollments failed")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisClient_CloseNil(t *testing.T) {
	c := &RedisClient{}
	assert.NoError(t, c.Close())
	var _ *redis.Client = c.GetClient()
}
