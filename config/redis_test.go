package config

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestConnectRedis(t *testing.T) {
	mr := miniredis.RunT(t)

	client := ConnectRedis(RedisConfig{Addr: mr.Addr()}, zap.NewNop())
	require.NotNil(t, client)
	defer client.Close()

	require.NoError(t, client.Set(context.Background(), "settings:vat_rate", "7", 0).Err())
	got, err := mr.Get("settings:vat_rate")
	require.NoError(t, err)
	assert.Equal(t, "7", got)
}

func TestConnectRedis_DisabledOrUnreachable(t *testing.T) {
	assert.Nil(t, ConnectRedis(RedisConfig{}, zap.NewNop()))

	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()
	assert.Nil(t, ConnectRedis(RedisConfig{Addr: addr}, zap.NewNop()))
}
