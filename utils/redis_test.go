package utils

import (
	"context"
	"testing"

	"github.com/sharath018/eventify-backend/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRedisClientDisabled(t *testing.T) {
	rdb, err := NewRedisClient(context.Background(), &config.Config{})
	require.NoError(t, err)
	assert.Nil(t, rdb)
}

func TestNewRedisClientUnreachable(t *testing.T) {
	rdb, err := NewRedisClient(context.Background(), &config.Config{RedisAddr: "127.0.0.1:1"})
	assert.Error(t, err)
	assert.Nil(t, rdb)
}
