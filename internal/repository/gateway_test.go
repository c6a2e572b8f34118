package repository

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unclebandit/spinwin-backend/internal/config"
)

func TestOpenMemory(t *testing.T) {
	g, err := Open(context.Background(), config.Config{})
	require.NoError(t, err)
	defer g.Close()

	assert.IsType(t, &MemoryRepository{}, g.Campaigns)
	assert.Nil(t, g.Cache)
}

func TestOpenWithRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	g, err := Open(context.Background(), config.Config{RedisAddr: mr.Addr()})
	require.NoError(t, err)
	defer g.Close()

	require.NotNil(t, g.Cache)
	assert.Same(t, g.Cache, g.Campaigns)
	assert.IsType(t, &MemoryRepository{}, g.Cache.Inner)
}

func TestOpenRedisUnreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := Open(context.Background(), config.Config{RedisAddr: addr})
	assert.ErrorContains(t, err, "connect to redis")
}
