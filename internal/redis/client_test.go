package redis_test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zevankai/Equipment-Tool/internal/errors"
	redisclient "github.com/Zevankai/Equipment-Tool/internal/redis"
)

func TestNewClientRequiresEndpoint(t *testing.T) {
	_, err := redisclient.NewClient("", nil)
	assert.True(t, errors.IsInvalidArgument(err))
}

func TestPing(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)

	client, err := redisclient.NewClient(mr.Addr(), &redisclient.Options{PoolSize: 2, MaxRetries: 1})
	require.NoError(t, err)
	defer func() { _ = client.Close() }()
	require.NoError(t, redisclient.Ping(ctx, client))

	mr.Close()
	err = redisclient.Ping(ctx, client)
	assert.True(t, errors.IsUnavailable(err))
}
