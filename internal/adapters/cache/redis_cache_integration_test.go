//go:build integration
// +build integration

package cache

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func setupRedis(t *testing.T) (string, func()) {
	t.Helper()
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)

	host, err := container.Host(ctx)
	require.NoError(t, err)
	mappedPort, err := container.MappedPort(ctx, "6379")
	require.NoError(t, err)

	cleanup := func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("Failed to terminate container: %v", err)
		}
	}
	return fmt.Sprintf("redis://%s:%s/0", host, mappedPort.Port()), cleanup
}

func TestRedisCache(t *testing.T) {
	redisURL, cleanup := setupRedis(t)
	defer cleanup()
	ctx := context.Background()

	c, err := NewRedisCache(ctx, redisURL, "property-service:")
	require.NoError(t, err)
	defer c.Close()

	_, found, err := c.Get(ctx, "types")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, c.Set(ctx, "types", []byte(`["flat"]`), time.Second))

	value, found, err := c.Get(ctx, "types")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []byte(`["flat"]`), value)

	assert.Eventually(t, func() bool {
		_, found, err := c.Get(ctx, "types")
		return err == nil && !found
	}, 5*time.Second, 100*time.Millisecond)
}
