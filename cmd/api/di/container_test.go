package di

import (
	"context"
	"net"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"graphql-user-service/internal/config"
)

func sqliteConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.LoadConfig(t.TempDir())
	require.NoError(t, err)
	cfg.DB.Driver = "sqlite"
	cfg.DB.Name = ":memory:"
	cfg.Logger.Level = "warn"
	return cfg
}

func TestNewContainer_SQLite(t *testing.T) {
	c, err := NewContainer(context.Background(), sqliteConfig(t), zaptest.NewLogger(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	assert.Nil(t, c.RedisClient)
	assert.NotNil(t, c.Schema)
	assert.NotNil(t, c.GraphQLHandler)
	assert.NotNil(t, c.HealthHandler)
	assert.True(t, c.DB.Migrator().HasTable("users"))
	assert.NoError(t, c.UserRepo.Ping(context.Background()))

	resp := c.Schema.Exec(context.Background(), `{ getUsers { id } }`, "", nil)
	assert.Empty(t, resp.Errors)
	assert.JSONEq(t, `{"getUsers":[]}`, string(resp.Data))
}

func TestNewContainer_WithRateLimitRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	host, port, err := net.SplitHostPort(mr.Addr())
	require.NoError(t, err)

	cfg := sqliteConfig(t)
	cfg.RateLimit.Enabled = true
	cfg.Redis.Host, cfg.Redis.Port = host, port

	c, err := NewContainer(context.Background(), cfg, zaptest.NewLogger(t))
	require.NoError(t, err)
	require.NotNil(t, c.RedisClient)
	assert.NoError(t, c.Close())
}

func TestNewContainer_InvalidConfig(t *testing.T) {
	cfg := sqliteConfig(t)
	cfg.DB.Driver = "mysql"

	_, err := NewContainer(context.Background(), cfg, zaptest.NewLogger(t))
	assert.ErrorContains(t, err, "config validation failed")
}
