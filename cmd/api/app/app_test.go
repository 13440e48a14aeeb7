package app

import (
	"context"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"graphql-user-service/internal/config"
)

func TestApp_RunStopsOnCancel(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cfg, err := config.LoadConfig(t.TempDir())
	require.NoError(t, err)
	cfg.App.Port = "0"
	cfg.DB.Driver = "sqlite"
	cfg.DB.Name = ":memory:"
	cfg.Logger.Level = "warn"
	cfg.App.ShutdownTimeoutSeconds = 1

	a, err := New(context.Background(), cfg, zaptest.NewLogger(t))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("app did not stop")
	}
}

func TestLoadConfig_FromConfigPath(t *testing.T) {
	t.Setenv("CONFIG_PATH", t.TempDir())
	t.Setenv("PORT", "4321")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "4321", cfg.App.Port)
}

func TestNewLogger(t *testing.T) {
	cfg, err := config.LoadConfig(t.TempDir())
	require.NoError(t, err)
	cfg.Logger.OutputPath = "stderr"

	l, err := NewLogger(cfg)
	require.NoError(t, err)
	assert.NotNil(t, l)
}
