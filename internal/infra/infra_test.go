package infra

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNewLogger(t *testing.T) {
	for _, env := range []string{"development", "test", "production"} {
		logger, err := NewLogger(env, "smartride")
		require.NoError(t, err, env)
		assert.Equal(t, "smartride", logger.Name())
	}
}

func TestNewLogger_DevelopmentEnablesDebug(t *testing.T) {
	dev, err := NewLogger("development", "smartride")
	require.NoError(t, err)
	prod, err := NewLogger("production", "smartride")
	require.NoError(t, err)

	assert.True(t, dev.Core().Enabled(zapcore.DebugLevel))
	assert.False(t, prod.Core().Enabled(zapcore.DebugLevel))
}

func TestNewRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()

	client, err := NewRedis(context.Background(), addr, "")
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	// closed server: the ping fails instead of returning a dead client
	mr.Close()
	_, err = NewRedis(context.Background(), addr, "")
	assert.Error(t, err)
}
