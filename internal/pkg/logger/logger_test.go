package logger

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// resetLogger resets the global logger state for testing
func resetLogger() {
	logger = nil
	initOnce = sync.Once{}
}

func TestInit(t *testing.T) {
	t.Run("successful initialization with default level", func(t *testing.T) {
		resetLogger()

		err := Init()
		require.NoError(t, err)
		assert.NotNil(t, logger)
	})

	t.Run("successful initialization with custom level", func(t *testing.T) {
		resetLogger()

		err := Init(WithLevel("debug"))
		require.NoError(t, err)
		assert.NotNil(t, logger)
	})

	t.Run("should return an error for an unknown level", func(t *testing.T) {
		resetLogger()

		err := Init(WithLevel("verbose"))
		require.Error(t, err)
		assert.Nil(t, logger)
	})

	t.Run("should keep the first configuration on repeated calls", func(t *testing.T) {
		resetLogger()

		require.NoError(t, Init(WithLevel("error")))
		first := logger

		require.NoError(t, Init(WithLevel("debug")))
		assert.Same(t, first, logger)
	})
}

func TestLogFunctions(t *testing.T) {
	resetLogger()
	require.NoError(t, Init(WithLevel("error")))

	ctx := context.Background()

	assert.NotPanics(t, func() {
		Debug(ctx, "debug message", "key", "value")
		Info(ctx, "info message", "key", "value")
		Warn(ctx, "warn message", "key", "value")
		Error(ctx, "error message", "key", "value")
	})
}

func TestSync(t *testing.T) {
	resetLogger()
	require.NoError(t, Init(WithLevel("error")))

	// Syncing stdout can fail on some platforms; it only must not panic.
	assert.NotPanics(t, func() { _ = Sync() })
}
