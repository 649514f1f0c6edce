package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSetup(t *testing.T) {
	require.NoError(t, Setup(false))
	assert.NotNil(t, L())
	L().Debug("hidden in production mode")

	require.NoError(t, Setup(true))
	L().Debug("visible in debug mode")
}

func TestCaptureOutput(t *testing.T) {
	EnableTestingMode()

	out := CaptureOutput(func() {
		L().Info("run finished", zap.String("impl", "UniqueQueue"), zap.Int64("consumed", 42))
	})

	assert.Contains(t, out, "run finished")
	assert.Contains(t, out, "UniqueQueue")
	assert.Contains(t, out, "42")

	out = CaptureOutput(func() {})
	assert.Empty(t, out)
}
