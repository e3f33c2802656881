package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestLoggerSingleton(t *testing.T) {
	first := L()
	second := L()
	assert.Same(t, first, second)
	require.NoError(t, Sync())
}

func TestConfigure(t *testing.T) {
	t.Cleanup(func() { Configure(Options{}) })

	l := Configure(Options{Format: "json", Debug: true})
	assert.Same(t, l, L())
	assert.True(t, l.Desugar().Core().Enabled(zapcore.DebugLevel))

	l = Configure(Options{})
	assert.False(t, l.Desugar().Core().Enabled(zapcore.DebugLevel))
	assert.True(t, l.Desugar().Core().Enabled(zapcore.InfoLevel))
}

func TestWith(t *testing.T) {
	child := With("run_id", "abc")
	assert.NotNil(t, child)
	assert.NotSame(t, L(), child)
}
