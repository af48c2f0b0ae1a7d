package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNewLogger(t *testing.T) {
	for _, enc := range []string{"", "console", "json"} {
		logger, err := NewLogger(Options{Name: "server", Encoding: enc})
		require.NoError(t, err, enc)
		assert.True(t, logger.Core().Enabled(zapcore.InfoLevel))
		assert.False(t, logger.Core().Enabled(zapcore.DebugLevel))
	}
}

func TestNewLoggerLevel(t *testing.T) {
	logger, err := NewLogger(Options{Level: "debug"})
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zapcore.DebugLevel))

	logger, err = NewLogger(Options{Level: "warn"})
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zapcore.InfoLevel))
}

func TestNewLoggerVerbose(t *testing.T) {
	logger, err := NewLogger(Options{Level: "warn", Verbose: true})
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zapcore.DebugLevel))
}

func TestNewLoggerErrors(t *testing.T) {
	_, err := NewLogger(Options{Encoding: "xml"})
	require.Error(t, err)

	_, err = NewLogger(Options{Level: "loud"})
	require.Error(t, err)
}
