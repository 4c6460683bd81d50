package logging_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/ashgrovelabs/testsmith/internal/logging"
)

func TestNew(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error"} {
		for _, format := range []string{"json", "console"} {
			logger, err := logging.New(level, format)
			require.NoError(t, err, "level %q format %q", level, format)
			require.NotNil(t, logger)
			assert.NoError(t, logging.Sync(logger))
		}
	}
}

func TestNewInvalidLevel(t *testing.T) {
	_, err := logging.New("verbose", "json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log level")
}

func TestLevelFiltering(t *testing.T) {
	logger, err := logging.New("error", "json")
	require.NoError(t, err)

	assert.Nil(t, logger.Check(zapcore.DebugLevel, "dropped"))
	assert.NotNil(t, logger.Check(zapcore.ErrorLevel, "kept"))
}
