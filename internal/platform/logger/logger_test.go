package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/leitner/internal/config"
)

func TestSetupRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := SetupWithWriter(config.LogConfig{Level: "warn"}, &buf)

	logger.Info("hidden")
	logger.Warn("visible")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "visible", entry["msg"])
	assert.Equal(t, "WARN", entry["level"])
}

func TestSetupUnknownLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	logger := SetupWithWriter(config.LogConfig{Level: "loud"}, &buf)

	logger.Debug("hidden at info")
	logger.Info("shown at info")

	assert.Contains(t, buf.String(), "shown at info")
	assert.NotContains(t, buf.String(), "hidden at info")
}
