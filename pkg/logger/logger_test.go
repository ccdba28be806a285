package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAcceptsKnownLevels(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error"} {
		log, err := New(level, "json")
		require.NoError(t, err, "level %s", level)
		require.NotNil(t, log)
	}
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	_, err := New("loud", "json")
	assert.Error(t, err)
}

func TestWithRotationWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")

	log, err := New("info", "json", WithRotation(path, 10, 3, 7, false))
	require.NoError(t, err)

	log.Info("rotation smoke test")
	_ = log.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "rotation smoke test")
}
