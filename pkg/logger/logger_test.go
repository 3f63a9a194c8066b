package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestDefaultLoggerIsNop(t *testing.T) {
	assert.NotPanics(t, func() {
		Info("before init", zap.String("k", "v"))
	})
}

func TestInitFileOutput(t *testing.T) {
	prev := Logger
	t.Cleanup(func() { Logger = prev })

	path := filepath.Join(t.TempDir(), "logs", "app.log")
	require.NoError(t, Init(Options{
		Service:  "charbit-test",
		Level:    "debug",
		Format:   "json",
		Output:   "file",
		FilePath: path,
	}))

	Info("written to file", zap.Int("n", 1))
	Debug("debug enabled")
	Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "written to file")
	assert.Contains(t, string(data), "debug enabled")
	assert.Contains(t, string(data), `"service":"charbit-test"`)
}

func TestInitLevelFilters(t *testing.T) {
	prev := Logger
	t.Cleanup(func() { Logger = prev })

	path := filepath.Join(t.TempDir(), "app.log")
	require.NoError(t, Init(Options{Level: "warn", Format: "json", Output: "both", FilePath: path}))

	Info("dropped")
	Warn("kept")
	Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "dropped")
	assert.Contains(t, string(data), "kept")
}
