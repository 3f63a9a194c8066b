package database

import (
	"path/filepath"
	"testing"

	"charbit-go/internal/config"
	"charbit-go/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitSQLite(t *testing.T) {
	cfg := &config.DatabaseConfig{
		Driver:     "sqlite",
		SQLitePath: filepath.Join(t.TempDir(), "test.db"),
	}
	require.NoError(t, Init(cfg))
	t.Cleanup(func() { _ = Close() })

	require.NoError(t, AutoMigrate(model.All()...))
	assert.Equal(t, "sqlite", Get().Dialector.Name())
	assert.True(t, Get().Migrator().HasTable("characters"))
}

func TestInitUnsupportedDriver(t *testing.T) {
	err := Init(&config.DatabaseConfig{Driver: "oracle"})
	assert.Error(t, err)
}
