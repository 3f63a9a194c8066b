package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, "app:\n  name: charbit-test\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "charbit-test", cfg.App.Name)
	assert.Equal(t, 8000, cfg.App.Port)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, 5*time.Minute, cfg.Cache.TrendingDuration())
	assert.Equal(t, 168*time.Hour, cfg.JWT.ExpireDuration())
	assert.Equal(t, "characters", cfg.Elasticsearch.CharacterIndex())
	assert.Equal(t, "character_events", cfg.Kafka.CharacterTopic())
	assert.Same(t, cfg, Get())
}

func TestLoadEnvOverride(t *testing.T) {
	path := writeConfig(t, "database:\n  driver: postgres\n  host: db.internal\n")
	t.Setenv("CHARBIT_DATABASE_HOST", "127.0.0.2")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.2", cfg.Database.Host)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestDSN(t *testing.T) {
	d := DatabaseConfig{Host: "h", Port: 5432, User: "u", Password: "p", DBName: "d", SSLMode: "disable"}
	assert.Equal(t, "host=h port=5432 user=u password=p dbname=d sslmode=disable", d.DSN())
}
