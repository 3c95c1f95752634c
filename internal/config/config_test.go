package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())

	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, int64(10<<20), cfg.App.MaxPictureBytes)
	assert.Equal(t, 15*time.Minute, cfg.Storage.PresignTTL)
	assert.Equal(t, 30*time.Second, cfg.Lock.TTL)
	assert.Equal(t, "bucket-cleanup-group", cfg.Kafka.CleanupGroup)
}

func TestLoadConfig_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	yaml := `
app:
  port: "7000"
storage:
  endpoint: minio:9000
  use_ssl: true
kafka:
  brokers:
    - k1:9092
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o600))
	t.Setenv("APP_PORT", "9090")
	t.Setenv("DB_DSN", "postgres://u:p@db/tags")
	t.Setenv("LOCK_TTL", "5s")

	cfg, err := LoadConfig(dir)

	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.App.Port)
	assert.Equal(t, "postgres://u:p@db/tags", cfg.DB.DSN)
	assert.Equal(t, "minio:9000", cfg.Storage.Endpoint)
	assert.True(t, cfg.Storage.UseSSL)
	assert.Equal(t, []string{"k1:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, 5*time.Second, cfg.Lock.TTL)
}

func TestLoadConfig_BrokerListFromEnv(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", "a:9092,b:9092")

	cfg, err := LoadConfig(t.TempDir())

	require.NoError(t, err)
	assert.Equal(t, []string{"a:9092", "b:9092"}, cfg.Kafka.Brokers)
}
