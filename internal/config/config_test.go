package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "kino.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadDefaultsWithoutFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.toml"), false)
	require.NoError(t, err)
	assert.Equal(t, DriverFile, cfg.Storage.Driver)
	assert.Equal(t, "uz", cfg.Locale)
	assert.Equal(t, 60*time.Second, cfg.PollTimeout)
}

func TestLoadRequiredMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"), true)
	require.Error(t, err)
}

func TestLoadFileThenEnv(t *testing.T) {
	path := writeFile(t, `
token = "from-file"
admins = [1, 2]
poll_timeout = "30s"

[storage]
driver = "sqlite"
sqlite_path = "/tmp/kino.db"

[backup]
interval = "1h"
s3_bucket = "bucket"
`)
	t.Setenv("KINO_BOT_TOKEN", "from-env")
	t.Setenv("KINO_ADMINS", "7,8,9")
	t.Setenv("KINO_LOG_LEVEL", "debug")

	cfg, err := Load(path, true)
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.Token)
	assert.Equal(t, []int64{7, 8, 9}, cfg.Admins)
	assert.Equal(t, 30*time.Second, cfg.PollTimeout)
	assert.Equal(t, DriverSQLite, cfg.Storage.Driver)
	assert.Equal(t, "/tmp/kino.db", cfg.Storage.SQLitePath)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, time.Hour, cfg.Backup.Interval)
	assert.Equal(t, "bucket", cfg.Backup.S3Bucket)
	// не тронутое ни файлом, ни окружением остаётся по умолчанию
	assert.Equal(t, "kino/backup.jsonl", cfg.Backup.S3Key)
	require.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	cfg := Default()
	require.Error(t, cfg.Validate(), "token is required")
	require.NoError(t, cfg.ValidateStorage())

	cfg.Token = "t"
	cfg.Storage.Driver = "mongo"
	require.Error(t, cfg.Validate())

	cfg.Storage.Driver = DriverPostgres
	require.Error(t, cfg.Validate())
	cfg.Storage.PostgresURL = "postgres://localhost/kino"
	require.NoError(t, cfg.Validate())
}

func TestIsAdmin(t *testing.T) {
	cfg := &Config{Admins: []int64{10, 20}}
	assert.True(t, cfg.IsAdmin(20))
	assert.False(t, cfg.IsAdmin(30))
}
