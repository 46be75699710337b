// Package config собирает конфигурацию бота: значения по умолчанию,
// затем TOML-файл, затем переменные окружения KINO_*. Результат создаётся
// один раз при старте и передаётся компонентам по указателю.
package config

import (
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
	"github.com/pkg/errors"
)

const (
	DriverFile     = "file"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
	DriverRedis    = "redis"
)

type StorageConfig struct {
	Driver      string `toml:"driver" env:"DRIVER"`
	Dir         string `toml:"dir" env:"DIR"`                   // для driver=file
	SQLitePath  string `toml:"sqlite_path" env:"SQLITE_PATH"`   // для driver=sqlite
	PostgresURL string `toml:"postgres_url" env:"POSTGRES_URL"` // для driver=postgres
	RedisAddr   string `toml:"redis_addr" env:"REDIS_ADDR"`     // для driver=redis
}

type LogConfig struct {
	Level  string `toml:"level" env:"LEVEL"`
	Format string `toml:"format" env:"FORMAT"` // text | json
}

type BackupConfig struct {
	Interval   time.Duration `toml:"interval" env:"INTERVAL"` // 0: только по команде
	File       string        `toml:"file" env:"FILE"`
	S3Bucket   string        `toml:"s3_bucket" env:"S3_BUCKET"`
	S3Key      string        `toml:"s3_key" env:"S3_KEY"`
	S3Region   string        `toml:"s3_region" env:"S3_REGION"`
	S3Endpoint string        `toml:"s3_endpoint" env:"S3_ENDPOINT"` // MinIO и т.п.
}

type Config struct {
	Token  string  `toml:"token" env:"BOT_TOKEN"`
	Admins []int64 `toml:"admins" env:"ADMINS" envSeparator:","`
	Locale string  `toml:"locale" env:"LOCALE"`

	PollTimeout   time.Duration `toml:"poll_timeout" env:"POLL_TIMEOUT"`
	AuditInterval time.Duration `toml:"audit_interval" env:"AUDIT_INTERVAL"` // 0: аудит каналов выключен
	NATSURL       string        `toml:"nats_url" env:"NATS_URL"`
	MonitorAddr   string        `toml:"monitor_addr" env:"MONITOR_ADDR"`

	Storage StorageConfig `toml:"storage" envPrefix:"STORAGE_"`
	Log     LogConfig     `toml:"log" envPrefix:"LOG_"`
	Backup  BackupConfig  `toml:"backup" envPrefix:"BACKUP_"`
}

// Default: конфигурация без файла и окружения.
func Default() *Config {
	return &Config{
		Locale:        "uz",
		PollTimeout:   60 * time.Second,
		AuditInterval: 10 * time.Minute,
		Storage: StorageConfig{
			Driver:     DriverFile,
			Dir:        "data",
			SQLitePath: "data/movies.db",
		},
		Log: LogConfig{Level: "info", Format: "text"},
		Backup: BackupConfig{
			S3Region: "us-east-1",
			S3Key:    "kino/backup.jsonl",
		},
	}
}

// Load читает конфигурацию. path может быть пустым или указывать на
// несуществующий файл, если required=false.
func Load(path string, required bool) (*Config, error) {
	cfg := Default()
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if _, err := toml.DecodeFile(path, cfg); err != nil {
				return nil, errors.Wrapf(err, "decode %s", path)
			}
		} else if required || !os.IsNotExist(err) {
			return nil, errors.Wrapf(err, "config %s", path)
		}
	}
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: "KINO_"}); err != nil {
		return nil, errors.Wrap(err, "parse env")
	}
	return cfg, nil
}

// Validate проверяет то, без чего бот не запустится.
func (c *Config) Validate() error {
	if c.Token == "" {
		return errors.New("bot token is required (token / KINO_BOT_TOKEN)")
	}
	return c.ValidateStorage()
}

// ValidateStorage проверяет только настройки хранилища: этого достаточно
// для CLI-команд, которым не нужен токен.
func (c *Config) ValidateStorage() error {
	s := c.Storage
	switch s.Driver {
	case DriverFile:
		if s.Dir == "" {
			return errors.New("storage.dir is required for file driver")
		}
	case DriverSQLite:
		if s.SQLitePath == "" {
			return errors.New("storage.sqlite_path is required for sqlite driver")
		}
	case DriverPostgres:
		if s.PostgresURL == "" {
			return errors.New("storage.postgres_url is required for postgres driver")
		}
	case DriverRedis:
		if s.RedisAddr == "" {
			return errors.New("storage.redis_addr is required for redis driver")
		}
	case DriverMemory:
	default:
		return errors.Errorf("unknown storage driver %q", s.Driver)
	}
	return nil
}

// IsAdmin: входит ли пользователь в список операторов.
func (c *Config) IsAdmin(userID int64) bool {
	for _, id := range c.Admins {
		if id == userID {
			return true
		}
	}
	return false
}
