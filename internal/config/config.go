package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Драйверы хранилища
const (
	StorageFile     = "file"
	StorageSQLite   = "sqlite"
	StoragePostgres = "postgres"
)

// Config содержит всю конфигурацию приложения
type Config struct {
	Server   ServerConfig   // Настройки HTTP сервера
	Database DatabaseConfig // Настройки подключения к БД
	Storage  StorageConfig  // Выбор хранилища данных
	Lease    LeaseConfig    // Токены редактирования
	Tracker  TrackerConfig  // Поведение трекера
	Log      LogConfig      // Логирование
}

// ServerConfig содержит настройки HTTP сервера
type ServerConfig struct {
	Port string `envconfig:"SERVER_PORT" default:"8080"`
	Host string `envconfig:"SERVER_HOST" default:"0.0.0.0"`
}

// DatabaseConfig содержит настройки подключения к PostgreSQL
type DatabaseConfig struct {
	URL      string `envconfig:"DATABASE_URL"` // Если задан, используется вместо DB_*
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER" default:"leave_tracker"`
	Password string `envconfig:"DB_PASSWORD" default:"leave_tracker_pass"`
	Name     string `envconfig:"DB_NAME" default:"leave_tracker"`
	SSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`
	MaxConns int32  `envconfig:"DB_MAX_CONNS" default:"10"`
	MinConns int32  `envconfig:"DB_MIN_CONNS" default:"1"`
}

// StorageConfig выбирает, где хранятся участники
type StorageConfig struct {
	Driver     string `envconfig:"STORAGE_DRIVER" default:"file"`
	FilePath   string `envconfig:"STORAGE_FILE_PATH" default:"leave_data.json"`
	SQLitePath string `envconfig:"STORAGE_SQLITE_PATH" default:"leave_tracker.db"`
}

// LeaseConfig содержит настройки токенов редактирования
type LeaseConfig struct {
	Secret     string `envconfig:"EDIT_LEASE_SECRET" required:"true"`
	TTLMinutes int    `envconfig:"EDIT_LEASE_TTL_MINUTES" default:"30"`
}

// TrackerConfig содержит настройки трекера
type TrackerConfig struct {
	Autosave bool `envconfig:"TRACKER_AUTOSAVE" default:"false"`
}

// LogConfig содержит настройки логгера
type LogConfig struct {
	Level  string `envconfig:"LOG_LEVEL" default:"info"`
	Format string `envconfig:"LOG_FORMAT" default:"json"`
}

// GetTTL возвращает срок действия токена как time.Duration
func (l LeaseConfig) GetTTL() time.Duration {
	return time.Duration(l.TTLMinutes) * time.Minute
}

// DSN возвращает строку подключения к PostgreSQL
func (d DatabaseConfig) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// Load читает конфигурацию из переменных окружения
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Storage.Driver {
	case StorageFile, StorageSQLite, StoragePostgres:
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}
	if c.Lease.TTLMinutes <= 0 {
		return fmt.Errorf("EDIT_LEASE_TTL_MINUTES must be positive, got %d", c.Lease.TTLMinutes)
	}
	return nil
}
