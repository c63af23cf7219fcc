package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix namespaces every storefront environment variable.
const EnvPrefix = "storefront"

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

const (
	StorageBackendMemory = "memory"
	StorageBackendFile   = "file"
	StorageBackendRedis  = "redis"
)

type Config struct {
	App     AppConfig
	API     APIConfig
	Session SessionConfig
	Storage StorageConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Storage.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"STOREFRONT_APP_ENV" default:"development"`
	LogLevel     string `envconfig:"STOREFRONT_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"STOREFRONT_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type APIConfig struct {
	BaseURL        string        `envconfig:"STOREFRONT_API_BASE_URL" required:"true"`
	RequestTimeout time.Duration `envconfig:"STOREFRONT_API_REQUEST_TIMEOUT" default:"10s"`
}

type SessionConfig struct {
	StalenessWindow   time.Duration `envconfig:"STOREFRONT_SESSION_STALENESS_WINDOW" default:"30s"`
	TransientRetries  uint64        `envconfig:"STOREFRONT_SESSION_TRANSIENT_RETRIES" default:"3"`
	RetryBackoffStart time.Duration `envconfig:"STOREFRONT_SESSION_RETRY_BACKOFF" default:"250ms"`
}

type StorageConfig struct {
	Backend  string `envconfig:"STOREFRONT_STORAGE_BACKEND" default:"file"`
	FilePath string `envconfig:"STOREFRONT_STORAGE_FILE_PATH" default:".storefront/state.json"`

	RedisURL          string        `envconfig:"STOREFRONT_STORAGE_REDIS_URL"`
	RedisDialTimeout  time.Duration `envconfig:"STOREFRONT_STORAGE_REDIS_DIAL_TIMEOUT" default:"5s"`
	RedisReadTimeout  time.Duration `envconfig:"STOREFRONT_STORAGE_REDIS_READ_TIMEOUT" default:"5s"`
	RedisWriteTimeout time.Duration `envconfig:"STOREFRONT_STORAGE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

func (s StorageConfig) validate() error {
	switch s.Backend {
	case StorageBackendMemory:
		return nil
	case StorageBackendFile:
		if strings.TrimSpace(s.FilePath) == "" {
			return fmt.Errorf("file storage backend requires a file path")
		}
		return nil
	case StorageBackendRedis:
		if strings.TrimSpace(s.RedisURL) == "" {
			return fmt.Errorf("redis storage backend requires a redis url")
		}
		return nil
	default:
		return fmt.Errorf("unknown storage backend %q", s.Backend)
	}
}
