package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "tkbshop"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	StorageDriverFile   = "file"
	StorageDriverSQLite = "sqlite"
	StorageDriverRedis  = "redis"
	StorageDriverMemory = "memory"
)

type Config struct {
	App     AppConfig
	API     APIConfig
	Storage StorageConfig
	Redis   RedisConfig
	Session SessionConfig
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
	Env          string `envconfig:"TKBSHOP_APP_ENV" default:"dev"`
	LogLevel     string `envconfig:"TKBSHOP_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"TKBSHOP_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// APIConfig points the REST client at the storefront backend.
type APIConfig struct {
	BaseURL string        `envconfig:"TKBSHOP_BACKEND_URL" required:"true"`
	Timeout time.Duration `envconfig:"TKBSHOP_API_TIMEOUT" default:"10s"`
}

// StorageConfig selects the key-value bridge backend.
type StorageConfig struct {
	Driver string `envconfig:"TKBSHOP_STORAGE_DRIVER" default:"file"`
	Path   string `envconfig:"TKBSHOP_STORAGE_PATH" default:".tkbshop"`
}

func (s StorageConfig) validate() error {
	switch s.Driver {
	case StorageDriverFile, StorageDriverSQLite, StorageDriverRedis, StorageDriverMemory:
		return nil
	default:
		return fmt.Errorf("unknown storage driver %q", s.Driver)
	}
}

type RedisConfig struct {
	URL          string        `envconfig:"TKBSHOP_REDIS_URL"`
	Address      string        `envconfig:"TKBSHOP_REDIS_ADDR"`
	Password     string        `envconfig:"TKBSHOP_REDIS_PASSWORD"`
	DB           int           `envconfig:"TKBSHOP_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"TKBSHOP_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"TKBSHOP_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"TKBSHOP_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"TKBSHOP_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"TKBSHOP_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// SessionConfig bounds the startup profile-verification round trip.
type SessionConfig struct {
	VerifyTimeout time.Duration `envconfig:"TKBSHOP_SESSION_VERIFY_TIMEOUT" default:"10s"`
}
