// Package config decodes the service settings from the process environment.
// A dotenv file, when present, seeds variables that are not already set.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const defaultEnvFile = ".env"

// Config is the runtime configuration of the bank account service.
type Config struct {
	AppName   string `envconfig:"APP_NAME" default:"BankAccount"`
	AppEnv    string `envconfig:"APP_ENV" default:"development"`
	Port      string `envconfig:"PORT" default:"8080"`
	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"json"`

	Database DatabaseConfig `envconfig:"DATABASE"`
	Redis    RedisConfig    `envconfig:"REDIS"`

	ShutdownPeriod time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
	IdempotencyTTL time.Duration `envconfig:"IDEMPOTENCY_TTL" default:"24h"`

	// EnvFile names the dotenv file that was applied, empty when none was found.
	EnvFile string `ignored:"true"`
}

// DatabaseConfig holds the Postgres settings, read from DATABASE_*.
type DatabaseConfig struct {
	URL         string        `envconfig:"URL"`
	MaxConns    int32         `envconfig:"MAX_CONNS"`
	MaxConnIdle time.Duration `envconfig:"MAX_CONN_IDLE" default:"5m"`
}

// RedisConfig holds the Redis settings, read from REDIS_*.
type RedisConfig struct {
	URL         string        `envconfig:"URL"`
	DialTimeout time.Duration `envconfig:"DIAL_TIMEOUT" default:"3s"`
}

// Load applies the first existing file of envFiles (".env" when none are
// given) and decodes the environment. Outside development both backend URLs
// are mandatory.
func Load(envFiles ...string) (Config, error) {
	applied, err := applyEnvFile(envFiles)
	if err != nil {
		return Config{}, err
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("decode environment: %w", err)
	}
	cfg.EnvFile = applied
	cfg.AppEnv = strings.ToLower(strings.TrimSpace(cfg.AppEnv))
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnvFile(files []string) (string, error) {
	if len(files) == 0 {
		files = []string{defaultEnvFile}
	}
	for _, name := range files {
		err := godotenv.Load(name)
		switch {
		case err == nil:
			return name, nil
		case errors.Is(err, fs.ErrNotExist):
			continue
		default:
			return "", fmt.Errorf("load %s: %w", name, err)
		}
	}
	return "", nil
}

func (c Config) validate() error {
	if strings.TrimPrefix(c.Port, ":") == "" {
		return errors.New("PORT must not be empty")
	}
	if c.ShutdownPeriod <= 0 {
		return fmt.Errorf("SHUTDOWN_TIMEOUT must be positive, got %s", c.ShutdownPeriod)
	}
	if c.IdempotencyTTL <= 0 {
		return fmt.Errorf("IDEMPOTENCY_TTL must be positive, got %s", c.IdempotencyTTL)
	}
	if c.IsDev() {
		return nil
	}
	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL must be set when APP_ENV=%s", c.AppEnv)
	}
	if c.Redis.URL == "" {
		return fmt.Errorf("REDIS_URL must be set when APP_ENV=%s", c.AppEnv)
	}
	return nil
}

// IsDev reports whether the app runs in a local development environment.
func (c Config) IsDev() bool {
	switch c.AppEnv {
	case "dev", "development", "local", "test":
		return true
	default:
		return false
	}
}

// Address is the Fiber listen address.
func (c Config) Address() string {
	return ":" + strings.TrimPrefix(c.Port, ":")
}
