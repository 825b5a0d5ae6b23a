package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

type PostgresOptions struct {
	Conn         string `env:"POSTGRES_CONN,required"`
	Database     string `env:"POSTGRES_DATABASE" envDefault:"postgres"`
	MaxOpenConns int    `env:"POSTGRES_MAX_OPEN_CONNS" envDefault:"20"`
}

type NegotiationOptions struct {
	ResponseWindow   time.Duration `env:"RESPONSE_WINDOW" envDefault:"48h"`
	MessageMaxLength int           `env:"MESSAGE_MAX_LENGTH" envDefault:"1000"`
	GigCacheSize     int           `env:"GIG_CACHE_SIZE" envDefault:"1024"`
}

type Config struct {
	Postgres    PostgresOptions
	Negotiation NegotiationOptions

	ServerAddress   string        `env:"SERVER_ADDRESS" envDefault:":8080"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`
	MigrationsDir   string        `env:"MIGRATIONS_DIR" envDefault:"migrations"`
	MigrateOnStart  bool          `env:"MIGRATE_ON_START" envDefault:"true"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat       string        `env:"LOG_FORMAT" envDefault:"text"`
	MetricsPath     string        `env:"METRICS_PATH" envDefault:"/metrics"`
}

// LoadEnv loads whichever of envFiles exist; a missing file is not an error.
func LoadEnv(envFiles []string) error {
	existing := make([]string, 0, len(envFiles))
	for _, file := range envFiles {
		if _, err := os.Stat(file); err == nil {
			existing = append(existing, file)
		}
	}

	if len(existing) == 0 {
		return nil
	}

	return godotenv.Load(existing...)
}

func Load(envFiles ...string) (*Config, error) {
	if err := LoadEnv(envFiles); err != nil {
		return nil, errors.Wrap(err, "load env files")
	}

	c := &Config{}
	if err := env.Parse(c); err != nil {
		return nil, errors.Wrap(err, "parse env")
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}

	return c, nil
}

func (c *Config) Validate() error {
	if c.Negotiation.ResponseWindow <= 0 {
		return fmt.Errorf("RESPONSE_WINDOW must be positive, got %s", c.Negotiation.ResponseWindow)
	}
	if c.Negotiation.MessageMaxLength <= 0 {
		return fmt.Errorf("MESSAGE_MAX_LENGTH must be positive, got %d", c.Negotiation.MessageMaxLength)
	}
	if c.Negotiation.GigCacheSize <= 0 {
		return fmt.Errorf("GIG_CACHE_SIZE must be positive, got %d", c.Negotiation.GigCacheSize)
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("SHUTDOWN_TIMEOUT must be positive, got %s", c.ShutdownTimeout)
	}

	switch strings.ToLower(c.LogLevel) {
	case "silent", "error", "warn", "info", "debug":
	default:
		return fmt.Errorf("LOG_LEVEL must be one of silent, error, warn, info, debug, got %q", c.LogLevel)
	}

	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("LOG_FORMAT must be text or json, got %q", c.LogFormat)
	}

	if !strings.HasPrefix(c.MetricsPath, "/") {
		return fmt.Errorf("METRICS_PATH must start with /, got %q", c.MetricsPath)
	}

	return nil
}
