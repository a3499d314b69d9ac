package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
)

// Config is read from SANDWICH_* environment variables.
type Config struct {
	Port            string        `envconfig:"PORT" default:"8080"`
	GinMode         string        `envconfig:"GIN_MODE" default:"debug"`
	DBDriver        string        `envconfig:"DB_DRIVER" default:"sqlite"`
	DBDSN           string        `envconfig:"DB_DSN" default:"sandwich_shop.db"`
	JWTSecret       string        `envconfig:"JWT_SECRET" default:"sandwich_shop_dev_secret"`
	TokenTTL        time.Duration `envconfig:"TOKEN_TTL" default:"24h"`
	LogLevel        string        `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat       string        `envconfig:"LOG_FORMAT" default:"json"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
}

const envPrefix = "sandwich"

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return nil, errors.Wrap(err, "read environment")
	}
	switch cfg.DBDriver {
	case DriverSQLite, DriverPostgres, DriverMySQL:
	default:
		return nil, errors.Errorf("unsupported DB_DRIVER %q (want sqlite, postgres or mysql)", cfg.DBDriver)
	}
	return &cfg, nil
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + c.Port
}
