package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

const (
	StoreDriverPostgres = "postgres"
	StoreDriverSQLite   = "sqlite"
	StoreDriverMemory   = "memory"
)

// Config centraliza la configuración del servicio.
type Config struct {
	HTTPPort                string `env:"HTTP_PORT" envDefault:"8080"`
	StoreDriver             string `env:"STORE_DRIVER" envDefault:"sqlite"`
	DatabaseURL             string `env:"DATABASE_URL"`
	SQLitePath              string `env:"SQLITE_PATH" envDefault:"feedback.db"`
	RedisAddr               string `env:"REDIS_ADDR"`
	RedisPassword           string `env:"REDIS_PASSWORD"`
	RedisDB                 int    `env:"REDIS_DB" envDefault:"0"`
	SubmitRateLimit         int    `env:"SUBMIT_RATE_LIMIT" envDefault:"30"`
	SubmitRateWindowSeconds int    `env:"SUBMIT_RATE_WINDOW_SECONDS" envDefault:"60"`
	JWTSecret               string `env:"JWT_SECRET"`
	JWTAccessTTLMinutes     int    `env:"JWT_ACCESS_TTL_MINUTES" envDefault:"60"`
	ExportPath              string `env:"EXPORT_PATH" envDefault:"feedback_export.csv"`
}

// LoadConfig carga la configuración desde variables de entorno.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	cfg.StoreDriver = strings.ToLower(strings.TrimSpace(cfg.StoreDriver))
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.StoreDriver {
	case StoreDriverPostgres:
		if strings.TrimSpace(c.DatabaseURL) == "" {
			return fmt.Errorf("DATABASE_URL is required for store driver %q", c.StoreDriver)
		}
	case StoreDriverSQLite:
		if strings.TrimSpace(c.SQLitePath) == "" {
			return fmt.Errorf("SQLITE_PATH is required for store driver %q", c.StoreDriver)
		}
	case StoreDriverMemory:
	default:
		return fmt.Errorf("unknown store driver %q", c.StoreDriver)
	}
	return nil
}

func (c *Config) SubmitRateWindow() time.Duration {
	return time.Duration(c.SubmitRateWindowSeconds) * time.Second
}

func (c *Config) JWTAccessTTL() time.Duration {
	return time.Duration(c.JWTAccessTTLMinutes) * time.Minute
}
