package config

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/kelseyhightower/envconfig"
)

const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

type Config struct {
	App struct {
		Name string `envconfig:"APP_NAME" default:"Timebank"`
		Port int    `envconfig:"PORT" default:"8080"`
	}

	Server struct {
		Timeout time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
	}

	Store struct {
		Driver string `envconfig:"STORE_DRIVER" default:"postgres"`
	}

	DB struct {
		Host            string        `envconfig:"DB_HOST" default:"localhost"`
		Port            int           `envconfig:"DB_PORT" default:"5432"`
		User            string        `envconfig:"DB_USER" default:"postgres"`
		Password        string        `envconfig:"DB_PASSWORD" default:""`
		Name            string        `envconfig:"DB_NAME" default:"timebank"`
		MaxOpenConns    int           `envconfig:"DB_MAX_OPEN_CONNS" default:"10"`
		MaxIdleConns    int           `envconfig:"DB_MAX_IDLE_CONNS" default:"5"`
		ConnMaxLifetime time.Duration `envconfig:"DB_CONN_MAX_LIFETIME" default:"30m"`
	}

	CORS struct {
		AllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`
	}

	Renderer struct {
		URL     string        `envconfig:"RENDERER_URL"`
		Token   string        `envconfig:"RENDERER_TOKEN"`
		Timeout time.Duration `envconfig:"RENDERER_TIMEOUT" default:"30s"`
	}

	// TUI preselects the license the terminal client opens.
	TUI struct {
		LicenseID string `envconfig:"LICENSE_ID"`
	}
}

func (c *Config) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name)
}

func (c *Config) validate() error {
	switch c.Store.Driver {
	case DriverPostgres, DriverMemory:
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q: want %s or %s", c.Store.Driver, DriverPostgres, DriverMemory)
	}

	if c.App.Port <= 0 || c.App.Port > 65535 {
		return fmt.Errorf("invalid PORT %d", c.App.Port)
	}

	if c.TUI.LicenseID != "" {
		if _, err := uuid.Parse(c.TUI.LicenseID); err != nil {
			return fmt.Errorf("invalid LICENSE_ID: %w", err)
		}
	}

	return nil
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}
