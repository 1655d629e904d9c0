package config

import (
	"fmt"
	"log/slog"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	App      App
	Database Database
	Redis    Redis
	Bot      Bot
	HTTP     HTTP
	Auth     Auth
	Scan     Scan
	Ops      Ops
	Tracing  Tracing
}

type App struct {
	Name        string     `env:"APP_NAME"    envDefault:"smartdeals"`
	Version     string     `env:"APP_VERSION" envDefault:"dev"`
	Environment string     `env:"APP_ENV"     envDefault:"local"`
	LogLevel    slog.Level `env:"LOG_LEVEL"   envDefault:"INFO"`
	LogJSON     bool       `env:"LOG_JSON"    envDefault:"false"`
}

// Load читает .env (если есть) и переменные окружения.
func Load() (Config, error) {
	_ = godotenv.Load()

	var config Config

	if err := env.Parse(&config); err != nil {
		return Config{}, fmt.Errorf("env.Parse: %w", err)
	}

	if err := config.validate(); err != nil {
		return Config{}, err
	}

	return config, nil
}

func (c Config) validate() error {
	switch c.Database.Driver {
	case DriverPostgres, DriverSQLite, DriverMemory:
	default:
		return fmt.Errorf("DB_DRIVER: unsupported driver %q", c.Database.Driver)
	}

	if c.Database.Driver != DriverMemory && c.Database.DSN == "" {
		return fmt.Errorf("DB_DSN: required for driver %q", c.Database.Driver)
	}

	switch c.Scan.Trigger {
	case TriggerTicker:
	case TriggerAsynq:
		if !c.Redis.Enabled() {
			return fmt.Errorf("SCAN_TRIGGER=%s requires REDIS_ADDR", TriggerAsynq)
		}
	default:
		return fmt.Errorf("SCAN_TRIGGER: unsupported trigger %q", c.Scan.Trigger)
	}

	return nil
}
