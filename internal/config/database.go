package config

import "time"

const (
	DriverPostgres = "pgx"
	DriverSQLite   = "sqlite3"
	DriverMemory   = "memory"
)

type Database struct {
	Driver          string        `env:"DB_DRIVER"            envDefault:"sqlite3"`
	DSN             string        `env:"DB_DSN"               envDefault:"file:smartdeals.db?_foreign_keys=on" json:"-"`
	MaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS"    envDefault:"5"`
	MaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS"    envDefault:"5"`
	ConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME" envDefault:"5m"`
	// AutoMigrate применяет миграции при старте serve.
	AutoMigrate bool `env:"DB_AUTO_MIGRATE" envDefault:"true"`
}

type Redis struct {
	Address  string `env:"REDIS_ADDR"`
	Username string `env:"REDIS_USERNAME"`
	Password string `env:"REDIS_PASSWORD" json:"-"`
	DB       int    `env:"REDIS_DB"       envDefault:"0"`
	PoolSize int    `env:"REDIS_POOL_SIZE" envDefault:"10"`
}

// Enabled - Redis необязателен: без него блокировки локальные, а триггер
// сканирования - внутренний тикер.
func (r Redis) Enabled() bool {
	return r.Address != ""
}
