package config

import "time"

const (
	EnvDev   = "dev"
	EnvProd  = "prod"
	EnvLocal = "local"
)

var globalConfig *Config

func Global() *Config {
	return globalConfig
}

func SetGlobal(cfg *Config) {
	globalConfig = cfg
}

type Config struct {
	Env       string `env:"ENV" env-default:"local"`
	HTTP      HTTPConfig
	Storage   StorageConfig
	RateLimit RateLimitConfig
}

type HTTPConfig struct {
	Host            string        `env:"HTTP_HOST" env-default:"0.0.0.0"`
	Port            string        `env:"HTTP_PORT" env-default:"3001"`
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" env-default:"5s"`
}

type StorageConfig struct {
	// Driver is either "sqlite" (the single-file default) or "postgres".
	Driver      string        `env:"STORAGE_DRIVER" env-default:"sqlite"`
	DSN         string        `env:"STORAGE_DSN" env-default:"database.sqlite"`
	PingTimeout time.Duration `env:"STORAGE_PING_TIMEOUT" env-default:"10s"`
}

type RateLimitConfig struct {
	// Seeded bug: a single shared budget for the whole API, with a far
	// too permissive default.
	Max    int           `env:"RATE_LIMIT_MAX" env-default:"1000"`
	Window time.Duration `env:"RATE_LIMIT_WINDOW" env-default:"15m"`
}
