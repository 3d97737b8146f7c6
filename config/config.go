package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
)

type Config struct {
	Env         string `env:"ENV"          envDefault:"local" validate:"required,oneof=local staging production"`
	Port        string `env:"PORT"         envDefault:"8080"  validate:"required"`
	MetricsPort string `env:"METRICS_PORT" envDefault:"9090"  validate:"required"`
	LogLevel    string `env:"LOG_LEVEL"    envDefault:"info"  validate:"oneof=debug info warn error"`

	DatabaseURL string `env:"DATABASE_URL,required" validate:"required"`
	DBMaxConns  int32  `env:"DB_MAX_CONNS" envDefault:"10" validate:"min=1,max=200"`
	// Creates missing tables on startup.
	AutoMigrate bool `env:"AUTO_MIGRATE" envDefault:"true"`
	// Empty disables login throttling.
	RedisURL string `env:"REDIS_URL"`

	JWTSecret  string        `env:"JWT_SECRET,required" validate:"required,min=32"`
	TokenTTL   time.Duration `env:"TOKEN_TTL"   envDefault:"1h" validate:"min=1m"`
	BcryptCost int           `env:"BCRYPT_COST" envDefault:"12" validate:"min=4,max=31"`
	Locale     string        `env:"LOCALE"      envDefault:"es" validate:"oneof=es en"`

	LoginMaxAttempts int           `env:"LOGIN_MAX_ATTEMPTS" envDefault:"5"   validate:"min=1,max=1000"`
	LoginWindow      time.Duration `env:"LOGIN_WINDOW"       envDefault:"15m" validate:"min=1s"`

	StatsCron string `env:"STATS_CRON" envDefault:"*/5 * * * *" validate:"required"`

	ResendAPIKey string `env:"RESEND_API_KEY" validate:"required_if=Env production,required_if=Env staging"`
	ResendFrom   string `env:"RESEND_FROM"    validate:"required_if=Env production,required_if=Env staging"`
	AppBaseURL   string `env:"APP_BASE_URL"   envDefault:"http://localhost:8080" validate:"required,url"`
}

func Load() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	cfg.AppBaseURL = strings.TrimRight(cfg.AppBaseURL, "/")
	return cfg, nil
}

func (c *Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// Local reports whether the process runs on a developer machine.
func (c *Config) Local() bool {
	return c.Env == "local"
}
