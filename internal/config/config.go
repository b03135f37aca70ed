// Package config loads service configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

const (
	EnvDev   = "development"
	EnvProd  = "production"
	EnvLocal = "local"
)

type Config struct {
	Env             string        `env:"APP_ENV" envDefault:"development"`
	Port            string        `env:"PORT" envDefault:"8080"`
	DatabaseURL     string        `env:"DATABASE_URL"`
	RedisURL        string        `env:"REDIS_URL"`
	JWTSecret       string        `env:"SUPABASE_JWT_SECRET"`
	RequireAuth     bool          `env:"REQUIRE_AUTH" envDefault:"false"`
	SkillsCacheTTL  time.Duration `env:"SKILLS_CACHE_TTL" envDefault:"5m"`
	SkillStatsCron  string        `env:"SKILL_STATS_SCHEDULE" envDefault:"@every 1h"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`

	Razorpay Razorpay `envPrefix:"RAZORPAY_"`
	Plunk    Plunk    `envPrefix:"PLUNK_"`
}

type Razorpay struct {
	KeyID     string `env:"KEY_ID"`
	KeySecret string `env:"KEY_SECRET"`
	APIURL    string `env:"API_URL" envDefault:"https://api.razorpay.com/v1"`
}

type Plunk struct {
	APIKey string `env:"API_KEY"`
	From   string `env:"FROM"`
}

// Load parses the process environment into a Config.
func Load() (Config, error) {
	return parse(env.Options{})
}

func parse(opts env.Options) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.Env {
	case EnvDev, EnvProd, EnvLocal:
	default:
		return fmt.Errorf("unknown env: %s", c.Env)
	}
	if c.Port == "" {
		return errors.New("PORT must not be empty")
	}
	if c.RequireAuth && c.JWTSecret == "" {
		return errors.New("REQUIRE_AUTH needs SUPABASE_JWT_SECRET")
	}
	return nil
}

func (c Config) IsProduction() bool { return c.Env == EnvProd }
