package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	HTTPAddr    string `env:"HTTP_ADDR" envDefault:":8080"`
	DatabaseURL string `env:"DATABASE_URL,required,notEmpty"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// TrustedProxies may set X-Forwarded-For; empty trusts none.
	TrustedProxies []string `env:"TRUSTED_PROXIES" envSeparator:","`

	DBMaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS" envDefault:"10"`
	DBMaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS" envDefault:"5"`
	DBConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME" envDefault:"30m"`
	DBConnectTimeout  time.Duration `env:"DB_CONNECT_TIMEOUT" envDefault:"10s"`

	// CORSAllowAll allows every origin, method and header with credentials.
	CORSAllowAll       bool     `env:"CORS_ALLOW_ALL" envDefault:"false"`
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:","`

	ItemPolicyPath string `env:"ITEM_POLICY_PATH"`

	RateLimitRequests   int           `env:"RATE_LIMIT_REQUESTS" envDefault:"0"`
	RateLimitWindow     time.Duration `env:"RATE_LIMIT_WINDOW" envDefault:"1m"`
	RateLimitFailClosed bool          `env:"RATE_LIMIT_FAIL_CLOSED" envDefault:"false"`
	RateLimitMaxKeys    int           `env:"RATE_LIMIT_MAX_KEYS" envDefault:"10000"`

	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`
}

func FromEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	cfg.CORSAllowedOrigins = trimAll(cfg.CORSAllowedOrigins)
	cfg.TrustedProxies = trimAll(cfg.TrustedProxies)
	if cfg.DBMaxOpenConns <= 0 {
		cfg.DBMaxOpenConns = 10
	}
	if cfg.DBMaxIdleConns < 0 || cfg.DBMaxIdleConns > cfg.DBMaxOpenConns {
		cfg.DBMaxIdleConns = cfg.DBMaxOpenConns
	}
	if cfg.DBConnectTimeout <= 0 {
		cfg.DBConnectTimeout = 10 * time.Second
	}
	if cfg.RateLimitWindow <= 0 {
		cfg.RateLimitWindow = time.Minute
	}
	return cfg, nil
}

func (c Config) Debug() bool {
	return strings.EqualFold(c.LogLevel, "debug")
}

func trimAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		out = append(out, v)
	}
	return out
}
