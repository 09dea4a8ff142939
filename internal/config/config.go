package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
)

const (
	DriverREST     = "rest"
	DriverPostgres = "postgres"
)

type Config struct {
	HTTPPort string `env:"HTTP_PORT,default=8080"`

	BackendDriver string `env:"BACKEND_DRIVER,default=rest"`
	BackendURL    string `env:"BACKEND_URL"`
	BackendAPIKey string `env:"BACKEND_API_KEY"`
	DatabaseURL   string `env:"DATABASE_URL"`

	JWTSecret string `env:"AUTH_JWT_SECRET"`

	RequestTimeout     time.Duration `env:"REQUEST_TIMEOUT,default=10s"`
	RefreshInterval    time.Duration `env:"REFRESH_INTERVAL,default=5m"`
	ApplyRatePerMinute int           `env:"APPLY_RATE_PER_MINUTE,default=10"`

	GeminiAPIKey string `env:"GEMINI_API_KEY"`
	GeminiModel  string `env:"GEMINI_MODEL,default=gemini-2.5-flash"`

	LogLevel  string `env:"LOG_LEVEL,default=info"`
	LogFormat string `env:"LOG_FORMAT,default=text"`

	// Comma separated; "*" allows every origin.
	CORSOrigins string `env:"CORS_ORIGINS,default=*"`
}

// Load reads an optional .env file, then the process environment.
func Load() (*Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()
	return FromEnv()
}

func FromEnv() (*Config, error) {
	var cfg Config
	if err := envdecode.Decode(&cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return nil, fmt.Errorf("decode environment: %w", err)
	}
	cfg.BackendDriver = strings.ToLower(strings.TrimSpace(cfg.BackendDriver))
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.BackendDriver {
	case DriverREST:
		if c.BackendURL == "" {
			return errors.New("BACKEND_URL is required when BACKEND_DRIVER=rest")
		}
	case DriverPostgres:
		if c.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required when BACKEND_DRIVER=postgres")
		}
	default:
		return fmt.Errorf("unknown BACKEND_DRIVER %q (want rest or postgres)", c.BackendDriver)
	}
	if c.RequestTimeout <= 0 {
		return errors.New("REQUEST_TIMEOUT must be positive")
	}
	if c.RefreshInterval < 0 {
		return errors.New("REFRESH_INTERVAL must not be negative")
	}
	if c.ApplyRatePerMinute <= 0 {
		return errors.New("APPLY_RATE_PER_MINUTE must be positive")
	}
	return nil
}

// Origins splits CORSOrigins. A nil result means any origin.
func (c *Config) Origins() []string {
	var origins []string
	for _, o := range strings.Split(c.CORSOrigins, ",") {
		o = strings.TrimSpace(o)
		if o == "*" {
			return nil
		}
		if o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}
