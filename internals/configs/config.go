package configs

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Settings is the application configuration, read from the environment
// after an optional .env file has been loaded.
type Settings struct {
	AppName    string `env:"APP_NAME" envDefault:"D&D Character Builder API"`
	AppVersion string `env:"APP_VERSION" envDefault:"1.0.0"`
	AppEnv     string `env:"APP_ENV" envDefault:"development"`
	Port       string `env:"PORT" envDefault:"8000"`
	APIV1Str   string `env:"API_V1_STR" envDefault:"/api/v1"`

	// Database
	DatabaseURL       string        `env:"DATABASE_URL" envDefault:"file:data/dnd_character_builder.db?_pragma=foreign_keys(1)"`
	DBMaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS" envDefault:"20"`
	DBMaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS" envDefault:"10"`
	DBConnMaxIdleTime time.Duration `env:"DB_CONN_MAX_IDLE_TIME" envDefault:"60s"`
	DBConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME" envDefault:"10m"`
	DBSlowThreshold   time.Duration `env:"DB_SLOW_THRESHOLD" envDefault:"200ms"`
	DBLogQueries      bool          `env:"DB_LOG_QUERIES" envDefault:"false"`

	// Security
	SecretKey                string `env:"SECRET_KEY" envDefault:"development_secret_key"`
	Algorithm                string `env:"ALGORITHM" envDefault:"HS256"`
	AccessTokenExpireMinutes int    `env:"ACCESS_TOKEN_EXPIRE_MINUTES" envDefault:"30"`

	// CORS
	CORSOrigins []string `env:"BACKEND_CORS_ORIGINS" envSeparator:"," envDefault:"http://localhost:5173,http://localhost:8000"`

	// Cache
	RedisURL string        `env:"REDIS_URL"`
	CacheTTL time.Duration `env:"CACHE_TTL" envDefault:"5m"`

	// HTTP
	RateLimitPerMinute int           `env:"RATE_LIMIT_PER_MINUTE" envDefault:"100"`
	RequestTimeout     time.Duration `env:"REQUEST_TIMEOUT" envDefault:"5s"`

	// Logging
	LogDir   string `env:"LOG_DIR" envDefault:"logs"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

// AccessTokenTTL is the lifetime of issued access tokens.
func (s *Settings) AccessTokenTTL() time.Duration {
	return time.Duration(s.AccessTokenExpireMinutes) * time.Minute
}

// IsProduction reports whether APP_ENV is production.
func (s *Settings) IsProduction() bool {
	return strings.EqualFold(s.AppEnv, "production")
}

// Validate checks values env parsing cannot.
func (s *Settings) Validate() error {
	if s.Algorithm != "HS256" {
		return fmt.Errorf("unsupported ALGORITHM %q: only HS256 is supported", s.Algorithm)
	}
	if s.AccessTokenExpireMinutes <= 0 {
		return fmt.Errorf("ACCESS_TOKEN_EXPIRE_MINUTES must be positive")
	}
	if strings.TrimSpace(s.DatabaseURL) == "" {
		return fmt.Errorf("DATABASE_URL is empty")
	}
	if s.IsProduction() && s.SecretKey == "development_secret_key" {
		return fmt.Errorf("SECRET_KEY must be set in production")
	}
	return nil
}

// =======================
// ENV LOADER
// =======================

// LoadEnv loads .env when present and parses the environment into Settings.
func LoadEnv() (*Settings, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("[INFO] no .env file found, using system environment")
	} else {
		log.Println("[INFO] .env file loaded")
	}
	return Parse()
}

// Parse reads Settings from the current environment only.
func Parse() (*Settings, error) {
	var s Settings
	if err := env.Parse(&s); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

func GetEnv(key string, defaultValue ...string) string {
	value, exists := os.LookupEnv(key)
	if !exists && len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return value
}
