package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const minSecretLength = 32

// Config holds everything the server reads from the environment at startup.
type Config struct {
	Port           string        `env:"PORT"                 envDefault:"3000"`
	DatabasePath   string        `env:"DATABASE_PATH"        envDefault:"database.sqlite"`
	JWTSecret      string        `env:"JWT_SECRET,required"`
	TokenTTL       time.Duration `env:"JWT_EXPIRES_IN"       envDefault:"24h"`
	JWTIssuer      string        `env:"JWT_ISSUER"           envDefault:"game-list-api"`
	BcryptCost     int           `env:"BCRYPT_COST"          envDefault:"10"`
	AllowedOrigins []string      `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`
	LogLevel       slog.Level    `env:"LOG_LEVEL"            envDefault:"INFO"`
	AuthRateLimit  float64       `env:"AUTH_RATE_LIMIT"      envDefault:"0.2"`
	AuthRateBurst  float64       `env:"AUTH_RATE_BURST"      envDefault:"10"`
	// TrustProxyHeaders takes the client IP from X-Forwarded-For / X-Real-IP.
	// Enable only behind a proxy that overwrites those headers.
	TrustProxyHeaders bool `env:"TRUST_PROXY_HEADERS" envDefault:"false"`
}

// Load reads an optional .env file from the working directory and then the
// process environment. Variables already set in the environment win.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	return Parse()
}

// Parse builds a Config from the process environment only.
func Parse() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	var errs []error
	if len(c.JWTSecret) < minSecretLength {
		errs = append(errs, fmt.Errorf("JWT_SECRET must be at least %d characters", minSecretLength))
	}
	if c.TokenTTL <= 0 {
		errs = append(errs, errors.New("JWT_EXPIRES_IN must be positive"))
	}
	if c.BcryptCost < 4 || c.BcryptCost > 14 {
		errs = append(errs, fmt.Errorf("BCRYPT_COST must be between 4 and 14, got %d", c.BcryptCost))
	}
	if c.AuthRateLimit < 0 {
		errs = append(errs, errors.New("AUTH_RATE_LIMIT must not be negative"))
	}
	if c.AuthRateBurst < 1 {
		errs = append(errs, errors.New("AUTH_RATE_BURST must be at least 1"))
	}
	return errors.Join(errs...)
}
