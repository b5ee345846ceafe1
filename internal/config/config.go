// Package config loads service configuration from the environment. The
// resulting struct is immutable and passed explicitly to constructors.
package config

import (
	"fmt"

	"github.com/joeshaw/envdecode"
)

// Config holds every runtime setting the service reads.
type Config struct {
	Port        int    `env:"PORT,default=5000"`
	DatabaseURL string `env:"DATABASE_URL"`
	SecretKey   string `env:"SECRET_KEY,required"`
	BcryptCost  int    `env:"BCRYPT_COST,default=10"`
	LogLevel    string `env:"LOG_LEVEL,default=info"`
}

// FromEnv decodes the configuration from environment variables.
func FromEnv() (Config, error) {
	var cfg Config
	if err := envdecode.StrictDecode(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}

// ListenAddr returns the address the HTTP server binds to.
func (c Config) ListenAddr() string {
	return fmt.Sprintf(":%d", c.Port)
}
