// Package config loads process configuration from environment variables.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// ParseEnv loads configuration from environment variables into target.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Service is the configuration shared by the backend command services.
type Service struct {
	Port           string        `env:"PORT"`
	RedisAddr      string        `env:"REDIS_ADDR" envDefault:"redis-cache:6379"`
	IdempotencyTTL time.Duration `env:"IDEMPOTENCY_TTL" envDefault:"10m"`
	ServiceName    string        `env:"OTEL_SERVICE_NAME"`
	OTLPEndpoint   string        `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	Environment    string        `env:"OTEL_RESOURCE_ATTRIBUTES_ENV" envDefault:"local"`
}

// LoadService parses the backend configuration, filling the port and service
// name defaults of the calling binary.
func LoadService(defaultPort, defaultName string) (Service, error) {
	cfg := Service{Port: defaultPort, ServiceName: defaultName}
	if err := ParseEnv(&cfg); err != nil {
		return Service{}, err
	}
	return cfg, nil
}
