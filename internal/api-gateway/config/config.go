// Package config holds the api-gateway settings.
package config

import (
	"time"

	"github.com/jcmexdev/petcare-sagas/internal/api-gateway/core/lookup"
	"github.com/jcmexdev/petcare-sagas/internal/pkg/config"
	"github.com/jcmexdev/petcare-sagas/internal/pkg/dispatch"
)

// Config is the gateway configuration read from the environment.
type Config struct {
	HTTPAddr string `env:"HTTP_ADDR" envDefault:":8080"`

	PetServiceAddr    string `env:"PET_SERVICE_ADDR" envDefault:"pet-service:50051"`
	HealthServiceAddr string `env:"HEALTH_SERVICE_ADDR" envDefault:"health-service:50052"`
	MediaServiceAddr  string `env:"MEDIA_SERVICE_ADDR" envDefault:"media-service:50053"`
	UserServiceAddr   string `env:"USER_SERVICE_ADDR" envDefault:"user-service:50054"`

	RedisAddr string `env:"REDIS_ADDR" envDefault:"redis-cache:6379"`

	// SagaLogPath is the sqlite file of the saga audit log.
	SagaLogPath    string `env:"SAGA_LOG_PATH" envDefault:"./data/saga.db"`
	SagaLogEnabled bool   `env:"SAGA_LOG_ENABLED" envDefault:"true"`

	RemoteDeadline    time.Duration `env:"REMOTE_DEADLINE" envDefault:"3s"`
	RemoteMaxRetries  int           `env:"REMOTE_MAX_RETRIES" envDefault:"2"`
	RemoteBackoffStep time.Duration `env:"REMOTE_BACKOFF_STEP" envDefault:"300ms"`

	UserCacheTTL time.Duration `env:"USER_CACHE_TTL" envDefault:"300s"`
	PetCacheTTL  time.Duration `env:"PET_CACHE_TTL" envDefault:"600s"`

	// MaxUploadBytes bounds a whole multipart request body.
	MaxUploadBytes int64 `env:"MAX_UPLOAD_BYTES" envDefault:"33554432"`

	ServiceName  string `env:"OTEL_SERVICE_NAME" envDefault:"api-gateway"`
	OTLPEndpoint string `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	Environment  string `env:"OTEL_RESOURCE_ATTRIBUTES_ENV" envDefault:"local"`
}

// Load parses the gateway configuration.
func Load() (Config, error) {
	var cfg Config
	if err := config.ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// RemotePolicy is the dispatch policy applied to every backend call.
func (c Config) RemotePolicy() dispatch.Policy {
	p := dispatch.DefaultPolicy()
	if c.RemoteDeadline > 0 {
		p.Deadline = c.RemoteDeadline
	}
	if c.RemoteMaxRetries >= 0 {
		p.MaxRetries = c.RemoteMaxRetries
	}
	if c.RemoteBackoffStep > 0 {
		p.Backoff = dispatch.Linear(c.RemoteBackoffStep)
	}
	return p
}

// LookupOptions applies the configured cache TTLs.
func (c Config) LookupOptions() []lookup.Option {
	return []lookup.Option{lookup.WithTTLs(c.UserCacheTTL, c.PetCacheTTL)}
}
