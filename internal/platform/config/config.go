// Package config loads process configuration from environment variables
// so main stays lean.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config captures everything cmd/server needs to wire the portal.
type Config struct {
	Addr string `env:"GREENREG_ADDR" envDefault:":8080"`

	// Session manages the admin inactivity timeout. The signing key protects
	// the persisted session record against tampering.
	SessionTTL        time.Duration `env:"SESSION_TTL" envDefault:"10m"`
	SessionSigningKey string        `env:"SESSION_SIGNING_KEY" envDefault:"dev-secret-key-change-in-production"`

	// DatabaseDSN is the postgres connection string. Empty means in-memory
	// stores (development and tests).
	DatabaseDSN string `env:"DATABASE_DSN"`

	Redis RedisConfig `envPrefix:"REDIS_"`

	Artifact ArtifactConfig `envPrefix:"ARTIFACT_"`

	Audit AuditConfig `envPrefix:"AUDIT_"`

	Seed SeedConfig `envPrefix:"SEED_"`

	// LoginRatePerMinute throttles credential verification attempts per email.
	LoginRatePerMinute int `env:"LOGIN_RATE_PER_MINUTE" envDefault:"10"`
}

// RedisConfig configures the durable session-record store. Empty URL means
// the in-memory record store is used instead.
type RedisConfig struct {
	URL          string        `env:"URL"`
	PoolSize     int           `env:"POOL_SIZE" envDefault:"10"`
	MinIdleConns int           `env:"MIN_IDLE_CONNS" envDefault:"2"`
	DialTimeout  time.Duration `env:"DIAL_TIMEOUT" envDefault:"5s"`
	ReadTimeout  time.Duration `env:"READ_TIMEOUT" envDefault:"3s"`
	WriteTimeout time.Duration `env:"WRITE_TIMEOUT" envDefault:"3s"`
}

// ArtifactConfig configures the S3-compatible logo store. Empty bucket means
// uploads are kept in memory (development and tests).
type ArtifactConfig struct {
	Bucket       string `env:"S3_BUCKET"`
	Region       string `env:"S3_REGION" envDefault:"us-east-1"`
	BaseEndpoint string `env:"S3_ENDPOINT"`
	AccessKey    string `env:"S3_ACCESS_KEY"`
	SecretKey    string `env:"S3_SECRET_KEY"`
	PublicURL    string `env:"PUBLIC_URL"`
}

// AuditConfig selects the audit trail sink. With no brokers configured the
// trail is kept in the embedded store only.
type AuditConfig struct {
	KafkaBrokers []string `env:"KAFKA_BROKERS" envSeparator:","`
	KafkaTopic   string   `env:"KAFKA_TOPIC" envDefault:"greenreg.audit"`
}

// SeedConfig describes the default super admin created idempotently at boot.
type SeedConfig struct {
	AdminEmail    string `env:"ADMIN_EMAIL" envDefault:"admin@environment.kn.gov.ng"`
	AdminPassword string `env:"ADMIN_PASSWORD" envDefault:"admin123"`
	AdminName     string `env:"ADMIN_NAME" envDefault:"System Administrator"`
}

// FromEnv builds a Config from environment variables.
func FromEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
