package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	JWT   JWTConfig
	Mongo MongoConfig
	Redis RedisConfig
	Seed  SeedConfig
	Email EmailConfig
}

// JWTConfig drives the token signer. Secret has no default on purpose: a
// missing secret must abort startup, and its value must never be logged.
type JWTConfig struct {
	Secret          string `env:"JWT_SECRET"`
	Issuer          string `env:"JWT_ISSUER,          default=auth-system"`
	Audience        string `env:"JWT_AUDIENCE,        default=auth-system-clients"`
	ExpiryMinutes   int    `env:"JWT_EXPIRY_MINUTES,  default=60"`
	RefreshTTLHours int    `env:"REFRESH_TTL_HOURS,   default=168"`
	DefaultRole     string `env:"DEFAULT_ROLE,        default=Customer"`
}

func (c JWTConfig) Expiry() time.Duration {
	return time.Duration(c.ExpiryMinutes) * time.Minute
}

func (c JWTConfig) RefreshTTL() time.Duration {
	return time.Duration(c.RefreshTTLHours) * time.Hour
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=auth_system"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// SeedConfig controls the bootstrap seeder. Seeding failure is treated as a
// fatal startup error; set SEED_ON_START=false to skip seeding entirely.
type SeedConfig struct {
	Enabled       bool   `env:"SEED_ON_START,  default=true"`
	AdminEmail    string `env:"ADMIN_EMAIL,    default=admin@ecommerce.com"`
	AdminPassword string `env:"ADMIN_PASSWORD, default=Admin@123"`
}

type EmailConfig struct {
	APIKey  string `env:"RESEND_API_KEY"`
	From    string `env:"EMAIL_FROM,    default=no-reply@shopworks.dev"`
	Workers int    `env:"EMAIL_WORKERS, default=4"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
