package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string `env:"PORT,       default=8080"`
	Env       string `env:"ENV,        default=development"`
	JWTSecret string `env:"JWT_SECRET, required"`
	LogLevel  string `env:"LOG_LEVEL,  default=info"`

	TokenTTL      time.Duration `env:"TOKEN_TTL,       default=24h"`
	ShareTokenTTL time.Duration `env:"SHARE_TOKEN_TTL, default=720h"`

	Mongo    MongoConfig
	Redis    RedisConfig
	Recovery RecoveryConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=dnd_characters"`
}

type RedisConfig struct {
	Addr        string        `env:"REDIS_ADDR,         default=localhost:6379"`
	Password    string        `env:"REDIS_PASSWORD"`
	DB          int           `env:"REDIS_DB,           default=0"`
	PoolSize    int           `env:"REDIS_POOL_SIZE,    default=10"`
	DialTimeout time.Duration `env:"REDIS_DIAL_TIMEOUT, default=5s"`
}

// RecoveryConfig tunes retries and the circuit breaker around data store calls.
type RecoveryConfig struct {
	MaxRetries       int           `env:"RECOVERY_MAX_RETRIES, default=3"`
	BaseDelay        time.Duration `env:"RECOVERY_BASE_DELAY,  default=200ms"`
	MaxDelay         time.Duration `env:"RECOVERY_MAX_DELAY,   default=2s"`
	BreakerThreshold int           `env:"BREAKER_THRESHOLD,    default=5"`
	BreakerCooldown  time.Duration `env:"BREAKER_COOLDOWN,     default=30s"`
}

// IsDevelopment reports whether the service runs locally.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: l,
	}); err != nil {
		return nil, fmt.Errorf("config: failed to load configuration: %w", err)
	}
	return &cfg, nil
}
