package config

import (
	"context"
	"fmt"

	"github.com/sethvargo/go-envconfig"
)

// Backend selects the shared-slot adapter backing the room collection.
const (
	BackendMemory = "memory"
	BackendBolt   = "bolt"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
)

type Config struct {
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	// Backend picks where the room collection slot lives: memory, bolt,
	// redis, or mongo.
	Backend string `env:"STORAGE_BACKEND, default=memory"`

	// BaseURL is the prefix for shareable room links.
	BaseURL string `env:"BASE_URL, default=http://localhost:3000"`

	Bolt  BoltConfig
	Redis RedisConfig
	Mongo MongoConfig
}

type BoltConfig struct {
	Path string `env:"BOLT_PATH, default=poker.db"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=scrum_poker"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	switch cfg.Backend {
	case BackendMemory, BackendBolt, BackendRedis, BackendMongo:
	default:
		return nil, fmt.Errorf("config: unknown storage backend %q", cfg.Backend)
	}
	return &cfg, nil
}
