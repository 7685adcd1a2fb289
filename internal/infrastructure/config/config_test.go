package config

import (
	"context"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Env != "development" {
		t.Errorf("Env = %q, want development", cfg.Env)
	}
	if cfg.Backend != BackendMemory {
		t.Errorf("Backend = %q, want %q", cfg.Backend, BackendMemory)
	}
	if cfg.BaseURL != "http://localhost:3000" {
		t.Errorf("BaseURL = %q", cfg.BaseURL)
	}
	if cfg.Bolt.Path != "poker.db" {
		t.Errorf("Bolt.Path = %q", cfg.Bolt.Path)
	}
	if cfg.Redis.Addr != "localhost:6379" || cfg.Redis.DB != 0 {
		t.Errorf("Redis defaults: %+v", cfg.Redis)
	}
	if cfg.Mongo.URI != "mongodb://localhost:27017" || cfg.Mongo.Database != "scrum_poker" {
		t.Errorf("Mongo defaults: %+v", cfg.Mongo)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", BackendRedis)
	t.Setenv("REDIS_ADDR", "redis.internal:6380")
	t.Setenv("BASE_URL", "https://poker.example.com")

	cfg, err := Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Backend != BackendRedis {
		t.Errorf("Backend = %q", cfg.Backend)
	}
	if cfg.Redis.Addr != "redis.internal:6380" {
		t.Errorf("Redis.Addr = %q", cfg.Redis.Addr)
	}
	if cfg.BaseURL != "https://poker.example.com" {
		t.Errorf("BaseURL = %q", cfg.BaseURL)
	}
}

func TestLoad_UnknownBackend(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "cassandra")
	if _, err := Load(context.Background()); err == nil {
		t.Fatal("expected error for unknown backend")
	}
}
