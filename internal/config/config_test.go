package config

import (
	"strings"
	"testing"
	"time"
)

func validConfig() *Config {
	return &Config{
		Port:            "5050",
		DataBackend:     "memory",
		SQLiteDBPath:    "./data/test.db",
		AMQPURL:         "",
		AMQPExchange:    "moneyman",
		AMQPQueue:       "transaction_events",
		MirrorPath:      "./data/mirror.jsonl",
		MirrorBatchSize: 50,
		MirrorInterval:  30 * time.Second,
		LogLevel:        "info",
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg := Load()
	if cfg.Port != "5050" {
		t.Fatalf("expected default port 5050, got %s", cfg.Port)
	}
	if cfg.DataBackend != "sqlite" {
		t.Fatalf("expected default backend sqlite, got %s", cfg.DataBackend)
	}
	if cfg.MirrorBatchSize != 50 || cfg.MirrorInterval != 30*time.Second {
		t.Fatalf("unexpected mirror defaults: %d, %v", cfg.MirrorBatchSize, cfg.MirrorInterval)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("DATA_BACKEND", "memory")
	t.Setenv("MIRROR_BATCH_SIZE", "10")
	t.Setenv("MIRROR_INTERVAL", "5s")

	cfg := Load()
	if cfg.Port != "8080" || cfg.DataBackend != "memory" {
		t.Fatalf("env overrides not applied: %+v", cfg)
	}
	if cfg.MirrorBatchSize != 10 || cfg.MirrorInterval != 5*time.Second {
		t.Fatalf("mirror overrides not applied: %d, %v", cfg.MirrorBatchSize, cfg.MirrorInterval)
	}
}

func TestValidateAcceptsDefaults(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(c *Config)
		message string
	}{
		{"non-numeric port", func(c *Config) { c.Port = "abc" }, "invalid port"},
		{"port out of range", func(c *Config) { c.Port = "70000" }, "invalid port"},
		{"unknown backend", func(c *Config) { c.DataBackend = "postgres" }, "invalid data backend"},
		{"bad amqp scheme", func(c *Config) { c.AMQPURL = "http://broker" }, "invalid AMQP URL scheme"},
		{"empty exchange", func(c *Config) { c.AMQPURL = "amqp://broker"; c.AMQPExchange = "" }, "exchange"},
		{"empty mirror path", func(c *Config) { c.MirrorPath = "" }, "mirror path"},
		{"batch too small", func(c *Config) { c.MirrorBatchSize = 0 }, "batch size"},
		{"batch too large", func(c *Config) { c.MirrorBatchSize = 5000 }, "batch size"},
		{"interval too short", func(c *Config) { c.MirrorInterval = 100 * time.Millisecond }, "interval"},
	}
	for _, tc := range cases {
		cfg := validConfig()
		tc.mutate(cfg)
		err := cfg.Validate()
		if err == nil {
			t.Fatalf("%s: expected error", tc.name)
		}
		if !strings.Contains(err.Error(), tc.message) {
			t.Fatalf("%s: expected message containing %q, got %v", tc.name, tc.message, err)
		}
	}
}

func TestValidateCollectsAllErrors(t *testing.T) {
	cfg := validConfig()
	cfg.Port = "abc"
	cfg.DataBackend = "postgres"
	cfg.MirrorBatchSize = 0

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error")
	}
	for _, fragment := range []string{"invalid port", "invalid data backend", "batch size"} {
		if !strings.Contains(err.Error(), fragment) {
			t.Fatalf("expected combined error to mention %q, got %v", fragment, err)
		}
	}
}
