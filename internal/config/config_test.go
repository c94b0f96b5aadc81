package config

import (
	"testing"
	"time"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "DEFAULT_PROVIDER", "ORACLE_TIMEOUT", "SESSION_STORE", "RATE_LIMIT_RPS", "EXPORT_ENABLED"} {
		t.Setenv(k, "")
	}
	c := FromEnv()
	if c.Port != "8080" {
		t.Fatalf("expected default port 8080, got %s", c.Port)
	}
	if c.DefaultProvider != "openai" {
		t.Fatalf("expected default provider openai, got %s", c.DefaultProvider)
	}
	if c.OracleTimeout != 30*time.Second {
		t.Fatalf("expected 30s oracle timeout, got %v", c.OracleTimeout)
	}
	if c.SessionStore != "memory" {
		t.Fatalf("expected memory store, got %s", c.SessionStore)
	}
	if c.ExportEnabled {
		t.Fatal("export should be disabled by default")
	}
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("DEFAULT_PROVIDER", "Ollama")
	t.Setenv("ORACLE_TIMEOUT", "5s")
	t.Setenv("RATE_LIMIT_RPS", "9")
	t.Setenv("SESSION_STORE", "SQLite")
	t.Setenv("EXPORT_ENABLED", "true")
	c := FromEnv()
	if c.DefaultProvider != "ollama" {
		t.Fatalf("provider should be lower-cased, got %s", c.DefaultProvider)
	}
	if c.OracleTimeout != 5*time.Second {
		t.Fatalf("expected 5s, got %v", c.OracleTimeout)
	}
	if c.RateLimitRPS != 9 {
		t.Fatalf("expected 9 rps, got %d", c.RateLimitRPS)
	}
	if c.SessionStore != "sqlite" {
		t.Fatalf("expected sqlite, got %s", c.SessionStore)
	}
	if !c.ExportEnabled {
		t.Fatal("export should be enabled")
	}
}

func TestInvalidValuesFallBack(t *testing.T) {
	t.Setenv("ORACLE_TIMEOUT", "soon")
	t.Setenv("RATE_LIMIT_BURST", "lots")
	c := FromEnv()
	if c.OracleTimeout != 30*time.Second {
		t.Fatalf("invalid duration should fall back, got %v", c.OracleTimeout)
	}
	if c.RateLimitBurst != 5 {
		t.Fatalf("invalid int should fall back, got %d", c.RateLimitBurst)
	}
}
