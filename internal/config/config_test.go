package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()
	if cfg.Env != "dev" {
		t.Fatalf("expected dev env got %q", cfg.Env)
	}
	if cfg.HTTPPort != "8080" {
		t.Fatalf("expected default port 8080 got %q", cfg.HTTPPort)
	}
	if len(cfg.KafkaBrokers) != 1 || cfg.KafkaBrokers[0] != "localhost:9092" {
		t.Fatalf("unexpected default brokers: %v", cfg.KafkaBrokers)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "prod")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("RATE_RPS", "25")

	cfg := Load()
	if cfg.Env != "prod" || cfg.HTTPPort != "9090" {
		t.Fatalf("env overrides not applied: %+v", cfg)
	}
	if len(cfg.KafkaBrokers) != 2 || cfg.KafkaBrokers[1] != "k2:9092" {
		t.Fatalf("broker list not split: %v", cfg.KafkaBrokers)
	}
	if cfg.RateRPS != 25 {
		t.Fatalf("expected rate 25 got %d", cfg.RateRPS)
	}
}

func TestLoadConfigFileThenEnvWins(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte("http_port: \"7070\"\njwt_issuer: file-issuer\n")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write config file: %v", err)
	}
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("HTTP_PORT", "6060")

	cfg := Load()
	if cfg.JWTIssuer != "file-issuer" {
		t.Fatalf("file value not applied: %q", cfg.JWTIssuer)
	}
	if cfg.HTTPPort != "6060" {
		t.Fatalf("env must override file, got %q", cfg.HTTPPort)
	}
}
