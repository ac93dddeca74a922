package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"PORT", "PACK_STRATEGY", "CATALOG_FILE", "LOG_LEVEL", "RATE_LIMIT_RPS", "RATE_LIMIT_BURST"} {
		t.Setenv(key, "")
	}
}

func writeYAML(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Port != defaultPort {
		t.Fatalf("expected default port %s, got %s", defaultPort, cfg.Port)
	}
	if cfg.DefaultStrategy != "by-medium" {
		t.Fatalf("expected default strategy by-medium, got %s", cfg.DefaultStrategy)
	}
	if cfg.CatalogFile != "" {
		t.Fatalf("expected built-in catalog, got %s", cfg.CatalogFile)
	}
	if cfg.ShutdownGracePeriod != 10*time.Second {
		t.Fatalf("unexpected shutdown grace period: %s", cfg.ShutdownGracePeriod)
	}
	if !cfg.EnableRequestLogging {
		t.Fatalf("expected request logging to be enabled by default")
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9000")
	t.Setenv("PACK_STRATEGY", "by-depth")
	t.Setenv("CATALOG_FILE", "/etc/catalog.yaml")
	t.Setenv("RATE_LIMIT_RPS", "5")
	t.Setenv("RATE_LIMIT_BURST", "not-a-number")

	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Port != "9000" {
		t.Fatalf("expected overridden port, got %s", cfg.Port)
	}
	if cfg.DefaultStrategy != "by-depth" {
		t.Fatalf("expected strategy by-depth, got %s", cfg.DefaultStrategy)
	}
	if cfg.CatalogFile != "/etc/catalog.yaml" {
		t.Fatalf("unexpected catalog file: %s", cfg.CatalogFile)
	}
	if cfg.RateLimitRPS != 5 {
		t.Fatalf("expected rps 5, got %v", cfg.RateLimitRPS)
	}
	if cfg.RateLimitBurst != defaultRateLimitBurst {
		t.Fatalf("expected invalid burst to be ignored, got %d", cfg.RateLimitBurst)
	}
}

func TestLoadPrecedence(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9000")
	t.Setenv("PACK_STRATEGY", "by-depth")

	path := writeYAML(t, `
port: "9100"
strategy: by-strictest-constraint
log_level: debug
write_timeout: 30s
enable_request_logging: false
rate_limit:
  rps: 0
`)

	port := "9200"
	cfg, err := Load(&CLIOverrides{ConfigFile: path, Port: &port})
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Port != "9200" {
		t.Fatalf("expected CLI port to win, got %s", cfg.Port)
	}
	if cfg.DefaultStrategy != "by-strictest-constraint" {
		t.Fatalf("expected YAML strategy to beat env, got %s", cfg.DefaultStrategy)
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("expected log level debug, got %s", cfg.LogLevel)
	}
	if cfg.WriteTimeout != 30*time.Second {
		t.Fatalf("expected write timeout 30s, got %s", cfg.WriteTimeout)
	}
	if cfg.EnableRequestLogging {
		t.Fatalf("expected request logging disabled by YAML")
	}
	if cfg.RateLimitRPS != 0 {
		t.Fatalf("expected rate limiting disabled, got %v", cfg.RateLimitRPS)
	}
	if cfg.RateLimitBurst != defaultRateLimitBurst {
		t.Fatalf("expected default burst, got %d", cfg.RateLimitBurst)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	clearEnv(t)

	strategy := "by-colour"
	if _, err := Load(&CLIOverrides{Strategy: &strategy}); err == nil {
		t.Fatalf("expected error for unknown strategy")
	}

	level := "loud"
	if _, err := Load(&CLIOverrides{LogLevel: &level}); err == nil {
		t.Fatalf("expected error for unknown log level")
	}

	if _, err := Load(&CLIOverrides{ConfigFile: writeYAML(t, "idle_timeout: forever\n")}); err == nil {
		t.Fatalf("expected error for malformed duration")
	}

	if _, err := Load(&CLIOverrides{ConfigFile: filepath.Join(t.TempDir(), "missing.yaml")}); err == nil {
		t.Fatalf("expected error for missing config file")
	}
}
