package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"PORT", "CATALOG_FILE", "CO2_GOAL_KG", "RATE_LIMIT_RPS", "RATE_LIMIT_BURST", "LOG_LEVEL"} {
		t.Setenv(key, "")
	}
}

func writeYAML(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
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
	if cfg.CatalogFile != "" {
		t.Fatalf("expected embedded catalog by default, got %q", cfg.CatalogFile)
	}
	if cfg.CO2GoalKg != defaultCO2GoalKg {
		t.Fatalf("expected default goal %v, got %v", defaultCO2GoalKg, cfg.CO2GoalKg)
	}
	if cfg.ShutdownGracePeriod != 10*time.Second {
		t.Fatalf("unexpected shutdown grace period: %s", cfg.ShutdownGracePeriod)
	}
	if !cfg.EnableRequestLogging {
		t.Fatalf("expected request logging to be enabled by default")
	}
	if cfg.LogLevel != "info" {
		t.Fatalf("expected info log level, got %s", cfg.LogLevel)
	}
}

func TestLoadEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9000")
	t.Setenv("CATALOG_FILE", "/etc/devices.yaml")
	t.Setenv("CO2_GOAL_KG", "750")
	t.Setenv("RATE_LIMIT_RPS", "0")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Port != "9000" {
		t.Fatalf("expected overridden port, got %s", cfg.Port)
	}
	if cfg.CatalogFile != "/etc/devices.yaml" {
		t.Fatalf("unexpected catalog file %q", cfg.CatalogFile)
	}
	if cfg.CO2GoalKg != 750 {
		t.Fatalf("expected goal 750, got %v", cfg.CO2GoalKg)
	}
	if cfg.RateLimitRPS != 0 {
		t.Fatalf("expected rate limiting to be disabled, got %v", cfg.RateLimitRPS)
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("expected debug log level, got %s", cfg.LogLevel)
	}
}

func TestLoadRejectsMalformedEnvironment(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{"CO2_GOAL_KG", "lots"},
		{"CO2_GOAL_KG", "-5"},
		{"RATE_LIMIT_RPS", "fast"},
		{"RATE_LIMIT_BURST", "1.5"},
		{"LOG_LEVEL", "chatty"},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)
			if _, err := Load(nil); err == nil {
				t.Fatalf("expected error for %s=%s", tt.key, tt.value)
			}
		})
	}
}

func TestLoadYAML(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "7000")
	t.Setenv("CO2_GOAL_KG", "900")

	path := writeYAML(t, `
port: "8181"
catalog_file: devices.yaml
co2_goal_kg: 250
write_timeout: 20s
enable_request_logging: false
rate_limit:
  burst: 5
log_level: warn
`)

	cfg, err := Load(&CLIOverrides{ConfigFile: path})
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Port != "8181" {
		t.Fatalf("expected YAML port to win over env, got %s", cfg.Port)
	}
	if cfg.CO2GoalKg != 250 {
		t.Fatalf("expected YAML goal, got %v", cfg.CO2GoalKg)
	}
	if cfg.CatalogFile != "devices.yaml" {
		t.Fatalf("unexpected catalog file %q", cfg.CatalogFile)
	}
	if cfg.WriteTimeout != 20*time.Second {
		t.Fatalf("unexpected write timeout %s", cfg.WriteTimeout)
	}
	if cfg.ReadHeaderTimeout != 5*time.Second {
		t.Fatalf("expected default read header timeout, got %s", cfg.ReadHeaderTimeout)
	}
	if cfg.EnableRequestLogging {
		t.Fatalf("expected request logging to be disabled")
	}
	if cfg.RateLimitRPS != defaultRateLimitRPS || cfg.RateLimitBurst != 5 {
		t.Fatalf("unexpected rate limit %v/%d", cfg.RateLimitRPS, cfg.RateLimitBurst)
	}
	if cfg.LogLevel != "warn" {
		t.Fatalf("expected warn log level, got %s", cfg.LogLevel)
	}
}

func TestLoadYAMLKeepsLoggingWhenKeyMissing(t *testing.T) {
	clearEnv(t)
	path := writeYAML(t, "port: \"8080\"\n")

	cfg, err := Load(&CLIOverrides{ConfigFile: path})
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !cfg.EnableRequestLogging {
		t.Fatalf("expected request logging to stay enabled")
	}
}

func TestLoadYAMLErrors(t *testing.T) {
	clearEnv(t)

	if _, err := Load(&CLIOverrides{ConfigFile: filepath.Join(t.TempDir(), "missing.yaml")}); err == nil {
		t.Fatalf("expected error for missing file")
	}

	bad := writeYAML(t, "idle_timeout: soon\n")
	if _, err := Load(&CLIOverrides{ConfigFile: bad}); err == nil {
		t.Fatalf("expected error for malformed duration")
	}

	broken := writeYAML(t, "port: [\n")
	if _, err := Load(&CLIOverrides{ConfigFile: broken}); err == nil {
		t.Fatalf("expected error for malformed YAML")
	}
}

func TestLoadCLIOverridesWin(t *testing.T) {
	clearEnv(t)
	t.Setenv("CO2_GOAL_KG", "900")
	path := writeYAML(t, "port: \"8181\"\nlog_level: warn\n")

	port := "9999"
	goal := 1200.0
	rps := 0.0
	burst := 0
	catalogFile := "custom.yaml"
	level := "error"

	cfg, err := Load(&CLIOverrides{
		ConfigFile:     path,
		Port:           &port,
		CatalogFile:    &catalogFile,
		CO2GoalKg:      &goal,
		RateLimitRPS:   &rps,
		RateLimitBurst: &burst,
		LogLevel:       &level,
	})
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Port != "9999" || cfg.CO2GoalKg != 1200 || cfg.CatalogFile != "custom.yaml" {
		t.Fatalf("CLI overrides not applied: %+v", cfg)
	}
	if cfg.RateLimitRPS != 0 || cfg.RateLimitBurst != 0 {
		t.Fatalf("expected rate limiting disabled, got %v/%d", cfg.RateLimitRPS, cfg.RateLimitBurst)
	}
	if cfg.LogLevel != "error" {
		t.Fatalf("expected error log level, got %s", cfg.LogLevel)
	}
}

func TestLoadRejectsInvalidOverrides(t *testing.T) {
	clearEnv(t)

	goal := 0.0
	if _, err := Load(&CLIOverrides{CO2GoalKg: &goal}); err == nil {
		t.Fatalf("expected error for zero goal")
	}

	burst := -1
	if _, err := Load(&CLIOverrides{RateLimitBurst: &burst}); err == nil {
		t.Fatalf("expected error for negative burst")
	}
}
