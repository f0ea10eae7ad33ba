package config_test

import (
	"strings"
	"testing"
	"time"

	"github.com/repoqna/repoqna/internal/config"
)

func setRequired(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "sk-ant-test")
	t.Setenv("POTPIE_API_KEY", "pp-test")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)
	t.Setenv("POTPIE_BASE_URL", "")
	t.Setenv("AGENT_PORT", "")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if cfg.PotpieBaseURL != "https://production-api.potpie.ai/api/v2" {
		t.Fatalf("unexpected base URL: %q", cfg.PotpieBaseURL)
	}
	if cfg.Port != 7777 {
		t.Fatalf("unexpected port: %d", cfg.Port)
	}
	if cfg.ReadyTimeout != 600*time.Second {
		t.Fatalf("unexpected ready timeout: %v", cfg.ReadyTimeout)
	}
	if cfg.PollInterval != 10*time.Second {
		t.Fatalf("unexpected poll interval: %v", cfg.PollInterval)
	}
	if cfg.HistoryTurns != 5 {
		t.Fatalf("unexpected history turns: %d", cfg.HistoryTurns)
	}
}

func TestLoad_MissingAnthropicKey_NamesVariable(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "")
	t.Setenv("POTPIE_API_KEY", "pp-test")

	_, err := config.Load()
	if err == nil {
		t.Fatal("expected error for missing key")
	}
	if !strings.Contains(err.Error(), "ANTHROPIC_API_KEY") {
		t.Fatalf("error should name the variable, got: %v", err)
	}
}

func TestLoad_MissingPotpieKey_NamesVariable(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "sk-ant-test")
	t.Setenv("POTPIE_API_KEY", "")

	_, err := config.Load()
	if err == nil {
		t.Fatal("expected error for missing key")
	}
	if !strings.Contains(err.Error(), "POTPIE_API_KEY") {
		t.Fatalf("error should name the variable, got: %v", err)
	}
}

func TestLoad_Overrides(t *testing.T) {
	setRequired(t)
	t.Setenv("POTPIE_BASE_URL", "http://localhost:9999/api/v2")
	t.Setenv("AGENT_MODEL", "claude-sonnet-4-20250514")
	t.Setenv("POTPIE_POLL_INTERVAL_SECS", "2")
	t.Setenv("AGENT_RATE_LIMIT_PER_MIN", "bogus") // invalid falls back to default

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if cfg.PotpieBaseURL != "http://localhost:9999/api/v2" {
		t.Fatalf("unexpected base URL: %q", cfg.PotpieBaseURL)
	}
	if cfg.Model != "claude-sonnet-4-20250514" {
		t.Fatalf("unexpected model: %q", cfg.Model)
	}
	if cfg.PollInterval != 2*time.Second {
		t.Fatalf("unexpected poll interval: %v", cfg.PollInterval)
	}
	if cfg.RateLimitPerMin != 60 {
		t.Fatalf("invalid int should fall back to default, got %d", cfg.RateLimitPerMin)
	}
}
