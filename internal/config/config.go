package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all runtime settings. Values are read once at startup;
// mid-run environment changes have no effect.
type Config struct {
	AnthropicAPIKey string
	PotpieAPIKey    string

	PotpieBaseURL string
	Model         string

	Host            string
	Port            int
	RateLimitPerMin int

	// Potpie call behaviour is explicit configuration, not inferred:
	// one HTTP timeout per request, and a poll interval + overall
	// deadline for waiting on repository readiness.
	HTTPTimeout  time.Duration
	ReadyTimeout time.Duration
	PollInterval time.Duration

	HistoryTurns int
	SessionDir   string
}

// Load reads configuration from the environment. Both API keys are
// required; a missing one yields an error naming the variable so the
// process can refuse to start.
func Load() (Config, error) {
	cfg := Config{}

	var err error
	if cfg.AnthropicAPIKey, err = require("ANTHROPIC_API_KEY"); err != nil {
		return Config{}, err
	}
	if cfg.PotpieAPIKey, err = require("POTPIE_API_KEY"); err != nil {
		return Config{}, err
	}

	cfg.PotpieBaseURL = getenv("POTPIE_BASE_URL", "https://production-api.potpie.ai/api/v2")
	cfg.Model = getenv("AGENT_MODEL", "")

	cfg.Host = getenv("AGENT_HOST", "127.0.0.1")
	cfg.Port = getenvInt("AGENT_PORT", 7777)
	cfg.RateLimitPerMin = getenvInt("AGENT_RATE_LIMIT_PER_MIN", 60)

	cfg.HTTPTimeout = getenvSecs("POTPIE_HTTP_TIMEOUT_SECS", 90)
	cfg.ReadyTimeout = getenvSecs("POTPIE_READY_TIMEOUT_SECS", 600)
	cfg.PollInterval = getenvSecs("POTPIE_POLL_INTERVAL_SECS", 10)

	cfg.HistoryTurns = getenvInt("AGENT_HISTORY_TURNS", 5)
	cfg.SessionDir = getenv("AGENT_SESSION_DIR", ".agent/sessions")

	return cfg, nil
}

func require(key string) (string, error) {
	v := os.Getenv(key)
	if v == "" {
		return "", fmt.Errorf("missing required environment variable %s", key)
	}
	return v, nil
}

func getenv(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func getenvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func getenvSecs(key string, def int) time.Duration {
	return time.Duration(getenvInt(key, def)) * time.Second
}
