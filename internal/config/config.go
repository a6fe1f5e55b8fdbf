package config

import (
	"os"
	"strconv"
	"time"
)

const defaultGatewayURL = "https://api.openai.com/v1/chat/completions"

// Config is read once at startup and passed explicitly to the engine.
// Nothing reads ambient environment state mid-batch.
type Config struct {
	APIKey     string
	GatewayURL string
	Model      string

	// AIEnabled is derived once: the enable flag must be set AND a
	// non-empty key must be present.
	AIEnabled       bool
	FallbackEnabled bool

	LLMTimeout time.Duration
}

// Load reads the environment and derives the immutable engine config.
func Load() Config {
	apiKey := os.Getenv("LLM_API_KEY")

	cfg := Config{
		APIKey:          apiKey,
		GatewayURL:      envOr("LLM_GATEWAY_URL", defaultGatewayURL),
		Model:           envOr("LLM_MODEL", "gpt-4o-mini"),
		AIEnabled:       boolEnv("AI_ANALYSIS_ENABLED", true) && apiKey != "",
		FallbackEnabled: boolEnv("FALLBACK_ENABLED", true),
		LLMTimeout:      time.Duration(intEnv("LLM_TIMEOUT_SEC", 30)) * time.Second,
	}
	return cfg
}

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func boolEnv(k string, def bool) bool {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func intEnv(k string, def int) int {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return def
	}
	return n
}
