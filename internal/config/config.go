// Package config loads server configuration from the environment, with
// an optional .env file for local development.
package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Config holds everything the arena server needs to start.
type Config struct {
	APIKey  string
	Addr    string
	Model   string
	BaseURL string
}

// Load reads configuration from the environment. A .env file in the
// working directory is merged in first (existing variables win). The
// provider credential is required here, at startup, so a missing key is
// reported once instead of failing lazily inside a battle.
func Load() (*Config, error) {
	_ = godotenv.Load()

	apiKey := os.Getenv("MOONSHOT_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("config: MOONSHOT_API_KEY is required (set it in the environment or a .env file)")
	}

	return &Config{
		APIKey:  apiKey,
		Addr:    envStr("ARENA_ADDR", ":3000"),
		Model:   envStr("ARENA_MODEL", "moonshot-v1-8k"),
		BaseURL: envStr("ARENA_BASE_URL", "https://api.moonshot.cn/v1"),
	}, nil
}

func envStr(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}
