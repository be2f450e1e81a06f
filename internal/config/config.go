// Package config loads dodo CLI configuration from defaults, a TOML
// file, and environment variables, in that order (env wins, except that
// GEMINI_API_KEY only fills an API key left empty by the file).
package config

import (
	"os"

	"github.com/BurntSushi/toml"
)

type Config struct {
	LLM      LLMConfig      `toml:"llm"`
	Agent    AgentConfig    `toml:"agent"`
	Observer ObserverConfig `toml:"observer"`
}

type LLMConfig struct {
	Model       string  `toml:"model"`
	APIKey      string  `toml:"api_key"`
	Temperature float64 `toml:"temperature"`
}

type AgentConfig struct {
	SystemPrompt  string `toml:"system_prompt"`
	MaxIterations int    `toml:"max_iterations"`
	RecentWindow  int    `toml:"recent_window"`
}

type ObserverConfig struct {
	Enabled bool `toml:"enabled"`
}

// Default returns a Config with all defaults applied.
func Default() Config {
	return Config{
		LLM: LLMConfig{
			Model:       "gemini-2.5-flash",
			Temperature: 0.5,
		},
		Agent: AgentConfig{
			MaxIterations: 20,
			RecentWindow:  5,
		},
	}
}

// Load reads config: defaults -> TOML file -> env vars. DODO_API_KEY and
// DODO_MODEL override the file; GEMINI_API_KEY is used only when neither
// DODO_API_KEY nor the file set an API key.
func Load(path string) Config {
	cfg := Default()

	if path == "" {
		path = "dodo.toml"
	}

	if data, err := os.ReadFile(path); err == nil {
		_ = toml.Unmarshal(data, &cfg)
	}

	if v := os.Getenv("DODO_API_KEY"); v != "" {
		cfg.LLM.APIKey = v
	} else if v := os.Getenv("GEMINI_API_KEY"); v != "" && cfg.LLM.APIKey == "" {
		cfg.LLM.APIKey = v
	}
	if v := os.Getenv("DODO_MODEL"); v != "" {
		cfg.LLM.Model = v
	}

	return cfg
}
