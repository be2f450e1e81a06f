package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.LLM.Model == "" {
		t.Error("default model empty")
	}
	if cfg.Agent.MaxIterations != 20 || cfg.Agent.RecentWindow != 5 {
		t.Errorf("agent defaults = %+v", cfg.Agent)
	}
}

func TestLoadTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dodo.toml")
	data := `
[llm]
model = "gemini-2.5-pro"
api_key = "file-key"
temperature = 0.2

[agent]
max_iterations = 7
recent_window = 3

[observer]
enabled = true
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := Load(path)
	if cfg.LLM.Model != "gemini-2.5-pro" || cfg.LLM.APIKey != "file-key" {
		t.Errorf("llm = %+v", cfg.LLM)
	}
	if cfg.LLM.Temperature != 0.2 {
		t.Errorf("temperature = %v", cfg.LLM.Temperature)
	}
	if cfg.Agent.MaxIterations != 7 || cfg.Agent.RecentWindow != 3 {
		t.Errorf("agent = %+v", cfg.Agent)
	}
	if !cfg.Observer.Enabled {
		t.Error("observer not enabled")
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("DODO_API_KEY", "env-key")
	t.Setenv("DODO_MODEL", "env-model")

	cfg := Load(filepath.Join(t.TempDir(), "missing.toml"))
	if cfg.LLM.APIKey != "env-key" {
		t.Errorf("api key = %q", cfg.LLM.APIKey)
	}
	if cfg.LLM.Model != "env-model" {
		t.Errorf("model = %q", cfg.LLM.Model)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	t.Setenv("DODO_API_KEY", "")
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("DODO_MODEL", "")

	cfg := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if cfg.LLM.Model != Default().LLM.Model {
		t.Errorf("model = %q", cfg.LLM.Model)
	}
}
