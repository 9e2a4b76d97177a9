package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestExpandEnvVars(t *testing.T) {
	os.Setenv("TEST_VAR", "test-value")
	defer os.Unsetenv("TEST_VAR")

	tests := []struct {
		name   string
		input  string
		expect string
	}{
		{
			name:   "expands env var",
			input:  "${TEST_VAR}",
			expect: "test-value",
		},
		{
			name:   "keeps unset var",
			input:  "${UNSET_VAR}",
			expect: "${UNSET_VAR}",
		},
		{
			name:   "expands in string",
			input:  "key-${TEST_VAR}-suffix",
			expect: "key-test-value-suffix",
		},
		{
			name:   "no vars",
			input:  "plain string",
			expect: "plain string",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := expandEnvVars(tt.input)
			if result != tt.expect {
				t.Errorf("expandEnvVars(%q) = %q, want %q", tt.input, result, tt.expect)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	tmpDir := t.TempDir()
	cfgPath := filepath.Join(tmpDir, "config.yaml")

	content := `
llm:
  provider: "openai"
  model: "gpt-4o-mini"
  api_key: "test-key"

rules:
  path: "my-rules.yaml"

duplicate:
  enabled: false

batch:
  max_in_flight: 5
`

	if err := os.WriteFile(cfgPath, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write temp config: %v", err)
	}

	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.LLM.Provider != "openai" {
		t.Errorf("LLM.Provider = %v, want openai", cfg.LLM.Provider)
	}
	if cfg.LLM.APIKey != "test-key" {
		t.Errorf("LLM.APIKey = %v, want test-key", cfg.LLM.APIKey)
	}
	if cfg.Rules.Path != "my-rules.yaml" {
		t.Errorf("Rules.Path = %v, want my-rules.yaml", cfg.Rules.Path)
	}
	if cfg.DuplicateEnabled() {
		t.Errorf("DuplicateEnabled() = true, want false")
	}
	if cfg.Batch.MaxInFlight != 5 {
		t.Errorf("Batch.MaxInFlight = %d, want 5", cfg.Batch.MaxInFlight)
	}

	// Defaults fill the rest
	if cfg.Batch.DelayMs != 1000 {
		t.Errorf("Batch.DelayMs = %d, want 1000", cfg.Batch.DelayMs)
	}
	if !cfg.CacheEnabled() {
		t.Errorf("CacheEnabled() = false, want true")
	}
}

func TestLoadEmptyPath(t *testing.T) {
	os.Setenv("GEMINI_API_KEY", "env-key")
	defer os.Unsetenv("GEMINI_API_KEY")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") error = %v", err)
	}

	if cfg.LLM.Provider != "gemini" {
		t.Errorf("LLM.Provider = %v, want gemini", cfg.LLM.Provider)
	}
	if cfg.LLM.APIKey != "env-key" {
		t.Errorf("LLM.APIKey = %v, want env-key", cfg.LLM.APIKey)
	}
	if !cfg.DuplicateEnabled() {
		t.Errorf("DuplicateEnabled() = false, want true")
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	applyDefaults(cfg)

	if cfg.LLM.Provider != "gemini" {
		t.Errorf("LLM.Provider = %v, want gemini", cfg.LLM.Provider)
	}
	if cfg.Cache.Path != ".triage_cache.json" {
		t.Errorf("Cache.Path = %v, want .triage_cache.json", cfg.Cache.Path)
	}
	if cfg.Batch.MaxInFlight != 3 {
		t.Errorf("Batch.MaxInFlight = %d, want 3", cfg.Batch.MaxInFlight)
	}
	if cfg.Batch.GitHubRPS != 10 {
		t.Errorf("Batch.GitHubRPS = %d, want 10", cfg.Batch.GitHubRPS)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		cfg      Config
		wantErrs int
	}{
		{
			name: "valid",
			cfg: Config{
				LLM:   LLMConfig{Provider: "gemini", APIKey: "k"},
				Batch: BatchConfig{MaxInFlight: 3, GitHubRPS: 10},
			},
			wantErrs: 0,
		},
		{
			name: "bad provider and missing key",
			cfg: Config{
				LLM:   LLMConfig{Provider: "anthropic"},
				Batch: BatchConfig{MaxInFlight: 3, GitHubRPS: 10},
			},
			wantErrs: 2,
		},
		{
			name: "bad batch settings",
			cfg: Config{
				LLM:   LLMConfig{Provider: "openai", APIKey: "k"},
				Batch: BatchConfig{MaxInFlight: 0, DelayMs: -1, GitHubRPS: 0},
			},
			wantErrs: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := Validate(&tt.cfg)
			if len(errs) != tt.wantErrs {
				t.Errorf("Validate() returned %d errors, want %d: %v", len(errs), tt.wantErrs, errs)
			}
		})
	}
}
