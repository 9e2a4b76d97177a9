package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents the full application configuration
type Config struct {
	LLM       LLMConfig       `yaml:"llm"`
	GitHub    GitHubConfig    `yaml:"github"`
	Rules     RulesConfig     `yaml:"rules"`
	Cache     CacheConfig     `yaml:"cache"`
	Duplicate DuplicateConfig `yaml:"duplicate"`
	Batch     BatchConfig     `yaml:"batch"`
}

// LLMConfig contains LLM provider settings for extraction
type LLMConfig struct {
	Provider string `yaml:"provider"`
	Model    string `yaml:"model"`
	APIKey   string `yaml:"api_key"`
}

// GitHubConfig contains GitHub API settings
type GitHubConfig struct {
	Token string `yaml:"token"`
}

// RulesConfig points at the triage rule file
type RulesConfig struct {
	Path string `yaml:"path"`
}

// CacheConfig contains extraction cache settings
type CacheConfig struct {
	Path    string `yaml:"path"`
	Enabled *bool  `yaml:"enabled"`
}

// DuplicateConfig contains duplicate detection settings
type DuplicateConfig struct {
	Enabled *bool `yaml:"enabled"`
}

// BatchConfig contains batch scan settings
type BatchConfig struct {
	MaxInFlight int `yaml:"max_in_flight"`
	DelayMs     int `yaml:"delay_ms"`
	GitHubRPS   int `yaml:"github_requests_per_second"`
}

// CacheEnabled reports whether the extraction cache should be used.
// Unset means enabled.
func (cfg *Config) CacheEnabled() bool {
	return cfg.Cache.Enabled == nil || *cfg.Cache.Enabled
}

// DuplicateEnabled reports whether duplicate detection should run.
// Unset means enabled.
func (cfg *Config) DuplicateEnabled() bool {
	return cfg.Duplicate.Enabled == nil || *cfg.Duplicate.Enabled
}

// Load reads and parses config from the given path. An empty path yields
// a config built entirely from defaults and environment variables.
func Load(path string) (*Config, error) {
	// Pick up a local .env if one exists; absence is not an error.
	_ = godotenv.Load()

	var cfg Config
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	expandConfigEnvVars(&cfg)
	applyEnvFallbacks(&cfg)
	applyDefaults(&cfg)

	return &cfg, nil
}

// FindConfigPath looks for config in common locations
func FindConfigPath(explicit string) string {
	if explicit != "" {
		return explicit
	}

	// Check common locations
	paths := []string{
		".github/issueops.yaml",
		".github/issueops.yml",
		"issueops.yaml",
		"issueops.yml",
	}

	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	// Check home directory
	if home, err := os.UserHomeDir(); err == nil {
		homePath := filepath.Join(home, ".config", "issueops", "config.yaml")
		if _, err := os.Stat(homePath); err == nil {
			return homePath
		}
	}

	return ""
}

// applyEnvFallbacks fills credentials from the environment when the
// config file leaves them unset
func applyEnvFallbacks(cfg *Config) {
	if cfg.LLM.APIKey == "" {
		switch cfg.LLM.Provider {
		case "openai":
			cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
		default:
			cfg.LLM.APIKey = os.Getenv("GEMINI_API_KEY")
		}
	}
	if cfg.GitHub.Token == "" {
		cfg.GitHub.Token = os.Getenv("GITHUB_TOKEN")
	}
	if cfg.GitHub.Token == "" {
		cfg.GitHub.Token = os.Getenv("GH_TOKEN")
	}
}

// applyDefaults sets default values for unset fields
func applyDefaults(cfg *Config) {
	if cfg.LLM.Provider == "" {
		cfg.LLM.Provider = "gemini"
	}
	if cfg.Cache.Path == "" {
		cfg.Cache.Path = ".triage_cache.json"
	}
	if cfg.Batch.MaxInFlight == 0 {
		cfg.Batch.MaxInFlight = 3
	}
	if cfg.Batch.DelayMs == 0 {
		cfg.Batch.DelayMs = 1000
	}
	if cfg.Batch.GitHubRPS == 0 {
		cfg.Batch.GitHubRPS = 10
	}
	// Rules.Path intentionally left empty: the rule engine has its own
	// fallback chain for discovery.
}
