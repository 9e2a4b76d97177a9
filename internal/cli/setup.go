package cli

import (
	"fmt"

	"github.com/issueops/issueops/internal/cache"
	"github.com/issueops/issueops/internal/config"
	"github.com/issueops/issueops/internal/extract"
	"github.com/issueops/issueops/internal/github"
	"github.com/issueops/issueops/internal/rules"
)

// loadConfig resolves and loads the config for the current invocation.
// A missing config file is fine; defaults plus environment cover it.
func loadConfig() (*config.Config, error) {
	cfgPath := config.FindConfigPath(cfgFile)
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if errs := config.Validate(cfg); len(errs) > 0 {
		for _, e := range errs {
			fmt.Printf("Config error: %v\n", e)
		}
		return nil, fmt.Errorf("invalid configuration (%d errors)", len(errs))
	}
	return cfg, nil
}

// createGitHubClient prefers the configured token over ambient gh auth.
func createGitHubClient(cfg *config.Config) (*github.Client, error) {
	if cfg.GitHub.Token != "" {
		return github.NewClientWithToken(cfg.GitHub.Token)
	}
	return github.NewClient()
}

func createProvider(cfg *config.LLMConfig) (extract.Provider, error) {
	switch cfg.Provider {
	case "gemini":
		return extract.NewGeminiProvider(cfg.APIKey, cfg.Model)
	case "openai":
		return extract.NewOpenAIProvider(cfg.APIKey, cfg.Model)
	default:
		return nil, fmt.Errorf("unknown LLM provider: %s", cfg.Provider)
	}
}

// createExtractor wires a provider and the extraction cache per config.
// The caller must Close the returned provider.
func createExtractor(cfg *config.Config) (*extract.Extractor, extract.Provider, error) {
	provider, err := createProvider(&cfg.LLM)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create LLM provider: %w", err)
	}

	var store *cache.Store
	if cfg.CacheEnabled() {
		store = cache.Open(cfg.Cache.Path)
	}

	return extract.New(provider, store), provider, nil
}

// loadEngine builds the rule engine, preferring an explicit flag over the
// configured path, then falling back to the default source.
func loadEngine(flagPath string, cfg *config.Config) *rules.Engine {
	path := flagPath
	if path == "" {
		path = cfg.Rules.Path
	}
	return rules.Load(rules.Sources(path)...)
}
