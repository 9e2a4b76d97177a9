package config

import (
	"fmt"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks the configuration for errors
func Validate(cfg *Config) []error {
	var errs []error

	if cfg.LLM.Provider != "gemini" && cfg.LLM.Provider != "openai" {
		errs = append(errs, ValidationError{"llm.provider", "must be 'gemini' or 'openai'"})
	}

	if cfg.LLM.APIKey == "" {
		errs = append(errs, ValidationError{"llm.api_key", "required (set GEMINI_API_KEY or OPENAI_API_KEY)"})
	}

	if cfg.Batch.MaxInFlight < 1 {
		errs = append(errs, ValidationError{"batch.max_in_flight", "must be at least 1"})
	}

	if cfg.Batch.DelayMs < 0 {
		errs = append(errs, ValidationError{"batch.delay_ms", "must not be negative"})
	}

	if cfg.Batch.GitHubRPS < 1 {
		errs = append(errs, ValidationError{"batch.github_requests_per_second", "must be at least 1"})
	}

	return errs
}
