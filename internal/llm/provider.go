package llm

import (
	"context"
	"time"

	"github.com/theglowcode/ai-nyr-analysis/internal/model"
)

// Provider defines the interface for LLM providers
type Provider interface {
	// Name returns the provider name
	Name() string

	// Classify sends one message for classification and returns the
	// model's raw text response, untouched beyond whitespace trimming.
	Classify(ctx context.Context, message string) (string, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// Config holds LLM provider configuration
type Config struct {
	// Provider name: "openai", "ollama"
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for OpenAI
	APIKey string

	// BaseURL for custom endpoints (e.g., Ollama)
	BaseURL string

	// Timeout for API requests
	Timeout time.Duration

	// MaxTokens caps response generation (0 = provider default)
	MaxTokens int

	// SystemPrompt carries the classification instructions sent with
	// every message
	SystemPrompt string
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Provider: "openai",
		Model:    DefaultModel,
		Timeout:  60 * time.Second,
	}
}

// ConfigFromModel converts model.LLMConfig to llm.Config
func ConfigFromModel(mc model.LLMConfig) Config {
	return Config{
		Provider:  mc.Provider,
		Model:     mc.Model,
		APIKey:    mc.APIKey,
		BaseURL:   mc.BaseURL,
		Timeout:   mc.Timeout.Std(),
		MaxTokens: mc.MaxTokens,
	}
}
