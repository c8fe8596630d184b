package llm

import (
	"strings"
	"testing"
)

func TestNewProvider_Dispatch(t *testing.T) {
	tests := []struct {
		name     string
		config   Config
		wantName string
	}{
		{"openai", Config{Provider: "openai", APIKey: "test-key"}, "openai"},
		{"openai mixed case", Config{Provider: "OpenAI", APIKey: "test-key"}, "openai"},
		{"empty defaults to openai", Config{Provider: "", APIKey: "test-key"}, "openai"},
		{"ollama", Config{Provider: "ollama", Model: "llama3.1:8b"}, "ollama"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider, err := NewProvider(tt.config)
			if err != nil {
				t.Fatalf("NewProvider failed: %v", err)
			}
			if provider.Name() != tt.wantName {
				t.Errorf("Name() = %s, want %s", provider.Name(), tt.wantName)
			}
		})
	}
}

func TestNewProvider_Unknown(t *testing.T) {
	_, err := NewProvider(Config{Provider: "bard"})
	if err == nil {
		t.Fatal("Expected error for unknown provider")
	}
	if !strings.Contains(err.Error(), "bard") {
		t.Errorf("Error should name the provider, got: %v", err)
	}
}

func TestNewProvider_OpenAIWithoutKey(t *testing.T) {
	if _, err := NewProvider(Config{Provider: "openai"}); err == nil {
		t.Fatal("Expected error for openai without an API key")
	}
}
