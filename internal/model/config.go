package model

import "time"

// Config is the full runtime configuration for a classification run.
// Values are resolved in order: flags, NYR_* environment variables,
// the config file, then DefaultConfig.
type Config struct {
	Input     InputConfig     `yaml:"input" mapstructure:"input"`
	LLM       LLMConfig       `yaml:"llm" mapstructure:"llm"`
	Retry     RetryConfig     `yaml:"retry" mapstructure:"retry"`
	RateLimit RateLimitConfig `yaml:"rate_limit" mapstructure:"rate_limit"`
	Cache     CacheConfig     `yaml:"cache" mapstructure:"cache"`
	Output    OutputConfig    `yaml:"output" mapstructure:"output"`
}

// InputConfig controls how the input CSV is read.
type InputConfig struct {
	// TextColumn is the header of the column holding the message text.
	TextColumn string `yaml:"text_column" mapstructure:"text_column"`
	// MetaColumns are carried into the output verbatim when present
	// in the input header and non-empty for a given row.
	MetaColumns []string `yaml:"meta_columns" mapstructure:"meta_columns"`
	// MaxChars caps the message length sent to the model, in runes.
	MaxChars int `yaml:"max_chars" mapstructure:"max_chars"`
	// StripHTML removes markup from messages before classification.
	StripHTML bool `yaml:"strip_html" mapstructure:"strip_html"`
	// Limit caps how many messages are classified (0 = all).
	Limit int `yaml:"limit" mapstructure:"limit"`
}

// LLMConfig selects and tunes the model provider.
type LLMConfig struct {
	Provider string `yaml:"provider" mapstructure:"provider"`
	Model    string `yaml:"model" mapstructure:"model"`
	// APIKey is read from the environment only, never from file or flag.
	APIKey    string   `yaml:"-" mapstructure:"-"`
	BaseURL   string   `yaml:"base_url,omitempty" mapstructure:"base_url"`
	Timeout   Duration `yaml:"timeout" mapstructure:"timeout"`
	MaxTokens int      `yaml:"max_tokens,omitempty" mapstructure:"max_tokens"`
}

// RetryConfig bounds the retry loop around each model call.
type RetryConfig struct {
	MaxAttempts int      `yaml:"max_attempts" mapstructure:"max_attempts"`
	BaseDelay   Duration `yaml:"base_delay" mapstructure:"base_delay"`
}

// RateLimitConfig spaces out calls to the provider.
type RateLimitConfig struct {
	// CallInterval is the minimum gap between consecutive model calls.
	CallInterval Duration `yaml:"call_interval" mapstructure:"call_interval"`
}

// CacheConfig controls response caching within a run.
type CacheConfig struct {
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`
	// Dir enables the disk layer when set; empty keeps cache in memory.
	Dir string   `yaml:"dir,omitempty" mapstructure:"dir"`
	TTL Duration `yaml:"ttl" mapstructure:"ttl"`
}

// OutputConfig names the artifacts a run produces.
type OutputConfig struct {
	JSONLPath    string `yaml:"jsonl" mapstructure:"jsonl"`
	CSVPath      string `yaml:"csv" mapstructure:"csv"`
	LookupPath   string `yaml:"lookup" mapstructure:"lookup"`
	ManifestPath string `yaml:"manifest" mapstructure:"manifest"`
}

// DefaultConfig returns the configuration used when nothing overrides it.
func DefaultConfig() Config {
	return Config{
		Input: InputConfig{
			TextColumn: "Message",
			MetaColumns: []string{
				"SenderScreenName",
				"CreatedTime",
				"MessageType",
				"Country",
				"State",
				"City",
			},
			MaxChars: 2000,
		},
		LLM: LLMConfig{
			Provider: "openai",
			Model:    "gpt-5-mini",
			Timeout:  Duration(60 * time.Second),
		},
		Retry: RetryConfig{
			MaxAttempts: 5,
			BaseDelay:   Duration(time.Second),
		},
		RateLimit: RateLimitConfig{
			CallInterval: Duration(200 * time.Millisecond),
		},
		Cache: CacheConfig{
			Enabled: true,
			TTL:     Duration(24 * time.Hour),
		},
		Output: OutputConfig{
			JSONLPath:    "topics.jsonl",
			CSVPath:      "topics.csv",
			LookupPath:   "topic_lookup.csv",
			ManifestPath: "run_manifest.json",
		},
	}
}
