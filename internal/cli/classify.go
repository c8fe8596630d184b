package cli

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/theglowcode/ai-nyr-analysis/internal/ingest"
	"github.com/theglowcode/ai-nyr-analysis/internal/model"
	"github.com/theglowcode/ai-nyr-analysis/internal/output"
	"github.com/theglowcode/ai-nyr-analysis/internal/pipeline"
	"github.com/theglowcode/ai-nyr-analysis/internal/taxonomy"
)

var (
	classifyJSONL      string
	classifyCSV        string
	classifyLookup     string
	classifyManifest   string
	classifyTextCol    string
	classifyMetaCols   []string
	classifyMaxChars   int
	classifyModel      string
	classifyProvider   string
	classifyBaseURL    string
	classifyTimeout    time.Duration
	classifyMaxTokens  int
	classifyRetries    int
	classifyRetryDelay time.Duration
	classifyInterval   time.Duration
	classifyLimit      int
	classifyStripHTML  bool
	classifyNoCache    bool
	classifyCacheDir   string
	classifyDryRun     bool
)

// classifyCmd represents the classify command
var classifyCmd = &cobra.Command{
	Use:   "classify <input.csv>",
	Short: "Classify messages from a CSV export",
	Long: `Classify reads messages from a CSV export, sends each one to the
configured LLM provider, and writes the topic and sentiment labels
to JSONL and CSV files.

The input must contain the text column (default "Message"). Known
metadata columns are carried through to the output when present.
Rows whose text is empty are skipped; rows the model repeatedly
fails on are recorded with an error and the run continues.

Credentials come from the environment: OPENAI_API_KEY for the
openai provider, optionally OLLAMA_BASE_URL for ollama.`,
	Args: cobra.ExactArgs(1),
	RunE: runClassify,
}

func init() {
	rootCmd.AddCommand(classifyCmd)

	classifyCmd.Flags().StringVar(&classifyJSONL, "jsonl", "topics.jsonl", "JSONL output path")
	classifyCmd.Flags().StringVar(&classifyCSV, "csv", "topics.csv", "CSV output path")
	classifyCmd.Flags().StringVar(&classifyLookup, "lookup", "topic_lookup.csv", "topic lookup CSV path")
	classifyCmd.Flags().StringVar(&classifyManifest, "manifest", "run_manifest.json", "run manifest path")
	classifyCmd.Flags().StringVar(&classifyTextCol, "text-col", "Message", "name of the message text column")
	classifyCmd.Flags().StringSliceVar(&classifyMetaCols, "meta-cols", nil, "metadata columns to carry through")
	classifyCmd.Flags().IntVar(&classifyMaxChars, "max-chars", 2000, "max message length sent to the model, in runes")
	classifyCmd.Flags().StringVar(&classifyModel, "model", "", "model name (default gpt-5-mini for openai)")
	classifyCmd.Flags().StringVar(&classifyProvider, "provider", "", "LLM provider: openai or ollama")
	classifyCmd.Flags().StringVar(&classifyBaseURL, "base-url", "", "override the provider API base URL")
	classifyCmd.Flags().DurationVar(&classifyTimeout, "timeout", 0, "per-request timeout (default 60s)")
	classifyCmd.Flags().IntVar(&classifyMaxTokens, "max-tokens", 0, "max completion tokens (0 = provider default)")
	classifyCmd.Flags().IntVar(&classifyRetries, "max-retries", 0, "attempts per message (default 5)")
	classifyCmd.Flags().DurationVar(&classifyRetryDelay, "retry-delay", 0, "base backoff delay (default 1s)")
	classifyCmd.Flags().DurationVar(&classifyInterval, "interval", 0, "minimum gap between model calls (default 200ms)")
	classifyCmd.Flags().IntVar(&classifyLimit, "limit", 0, "classify at most N messages (0 = all)")
	classifyCmd.Flags().BoolVar(&classifyStripHTML, "strip-html", false, "strip HTML markup from messages")
	classifyCmd.Flags().BoolVar(&classifyNoCache, "no-cache", false, "disable response caching")
	classifyCmd.Flags().StringVar(&classifyCacheDir, "cache-dir", "", "persist the cache to this directory")
	classifyCmd.Flags().BoolVar(&classifyDryRun, "dry-run", false, "parse the input and report counts without calling the model")
}

func runClassify(cmd *cobra.Command, args []string) error {
	inputPath := args[0]
	cfg := classifyConfig(cmd)

	reader := ingest.NewReader(cfg.Input)
	in, err := reader.Read(inputPath)
	if err != nil {
		return err
	}

	slog.Info("input parsed",
		"input", inputPath,
		"rows", len(in.Rows),
		"meta_columns", strings.Join(in.MetaColumns, ","),
	)

	if classifyDryRun {
		slog.Info("dry run, skipping classification",
			"provider", cfg.LLM.Provider,
			"model", cfg.LLM.Model,
		)
		return nil
	}

	// Credentials are environment-only, never flags or config keys.
	switch strings.ToLower(cfg.LLM.Provider) {
	case "ollama":
		if base := os.Getenv("OLLAMA_BASE_URL"); base != "" && cfg.LLM.BaseURL == "" {
			cfg.LLM.BaseURL = base
		}
	default:
		cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
		if cfg.LLM.APIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY environment variable not set")
		}
	}

	p, err := pipeline.New(&cfg)
	if err != nil {
		return err
	}

	jsonl, err := output.NewJSONLWriter(cfg.Output.JSONLPath)
	if err != nil {
		return err
	}

	sink := &teeSink{jsonl: jsonl}
	res, runErr := p.Run(cmd.Context(), in, sink)
	if err := jsonl.Close(); err != nil && runErr == nil {
		runErr = err
	}
	if runErr != nil {
		return runErr
	}

	if err := output.WriteResults(cfg.Output.CSVPath, in.MetaColumns, sink.rows); err != nil {
		return err
	}
	if err := output.WriteTopicLookup(cfg.Output.LookupPath, taxonomy.Default()); err != nil {
		return err
	}

	manifest := output.RunManifest{
		RunID:      uuid.NewString(),
		Provider:   cfg.LLM.Provider,
		Model:      cfg.LLM.Model,
		Input:      inputPath,
		StartedAt:  res.StartedAt,
		FinishedAt: res.FinishedAt,
		Rows:       res.Rows,
		Succeeded:  res.Succeeded,
		Failed:     res.Failed,
		CacheHits:  res.CacheHits,
		Artifacts: []string{
			cfg.Output.JSONLPath,
			cfg.Output.CSVPath,
			cfg.Output.LookupPath,
		},
	}
	if err := output.WriteManifest(cfg.Output.ManifestPath, manifest); err != nil {
		return err
	}

	slog.Info("run complete",
		"rows", res.Rows,
		"succeeded", res.Succeeded,
		"failed", res.Failed,
		"cache_hits", res.CacheHits,
		"jsonl", cfg.Output.JSONLPath,
		"csv", cfg.Output.CSVPath,
		"lookup", cfg.Output.LookupPath,
		"manifest", cfg.Output.ManifestPath,
	)
	return nil
}

// classifyConfig resolves the run configuration: defaults, then config
// file and NYR_* environment via viper, then explicit flags.
func classifyConfig(cmd *cobra.Command) model.Config {
	cfg := model.DefaultConfig()
	applyViper(&cfg)

	flags := cmd.Flags()
	if flags.Changed("text-col") {
		cfg.Input.TextColumn = classifyTextCol
	}
	if flags.Changed("meta-cols") {
		cfg.Input.MetaColumns = classifyMetaCols
	}
	if flags.Changed("max-chars") {
		cfg.Input.MaxChars = classifyMaxChars
	}
	if flags.Changed("strip-html") {
		cfg.Input.StripHTML = classifyStripHTML
	}
	if flags.Changed("limit") {
		cfg.Input.Limit = classifyLimit
	}
	if flags.Changed("provider") {
		cfg.LLM.Provider = classifyProvider
	}
	if flags.Changed("model") {
		cfg.LLM.Model = classifyModel
	}
	if flags.Changed("base-url") {
		cfg.LLM.BaseURL = classifyBaseURL
	}
	if flags.Changed("timeout") {
		cfg.LLM.Timeout = model.Duration(classifyTimeout)
	}
	if flags.Changed("max-tokens") {
		cfg.LLM.MaxTokens = classifyMaxTokens
	}
	if flags.Changed("max-retries") {
		cfg.Retry.MaxAttempts = classifyRetries
	}
	if flags.Changed("retry-delay") {
		cfg.Retry.BaseDelay = model.Duration(classifyRetryDelay)
	}
	if flags.Changed("interval") {
		cfg.RateLimit.CallInterval = model.Duration(classifyInterval)
	}
	if flags.Changed("no-cache") && classifyNoCache {
		cfg.Cache.Enabled = false
	}
	if flags.Changed("cache-dir") {
		cfg.Cache.Dir = classifyCacheDir
	}
	if flags.Changed("jsonl") {
		cfg.Output.JSONLPath = classifyJSONL
	}
	if flags.Changed("csv") {
		cfg.Output.CSVPath = classifyCSV
	}
	if flags.Changed("lookup") {
		cfg.Output.LookupPath = classifyLookup
	}
	if flags.Changed("manifest") {
		cfg.Output.ManifestPath = classifyManifest
	}

	return cfg
}

// applyViper overlays config file and environment values onto cfg.
func applyViper(cfg *model.Config) {
	if v := viper.GetString("input.text_column"); v != "" {
		cfg.Input.TextColumn = v
	}
	if v := viper.GetStringSlice("input.meta_columns"); len(v) > 0 {
		cfg.Input.MetaColumns = v
	}
	if v := viper.GetInt("input.max_chars"); v > 0 {
		cfg.Input.MaxChars = v
	}
	if viper.IsSet("input.strip_html") {
		cfg.Input.StripHTML = viper.GetBool("input.strip_html")
	}
	if v := viper.GetInt("input.limit"); v > 0 {
		cfg.Input.Limit = v
	}
	if v := viper.GetString("llm.provider"); v != "" {
		cfg.LLM.Provider = v
	}
	if v := viper.GetString("llm.model"); v != "" {
		cfg.LLM.Model = v
	}
	if v := viper.GetString("llm.base_url"); v != "" {
		cfg.LLM.BaseURL = v
	}
	if v := viper.GetDuration("llm.timeout"); v > 0 {
		cfg.LLM.Timeout = model.Duration(v)
	}
	if v := viper.GetInt("llm.max_tokens"); v > 0 {
		cfg.LLM.MaxTokens = v
	}
	if v := viper.GetInt("retry.max_attempts"); v > 0 {
		cfg.Retry.MaxAttempts = v
	}
	if v := viper.GetDuration("retry.base_delay"); v > 0 {
		cfg.Retry.BaseDelay = model.Duration(v)
	}
	if v := viper.GetDuration("rate_limit.call_interval"); v > 0 {
		cfg.RateLimit.CallInterval = model.Duration(v)
	}
	if viper.IsSet("cache.enabled") {
		cfg.Cache.Enabled = viper.GetBool("cache.enabled")
	}
	if v := viper.GetString("cache.dir"); v != "" {
		cfg.Cache.Dir = v
	}
	if v := viper.GetDuration("cache.ttl"); v > 0 {
		cfg.Cache.TTL = model.Duration(v)
	}
	if v := viper.GetString("output.jsonl"); v != "" {
		cfg.Output.JSONLPath = v
	}
	if v := viper.GetString("output.csv"); v != "" {
		cfg.Output.CSVPath = v
	}
	if v := viper.GetString("output.lookup"); v != "" {
		cfg.Output.LookupPath = v
	}
	if v := viper.GetString("output.manifest"); v != "" {
		cfg.Output.ManifestPath = v
	}
}

// teeSink streams rows to the JSONL writer while retaining them for
// the CSV written at the end of the run.
type teeSink struct {
	jsonl *output.JSONLWriter
	rows  []model.OutputRow
}

func (s *teeSink) Write(row model.OutputRow) error {
	s.rows = append(s.rows, row)
	return s.jsonl.Write(row)
}
