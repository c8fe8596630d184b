// Package pipeline orchestrates a classification run: trim, cache
// lookup, rate-limited model call with retries, normalization, and
// per-row output.
package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	"github.com/theglowcode/ai-nyr-analysis/internal/cache"
	"github.com/theglowcode/ai-nyr-analysis/internal/ingest"
	"github.com/theglowcode/ai-nyr-analysis/internal/llm"
	"github.com/theglowcode/ai-nyr-analysis/internal/model"
	"github.com/theglowcode/ai-nyr-analysis/internal/retry"
	"github.com/theglowcode/ai-nyr-analysis/internal/taxonomy"
	"github.com/theglowcode/ai-nyr-analysis/internal/text"
	"github.com/theglowcode/ai-nyr-analysis/internal/validate"
)

// Sink receives finished rows one at a time, in input order.
type Sink interface {
	Write(model.OutputRow) error
}

// Pipeline orchestrates the complete classification run
type Pipeline struct {
	provider   llm.Provider
	normalizer *validate.Normalizer
	cache      cache.Cache // nil when caching is disabled
	limiter    *rate.Limiter
	retryCfg   retry.Config
	maxChars   int
	modelName  string
}

// New creates a pipeline with the given configuration, resolving the
// model provider from it.
func New(cfg *model.Config) (*Pipeline, error) {
	llmCfg := llm.ConfigFromModel(cfg.LLM)
	llmCfg.SystemPrompt = llm.SystemPrompt(taxonomy.Default())

	provider, err := llm.NewProvider(llmCfg)
	if err != nil {
		return nil, fmt.Errorf("init provider: %w", err)
	}
	return NewWithProvider(cfg, provider), nil
}

// NewWithProvider creates a pipeline around an existing provider.
func NewWithProvider(cfg *model.Config, provider llm.Provider) *Pipeline {
	tax := taxonomy.Default()

	var c cache.Cache
	if cfg.Cache.Enabled {
		ttl := cfg.Cache.TTL.Std()
		if cfg.Cache.Dir != "" {
			c = cache.NewLayeredCache(ttl, cfg.Cache.Dir, ttl)
		} else {
			c = cache.NewMemoryCache(ttl, 10*time.Minute)
		}
	}

	var limiter *rate.Limiter
	if interval := cfg.RateLimit.CallInterval.Std(); interval > 0 {
		limiter = rate.NewLimiter(rate.Every(interval), 1)
	}

	maxChars := cfg.Input.MaxChars
	if maxChars <= 0 {
		maxChars = text.DefaultMaxChars
	}

	modelName := cfg.LLM.Model
	if modelName == "" {
		modelName = llm.DefaultModel
	}

	return &Pipeline{
		provider:   provider,
		normalizer: validate.NewNormalizer(tax),
		cache:      c,
		limiter:    limiter,
		retryCfg: retry.Config{
			MaxAttempts: cfg.Retry.MaxAttempts,
			BaseDelay:   cfg.Retry.BaseDelay.Std(),
		},
		maxChars:  maxChars,
		modelName: modelName,
	}
}

// Result summarizes a finished run.
type Result struct {
	Rows       int
	Succeeded  int
	Failed     int
	CacheHits  int
	StartedAt  time.Time
	FinishedAt time.Time
}

// Run classifies every row, writing each result to sink as soon as it
// lands. A row whose classification fails after all retries is
// recorded with the error and the run continues; only sink failures
// and context cancellation abort the run.
func (p *Pipeline) Run(ctx context.Context, in *ingest.Input, sink Sink) (*Result, error) {
	res := &Result{Rows: len(in.Rows), StartedAt: time.Now().UTC()}
	total := len(in.Rows)

	for i, row := range in.Rows {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		out := model.OutputRow{Row: row}
		rec, cached, err := p.classify(ctx, row.Clean)
		if err != nil {
			out.Err = err.Error()
			res.Failed++
			slog.Warn("classification failed",
				"progress", fmt.Sprintf("%d/%d", i+1, total),
				"row", row.ID,
				"error", err)
		} else {
			out.Result = &rec
			res.Succeeded++
			if cached {
				res.CacheHits++
			}
			slog.Info("classified",
				"progress", fmt.Sprintf("%d/%d", i+1, total),
				"row", row.ID,
				"topic", rec.Topic,
				"confidence", rec.Confidence,
				"sentiment", rec.NewSentiment,
				"sentimentConfidence", rec.NewSentimentConfidence,
				"cached", cached)
		}

		if err := sink.Write(out); err != nil {
			return nil, fmt.Errorf("write row %d: %w", row.ID, err)
		}
	}

	res.FinishedAt = time.Now().UTC()
	return res, nil
}

// classify runs one message through the cache, rate limiter, provider
// and normalizer. The bool reports a cache hit.
func (p *Pipeline) classify(ctx context.Context, message string) (model.Classification, bool, error) {
	trimmed := text.Trim(message, p.maxChars)

	var key string
	if p.cache != nil {
		key = cache.Key(p.provider.Name(), p.modelName, trimmed)
		if data, found := p.cache.Get(key); found {
			var rec model.Classification
			if err := json.Unmarshal(data, &rec); err == nil {
				return rec, true, nil
			}
			// corrupt entry, reclassify
		}
	}

	var rec model.Classification
	op := func() error {
		if p.limiter != nil {
			if err := p.limiter.Wait(ctx); err != nil {
				return err
			}
		}
		raw, err := p.provider.Classify(ctx, trimmed)
		if err != nil {
			return err
		}
		obj, err := llm.ExtractJSON(raw)
		if err != nil {
			return fmt.Errorf("parse response: %w", err)
		}
		rec = p.normalizer.Normalize(obj)
		return nil
	}
	if err := retry.Do(ctx, p.retryCfg, op); err != nil {
		return model.Classification{}, false, err
	}

	if p.cache != nil {
		if data, err := json.Marshal(rec); err == nil {
			_ = p.cache.Set(key, data, 0)
		}
	}
	return rec, false, nil
}
