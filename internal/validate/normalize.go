// Package validate turns raw model output into well-formed
// classification records. Normalization is total: any JSON object,
// however malformed its values, maps to a record whose labels come
// from the locked taxonomy.
package validate

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/theglowcode/ai-nyr-analysis/internal/model"
	"github.com/theglowcode/ai-nyr-analysis/internal/taxonomy"
)

// maxRationaleChars caps the rationale carried into outputs, in runes.
const maxRationaleChars = 120

// fallbackSentimentCeiling is the highest sentiment confidence kept
// when the topic landed on the fallback bucket.
const fallbackSentimentCeiling = 0.7

// Normalizer validates raw model responses against a taxonomy.
type Normalizer struct {
	tax *taxonomy.Set
}

// NewNormalizer creates a normalizer over the given taxonomy.
func NewNormalizer(tax *taxonomy.Set) *Normalizer {
	return &Normalizer{tax: tax}
}

// Normalize maps a raw response object to a classification record.
// Unknown or mistyped topics and sentiments become the fallback
// labels, confidences are coerced to numbers and clamped to [0, 1],
// the rationale is capped at 120 runes, and a fallback topic drags an
// oddly confident sentiment down to 0.7. Never fails: a nil or empty
// map yields the all-fallback record.
func (n *Normalizer) Normalize(raw map[string]any) model.Classification {
	topic, _ := raw["topic"].(string)
	if !n.tax.HasTopic(topic) {
		topic = taxonomy.FallbackTopic
	}
	topicID, _ := n.tax.TopicID(topic)

	var subtopic *string
	if v, ok := raw["subtopic"]; ok && v != nil {
		if s := strings.TrimSpace(stringify(v)); s != "" {
			subtopic = &s
		}
	}

	confidence := clamp01(toFloat(raw["confidence"]))

	var rationale string
	if v, ok := raw["rationale"]; ok && v != nil {
		rationale = strings.TrimSpace(stringify(v))
		if utf8.RuneCountInString(rationale) > maxRationaleChars {
			head := string([]rune(rationale)[:maxRationaleChars])
			rationale = strings.TrimRightFunc(head, unicode.IsSpace) + "…"
		}
	}

	sentiment, _ := raw["newSentiment"].(string)
	if !n.tax.HasSentiment(sentiment) {
		sentiment = taxonomy.FallbackSentiment
	}

	sentConf := clamp01(toFloat(raw["newSentimentConfidence"]))
	if topic == taxonomy.FallbackTopic && sentConf > fallbackSentimentCeiling {
		sentConf = fallbackSentimentCeiling
	}

	return model.Classification{
		TopicID:                topicID,
		Topic:                  topic,
		Subtopic:               subtopic,
		Confidence:             confidence,
		Rationale:              rationale,
		NewSentiment:           sentiment,
		NewSentimentConfidence: sentConf,
	}
}

// stringify renders a decoded JSON value the way Go would print it,
// so a numeric or boolean subtopic still becomes usable text.
func stringify(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	case json.Number:
		return t.String()
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(b)
	}
}

// toFloat coerces a decoded JSON value to a float64, returning 0 for
// anything that cannot be read as a number. Numeric strings count.
func toFloat(v any) float64 {
	switch t := v.(type) {
	case float64:
		return t
	case int:
		return float64(t)
	case int64:
		return float64(t)
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return 0
		}
		return f
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0
		}
		return f
	case bool:
		if t {
			return 1
		}
		return 0
	default:
		return 0
	}
}

// clamp01 bounds v to [0, 1]. NaN maps to 0 so records always
// serialize.
func clamp01(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
