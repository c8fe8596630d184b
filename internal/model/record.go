package model

// Classification is the normalized result of classifying one message.
// Every field is always present: the normalizer substitutes fallback
// values rather than dropping anything, so Subtopic is the only field
// that can be null.
type Classification struct {
	TopicID                int     `json:"topic_id"`
	Topic                  string  `json:"topic"`
	Subtopic               *string `json:"subtopic"`
	Confidence             float64 `json:"confidence"`
	Rationale              string  `json:"rationale"`
	NewSentiment           string  `json:"newSentiment"`
	NewSentimentConfidence float64 `json:"newSentimentConfidence"`
}
