package taxonomy

// Topic is one entry of the locked topic table.
type Topic struct {
	ID   int    `json:"topic_id" yaml:"topic_id"`
	Name string `json:"topic" yaml:"topic"`
}

// FallbackTopic is substituted whenever a topic is missing, malformed, or
// outside the locked table.
const FallbackTopic = "Other / Unclear"

// FallbackSentiment is substituted whenever a sentiment label is missing or
// outside the locked list.
const FallbackSentiment = "Unclear"

// Set holds the locked topic and sentiment enumerations together with the
// name lookups, built once and shared read-only for the life of the process.
type Set struct {
	topics     []Topic
	topicIDs   map[string]int
	sentiments []string
	sentiment  map[string]struct{}
}

// New builds a Set from the given topic table and sentiment labels.
func New(topics []Topic, sentiments []string) *Set {
	s := &Set{
		topics:     topics,
		topicIDs:   make(map[string]int, len(topics)),
		sentiments: sentiments,
		sentiment:  make(map[string]struct{}, len(sentiments)),
	}
	for _, t := range topics {
		s.topicIDs[t.Name] = t.ID
	}
	for _, l := range sentiments {
		s.sentiment[l] = struct{}{}
	}
	return s
}

// Topics returns the locked topic table in id order.
func (s *Set) Topics() []Topic {
	return s.topics
}

// TopicNames returns the topic names in table order, for embedding in the
// classification prompt.
func (s *Set) TopicNames() []string {
	names := make([]string, len(s.topics))
	for i, t := range s.topics {
		names[i] = t.Name
	}
	return names
}

// Sentiments returns the locked sentiment labels in order.
func (s *Set) Sentiments() []string {
	return s.sentiments
}

// TopicID looks up the id for an exact topic name.
func (s *Set) TopicID(name string) (int, bool) {
	id, ok := s.topicIDs[name]
	return id, ok
}

// HasTopic reports whether name is exactly one of the locked topic names.
func (s *Set) HasTopic(name string) bool {
	_, ok := s.topicIDs[name]
	return ok
}

// HasSentiment reports whether label is exactly one of the locked sentiment
// labels.
func (s *Set) HasSentiment(label string) bool {
	_, ok := s.sentiment[label]
	return ok
}

// Fallback returns the full fallback topic entry.
func (s *Set) Fallback() Topic {
	id := s.topicIDs[FallbackTopic]
	return Topic{ID: id, Name: FallbackTopic}
}
