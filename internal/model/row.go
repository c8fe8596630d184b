package model

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// MetaField is one passthrough column carried from the input CSV.
// Fields keep the order the columns were configured in.
type MetaField struct {
	Name  string
	Value string
}

// Row is one non-empty message read from the input CSV. ID is the
// 1-based position among all data rows, so skipped empty rows leave
// gaps rather than renumbering what follows. Message holds the cell
// verbatim for the output files; Clean is the whitespace-trimmed (and
// optionally HTML-stripped) form the classifier sees.
type Row struct {
	ID      int
	Message string
	Clean   string
	Meta    []MetaField
}

// OutputRow pairs a row with its classification, or with the error
// that prevented one. Exactly one of Result and Err is set.
type OutputRow struct {
	Row    Row
	Result *Classification
	Err    string
}

// MarshalJSON emits the flat record shape the output files use:
// RowId, the meta fields in order, Message, then either the
// classification fields or an error string.
func (r OutputRow) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	write := func(key string, value interface{}) error {
		if buf.Len() > 1 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return err
		}
		v, err := json.Marshal(value)
		if err != nil {
			return fmt.Errorf("marshal %s: %w", key, err)
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
		return nil
	}

	if err := write("RowId", r.Row.ID); err != nil {
		return nil, err
	}
	for _, m := range r.Row.Meta {
		if err := write(m.Name, m.Value); err != nil {
			return nil, err
		}
	}
	if err := write("Message", r.Row.Message); err != nil {
		return nil, err
	}

	if r.Err != "" {
		if err := write("error", r.Err); err != nil {
			return nil, err
		}
		buf.WriteByte('}')
		return buf.Bytes(), nil
	}

	res := r.Result
	if res == nil {
		res = &Classification{}
	}
	fields := []struct {
		key   string
		value interface{}
	}{
		{"topic_id", res.TopicID},
		{"topic", res.Topic},
		{"subtopic", res.Subtopic},
		{"confidence", res.Confidence},
		{"rationale", res.Rationale},
		{"newSentiment", res.NewSentiment},
		{"newSentimentConfidence", res.NewSentimentConfidence},
	}
	for _, f := range fields {
		if err := write(f.key, f.value); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
