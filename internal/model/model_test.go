package model

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Input.TextColumn != "Message" {
		t.Errorf("TextColumn = %q, want Message", cfg.Input.TextColumn)
	}
	if len(cfg.Input.MetaColumns) != 6 {
		t.Errorf("MetaColumns count = %d, want 6", len(cfg.Input.MetaColumns))
	}
	if cfg.Input.MaxChars != 2000 {
		t.Errorf("MaxChars = %d, want 2000", cfg.Input.MaxChars)
	}
	if cfg.LLM.Provider != "openai" {
		t.Errorf("Provider = %q, want openai", cfg.LLM.Provider)
	}
	if cfg.LLM.Model != "gpt-5-mini" {
		t.Errorf("Model = %q, want gpt-5-mini", cfg.LLM.Model)
	}
	if cfg.Retry.MaxAttempts != 5 {
		t.Errorf("MaxAttempts = %d, want 5", cfg.Retry.MaxAttempts)
	}
	if cfg.Retry.BaseDelay.Std() != time.Second {
		t.Errorf("BaseDelay = %v, want 1s", cfg.Retry.BaseDelay)
	}
	if cfg.RateLimit.CallInterval.Std() != 200*time.Millisecond {
		t.Errorf("CallInterval = %v, want 200ms", cfg.RateLimit.CallInterval)
	}
	if !cfg.Cache.Enabled {
		t.Error("cache should be enabled by default")
	}
	if cfg.Output.JSONLPath != "topics.jsonl" {
		t.Errorf("JSONLPath = %q, want topics.jsonl", cfg.Output.JSONLPath)
	}
	if cfg.Output.CSVPath != "topics.csv" {
		t.Errorf("CSVPath = %q, want topics.csv", cfg.Output.CSVPath)
	}
	if cfg.Output.LookupPath != "topic_lookup.csv" {
		t.Errorf("LookupPath = %q, want topic_lookup.csv", cfg.Output.LookupPath)
	}
}

func TestDurationYAML(t *testing.T) {
	out, err := yaml.Marshal(Duration(200 * time.Millisecond))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if got := strings.TrimSpace(string(out)); got != "200ms" {
		t.Errorf("marshaled duration = %q, want 200ms", got)
	}

	var d Duration
	if err := yaml.Unmarshal([]byte("1m30s"), &d); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if d.Std() != 90*time.Second {
		t.Errorf("parsed duration = %v, want 1m30s", d)
	}

	if err := yaml.Unmarshal([]byte("not-a-duration"), &d); err == nil {
		t.Error("expected error for malformed duration")
	}
}

func TestOutputRowMarshalOrder(t *testing.T) {
	sub := "running"
	row := OutputRow{
		Row: Row{
			ID:      3,
			Message: "new year new me",
			Meta: []MetaField{
				{Name: "Country", Value: "US"},
				{Name: "City", Value: "Austin"},
			},
		},
		Result: &Classification{
			TopicID:                2,
			Topic:                  "Fitness & Physical Activity",
			Subtopic:               &sub,
			Confidence:             0.9,
			Rationale:              "mentions a running goal",
			NewSentiment:           "Positive",
			NewSentimentConfidence: 0.8,
		},
	}

	out, err := json.Marshal(row)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"RowId":3,"Country":"US","City":"Austin","Message":"new year new me",` +
		`"topic_id":2,"topic":"Fitness & Physical Activity","subtopic":"running",` +
		`"confidence":0.9,"rationale":"mentions a running goal",` +
		`"newSentiment":"Positive","newSentimentConfidence":0.8}`
	if string(out) != want {
		t.Errorf("marshaled row:\n got %s\nwant %s", out, want)
	}
}

func TestOutputRowMarshalNullSubtopic(t *testing.T) {
	row := OutputRow{
		Row: Row{ID: 1, Message: "hello"},
		Result: &Classification{
			TopicID:      15,
			Topic:        "Other / Unclear",
			NewSentiment: "Unclear",
		},
	}
	out, err := json.Marshal(row)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(out), `"subtopic":null`) {
		t.Errorf("nil subtopic should marshal as null, got %s", out)
	}
	if !strings.Contains(string(out), `"confidence":0`) {
		t.Errorf("zero confidence should still be present, got %s", out)
	}
}

func TestOutputRowMarshalError(t *testing.T) {
	row := OutputRow{
		Row: Row{ID: 7, Message: "???"},
		Err: "LLM failed after 5 attempts: boom",
	}
	out, err := json.Marshal(row)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"RowId":7,"Message":"???","error":"LLM failed after 5 attempts: boom"}`
	if string(out) != want {
		t.Errorf("marshaled error row:\n got %s\nwant %s", out, want)
	}
	if strings.Contains(string(out), "topic_id") {
		t.Error("error rows must not carry classification fields")
	}
}
