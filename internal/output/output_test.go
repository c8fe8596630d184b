package output

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/theglowcode/ai-nyr-analysis/internal/model"
	"github.com/theglowcode/ai-nyr-analysis/internal/taxonomy"
)

func sampleRows() []model.OutputRow {
	sub := "running"
	return []model.OutputRow{
		{
			Row: model.Row{
				ID:      1,
				Message: "run a 5k",
				Meta:    []model.MetaField{{Name: "Country", Value: "US"}},
			},
			Result: &model.Classification{
				TopicID:                2,
				Topic:                  "Fitness & Physical Activity",
				Subtopic:               &sub,
				Confidence:             0.9,
				Rationale:              "explicit fitness goal",
				NewSentiment:           "Positive",
				NewSentimentConfidence: 0.8,
			},
		},
		{
			Row: model.Row{ID: 3, Message: "???"},
			Err: "LLM failed after 5 attempts: boom",
		},
	}
}

func TestJSONLWriter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "topics.jsonl")

	w, err := NewJSONLWriter(path)
	if err != nil {
		t.Fatalf("NewJSONLWriter failed: %v", err)
	}
	for _, row := range sampleRows() {
		if err := w.Write(row); err != nil {
			t.Fatalf("Write failed: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("lines = %d, want 2", len(lines))
	}

	var first map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &first); err != nil {
		t.Fatalf("line 1 is not valid JSON: %v", err)
	}
	if first["RowId"] != 1.0 || first["topic"] != "Fitness & Physical Activity" {
		t.Errorf("line 1 = %v", first)
	}

	var second map[string]any
	if err := json.Unmarshal([]byte(lines[1]), &second); err != nil {
		t.Fatalf("line 2 is not valid JSON: %v", err)
	}
	if second["error"] != "LLM failed after 5 attempts: boom" {
		t.Errorf("line 2 = %v", second)
	}
	if _, ok := second["topic"]; ok {
		t.Error("error rows should not carry classification fields")
	}
}

func TestWriteResults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "topics.csv")
	metaCols := []string{"Country", "City"}

	if err := WriteResults(path, metaCols, sampleRows()); err != nil {
		t.Fatalf("WriteResults failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if !strings.HasPrefix(string(data), utf8BOM) {
		t.Error("csv should start with a UTF-8 BOM")
	}

	r := csv.NewReader(strings.NewReader(strings.TrimPrefix(string(data), utf8BOM)))
	records, err := r.ReadAll()
	if err != nil {
		t.Fatalf("parse output: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("records = %d, want header + 2 rows", len(records))
	}

	// City never carries a value, so the column is dropped.
	wantHeader := []string{"RowId", "Country", "Message", "topic_id", "topic", "subtopic",
		"confidence", "rationale", "newSentiment", "newSentimentConfidence", "error"}
	if strings.Join(records[0], "|") != strings.Join(wantHeader, "|") {
		t.Errorf("header = %v, want %v", records[0], wantHeader)
	}

	got := records[1]
	if got[0] != "1" || got[1] != "US" || got[2] != "run a 5k" {
		t.Errorf("row 1 = %v", got)
	}
	if got[3] != "2" || got[6] != "0.9" || got[9] != "0.8" {
		t.Errorf("row 1 numbers = %v", got)
	}
	if got[10] != "" {
		t.Errorf("row 1 error cell = %q, want empty", got[10])
	}

	got = records[2]
	if got[0] != "3" || got[1] != "" {
		t.Errorf("row 2 = %v", got)
	}
	if got[3] != "" || got[4] != "" {
		t.Errorf("error row should leave classification cells empty: %v", got)
	}
	if got[10] != "LLM failed after 5 attempts: boom" {
		t.Errorf("row 2 error = %q", got[10])
	}
}

func TestWriteResults_NoErrorsDropsErrorColumn(t *testing.T) {
	path := filepath.Join(t.TempDir(), "topics.csv")
	rows := sampleRows()[:1]

	if err := WriteResults(path, []string{"Country"}, rows); err != nil {
		t.Fatalf("WriteResults failed: %v", err)
	}

	data, _ := os.ReadFile(path)
	r := csv.NewReader(strings.NewReader(strings.TrimPrefix(string(data), utf8BOM)))
	records, err := r.ReadAll()
	if err != nil {
		t.Fatalf("parse output: %v", err)
	}
	header := records[0]
	if header[len(header)-1] == "error" {
		t.Error("clean runs should not emit an error column")
	}
}

func TestWriteTopicLookup(t *testing.T) {
	path := filepath.Join(t.TempDir(), "topic_lookup.csv")

	if err := WriteTopicLookup(path, taxonomy.Default()); err != nil {
		t.Fatalf("WriteTopicLookup failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if !strings.HasPrefix(string(data), utf8BOM) {
		t.Error("lookup should start with a UTF-8 BOM")
	}

	r := csv.NewReader(strings.NewReader(strings.TrimPrefix(string(data), utf8BOM)))
	records, err := r.ReadAll()
	if err != nil {
		t.Fatalf("parse output: %v", err)
	}
	if len(records) != 16 {
		t.Fatalf("records = %d, want header + 15 topics", len(records))
	}
	if records[0][0] != "topic_id" || records[0][1] != "topic" {
		t.Errorf("header = %v", records[0])
	}
	if records[1][0] != "1" || records[1][1] != "Health & Wellness" {
		t.Errorf("first topic = %v", records[1])
	}
	if records[15][0] != "15" || records[15][1] != "Other / Unclear" {
		t.Errorf("last topic = %v", records[15])
	}
}

func TestWriteManifest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run_manifest.json")
	started := time.Date(2026, 1, 2, 10, 0, 0, 0, time.UTC)

	m := RunManifest{
		RunID:      "e2b0a3f0-0000-0000-0000-000000000000",
		Provider:   "openai",
		Model:      "gpt-5-mini",
		Input:      "input.csv",
		StartedAt:  started,
		FinishedAt: started.Add(time.Minute),
		Rows:       10,
		Succeeded:  9,
		Failed:     1,
		CacheHits:  2,
		Artifacts:  []string{"topics.jsonl", "topics.csv", "topic_lookup.csv"},
	}
	if err := WriteManifest(path, m); err != nil {
		t.Fatalf("WriteManifest failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read manifest: %v", err)
	}
	var got RunManifest
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("parse manifest: %v", err)
	}
	if got.RunID != m.RunID || got.Rows != 10 || got.Failed != 1 {
		t.Errorf("manifest round trip = %+v", got)
	}
	if !strings.Contains(string(data), "\n  \"run_id\"") {
		t.Error("manifest should be indented")
	}
}
