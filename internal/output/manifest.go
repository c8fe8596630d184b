package output

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// RunManifest records what one run processed and produced.
type RunManifest struct {
	RunID      string    `json:"run_id"`
	Provider   string    `json:"provider"`
	Model      string    `json:"model"`
	Input      string    `json:"input"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Rows       int       `json:"rows"`
	Succeeded  int       `json:"succeeded"`
	Failed     int       `json:"failed"`
	CacheHits  int       `json:"cache_hits"`
	Artifacts  []string  `json:"artifacts"`
}

// WriteManifest writes the manifest as indented JSON.
func WriteManifest(path string, m RunManifest) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create manifest: %w", err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(m); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	return f.Close()
}
