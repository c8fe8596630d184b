// Package output writes run artifacts: the JSONL stream, the flat
// results CSV, the topic lookup table and the run manifest.
package output

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"

	"github.com/theglowcode/ai-nyr-analysis/internal/model"
)

// JSONLWriter streams one JSON record per line, flushing per record so
// an interrupted run keeps everything already classified.
type JSONLWriter struct {
	f *os.File
	w *bufio.Writer
}

// NewJSONLWriter creates the output file, truncating any previous run.
func NewJSONLWriter(path string) (*JSONLWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create jsonl output: %w", err)
	}
	return &JSONLWriter{f: f, w: bufio.NewWriter(f)}, nil
}

// Write appends one record as a single line.
func (w *JSONLWriter) Write(row model.OutputRow) error {
	b, err := json.Marshal(row)
	if err != nil {
		return fmt.Errorf("marshal row %d: %w", row.Row.ID, err)
	}
	if _, err := w.w.Write(b); err != nil {
		return err
	}
	if err := w.w.WriteByte('\n'); err != nil {
		return err
	}
	return w.w.Flush()
}

// Close flushes buffered records and closes the file.
func (w *JSONLWriter) Close() error {
	if err := w.w.Flush(); err != nil {
		_ = w.f.Close()
		return err
	}
	return w.f.Close()
}
