package output

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/theglowcode/ai-nyr-analysis/internal/taxonomy"
)

// WriteTopicLookup writes the locked topic table so analysts can join
// topic_id back to names in a spreadsheet.
func WriteTopicLookup(path string, tax *taxonomy.Set) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create lookup output: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(utf8BOM); err != nil {
		return fmt.Errorf("write BOM: %w", err)
	}

	w := csv.NewWriter(f)
	if err := w.Write([]string{"topic_id", "topic"}); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, topic := range tax.Topics() {
		if err := w.Write([]string{strconv.Itoa(topic.ID), topic.Name}); err != nil {
			return fmt.Errorf("write topic %d: %w", topic.ID, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush lookup output: %w", err)
	}
	return f.Close()
}
