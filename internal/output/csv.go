package output

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/theglowcode/ai-nyr-analysis/internal/model"
)

// utf8BOM keeps spreadsheet tools from mangling non-ASCII text.
const utf8BOM = "\uFEFF"

// WriteResults writes the flat CSV rendition of a run. Meta columns
// appear in configured order but only when at least one row carries a
// value; the error column likewise shows up only on runs that had
// failures.
func WriteResults(path string, metaColumns []string, rows []model.OutputRow) error {
	seen := make(map[string]bool)
	hasErrors := false
	for _, row := range rows {
		for _, m := range row.Row.Meta {
			seen[m.Name] = true
		}
		if row.Err != "" {
			hasErrors = true
		}
	}
	var metaCols []string
	for _, name := range metaColumns {
		if seen[name] {
			metaCols = append(metaCols, name)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv output: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(utf8BOM); err != nil {
		return fmt.Errorf("write BOM: %w", err)
	}

	w := csv.NewWriter(f)

	header := append([]string{"RowId"}, metaCols...)
	header = append(header, "Message",
		"topic_id", "topic", "subtopic", "confidence",
		"rationale", "newSentiment", "newSentimentConfidence")
	if hasErrors {
		header = append(header, "error")
	}
	if err := w.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, row := range rows {
		record := []string{strconv.Itoa(row.Row.ID)}

		metaByName := make(map[string]string, len(row.Row.Meta))
		for _, m := range row.Row.Meta {
			metaByName[m.Name] = m.Value
		}
		for _, name := range metaCols {
			record = append(record, metaByName[name])
		}

		record = append(record, row.Row.Message)

		if row.Result != nil {
			res := row.Result
			subtopic := ""
			if res.Subtopic != nil {
				subtopic = *res.Subtopic
			}
			record = append(record,
				strconv.Itoa(res.TopicID),
				res.Topic,
				subtopic,
				formatFloat(res.Confidence),
				res.Rationale,
				res.NewSentiment,
				formatFloat(res.NewSentimentConfidence),
			)
		} else {
			record = append(record, "", "", "", "", "", "", "")
		}

		if hasErrors {
			record = append(record, row.Err)
		}

		if err := w.Write(record); err != nil {
			return fmt.Errorf("write row %d: %w", row.Row.ID, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush csv output: %w", err)
	}
	return f.Close()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
