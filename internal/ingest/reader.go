// Package ingest reads classification input from CSV exports.
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/theglowcode/ai-nyr-analysis/internal/model"
	"github.com/theglowcode/ai-nyr-analysis/internal/text"
)

// Input is the parsed content of one input file.
type Input struct {
	// Rows holds the non-empty messages in file order.
	Rows []model.Row
	// MetaColumns are the configured passthrough columns actually
	// present in the header, in configured order.
	MetaColumns []string
}

// Reader reads message rows from a CSV export.
type Reader struct {
	textColumn  string
	metaColumns []string
	stripHTML   bool
	limit       int
}

// NewReader creates a reader for the given input configuration.
func NewReader(cfg model.InputConfig) *Reader {
	textCol := cfg.TextColumn
	if textCol == "" {
		textCol = "Message"
	}
	return &Reader{
		textColumn:  textCol,
		metaColumns: cfg.MetaColumns,
		stripHTML:   cfg.StripHTML,
		limit:       cfg.Limit,
	}
}

// Read parses the file at path. Row ids are assigned by position among
// all data rows before empty ones are dropped, so output ids keep gaps
// where blank messages sat in the input. A missing file or a header
// without the text column is an error; a row whose meta cell is empty
// just omits that field.
func (r *Reader) Read(path string) (*Input, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	defer f.Close()

	cr := csv.NewReader(f)

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\uFEFF")
	}

	textIdx := -1
	for i, col := range header {
		if col == r.textColumn {
			textIdx = i
			break
		}
	}
	if textIdx == -1 {
		return nil, fmt.Errorf("input must contain a %q column, found: %s",
			r.textColumn, strings.Join(header, ", "))
	}

	type metaIndex struct {
		name string
		idx  int
	}
	var metas []metaIndex
	var metaCols []string
	for _, name := range r.metaColumns {
		for i, col := range header {
			if col == name {
				metas = append(metas, metaIndex{name: name, idx: i})
				metaCols = append(metaCols, name)
				break
			}
		}
	}

	in := &Input{MetaColumns: metaCols}
	rowID := 0
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", rowID+1, err)
		}
		rowID++

		raw := record[textIdx]
		clean := strings.TrimSpace(raw)
		if clean == "" {
			continue
		}
		if r.stripHTML {
			clean = strings.TrimSpace(text.StripHTML(clean))
			if clean == "" {
				continue
			}
		}

		row := model.Row{ID: rowID, Message: raw, Clean: clean}
		for _, m := range metas {
			if val := record[m.idx]; val != "" {
				row.Meta = append(row.Meta, model.MetaField{Name: m.name, Value: val})
			}
		}
		in.Rows = append(in.Rows, row)

		if r.limit > 0 && len(in.Rows) >= r.limit {
			break
		}
	}

	return in, nil
}
