package parser

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// CSVParser handles CSV files, rendering rows as "header: value" lines so
// the model can answer questions about tabular content.
type CSVParser struct{}

func (p *CSVParser) Parse(r io.Reader, filename string) (*Document, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}

	if len(records) == 0 {
		return &Document{Pages: 1}, nil
	}

	// First row is headers.
	headers := records[0]

	var text strings.Builder
	text.WriteString("Headers: " + strings.Join(headers, ", "))
	for _, row := range records[1:] {
		text.WriteString("\n")
		for j, cell := range row {
			if j < len(headers) {
				text.WriteString(headers[j] + ": " + cell)
			} else {
				text.WriteString(cell)
			}
			if j < len(row)-1 {
				text.WriteString(", ")
			}
		}
	}

	return &Document{
		Text:  text.String(),
		Pages: 1,
	}, nil
}
