package parser

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"
)

func init() {
	Register(&CSVParser{})
}

// CSVParser handles comma-separated files. Each data row becomes its own
// record with "header: value" lines, so row-level content stays searchable
// on its own.
type CSVParser struct{}

var _ Parser = (*CSVParser)(nil)

func (p *CSVParser) Extensions() []string {
	return []string{".csv"}
}

func (p *CSVParser) Parse(path string, data []byte) ([]Parsed, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv %s: %w", path, err)
	}

	if len(records) == 0 {
		return nil, nil
	}
	if len(records) == 1 {
		return []Parsed{{Text: strings.Join(records[0], ", ")}}, nil
	}

	header := records[0]
	parsed := make([]Parsed, 0, len(records)-1)
	for rowNum, row := range records[1:] {
		var lines []string
		for i, field := range row {
			if i < len(header) {
				lines = append(lines, header[i]+": "+field)
			} else {
				lines = append(lines, field)
			}
		}
		parsed = append(parsed, Parsed{
			Text:     strings.Join(lines, "\n"),
			Metadata: map[string]any{"row": rowNum + 1},
		})
	}
	return parsed, nil
}
