package loader

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// rowsPerPage groups data rows into manageable pages.
const rowsPerPage = 20

// CSVLoader handles CSV files.
type CSVLoader struct{}

func (l *CSVLoader) Load(r io.Reader, filename string) (*Document, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	if len(records) == 0 {
		return newDocument(filename, "csv", nil), nil
	}

	// First row is headers.
	headers := records[0]
	dataRows := records[1:]

	var pages []string
	for i := 0; i < len(dataRows); i += rowsPerPage {
		end := min(i+rowsPerPage, len(dataRows))

		var text strings.Builder
		text.WriteString("Headers: " + strings.Join(headers, ", ") + "\n\n")
		for _, row := range dataRows[i:end] {
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
			text.WriteString("\n")
		}
		pages = append(pages, text.String())
	}

	return newDocument(filename, "csv", pages), nil
}
