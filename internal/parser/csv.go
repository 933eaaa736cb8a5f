package parser

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"docsift/internal/docmodel"
)

// CSVParser handles CSV files. Data rows are grouped into batches so
// large tables yield a manageable number of sections.
type CSVParser struct{}

func (p *CSVParser) Parse(r io.Reader, filename string) (*docmodel.Document, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}

	doc := &docmodel.Document{
		Filename: filename,
		Title:    titleFromFilename(filename),
	}
	if len(records) == 0 {
		return doc, nil
	}

	// First row is headers.
	headers := records[0]

	const batchSize = 20
	dataRows := records[1:]

	for i := 0; i < len(dataRows); i += batchSize {
		end := i + batchSize
		if end > len(dataRows) {
			end = len(dataRows)
		}
		batch := dataRows[i:end]

		var text strings.Builder
		text.WriteString("Headers: " + strings.Join(headers, ", ") + "\n\n")
		for _, row := range batch {
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

		// 1-indexed row labels, skipping the header row.
		heading := fmt.Sprintf("Rows %d-%d", i+2, end+1)
		doc.AppendSection(heading, docmodel.LevelParagraph, 1, text.String())
	}

	return doc, nil
}
