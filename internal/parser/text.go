package parser

import (
	"bufio"
	"io"
	"strings"

	"docsift/internal/docmodel"
)

// TextParser handles plain text files. Blank lines delimit paragraphs;
// each paragraph becomes its own section.
type TextParser struct{}

func (p *TextParser) Parse(r io.Reader, filename string) (*docmodel.Document, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	b := newDocBuilder(filename, "")
	var current strings.Builder

	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			if current.Len() > 0 {
				b.AddText(current.String(), 1)
				current.Reset()
			}
		} else {
			if current.Len() > 0 {
				current.WriteString("\n")
			}
			current.WriteString(line)
		}
	}
	if current.Len() > 0 {
		b.AddText(current.String(), 1)
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return b.Done(), nil
}
