package parser

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"regexp"
	"strings"
	"unicode"

	pdflib "github.com/ledongthuc/pdf"

	"docsift/internal/docmodel"
)

// PDFParser handles PDF files. It tries the Go library first, then
// falls back to pdftotext if available. PDFs carry no explicit
// structure, so heading levels come from line-shape heuristics.
type PDFParser struct {
	FallbackPdftotext bool
}

var (
	numberedSubheading = regexp.MustCompile(`^\d+\.\d+`)
	numberedHeading    = regexp.MustCompile(`^\d+\.\s`)
)

func (p *PDFParser) Parse(r io.Reader, filename string) (*docmodel.Document, error) {
	// ledongthuc/pdf requires a ReadSeeker+size, so we write to a temp file.
	tmp, err := os.CreateTemp("", "docsift-pdf-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	tmp.Close()

	pages, err := extractPDFPages(tmpPath)
	if err != nil && p.FallbackPdftotext {
		pages, err = extractPdftotext(tmpPath)
	}
	if err != nil {
		return nil, fmt.Errorf("extract pdf text: %w", err)
	}

	b := newDocBuilder(filename, "")
	var current strings.Builder

	flushPara := func(page int) {
		if current.Len() > 0 {
			b.AddText(current.String(), page)
			current.Reset()
		}
	}

	for i, page := range pages {
		pageNum := i + 1
		for _, line := range strings.Split(page, "\n") {
			trimmed := strings.TrimSpace(line)
			if trimmed == "" {
				flushPara(pageNum)
				continue
			}
			if level := pdfHeadingLevel(trimmed); level > 0 {
				flushPara(pageNum)
				b.StartSection(trimmed, level, pageNum)
				continue
			}
			if current.Len() > 0 {
				current.WriteString("\n")
			}
			current.WriteString(trimmed)
		}
		flushPara(pageNum)
	}

	return b.Done(), nil
}

// pdfHeadingLevel classifies a line as a heading by shape: short
// all-caps lines read as top-level headings, "1." numbering as second
// level, "1.1" numbering as third. Returns 0 for body text.
func pdfHeadingLevel(line string) int {
	if len(line) > 80 {
		return 0
	}
	if numberedSubheading.MatchString(line) {
		return 3
	}
	if numberedHeading.MatchString(line) {
		return 2
	}
	if len(line) <= 60 && isAllCaps(line) {
		return 1
	}
	return 0
}

func isAllCaps(s string) bool {
	letters := 0
	for _, r := range s {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsUpper(r) {
			letters++
		}
	}
	return letters >= 3
}

func extractPDFPages(path string) ([]string, error) {
	f, reader, err := pdflib.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var pages []string
	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			pages = append(pages, "")
			continue
		}
		pages = append(pages, text)
	}
	return pages, nil
}

func extractPdftotext(path string) ([]string, error) {
	cmd := exec.Command("pdftotext", "-layout", path, "-")
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("pdftotext: %w", err)
	}
	// pdftotext emits form feeds between pages.
	return strings.Split(string(out), "\f"), nil
}
