// Package parser converts raw document bytes into the flat, ordered
// section lists the analysis pipeline consumes. Each parser assigns
// heading levels from document structure, page numbers where the format
// has them, and sequential position indices.
package parser

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"docsift/internal/docmodel"
)

// Parser converts raw document bytes into a Document.
type Parser interface {
	Parse(r io.Reader, filename string) (*docmodel.Document, error)
}

// SupportedExtensions lists file extensions this service can handle.
var SupportedExtensions = map[string]bool{
	".txt":      true,
	".md":       true,
	".markdown": true,
	".csv":      true,
	".html":     true,
	".htm":      true,
	".pdf":      true,
	".docx":     true,
}

// ForFile returns the appropriate parser for a filename.
func ForFile(filename string) (Parser, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".txt":
		return &TextParser{}, nil
	case ".md", ".markdown":
		return &MarkdownParser{}, nil
	case ".csv":
		return &CSVParser{}, nil
	case ".html", ".htm":
		return &HTMLParser{}, nil
	case ".pdf":
		return &PDFParser{}, nil
	case ".docx":
		return &DOCXParser{}, nil
	default:
		return nil, fmt.Errorf("unsupported file extension: %s", ext)
	}
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return SupportedExtensions[ext]
}

// levelFor maps a structural heading depth (1-based) to a HeadingLevel.
// Depths beyond three collapse into H3.
func levelFor(depth int) docmodel.HeadingLevel {
	switch depth {
	case 1:
		return docmodel.LevelH1
	case 2:
		return docmodel.LevelH2
	default:
		return docmodel.LevelH3
	}
}

// titleFromFilename strips the extension for use as a fallback title.
func titleFromFilename(filename string) string {
	return strings.TrimSuffix(filename, filepath.Ext(filename))
}
