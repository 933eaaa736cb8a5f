// Package docmodel defines the document collection model shared by the
// parsers and the analysis pipeline: documents, their ordered sections,
// and the serialized analysis result.
package docmodel

import (
	"encoding/json"
	"fmt"
	"strings"
)

// HeadingLevel is the structural depth of a section.
type HeadingLevel int

const (
	LevelParagraph HeadingLevel = iota
	LevelH3
	LevelH2
	LevelH1
	LevelTitle
)

func (l HeadingLevel) String() string {
	switch l {
	case LevelTitle:
		return "title"
	case LevelH1:
		return "H1"
	case LevelH2:
		return "H2"
	case LevelH3:
		return "H3"
	default:
		return "paragraph"
	}
}

// ParseHeadingLevel converts the wire form back into a HeadingLevel.
func ParseHeadingLevel(s string) (HeadingLevel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "title":
		return LevelTitle, nil
	case "h1":
		return LevelH1, nil
	case "h2":
		return LevelH2, nil
	case "h3":
		return LevelH3, nil
	case "paragraph", "content", "":
		return LevelParagraph, nil
	default:
		return LevelParagraph, fmt.Errorf("unknown heading level: %q", s)
	}
}

func (l HeadingLevel) MarshalJSON() ([]byte, error) {
	return json.Marshal(l.String())
}

func (l *HeadingLevel) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	lvl, err := ParseHeadingLevel(s)
	if err != nil {
		return err
	}
	*l = lvl
	return nil
}

// Section is one structural unit of a document. Position indices are
// 0-based and strictly increasing within a document.
type Section struct {
	Document string       `json:"-"` // owning document filename (back reference)
	Heading  string       `json:"section_title"`
	Level    HeadingLevel `json:"heading_level"`
	Page     int          `json:"page_number"`
	Text     string       `json:"text"`
	Position int          `json:"-"`
}

// Document is an ordered sequence of sections from one source file.
type Document struct {
	Filename string    `json:"filename"`
	Title    string    `json:"title,omitempty"`
	Sections []Section `json:"sections,omitempty"`
}

// AppendSection adds a section, assigning its back reference and position.
// Untitled paragraph sections get a synthesized heading so every ranked
// entry carries a usable section_title.
func (d *Document) AppendSection(heading string, level HeadingLevel, page int, text string) {
	if page < 1 {
		page = 1
	}
	pos := len(d.Sections)
	if heading == "" && level == LevelParagraph {
		heading = fmt.Sprintf("Content Block %d-%d", page, pos)
	}
	d.Sections = append(d.Sections, Section{
		Document: d.Filename,
		Heading:  heading,
		Level:    level,
		Page:     page,
		Text:     text,
		Position: pos,
	})
}

// Normalize repairs back references and positions after a document was
// decoded from JSON rather than built through AppendSection.
func (d *Document) Normalize() {
	for i := range d.Sections {
		d.Sections[i].Document = d.Filename
		d.Sections[i].Position = i
		if d.Sections[i].Page < 1 {
			d.Sections[i].Page = 1
		}
		if d.Sections[i].Heading == "" && d.Sections[i].Level == LevelParagraph {
			d.Sections[i].Heading = fmt.Sprintf("Content Block %d-%d", d.Sections[i].Page, i)
		}
	}
}

// InputError marks a malformed or empty document collection. It is fatal:
// the pipeline aborts before any scoring.
type InputError struct {
	Reason string
}

func (e *InputError) Error() string {
	return "input: " + e.Reason
}

func inputErrorf(format string, args ...any) *InputError {
	return &InputError{Reason: fmt.Sprintf(format, args...)}
}

// ValidateCollection checks the structural invariants of an input
// collection: non-empty, filenames present, positions unique and
// increasing, page numbers at least 1.
func ValidateCollection(docs []Document) error {
	if len(docs) == 0 {
		return inputErrorf("document collection is empty")
	}
	seen := make(map[string]bool, len(docs))
	for di, doc := range docs {
		if strings.TrimSpace(doc.Filename) == "" {
			return inputErrorf("document %d has no filename", di)
		}
		if seen[doc.Filename] {
			return inputErrorf("duplicate document filename: %s", doc.Filename)
		}
		seen[doc.Filename] = true
		for si, sec := range doc.Sections {
			if sec.Position != si {
				return inputErrorf("%s: section %d has position %d", doc.Filename, si, sec.Position)
			}
			if sec.Page < 1 {
				return inputErrorf("%s: section %d has page %d", doc.Filename, si, sec.Page)
			}
		}
	}
	return nil
}

// SectionCount returns the total number of sections across the collection.
func SectionCount(docs []Document) int {
	n := 0
	for _, d := range docs {
		n += len(d.Sections)
	}
	return n
}

// SectionKey identifies a section across the collection, used as the
// vector cache key.
func SectionKey(s *Section) string {
	return fmt.Sprintf("%s#%d", s.Document, s.Position)
}
