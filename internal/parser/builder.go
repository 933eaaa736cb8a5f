package parser

import (
	"strings"

	"docsift/internal/docmodel"
)

// docBuilder accumulates parsed content into a Document. Headings open
// a new section that collects the text that follows; text outside any
// heading is emitted as standalone paragraph sections.
type docBuilder struct {
	doc     *docmodel.Document
	heading string
	level   docmodel.HeadingLevel
	page    int
	text    strings.Builder
	open    bool
}

// newDocBuilder starts a document. A non-empty title becomes the
// leading title-level section.
func newDocBuilder(filename, title string) *docBuilder {
	b := &docBuilder{
		doc: &docmodel.Document{Filename: filename, Title: title},
	}
	if title != "" {
		b.doc.AppendSection(title, docmodel.LevelTitle, 1, title)
	}
	return b
}

// StartSection closes any open section and opens a new one at the given
// structural depth.
func (b *docBuilder) StartSection(heading string, depth, page int) {
	b.flush()
	b.heading = heading
	b.level = levelFor(depth)
	b.page = page
	b.open = true
}

// AddText appends text to the open section, or emits it as a paragraph
// section when no heading is open.
func (b *docBuilder) AddText(text string, page int) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	if b.open {
		if b.text.Len() > 0 {
			b.text.WriteString("\n\n")
		}
		b.text.WriteString(text)
		return
	}
	b.doc.AppendSection("", docmodel.LevelParagraph, page, text)
}

func (b *docBuilder) flush() {
	if !b.open {
		return
	}
	b.doc.AppendSection(b.heading, b.level, b.page, b.text.String())
	b.text.Reset()
	b.open = false
}

// Done closes the last section and returns the finished document.
func (b *docBuilder) Done() *docmodel.Document {
	b.flush()
	if b.doc.Title == "" {
		b.doc.Title = titleFromFilename(b.doc.Filename)
	}
	return b.doc
}
