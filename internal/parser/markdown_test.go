package parser

import (
	"strings"
	"testing"

	"docsift/internal/docmodel"
)

func TestMarkdownParser_HeadingLevels(t *testing.T) {
	input := `# Title

Intro text.

## Section A

Section A content.

### Subsection A1

Subsection A1 content.

## Section B

Section B content.
`
	p := &MarkdownParser{}
	doc, err := p.Parse(strings.NewReader(input), "doc.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if doc.Title != "doc" {
		t.Errorf("expected title %q, got %q", "doc", doc.Title)
	}
	if len(doc.Sections) != 4 {
		t.Fatalf("expected 4 sections, got %d", len(doc.Sections))
	}

	want := []struct {
		heading string
		level   docmodel.HeadingLevel
		text    string
	}{
		{"Title", docmodel.LevelH1, "Intro text."},
		{"Section A", docmodel.LevelH2, "Section A content."},
		{"Subsection A1", docmodel.LevelH3, "Subsection A1 content."},
		{"Section B", docmodel.LevelH2, "Section B content."},
	}
	for i, w := range want {
		sec := doc.Sections[i]
		if sec.Heading != w.heading {
			t.Errorf("section[%d]: expected heading %q, got %q", i, w.heading, sec.Heading)
		}
		if sec.Level != w.level {
			t.Errorf("section[%d]: expected level %v, got %v", i, w.level, sec.Level)
		}
		if !strings.Contains(sec.Text, w.text) {
			t.Errorf("section[%d]: expected text to contain %q, got %q", i, w.text, sec.Text)
		}
		if sec.Position != i {
			t.Errorf("section[%d]: expected position %d, got %d", i, i, sec.Position)
		}
	}
}

func TestMarkdownParser_DeepHeadingsCollapseToH3(t *testing.T) {
	input := "#### Deep heading\n\nDeep content.\n"
	p := &MarkdownParser{}
	doc, err := p.Parse(strings.NewReader(input), "deep.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(doc.Sections) != 1 {
		t.Fatalf("expected 1 section, got %d", len(doc.Sections))
	}
	if doc.Sections[0].Level != docmodel.LevelH3 {
		t.Errorf("expected H3 for depth 4, got %v", doc.Sections[0].Level)
	}
}

func TestMarkdownParser_NoHeadings(t *testing.T) {
	input := "Just some plain text.\n\nAnother paragraph here."
	p := &MarkdownParser{}
	doc, err := p.Parse(strings.NewReader(input), "plain.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(doc.Sections) != 2 {
		t.Fatalf("expected 2 paragraph sections, got %d", len(doc.Sections))
	}
	for i, sec := range doc.Sections {
		if sec.Level != docmodel.LevelParagraph {
			t.Errorf("section[%d]: expected paragraph level, got %v", i, sec.Level)
		}
	}
}

func TestMarkdownParser_ListsStayWithTheirHeading(t *testing.T) {
	input := "## Packing\n\n- sunscreen\n- towels\n\nDone.\n"
	p := &MarkdownParser{}
	doc, err := p.Parse(strings.NewReader(input), "list.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(doc.Sections) != 1 {
		t.Fatalf("expected 1 section, got %d", len(doc.Sections))
	}
	text := doc.Sections[0].Text
	if !strings.Contains(text, "sunscreen") || !strings.Contains(text, "Done.") {
		t.Errorf("expected list and trailing text in section, got %q", text)
	}
}
