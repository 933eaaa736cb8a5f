// Package refine produces a shorter representative excerpt for each
// top-ranked section.
package refine

import (
	"sort"
	"strings"

	"docsift/internal/docmodel"
	"docsift/internal/scoring"
	"docsift/internal/semantic"
)

// Extractor scores sentence chunks with a reduced scorer (semantic
// similarity + persona alignment, re-weighted to sum to 1) and selects
// greedily up to a length budget.
type Extractor struct {
	matcher     *semantic.Matcher
	scorer      *scoring.Scorer
	maxLen      int
	simWeight   float64
	alignWeight float64
}

// NewExtractor derives the reduced chunk-scorer weights from the full
// weight table, so an overridden semantic_similarity carries through.
func NewExtractor(matcher *semantic.Matcher, scorer *scoring.Scorer, maxLen int) *Extractor {
	if maxLen <= 0 {
		maxLen = 500
	}
	w := scorer.Weights()
	sim := w[scoring.DimSemanticSimilarity]
	align := w[scoring.DimPersonaAlignment]
	total := sim + align
	if total == 0 {
		sim, align, total = 1, 1, 2
	}
	return &Extractor{
		matcher:     matcher,
		scorer:      scorer,
		maxLen:      maxLen,
		simWeight:   sim / total,
		alignWeight: align / total,
	}
}

// Refine returns the refined text for a section. Text already inside
// the budget passes through unchanged; a section with no extractable
// chunks yields an empty string rather than an error.
func (e *Extractor) Refine(sec *docmodel.Section) string {
	text := strings.TrimSpace(sec.Text)
	if text == "" {
		return ""
	}
	if len(text) <= e.maxLen {
		return text
	}

	chunks := splitChunks(text)
	if len(chunks) == 0 {
		return ""
	}

	type scoredChunk struct {
		chunk
		score float64
	}
	scored := make([]scoredChunk, len(chunks))
	for i, c := range chunks {
		scored[i] = scoredChunk{
			chunk: c,
			score: e.simWeight*e.matcher.Similarity(c.text) +
				e.alignWeight*e.scorer.PersonaAlignment(c.text),
		}
	}

	// Greedy by score, ties by original order.
	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].score != scored[j].score {
			return scored[i].score > scored[j].score
		}
		return scored[i].index < scored[j].index
	})

	var picked []chunk
	budget := e.maxLen
	for _, sc := range scored {
		cost := len(sc.text)
		if len(picked) > 0 {
			cost++ // joining space
		}
		if cost > budget {
			continue
		}
		picked = append(picked, sc.chunk)
		budget -= cost
	}
	if len(picked) == 0 {
		return ""
	}

	// Restore original position order for readability.
	sort.Slice(picked, func(i, j int) bool { return picked[i].index < picked[j].index })

	parts := make([]string, len(picked))
	for i, c := range picked {
		parts[i] = c.text
	}
	return strings.Join(parts, " ")
}

// MaxLen exposes the refined-text budget.
func (e *Extractor) MaxLen() int {
	return e.maxLen
}
