// Package semantic quantifies lexical similarity between document
// sections and a persona/task description. It builds a TF-IDF term space
// (unigrams and bigrams) over the whole collection, then measures cosine
// similarity against the query vector in that space.
package semantic

import (
	"math"
	"sort"
)

// Vector is a sparse TF-IDF vector with its precomputed L2 norm.
type Vector struct {
	Weights map[string]float64
	Norm    float64
}

// Empty reports whether the vector carries no terms.
func (v Vector) Empty() bool {
	return len(v.Weights) == 0 || v.Norm == 0
}

// Matcher holds the fitted term statistics and the query vector. Fit is
// a one-time barrier: inverse-document-frequency weights depend on the
// full corpus, so no similarity may be computed before Fit completes.
// After Fit the matcher is read-only and safe for concurrent use.
type Matcher struct {
	fitted bool
	idf    map[string]float64
	query  Vector
}

func NewMatcher() *Matcher {
	return &Matcher{idf: make(map[string]float64)}
}

// Fit computes corpus-wide document frequencies over every section text
// plus the query text, then vectorizes the query into the shared space.
// Smoothed IDF: ln((1+n)/(1+df)) + 1, so terms present in every document
// still carry weight 1.
func (m *Matcher) Fit(sectionTexts []string, queryText string) {
	df := make(map[string]int)
	n := 0
	countDoc := func(text string) {
		ts := terms(text)
		if len(ts) == 0 {
			return
		}
		n++
		seen := make(map[string]bool, len(ts))
		for _, t := range ts {
			if !seen[t] {
				seen[t] = true
				df[t]++
			}
		}
	}
	for _, text := range sectionTexts {
		countDoc(text)
	}
	countDoc(queryText)

	m.idf = make(map[string]float64, len(df))
	for term, count := range df {
		m.idf[term] = math.Log(float64(1+n)/float64(1+count)) + 1
	}
	m.query = m.vectorize(queryText)
	m.fitted = true
}

// Fitted reports whether Fit has run.
func (m *Matcher) Fitted() bool {
	return m.fitted
}

// Vectorize projects a text into the fitted term space. Terms unseen
// during Fit are dropped. An empty or all-stopword text yields an empty
// vector.
func (m *Matcher) Vectorize(text string) Vector {
	return m.vectorize(text)
}

func (m *Matcher) vectorize(text string) Vector {
	ts := terms(text)
	if len(ts) == 0 {
		return Vector{}
	}
	tf := make(map[string]int, len(ts))
	for _, t := range ts {
		tf[t]++
	}
	// Accumulate in sorted term order: float summation order must not
	// depend on map iteration, or identical texts get different norms
	// across runs.
	sorted := make([]string, 0, len(tf))
	for term := range tf {
		sorted = append(sorted, term)
	}
	sort.Strings(sorted)
	weights := make(map[string]float64, len(tf))
	var sumSq float64
	for _, term := range sorted {
		idf, ok := m.idf[term]
		if !ok {
			continue
		}
		w := float64(tf[term]) * idf
		weights[term] = w
		sumSq += w * w
	}
	if len(weights) == 0 {
		return Vector{}
	}
	return Vector{Weights: weights, Norm: math.Sqrt(sumSq)}
}

// Similarity returns the cosine similarity between a section text and
// the query, in [0,1]. A section with no extractable tokens yields 0
// rather than an error.
func (m *Matcher) Similarity(text string) float64 {
	return m.QuerySimilarity(m.vectorize(text))
}

// QuerySimilarity is Similarity for an already-computed vector.
func (m *Matcher) QuerySimilarity(v Vector) float64 {
	return Cosine(v, m.query)
}

// Cosine computes the cosine similarity of two sparse vectors, clamped
// to [0,1]. Either vector being empty yields 0.
func Cosine(a, b Vector) float64 {
	if a.Empty() || b.Empty() {
		return 0
	}
	// Iterate the smaller map, in sorted term order so the dot product
	// sums identically on every run.
	small, large := a, b
	if len(b.Weights) < len(a.Weights) {
		small, large = b, a
	}
	terms := make([]string, 0, len(small.Weights))
	for term := range small.Weights {
		terms = append(terms, term)
	}
	sort.Strings(terms)
	var dot float64
	for _, term := range terms {
		if lw, ok := large.Weights[term]; ok {
			dot += small.Weights[term] * lw
		}
	}
	sim := dot / (a.Norm * b.Norm)
	if sim < 0 {
		return 0
	}
	if sim > 1 {
		return 1
	}
	return sim
}
