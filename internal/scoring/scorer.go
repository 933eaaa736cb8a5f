// Package scoring combines six normalized sub-scores into one relevance
// score per section.
package scoring

import (
	"math"
	"strings"

	"docsift/internal/docmodel"
	"docsift/internal/persona"
	"docsift/internal/semantic"
)

// SubScores are the six independent components, each in [0,1].
type SubScores struct {
	SemanticSimilarity    float64 `json:"semantic_similarity"`
	ContentQuality        float64 `json:"content_quality"`
	PersonaAlignment      float64 `json:"persona_alignment"`
	SectionTypeWeight     float64 `json:"section_type_weight"`
	PositionImportance    float64 `json:"position_importance"`
	LengthAppropriateness float64 `json:"length_appropriateness"`
}

// ScoredSection pairs a section with its sub-scores and combined
// relevance. DocOrder is the document's insertion position in the input
// collection, kept for the deterministic ranking tie-break.
type ScoredSection struct {
	Section   *docmodel.Section
	DocOrder  int
	Scores    SubScores
	Relevance float64
}

// Scorer computes relevance scores. It shares the fitted matcher, the
// profile, and the vector cache read-only across workers; Score itself
// never mutates shared state beyond the cache's at-most-once inserts.
type Scorer struct {
	weights     Weights
	idealLength int
	matcher     *semantic.Matcher
	cache       *semantic.VectorCache
	profile     *persona.Profile
	keywords    []string // profile keywords in lexical order
	totalWeight float64
}

// NewScorer validates the weight table before any scoring can occur.
func NewScorer(profile *persona.Profile, matcher *semantic.Matcher, cache *semantic.VectorCache, weights Weights, idealLength int) (*Scorer, error) {
	if err := weights.Validate(); err != nil {
		return nil, err
	}
	if idealLength <= 0 {
		idealLength = 500
	}
	return &Scorer{
		weights:     weights,
		idealLength: idealLength,
		matcher:     matcher,
		cache:       cache,
		profile:     profile,
		keywords:    profile.SortedKeywords(),
		totalWeight: profile.TotalWeight(),
	}, nil
}

// Weights exposes the validated weight table, for components that derive
// reduced scorers from it.
func (s *Scorer) Weights() Weights {
	return s.weights
}

// Score produces the ScoredSection for one section. sectionCount is the
// number of sections in the owning document. skipSemantic bypasses the
// vectorizer for sections the cheap pre-filter found negligible; their
// semantic sub-score is 0 by construction.
func (s *Scorer) Score(sec *docmodel.Section, docOrder, sectionCount int, skipSemantic bool) ScoredSection {
	sub := SubScores{
		ContentQuality:        contentQuality(sec.Text, sec.Heading),
		PersonaAlignment:      s.PersonaAlignment(sec.Heading + " " + sec.Text),
		SectionTypeWeight:     sectionTypeWeight(sec.Level),
		PositionImportance:    positionImportance(sec.Position, sectionCount),
		LengthAppropriateness: lengthScore(len(sec.Text), s.idealLength),
	}
	if !skipSemantic {
		key := docmodel.SectionKey(sec)
		vec := s.cache.Vector(key, func() semantic.Vector {
			return s.matcher.Vectorize(sectionText(sec))
		})
		sub.SemanticSimilarity = s.matcher.QuerySimilarity(vec)
	}

	combined := s.weights[DimSemanticSimilarity]*sub.SemanticSimilarity +
		s.weights[DimContentQuality]*sub.ContentQuality +
		s.weights[DimPersonaAlignment]*sub.PersonaAlignment +
		s.weights[DimSectionTypeWeight]*sub.SectionTypeWeight +
		s.weights[DimPositionImportance]*sub.PositionImportance +
		s.weights[DimLengthAppropriateness]*sub.LengthAppropriateness

	return ScoredSection{
		Section:   sec,
		DocOrder:  docOrder,
		Scores:    sub,
		Relevance: clamp01(combined),
	}
}

// QuickRelevant is the cheap pre-filter: a section mentioning none of
// the profile keywords cannot meaningfully match the query vector, so
// full vectorization is skipped for it.
func (s *Scorer) QuickRelevant(sec *docmodel.Section) bool {
	text := strings.ToLower(sec.Heading + " " + sec.Text)
	for kw := range s.profile.Keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// PersonaAlignment is the weighted overlap between a text's tokens and
// the profile keyword mapping, normalized by total profile weight.
// Multi-word keywords match as substrings.
func (s *Scorer) PersonaAlignment(text string) float64 {
	if s.totalWeight == 0 {
		return 0
	}
	lower := strings.ToLower(text)
	tokens := semantic.TokenSet(text)
	var matched float64
	// Sorted keyword order keeps the float summation identical across
	// runs; ranging the map would let iteration order perturb the low
	// bits of the score.
	for _, kw := range s.keywords {
		w := s.profile.Keywords[kw]
		if strings.Contains(kw, " ") {
			if strings.Contains(lower, kw) {
				matched += w
			}
		} else if tokens[kw] {
			matched += w
		}
	}
	return clamp01(matched / s.totalWeight)
}

// sectionText renders a section for vectorization. The heading is
// repeated so short heading-only matches still register against the
// query.
func sectionText(sec *docmodel.Section) string {
	if sec.Heading == "" {
		return sec.Text
	}
	return sec.Heading + " " + sec.Heading + " " + sec.Heading + " " + sec.Text
}

// contentQuality blends vocabulary richness, sentence count, and
// structural cues. Empty text scores 0.
func contentQuality(text, heading string) float64 {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0
	}

	var score float64

	words := strings.Fields(strings.ToLower(text))
	if len(words) > 0 {
		unique := make(map[string]bool, len(words))
		for _, w := range words {
			unique[w] = true
		}
		diversity := float64(len(unique)) / float64(len(words))
		score += math.Min(0.3, diversity*0.6)
	}

	sentences := countSentences(text)
	switch {
	case sentences >= 3 && sentences <= 15:
		score += 0.2
	case sentences > 0:
		score += 0.1
	}

	if strings.ContainsAny(text, "0123456789") {
		score += 0.15
	}
	if hasListMarkers(text) {
		score += 0.15
	}

	if len(heading) > 5 {
		score += 0.2
	}

	return clamp01(score)
}

func countSentences(text string) int {
	n := 0
	start := 0
	for i, r := range text {
		if r == '.' || r == '!' || r == '?' {
			if len(strings.TrimSpace(text[start:i])) > 10 {
				n++
			}
			start = i + 1
		}
	}
	if len(strings.TrimSpace(text[start:])) > 10 {
		n++
	}
	return n
}

func hasListMarkers(text string) bool {
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "- ") || strings.HasPrefix(trimmed, "* ") ||
			strings.HasPrefix(trimmed, "• ") {
			return true
		}
		if len(trimmed) > 2 && trimmed[0] >= '1' && trimmed[0] <= '9' &&
			(trimmed[1] == '.' || trimmed[1] == ')') {
			return true
		}
	}
	return false
}

// Static lookup per heading level: Title > H1 > H2 > H3 > Paragraph.
func sectionTypeWeight(level docmodel.HeadingLevel) float64 {
	switch level {
	case docmodel.LevelTitle:
		return 1.0
	case docmodel.LevelH1:
		return 0.9
	case docmodel.LevelH2:
		return 0.8
	case docmodel.LevelH3:
		return 0.7
	default:
		return 0.6
	}
}

// positionImportance decays linearly with the section's relative
// position in its document, from 1.0 down to 0.6 at the end.
func positionImportance(position, sectionCount int) float64 {
	if sectionCount <= 1 {
		return 1.0
	}
	ratio := float64(position) / float64(sectionCount)
	return 1.0 - 0.4*ratio
}

// lengthScore is a bell over text length peaking at the ideal length,
// penalizing both very short and very long sections.
func lengthScore(length, ideal int) float64 {
	if ideal <= 0 {
		return 0
	}
	d := float64(length - ideal)
	sigma := float64(ideal) / 2
	return math.Exp(-(d * d) / (2 * sigma * sigma))
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
