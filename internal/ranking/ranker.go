// Package ranking imposes a deterministic total order over scored
// sections and selects the top-K.
package ranking

import (
	"sort"

	"docsift/internal/scoring"
)

// RankedSection is a scored section with its assigned importance rank.
type RankedSection struct {
	scoring.ScoredSection
	ImportanceRank int
}

// Rank orders sections by combined score descending, breaking ties by
// (document insertion order, position index) ascending so equal scores
// rank identically across runs. It selects at most topK sections; when
// perDocCap > 0 at most that many sections per document appear, with
// excluded slots promoting the next-best section from another document.
// Ranks are assigned 1..N with no gaps.
func Rank(scored []scoring.ScoredSection, topK, perDocCap int) []RankedSection {
	ordered := make([]scoring.ScoredSection, len(scored))
	copy(ordered, scored)

	sort.SliceStable(ordered, func(i, j int) bool {
		a, b := ordered[i], ordered[j]
		if a.Relevance != b.Relevance {
			return a.Relevance > b.Relevance
		}
		if a.DocOrder != b.DocOrder {
			return a.DocOrder < b.DocOrder
		}
		return a.Section.Position < b.Section.Position
	})

	if topK <= 0 || topK > len(ordered) {
		topK = len(ordered)
	}

	selected := make([]RankedSection, 0, topK)
	perDoc := make(map[string]int)
	for _, ss := range ordered {
		if len(selected) == topK {
			break
		}
		if perDocCap > 0 && perDoc[ss.Section.Document] == perDocCap {
			continue
		}
		perDoc[ss.Section.Document]++
		selected = append(selected, RankedSection{
			ScoredSection:  ss,
			ImportanceRank: len(selected) + 1,
		})
	}
	return selected
}
