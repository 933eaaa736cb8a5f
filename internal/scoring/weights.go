package scoring

import (
	"math"

	"docsift/internal/config"
)

// Dimension names of the combined relevance score. The weight table is
// fixed-size and validated at configuration load, never ad hoc.
const (
	DimSemanticSimilarity    = "semantic_similarity"
	DimContentQuality        = "content_quality"
	DimPersonaAlignment      = "persona_alignment"
	DimSectionTypeWeight     = "section_type_weight"
	DimPositionImportance    = "position_importance"
	DimLengthAppropriateness = "length_appropriateness"
)

const weightEpsilon = 1e-6

// Weights maps each scoring dimension to its share of the combined
// score. A valid table has exactly the six known dimensions, no negative
// entries, and sums to 1 within epsilon.
type Weights map[string]float64

// DefaultWeights returns the canonical split. semantic_similarity
// defaults to 0.25; deployments wanting the heavier 0.40 split override
// it through run options.
func DefaultWeights() Weights {
	return Weights{
		DimSemanticSimilarity:    0.25,
		DimContentQuality:        0.20,
		DimPersonaAlignment:      0.15,
		DimSectionTypeWeight:     0.15,
		DimPositionImportance:    0.15,
		DimLengthAppropriateness: 0.10,
	}
}

// ParseWeights merges an override map over the defaults and validates
// the result. A nil or empty override yields the defaults. Unknown
// dimensions, negative entries, or a sum off 1.0 are ConfigErrors.
func ParseWeights(override map[string]float64) (Weights, error) {
	w := DefaultWeights()
	for dim, v := range override {
		if _, ok := w[dim]; !ok {
			return nil, config.Errorf("unknown scoring dimension: %q", dim)
		}
		w[dim] = v
	}
	if err := w.Validate(); err != nil {
		return nil, err
	}
	return w, nil
}

// Validate checks the convex-combination invariant.
func (w Weights) Validate() error {
	if len(w) != len(DefaultWeights()) {
		return config.Errorf("weight table must have %d dimensions, got %d", len(DefaultWeights()), len(w))
	}
	var sum float64
	for dim, v := range w {
		if v < 0 {
			return config.Errorf("weight for %s is negative: %g", dim, v)
		}
		sum += v
	}
	if math.Abs(sum-1.0) > weightEpsilon {
		return config.Errorf("weights must sum to 1.0, got %g", sum)
	}
	return nil
}
