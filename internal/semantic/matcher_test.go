package semantic

import (
	"sync"
	"testing"
)

func TestTokenize_DropsStopWordsAndShortTokens(t *testing.T) {
	got := Tokenize("The quick AND lazy fox ran to it")
	want := []string{"quick", "lazy", "fox", "ran"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}

func TestMatcher_RelevantTextScoresHigher(t *testing.T) {
	corpus := []string{
		"Machine learning models require careful evaluation of metrics and benchmarks.",
		"The cafeteria menu changes every Tuesday with seasonal vegetables.",
		"Deep learning research methodology covers datasets, training and evaluation.",
	}
	m := NewMatcher()
	m.Fit(corpus, "research methodology for machine learning evaluation")

	relevant := m.Similarity(corpus[2])
	irrelevant := m.Similarity(corpus[1])
	if relevant <= irrelevant {
		t.Errorf("expected relevant text to outscore irrelevant: %g <= %g", relevant, irrelevant)
	}
}

func TestMatcher_SimilarityBounds(t *testing.T) {
	m := NewMatcher()
	m.Fit([]string{"alpha beta gamma delta"}, "alpha beta gamma delta")

	// Identical text against itself is maximal.
	if sim := m.Similarity("alpha beta gamma delta"); sim < 0.999 || sim > 1.0 {
		t.Errorf("expected self-similarity ~1, got %g", sim)
	}
	if sim := m.Similarity(""); sim != 0 {
		t.Errorf("expected empty text similarity 0, got %g", sim)
	}
	if sim := m.Similarity("the and for"); sim != 0 {
		t.Errorf("expected all-stopword similarity 0, got %g", sim)
	}
}

func TestMatcher_BigramsRewardPhrases(t *testing.T) {
	corpus := []string{
		"climate change drives policy decisions",
		"loose change in the jar",
	}
	m := NewMatcher()
	m.Fit(corpus, "climate change policy")

	phrase := m.Similarity(corpus[0])
	scattered := m.Similarity(corpus[1])
	if phrase <= scattered {
		t.Errorf("expected phrase match to outscore scattered tokens: %g <= %g", phrase, scattered)
	}
}

func TestVectorize_UnfittedTermsDropped(t *testing.T) {
	m := NewMatcher()
	m.Fit([]string{"known words only"}, "known words")

	v := m.Vectorize("completely novel vocabulary")
	if !v.Empty() {
		t.Errorf("expected empty vector for unseen terms, got %d weights", len(v.Weights))
	}
}

func TestCosine_EmptyVectors(t *testing.T) {
	if got := Cosine(Vector{}, Vector{}); got != 0 {
		t.Errorf("expected 0 for empty vectors, got %g", got)
	}
}

func TestVectorCache_ComputesOnce(t *testing.T) {
	c := NewVectorCache()
	calls := 0
	fn := func() Vector {
		calls++
		return Vector{Weights: map[string]float64{"x": 1}, Norm: 1}
	}

	c.Vector("a#0", fn)
	c.Vector("a#0", fn)
	if calls != 1 {
		t.Errorf("expected 1 computation, got %d", calls)
	}
	if c.Len() != 1 {
		t.Errorf("expected 1 cached vector, got %d", c.Len())
	}
}

func TestVectorCache_ConcurrentSameKey(t *testing.T) {
	c := NewVectorCache()
	var mu sync.Mutex
	calls := 0

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Vector("shared", func() Vector {
				mu.Lock()
				calls++
				mu.Unlock()
				return Vector{Weights: map[string]float64{"y": 1}, Norm: 1}
			})
		}()
	}
	wg.Wait()

	if calls != 1 {
		t.Errorf("expected at-most-once computation, got %d", calls)
	}
}
