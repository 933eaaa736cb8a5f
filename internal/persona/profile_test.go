package persona

import (
	"errors"
	"testing"

	"docsift/internal/config"
)

func TestBuild_RequiresRoleAndTask(t *testing.T) {
	cases := []struct {
		name string
		role string
		task string
	}{
		{"empty role", "", "review the literature"},
		{"whitespace role", "   ", "review the literature"},
		{"empty task", "PhD Researcher", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Build(tc.role, tc.task)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			var cfgErr *config.ConfigError
			if !errors.As(err, &cfgErr) {
				t.Errorf("expected ConfigError, got %T", err)
			}
		})
	}
}

func TestBuild_LiteralTokensGetMaxWeight(t *testing.T) {
	p, err := Build("Travel Planner", "Plan a trip for college friends")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, kw := range []string{"travel", "planner", "trip", "college", "friends"} {
		if p.Keywords[kw] != 1.0 {
			t.Errorf("expected literal keyword %q at weight 1.0, got %g", kw, p.Keywords[kw])
		}
	}
}

func TestBuild_ResearcherLexiconExpansion(t *testing.T) {
	p, err := Build("PhD Researcher in Computational Biology", "Prepare a comprehensive literature review")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Role expansion.
	if w := p.Keywords["methodology"]; w != 0.9 {
		t.Errorf("expected methodology weight 0.9, got %g", w)
	}
	// Task expansion ("review" and "prepare" both match).
	if w := p.Keywords["summary"]; w != 0.8 {
		t.Errorf("expected summary weight 0.8, got %g", w)
	}
	if w := p.Keywords["steps"]; w != 0.8 {
		t.Errorf("expected steps weight 0.8, got %g", w)
	}

	if len(p.Focus) == 0 {
		t.Error("expected focus tags from lexicon")
	}
}

func TestBuild_HigherWeightWinsOnCollision(t *testing.T) {
	// "research" appears literally in the task (1.0) and in the
	// researcher lexicon (0.9); the literal weight must survive.
	p, err := Build("Researcher", "summarize recent research")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if w := p.Keywords["research"]; w != 1.0 {
		t.Errorf("expected literal weight 1.0 to win, got %g", w)
	}
}

func TestQueryText_Deterministic(t *testing.T) {
	a, err := Build("Investment Analyst", "Analyze revenue trends")
	if err != nil {
		t.Fatal(err)
	}
	b, err := Build("Investment Analyst", "Analyze revenue trends")
	if err != nil {
		t.Fatal(err)
	}
	if a.QueryText() != b.QueryText() {
		t.Error("expected identical query text across builds")
	}
}

func TestTotalWeight_Positive(t *testing.T) {
	p, err := Build("Student", "Study key concepts for the exam")
	if err != nil {
		t.Fatal(err)
	}
	if p.TotalWeight() <= 0 {
		t.Errorf("expected positive total weight, got %g", p.TotalWeight())
	}
}
