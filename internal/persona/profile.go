// Package persona turns a role and task description into a structured,
// weighted keyword profile used throughout scoring.
package persona

import (
	"sort"
	"strings"

	"docsift/internal/config"
	"docsift/internal/semantic"
)

// Profile is the weighted keyword representation of a persona and task.
// It is built once per run and immutable thereafter; all scoring workers
// share it read-only.
type Profile struct {
	Role     string
	Task     string
	Keywords map[string]float64 // keyword -> importance weight in (0,1]
	Focus    []string           // domain focus tags, sorted
}

// Build constructs a Profile. Literal tokens from the role and task get
// maximum weight; lexicon expansions carry their own weights. When a
// keyword appears more than once the higher weight wins. An empty or
// whitespace-only role or task is a fatal ConfigError; profile
// construction cannot proceed without both.
func Build(role, task string) (*Profile, error) {
	role = strings.TrimSpace(role)
	task = strings.TrimSpace(task)
	if role == "" {
		return nil, config.Errorf("persona role is empty")
	}
	if task == "" {
		return nil, config.Errorf("job task is empty")
	}

	p := &Profile{
		Role:     role,
		Task:     task,
		Keywords: make(map[string]float64),
	}

	// Literal tokens at maximum weight.
	for _, tok := range semantic.Tokenize(role) {
		p.addKeyword(tok, 1.0)
	}
	for _, tok := range semantic.Tokenize(task) {
		p.addKeyword(tok, 1.0)
	}

	focus := make(map[string]bool)
	applyLexicon(strings.ToLower(role), roleLexicon, p, focus)
	applyLexicon(strings.ToLower(task), taskLexicon, p, focus)

	p.Focus = make([]string, 0, len(focus))
	for f := range focus {
		p.Focus = append(p.Focus, f)
	}
	sort.Strings(p.Focus)

	return p, nil
}

func applyLexicon(text string, lexicon []lexiconEntry, p *Profile, focus map[string]bool) {
	for _, entry := range lexicon {
		for _, m := range entry.match {
			if !strings.Contains(text, m) {
				continue
			}
			for kw, w := range entry.keywords {
				p.addKeyword(kw, w)
			}
			for _, f := range entry.focus {
				focus[f] = true
			}
			break
		}
	}
}

func (p *Profile) addKeyword(kw string, weight float64) {
	if existing, ok := p.Keywords[kw]; !ok || weight > existing {
		p.Keywords[kw] = weight
	}
}

// SortedKeywords returns the keyword set in lexical order. Scoring
// accumulates keyword weights in this order so float summation never
// depends on map iteration.
func (p *Profile) SortedKeywords() []string {
	kws := make([]string, 0, len(p.Keywords))
	for kw := range p.Keywords {
		kws = append(kws, kw)
	}
	sort.Strings(kws)
	return kws
}

// TotalWeight is the sum of all keyword weights, the normalizer for
// alignment scores. Summed in sorted keyword order for run-to-run
// stability.
func (p *Profile) TotalWeight() float64 {
	var sum float64
	for _, kw := range p.SortedKeywords() {
		sum += p.Keywords[kw]
	}
	return sum
}

// QueryText renders the profile as the text vectorized into the shared
// term space. Role and task are repeated for emphasis, the way a short
// query competes with long section texts.
func (p *Profile) QueryText() string {
	parts := make([]string, 0, 4+len(p.Keywords)+len(p.Focus))
	parts = append(parts, p.Role, p.Role, p.Task, p.Task)

	// Sorted for deterministic vectorization.
	parts = append(parts, p.SortedKeywords()...)
	parts = append(parts, p.Focus...)

	return strings.Join(parts, " ")
}
