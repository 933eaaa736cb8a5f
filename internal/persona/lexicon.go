package persona

// Static role/task lexicon. Each entry matches substrings of the
// lowercased role or task and contributes an expanded keyword set with
// per-keyword importance weights, plus domain focus tags. Resolved once
// at profile-build time.

type lexiconEntry struct {
	match    []string
	keywords map[string]float64
	focus    []string
}

var roleLexicon = []lexiconEntry{
	{
		match: []string{"researcher", "scientist", "phd"},
		keywords: map[string]float64{
			"methodology": 0.9,
			"research":    0.9,
			"results":     0.85,
			"analysis":    0.8,
			"data":        0.8,
			"study":       0.7,
			"conclusions": 0.7,
			"references":  0.5,
		},
		focus: []string{"methodology", "results", "data", "analysis", "conclusions"},
	},
	{
		match: []string{"student", "learner"},
		keywords: map[string]float64{
			"concepts":    0.9,
			"examples":    0.85,
			"definitions": 0.8,
			"explain":     0.7,
			"practice":    0.7,
			"summary":     0.6,
			"exercises":   0.6,
		},
		focus: []string{"concepts", "examples", "definitions", "practice"},
	},
	{
		match: []string{"analyst", "investor"},
		keywords: map[string]float64{
			"trends":      0.9,
			"metrics":     0.85,
			"performance": 0.85,
			"comparison":  0.8,
			"data":        0.75,
			"revenue":     0.7,
			"growth":      0.7,
			"investment":  0.7,
		},
		focus: []string{"trends", "metrics", "performance", "comparison"},
	},
	{
		match: []string{"manager", "professional", "executive"},
		keywords: map[string]float64{
			"process":        0.85,
			"best practices": 0.85,
			"guidelines":     0.8,
			"implementation": 0.8,
			"strategy":       0.7,
			"overview":       0.6,
		},
		focus: []string{"process", "best practices", "guidelines", "implementation"},
	},
}

var taskLexicon = []lexiconEntry{
	{
		match: []string{"review", "summarize", "literature"},
		keywords: map[string]float64{
			"summary":    0.8,
			"overview":   0.75,
			"key points": 0.7,
		},
		focus: []string{"summary", "overview"},
	},
	{
		match: []string{"analyze", "analyse", "compare", "evaluate"},
		keywords: map[string]float64{
			"data":       0.8,
			"statistics": 0.75,
			"comparison": 0.8,
			"evaluation": 0.7,
		},
		focus: []string{"data", "statistics", "comparison"},
	},
	{
		match: []string{"prepare", "plan", "design"},
		keywords: map[string]float64{
			"steps":        0.8,
			"requirements": 0.8,
			"guidelines":   0.75,
			"schedule":     0.6,
		},
		focus: []string{"steps", "requirements", "guidelines"},
	},
}
