// Package pipeline runs the analysis: persona profiling, corpus fit,
// parallel section scoring, ranking, and subsection refinement, under a
// wall-clock budget.
package pipeline

import (
	"context"
	"log/slog"
	"math"
	"sync/atomic"
	"time"

	"docsift/internal/config"
	"docsift/internal/docmodel"
	"docsift/internal/persona"
	"docsift/internal/ranking"
	"docsift/internal/refine"
	"docsift/internal/scoring"
	"docsift/internal/semantic"

	"golang.org/x/sync/errgroup"
)

// Request carries one analysis run's inputs.
type Request struct {
	Documents []docmodel.Document
	Role      string
	Task      string
	Options   config.Options

	// Progress, when set, is called as phases advance. Used by the job
	// orchestrator; nil for one-shot runs.
	Progress func(phase string, done, total int)
}

func (r *Request) progress(phase string, done, total int) {
	if r.Progress != nil {
		r.Progress(phase, done, total)
	}
}

// Engine executes analysis requests. It is stateless across runs apart
// from the stage-latency stats, so one engine serves all workers.
type Engine struct {
	workers int
	log     *slog.Logger
	stats   *StageStats
}

func NewEngine(workers int, log *slog.Logger, stats *StageStats) *Engine {
	if workers <= 0 {
		workers = 4
	}
	return &Engine{workers: workers, log: log, stats: stats}
}

// Stats returns the engine's stage-latency collector.
func (e *Engine) Stats() *StageStats {
	return e.stats
}

type workItem struct {
	sec      *docmodel.Section
	docOrder int
	count    int // section count in the owning document
}

// Analyze runs the full pipeline. ConfigError and InputError abort
// before any scoring; a time-budget expiry instead degrades to a
// best-effort result with metadata flagged partial.
func (e *Engine) Analyze(ctx context.Context, req Request) (*docmodel.AnalysisResult, error) {
	opts := req.Options
	opts.Normalize()
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	weights, err := scoring.ParseWeights(opts.Weights)
	if err != nil {
		return nil, err
	}
	if err := docmodel.ValidateCollection(req.Documents); err != nil {
		return nil, err
	}

	// Profile build and vectorizer fit are the global barrier:
	// sequential, and both are read-only once complete.
	req.progress(PhaseProfiling, 0, 0)
	profile, err := persona.Build(req.Role, req.Task)
	if err != nil {
		return nil, err
	}

	items, texts := flatten(req.Documents)
	total := len(items)

	req.progress(PhaseFitting, 0, total)
	fitStart := time.Now()
	matcher := semantic.NewMatcher()
	matcher.Fit(texts, profile.QueryText())
	e.stats.Record(StageFit, time.Since(fitStart).Milliseconds())

	cache := semantic.NewVectorCache()
	scorer, err := scoring.NewScorer(profile, matcher, cache, weights, opts.IdealLength)
	if err != nil {
		return nil, err
	}

	runCtx := ctx
	if opts.TimeBudgetSeconds > 0 {
		var cancel context.CancelFunc
		budget := time.Duration(opts.TimeBudgetSeconds * float64(time.Second))
		runCtx, cancel = context.WithTimeout(ctx, budget)
		defer cancel()
	}

	// Data-parallel scoring. Each section is independent and
	// side-effect-free; cancellation is checked between work items,
	// never mid-section.
	req.progress(PhaseScoring, 0, total)
	scoreStart := time.Now()
	scored := make([]scoring.ScoredSection, total)
	done := make([]bool, total)
	var nextItem, scoredCount atomic.Int64

	var g errgroup.Group
	for w := 0; w < e.workers; w++ {
		g.Go(func() error {
			for {
				select {
				case <-runCtx.Done():
					return nil
				default:
				}
				i := int(nextItem.Add(1)) - 1
				if i >= total {
					return nil
				}
				it := items[i]
				skip := !scorer.QuickRelevant(it.sec)
				scored[i] = scorer.Score(it.sec, it.docOrder, it.count, skip)
				done[i] = true
				req.progress(PhaseScoring, int(scoredCount.Add(1)), total)
			}
		})
	}
	g.Wait()
	e.stats.Record(StageScore, time.Since(scoreStart).Milliseconds())

	completed := make([]scoring.ScoredSection, 0, total)
	for i := range done {
		if done[i] {
			completed = append(completed, scored[i])
		}
	}
	partial := len(completed) < total
	if partial {
		e.log.Warn("time budget expired during scoring",
			"scored", len(completed), "total", total)
	}

	req.progress(PhaseRanking, len(completed), total)
	rankStart := time.Now()
	ranked := ranking.Rank(completed, opts.TopK, opts.PerDocumentCap)
	e.stats.Record(StageRank, time.Since(rankStart).Milliseconds())

	// Refinement of the selected sections, best-effort under the same
	// budget.
	req.progress(PhaseRefining, 0, len(ranked))
	refineStart := time.Now()
	extractor := refine.NewExtractor(matcher, scorer, opts.MaxRefinedLen)
	subsections := make([]docmodel.SubsectionAnalysis, 0, len(ranked))
	for _, rs := range ranked {
		select {
		case <-runCtx.Done():
			partial = true
		default:
			subsections = append(subsections, docmodel.SubsectionAnalysis{
				Document:             rs.Section.Document,
				SectionTitle:         rs.Section.Heading,
				RefinedText:          extractor.Refine(rs.Section),
				PageNumber:           rs.Section.Page,
				ParentImportanceRank: rs.ImportanceRank,
			})
			req.progress(PhaseRefining, len(subsections), len(ranked))
			continue
		}
		break
	}
	e.stats.Record(StageRefine, time.Since(refineStart).Milliseconds())

	result := buildResult(req, ranked, subsections, total, partial)
	e.log.Info("analysis complete",
		"documents", len(req.Documents),
		"sections", total,
		"selected", len(ranked),
		"partial", partial)
	return result, nil
}

func flatten(docs []docmodel.Document) ([]workItem, []string) {
	items := make([]workItem, 0, docmodel.SectionCount(docs))
	texts := make([]string, 0, cap(items))
	for di := range docs {
		doc := &docs[di]
		for si := range doc.Sections {
			items = append(items, workItem{
				sec:      &doc.Sections[si],
				docOrder: di,
				count:    len(doc.Sections),
			})
			texts = append(texts, doc.Sections[si].Text)
		}
	}
	return items, texts
}

func buildResult(req Request, ranked []ranking.RankedSection, subsections []docmodel.SubsectionAnalysis, total int, partial bool) *docmodel.AnalysisResult {
	filenames := make([]string, len(req.Documents))
	for i, d := range req.Documents {
		filenames[i] = d.Filename
	}

	extracted := make([]docmodel.ExtractedSection, len(ranked))
	for i, rs := range ranked {
		extracted[i] = docmodel.ExtractedSection{
			Document:       rs.Section.Document,
			SectionTitle:   rs.Section.Heading,
			ImportanceRank: rs.ImportanceRank,
			PageNumber:     rs.Section.Page,
			HeadingLevel:   rs.Section.Level.String(),
			RelevanceScore: round3(rs.Relevance),
		}
	}

	return &docmodel.AnalysisResult{
		Metadata: docmodel.Metadata{
			InputDocuments:        filenames,
			Persona:               req.Role,
			JobToBeDone:           req.Task,
			ProcessingTimestamp:   time.Now().UTC().Format(time.RFC3339),
			TotalSectionsAnalyzed: total,
			TopSectionsSelected:   len(ranked),
			Partial:               partial,
		},
		ExtractedSections:  extracted,
		SubsectionAnalysis: subsections,
	}
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
