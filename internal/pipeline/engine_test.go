package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"math"
	"reflect"
	"strings"
	"testing"
	"time"

	"docsift/internal/config"
	"docsift/internal/docmodel"
)

func testEngine(workers int) *Engine {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewEngine(workers, log, NewStageStats(time.Minute))
}

func testCollection() []docmodel.Document {
	study := docmodel.Document{Filename: "study.pdf", Title: "study"}
	study.AppendSection("Research Methodology", docmodel.LevelH2, 1,
		"The research methodology covers data collection across three sites. "+
			"Samples were gathered daily and analysis followed the published protocol.")
	study.AppendSection("Data Analysis", docmodel.LevelH2, 2,
		"Analysis of the collected data produced the results below. "+
			"Statistical methodology and metrics are described for each experiment.")
	study.AppendSection("Results Summary", docmodel.LevelH2, 3,
		"The results confirm the hypothesis. Conclusions and references follow "+
			"in the closing chapters of the study.")

	ops := docmodel.Document{Filename: "ops.pdf", Title: "ops"}
	ops.AppendSection("Facilities Overview", docmodel.LevelH2, 1,
		"The west campus houses the cafeteria, the gym, and two lecture halls "+
			"available for booking through reception.")
	ops.AppendSection("Parking Guidance", docmodel.LevelH2, 2,
		"Visitor parking is located behind building four. Permits are issued "+
			"at the front desk between nine and five.")

	return []docmodel.Document{study, ops}
}

func testRequest() Request {
	return Request{
		Documents: testCollection(),
		Role:      "PhD Researcher",
		Task:      "Review the research methodology and results",
		Options:   config.DefaultOptions(),
	}
}

func TestAnalyze_EndToEnd(t *testing.T) {
	e := testEngine(4)
	result, err := e.Analyze(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Metadata.TotalSectionsAnalyzed != 5 {
		t.Errorf("expected 5 sections analyzed, got %d", result.Metadata.TotalSectionsAnalyzed)
	}
	if result.Metadata.TopSectionsSelected != len(result.ExtractedSections) {
		t.Errorf("metadata count %d disagrees with extracted sections %d",
			result.Metadata.TopSectionsSelected, len(result.ExtractedSections))
	}
	if result.Metadata.Partial {
		t.Error("expected complete run")
	}
	if result.Metadata.Persona != "PhD Researcher" {
		t.Errorf("unexpected persona: %q", result.Metadata.Persona)
	}
	if len(result.Metadata.InputDocuments) != 2 {
		t.Errorf("expected 2 input documents, got %d", len(result.Metadata.InputDocuments))
	}
	if _, err := time.Parse(time.RFC3339, result.Metadata.ProcessingTimestamp); err != nil {
		t.Errorf("timestamp not RFC3339: %v", err)
	}

	// Ranks are 1..N with no gaps; scores are non-increasing and
	// rounded to three decimals.
	for i, sec := range result.ExtractedSections {
		if sec.ImportanceRank != i+1 {
			t.Errorf("section %d: expected rank %d, got %d", i, i+1, sec.ImportanceRank)
		}
		if i > 0 && sec.RelevanceScore > result.ExtractedSections[i-1].RelevanceScore {
			t.Errorf("section %d: score %g exceeds predecessor", i, sec.RelevanceScore)
		}
		if r := sec.RelevanceScore * 1000; math.Abs(r-math.Round(r)) > 1e-9 {
			t.Errorf("section %d: score %g not rounded to 3 decimals", i, sec.RelevanceScore)
		}
	}

	// One refined subsection per extracted section, ranks aligned.
	if len(result.SubsectionAnalysis) != len(result.ExtractedSections) {
		t.Fatalf("expected %d subsections, got %d",
			len(result.ExtractedSections), len(result.SubsectionAnalysis))
	}
	for i, sub := range result.SubsectionAnalysis {
		if sub.ParentImportanceRank != result.ExtractedSections[i].ImportanceRank {
			t.Errorf("subsection %d: parent rank %d disagrees with section rank %d",
				i, sub.ParentImportanceRank, result.ExtractedSections[i].ImportanceRank)
		}
	}

	// The methodology-heavy document should outrank the facilities one
	// for a researcher.
	if result.ExtractedSections[0].Document != "study.pdf" {
		t.Errorf("expected study.pdf ranked first, got %s", result.ExtractedSections[0].Document)
	}
}

func TestAnalyze_DeterministicAcrossRunsAndWorkerCounts(t *testing.T) {
	run := func(workers int) *docmodel.AnalysisResult {
		result, err := testEngine(workers).Analyze(context.Background(), testRequest())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		result.Metadata.ProcessingTimestamp = ""
		return result
	}

	first := run(4)
	for _, workers := range []int{1, 2, 8} {
		got := run(workers)
		if !reflect.DeepEqual(first.ExtractedSections, got.ExtractedSections) {
			t.Errorf("extracted sections differ with %d workers", workers)
		}
		if !reflect.DeepEqual(first.SubsectionAnalysis, got.SubsectionAnalysis) {
			t.Errorf("subsection analysis differs with %d workers", workers)
		}
	}
}

func TestAnalyze_DuplicateSectionTextRanksByDocumentOrder(t *testing.T) {
	// Two documents carrying the same section text score identically to
	// the last bit, so the (document order, position) tie-break decides
	// their ranks. If any float accumulation depended on map iteration
	// order, the duplicate scores would drift apart and the serialized
	// output would change between runs.
	shared := "Methodology and data analysis covered three trial cohorts. " +
		"Collection protocols and statistical methods are described per experiment."

	collection := func() []docmodel.Document {
		a := docmodel.Document{Filename: "a.pdf", Title: "a"}
		a.AppendSection("Methodology and Data Analysis", docmodel.LevelH1, 1, shared)
		b := docmodel.Document{Filename: "b.pdf", Title: "b"}
		b.AppendSection("Methodology and Data Analysis", docmodel.LevelH1, 1, shared)
		return []docmodel.Document{a, b}
	}

	run := func() string {
		req := Request{
			Documents: collection(),
			Role:      "Research Analyst",
			Task:      "Review methodology and data analysis quality",
			Options:   config.DefaultOptions(),
		}
		result, err := testEngine(4).Analyze(context.Background(), req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := result.ExtractedSections[0].Document; got != "a.pdf" {
			t.Fatalf("tie must resolve to the earlier document, got %s first", got)
		}
		data, err := json.Marshal(result.ExtractedSections)
		if err != nil {
			t.Fatal(err)
		}
		return string(data)
	}

	baseline := run()
	for i := 1; i < 50; i++ {
		if got := run(); got != baseline {
			t.Fatalf("iteration %d: extracted sections not byte-identical:\n%s\nvs\n%s",
				i, got, baseline)
		}
	}
}

func TestAnalyze_ConfigErrorsAbortBeforeScoring(t *testing.T) {
	e := testEngine(2)

	badWeights := testRequest()
	badWeights.Options.Weights = map[string]float64{"semantic_similarity": 0.9}
	_, err := e.Analyze(context.Background(), badWeights)
	var cfgErr *config.ConfigError
	if !errors.As(err, &cfgErr) {
		t.Errorf("expected ConfigError for bad weights, got %v", err)
	}

	noRole := testRequest()
	noRole.Role = "  "
	if _, err := e.Analyze(context.Background(), noRole); !errors.As(err, &cfgErr) {
		t.Errorf("expected ConfigError for empty role, got %v", err)
	}
}

func TestAnalyze_EmptyCollectionIsInputError(t *testing.T) {
	req := testRequest()
	req.Documents = nil
	_, err := testEngine(2).Analyze(context.Background(), req)
	var inputErr *docmodel.InputError
	if !errors.As(err, &inputErr) {
		t.Errorf("expected InputError, got %v", err)
	}
}

func TestAnalyze_TopKAboveTotalSelectsEverything(t *testing.T) {
	req := testRequest()
	req.Options.TopK = 1000
	result, err := testEngine(2).Analyze(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.ExtractedSections) != result.Metadata.TotalSectionsAnalyzed {
		t.Errorf("expected all %d sections selected, got %d",
			result.Metadata.TotalSectionsAnalyzed, len(result.ExtractedSections))
	}
}

func TestAnalyze_CancelledContextYieldsPartialResult(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := testEngine(2).Analyze(ctx, testRequest())
	if err != nil {
		t.Fatalf("expected best-effort result, got error: %v", err)
	}
	if !result.Metadata.Partial {
		t.Error("expected partial flag on truncated run")
	}
	if result.Metadata.TotalSectionsAnalyzed != 5 {
		t.Errorf("metadata must still report the full section count, got %d",
			result.Metadata.TotalSectionsAnalyzed)
	}
}

func TestAnalyze_PartialFieldOmittedWhenComplete(t *testing.T) {
	result, err := testEngine(2).Analyze(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	data, err := json.Marshal(result.Metadata)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(data), `"partial"`) {
		t.Error("partial field must be absent from complete runs")
	}
}

func TestAnalyze_ProgressCallbackSeesPhases(t *testing.T) {
	var phases []string
	req := testRequest()
	req.Progress = func(phase string, done, total int) {
		if len(phases) == 0 || phases[len(phases)-1] != phase {
			phases = append(phases, phase)
		}
	}

	if _, err := testEngine(1).Analyze(context.Background(), req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{PhaseProfiling, PhaseFitting, PhaseScoring, PhaseRanking, PhaseRefining}
	if !reflect.DeepEqual(phases, want) {
		t.Errorf("expected phases %v, got %v", want, phases)
	}
}
