package pipeline

import (
	"testing"
	"time"
)

func TestStageStats_Snapshot(t *testing.T) {
	s := NewStageStats(time.Minute)
	for _, ms := range []int64{10, 20, 30, 40} {
		s.Record(StageScore, ms)
	}

	snap := s.Snapshot()
	sc, ok := snap[StageScore]
	if !ok {
		t.Fatal("expected score stage in snapshot")
	}
	if sc.Count != 4 {
		t.Errorf("expected 4 samples, got %d", sc.Count)
	}
	if sc.MinMs != 10 || sc.MaxMs != 40 {
		t.Errorf("expected min/max 10/40, got %d/%d", sc.MinMs, sc.MaxMs)
	}
	if sc.AvgMs != 25 {
		t.Errorf("expected avg 25, got %g", sc.AvgMs)
	}
	if sc.P50Ms != 25 {
		t.Errorf("expected p50 25, got %g", sc.P50Ms)
	}
}

func TestStageStats_NegativeClampedToZero(t *testing.T) {
	s := NewStageStats(time.Minute)
	s.Record(StageFit, -5)
	if got := s.Snapshot()[StageFit].MinMs; got != 0 {
		t.Errorf("expected clamp to 0, got %d", got)
	}
}

func TestPercentile_Interpolates(t *testing.T) {
	vals := []int64{0, 100}
	if got := percentile(vals, 50); got != 50 {
		t.Errorf("expected 50, got %g", got)
	}
	if got := percentile(vals, 0); got != 0 {
		t.Errorf("expected 0, got %g", got)
	}
	if got := percentile(vals, 100); got != 100 {
		t.Errorf("expected 100, got %g", got)
	}
	if got := percentile(nil, 95); got != 0 {
		t.Errorf("expected 0 for empty, got %g", got)
	}
}
