package stats

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/verte-zerg/tuisay/internal/model"
)

func result(score int, c model.Category) model.Result {
	return model.Result{Score: score, Category: c}
}

func sampleTally() *Tally {
	t := NewTally()
	t.Record("hello", result(60, model.NeedsWork))
	t.Record("world", result(100, model.Excellent))
	t.Record("hello", result(80, model.Good))
	t.Record("technology", result(90, model.Excellent))
	return t
}

func TestTallyAggregates(t *testing.T) {
	tally := sampleTally()
	if tally.Count() != 4 {
		t.Fatalf("expected 4 attempts, got %d", tally.Count())
	}
	if got := tally.Average(); math.Abs(got-82.5) > 1e-9 {
		t.Fatalf("expected average 82.5, got %f", got)
	}
	if tally.Best() != 100 {
		t.Fatalf("expected best 100, got %d", tally.Best())
	}
	if tally.CategoryCount(model.Excellent) != 2 || tally.CategoryCount(model.Good) != 1 || tally.CategoryCount(model.NeedsWork) != 1 {
		t.Fatalf("unexpected category counts")
	}
	words := tally.Words()
	if len(words) != 3 || words[0].Word != "hello" || words[1].Word != "world" {
		t.Fatalf("expected first-practiced order, got %+v", words)
	}
	hello := words[0]
	if hello.Attempts != 2 || hello.Best != 80 || hello.Last != 80 || hello.Average() != 70 {
		t.Fatalf("unexpected hello stats: %+v", hello)
	}
}

func TestEmptyTally(t *testing.T) {
	tally := NewTally()
	if tally.Average() != 0 || tally.Best() != 0 || len(tally.Scores()) != 0 {
		t.Fatalf("expected zero values for empty tally")
	}
	var buf bytes.Buffer
	if err := RenderSummary(&buf, tally); err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(buf.String(), "No attempts recorded.") {
		t.Fatalf("unexpected output: %q", buf.String())
	}
	buf.Reset()
	if err := RenderTrend(&buf, tally, 3, 40, 4, false); err != nil || buf.Len() != 0 {
		t.Fatalf("expected no trend for empty tally, got %q (%v)", buf.String(), err)
	}
}

func TestRenderSummary(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderSummary(&buf, sampleTally()); err != nil {
		t.Fatalf("render: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"Attempts: 4",
		"Avg score: 82.5",
		"Best score: 100",
		"Excellent: 2  Good: 1  Needs work: 1",
		"Word       Attempts   Avg Best Last",
		"Practice next: hello",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Practice next: hello, technology") {
		t.Fatalf("mastered words must not be suggested:\n%s", out)
	}
}

func TestRenderTrend(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderTrend(&buf, sampleTally(), 2, 40, 4, false); err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(buf.String(), "Score Trend") {
		t.Fatalf("expected trend title, got %q", buf.String())
	}
}

func TestWeakWords(t *testing.T) {
	words := []WordStat{
		{Word: "b", Attempts: 1, Total: 50},
		{Word: "a", Attempts: 2, Total: 100},
		{Word: "c", Attempts: 1, Total: 90},
	}
	got := WeakWords(words, 2)
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("unexpected order: %v", got)
	}
	if WeakWords(words, 0) != nil {
		t.Fatalf("expected nil for n=0")
	}
}

func TestMovingAverage(t *testing.T) {
	got := MovingAverage([]float64{10, 20, 30, 40}, 2)
	want := []float64{10, 15, 25, 35}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-9 {
			t.Fatalf("index %d: expected %f, got %f", i, want[i], got[i])
		}
	}
	same := MovingAverage([]float64{1, 2}, 1)
	if same[0] != 1 || same[1] != 2 {
		t.Fatalf("expected copy for window 1, got %v", same)
	}
}

func TestSparkline(t *testing.T) {
	if got := Sparkline([]float64{0, 50, 100}); got != " +@" {
		t.Fatalf("unexpected sparkline %q", got)
	}
	if Sparkline(nil) != "" {
		t.Fatalf("expected empty sparkline")
	}
	if got := Sparkline([]float64{-5, 120}); got != " @" {
		t.Fatalf("expected clamped sparkline, got %q", got)
	}
}
