// Package stats keeps the in-memory score tally of a practice run and
// renders it.
package stats

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/verte-zerg/tuisay/internal/model"
)

const (
	sparkChars = " .:-=+*#%@"
	// excellentScore keeps mastered words out of the practice suggestions.
	excellentScore = 90
)

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	if window <= 1 {
		copy(out, values)
		return out
	}
	var sum float64
	for i, v := range values {
		sum += v
		if i >= window {
			sum -= values[i-window]
		}
		out[i] = sum / float64(min(i+1, window))
	}
	return out
}

// Sparkline renders scores as a single-line ASCII sparkline. Scores are
// placed on the fixed 0-100 scale so lines from different runs compare.
func Sparkline(values []float64) string {
	var b strings.Builder
	top := float64(len(sparkChars) - 1)
	for _, v := range values {
		pos := math.Max(0, math.Min(scoreMax, v)) / scoreMax
		b.WriteByte(sparkChars[int(math.Round(pos*top))])
	}
	return b.String()
}

// RenderSummary prints totals and a per-word table for the run.
func RenderSummary(w io.Writer, t *Tally) error {
	if t == nil || t.Count() == 0 {
		_, err := fmt.Fprintln(w, "No attempts recorded.")
		return err
	}
	lines := []string{
		"Summary",
		fmt.Sprintf("Attempts: %d", t.Count()),
		fmt.Sprintf("Avg score: %.1f", t.Average()),
		fmt.Sprintf("Best score: %d", t.Best()),
		fmt.Sprintf("Excellent: %d  Good: %d  Needs work: %d",
			t.CategoryCount(model.Excellent), t.CategoryCount(model.Good), t.CategoryCount(model.NeedsWork)),
		"",
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}

	words := t.Words()
	rows := make([][]string, 0, len(words))
	for _, ws := range words {
		rows = append(rows, []string{
			ws.Word,
			fmt.Sprintf("%d", ws.Attempts),
			fmt.Sprintf("%.1f", ws.Average()),
			fmt.Sprintf("%d", ws.Best),
			fmt.Sprintf("%d", ws.Last),
		})
	}
	headers := []string{"Word", "Attempts", "Avg", "Best", "Last"}
	for _, line := range formatTable(headers, rows, map[int]bool{1: true, 2: true, 3: true, 4: true}) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}

	avg := make(map[string]float64, len(words))
	for _, ws := range words {
		avg[ws.Word] = ws.Average()
	}
	var weak []string
	for _, word := range WeakWords(words, 3) {
		if avg[word] < excellentScore {
			weak = append(weak, word)
		}
	}
	if len(weak) > 0 {
		if _, err := fmt.Fprintf(w, "\nPractice next: %s\n", strings.Join(weak, ", ")); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// RenderTrend plots the score of every attempt and its moving average.
// Fewer than two attempts print nothing.
func RenderTrend(w io.Writer, t *Tally, window, totalWidth, height int, useColor bool) error {
	if t == nil || t.Count() < 2 {
		return nil
	}
	scores := t.Scores()
	width := 0
	if totalWidth > 0 {
		width = PlotWidthFor(totalWidth)
	}
	return PlotScores(w, "Score Trend", []Series{
		{Name: "Score", Values: scores},
		{Name: "Average", Values: MovingAverage(scores, window)},
	}, width, height, useColor)
}
