package stats

import "github.com/verte-zerg/tuisay/internal/model"

// WordStat aggregates the attempts made at one word.
type WordStat struct {
	Word     string
	Attempts int
	Total    int
	Best     int
	Last     int
	// LastAttempt is the run-wide attempt number of the latest try, from 1.
	LastAttempt int
}

// Average returns the mean score for the word.
func (w WordStat) Average() float64 {
	if w.Attempts == 0 {
		return 0
	}
	return float64(w.Total) / float64(w.Attempts)
}

// Tally is the in-memory record of scored attempts for one run.
type Tally struct {
	scores     []int
	categories [3]int
	words      map[string]*WordStat
	order      []string
}

// NewTally returns an empty tally.
func NewTally() *Tally {
	return &Tally{words: map[string]*WordStat{}}
}

// Record adds one scored attempt at word.
func (t *Tally) Record(word string, r model.Result) {
	t.scores = append(t.scores, r.Score)
	if c := int(r.Category); c >= 0 && c < len(t.categories) {
		t.categories[c]++
	}
	ws, ok := t.words[word]
	if !ok {
		ws = &WordStat{Word: word}
		t.words[word] = ws
		t.order = append(t.order, word)
	}
	ws.Attempts++
	ws.Total += r.Score
	ws.Best = max(ws.Best, r.Score)
	ws.Last = r.Score
	ws.LastAttempt = len(t.scores)
}

// Count returns the number of recorded attempts.
func (t *Tally) Count() int {
	return len(t.scores)
}

// Average returns the mean score, zero when nothing was recorded.
func (t *Tally) Average() float64 {
	if len(t.scores) == 0 {
		return 0
	}
	var sum int
	for _, s := range t.scores {
		sum += s
	}
	return float64(sum) / float64(len(t.scores))
}

// Best returns the highest score recorded.
func (t *Tally) Best() int {
	best := 0
	for _, s := range t.scores {
		best = max(best, s)
	}
	return best
}

// Scores returns every score in attempt order.
func (t *Tally) Scores() []float64 {
	out := make([]float64, len(t.scores))
	for i, s := range t.scores {
		out[i] = float64(s)
	}
	return out
}

// CategoryCount returns how many attempts fell into c.
func (t *Tally) CategoryCount(c model.Category) int {
	if int(c) < 0 || int(c) >= len(t.categories) {
		return 0
	}
	return t.categories[c]
}

// Words returns per-word aggregates in the order words were first practiced.
func (t *Tally) Words() []WordStat {
	out := make([]WordStat, 0, len(t.order))
	for _, w := range t.order {
		out = append(out, *t.words[w])
	}
	return out
}
