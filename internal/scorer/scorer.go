// Package scorer turns a recognized transcript into a pronunciation score.
//
// Scoring is lexical: the Levenshtein distance between the target word and
// the transcript is normalized by the longer of the two and mapped onto an
// integer score in [0, 100], which in turn selects a feedback category.
package scorer

import (
	"math"
	"strings"
	"unicode"

	"github.com/antzucaro/matchr"

	"github.com/verte-zerg/tuisay/internal/model"
)

const (
	excellentMin = 90
	goodMin      = 70
)

// Evaluate scores attempt against target. Both are expected to be normalized
// by the caller.
func Evaluate(target, attempt string) model.Result {
	d := Distance(target, attempt)
	sim := similarityFromDistance(d, target, attempt)
	score := ScoreOf(sim)
	return model.Result{
		Distance:    d,
		Similarity:  sim,
		Score:       score,
		Category:    CategoryFor(score),
		SoundsAlike: SoundsAlike(target, attempt),
	}
}

// Distance returns the Levenshtein distance between a and b, counted in runes.
func Distance(a, b string) int {
	ra := []rune(a)
	rb := []rune(b)

	table := make([][]int, len(rb)+1)
	for j := range table {
		table[j] = make([]int, len(ra)+1)
		table[j][0] = j
	}
	for i := 0; i <= len(ra); i++ {
		table[0][i] = i
	}

	for j := 1; j <= len(rb); j++ {
		for i := 1; i <= len(ra); i++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			table[j][i] = min(
				table[j][i-1]+1,
				table[j-1][i]+1,
				table[j-1][i-1]+cost,
			)
		}
	}
	return table[len(rb)][len(ra)]
}

// Similarity returns 1 - distance/max(len(a), len(b)). Two empty strings are
// identical and yield 1.
func Similarity(a, b string) float64 {
	return similarityFromDistance(Distance(a, b), a, b)
}

func similarityFromDistance(d int, a, b string) float64 {
	longest := max(len([]rune(a)), len([]rune(b)))
	if longest == 0 {
		return 1
	}
	return 1 - float64(d)/float64(longest)
}

// ScoreOf maps a similarity onto an integer score in [0, 100].
func ScoreOf(similarity float64) int {
	score := int(math.Round(similarity * 100))
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// CategoryFor returns the feedback category for a score.
func CategoryFor(score int) model.Category {
	switch {
	case score >= excellentMin:
		return model.Excellent
	case score >= goodMin:
		return model.Good
	default:
		return model.NeedsWork
	}
}

// Normalize prepares a raw transcript for scoring: lower-case, with
// surrounding whitespace and punctuation removed. Recognizers such as
// whisper end a transcript with a period, so "Hello." scores 100 against
// "hello" instead of 83. Inner punctuation such as the hyphen in "co-op" is
// kept.
func Normalize(transcript string) string {
	s := strings.ToLower(transcript)
	return strings.TrimFunc(s, func(r rune) bool {
		return unicode.IsSpace(r) || unicode.IsPunct(r)
	})
}

// SoundsAlike reports whether a and b share a Double Metaphone code. It is a
// display hint only and never changes the score.
func SoundsAlike(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	ap, as := matchr.DoubleMetaphone(a)
	bp, bs := matchr.DoubleMetaphone(b)
	for _, x := range []string{ap, as} {
		if x == "" {
			continue
		}
		if x == bp || x == bs {
			return true
		}
	}
	return false
}
