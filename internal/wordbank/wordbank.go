// Package wordbank picks practice words from a fixed vocabulary.
package wordbank

import (
	"errors"
	"math/rand"
	"strings"
	"time"
)

// ErrEmptyVocabulary is returned when a bank would have no words.
var ErrEmptyVocabulary = errors.New("vocabulary is empty")

var builtin = []string{
	"hello",
	"world",
	"pronunciation",
	"experience",
	"technology",
	"communication",
	"opportunity",
	"development",
	"environment",
	"understanding",
}

// Bank selects target words uniformly at random with replacement.
type Bank struct {
	rnd   *rand.Rand
	words []string
}

// Default returns a Bank over the built-in vocabulary seeded with the current time.
func Default() *Bank {
	b, _ := New(builtin, rand.NewSource(time.Now().UnixNano()))
	return b
}

// New returns a Bank over words. Entries are trimmed and lower-cased; blank
// entries are skipped. A nil src seeds from the current time.
func New(words []string, src rand.Source) (*Bank, error) {
	vocab := make([]string, 0, len(words))
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w == "" {
			continue
		}
		vocab = append(vocab, w)
	}
	if len(vocab) == 0 {
		return nil, ErrEmptyVocabulary
	}
	if src == nil {
		src = rand.NewSource(time.Now().UnixNano())
	}
	return &Bank{rnd: rand.New(src), words: vocab}, nil
}

// Builtin returns a copy of the built-in vocabulary.
func Builtin() []string {
	return append([]string(nil), builtin...)
}

// Pick returns a random word from the vocabulary.
func (b *Bank) Pick() string {
	return b.words[b.rnd.Intn(len(b.words))]
}

// Words returns a copy of the vocabulary in its original order.
func (b *Bank) Words() []string {
	return append([]string(nil), b.words...)
}

// Contains reports whether word is part of the vocabulary.
func (b *Bank) Contains(word string) bool {
	for _, w := range b.words {
		if w == word {
			return true
		}
	}
	return false
}
