// Package mock provides scriptable speech backends for tests.
package mock

import (
	"context"
	"sync"

	"github.com/verte-zerg/tuisay/internal/speech"
)

var (
	_ speech.Recognizer  = (*Recognizer)(nil)
	_ speech.Synthesizer = (*Synthesizer)(nil)
)

// Response is one scripted recognition outcome.
type Response struct {
	Transcript string
	Err        error
}

// Recognizer returns scripted transcripts. When Responses is non-nil each
// call blocks until a response arrives or ctx is done; otherwise it returns
// Transcript and Err immediately.
type Recognizer struct {
	NameValue   string
	Unavailable bool
	Transcript  string
	Err         error
	Responses   chan Response
	// IgnoreCancel makes a blocked call wait for its scripted response even
	// after ctx is cancelled, imitating engines that report late.
	IgnoreCancel bool

	mu      sync.Mutex
	calls   int
	locales []string
}

// Name implements speech.Recognizer.
func (r *Recognizer) Name() string {
	if r.NameValue == "" {
		return "mock"
	}
	return r.NameValue
}

// Available implements speech.Recognizer.
func (r *Recognizer) Available() bool {
	return !r.Unavailable
}

// Recognize implements speech.Recognizer.
func (r *Recognizer) Recognize(ctx context.Context, locale string) (string, error) {
	r.mu.Lock()
	r.calls++
	r.locales = append(r.locales, locale)
	r.mu.Unlock()

	if r.Responses == nil {
		return r.Transcript, r.Err
	}
	if r.IgnoreCancel {
		resp := <-r.Responses
		return resp.Transcript, resp.Err
	}
	select {
	case resp := <-r.Responses:
		return resp.Transcript, resp.Err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// Calls returns the number of Recognize calls made so far.
func (r *Recognizer) Calls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}

// Locales returns the locale passed to each Recognize call.
func (r *Recognizer) Locales() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.locales...)
}

// Synthesizer records spoken text. When Spoken is non-nil every utterance
// is also sent on it.
type Synthesizer struct {
	Unavailable bool
	Err         error
	Spoken      chan string

	mu      sync.Mutex
	texts   []string
	locales []string
}

// Name implements speech.Synthesizer.
func (s *Synthesizer) Name() string {
	return "mock"
}

// Available implements speech.Synthesizer.
func (s *Synthesizer) Available() bool {
	return !s.Unavailable
}

// Speak implements speech.Synthesizer.
func (s *Synthesizer) Speak(ctx context.Context, text, locale string) error {
	s.mu.Lock()
	s.texts = append(s.texts, text)
	s.locales = append(s.locales, locale)
	s.mu.Unlock()
	if s.Spoken != nil {
		select {
		case s.Spoken <- text:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return s.Err
}

// Texts returns every text passed to Speak.
func (s *Synthesizer) Texts() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.texts...)
}

// Locales returns the locale passed to each Speak call.
func (s *Synthesizer) Locales() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.locales...)
}
