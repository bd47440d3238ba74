// Package capture runs one speech recognition attempt at a time and turns
// the engine's asynchronous outcome into events for a single owner loop.
package capture

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"github.com/verte-zerg/tuisay/internal/model"
	"github.com/verte-zerg/tuisay/internal/scorer"
	"github.com/verte-zerg/tuisay/internal/speech"
)

// ErrClosed is returned by Start after Close.
var ErrClosed = errors.New("capture session closed")

const eventBuffer = 4

// Event is the outcome of one recognition attempt. Exactly one of
// Transcript or Err is meaningful; an empty Transcript with a nil Err is a
// valid result.
type Event struct {
	Attempt    uint64
	Transcript string
	Err        error
}

// Session owns the recognizer handle and the in-flight attempt.
//
// Session is not safe for concurrent use. Start, Stop, Accept and Close are
// called from the owner's event loop; recognition goroutines only send on
// the events channel.
type Session struct {
	rec    speech.Recognizer
	locale string
	log    zerolog.Logger

	events chan Event
	done   chan struct{}
	wg     sync.WaitGroup

	status   model.CaptureStatus
	attempt  uint64
	resolved bool
	stopped  bool
	cancel   context.CancelFunc
	closed   bool
}

// New returns an idle session. A nil recognizer means recognition is
// unavailable and Start always fails.
func New(rec speech.Recognizer, locale string, log zerolog.Logger) *Session {
	return &Session{
		rec:    rec,
		locale: locale,
		log:    log,
		events: make(chan Event, eventBuffer),
		done:   make(chan struct{}),
		status: model.StatusIdle,
	}
}

// Events delivers attempt outcomes. Pass each one to Accept.
func (s *Session) Events() <-chan Event {
	return s.events
}

// Status returns the current capture status.
func (s *Session) Status() model.CaptureStatus {
	return s.status
}

// Attempt returns the id of the latest attempt, zero before the first Start.
func (s *Session) Attempt() uint64 {
	return s.attempt
}

// Available reports whether a recognizer is configured.
func (s *Session) Available() bool {
	return s.rec != nil
}

// Start begins listening for one utterance and returns its attempt id.
// Starting while already listening returns the in-flight attempt id.
func (s *Session) Start() (uint64, error) {
	if s.closed {
		return 0, ErrClosed
	}
	if s.rec == nil {
		return 0, speech.ErrCapabilityUnavailable
	}
	if s.status == model.StatusListening {
		return s.attempt, nil
	}

	s.attempt++
	id := s.attempt
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.resolved = false
	s.stopped = false
	s.status = model.StatusListening

	s.wg.Add(1)
	go s.recognize(ctx, id)
	s.log.Debug().Uint64("attempt", id).Str("recognizer", s.rec.Name()).Msg("capture started")
	return id, nil
}

func (s *Session) recognize(ctx context.Context, id uint64) {
	defer s.wg.Done()
	text, err := s.rec.Recognize(ctx, s.locale)
	ev := Event{Attempt: id}
	if err != nil {
		ev.Err = speech.Classify(err)
	} else {
		ev.Transcript = scorer.Normalize(text)
	}
	select {
	case s.events <- ev:
	case <-s.done:
	}
}

// Accept applies ev if it resolves the latest unresolved attempt and
// reports whether the owner should act on it. Events from superseded
// attempts, duplicates and the abort caused by Stop are dropped.
func (s *Session) Accept(ev Event) bool {
	if s.closed || ev.Attempt != s.attempt || s.resolved {
		s.log.Debug().Uint64("attempt", ev.Attempt).Msg("stale capture event dropped")
		return false
	}
	s.resolved = true
	s.status = model.StatusIdle
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}

	var recErr *speech.RecognitionError
	if s.stopped && errors.As(ev.Err, &recErr) && recErr.Aborted() {
		s.log.Debug().Uint64("attempt", ev.Attempt).Msg("aborted capture swallowed")
		return false
	}
	if ev.Err != nil {
		s.log.Warn().Err(ev.Err).Uint64("attempt", ev.Attempt).Msg("capture failed")
	} else {
		s.log.Info().Uint64("attempt", ev.Attempt).Str("transcript", ev.Transcript).Msg("capture result")
	}
	return true
}

// Stop cancels the in-flight attempt and returns to idle. A result already
// produced for that attempt may still be accepted once. Stop while idle is
// a no-op.
func (s *Session) Stop() {
	if s.status != model.StatusListening {
		return
	}
	s.status = model.StatusIdle
	s.stopped = true
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.log.Debug().Uint64("attempt", s.attempt).Msg("capture stopped")
}

// Close stops any capture and waits for its goroutine to exit. Close is
// idempotent. It returns only once the recognizer's Recognize call does, so
// recognizers must return promptly when their context is cancelled; the
// exec and HTTP backends do.
func (s *Session) Close() {
	if s.closed {
		return
	}
	s.Stop()
	s.closed = true
	close(s.done)
	s.wg.Wait()
}
