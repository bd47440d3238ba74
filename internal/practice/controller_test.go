package practice

import (
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/verte-zerg/tuisay/internal/announce"
	"github.com/verte-zerg/tuisay/internal/capture"
	"github.com/verte-zerg/tuisay/internal/model"
	"github.com/verte-zerg/tuisay/internal/speech"
	"github.com/verte-zerg/tuisay/internal/speech/mock"
)

type sequence struct {
	words []string
	next  int
}

func (s *sequence) Pick() string {
	w := s.words[s.next%len(s.words)]
	s.next++
	return w
}

type fixture struct {
	ctrl  *Controller
	rec   *mock.Recognizer
	synth *mock.Synthesizer
}

func newFixture(t *testing.T, rec *mock.Recognizer, words ...string) fixture {
	t.Helper()
	if len(words) == 0 {
		words = []string{"hello", "world"}
	}
	var r speech.Recognizer
	if rec != nil {
		r = rec
	}
	synth := &mock.Synthesizer{Spoken: make(chan string, 4)}
	cs := capture.New(r, "en-US", zerolog.Nop())
	an := announce.New(synth, "en-US", zerolog.Nop())
	ctrl := New(&sequence{words: words}, cs, an, zerolog.Nop())
	t.Cleanup(ctrl.Close)
	return fixture{ctrl: ctrl, rec: rec, synth: synth}
}

func scripted() *mock.Recognizer {
	return &mock.Recognizer{Responses: make(chan mock.Response, 1)}
}

func (f fixture) nextEvent(t *testing.T) capture.Event {
	t.Helper()
	select {
	case ev := <-f.ctrl.Events():
		return ev
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for capture event")
		return capture.Event{}
	}
}

// attempt runs one capture that resolves with resp and applies it.
func (f fixture) attempt(t *testing.T, resp mock.Response) (Outcome, bool) {
	t.Helper()
	if err := f.ctrl.ToggleCapture(); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	f.rec.Responses <- resp
	return f.ctrl.HandleEvent(f.nextEvent(t))
}

func TestNewStartsFirstRound(t *testing.T) {
	f := newFixture(t, scripted())
	s := f.ctrl.State()
	if s.Round != 1 || s.Word != "hello" || s.Status != model.StatusIdle || s.Last != nil {
		t.Fatalf("unexpected initial state: %+v", s)
	}
}

func TestResultIsScoredAgainstCurrentWord(t *testing.T) {
	tests := []struct {
		transcript string
		score      int
		category   model.Category
	}{
		{transcript: "Hello", score: 100, category: model.Excellent},
		{transcript: "halo", score: 60, category: model.NeedsWork},
		{transcript: "", score: 0, category: model.NeedsWork},
	}
	for _, tt := range tests {
		f := newFixture(t, scripted())
		out, ok := f.attempt(t, mock.Response{Transcript: tt.transcript})
		if !ok || out.Err != nil || out.Attempt == nil {
			t.Fatalf("%q: expected scored outcome, got %+v", tt.transcript, out)
		}
		s := f.ctrl.State()
		if s.Last == nil || s.Last.Result.Score != tt.score || s.Last.Result.Category != tt.category {
			t.Fatalf("%q: unexpected last attempt %+v", tt.transcript, s.Last)
		}
		if s.Status != model.StatusIdle {
			t.Fatalf("%q: expected idle, got %s", tt.transcript, s.Status)
		}
		if f.ctrl.Tally().Count() != 1 {
			t.Fatalf("%q: expected attempt in tally", tt.transcript)
		}
	}
}

func TestStartingCaptureClearsLastResult(t *testing.T) {
	f := newFixture(t, scripted())
	f.attempt(t, mock.Response{Transcript: "hello"})

	if err := f.ctrl.ToggleCapture(); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	s := f.ctrl.State()
	if s.Status != model.StatusListening || s.Last != nil {
		t.Fatalf("expected listening with cleared result, got %+v", s)
	}
}

func TestErrorPreservesPriorResult(t *testing.T) {
	f := newFixture(t, scripted())
	f.attempt(t, mock.Response{Transcript: "helo"})
	before := f.ctrl.State().Last

	out, ok := f.attempt(t, mock.Response{Err: speech.ErrNoSpeech})
	if !ok || out.Err == nil {
		t.Fatalf("expected error outcome, got %+v", out)
	}
	var recErr *speech.RecognitionError
	if !errors.As(out.Err, &recErr) || recErr.Code != speech.CodeNoSpeech {
		t.Fatalf("expected no-speech error, got %v", out.Err)
	}
	s := f.ctrl.State()
	if s.Status != model.StatusIdle {
		t.Fatalf("expected idle after error, got %s", s.Status)
	}
	if s.Last == nil || *s.Last != *before {
		t.Fatalf("expected prior result to survive, got %+v", s.Last)
	}
	if f.ctrl.Tally().Count() != 1 {
		t.Fatalf("errors must not be tallied")
	}
}

func TestErrorWithoutPriorResultLeavesNone(t *testing.T) {
	f := newFixture(t, scripted())
	if _, ok := f.attempt(t, mock.Response{Err: errors.New("device busy")}); !ok {
		t.Fatalf("expected error outcome")
	}
	if s := f.ctrl.State(); s.Last != nil {
		t.Fatalf("expected no fabricated result, got %+v", s.Last)
	}
}

func TestToggleStopsAndRestores(t *testing.T) {
	f := newFixture(t, scripted())
	f.attempt(t, mock.Response{Transcript: "hello"})

	if err := f.ctrl.ToggleCapture(); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := f.ctrl.ToggleCapture(); err != nil {
		t.Fatalf("stop: %v", err)
	}
	s := f.ctrl.State()
	if s.Status != model.StatusIdle || s.Last == nil || s.Last.Result.Score != 100 {
		t.Fatalf("expected idle with prior result, got %+v", s)
	}
	if _, ok := f.ctrl.HandleEvent(f.nextEvent(t)); ok {
		t.Fatalf("expected aborted capture to be swallowed")
	}
	if s := f.ctrl.State(); s.Last == nil {
		t.Fatalf("expected prior result to stay visible")
	}
}

func TestToggleWithoutRecognizer(t *testing.T) {
	f := newFixture(t, nil)
	if err := f.ctrl.ToggleCapture(); !errors.Is(err, speech.ErrCapabilityUnavailable) {
		t.Fatalf("expected ErrCapabilityUnavailable, got %v", err)
	}
	if f.ctrl.State().Status != model.StatusIdle || f.ctrl.CanCapture() {
		t.Fatalf("expected idle controller without capture")
	}
}

func TestNewRoundClearsResultAndStopsCapture(t *testing.T) {
	f := newFixture(t, scripted(), "hello", "world", "technology")
	f.attempt(t, mock.Response{Transcript: "hello"})
	if err := f.ctrl.ToggleCapture(); err != nil {
		t.Fatalf("toggle: %v", err)
	}

	f.ctrl.StartNewRound()
	s := f.ctrl.State()
	if s.Round != 2 || s.Word != "world" {
		t.Fatalf("unexpected round state: %+v", s)
	}
	if s.Last != nil || s.Status != model.StatusIdle {
		t.Fatalf("expected cleared idle round, got %+v", s)
	}
	if _, ok := f.ctrl.HandleEvent(f.nextEvent(t)); ok {
		t.Fatalf("expected capture from previous round to be ignored")
	}
}

func TestLateResultFromPreviousRoundIgnored(t *testing.T) {
	rec := &mock.Recognizer{Responses: make(chan mock.Response, 1), IgnoreCancel: true}
	f := newFixture(t, rec, "hello", "world")
	if err := f.ctrl.ToggleCapture(); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	f.ctrl.StartNewRound()
	rec.Responses <- mock.Response{Transcript: "hello"}

	if _, ok := f.ctrl.HandleEvent(f.nextEvent(t)); ok {
		t.Fatalf("expected late result to be ignored")
	}
	s := f.ctrl.State()
	if s.Last != nil || s.Word != "world" {
		t.Fatalf("late result leaked into new round: %+v", s)
	}
	if f.ctrl.Tally().Count() != 0 {
		t.Fatalf("late result must not be tallied")
	}
}

func TestLateResultAfterStopInSameRoundIsScored(t *testing.T) {
	rec := &mock.Recognizer{Responses: make(chan mock.Response, 1), IgnoreCancel: true}
	f := newFixture(t, rec)
	if err := f.ctrl.ToggleCapture(); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := f.ctrl.ToggleCapture(); err != nil {
		t.Fatalf("stop: %v", err)
	}
	rec.Responses <- mock.Response{Transcript: "hello"}
	out, ok := f.ctrl.HandleEvent(f.nextEvent(t))
	if !ok || out.Attempt == nil || out.Attempt.Result.Score != 100 {
		t.Fatalf("expected late result to be scored once, got %+v", out)
	}
}

func TestAnnounceCurrentWord(t *testing.T) {
	f := newFixture(t, scripted(), "pronunciation")
	if !f.ctrl.CanAnnounce() {
		t.Fatalf("expected synthesis to be available")
	}
	f.ctrl.AnnounceCurrentWord()
	select {
	case got := <-f.synth.Spoken:
		if got != "pronunciation" {
			t.Fatalf("expected current word, got %q", got)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("announcement not spoken")
	}
	if f.ctrl.State().Last != nil {
		t.Fatalf("announcing must not touch the session state")
	}
}

func TestStateReturnsCopy(t *testing.T) {
	f := newFixture(t, scripted())
	f.attempt(t, mock.Response{Transcript: "hello"})

	s := f.ctrl.State()
	s.Last.Transcript = "mutated"
	s.Word = "mutated"
	if got := f.ctrl.State(); got.Last.Transcript != "hello" || got.Word != "hello" {
		t.Fatalf("state was mutated through copy: %+v", got)
	}
}

func TestCloseStopsCapture(t *testing.T) {
	f := newFixture(t, scripted())
	if err := f.ctrl.ToggleCapture(); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	f.ctrl.Close()
	if f.ctrl.State().Status != model.StatusIdle {
		t.Fatalf("expected idle after close")
	}
	if err := f.ctrl.ToggleCapture(); !errors.Is(err, capture.ErrClosed) {
		t.Fatalf("expected ErrClosed after close, got %v", err)
	}
}
