package announce

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/verte-zerg/tuisay/internal/speech/mock"
)

type blockingSynth struct {
	started  chan string
	canceled chan string
}

func newBlockingSynth() *blockingSynth {
	return &blockingSynth{started: make(chan string, 4), canceled: make(chan string, 4)}
}

func (b *blockingSynth) Name() string    { return "blocking" }
func (b *blockingSynth) Available() bool { return true }
func (b *blockingSynth) Speak(ctx context.Context, text, _ string) error {
	b.started <- text
	<-ctx.Done()
	b.canceled <- text
	return ctx.Err()
}

func receive(t *testing.T, ch <-chan string) string {
	t.Helper()
	select {
	case v := <-ch:
		return v
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for synthesizer")
		return ""
	}
}

func TestSpeakUsesLocale(t *testing.T) {
	syn := &mock.Synthesizer{Spoken: make(chan string, 1)}
	a := New(syn, "en-GB", zerolog.Nop())
	defer a.Close()

	a.Speak("hello")
	if got := receive(t, syn.Spoken); got != "hello" {
		t.Fatalf("expected hello, got %q", got)
	}
	a.Close()
	if got := syn.Locales(); len(got) != 1 || got[0] != "en-GB" {
		t.Fatalf("expected locale en-GB, got %v", got)
	}
}

func TestSpeakCancelsPreviousUtterance(t *testing.T) {
	syn := newBlockingSynth()
	a := New(syn, "en-US", zerolog.Nop())

	a.Speak("hello")
	if got := receive(t, syn.started); got != "hello" {
		t.Fatalf("expected hello to start, got %q", got)
	}
	a.Speak("world")
	if got := receive(t, syn.canceled); got != "hello" {
		t.Fatalf("expected hello to be interrupted, got %q", got)
	}
	if got := receive(t, syn.started); got != "world" {
		t.Fatalf("expected world to start, got %q", got)
	}
	a.Close()
	if got := receive(t, syn.canceled); got != "world" {
		t.Fatalf("expected close to interrupt world, got %q", got)
	}
}

func TestSpeakWithoutSynthesizerIsNoop(t *testing.T) {
	a := New(nil, "en-US", zerolog.Nop())
	if a.Available() {
		t.Fatalf("expected unavailable announcer")
	}
	a.Speak("hello")
	a.Speak("world")
	if !a.warned {
		t.Fatalf("expected unavailable synthesizer to be reported")
	}
	a.Close()
}

func TestSpeakErrorsAreNotReturned(t *testing.T) {
	syn := &mock.Synthesizer{Err: errors.New("device busy")}
	a := New(syn, "en-US", zerolog.Nop())
	a.Speak("hello")
	a.Close()
	if got := syn.Texts(); len(got) != 1 {
		t.Fatalf("expected one attempt, got %v", got)
	}
}

func TestSpeakAfterCloseIsIgnored(t *testing.T) {
	syn := &mock.Synthesizer{}
	a := New(syn, "en-US", zerolog.Nop())
	a.Close()
	a.Speak("hello")
	a.Close()
	if got := syn.Texts(); len(got) != 0 {
		t.Fatalf("expected no speech after close, got %v", got)
	}
}
