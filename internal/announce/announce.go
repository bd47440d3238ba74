// Package announce speaks target words through the configured synthesizer.
package announce

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/verte-zerg/tuisay/internal/speech"
)

// DefaultTimeout bounds a single utterance.
const DefaultTimeout = 10 * time.Second

// Announcer plays one utterance at a time. Speak never blocks the caller and
// never returns an error: playback failures are logged.
type Announcer struct {
	synth   speech.Synthesizer
	locale  string
	log     zerolog.Logger
	timeout time.Duration

	mu     sync.Mutex
	cancel context.CancelFunc
	warned bool
	closed bool
	wg     sync.WaitGroup
}

// New returns an Announcer. A nil synthesizer makes Speak a no-op that
// warns once.
func New(synth speech.Synthesizer, locale string, log zerolog.Logger) *Announcer {
	return &Announcer{
		synth:   synth,
		locale:  locale,
		log:     log,
		timeout: DefaultTimeout,
	}
}

// Available reports whether a synthesizer is configured.
func (a *Announcer) Available() bool {
	return a.synth != nil
}

// Speak starts speaking text, cancelling any utterance still playing.
func (a *Announcer) Speak(text string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed || text == "" {
		return
	}
	if a.synth == nil {
		if !a.warned {
			a.warned = true
			a.log.Warn().Msg("speech synthesis unavailable; announcements disabled")
		}
		return
	}
	if a.cancel != nil {
		a.cancel()
	}
	ctx, cancel := context.WithTimeout(context.Background(), a.timeout)
	a.cancel = cancel

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		defer cancel()
		err := a.synth.Speak(ctx, text, a.locale)
		switch {
		case err == nil:
			a.log.Debug().Str("text", text).Msg("announced")
		case ctx.Err() == context.Canceled:
			a.log.Debug().Str("text", text).Msg("announcement interrupted")
		default:
			a.log.Warn().Err(err).Str("synthesizer", a.synth.Name()).Msg("announcement failed")
		}
	}()
}

// Close cancels any utterance and waits for playback to finish.
func (a *Announcer) Close() {
	a.mu.Lock()
	a.closed = true
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
	a.mu.Unlock()
	a.wg.Wait()
}
