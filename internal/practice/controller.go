// Package practice drives one pronunciation practice run: it owns the
// session state, starts and stops captures, scores results and keeps the
// run's tally.
package practice

import (
	"github.com/rs/zerolog"

	"github.com/verte-zerg/tuisay/internal/announce"
	"github.com/verte-zerg/tuisay/internal/capture"
	"github.com/verte-zerg/tuisay/internal/model"
	"github.com/verte-zerg/tuisay/internal/scorer"
	"github.com/verte-zerg/tuisay/internal/stats"
)

// Picker supplies target words.
type Picker interface {
	Pick() string
}

// Outcome is what the presentation layer should show for an applied
// capture event. Exactly one field is set.
type Outcome struct {
	Attempt *model.Attempt
	Err     error
}

// Controller exclusively owns the session state. It is not safe for
// concurrent use and is driven from a single event loop.
type Controller struct {
	words     Picker
	capture   *capture.Session
	announcer *announce.Announcer
	tally     *stats.Tally
	log       zerolog.Logger

	state model.SessionState
	// roundAttempt is the capture attempt started in the current round, zero
	// when none is outstanding.
	roundAttempt uint64
	// pending holds the previous result while a capture is in flight so a
	// failed or stopped capture can put it back.
	pending *model.Attempt
}

// New returns a controller positioned on the first round.
func New(words Picker, cs *capture.Session, an *announce.Announcer, log zerolog.Logger) *Controller {
	c := &Controller{
		words:     words,
		capture:   cs,
		announcer: an,
		tally:     stats.NewTally(),
		log:       log,
	}
	c.StartNewRound()
	return c
}

// StartNewRound stops any in-flight capture, picks a new word and clears
// the previous result.
func (c *Controller) StartNewRound() {
	c.capture.Stop()
	c.roundAttempt = 0
	c.pending = nil
	c.state = model.SessionState{
		Word:   c.words.Pick(),
		Round:  c.state.Round + 1,
		Status: c.capture.Status(),
	}
	c.log.Debug().Int("round", c.state.Round).Str("word", c.state.Word).Msg("new round")
}

// ToggleCapture starts a capture when idle and stops it when listening.
// It returns speech.ErrCapabilityUnavailable when recognition is missing.
func (c *Controller) ToggleCapture() error {
	if c.capture.Status() == model.StatusListening {
		c.capture.Stop()
		c.restore()
		c.state.Status = c.capture.Status()
		return nil
	}
	id, err := c.capture.Start()
	c.state.Status = c.capture.Status()
	if err != nil {
		c.log.Warn().Err(err).Msg("capture not started")
		return err
	}
	c.roundAttempt = id
	c.pending = c.state.Last
	c.state.Last = nil
	return nil
}

// HandleEvent applies a capture event and reports whether it changed what
// should be shown. Events from earlier rounds or superseded attempts are
// ignored.
func (c *Controller) HandleEvent(ev capture.Event) (Outcome, bool) {
	applied := c.capture.Accept(ev)
	c.state.Status = c.capture.Status()
	if !applied {
		if ev.Attempt == c.roundAttempt {
			c.restore()
		}
		return Outcome{}, false
	}
	if c.roundAttempt == 0 || ev.Attempt != c.roundAttempt {
		c.log.Debug().Uint64("attempt", ev.Attempt).Msg("event from previous round ignored")
		return Outcome{}, false
	}
	if ev.Err != nil {
		c.restore()
		return Outcome{Err: ev.Err}, true
	}

	attempt := &model.Attempt{
		Transcript: ev.Transcript,
		Result:     scorer.Evaluate(c.state.Word, ev.Transcript),
	}
	c.state.Last = attempt
	c.pending = nil
	c.tally.Record(c.state.Word, attempt.Result)
	c.log.Info().
		Str("word", c.state.Word).
		Str("transcript", attempt.Transcript).
		Int("score", attempt.Result.Score).
		Stringer("category", attempt.Result.Category).
		Msg("attempt scored")
	out := *attempt
	return Outcome{Attempt: &out}, true
}

func (c *Controller) restore() {
	if c.state.Last == nil {
		c.state.Last = c.pending
	}
	c.pending = nil
}

// AnnounceCurrentWord speaks the current word.
func (c *Controller) AnnounceCurrentWord() {
	c.announcer.Speak(c.state.Word)
}

// CanAnnounce reports whether speech synthesis is available.
func (c *Controller) CanAnnounce() bool {
	return c.announcer.Available()
}

// CanCapture reports whether speech recognition is available.
func (c *Controller) CanCapture() bool {
	return c.capture.Available()
}

// Events delivers capture outcomes to be passed to HandleEvent.
func (c *Controller) Events() <-chan capture.Event {
	return c.capture.Events()
}

// State returns a copy of the session state.
func (c *Controller) State() model.SessionState {
	s := c.state
	if s.Last != nil {
		last := *s.Last
		s.Last = &last
	}
	return s
}

// Tally returns the scores recorded during this run.
func (c *Controller) Tally() *stats.Tally {
	return c.tally
}

// Close stops any capture and any announcement in progress.
func (c *Controller) Close() {
	c.capture.Close()
	c.announcer.Close()
	c.state.Status = c.capture.Status()
}
