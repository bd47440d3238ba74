// Package speech defines the recognition and synthesis backends used by the
// trainer, the errors they report and the capability check run at startup.
//
// A Recognizer captures and recognizes exactly one utterance per call; the
// caller cancels the context to abort it. A Synthesizer speaks one piece of
// text. Both are external collaborators: availability is detected once by
// Detect and consumers only read the resulting Capabilities.
package speech

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"os/exec"
	"strings"
)

// Recognition error codes.
const (
	CodeNoSpeech     = "no-speech"
	CodeNotAllowed   = "not-allowed"
	CodeAudioCapture = "audio-capture"
	CodeNetwork      = "network"
	CodeAborted      = "aborted"
	CodeEngine       = "engine"
)

var (
	// ErrCapabilityUnavailable is returned when the host has no usable
	// recognition or synthesis backend.
	ErrCapabilityUnavailable = errors.New("speech capability unavailable")
	// ErrNoSpeech is returned by backends that captured nothing usable.
	ErrNoSpeech = errors.New("no speech detected")
)

// Recognizer captures one utterance and returns its transcript.
type Recognizer interface {
	Name() string
	Available() bool
	Recognize(ctx context.Context, locale string) (string, error)
}

// Synthesizer speaks text aloud.
type Synthesizer interface {
	Name() string
	Available() bool
	Speak(ctx context.Context, text, locale string) error
}

// RecognitionError is an engine-level failure of one recognition attempt.
type RecognitionError struct {
	Code string
	Err  error
}

func (e *RecognitionError) Error() string {
	if e.Err == nil {
		return "recognition failed: " + e.Code
	}
	return fmt.Sprintf("recognition failed (%s): %v", e.Code, e.Err)
}

func (e *RecognitionError) Unwrap() error {
	return e.Err
}

// Aborted reports whether the attempt was cancelled by its caller.
func (e *RecognitionError) Aborted() bool {
	return e.Code == CodeAborted
}

// NewRecognitionError wraps err with code.
func NewRecognitionError(code string, err error) *RecognitionError {
	return &RecognitionError{Code: code, Err: err}
}

// Classify converts any backend error into a *RecognitionError. A nil error
// stays nil.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	var recErr *RecognitionError
	if errors.As(err, &recErr) {
		return recErr
	}
	var urlErr *url.Error
	var netErr net.Error
	switch {
	case errors.Is(err, context.Canceled):
		return NewRecognitionError(CodeAborted, err)
	case errors.Is(err, ErrNoSpeech):
		return NewRecognitionError(CodeNoSpeech, err)
	case errors.Is(err, os.ErrPermission):
		return NewRecognitionError(CodeNotAllowed, err)
	case errors.Is(err, exec.ErrNotFound):
		return NewRecognitionError(CodeAudioCapture, err)
	case errors.As(err, &urlErr), errors.As(err, &netErr):
		return NewRecognitionError(CodeNetwork, err)
	default:
		return NewRecognitionError(CodeEngine, err)
	}
}

// Capabilities is the result of the startup capability check. Recognizer and
// Synthesizer are nil when the matching flag is false.
type Capabilities struct {
	Recognition bool
	Synthesis   bool
	Recognizer  Recognizer
	Synthesizer Synthesizer
}

// Detect checks the configured backends once. Nil backends are unavailable.
func Detect(rec Recognizer, syn Synthesizer) Capabilities {
	var caps Capabilities
	if rec != nil && rec.Available() {
		caps.Recognition = true
		caps.Recognizer = rec
	}
	if syn != nil && syn.Available() {
		caps.Synthesis = true
		caps.Synthesizer = syn
	}
	return caps
}

// RecognizerName returns the active recognizer name or "none".
func (c Capabilities) RecognizerName() string {
	if c.Recognizer == nil {
		return "none"
	}
	return c.Recognizer.Name()
}

// SynthesizerName returns the active synthesizer name or "none".
func (c Capabilities) SynthesizerName() string {
	if c.Synthesizer == nil {
		return "none"
	}
	return c.Synthesizer.Name()
}

// BaseLanguage returns the language part of a locale ("en-US" -> "en").
func BaseLanguage(locale string) string {
	if i := strings.IndexAny(locale, "-_"); i >= 0 {
		return strings.ToLower(locale[:i])
	}
	return strings.ToLower(locale)
}

// ExpandArgs replaces {locale}, {lang} and {text} placeholders in args.
func ExpandArgs(args []string, locale, text string) []string {
	r := strings.NewReplacer("{locale}", locale, "{lang}", BaseLanguage(locale), "{text}", text)
	out := make([]string, len(args))
	for i, a := range args {
		out[i] = r.Replace(a)
	}
	return out
}

// AudioSource captures one utterance of raw 16-bit mono PCM.
type AudioSource interface {
	Available() bool
	SampleRate() int
	Record(ctx context.Context) ([]byte, error)
}
