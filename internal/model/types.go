// Package model defines shared data structures.
package model

import "fmt"

// Config defines practice settings.
type Config struct {
	Locale        string
	WordListPath  string
	Recognizer    string
	Synthesizer   string
	RecordCommand string
	RecordSeconds int
	Transcribe    string
	SynthCommand  string
	WhisperURL    string
	WhisperModel  string
	GoogleCreds   string
}

// CaptureStatus is the lifecycle state of a speech capture.
type CaptureStatus int

const (
	// StatusIdle means no recognition is in flight.
	StatusIdle CaptureStatus = iota
	// StatusListening means one utterance is being captured.
	StatusListening
)

// String returns the string representation of the status.
func (s CaptureStatus) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusListening:
		return "listening"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}

// Category is the coarse feedback bucket for a score.
type Category int

const (
	// NeedsWork is any score below 70.
	NeedsWork Category = iota
	// Good covers scores from 70 to 89.
	Good
	// Excellent covers scores of 90 and above.
	Excellent
)

// String returns the string representation of the category.
func (c Category) String() string {
	switch c {
	case Excellent:
		return "excellent"
	case Good:
		return "good"
	case NeedsWork:
		return "needs-work"
	default:
		return fmt.Sprintf("unknown(%d)", int(c))
	}
}

// Message returns the feedback line shown to the learner.
func (c Category) Message() string {
	switch c {
	case Excellent:
		return "Excellent pronunciation!"
	case Good:
		return "Good job! Keep practicing."
	default:
		return "Try again. Focus on each sound."
	}
}

// Result is the evaluation of one transcript against one target word.
type Result struct {
	Distance    int
	Similarity  float64
	Score       int
	Category    Category
	SoundsAlike bool
}

// Attempt pairs a transcript with the result computed from it.
type Attempt struct {
	Transcript string
	Result     Result
}

// SessionState is the practice state exposed to the presentation layer.
// Last is nil until the current word has a scored attempt.
type SessionState struct {
	Word   string
	Round  int
	Status CaptureStatus
	Last   *Attempt
}
