// Package command provides speech backends that shell out to local tools.
//
// The Recognizer runs a user-supplied transcribe command that records one
// utterance and prints its transcript on stdout. The Synthesizer runs a text
// to speech tool such as espeak-ng or say.
package command

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/verte-zerg/tuisay/internal/speech"
)

var (
	_ speech.Recognizer  = (*Recognizer)(nil)
	_ speech.Synthesizer = (*Synthesizer)(nil)
)

// synthCandidates are tried in order when no synth command is configured.
var synthCandidates = [][]string{
	{"espeak-ng", "-v", "{locale}", "{text}"},
	{"espeak", "-v", "{lang}", "{text}"},
	{"say", "{text}"},
}

type runner func(ctx context.Context, argv []string) (string, error)

// Recognizer runs an external transcribe command.
type Recognizer struct {
	argv []string
	run  runner
}

// NewRecognizer returns a Recognizer for command. Placeholders {locale} and
// {lang} are expanded on every call.
func NewRecognizer(command string) *Recognizer {
	return &Recognizer{argv: strings.Fields(command), run: runOutput}
}

// Name implements speech.Recognizer.
func (r *Recognizer) Name() string {
	if len(r.argv) == 0 {
		return "command"
	}
	return "command:" + r.argv[0]
}

// Available implements speech.Recognizer.
func (r *Recognizer) Available() bool {
	return lookPath(r.argv)
}

// Recognize implements speech.Recognizer.
func (r *Recognizer) Recognize(ctx context.Context, locale string) (string, error) {
	if len(r.argv) == 0 {
		return "", speech.ErrCapabilityUnavailable
	}
	out, err := r.run(ctx, speech.ExpandArgs(r.argv, locale, ""))
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// Synthesizer runs an external text to speech command.
type Synthesizer struct {
	argv []string
	run  runner
}

// NewSynthesizer returns a Synthesizer for command. An empty command picks
// the first installed tool among espeak-ng, espeak and say. Text is appended
// when the command has no {text} placeholder.
func NewSynthesizer(command string) *Synthesizer {
	argv := strings.Fields(command)
	if len(argv) == 0 {
		for _, candidate := range synthCandidates {
			if lookPath(candidate) {
				argv = candidate
				break
			}
		}
	} else if !strings.Contains(command, "{text}") {
		argv = append(argv, "{text}")
	}
	return &Synthesizer{argv: argv, run: runOutput}
}

// Name implements speech.Synthesizer.
func (s *Synthesizer) Name() string {
	if len(s.argv) == 0 {
		return "command"
	}
	return "command:" + s.argv[0]
}

// Available implements speech.Synthesizer.
func (s *Synthesizer) Available() bool {
	return lookPath(s.argv)
}

// Speak implements speech.Synthesizer.
func (s *Synthesizer) Speak(ctx context.Context, text, locale string) error {
	if len(s.argv) == 0 {
		return speech.ErrCapabilityUnavailable
	}
	_, err := s.run(ctx, speech.ExpandArgs(s.argv, strings.ToLower(locale), text))
	return err
}

func lookPath(argv []string) bool {
	if len(argv) == 0 {
		return false
	}
	_, err := exec.LookPath(argv[0])
	return err == nil
}

func runOutput(ctx context.Context, argv []string) (string, error) {
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return "", fmt.Errorf("%s: %w: %s", argv[0], err, msg)
		}
		return "", fmt.Errorf("%s: %w", argv[0], err)
	}
	return string(out), nil
}
