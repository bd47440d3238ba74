package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/verte-zerg/tuisay/internal/config"
	"github.com/verte-zerg/tuisay/internal/model"
	"github.com/verte-zerg/tuisay/internal/speech"
	"github.com/verte-zerg/tuisay/internal/speech/command"
	"github.com/verte-zerg/tuisay/internal/speech/google"
	"github.com/verte-zerg/tuisay/internal/speech/whisper"
	"github.com/verte-zerg/tuisay/internal/wordbank"
	"github.com/verte-zerg/tuisay/internal/wordlist"
)

// backends holds the detected speech capabilities and whatever must be
// released when the program exits.
type backends struct {
	Capabilities speech.Capabilities
	closers      []func() error
}

// Close releases backend clients.
func (b *backends) Close() {
	for _, closeFn := range b.closers {
		if err := closeFn(); err != nil {
			log.Warn().Err(err).Msg("failed to close speech backend")
		}
	}
}

// openBackends builds the configured backends and runs the capability check
// once. A backend that fails to initialize is reported as unavailable.
func openBackends(ctx context.Context, cfg model.Config) (*backends, error) {
	b := &backends{}
	recorder := speech.NewRecorder(cfg.RecordCommand, cfg.RecordSeconds)

	var rec speech.Recognizer
	switch cfg.Recognizer {
	case "none":
	case "command":
		rec = command.NewRecognizer(cfg.Transcribe)
	case "whisper":
		w, err := whisper.New(cfg.WhisperURL, recorder, whisper.WithModel(cfg.WhisperModel))
		if err != nil {
			return nil, fmt.Errorf("failed to configure whisper recognizer: %w", err)
		}
		rec = w
	case "google":
		g, err := google.New(ctx, recorder, cfg.GoogleCreds)
		if err != nil {
			log.Warn().Err(err).Msg("google recognizer unavailable")
			break
		}
		b.closers = append(b.closers, g.Close)
		rec = g
	default:
		return nil, fmt.Errorf("unknown recognizer %q", cfg.Recognizer)
	}

	var syn speech.Synthesizer
	switch cfg.Synthesizer {
	case "none":
	case "command":
		syn = command.NewSynthesizer(cfg.SynthCommand)
	default:
		return nil, fmt.Errorf("unknown synthesizer %q", cfg.Synthesizer)
	}

	b.Capabilities = speech.Detect(rec, syn)
	if !b.Capabilities.Recognition {
		log.Warn().Str("recognizer", cfg.Recognizer).Msg("speech recognition unavailable")
	}
	if !b.Capabilities.Synthesis {
		log.Warn().Str("synthesizer", cfg.Synthesizer).Msg("speech synthesis unavailable")
	}
	return b, nil
}

// loadVocabulary returns the practice words and a description of where they
// came from. An explicit word list must load; the per-language default list
// is used only when present.
func loadVocabulary(cfg model.Config) ([]string, string, error) {
	keep := wordlist.FilterForLang(cfg.Locale)
	if cfg.WordListPath != "" {
		words, err := wordlist.LoadWords(cfg.WordListPath, keep)
		if err != nil {
			return nil, "", fmt.Errorf("failed to load word list %s: %w", cfg.WordListPath, err)
		}
		return words, cfg.WordListPath, nil
	}
	path := config.DefaultWordListPath(speech.BaseLanguage(cfg.Locale))
	if _, err := os.Stat(path); err == nil {
		words, err := wordlist.LoadWords(path, keep)
		if err != nil {
			return nil, "", fmt.Errorf("failed to load word list %s: %w", path, err)
		}
		return words, path, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, "", fmt.Errorf("failed to stat word list: %w", err)
	}
	return wordbank.Builtin(), "built-in vocabulary", nil
}

func newBank(words []string) (*wordbank.Bank, error) {
	bank, err := wordbank.New(words, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build word bank: %w", err)
	}
	return bank, nil
}
