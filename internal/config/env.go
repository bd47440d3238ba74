package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix prefixes every environment variable read by LoadEnv.
const EnvPrefix = "TUISAY"

// EnvConfig holds settings taken from TUISAY_* environment variables. Field
// names map to variables by splitting on case: WhisperURL reads
// TUISAY_WHISPER_URL.
type EnvConfig struct {
	Locale            *string `split_words:"true"`
	Wordlist          *string `split_words:"true"`
	Recognizer        *string `split_words:"true"`
	Synthesizer       *string `split_words:"true"`
	RecordCommand     *string `split_words:"true"`
	RecordSeconds     *int    `split_words:"true"`
	TranscribeCommand *string `split_words:"true"`
	SynthCommand      *string `split_words:"true"`
	WhisperURL        *string `split_words:"true"`
	WhisperModel      *string `split_words:"true"`
	GoogleCredentials *string `split_words:"true"`
	LogLevel          *string `split_words:"true"`
	LogFile           *string `split_words:"true"`
}

// LoadEnv reads TUISAY_* variables. When dotenv names an existing file its
// entries are loaded first; variables already set in the process win.
func LoadEnv(dotenv string) (EnvConfig, error) {
	if dotenv != "" {
		if _, err := os.Stat(dotenv); err == nil {
			if err := godotenv.Load(dotenv); err != nil {
				return EnvConfig{}, fmt.Errorf("failed to load %s: %w", dotenv, err)
			}
		} else if !os.IsNotExist(err) {
			return EnvConfig{}, fmt.Errorf("failed to stat %s: %w", dotenv, err)
		}
	}
	var env EnvConfig
	if err := envconfig.Process(EnvPrefix, &env); err != nil {
		return EnvConfig{}, fmt.Errorf("failed to read environment: %w", err)
	}
	return env, nil
}

// Overlay returns cfg with every variable set in the environment applied
// on top.
func (e EnvConfig) Overlay(cfg FileConfig) FileConfig {
	overlay(&cfg.Practice.Locale, e.Locale)
	overlay(&cfg.Practice.WordList, e.Wordlist)
	overlay(&cfg.Speech.Recognizer, e.Recognizer)
	overlay(&cfg.Speech.Synthesizer, e.Synthesizer)
	overlay(&cfg.Speech.RecordCommand, e.RecordCommand)
	overlay(&cfg.Speech.RecordSeconds, e.RecordSeconds)
	overlay(&cfg.Speech.TranscribeCommand, e.TranscribeCommand)
	overlay(&cfg.Speech.SynthCommand, e.SynthCommand)
	overlay(&cfg.Speech.WhisperURL, e.WhisperURL)
	overlay(&cfg.Speech.WhisperModel, e.WhisperModel)
	overlay(&cfg.Speech.GoogleCredentials, e.GoogleCredentials)
	overlay(&cfg.Log.Level, e.LogLevel)
	overlay(&cfg.Log.File, e.LogFile)
	return cfg
}

func overlay[T any](target **T, value *T) {
	if value != nil {
		*target = value
	}
}
