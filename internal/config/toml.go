// Package config loads tuisay settings from the TOML file and the
// environment, and provides XDG path helpers.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file. Pointer fields stay nil
// when a key is absent so callers can tell unset from zero.
type FileConfig struct {
	Practice PracticeConfig `toml:"practice"`
	Speech   SpeechConfig   `toml:"speech"`
	Log      LogConfig      `toml:"log"`
}

// PracticeConfig maps practice-related settings.
type PracticeConfig struct {
	Locale   *string `toml:"locale"`
	WordList *string `toml:"wordlist"`
}

// SpeechConfig selects and configures the speech backends.
type SpeechConfig struct {
	Recognizer        *string `toml:"recognizer"`
	Synthesizer       *string `toml:"synthesizer"`
	RecordCommand     *string `toml:"record-command"`
	RecordSeconds     *int    `toml:"record-seconds"`
	TranscribeCommand *string `toml:"transcribe-command"`
	SynthCommand      *string `toml:"synth-command"`
	WhisperURL        *string `toml:"whisper-url"`
	WhisperModel      *string `toml:"whisper-model"`
	GoogleCredentials *string `toml:"google-credentials"`
}

// LogConfig maps logging settings.
type LogConfig struct {
	Level *string `toml:"level"`
	File  *string `toml:"file"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	return cfg, nil
}

// Load reads the TOML file at path and overlays TUISAY_* environment
// variables, loading dotenv first when it exists.
func Load(path, dotenv string) (FileConfig, error) {
	fileCfg, err := LoadConfig(path)
	if err != nil {
		return FileConfig{}, err
	}
	env, err := LoadEnv(dotenv)
	if err != nil {
		return FileConfig{}, err
	}
	return env.Overlay(fileCfg), nil
}
