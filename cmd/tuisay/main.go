// Package main provides the CLI entrypoint for tuisay.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/verte-zerg/tuisay/internal/announce"
	"github.com/verte-zerg/tuisay/internal/capture"
	"github.com/verte-zerg/tuisay/internal/config"
	"github.com/verte-zerg/tuisay/internal/logging"
	"github.com/verte-zerg/tuisay/internal/model"
	"github.com/verte-zerg/tuisay/internal/practice"
	"github.com/verte-zerg/tuisay/internal/scorer"
	"github.com/verte-zerg/tuisay/internal/speech"
	"github.com/verte-zerg/tuisay/internal/stats"
	"github.com/verte-zerg/tuisay/internal/tui"
)

const (
	defaultLocale      = "en-US"
	defaultRecognizer  = "whisper"
	defaultSynthesizer = "command"
	defaultWhisperURL  = "http://127.0.0.1:8080"
	defaultLogLevel    = "info"
	trendWindow        = 5
)

var (
	practiceLocale   string
	practiceWordList string

	speechRecognizer  string
	speechSynthesizer string
	speechRecordCmd   string
	speechRecordSecs  int
	speechTranscribe  string
	speechSynthCmd    string
	speechWhisperURL  string
	speechWhisperMdl  string
	speechGoogleCreds string

	logLevel string
	logFile  string
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "tuisay",
		Short:         "TUI pronunciation trainer",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPracticeCmd,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&practiceLocale, "locale", defaultLocale, "recognition and synthesis locale")
	flags.StringVar(&practiceWordList, "wordlist", "", "word list file, one word per line (default: built-in words)")
	flags.StringVar(&speechRecognizer, "recognizer", defaultRecognizer, "speech recognizer: none, command, whisper or google")
	flags.StringVar(&speechSynthesizer, "synthesizer", defaultSynthesizer, "speech synthesizer: none or command")
	flags.StringVar(&speechRecordCmd, "record-command", "", "command writing raw 16 kHz S16LE mono PCM to stdout (default: arecord)")
	flags.IntVar(&speechRecordSecs, "record-seconds", speech.DefaultRecordSeconds, "seconds recorded per attempt")
	flags.StringVar(&speechTranscribe, "transcribe-command", "", "command that records and prints one transcript (command recognizer)")
	flags.StringVar(&speechSynthCmd, "synth-command", "", "text to speech command (default: espeak-ng, espeak or say)")
	flags.StringVar(&speechWhisperURL, "whisper-url", defaultWhisperURL, "whisper.cpp server base URL")
	flags.StringVar(&speechWhisperMdl, "whisper-model", "", "model name forwarded to the whisper server")
	flags.StringVar(&speechGoogleCreds, "google-credentials", "", "Google Cloud credentials file")
	flags.StringVar(&logLevel, "log-level", defaultLogLevel, "log level: debug, info, warn or error")
	flags.StringVar(&logFile, "log-file", "", "log file for the practice screen (default: XDG state dir)")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newDoctorCmd())
	rootCmd.AddCommand(newScoreCmd())
	rootCmd.AddCommand(newWordsCmd())

	return rootCmd
}

// resolveConfig layers defaults, the config file, the environment and flags.
func resolveConfig(cmd *cobra.Command) (model.Config, error) {
	fileCfg, err := config.Load(config.DefaultConfigPath(), config.DefaultDotenvPath())
	if err != nil {
		return model.Config{}, fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "locale", &practiceLocale, fileCfg.Practice.Locale)
	applyStringConfig(cmd, "wordlist", &practiceWordList, fileCfg.Practice.WordList)
	applyStringConfig(cmd, "recognizer", &speechRecognizer, fileCfg.Speech.Recognizer)
	applyStringConfig(cmd, "synthesizer", &speechSynthesizer, fileCfg.Speech.Synthesizer)
	applyStringConfig(cmd, "record-command", &speechRecordCmd, fileCfg.Speech.RecordCommand)
	applyIntConfig(cmd, "record-seconds", &speechRecordSecs, fileCfg.Speech.RecordSeconds)
	applyStringConfig(cmd, "transcribe-command", &speechTranscribe, fileCfg.Speech.TranscribeCommand)
	applyStringConfig(cmd, "synth-command", &speechSynthCmd, fileCfg.Speech.SynthCommand)
	applyStringConfig(cmd, "whisper-url", &speechWhisperURL, fileCfg.Speech.WhisperURL)
	applyStringConfig(cmd, "whisper-model", &speechWhisperMdl, fileCfg.Speech.WhisperModel)
	applyStringConfig(cmd, "google-credentials", &speechGoogleCreds, fileCfg.Speech.GoogleCredentials)
	applyStringConfig(cmd, "log-level", &logLevel, fileCfg.Log.Level)
	applyStringConfig(cmd, "log-file", &logFile, fileCfg.Log.File)

	cfg := model.Config{
		Locale:        strings.TrimSpace(practiceLocale),
		WordListPath:  practiceWordList,
		Recognizer:    strings.ToLower(strings.TrimSpace(speechRecognizer)),
		Synthesizer:   strings.ToLower(strings.TrimSpace(speechSynthesizer)),
		RecordCommand: speechRecordCmd,
		RecordSeconds: speechRecordSecs,
		Transcribe:    speechTranscribe,
		SynthCommand:  speechSynthCmd,
		WhisperURL:    speechWhisperURL,
		WhisperModel:  speechWhisperMdl,
		GoogleCreds:   speechGoogleCreds,
	}
	if err := validateConfig(cfg); err != nil {
		return model.Config{}, err
	}
	return cfg, nil
}

func runPracticeCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("practice needs an interactive terminal; use `tuisay score` for offline scoring")
	}

	path := logFile
	if path == "" {
		path = config.DefaultLogPath()
	}
	closer, err := logging.Init(logging.Config{Level: logLevel, File: path})
	if err != nil {
		return err
	}
	defer func() { _ = closer.Close() }()

	words, source, err := loadVocabulary(cfg)
	if err != nil {
		return err
	}
	bank, err := newBank(words)
	if err != nil {
		return err
	}

	ctx := context.Background()
	sb, err := openBackends(ctx, cfg)
	if err != nil {
		return err
	}
	defer sb.Close()
	caps := sb.Capabilities
	log.Info().
		Str("recognizer", caps.RecognizerName()).
		Str("synthesizer", caps.SynthesizerName()).
		Str("locale", cfg.Locale).
		Str("words", source).
		Msg("practice started")

	cs := capture.New(caps.Recognizer, cfg.Locale, logging.WithComponent("capture"))
	an := announce.New(caps.Synthesizer, cfg.Locale, logging.WithComponent("announce"))
	ctrl := practice.New(bank, cs, an, logging.WithComponent("practice"))

	program := tea.NewProgram(tui.NewModel(ctrl), tea.WithAltScreen())
	_, runErr := program.Run()
	ctrl.Close()
	if runErr != nil {
		return fmt.Errorf("failed to run TUI: %w", runErr)
	}

	out := cmd.OutOrStdout()
	if err := stats.RenderSummary(out, ctrl.Tally()); err != nil {
		return fmt.Errorf("failed to write summary: %w", err)
	}
	if err := stats.RenderTrend(out, ctrl.Tally(), trendWindow, 0, 0, false); err != nil {
		return fmt.Errorf("failed to write trend: %w", err)
	}
	return nil
}

func newScoreCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "score <target> <attempt>",
		Short: "Score a transcript against a target word",
		Long: "Score a transcript against a target word.\n\n" +
			"The attempt is lower-cased and stripped of surrounding whitespace and\n" +
			"punctuation first, so \"Hello.\" scores the same as \"hello\".",
		Args: cobra.ExactArgs(2),
		RunE: runScoreCmd,
	}
}

func runScoreCmd(cmd *cobra.Command, args []string) error {
	target := strings.ToLower(strings.TrimSpace(args[0]))
	if target == "" {
		return fmt.Errorf("target word must not be empty")
	}
	attempt := scorer.Normalize(args[1])
	return writeScore(cmd.OutOrStdout(), target, attempt, scorer.Evaluate(target, attempt))
}

func writeScore(w io.Writer, target, attempt string, r model.Result) error {
	alike := "no"
	if r.SoundsAlike {
		alike = "yes"
	}
	lines := []string{
		fmt.Sprintf("target:       %s", target),
		fmt.Sprintf("attempt:      %q", attempt),
		fmt.Sprintf("distance:     %d", r.Distance),
		fmt.Sprintf("similarity:   %.3f", r.Similarity),
		fmt.Sprintf("score:        %d", r.Score),
		fmt.Sprintf("feedback:     %s (%s)", r.Category, r.Category.Message()),
		fmt.Sprintf("sounds alike: %s", alike),
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func newWordsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "words",
		Short: "Print the practice vocabulary",
		Args:  cobra.NoArgs,
		RunE:  runWordsCmd,
	}
}

func runWordsCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	words, source, err := loadVocabulary(cfg)
	if err != nil {
		return err
	}
	logErrf("%d words from %s\n", len(words), source)
	for _, word := range words {
		if _, err := fmt.Fprintln(cmd.OutOrStdout(), word); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func newDoctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check speech recognition and synthesis backends",
		Args:  cobra.NoArgs,
		RunE:  runDoctorCmd,
	}
}

func runDoctorCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	if _, err := logging.Init(logging.Config{Level: logLevel, Console: true}); err != nil {
		return err
	}
	sb, err := openBackends(context.Background(), cfg)
	if err != nil {
		return err
	}
	defer sb.Close()

	words, source, werr := loadVocabulary(cfg)
	wordsLine := fmt.Sprintf("%d words from %s", len(words), source)
	if werr != nil {
		wordsLine = werr.Error()
	}
	return writeDoctor(cmd.OutOrStdout(), cfg, sb.Capabilities, wordsLine)
}

func writeDoctor(w io.Writer, cfg model.Config, caps speech.Capabilities, wordsLine string) error {
	status := func(ok bool, name string) string {
		if ok {
			return "ok (" + name + ")"
		}
		return "unavailable"
	}
	lines := []string{
		fmt.Sprintf("config:       %s", config.DefaultConfigPath()),
		fmt.Sprintf("locale:       %s", cfg.Locale),
		fmt.Sprintf("recognition:  %s [configured: %s]", status(caps.Recognition, caps.RecognizerName()), cfg.Recognizer),
		fmt.Sprintf("synthesis:    %s [configured: %s]", status(caps.Synthesis, caps.SynthesizerName()), cfg.Synthesizer),
		fmt.Sprintf("words:        %s", wordsLine),
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil || cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil || cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# tuisay configuration
# Uncomment a value to enable it. TUISAY_* environment variables override
# these values and CLI flags override both.

[practice]
# locale = %q            # Recognition and synthesis locale
# wordlist = ""               # Word list file (default: built-in words)

[speech]
# recognizer = %q         # none, command, whisper or google
# synthesizer = %q        # none or command
# record-command = ""         # Raw 16 kHz S16LE mono PCM to stdout (default: arecord)
# record-seconds = %d          # Seconds recorded per attempt
# transcribe-command = ""     # Records and prints one transcript (command recognizer)
# synth-command = ""          # Text to speech command (default: espeak-ng, espeak or say)
# whisper-url = %q
# whisper-model = ""
# google-credentials = ""     # Service account JSON for the google recognizer

[log]
# level = %q
# file = ""                   # Default: %s
`,
		defaultLocale,
		defaultRecognizer,
		defaultSynthesizer,
		speech.DefaultRecordSeconds,
		defaultWhisperURL,
		defaultLogLevel,
		config.DefaultLogPath(),
	)
}

var (
	recognizers  = []string{"none", "command", "whisper", "google"}
	synthesizers = []string{"none", "command"}
)

func validateConfig(cfg model.Config) error {
	if cfg.Locale == "" {
		return fmt.Errorf("--locale must not be empty")
	}
	if !slices.Contains(recognizers, cfg.Recognizer) {
		return fmt.Errorf("--recognizer must be one of: %s", strings.Join(recognizers, ", "))
	}
	if !slices.Contains(synthesizers, cfg.Synthesizer) {
		return fmt.Errorf("--synthesizer must be one of: %s", strings.Join(synthesizers, ", "))
	}
	if cfg.RecordSeconds <= 0 {
		return fmt.Errorf("--record-seconds must be > 0")
	}
	if cfg.Recognizer == "command" && strings.TrimSpace(cfg.Transcribe) == "" {
		return fmt.Errorf("--transcribe-command is required with --recognizer=command")
	}
	if cfg.Recognizer == "whisper" && strings.TrimSpace(cfg.WhisperURL) == "" {
		return fmt.Errorf("--whisper-url must not be empty with --recognizer=whisper")
	}
	return nil
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
