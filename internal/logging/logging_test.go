package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestInitWritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "tuisay.log")
	closer, err := Init(Config{Level: "debug", File: path})
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	l := WithComponent("capture")
	l.Debug().Uint64("attempt", 3).Msg("capture started")
	if err := closer.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(data), &entry); err != nil {
		t.Fatalf("expected one JSON line, got %q: %v", data, err)
	}
	if entry["component"] != "capture" || entry["message"] != "capture started" {
		t.Fatalf("unexpected entry: %v", entry)
	}
}

func TestInitConsoleRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	if _, err := Init(Config{Level: "warn", Console: true, Out: &buf}); err != nil {
		t.Fatalf("init: %v", err)
	}
	defer zerolog.SetGlobalLevel(zerolog.InfoLevel)

	logger := WithComponent("doctor")
	logger.Info().Msg("hidden")
	logger.Warn().Msg("shown")
	out := buf.String()
	if strings.Contains(out, "hidden") || !strings.Contains(out, "shown") {
		t.Fatalf("unexpected console output: %q", out)
	}
}

func TestInitInvalidLevelFallsBackToInfo(t *testing.T) {
	if _, err := Init(Config{Level: "loud"}); err != nil {
		t.Fatalf("init: %v", err)
	}
	if zerolog.GlobalLevel() != zerolog.InfoLevel {
		t.Fatalf("expected info level, got %s", zerolog.GlobalLevel())
	}
}
