package obslog

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNewJSONConsole(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(Options{Level: zapcore.InfoLevel, Console: true, Format: "json"}, &buf)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	l.Debug("hidden")
	l.Info("fog_move", zap.String("game_id", "g1"))
	_ = l.Sync()

	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("expected one json line, got %q: %v", buf.String(), err)
	}
	if entry["msg"] != "fog_move" || entry["game_id"] != "g1" || entry["level"] != "info" {
		t.Fatalf("unexpected entry: %v", entry)
	}
}

func TestNewWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "bot.log")
	l, err := New(Options{Level: zapcore.DebugLevel, File: path, Format: "console"}, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	l.Info("hello")
	_ = l.Sync()
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !bytes.Contains(raw, []byte("hello")) {
		t.Fatalf("log file missing entry: %q", raw)
	}
}

func TestOptionsFromEnv(t *testing.T) {
	t.Setenv("LOG_LEVEL", "warning")
	t.Setenv("LOG_TO_FILE", "false")
	t.Setenv("LOG_FORMAT", "xml")
	opts := OptionsFromEnv()
	if opts.Level != zapcore.WarnLevel {
		t.Fatalf("level = %v", opts.Level)
	}
	if opts.File != "" {
		t.Fatalf("file sink should be disabled, got %q", opts.File)
	}
	if opts.Format != "legacy" {
		t.Fatalf("unknown format should fall back to legacy, got %q", opts.Format)
	}
}

func TestSetNilKeepsNop(t *testing.T) {
	Set(nil)
	if L() == nil {
		t.Fatalf("L() must never be nil")
	}
}
