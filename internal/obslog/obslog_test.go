package obslog

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNewJSONConsole(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "debug", Console: true, Format: "json", Stdout: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logger.Debug("position_load", zap.Int("id", 518))
	_ = logger.Sync()

	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("unmarshal %q: %v", buf.String(), err)
	}
	if entry["msg"] != "position_load" || entry["level"] != "debug" {
		t.Fatalf("unexpected entry: %v", entry)
	}
}

func TestInteractiveDropsConsole(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Console: true, Interactive: true, Stdout: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logger.Info("hidden")
	if buf.Len() != 0 {
		t.Fatalf("interactive logger wrote to console: %q", buf.String())
	}
}

func TestFileCore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "viewer.log")
	logger, err := New(Options{ToFile: true, FilePath: path, Format: "legacy", Interactive: true})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logger.Warn("surface_mount_failed")
	_ = logger.Sync()
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(raw), "WARN | ") || !strings.Contains(string(raw), "surface_mount_failed") {
		t.Fatalf("unexpected log line: %q", raw)
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		" WARN ":  zapcore.WarnLevel,
		"warning": zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
		"bogus":   zapcore.InfoLevel,
	}
	for in, want := range cases {
		if got := parseLevel(in); got != want {
			t.Fatalf("parseLevel(%q)=%v want=%v", in, got, want)
		}
	}
}
