package logx

import (
	"bufio"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"reelcut/internal/config"
	"reelcut/internal/paths"
)

func TestNewWritesJSONRecords(t *testing.T) {
	pp := paths.ProjectPaths{LogsDir: filepath.Join(t.TempDir(), "logs")}
	logger, closer, err := New(pp, config.LoggingConfig{Level: "debug", MaxSizeMB: 1})
	if err != nil {
		t.Fatal(err)
	}
	WithComponent(logger, "editor").Debug("dispatch", slog.String("action", "add_scene"))
	if err := closer.Close(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(filepath.Join(pp.LogsDir, LogFileName))
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	scanner := bufio.NewScanner(strings.NewReader(string(data)))
	var last string
	for scanner.Scan() {
		if s := strings.TrimSpace(scanner.Text()); s != "" {
			last = s
		}
	}
	var rec map[string]any
	if err := json.Unmarshal([]byte(last), &rec); err != nil {
		t.Fatalf("log line is not JSON: %v (%q)", err, last)
	}
	if rec["msg"] != "dispatch" || rec["component"] != "editor" || rec["action"] != "add_scene" {
		t.Fatalf("unexpected record %v", rec)
	}
}

func TestLevelFiltersRecords(t *testing.T) {
	dir := t.TempDir()
	logger, closer, err := NewInDir(dir, config.LoggingConfig{Level: "warn"})
	if err != nil {
		t.Fatal(err)
	}
	logger.Info("hidden")
	logger.Warn("shown")
	closer.Close()

	data, _ := os.ReadFile(filepath.Join(dir, LogFileName))
	if strings.Contains(string(data), "hidden") || !strings.Contains(string(data), "shown") {
		t.Fatalf("level filter not applied: %s", data)
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" WARN ":  slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
