package cli

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func restoreLogger(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })
}

func TestSetupLogging_File(t *testing.T) {
	restoreLogger(t)
	logFile := filepath.Join(t.TempDir(), "Logs", "log.txt")
	if err := os.MkdirAll(filepath.Dir(logFile), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(logFile, []byte("previous run\n"), 0644); err != nil {
		t.Fatal(err)
	}

	var stderr bytes.Buffer
	closer, err := SetupLogging(LogOptions{
		File:   logFile,
		Header: []string{"AudioProject - Run Started", "Version: 1.21.4"},
		Stderr: &stderr,
	})
	if err != nil {
		t.Fatal(err)
	}
	slog.Info("run: start", "version", "1.21.4")
	slog.Debug("run: hidden")
	if err := closer.Close(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatal(err)
	}
	got := string(data)
	if strings.Contains(got, "previous run") {
		t.Error("log file was not truncated")
	}
	for _, want := range []string{strings.Repeat("=", 60), "Version: 1.21.4", "Timestamp: ", "msg=\"run: start\""} {
		if !strings.Contains(got, want) {
			t.Errorf("log file missing %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, "hidden") {
		t.Error("debug record written without Verbose")
	}
	if !strings.Contains(stderr.String(), "run: start") || strings.Contains(stderr.String(), "Version:") {
		t.Errorf("stderr = %q", stderr.String())
	}
}

func TestSetupLogging_JSONVerbose(t *testing.T) {
	restoreLogger(t)
	var stderr bytes.Buffer
	closer, err := SetupLogging(LogOptions{JSON: true, Verbose: true, Stderr: &stderr})
	if err != nil {
		t.Fatal(err)
	}
	defer closer.Close()
	slog.Debug("pipeline: skip", "key", "block.stone")

	var rec map[string]any
	if err := json.Unmarshal(stderr.Bytes(), &rec); err != nil {
		t.Fatalf("not JSON: %q", stderr.String())
	}
	if rec["msg"] != "pipeline: skip" || rec["key"] != "block.stone" || rec["level"] != "DEBUG" {
		t.Errorf("record = %v", rec)
	}
}
