package logging

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func readEntries(t *testing.T, path string) []LogEntry {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}

	var entries []LogEntry
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		var entry LogEntry
		if err := json.Unmarshal(scanner.Bytes(), &entry); err != nil {
			t.Fatalf("Failed to parse log entry %q: %v", scanner.Text(), err)
		}
		entries = append(entries, entry)
	}
	return entries
}

func TestFileLogger_WritesJSONLines(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "logs", "gacl.log")

	logger, err := NewFileLogger(FileLoggerConfig{FilePath: logPath, Level: DEBUG})
	if err != nil {
		t.Fatalf("NewFileLogger() error = %v", err)
	}

	logger.Debug("debug message")
	logger.Info("info message", F("rowsEmitted", 2), F("error", errors.New("boom")))
	logger.WithTraceID("trace-abc").Warn("warn message")

	if err := logger.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	entries := readEntries(t, logPath)
	if len(entries) != 3 {
		t.Fatalf("Expected 3 entries, got %d", len(entries))
	}
	if entries[0].Level != "DEBUG" || entries[1].Level != "INFO" || entries[2].Level != "WARN" {
		t.Errorf("unexpected levels: %v %v %v", entries[0].Level, entries[1].Level, entries[2].Level)
	}
	if entries[1].Fields["rowsEmitted"] != float64(2) {
		t.Errorf("rowsEmitted = %v, want 2", entries[1].Fields["rowsEmitted"])
	}
	if entries[1].Fields["error"] != "boom" {
		t.Errorf("error field = %v, want boom", entries[1].Fields["error"])
	}
	if entries[2].TraceID != "trace-abc" {
		t.Errorf("TraceID = %q, want trace-abc", entries[2].TraceID)
	}
}

func TestFileLogger_SetLevel(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "test.log")

	logger, err := NewFileLogger(FileLoggerConfig{FilePath: logPath, Level: DEBUG})
	if err != nil {
		t.Fatalf("NewFileLogger() error = %v", err)
	}

	logger.Debug("debug 1")
	logger.SetLevel(ERROR)
	logger.Debug("debug 2")
	logger.Info("info 2")
	logger.Error("error 1")
	logger.Close()

	if entries := readEntries(t, logPath); len(entries) != 2 {
		t.Errorf("Expected 2 log entries, got %d", len(entries))
	}
}

func TestFileLogger_Rotation(t *testing.T) {
	tempDir := t.TempDir()
	logPath := filepath.Join(tempDir, "test.log")

	logger, err := NewFileLogger(FileLoggerConfig{
		FilePath:      logPath,
		Level:         INFO,
		MaxFileSize:   100,
		RotateEnabled: true,
	})
	if err != nil {
		t.Fatalf("NewFileLogger() error = %v", err)
	}

	for i := 0; i < 5; i++ {
		logger.Info("a message long enough to push the file past its size limit")
	}
	logger.Close()

	files, err := filepath.Glob(filepath.Join(tempDir, "test.log*"))
	if err != nil {
		t.Fatalf("Failed to glob log files: %v", err)
	}
	if len(files) < 2 {
		t.Errorf("Expected at least 2 log files (original + rotated), got %d", len(files))
	}
}

func TestFileLogger_WriteAfterClose(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "test.log")

	logger, err := NewFileLogger(FileLoggerConfig{FilePath: logPath, Level: INFO})
	if err != nil {
		t.Fatalf("NewFileLogger() error = %v", err)
	}
	logger.Close()

	logger.Info("dropped")
	if err := logger.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
	if entries := readEntries(t, logPath); len(entries) != 0 {
		t.Errorf("Expected no entries after close, got %d", len(entries))
	}
}
