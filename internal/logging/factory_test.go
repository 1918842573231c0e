package logging

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestDefaultLogConfig(t *testing.T) {
	config := DefaultLogConfig()

	if config.Level != INFO {
		t.Errorf("Expected Level=INFO, got %v", config.Level)
	}
	if !config.EnableConsole {
		t.Error("Expected EnableConsole=true")
	}
	if !config.RedactSensitive {
		t.Error("Expected RedactSensitive=true")
	}
	if config.MaxFileSize != 100*1024*1024 {
		t.Errorf("Expected MaxFileSize=104857600, got %v", config.MaxFileSize)
	}
}

func TestNewLogger_Selection(t *testing.T) {
	tempDir := t.TempDir()

	tests := []struct {
		name     string
		console  bool
		file     string
		wantType string
	}{
		{"console only", true, "", "*logging.ConsoleLogger"},
		{"file only", false, filepath.Join(tempDir, "file.log"), "*logging.FileLogger"},
		{"both", true, filepath.Join(tempDir, "both.log"), "*logging.MultiLogger"},
		{"neither", false, "", "*logging.NoOpLogger"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := NewLogger(LogConfig{
				Level:         INFO,
				EnableConsole: tt.console,
				OutputFile:    tt.file,
				MaxFileSize:   1024,
			})
			if err != nil {
				t.Fatalf("NewLogger() error = %v", err)
			}
			t.Cleanup(func() {
				logger.Close()
			})

			var got string
			switch logger.(type) {
			case *ConsoleLogger:
				got = "*logging.ConsoleLogger"
			case *FileLogger:
				got = "*logging.FileLogger"
			case *MultiLogger:
				got = "*logging.MultiLogger"
			case *NoOpLogger:
				got = "*logging.NoOpLogger"
			}
			if got != tt.wantType {
				t.Errorf("NewLogger() type = %T, want %s", logger, tt.wantType)
			}

			if tt.file != "" {
				if _, err := os.Stat(tt.file); os.IsNotExist(err) {
					t.Error("Log file was not created")
				}
			}
		})
	}
}

func TestNewLogger_InvalidPath(t *testing.T) {
	invalidPath := "/invalid/path/that/does/not/exist/test.log"
	if runtime.GOOS == "windows" {
		invalidPath = `Z:\nonexistent\path\that\does\not\exist\test.log`
	}
	if os.Geteuid() == 0 {
		t.Skip("root can create directories anywhere")
	}

	_, err := NewLogger(LogConfig{
		Level:      INFO,
		OutputFile: invalidPath,
	})
	if err == nil {
		t.Error("Expected error for invalid path, got nil")
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]LogLevel{
		"debug":   DEBUG,
		"verbose": DEBUG,
		"normal":  INFO,
		"quiet":   ERROR,
		"":        INFO,
	}
	for name, want := range tests {
		if got := ParseLevel(name); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", name, got, want)
		}
	}
}
