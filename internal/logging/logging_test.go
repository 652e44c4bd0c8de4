package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Level != InfoLevel {
		t.Errorf("expected Level to be InfoLevel, got %v", cfg.Level)
	}
	if cfg.Output != os.Stderr {
		t.Errorf("expected Output to be os.Stderr")
	}
	if cfg.Pretty {
		t.Errorf("expected JSON output by default")
	}
	if cfg.File != "" {
		t.Errorf("expected no log file by default, got %s", cfg.File)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected Level
	}{
		{"DEBUG", DebugLevel},
		{"  debug  ", DebugLevel},
		{"info", InfoLevel},
		{"WARN", WarnLevel},
		{"warning", WarnLevel},
		{"ERROR", ErrorLevel},
		{"fatal", FatalLevel},
		{"trace", zerolog.TraceLevel},
		{"", InfoLevel},
		{"INVALID", InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if result := ParseLevel(tt.input); result != tt.expected {
				t.Errorf("ParseLevel(%q) = %v, expected %v", tt.input, result, tt.expected)
			}
		})
	}
}

func TestLogLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: WarnLevel, Output: &buf})

	Debug().Msg("debug message")
	Info().Msg("info message")
	Warn().Msg("warn message")
	Error().Msg("error message")

	output := buf.String()
	if strings.Contains(output, "debug message") || strings.Contains(output, "info message") {
		t.Errorf("messages below Warn should be filtered, got %s", output)
	}
	if !strings.Contains(output, "warn message") || !strings.Contains(output, "error message") {
		t.Errorf("warn and error messages should appear, got %s", output)
	}
}

func TestInitWithPrettyOutput(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: InfoLevel, Output: &buf, Pretty: true})

	Info().Msg("pretty test")

	if !strings.Contains(buf.String(), "pretty test") {
		t.Errorf("expected output to contain 'pretty test', got %s", buf.String())
	}
}

func TestLogToFile(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "logging-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tempDir)

	var console bytes.Buffer
	logPath := filepath.Join(tempDir, "state", "projactions.log")
	closer, err := Init(Config{Level: InfoLevel, Output: &console, File: logPath})
	if err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	Info().Msg("file log test")
	if err := closer.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	Init(Config{Level: InfoLevel, Output: &console})

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	if !strings.Contains(string(content), "file log test") {
		t.Errorf("log file should contain 'file log test', got: %s", string(content))
	}
	if console.Len() != 0 {
		t.Errorf("console should stay empty when logging to a file, got %s", console.String())
	}
}

func TestComponent(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: InfoLevel, Output: &buf})

	log := Component("reconciler")
	log.Info().Int("local", 2).Msg("reloaded")

	output := buf.String()
	if !strings.Contains(output, `"component":"reconciler"`) {
		t.Errorf("expected component field, got %s", output)
	}
	if !strings.Contains(output, `"local":2`) {
		t.Errorf("expected local field, got %s", output)
	}
}

func TestInitWithNilOutput(t *testing.T) {
	if _, err := Init(Config{Level: InfoLevel, Output: nil}); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
}
