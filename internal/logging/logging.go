// Package logging holds the process-wide zerolog logger.
package logging

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Logger is the global logger instance.
var Logger zerolog.Logger

// Level represents log levels.
type Level = zerolog.Level

const (
	DebugLevel = zerolog.DebugLevel
	InfoLevel  = zerolog.InfoLevel
	WarnLevel  = zerolog.WarnLevel
	ErrorLevel = zerolog.ErrorLevel
	FatalLevel = zerolog.FatalLevel
)

// Config holds logger configuration.
type Config struct {
	Level Level
	// Output defaults to os.Stderr.
	Output io.Writer
	// Pretty writes human-readable lines instead of JSON. Ignored for files.
	Pretty bool
	// File, when set, appends JSON logs to this path instead of Output.
	File string
}

// DefaultConfig logs info and above to stderr as JSON.
func DefaultConfig() Config {
	return Config{Level: InfoLevel, Output: os.Stderr}
}

// Init replaces the global logger. The returned closer releases the log
// file, if one was opened.
func Init(cfg Config) (io.Closer, error) {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}

	var closer io.Closer = nopCloser{}
	switch {
	case cfg.File != "":
		f, err := openAppend(cfg.File)
		if err != nil {
			return closer, err
		}
		out, closer = f, f
	case cfg.Pretty:
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.Kitchen}
	}

	zerolog.TimeFieldFormat = time.RFC3339
	Logger = zerolog.New(out).Level(cfg.Level).With().Timestamp().Logger()
	return closer, nil
}

func openAppend(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}
	return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// ParseLevel parses a level name such as "debug" or "WARN". Unknown names
// yield InfoLevel.
func ParseLevel(level string) Level {
	name := strings.ToLower(strings.TrimSpace(level))
	if name == "warning" {
		name = "warn"
	}
	lvl, err := zerolog.ParseLevel(name)
	if err != nil || name == "" {
		return InfoLevel
	}
	return lvl
}

func Debug() *zerolog.Event { return Logger.Debug() }
func Info() *zerolog.Event  { return Logger.Info() }
func Warn() *zerolog.Event  { return Logger.Warn() }
func Error() *zerolog.Event { return Logger.Error() }

// Component returns a child logger tagged with the component name.
func Component(name string) zerolog.Logger {
	return Logger.With().Str("component", name).Logger()
}

func init() {
	Init(DefaultConfig())
}
