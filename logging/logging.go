package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/lixenwraith/vi-rig/config"
)

// ParseLevel maps a config level name to a zerolog level, defaulting to info
func ParseLevel(name string) zerolog.Level {
	switch strings.ToUpper(name) {
	case "TRACE":
		return zerolog.TraceLevel
	case "DEBUG":
		return zerolog.DebugLevel
	case "WARN":
		return zerolog.WarnLevel
	case "ERROR":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// New builds the process logger. Console output is human readable, otherwise
// JSON lines; a configured file receives the same events without color.
// The returned closer releases the file and is never nil
func New(cfg config.LogConfig, out io.Writer) (zerolog.Logger, io.Closer, error) {
	if out == nil {
		out = os.Stderr
	}

	var primary io.Writer = out
	if cfg.Console {
		primary = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	var closer io.Closer = nopCloser{}
	writer := primary
	if cfg.File != "" {
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return zerolog.Nop(), closer, fmt.Errorf("open log file: %w", err)
		}
		closer = f
		var fileOut io.Writer = f
		if cfg.Console {
			fileOut = zerolog.ConsoleWriter{Out: f, TimeFormat: time.RFC3339, NoColor: true}
		}
		writer = zerolog.MultiLevelWriter(primary, fileOut)
	}

	logger := zerolog.New(writer).Level(ParseLevel(cfg.Level)).With().Timestamp().Logger()
	return logger, closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
