// Package logging builds the process logger.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// ParseLevel maps a config level name to a slog level. Unknown names mean
// info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Options selects where logs go.
type Options struct {
	Level string
	// Stdio keeps stdout clean for the MCP stdio transport.
	Stdio bool
	// Path, when set, writes to a size-capped file instead.
	Path string
}

// New builds a text logger. The returned close function releases the log
// file, if any.
func New(opts Options) (*slog.Logger, func() error, error) {
	var w io.Writer = os.Stdout
	if opts.Stdio {
		w = os.Stderr
	}
	closeFn := func() error { return nil }
	if opts.Path != "" {
		fw, err := OpenFile(opts.Path, DefaultMaxSize, DefaultKeepSize)
		if err != nil {
			return nil, nil, fmt.Errorf("opening log file: %w", err)
		}
		w = fw
		closeFn = fw.Close
	}
	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: ParseLevel(opts.Level),
	}))
	return logger, closeFn, nil
}
