package cli

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// Log flag defaults.
const (
	defaultLogLevel  = "info"
	defaultLogFormat = "text"
)

// newLogger builds the session logger writing to w.
// level is one of debug, info, warn, error; format is text or json.
func newLogger(w io.Writer, level, format string) (*slog.Logger, error) {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "info", "":
		lvl = slog.LevelInfo
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		return nil, fmt.Errorf("log level %q (use debug, info, warn, error): %w", level, ErrInvalidLogSetting)
	}

	opts := &slog.HandlerOptions{Level: lvl}

	var handler slog.Handler
	switch strings.ToLower(format) {
	case "text", "":
		handler = slog.NewTextHandler(w, opts)
	case "json":
		handler = slog.NewJSONHandler(w, opts)
	default:
		return nil, fmt.Errorf("log format %q (use text, json): %w", format, ErrInvalidLogSetting)
	}

	return slog.New(handler), nil
}
