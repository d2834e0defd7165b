// Package logging builds the slog logger shared by the CLI commands.
package logging

import (
	"io"
	"log/slog"
	"path/filepath"
	"strings"
)

var levelMapping = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// ParseLevel maps a level name onto slog, defaulting to info.
func ParseLevel(name string) slog.Level {
	if level, ok := levelMapping[strings.ToLower(strings.TrimSpace(name))]; ok {
		return level
	}
	return slog.LevelInfo
}

// New returns a text logger writing to w. Source locations are attached at
// debug level only.
func New(w io.Writer, level string) *slog.Logger {
	lvl := ParseLevel(level)
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		AddSource:   lvl <= slog.LevelDebug,
		Level:       lvl,
		ReplaceAttr: replaceAttr,
	})
	return slog.New(handler)
}

// Discard drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func replaceAttr(_ []string, a slog.Attr) slog.Attr {
	if a.Key == slog.SourceKey {
		if source, ok := a.Value.Any().(*slog.Source); ok {
			source.File = filepath.Base(source.File)
			return slog.Any(a.Key, source)
		}
	}
	return a
}
