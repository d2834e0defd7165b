package ginue

import (
	"io"
	"log/slog"
	"time"
)

// Option configures a Manager.
type Option func(*Manager)

// WithRunner swaps the subprocess runner.
func WithRunner(r Runner) Option {
	return func(m *Manager) {
		if r != nil {
			m.runner = r
		}
	}
}

// WithCredentials sets the credential source.
func WithCredentials(src CredentialSource) Option {
	return func(m *Manager) {
		if src != nil {
			m.creds = src
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithClock overrides the history timestamp source.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		if now != nil {
			m.now = now
		}
	}
}

// WithDesignDir overrides the design apps directory (default
// <root>/design/apps).
func WithDesignDir(dir string) Option {
	return func(m *Manager) {
		if dir != "" {
			m.designDir = dir
		}
	}
}

// WithCommand overrides the launcher, "npx" by default.
func WithCommand(name string) Option {
	return func(m *Manager) {
		if name != "" {
			m.command = name
		}
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// WithRunID overrides the generator of Batch run ids.
func WithRunID(next func() string) Option {
	return func(m *Manager) {
		if next != nil {
			m.runID = next
		}
	}
}
