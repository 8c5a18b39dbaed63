package scanlog

import (
	"context"
	"log/slog"
)

// SlogAdapter writes scan events to an slog.Logger.
// Useful for development when you want to see scan events on the console.
type SlogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter creates a SlogAdapter that writes to the given slog.Logger.
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	return &SlogAdapter{logger: logger}
}

// Log writes the event to the slog logger at Debug level.
func (a *SlogAdapter) Log(event Event) {
	attrs := []slog.Attr{
		slog.String("session_id", event.SessionID),
		slog.String("type", event.Type.String()),
	}

	if event.Name != "" {
		attrs = append(attrs, slog.String("name", event.Name))
	}
	if event.ServiceType != "" {
		attrs = append(attrs, slog.String("service_type", event.ServiceType))
	}
	if event.Address != "" {
		attrs = append(attrs, slog.String("address", event.Address))
	}
	if event.Port != 0 {
		attrs = append(attrs, slog.Uint64("port", uint64(event.Port)))
	}
	if event.Message != "" {
		attrs = append(attrs, slog.String("message", event.Message))
	}

	a.logger.LogAttrs(context.Background(), slog.LevelDebug, "scan event", attrs...)
}

// MultiLogger sends events to multiple loggers.
// Useful when you want both console output (via SlogAdapter) and file
// output (via FileLogger) simultaneously.
type MultiLogger struct {
	loggers []Logger
}

// NewMultiLogger creates a MultiLogger that sends events to all provided loggers.
func NewMultiLogger(loggers ...Logger) *MultiLogger {
	return &MultiLogger{loggers: loggers}
}

// Log sends the event to all configured loggers.
func (m *MultiLogger) Log(event Event) {
	for _, l := range m.loggers {
		l.Log(event)
	}
}

// Compile-time interface satisfaction checks.
var (
	_ Logger = (*SlogAdapter)(nil)
	_ Logger = (*MultiLogger)(nil)
)
