// Package logger provides opinionated slog construction for apibot.
//
// Components accept a *slog.Logger; this package decides the handler: plain
// text for the chat log file, charmbracelet/log for the serve console, JSON
// for the serve log file.
package logger

import (
	"log/slog"
	"os"
	"time"

	charmlog "github.com/charmbracelet/log"
)

// New builds a *slog.Logger from the given options.
func New(opts ...Option) *slog.Logger {
	s := &settings{level: slog.LevelInfo, out: os.Stdout}
	for _, opt := range opts {
		opt(s)
	}

	l := slog.New(s.handler())
	if s.component != "" {
		l = l.With("component", s.component)
	}
	return l
}

func (s *settings) handler() slog.Handler {
	switch s.format {
	case FormatPretty:
		return charmlog.NewWithOptions(s.out, charmlog.Options{
			Level:           charmLevel(s.level),
			ReportTimestamp: true,
			ReportCaller:    s.source,
			TimeFormat:      time.Kitchen,
		})
	case FormatJSON:
		return slog.NewJSONHandler(s.out, s.handlerOptions())
	default:
		return slog.NewTextHandler(s.out, s.handlerOptions())
	}
}

func (s *settings) handlerOptions() *slog.HandlerOptions {
	return &slog.HandlerOptions{Level: s.level, AddSource: s.source}
}

// Nop returns a logger that drops every record.
func Nop() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func charmLevel(level slog.Level) charmlog.Level {
	if level <= slog.LevelDebug {
		return charmlog.DebugLevel
	}
	return charmlog.InfoLevel
}
