package logger

import (
	"io"
	"log/slog"
)

// Format picks the slog handler built by New.
type Format int

const (
	// FormatText writes slog key=value lines. The chat log file uses it.
	FormatText Format = iota

	// FormatPretty writes colorized lines through charmbracelet/log.
	FormatPretty

	// FormatJSON writes one JSON object per record.
	FormatJSON
)

// Option adjusts the settings New builds a logger from.
type Option func(*settings)

type settings struct {
	level     slog.Level
	format    Format
	source    bool
	component string
	out       io.Writer
}

// WithDebug enables Debug records, which carry per-request details and the
// folded query keys.
func WithDebug(debug bool) Option {
	return func(s *settings) {
		s.level = slog.LevelInfo
		if debug {
			s.level = slog.LevelDebug
		}
	}
}

// WithPretty switches to FormatPretty.
func WithPretty(pretty bool) Option {
	return func(s *settings) {
		if pretty {
			s.format = FormatPretty
		}
	}
}

// WithJSON switches to FormatJSON.
func WithJSON(json bool) Option {
	return func(s *settings) {
		if json {
			s.format = FormatJSON
		}
	}
}

// WithWriter sets where records go. Stdout when unset.
func WithWriter(w io.Writer) Option {
	return func(s *settings) {
		s.out = w
	}
}

// WithSource adds the caller's file:line to each record.
func WithSource(source bool) Option {
	return func(s *settings) {
		s.source = source
	}
}

// WithComponent tags every record with component=name.
func WithComponent(name string) Option {
	return func(s *settings) {
		s.component = name
	}
}
