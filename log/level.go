package log

import (
	"fmt"
	"iter"
	"log/slog"
	"strings"
)

// Level represents the severity of a log message.
type Level slog.Level

const levelTraceMask = -8

const (
	LevelTrace Level = Level(levelTraceMask)
	LevelDebug Level = Level(slog.LevelDebug)
	LevelInfo  Level = Level(slog.LevelInfo)
	LevelWarn  Level = Level(slog.LevelWarn)
	LevelError Level = Level(slog.LevelError)
)

// DefaultLevel is the default log level.
const DefaultLevel = LevelWarn

var levelName = map[Level]string{
	LevelTrace: "trace",
	LevelDebug: "debug",
	LevelInfo:  "info",
	LevelWarn:  "warn",
	LevelError: "error",
}

// String returns the lowercase name of a defined level, or slog's rendering
// (e.g. "INFO+2") for anything in between.
func (l Level) String() string {
	if s, ok := levelName[l]; ok {
		return s
	}

	if l < LevelDebug {
		return fmt.Sprintf("trace%+d", int(l-LevelTrace))
	}

	return slog.Level(l).String()
}

// MarshalText renders the level with [Level.String].
func (l Level) MarshalText() ([]byte, error) { return []byte(l.String()), nil }

// UnmarshalText parses text with [ParseLevel], failing on unknown names.
func (l *Level) UnmarshalText(text []byte) error {
	level, ok := lookupLevel(string(text))
	if !ok {
		return fmt.Errorf("unknown log level %q", text)
	}

	*l = level

	return nil
}

// Levels returns an iterator over all defined log levels.
func Levels() iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, level := range []Level{
			LevelTrace,
			LevelDebug,
			LevelInfo,
			LevelWarn,
			LevelError,
		} {
			if !yield(level.String()) {
				return
			}
		}
	}
}

// ParseLevel parses a string representation of a log level.
// Valid level strings are "TRACE", "DEBUG", "INFO", "WARN", and "ERROR",
// optionally followed by a "+" or "-" and an integer offset.
// See [slog.Level.UnmarshalText] for details.
// Unrecognized input yields [DefaultLevel].
func ParseLevel(s string) Level {
	if l, ok := lookupLevel(s); ok {
		return l
	}

	return DefaultLevel
}

func lookupLevel(s string) (Level, bool) {
	s = strings.TrimSpace(s)

	// slog.Level.UnmarshalText doesn't recognize trace
	if strings.EqualFold(s, "trace") {
		return LevelTrace, true
	}

	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return 0, false
	}

	return Level(l), true
}

// Format represents the output format for log messages.
type Format int

const (
	FormatText Format = iota
	FormatJSON
)

// DefaultFormat is the default log message format.
const DefaultFormat = FormatText

// String returns "text" or "json".
func (f Format) String() string {
	switch f {
	case FormatText:
		return "text"

	case FormatJSON:
		return "json"

	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// MarshalText renders the format with [Format.String].
func (f Format) MarshalText() ([]byte, error) { return []byte(f.String()), nil }

// UnmarshalText parses text, failing on unknown names.
func (f *Format) UnmarshalText(text []byte) error {
	format, ok := lookupFormat(string(text))
	if !ok {
		return fmt.Errorf("unknown log format %q", text)
	}

	*f = format

	return nil
}

// Formats returns an iterator over all defined log formats.
func Formats() iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, format := range []Format{
			FormatText,
			FormatJSON,
		} {
			if !yield(format.String()) {
				return
			}
		}
	}
}

// ParseFormat parses a string representation of a log format.
// Valid format strings are "json" and "text"; anything else yields
// [DefaultFormat].
func ParseFormat(s string) Format {
	if f, ok := lookupFormat(s); ok {
		return f
	}

	return DefaultFormat
}

func lookupFormat(s string) (Format, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON, true

	case "text":
		return FormatText, true

	default:
		return 0, false
	}
}
