package logcat

import (
	"fmt"
	"strings"
)

// Level is a logcat severity, ordered from least to most severe.
type Level int

const (
	LevelVerbose Level = iota
	LevelDebug
	LevelInfo
	LevelWarn
	LevelError
	LevelFatal
)

var levelNames = [...]string{"verbose", "debug", "info", "warn", "error", "fatal"}

// String returns the single-letter badge used by logcat.
func (l Level) String() string {
	switch l {
	case LevelVerbose:
		return "V"
	case LevelDebug:
		return "D"
	case LevelInfo:
		return "I"
	case LevelWarn:
		return "W"
	case LevelError:
		return "E"
	case LevelFatal:
		return "F"
	}
	return "?"
}

// Name returns the lower-case long name.
func (l Level) Name() string {
	if l < LevelVerbose || l > LevelFatal {
		return "unknown"
	}
	return levelNames[l]
}

// ParseLevel accepts a letter (v, d, i, w, e, f) or a long name, in any case.
func ParseLevel(s string) (Level, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range levelNames {
		if s == name || s == name[:1] {
			return Level(i), nil
		}
	}
	return LevelVerbose, fmt.Errorf("unknown log level %q (want one of v, d, i, w, e, f)", s)
}

// levelFromLetter maps the severity letter of a brief-format line.
// Assert (A) is reported as fatal.
func levelFromLetter(c byte) (Level, bool) {
	switch c {
	case 'V':
		return LevelVerbose, true
	case 'D':
		return LevelDebug, true
	case 'I':
		return LevelInfo, true
	case 'W':
		return LevelWarn, true
	case 'E':
		return LevelError, true
	case 'F', 'A':
		return LevelFatal, true
	}
	return LevelVerbose, false
}
