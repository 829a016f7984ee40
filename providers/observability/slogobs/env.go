package slogobs

import (
	"log/slog"
	"os"
	"strings"
)

// Environment variables read by [New] when no explicit option is given.
const (
	EnvLogLevel  = "AGENTILS_LOG_LEVEL"
	EnvLogFormat = "AGENTILS_LOG_FORMAT"
)

// LevelTrace sits below slog.LevelDebug.
const LevelTrace = slog.LevelDebug - 4

// Format selects the output encoding.
type Format string

const (
	// FormatCompact writes one line per record:
	//   2026-01-02 15:04:05  INFO message → {"key":"value"}
	FormatCompact Format = "compact"
	// FormatJSON writes one JSON object per record.
	FormatJSON Format = "json"
)

// ParseFormat maps a case-insensitive name to a Format. Unknown names
// yield FormatCompact.
func ParseFormat(s string) Format {
	if strings.EqualFold(strings.TrimSpace(s), string(FormatJSON)) {
		return FormatJSON
	}
	return FormatCompact
}

// ParseLevel maps trace, debug, info, warn/warning and error to a level.
// Unknown names yield slog.LevelInfo.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return LevelTrace
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

// FormatFromEnv reads AGENTILS_LOG_FORMAT.
func FormatFromEnv() Format {
	return ParseFormat(os.Getenv(EnvLogFormat))
}

// LevelFromEnv reads AGENTILS_LOG_LEVEL.
func LevelFromEnv() slog.Level {
	return ParseLevel(os.Getenv(EnvLogLevel))
}

func levelName(level slog.Level) string {
	switch {
	case level < slog.LevelDebug:
		return "TRACE"
	case level < slog.LevelInfo:
		return "DEBUG"
	case level < slog.LevelWarn:
		return "INFO"
	case level < slog.LevelError:
		return "WARN"
	default:
		return "ERROR"
	}
}
