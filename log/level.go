package log

import (
	"fmt"
	"strings"
)

type LogLevel int

const (
	Debug LogLevel = iota
	Info
	Warn
	Error
	Off
)

func (l LogLevel) String() string {
	switch l {
	case Debug:
		return "DEBUG"
	case Info:
		return "INFO"
	case Warn:
		return "WARN"
	case Error:
		return "ERROR"
	case Off:
		return "OFF"
	default:
		return "UNKNOWN"
	}
}

// Parse converts a textual log level (case-insensitive) into a LogLevel.
func Parse(level string) (LogLevel, error) {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "DEBUG":
		return Debug, nil
	case "INFO", "":
		return Info, nil
	case "WARN", "WARNING":
		return Warn, nil
	case "ERROR":
		return Error, nil
	case "OFF", "NONE":
		return Off, nil
	default:
		return Info, fmt.Errorf("invalid log level '%s'", level)
	}
}

// ANSI escape sequences used for terminal output.
const (
	ansiReset  = "\033[0m"
	ansiBlue   = "\033[34m"
	ansiGreen  = "\033[32m"
	ansiYellow = "\033[33m"
	ansiRed    = "\033[31m"
)

// color returns the terminal color of a level.
func (l LogLevel) color() string {
	switch l {
	case Debug:
		return ansiBlue
	case Info:
		return ansiGreen
	case Warn:
		return ansiYellow
	case Error:
		return ansiRed
	}
	return ansiReset
}
