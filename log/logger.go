package log

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"
)

type Logger struct {
	mu     *sync.Mutex
	writer io.Writer

	Name  string
	Level LogLevel

	TimeFormat string
	File       string
	NoColor    bool
	JSON       bool
	NoTerminal bool
	Rotation   *LoggerRotation
}

type LoggerRotation struct {
	MaxSize    int
	MaxBackups int
	MaxAge     int
	Compress   bool
}

type logEntry struct {
	Timestamp string `json:"timestamp"`
	Level     string `json:"level"`
	Service   string `json:"service,omitempty"`
	Message   string `json:"message"`
}

func NewLogger(name string, level LogLevel, file string, noTerminal bool) *Logger {
	l := newLogger(name, level)
	l.File = file
	l.NoTerminal = noTerminal
	l.setupWriter()

	return l
}

// NewWriterLogger creates a logger that writes uncolored lines into w.
// Mostly used to capture log output in tests.
func NewWriterLogger(name string, level LogLevel, w io.Writer) *Logger {
	l := newLogger(name, level)
	l.NoColor = true
	l.writer = w

	return l
}

// Discard returns a logger that drops every message.
func Discard() *Logger {
	return NewWriterLogger("", Off, io.Discard)
}

func newLogger(name string, level LogLevel) *Logger {
	return &Logger{
		mu:    &sync.Mutex{},
		Name:  name,
		Level: level,

		TimeFormat: "2006-01-02 15:04:05",
		Rotation: &LoggerRotation{
			MaxSize:    128,
			MaxBackups: 5,
			MaxAge:     16,
			Compress:   false,
		},
	}
}

func (l *Logger) setupWriter() {
	var writers []io.Writer

	if !l.NoTerminal {
		writers = append(writers, os.Stderr)
	}

	if l.File != "" {
		fileWriter := &lumberjack.Logger{
			Filename:   l.File,
			MaxSize:    l.Rotation.MaxSize,
			MaxBackups: l.Rotation.MaxBackups,
			MaxAge:     l.Rotation.MaxAge,
			Compress:   l.Rotation.Compress,
		}
		writers = append(writers, fileWriter)
	}

	if len(writers) == 0 {
		writers = append(writers, io.Discard)
	}

	l.writer = io.MultiWriter(writers...)
}

func (l *Logger) log(level LogLevel, msg string, args ...any) {
	if l == nil || level < l.Level || l.Level == Off {
		return
	}

	timestamp := time.Now().Format(l.TimeFormat)
	formattedMsg := fmt.Sprintf(msg, args...)

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.JSON {
		entry := logEntry{
			Timestamp: timestamp,
			Level:     level.String(),
			Service:   l.Name,
			Message:   formattedMsg,
		}

		jsonBytes, _ := json.Marshal(entry)
		fmt.Fprintf(l.writer, "%s\n", jsonBytes)
		return
	}

	prefix := fmt.Sprintf("[%s] %-5s", timestamp, level)
	if l.Name != "" {
		prefix = fmt.Sprintf("%s [%s]", prefix, l.Name)
	}

	if !l.NoTerminal && !l.NoColor {
		fmt.Fprintf(l.writer, "%s%s %s%s\n", level.color(), prefix, formattedMsg, ansiReset)
	} else {
		fmt.Fprintf(l.writer, "%s %s\n", prefix, formattedMsg)
	}
}

func (l *Logger) Debug(msg string, args ...any) {
	l.log(Debug, msg, args...)
}

func (l *Logger) Info(msg string, args ...any) {
	l.log(Info, msg, args...)
}

func (l *Logger) Warn(msg string, args ...any) {
	l.log(Warn, msg, args...)
}

func (l *Logger) Error(msg string, args ...any) {
	l.log(Error, msg, args...)
}

// Named returns a child logger sharing the same writer.
func (l *Logger) Named(name string) *Logger {
	if l.Name != "" {
		name = fmt.Sprintf("%s/%s", l.Name, name)
	}

	return &Logger{
		mu:     l.mu,
		writer: l.writer,

		Name:  name,
		Level: l.Level,

		TimeFormat: l.TimeFormat,
		File:       l.File,
		NoColor:    l.NoColor,
		NoTerminal: l.NoTerminal,
		JSON:       l.JSON,
		Rotation:   l.Rotation,
	}
}
