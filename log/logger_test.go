package log

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger_Levels(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriterLogger("ossvfs", Warn, &buf)

	l.Debug("hidden %d", 1)
	l.Info("hidden %d", 2)
	l.Warn("shown %d", 3)
	l.Error("shown %d", 4)

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "WARN  [ossvfs] shown 3")
	assert.Contains(t, out, "ERROR [ossvfs] shown 4")
	assert.Equal(t, 2, strings.Count(out, "\n"))
}

func TestLogger_Named(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriterLogger("ossvfs", Debug, &buf).Named("credentials")

	l.Info("hello")
	assert.Contains(t, buf.String(), "[ossvfs/credentials] hello")
}

func TestLogger_JSON(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriterLogger("ossvfs", Debug, &buf)
	l.JSON = true

	l.Info("listed %d objects", 3)

	var entry logEntry
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "INFO", entry.Level)
	assert.Equal(t, "ossvfs", entry.Service)
	assert.Equal(t, "listed 3 objects", entry.Message)
}

func TestLogger_Discard(t *testing.T) {
	var l *Logger
	l.Info("nil loggers are silent")
	Discard().Error("dropped")
}

func TestParse(t *testing.T) {
	level, err := Parse("warning")
	require.NoError(t, err)
	assert.Equal(t, Warn, level)

	level, err = Parse("")
	require.NoError(t, err)
	assert.Equal(t, Info, level)

	_, err = Parse("verbose")
	assert.Error(t, err)
}

func TestLogger_Color(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriterLogger("", Debug, &buf)
	l.NoColor = false

	l.Warn("colored")
	assert.True(t, strings.HasPrefix(buf.String(), ansiYellow))
	assert.True(t, strings.HasSuffix(buf.String(), ansiReset+"\n"))
}
