package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	charmlog "github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogLevel_ToCharmlogLevel(t *testing.T) {
	testCases := []struct {
		level    LogLevel
		expected charmlog.Level
	}{
		{DebugLevel, charmlog.DebugLevel},
		{InfoLevel, charmlog.InfoLevel},
		{WarnLevel, charmlog.WarnLevel},
		{ErrorLevel, charmlog.ErrorLevel},
		{LogLevel("WARN"), charmlog.WarnLevel},
		{LogLevel("unknown"), charmlog.InfoLevel},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.expected, tc.level.ToCharmlogLevel(), "level %q", tc.level)
	}
}

func TestNewLogger(t *testing.T) {
	t.Run("Should write JSON lines with fields", func(t *testing.T) {
		var buf bytes.Buffer
		l := NewLogger(&Config{Level: InfoLevel, Output: &buf, JSON: true})

		l.With("run_id", "abc").Info("fetched employees", "count", 3)

		var line map[string]any
		require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line))
		assert.Equal(t, "fetched employees", line["msg"])
		assert.Equal(t, "abc", line["run_id"])
		assert.Equal(t, float64(3), line["count"])
	})

	t.Run("Should drop messages below the level", func(t *testing.T) {
		var buf bytes.Buffer
		l := NewLogger(&Config{Level: WarnLevel, Output: &buf})

		l.Info("hidden")
		l.Warn("shown")

		assert.False(t, strings.Contains(buf.String(), "hidden"))
		assert.True(t, strings.Contains(buf.String(), "shown"))
	})
}

func TestInit(t *testing.T) {
	prev := GetDefault()
	t.Cleanup(func() { defaultLogger = prev })

	var buf bytes.Buffer
	Init(&Config{Level: DebugLevel, Output: &buf})

	Debug("debug line")
	With("k", "v").Error("error line")

	assert.Contains(t, buf.String(), "debug line")
	assert.Contains(t, buf.String(), "error line")
	assert.Contains(t, buf.String(), "k=v")
}
