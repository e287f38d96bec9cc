package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevelAndFormat(t *testing.T) {
	assert.Equal(t, Debug, ParseLevel("DEBUG"))
	assert.Equal(t, Warn, ParseLevel("warning"))
	assert.Equal(t, Info, ParseLevel("nope"))
	assert.Equal(t, FormatJSON, ParseFormat(" json "))
	assert.Equal(t, FormatText, ParseFormat(""))
}

func TestLogger_JSONWithFields(t *testing.T) {
	var buf bytes.Buffer
	l := New(Options{Level: Info, Format: FormatJSON, App: "amicus", Output: &buf})

	l.With(map[string]any{"request_id": "r-1"}).Info("hello", map[string]any{"user_id": "u-1", "": "dropped"})

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "hello", entry["msg"])
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "amicus", entry["app"])
	assert.Equal(t, "r-1", entry["request_id"])
	assert.Equal(t, "u-1", entry["user_id"])
	assert.NotContains(t, entry, "")
	assert.Contains(t, entry, "ts")
}

func TestLogger_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	l := New(Options{Level: Warn, Format: FormatText, Output: &buf})

	l.Info("skipped", nil)
	assert.Zero(t, buf.Len())

	l.Warn("kept", nil)
	assert.Contains(t, buf.String(), "kept")
}
