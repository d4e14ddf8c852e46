package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_ValidLevels(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "warning", "error"} {
		log, err := New(level)
		require.NoError(t, err, level)
		assert.NotNil(t, log)
	}
}

func TestNew_InvalidLevel(t *testing.T) {
	_, err := New("verbose")
	assert.Error(t, err)
}

func TestNewWithWriter_EmitsServiceField(t *testing.T) {
	var buf bytes.Buffer
	log, err := NewWithWriter("info", &buf)
	require.NoError(t, err)

	log.Info("hello", "key", "value")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "identity-service", entry["service"])
	assert.Equal(t, "hello", entry["msg"])
	assert.Equal(t, "value", entry["key"])
}

func TestNewWithWriter_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log, err := NewWithWriter("error", &buf)
	require.NoError(t, err)

	log.Info("suppressed")
	assert.Empty(t, buf.Bytes())

	log.Error("kept")
	assert.NotEmpty(t, buf.Bytes())
}

func TestWithComponent(t *testing.T) {
	var buf bytes.Buffer
	log, err := NewWithWriter("info", &buf)
	require.NoError(t, err)

	WithComponent(log, "database").Info("query ran")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "database", entry["component"])
}
