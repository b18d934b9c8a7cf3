package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithWriter_JSON(t *testing.T) {
	var buf bytes.Buffer
	log, err := NewWithWriter(&buf, "debug", "json")
	require.NoError(t, err)

	log.WithField("request_id", "abc").Debug("hello")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "hello", entry["msg"])
	assert.Equal(t, "abc", entry["request_id"])
	assert.Equal(t, "debug", entry["level"])
}

func TestNewWithWriter_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	log, err := NewWithWriter(&buf, "warn", "text")
	require.NoError(t, err)

	log.Info("dropped")
	assert.Empty(t, buf.String())

	log.Warn("kept")
	assert.Contains(t, buf.String(), "kept")
	assert.Equal(t, logrus.WarnLevel, log.GetLevel())
}

func TestNewWithWriter_Invalid(t *testing.T) {
	_, err := NewWithWriter(&bytes.Buffer{}, "loud", "text")
	assert.Error(t, err)

	_, err = NewWithWriter(&bytes.Buffer{}, "info", "xml")
	assert.Error(t, err)
}
