package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevel(t *testing.T) {
	assert.Equal(t, logrus.PanicLevel, Level("silent"))
	assert.Equal(t, logrus.WarnLevel, Level("WARN"))
	assert.Equal(t, logrus.DebugLevel, Level("debug"))
	assert.Equal(t, logrus.InfoLevel, Level("bogus"))
}

func TestNewWithOutput_JSON(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithOutput(&buf, "info", "json")

	l.WithField("component", "test").Info("hello")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "hello", line["msg"])
	assert.Equal(t, "test", line["component"])
}

func TestNewWithOutput_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithOutput(&buf, "error", "text")

	l.Info("dropped")
	assert.Zero(t, buf.Len())
}
