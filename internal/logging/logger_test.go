package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	log := New(&Config{Level: LevelWarn, Output: &buf})

	log.Info("hidden")
	log.Warn("shown")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
}

func TestNew_JSONFields(t *testing.T) {
	var buf bytes.Buffer
	log := New(&Config{Level: LevelDebug, Output: &buf, JSON: true})

	log.WithComponent("client").WithRunID("r-1").WithError(errors.New("boom")).Debug("call")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "client", rec["component"])
	assert.Equal(t, "r-1", rec["runId"])
	assert.Equal(t, "boom", rec["error"])
	ts, ok := rec["time"].(string)
	require.True(t, ok)
	_, err := time.Parse(time.RFC3339, ts)
	assert.NoError(t, err)
}

func TestHTTPRequest_Levels(t *testing.T) {
	var buf bytes.Buffer
	log := New(&Config{Level: LevelWarn, Output: &buf})

	log.HTTPRequest("GET", "/api/health", 200, time.Millisecond)
	assert.Empty(t, buf.String(), "success is debug")

	log.HTTPRequest("POST", "/api/simulate", 500, time.Millisecond)
	assert.Contains(t, buf.String(), "path=/api/simulate")
	assert.Contains(t, buf.String(), "status=500")

	buf.Reset()
	log.HTTPRequest("GET", "/api/health", 0, time.Millisecond)
	assert.True(t, strings.Contains(buf.String(), "level=WARN"))
}

func TestWithError_Nil(t *testing.T) {
	log := Nop()
	assert.Same(t, log, log.WithError(nil))
}

func TestLevelParsing(t *testing.T) {
	assert.Equal(t, "DEBUG", LogLevel("DEBUG").slogLevel().String())
	assert.Equal(t, "INFO", LogLevel("bogus").slogLevel().String())
	assert.Equal(t, "ERROR", LevelError.slogLevel().String())
}
