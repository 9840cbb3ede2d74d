package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// captureOutput redirects logger output to a buffer for testing.
// Returns the buffer and a cleanup function to restore original output.
func captureOutput() (*bytes.Buffer, func()) {
	buf := new(bytes.Buffer)

	mu.Lock()
	originalOutput := output
	originalColor := useColor
	output = buf
	useColor = false // Disable colors for easier testing
	mu.Unlock()

	reconfigure()

	cleanup := func() {
		mu.Lock()
		output = originalOutput
		useColor = originalColor
		mu.Unlock()
		reconfigure()
	}

	return buf, cleanup
}

func TestLevelFiltering(t *testing.T) {
	t.Run("DebugLevelShowsAllMessages", func(t *testing.T) {
		buf, cleanup := captureOutput()
		defer cleanup()

		SetLevel("DEBUG")

		Debug("debug message")
		Info("info message")
		Warn("warn message")
		Error("error message")

		out := buf.String()
		assert.Contains(t, out, "debug message")
		assert.Contains(t, out, "info message")
		assert.Contains(t, out, "warn message")
		assert.Contains(t, out, "error message")
	})

	t.Run("InfoLevelFiltersDebug", func(t *testing.T) {
		buf, cleanup := captureOutput()
		defer cleanup()

		SetLevel("INFO")

		Debug("debug message")
		Info("info message")

		out := buf.String()
		assert.NotContains(t, out, "debug message")
		assert.Contains(t, out, "info message")
	})

	t.Run("ErrorLevelFiltersEverythingElse", func(t *testing.T) {
		buf, cleanup := captureOutput()
		defer cleanup()

		SetLevel("ERROR")

		Debug("debug message")
		Info("info message")
		Warn("warn message")
		Error("error message")

		out := buf.String()
		assert.NotContains(t, out, "debug message")
		assert.NotContains(t, out, "info message")
		assert.NotContains(t, out, "warn message")
		assert.Contains(t, out, "error message")
	})

	t.Run("InvalidLevelIsIgnored", func(t *testing.T) {
		buf, cleanup := captureOutput()
		defer cleanup()

		SetLevel("INFO")
		SetLevel("BOGUS")

		Info("still visible")
		assert.Contains(t, buf.String(), "still visible")
	})
}

func TestJSONFormat(t *testing.T) {
	buf, cleanup := captureOutput()
	defer cleanup()

	SetLevel("INFO")
	SetFormat("json")
	defer SetFormat("text")

	Info("json message", "album_id", "a1", "count", 3)

	line := strings.TrimSpace(buf.String())
	require.NotEmpty(t, line)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(line), &entry))
	assert.Equal(t, "json message", entry["msg"])
	assert.Equal(t, "a1", entry["album_id"])
	assert.Equal(t, float64(3), entry["count"])
}

func TestStructuredFields(t *testing.T) {
	buf, cleanup := captureOutput()
	defer cleanup()

	SetLevel("INFO")

	Info("request complete", KeyOperation, "sync-album-details", KeyStatus, 200)

	out := buf.String()
	assert.Contains(t, out, "operation=sync-album-details")
	assert.Contains(t, out, "status=200")
}

func TestContextFields(t *testing.T) {
	buf, cleanup := captureOutput()
	defer cleanup()

	SetLevel("INFO")

	lc := NewLogContext("192.0.2.10")
	lc = lc.WithOperation("delete-album").WithUser("uid-1")
	ctx := WithContext(context.Background(), lc)

	InfoCtx(ctx, "cascade complete", KeyCount, 2)

	out := buf.String()
	assert.Contains(t, out, "operation=delete-album")
	assert.Contains(t, out, "client_ip=192.0.2.10")
	assert.Contains(t, out, "user_id=uid-1")
	assert.Contains(t, out, "count=2")
}

func TestContextFieldsAbsent(t *testing.T) {
	buf, cleanup := captureOutput()
	defer cleanup()

	SetLevel("INFO")

	// No LogContext attached: message still logs, no injected fields.
	InfoCtx(context.Background(), "bare message")

	out := buf.String()
	assert.Contains(t, out, "bare message")
	assert.NotContains(t, out, "client_ip")
}

func TestFormatBytes(t *testing.T) {
	assert.Equal(t, "512 B", FormatBytes(512))
	assert.Equal(t, "1.0 KiB", FormatBytes(1024))
	assert.Equal(t, "1.5 KiB", FormatBytes(1536))
	assert.Equal(t, "4.0 MiB", FormatBytes(4*1024*1024))
}
