package utils

import (
	"bytes"
	"strings"
	"testing"
)

func TestNewLoggerToLevels(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerTo(&buf, "warn", false)

	logger.Info("hidden")
	logger.Warn("visible")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info record logged at warn level: %s", out)
	}
	if !strings.Contains(out, "visible") {
		t.Fatalf("warn record missing: %s", out)
	}
}

func TestNewLoggerToJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerTo(&buf, "info", true)

	logger.Info("structured", "key", "value")

	if !strings.Contains(buf.String(), `"key":"value"`) {
		t.Fatalf("expected JSON output, got: %s", buf.String())
	}
}
