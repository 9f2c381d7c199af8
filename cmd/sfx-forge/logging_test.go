package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"go.uber.org/zap"
)

// TestNewLoggerLevel verifies entries below the level are dropped
func TestNewLoggerLevel(t *testing.T) {
	var buf bytes.Buffer
	l, err := newLoggerTo(&buf, "warn")
	if err != nil {
		t.Fatalf("newLoggerTo failed: %v", err)
	}

	l.Info("hidden")
	l.Warn("shown", zap.Int("n", 3))
	if err := l.Sync(); err != nil {
		t.Fatalf("Sync failed: %v", err)
	}

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	if len(lines) != 1 {
		t.Fatalf("Expected 1 line, got %d: %s", len(lines), buf.String())
	}
	var entry map[string]any
	if err := json.Unmarshal(lines[0], &entry); err != nil {
		t.Fatalf("Expected JSON entry, got %s", lines[0])
	}
	if entry["msg"] != "shown" || entry["level"] != "warn" || entry["n"] != float64(3) {
		t.Errorf("Unexpected entry %v", entry)
	}
	if _, ok := entry["ts"].(string); !ok {
		t.Errorf("Expected ISO8601 timestamp string, got %v", entry["ts"])
	}
}

// TestNewLoggerInvalidLevel verifies unknown levels are rejected
func TestNewLoggerInvalidLevel(t *testing.T) {
	if _, err := newLogger("loud"); err == nil {
		t.Error("Expected error for unknown level")
	}
}
