package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(Config{
		Format: HumanFormat,
		Level:  WarnLevel,
		Output: &buf,
	})

	logger.Debug("debug msg", nil)
	logger.Info("info msg", nil)
	logger.Warn("warn msg", nil)
	logger.Error("error msg", nil)

	out := buf.String()
	if strings.Contains(out, "debug msg") || strings.Contains(out, "info msg") {
		t.Errorf("messages below warn level should be suppressed, got: %s", out)
	}
	if !strings.Contains(out, "warn msg") || !strings.Contains(out, "error msg") {
		t.Errorf("warn and error messages should be logged, got: %s", out)
	}
}

func TestJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(Config{
		Format: JSONFormat,
		Level:  InfoLevel,
		Output: &buf,
	})

	logger.Info("hello", map[string]interface{}{"key": "value"})

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected valid JSON output, got %q: %v", buf.String(), err)
	}

	if entry["message"] != "hello" {
		t.Errorf("expected message 'hello', got %v", entry["message"])
	}
	if entry["level"] != "info" {
		t.Errorf("expected level 'info', got %v", entry["level"])
	}
	fields, ok := entry["fields"].(map[string]interface{})
	if !ok || fields["key"] != "value" {
		t.Errorf("expected fields.key=value, got %v", entry["fields"])
	}
}

func TestSessionLoggerStampsID(t *testing.T) {
	var buf bytes.Buffer
	logger := NewSessionLogger(Config{
		Format: JSONFormat,
		Level:  InfoLevel,
		Output: &buf,
	})

	if logger.SessionID() == "" {
		t.Fatal("session logger should have a non-empty session id")
	}

	logger.Info("ping", nil)

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if entry["session"] != logger.SessionID() {
		t.Errorf("expected session %q in entry, got %v", logger.SessionID(), entry["session"])
	}
}
