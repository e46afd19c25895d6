package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"crosspost/pkg/config"
)

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := New(config.LoggingConfig{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	if _, err := New(config.LoggingConfig{Level: "verbose"}); err == nil {
		t.Fatal("expected error for unsupported level")
	}
}

func TestJSONOutput(t *testing.T) {
	var buf bytes.Buffer
	log, err := newWithWriter(config.LoggingConfig{Format: "json", Level: "debug"}, &buf)
	if err != nil {
		t.Fatalf("newWithWriter error: %v", err)
	}

	log.Info("relayed", "chat_id", int64(-1001))

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v (%q)", err, buf.String())
	}
	if entry["msg"] != "relayed" {
		t.Fatalf("msg = %v, want relayed", entry["msg"])
	}
	if entry["chat_id"] != float64(-1001) {
		t.Fatalf("chat_id = %v, want -1001", entry["chat_id"])
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log, err := newWithWriter(config.LoggingConfig{Format: "json", Level: "warn"}, &buf)
	if err != nil {
		t.Fatalf("newWithWriter error: %v", err)
	}

	log.Info("dropped")
	log.Warn("kept")

	out := buf.String()
	if strings.Contains(out, "dropped") {
		t.Fatalf("info entry should be filtered at warn level: %q", out)
	}
	if !strings.Contains(out, "kept") {
		t.Fatalf("warn entry missing: %q", out)
	}
}
