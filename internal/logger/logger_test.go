package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name  string
		level string
	}{
		{"debug level", "debug"},
		{"info level", "info"},
		{"warn level", "warn"},
		{"error level", "error"},
		{"invalid level", "invalid"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log := New(tt.level)
			if log == nil {
				t.Error("New() returned nil")
			}
		})
	}
}

func TestShouldLog(t *testing.T) {
	tests := []struct {
		name        string
		configLevel string
		logLevel    string
		shouldLog   bool
	}{
		{"debug logs at debug level", "debug", "debug", true},
		{"info logs at debug level", "debug", "info", true},
		{"debug doesn't log at info level", "info", "debug", false},
		{"warn doesn't log at error level", "error", "warn", false},
		{"unknown config level defaults to info", "loud", "info", true},
		{"error always logs", "debug", "error", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log := New(tt.configLevel).(*implLogger)
			result := log.shouldLog(tt.logLevel)
			if result != tt.shouldLog {
				t.Errorf("shouldLog() = %v, want %v", result, tt.shouldLog)
			}
		})
	}
}

func TestTextFormatIncludesJobID(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithFormat("info", "text", &buf)
	ctx := WithJobID(context.Background(), "abc")

	log.Info(ctx, "processed %d chunks", 3)
	log.Debug(ctx, "hidden")

	out := buf.String()
	if !strings.Contains(out, "[INFO] [job abc] processed 3 chunks") {
		t.Errorf("output = %q, want job-tagged info line", out)
	}
	if strings.Contains(out, "hidden") {
		t.Errorf("output = %q, debug line should be filtered", out)
	}
}

func TestJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithFormat("debug", "json", &buf)

	log.Warn(WithJobID(context.Background(), "j-1"), "rate limited")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("unmarshal log line: %v (%q)", err, buf.String())
	}
	if entry["msg"] != "rate limited" {
		t.Errorf("msg = %v, want %v", entry["msg"], "rate limited")
	}
	if entry["level"] != "WARN" {
		t.Errorf("level = %v, want %v", entry["level"], "WARN")
	}
	if entry["job_id"] != "j-1" {
		t.Errorf("job_id = %v, want %v", entry["job_id"], "j-1")
	}
}

func TestMessageWithoutArgsIsNotFormatted(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithFormat("info", "text", &buf)

	log.Info(context.Background(), "100% done")

	if !strings.Contains(buf.String(), "100% done") {
		t.Errorf("output = %q, want literal percent", buf.String())
	}
}
