package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		level   string
		format  string
		wantErr bool
	}{
		{name: "json info", level: "info", format: "json"},
		{name: "console debug", level: "debug", format: "console"},
		{name: "default format", level: "WARN", format: ""},
		{name: "invalid level", level: "loud", format: "json", wantErr: true},
		{name: "invalid format", level: "info", format: "xml", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := New(tt.level, tt.format, &bytes.Buffer{})
			if (err != nil) != tt.wantErr {
				t.Fatalf("New(%q, %q) error = %v, wantErr %v", tt.level, tt.format, err, tt.wantErr)
			}
		})
	}
}

func TestNewJSONWritesStructuredEntries(t *testing.T) {
	t.Parallel()

	var buffer bytes.Buffer
	logger, err := New("info", FormatJSON, &buffer)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Debug("hidden")
	logger.Info("pulled resources")
	_ = logger.Sync()

	lines := strings.Split(strings.TrimSpace(buffer.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected one entry above the level, got %q", buffer.String())
	}
	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("entry is not JSON: %v", err)
	}
	if entry["msg"] != "pulled resources" || entry["level"] != "info" {
		t.Fatalf("unexpected entry %v", entry)
	}
}

func TestLevel(t *testing.T) {
	t.Parallel()

	if Level(true) != "debug" || Level(false) != "warn" {
		t.Fatalf("unexpected levels %q %q", Level(true), Level(false))
	}
}
