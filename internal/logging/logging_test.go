package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewWritesToFile(t *testing.T) {
	dir := t.TempDir()
	logger, err := New(dir, "debug")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logger.Infof("tick %d published", 3)
	logger.Close()

	data, err := os.ReadFile(filepath.Join(dir, fileName))
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(data), "tick 3 published") {
		t.Fatalf("expected message in log file, got %q", data)
	}
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	if _, err := New(t.TempDir(), "loud"); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}

func TestWithRequestID(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWriter(&buf)
	logger.WithRequestID("abc-123").Info("handled")
	if !strings.Contains(buf.String(), "request_id=abc-123") {
		t.Fatalf("expected request_id field, got %q", buf.String())
	}
}
