package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]log.Level{
		"debug":   log.DebugLevel,
		"INFO":    log.InfoLevel,
		"warning": log.WarnLevel,
		"warn":    log.WarnLevel,
		"error":   log.ErrorLevel,
		"fatal":   log.FatalLevel,
		"bogus":   log.InfoLevel,
		"":        log.InfoLevel,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNewWritesStructuredFields(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, "debug", "logfmt")
	logger.Debug("item saved", "id", "abc", "count", 3)

	out := buf.String()
	for _, want := range []string{"item saved", "id=abc", "count=3", "prefix=todoapp"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output: %q", want, out)
		}
	}
}

func TestNewFiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, "warn", "text")
	logger.Info("hidden")
	if buf.Len() != 0 {
		t.Fatalf("expected info suppressed at warn level, got %q", buf.String())
	}
}

func TestOpenAppendsToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "todoapp.log")
	logger, closer, err := Open(path, "info", "json")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	logger.Info("started", "items", 2)
	if err := closer.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.Contains(string(raw), `"msg":"started"`) {
		t.Fatalf("expected json log line, got %q", raw)
	}
}

func TestOpenRejectsEmptyPath(t *testing.T) {
	if _, _, err := Open(" ", "info", "text"); err == nil {
		t.Fatal("expected error for empty path")
	}
}
