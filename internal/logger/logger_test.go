package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

func reset() {
	SetVerbose(false)
	SetOutput(os.Stderr)
}

func TestSetVerbose(t *testing.T) {
	defer reset()

	SetVerbose(false)
	if IsVerbose() {
		t.Error("expected verbose to be false initially")
	}

	SetVerbose(true)
	if !IsVerbose() {
		t.Error("expected verbose to be true after SetVerbose(true)")
	}

	SetVerbose(false)
	if IsVerbose() {
		t.Error("expected verbose to be false after SetVerbose(false)")
	}
}

func TestDebug_WhenVerbose(t *testing.T) {
	defer reset()

	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(true)

	Debug("test message %s", "arg")

	output := buf.String()
	if !strings.Contains(output, "level=DEBUG") {
		t.Errorf("expected debug level in output: %q", output)
	}
	if !strings.Contains(output, `msg="test message arg"`) {
		t.Errorf("unexpected output: %q", output)
	}
	if strings.Contains(output, "time=") {
		t.Errorf("console output should not carry timestamps: %q", output)
	}
}

func TestDebug_WhenNotVerbose(t *testing.T) {
	defer reset()

	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(false)

	Debug("test message")
	Info("info message")

	if buf.Len() != 0 {
		t.Errorf("expected no output when not verbose, got: %q", buf.String())
	}
}

func TestSection(t *testing.T) {
	defer reset()

	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(true)

	Section("Test Section")

	if !strings.Contains(buf.String(), "=== Test Section ===") {
		t.Errorf("unexpected output: %q", buf.String())
	}
}

func TestInfo(t *testing.T) {
	defer reset()

	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(true)

	Info("info %d", 42)

	if !strings.Contains(buf.String(), "level=INFO") || !strings.Contains(buf.String(), "info 42") {
		t.Errorf("unexpected output: %q", buf.String())
	}
}

func TestWarn_AlwaysShown(t *testing.T) {
	defer reset()

	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(false)

	Warn("upstream %s", "degraded")

	if !strings.Contains(buf.String(), "level=WARN") || !strings.Contains(buf.String(), "upstream degraded") {
		t.Errorf("unexpected output: %q", buf.String())
	}
}

func TestConfigure_FileSinkReceivesDebug(t *testing.T) {
	defer reset()

	var console bytes.Buffer
	SetOutput(&console)
	SetVerbose(false)

	path := filepath.Join(t.TempDir(), "logs", "legis.log")
	closer, err := Configure(path)
	if err != nil {
		t.Fatalf("Configure: %v", err)
	}

	Debug("cache miss for %s", "/bill/118")

	if err := closer.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if console.Len() != 0 {
		t.Errorf("console should stay quiet, got: %q", console.String())
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	var rec map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(data), &rec); err != nil {
		t.Fatalf("log line is not JSON: %v (%q)", err, data)
	}
	if rec["msg"] != "cache miss for /bill/118" {
		t.Errorf("unexpected msg: %v", rec["msg"])
	}
	if rec["level"] != "DEBUG" {
		t.Errorf("unexpected level: %v", rec["level"])
	}
}

func TestConfigure_EmptyPath(t *testing.T) {
	closer, err := Configure("")
	if err != nil {
		t.Fatalf("Configure: %v", err)
	}
	if err := closer.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
}

func TestFromContext(t *testing.T) {
	if FromContext(context.Background()) != Logger() {
		t.Error("expected process logger without a context logger")
	}

	l := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	ctx := WithLogger(context.Background(), l)
	if FromContext(ctx) != l {
		t.Error("expected the context logger")
	}
}

func TestConcurrentAccess(t *testing.T) {
	defer reset()

	var buf bytes.Buffer
	SetOutput(&syncWriter{w: &buf})

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(3)
		go func() {
			defer wg.Done()
			SetVerbose(true)
		}()
		go func() {
			defer wg.Done()
			_ = IsVerbose()
		}()
		go func() {
			defer wg.Done()
			Debug("concurrent %d", 1)
		}()
	}
	wg.Wait()
}

type syncWriter struct {
	mu sync.Mutex
	w  *bytes.Buffer
}

func (s *syncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}
