package logging

import (
	"context"
	"errors"
	"io"
	"os"
	"strings"
	"testing"
	"time"
)

func TestParseLevel(t *testing.T) {
	cases := []struct {
		in      string
		want    LogLevel
		wantErr bool
	}{
		{"debug", DEBUG, false},
		{"INFO", INFO, false},
		{"Warn", WARN, false},
		{"error", ERROR, false},
		{"fatal", FATAL, false},
		{"verbose", -1, true},
		{"", -1, true},
	}

	for _, tc := range cases {
		got, err := parseLevel(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("parseLevel(%q): expected error, got %v", tc.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("parseLevel(%q): unexpected error: %v", tc.in, err)
		}
		if got != tc.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestPackageLogLevels(t *testing.T) {
	err := SetPackageLogLevels(map[string]string{
		"agent.projector": "debug",
		"agent.*":         "warn",
	})
	if err != nil {
		t.Fatalf("SetPackageLogLevels failed: %v", err)
	}
	defer func() {
		_ = SetPackageLogLevels(map[string]string{})
	}()

	// Exact match wins over wildcard
	if got := GetPackageLogLevel("agent.projector"); got != DEBUG {
		t.Errorf("agent.projector level = %v, want DEBUG", got)
	}

	// Wildcard match
	if got := GetPackageLogLevel("agent.runner"); got != WARN {
		t.Errorf("agent.runner level = %v, want WARN", got)
	}

	// No match
	if got := GetPackageLogLevel("apiserver"); got != LogLevel(-1) {
		t.Errorf("apiserver level = %v, want -1", got)
	}
}

func TestSetPackageLogLevelsInvalid(t *testing.T) {
	if err := SetPackageLogLevels(map[string]string{"agent": "loud"}); err == nil {
		t.Error("expected error for invalid level string")
	}
}

func TestWithFieldImmutability(t *testing.T) {
	base := GetLogger("test")
	child := base.WithField("run_id", "abc")

	if len(base.fields) != 0 {
		t.Errorf("base logger mutated: %v", base.fields)
	}
	if child.fields["run_id"] != "abc" {
		t.Errorf("child logger missing field: %v", child.fields)
	}

	grandchild := child.WithField("agent", "task_analyzer")
	if _, ok := child.fields["agent"]; ok {
		t.Error("child logger mutated by grandchild WithField")
	}
	if len(grandchild.fields) != 2 {
		t.Errorf("grandchild fields = %v, want 2 entries", grandchild.fields)
	}
}

func TestMergedFieldsPriority(t *testing.T) {
	ctx := context.WithValue(context.Background(), TraceIDKey(), "trace-1")
	logger := GetLogger("test").WithContext(ctx).WithField("source", "persistent")

	merged := logger.mergedFields(map[string]interface{}{"source": "call"})
	if merged["trace_id"] != "trace-1" {
		t.Errorf("trace_id = %v, want trace-1", merged["trace_id"])
	}
	// Per-call fields override persistent fields
	if merged["source"] != "call" {
		t.Errorf("source = %v, want call", merged["source"])
	}
}

func TestErrorWithErrFormatsArgsAndAppendsError(t *testing.T) {
	oldStderr := os.Stderr
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe failed: %v", err)
	}
	os.Stderr = w
	defer func() { os.Stderr = oldStderr }()

	GetLogger("test.errlog").ErrorWithErr("Run %s failed after %s",
		errors.New("stream broken"), "run-1", 2*time.Second)

	_ = w.Close()
	os.Stderr = oldStderr
	data, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}

	out := string(data)
	if !strings.Contains(out, "Run run-1 failed after 2s - stream broken") {
		t.Errorf("unexpected log line: %q", out)
	}
}

func TestFatalUsesExitFunc(t *testing.T) {
	oldExit := exitFunc
	defer func() { exitFunc = oldExit }()

	var gotCode int
	exitFunc = func(code int) { gotCode = code }

	GetLogger("test").Fatal("boom")
	if gotCode != 1 {
		t.Errorf("exit code = %d, want 1", gotCode)
	}
}
