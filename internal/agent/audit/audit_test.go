package audit

import (
	"bufio"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLogger_WriteEvents(t *testing.T) {
	tmpDir := t.TempDir()
	logPath := filepath.Join(tmpDir, "audit.jsonl")

	logger, err := NewLogger(logPath)
	if err != nil {
		t.Fatalf("failed to create logger: %v", err)
	}

	runID := "run-abc"

	if err := logger.LogRunStart(runID, "claude-sonnet-4-5-20250929"); err != nil {
		t.Errorf("LogRunStart failed: %v", err)
	}
	if err := logger.LogIncidentSubmitted(runID, "reported by a@b Subject: down\n\nprod is down"); err != nil {
		t.Errorf("LogIncidentSubmitted failed: %v", err)
	}
	if err := logger.LogDelegation(runID, "🔍 Incident Analyzer"); err != nil {
		t.Errorf("LogDelegation failed: %v", err)
	}
	if err := logger.LogToolComplete(runID, "transfer_task_to_incident_analyzer", 512); err != nil {
		t.Errorf("LogToolComplete failed: %v", err)
	}
	if err := logger.LogAgentText(runID, "incident_analyzer", "analysis"); err != nil {
		t.Errorf("LogAgentText failed: %v", err)
	}
	if err := logger.LogLLMRequest(runID, "claude-sonnet-4-5-20250929", 1000, 200); err != nil {
		t.Errorf("LogLLMRequest failed: %v", err)
	}
	if err := logger.LogError(runID, errors.New("test error")); err != nil {
		t.Errorf("LogError failed: %v", err)
	}
	if err := logger.LogRunComplete(runID, 5*time.Second, 4, 2048); err != nil {
		t.Errorf("LogRunComplete failed: %v", err)
	}
	if err := logger.LogRunMetrics(runID, 3, 3000, 600); err != nil {
		t.Errorf("LogRunMetrics failed: %v", err)
	}

	if err := logger.Close(); err != nil {
		t.Fatalf("failed to close logger: %v", err)
	}

	// Read and verify the JSONL file
	file, err := os.Open(logPath)
	if err != nil {
		t.Fatalf("failed to open log file: %v", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	var events []Event
	for scanner.Scan() {
		var event Event
		if err := json.Unmarshal(scanner.Bytes(), &event); err != nil {
			t.Errorf("failed to unmarshal event: %v", err)
			continue
		}
		events = append(events, event)
	}

	if len(events) != 9 {
		t.Fatalf("got %d events, want 9", len(events))
	}
	if events[0].Type != EventTypeRunStart {
		t.Errorf("first event type = %s", events[0].Type)
	}
	if events[len(events)-1].Type != EventTypeRunMetrics {
		t.Errorf("last event type = %s", events[len(events)-1].Type)
	}
	for i, ev := range events {
		if ev.RunID != runID {
			t.Errorf("event %d run id = %q", i, ev.RunID)
		}
		if ev.Timestamp.IsZero() {
			t.Errorf("event %d has zero timestamp", i)
		}
	}
}

func TestLogger_Append(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "audit.jsonl")

	for i := 0; i < 2; i++ {
		logger, err := NewLogger(logPath)
		if err != nil {
			t.Fatalf("failed to create logger: %v", err)
		}
		if err := logger.LogRunStart("run", "mock"); err != nil {
			t.Errorf("LogRunStart failed: %v", err)
		}
		if err := logger.Close(); err != nil {
			t.Fatalf("failed to close logger: %v", err)
		}
	}

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	lines := strings.Count(string(data), "\n")
	if lines != 2 {
		t.Errorf("got %d lines after reopen, want 2", lines)
	}
}

func TestTruncateString(t *testing.T) {
	if got := truncateString("short", 10); got != "short" {
		t.Errorf("truncateString(short) = %q", got)
	}
	got := truncateString(strings.Repeat("x", 20), 10)
	if !strings.HasPrefix(got, "xxxxxxxxxx") || !strings.HasSuffix(got, "...[truncated]") {
		t.Errorf("truncateString long = %q", got)
	}
}
