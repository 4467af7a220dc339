// Package audit provides audit logging for agent runs. It captures the run
// lifecycle (submission, delegations, responses, completion) to a JSONL file
// for debugging, analysis, and reproducibility.
package audit

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"
)

// EventType represents the type of audit event.
type EventType string

const (
	// EventTypeRunStart marks the start of an agent run.
	EventTypeRunStart EventType = "run_start"
	// EventTypeIncidentSubmitted marks the submitted incident prompt.
	EventTypeIncidentSubmitted EventType = "incident_submitted"
	// EventTypeDelegation marks a delegation to a team member.
	EventTypeDelegation EventType = "delegation"
	// EventTypeToolComplete marks the completion of a tool or delegation.
	EventTypeToolComplete EventType = "tool_complete"
	// EventTypeAgentText marks text output from an agent.
	EventTypeAgentText EventType = "agent_text"
	// EventTypeRunComplete marks the completion of a run.
	EventTypeRunComplete EventType = "run_complete"
	// EventTypeError marks an error during processing.
	EventTypeError EventType = "error"
	// EventTypeLLMRequest logs each LLM request with token usage.
	EventTypeLLMRequest EventType = "llm_request"
	// EventTypeRunMetrics logs aggregated run metrics.
	EventTypeRunMetrics EventType = "run_metrics"
)

// Event represents a single audit log event.
type Event struct {
	// Timestamp is when the event occurred.
	Timestamp time.Time `json:"timestamp"`
	// Type is the event type.
	Type EventType `json:"type"`
	// RunID is the run identifier.
	RunID string `json:"run_id"`
	// Agent is the name of the agent that generated the event (if applicable).
	Agent string `json:"agent,omitempty"`
	// Data contains event-specific data.
	Data map[string]interface{} `json:"data,omitempty"`
}

// Logger writes audit events to a JSONL file. Safe for concurrent use.
type Logger struct {
	file   *os.File
	writer *bufio.Writer
	mutex  sync.Mutex
}

// NewLogger creates a new audit logger that writes to the specified file
// path. If the file exists, new events are appended.
func NewLogger(filePath string) (*Logger, error) {
	// #nosec G304 -- Audit log path is intentionally configurable by user
	file, err := os.OpenFile(filePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return nil, fmt.Errorf("failed to open audit log file: %w", err)
	}

	return &Logger{
		file:   file,
		writer: bufio.NewWriter(file),
	}, nil
}

// write writes an event to the audit log.
func (l *Logger) write(event Event) error {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal audit event: %w", err)
	}

	if _, err := l.writer.Write(data); err != nil {
		return fmt.Errorf("failed to write audit event: %w", err)
	}

	if _, err := l.writer.WriteString("\n"); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	// Flush immediately for crash safety
	if err := l.writer.Flush(); err != nil {
		return fmt.Errorf("failed to flush audit log: %w", err)
	}

	return nil
}

// LogRunStart logs the start of an agent run.
func (l *Logger) LogRunStart(runID, model string) error {
	return l.write(Event{
		Timestamp: time.Now(),
		Type:      EventTypeRunStart,
		RunID:     runID,
		Data: map[string]interface{}{
			"model": model,
		},
	})
}

// LogIncidentSubmitted logs the composed incident prompt.
func (l *Logger) LogIncidentSubmitted(runID, prompt string) error {
	return l.write(Event{
		Timestamp: time.Now(),
		Type:      EventTypeIncidentSubmitted,
		RunID:     runID,
		Data: map[string]interface{}{
			"prompt": truncateString(prompt, 2000),
		},
	})
}

// LogDelegation logs a delegation to a team member.
func (l *Logger) LogDelegation(runID, agentLabel string) error {
	return l.write(Event{
		Timestamp: time.Now(),
		Type:      EventTypeDelegation,
		RunID:     runID,
		Data: map[string]interface{}{
			"agent": agentLabel,
		},
	})
}

// LogToolComplete logs the completion of a tool or delegation.
func (l *Logger) LogToolComplete(runID, label string, contentLen int) error {
	return l.write(Event{
		Timestamp: time.Now(),
		Type:      EventTypeToolComplete,
		RunID:     runID,
		Data: map[string]interface{}{
			"label":          label,
			"content_length": contentLen,
		},
	})
}

// LogAgentText logs text output from an agent.
func (l *Logger) LogAgentText(runID, agentName, content string) error {
	return l.write(Event{
		Timestamp: time.Now(),
		Type:      EventTypeAgentText,
		RunID:     runID,
		Agent:     agentName,
		Data: map[string]interface{}{
			"content": truncateString(content, 2000),
		},
	})
}

// LogRunComplete logs the completion of a run.
func (l *Logger) LogRunComplete(runID string, duration time.Duration, steps int, contentLen int) error {
	return l.write(Event{
		Timestamp: time.Now(),
		Type:      EventTypeRunComplete,
		RunID:     runID,
		Data: map[string]interface{}{
			"duration_ms":    duration.Milliseconds(),
			"steps":          steps,
			"content_length": contentLen,
		},
	})
}

// LogError logs an error during processing.
func (l *Logger) LogError(runID string, err error) error {
	return l.write(Event{
		Timestamp: time.Now(),
		Type:      EventTypeError,
		RunID:     runID,
		Data: map[string]interface{}{
			"error": err.Error(),
		},
	})
}

// LogLLMRequest logs an individual LLM request with token usage information.
func (l *Logger) LogLLMRequest(runID, model string, inputTokens, outputTokens int) error {
	return l.write(Event{
		Timestamp: time.Now(),
		Type:      EventTypeLLMRequest,
		RunID:     runID,
		Data: map[string]interface{}{
			"model":         model,
			"input_tokens":  inputTokens,
			"output_tokens": outputTokens,
			"total_tokens":  inputTokens + outputTokens,
		},
	})
}

// LogRunMetrics logs aggregated token metrics for a run.
func (l *Logger) LogRunMetrics(runID string, totalRequests, totalInputTokens, totalOutputTokens int) error {
	return l.write(Event{
		Timestamp: time.Now(),
		Type:      EventTypeRunMetrics,
		RunID:     runID,
		Data: map[string]interface{}{
			"total_llm_requests":  totalRequests,
			"total_input_tokens":  totalInputTokens,
			"total_output_tokens": totalOutputTokens,
			"total_tokens":        totalInputTokens + totalOutputTokens,
		},
	})
}

// Close closes the audit logger and flushes any pending writes.
func (l *Logger) Close() error {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	var errs []error

	if err := l.writer.Flush(); err != nil {
		errs = append(errs, fmt.Errorf("failed to flush audit log: %w", err))
	}

	if err := l.file.Close(); err != nil {
		errs = append(errs, fmt.Errorf("failed to close audit log file: %w", err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("errors closing audit log: %v", errs)
	}

	return nil
}

// truncateString truncates a string to maxLen characters.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "...[truncated]"
}
