package logging

import (
	"fmt"
	"log"
	"os"
	"time"
)

// exitFunc is the function called by Fatal to terminate the program.
// Defaults to os.Exit, can be overridden for testing.
var exitFunc = os.Exit

// writeLog formats the message with optional fields and routes it:
// DEBUG/INFO/WARN go to stdout, ERROR/FATAL go to stderr.
func (l *Logger) writeLog(level, msg string, fields map[string]interface{}) {
	logMsg := fmt.Sprintf("[%s] [%s] %s: %s", GetTimestamp(), level, l.name, msg)

	if len(fields) > 0 {
		logMsg += " |"
		for k, v := range fields {
			logMsg += fmt.Sprintf(" %s=%v", k, v)
		}
	}

	if level == "ERROR" || level == "FATAL" {
		fmt.Fprintf(os.Stderr, "%s\n", logMsg)
	} else {
		log.Println(logMsg)
	}
}

func (l *Logger) logf(level, msg string, args ...interface{}) {
	formatted := fmt.Sprintf(msg, args...)
	l.writeLog(level, formatted, l.mergedFields(nil))
}

func (l *Logger) logWithFields(level, msg string, fields []LogField) {
	callFields := make(map[string]interface{}, len(fields))
	for _, f := range fields {
		callFields[f.Key] = f.Value
	}
	l.writeLog(level, msg, l.mergedFields(callFields))
}

// mergedFields combines context fields, persistent fields, and per-call
// fields in increasing priority order.
func (l *Logger) mergedFields(callFields map[string]interface{}) map[string]interface{} {
	contextFields := extractContextFields(l.ctx)
	if contextFields == nil && len(l.fields) == 0 && len(callFields) == 0 {
		return nil
	}

	merged := make(map[string]interface{})
	for k, v := range contextFields {
		merged[k] = v
	}
	for k, v := range l.fields {
		merged[k] = v
	}
	for k, v := range callFields {
		merged[k] = v
	}
	return merged
}

// GetTimestamp returns an RFC3339 timestamp.
// Can be overridden via the LOG_TIMESTAMP env var for deterministic tests.
func GetTimestamp() string {
	if override := os.Getenv("LOG_TIMESTAMP"); override != "" {
		return override
	}
	return time.Now().Format(time.RFC3339)
}
