package runner

import (
	"fmt"
	"strings"
)

// Incident is the user-submitted report, shaped like an email.
type Incident struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// Blank reports whether the incident carries no usable text. A submission
// with both subject and body blank is rejected before any run starts.
func (i Incident) Blank() bool {
	return strings.TrimSpace(i.Subject) == "" && strings.TrimSpace(i.Body) == ""
}

// Prompt composes the free-text prompt handed to the orchestrator.
func (i Incident) Prompt() string {
	return fmt.Sprintf("reported by %s Subject: %s\n\n%s", i.From, i.Subject, i.Body)
}
