// Package team defines the ITSM sub-agent roles the orchestrator delegates to.
package team

import "strings"

// DelegationPrefix is the prefix of delegation tool names on the event
// stream. Tool calls without this prefix are not delegations.
const DelegationPrefix = "transfer_task_to_"

// GenericLabel is the display label used when a delegation target is unknown.
const GenericLabel = "🤖 Agent"

// Member names. These are the ADK agent names and the keywords scanned for
// in completion content.
const (
	TaskAnalyzer        = "task_analyzer"
	IncidentAnalyzer    = "incident_analyzer"
	TicketCreation      = "ticket_creation"
	RootCauseAnalysis   = "root_cause_analysis"
	ResolutionDiscovery = "resolution_discovery"
)

// memberLabels maps delegation tool names to display labels.
var memberLabels = map[string]string{
	DelegationPrefix + TaskAnalyzer:        "📊 Task Analyzer",
	DelegationPrefix + IncidentAnalyzer:    "🔍 Incident Analyzer",
	DelegationPrefix + TicketCreation:      "🎫 Ticket Creation",
	DelegationPrefix + RootCauseAnalysis:   "🔬 Root Cause Analysis",
	DelegationPrefix + ResolutionDiscovery: "💡 Resolution Discovery",
}

// memberOrder is the stable listing order for the UI sidebar.
var memberOrder = []string{
	TaskAnalyzer,
	IncidentAnalyzer,
	TicketCreation,
	RootCauseAnalysis,
	ResolutionDiscovery,
}

// LabelForFunction maps a delegation tool name to its display label.
// Unknown names map to the generic label. Pure and deterministic.
func LabelForFunction(functionName string) string {
	if label, ok := memberLabels[functionName]; ok {
		return label
	}
	return GenericLabel
}

// IsDelegation reports whether a tool name is a delegation.
func IsDelegation(functionName string) bool {
	return strings.HasPrefix(functionName, DelegationPrefix)
}

// DetectFromContent scans free text for a member keyword and returns the
// matching label. This is the fallback when the event carries no structured
// tool identifier; the first keyword in member order wins.
func DetectFromContent(content string) (string, bool) {
	for _, member := range memberOrder {
		if strings.Contains(content, member) {
			return LabelForFunction(DelegationPrefix + member), true
		}
	}
	return "", false
}

// Members returns the member names in listing order.
func Members() []string {
	out := make([]string, len(memberOrder))
	copy(out, memberOrder)
	return out
}

// MemberLabel returns the display label for a member name.
func MemberLabel(member string) string {
	return LabelForFunction(DelegationPrefix + member)
}
