package team

import "testing"

func TestLabelForFunction(t *testing.T) {
	cases := []struct {
		functionName string
		want         string
	}{
		{"transfer_task_to_task_analyzer", "📊 Task Analyzer"},
		{"transfer_task_to_incident_analyzer", "🔍 Incident Analyzer"},
		{"transfer_task_to_ticket_creation", "🎫 Ticket Creation"},
		{"transfer_task_to_root_cause_analysis", "🔬 Root Cause Analysis"},
		{"transfer_task_to_resolution_discovery", "💡 Resolution Discovery"},
		{"transfer_task_to_unknown_member", GenericLabel},
		{"lookup_kb_article", GenericLabel},
		{"", GenericLabel},
	}

	for _, tc := range cases {
		if got := LabelForFunction(tc.functionName); got != tc.want {
			t.Errorf("LabelForFunction(%q) = %q, want %q", tc.functionName, got, tc.want)
		}
		// Pure function: repeated calls give the same answer.
		if got := LabelForFunction(tc.functionName); got != tc.want {
			t.Errorf("LabelForFunction(%q) not idempotent", tc.functionName)
		}
	}
}

func TestIsDelegation(t *testing.T) {
	if !IsDelegation("transfer_task_to_ticket_creation") {
		t.Error("transfer_task_to_ticket_creation should be a delegation")
	}
	if IsDelegation("lookup_kb_article") {
		t.Error("lookup_kb_article should not be a delegation")
	}
	if IsDelegation("") {
		t.Error("empty name should not be a delegation")
	}
}

func TestDetectFromContent(t *testing.T) {
	label, ok := DetectFromContent("transferred to root_cause_analysis: done")
	if !ok || label != "🔬 Root Cause Analysis" {
		t.Errorf("DetectFromContent = %q, %v", label, ok)
	}

	if _, ok := DetectFromContent("no keywords in here"); ok {
		t.Error("DetectFromContent matched content with no keywords")
	}

	// First member in listing order wins on multiple matches.
	label, ok = DetectFromContent("task_analyzer then ticket_creation")
	if !ok || label != "📊 Task Analyzer" {
		t.Errorf("DetectFromContent multi-match = %q, %v", label, ok)
	}
}

func TestMembersComplete(t *testing.T) {
	members := Members()
	if len(members) != 5 {
		t.Fatalf("Members() = %d entries, want 5", len(members))
	}
	for _, m := range members {
		if MemberLabel(m) == GenericLabel {
			t.Errorf("member %q has no label", m)
		}
		if MemberDescription(m) == "" {
			t.Errorf("member %q has no description", m)
		}
		if memberPrompts[m] == "" {
			t.Errorf("member %q has no prompt", m)
		}
	}
}
