package model

import (
	"os"
	"path/filepath"
	"testing"
)

const testScenario = `name: delegation
description: orchestrator delegates to the incident analyzer
steps:
  - text: "Routing the incident."
    tool_calls:
      - name: transfer_to_agent
        args:
          agent_name: incident_analyzer
  - trigger: "tool_result:transfer_to_agent"
    text: "Incident analyzed: API pods are crash-looping."
`

func writeScenario(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write scenario: %v", err)
	}
	return path
}

func TestLoadScenario(t *testing.T) {
	path := writeScenario(t, testScenario)

	scenario, err := LoadScenario(path)
	if err != nil {
		t.Fatalf("LoadScenario failed: %v", err)
	}

	if scenario.Name != "delegation" {
		t.Errorf("Name = %q, want delegation", scenario.Name)
	}
	if len(scenario.Steps) != 2 {
		t.Fatalf("Steps = %d, want 2", len(scenario.Steps))
	}
	if len(scenario.Steps[0].ToolCalls) != 1 {
		t.Fatalf("step 0 tool calls = %d, want 1", len(scenario.Steps[0].ToolCalls))
	}
	if scenario.Steps[0].ToolCalls[0].Args["agent_name"] != "incident_analyzer" {
		t.Errorf("agent_name = %v", scenario.Steps[0].ToolCalls[0].Args["agent_name"])
	}
}

func TestLoadScenarioEmpty(t *testing.T) {
	path := writeScenario(t, "name: empty\nsteps: []\n")
	if _, err := LoadScenario(path); err == nil {
		t.Error("expected error for scenario with no steps")
	}
}

func TestMockNextStepTriggers(t *testing.T) {
	path := writeScenario(t, testScenario)
	mock, err := NewMockLLM(path)
	if err != nil {
		t.Fatalf("NewMockLLM failed: %v", err)
	}

	// First step has no trigger, fires immediately.
	step := mock.nextStep("user message")
	if step == nil || len(step.ToolCalls) != 1 {
		t.Fatalf("first step = %+v, want delegation step", step)
	}

	// Second step requires the tool result trigger.
	if step := mock.nextStep("unrelated request"); step != nil {
		t.Errorf("triggered step fired without trigger: %+v", step)
	}
	step = mock.nextStep("tool_result:transfer_to_agent")
	if step == nil || step.Text == "" {
		t.Fatalf("second step = %+v, want text step", step)
	}

	// Exhausted.
	if step := mock.nextStep("anything"); step != nil {
		t.Errorf("exhausted scenario returned step: %+v", step)
	}
}

func TestBuildResponseFromStep(t *testing.T) {
	mock := NewMockLLMFromScenario(&Scenario{Name: "t", Steps: []ScenarioStep{{}}})

	step := &ScenarioStep{
		Text: "analysis",
		ToolCalls: []MockToolCall{
			{Name: "transfer_to_agent", Args: map[string]interface{}{"agent_name": "ticket_creation"}},
		},
	}

	resp := mock.buildResponseFromStep(step)
	if resp.Content == nil || len(resp.Content.Parts) != 2 {
		t.Fatalf("parts = %+v, want text + function call", resp.Content)
	}
	if resp.Content.Parts[0].Text != "analysis" {
		t.Errorf("text part = %q", resp.Content.Parts[0].Text)
	}
	fc := resp.Content.Parts[1].FunctionCall
	if fc == nil || fc.Name != "transfer_to_agent" {
		t.Fatalf("function call = %+v", fc)
	}
	if !resp.TurnComplete {
		t.Error("TurnComplete = false, want true")
	}
}
