package model

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Scenario defines a sequence of mock LLM responses loaded from YAML.
type Scenario struct {
	// Name is the scenario identifier.
	Name string `yaml:"name"`

	// Description is a human-readable description of what the scenario exercises.
	Description string `yaml:"description,omitempty"`

	// Settings contains global timing settings.
	Settings ScenarioSettings `yaml:"settings,omitempty"`

	// Steps defines the sequence of mock LLM responses.
	Steps []ScenarioStep `yaml:"steps"`
}

// ScenarioSettings contains global timing settings.
type ScenarioSettings struct {
	// ThinkingDelayMs is the delay in milliseconds before each response.
	ThinkingDelayMs int `yaml:"thinking_delay_ms,omitempty"`
}

// ScenarioStep defines a single mock LLM response.
type ScenarioStep struct {
	// Trigger is an optional pattern that must be present in the request to
	// activate this step. Supports plain substrings, "contains:text", and
	// "tool_result:tool_name". Empty means the step auto-advances.
	Trigger string `yaml:"trigger,omitempty"`

	// Text is the text response from the agent.
	Text string `yaml:"text,omitempty"`

	// ToolCalls defines tool calls the mock LLM will make. Delegation is a
	// transfer_to_agent call with an agent_name argument.
	ToolCalls []MockToolCall `yaml:"tool_calls,omitempty"`

	// DelayMs overrides the thinking delay for this step.
	DelayMs int `yaml:"delay_ms,omitempty"`
}

// MockToolCall defines a tool call the mock LLM will make.
type MockToolCall struct {
	// Name is the tool name (e.g., "transfer_to_agent").
	Name string `yaml:"name"`

	// Args are the tool arguments.
	Args map[string]interface{} `yaml:"args"`
}

// LoadScenario loads a scenario from a YAML file.
func LoadScenario(path string) (*Scenario, error) {
	// Scenario file path is intentionally configurable for offline runs.
	// #nosec G304
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file %s: %w", path, err)
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("failed to parse scenario file %s: %w", path, err)
	}

	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("scenario %s has no steps", path)
	}

	return &scenario, nil
}

// DefaultScenario returns the built-in scenario used when the model spec is
// a bare "mock": one delegation to the incident analyzer followed by a final
// markdown report.
func DefaultScenario() *Scenario {
	return &Scenario{
		Name:        "default",
		Description: "single delegation to the incident analyzer",
		Steps: []ScenarioStep{
			{
				Text: "Routing this incident to the incident analyzer.",
				ToolCalls: []MockToolCall{
					{
						Name: "transfer_to_agent",
						Args: map[string]interface{}{"agent_name": "incident_analyzer"},
					},
				},
			},
			{
				Text: "## Incident Analysis\n\n**Incident Summary**: mock analysis of the reported incident.\n\n**Severity Assessment**: SEV3.\n",
			},
		},
	}
}

// stepDelay returns the effective delay before responding with the step.
func (s *Scenario) stepDelay(step *ScenarioStep) time.Duration {
	if s == nil {
		return 0
	}
	ms := s.Settings.ThinkingDelayMs
	if step != nil && step.DelayMs > 0 {
		ms = step.DelayMs
	}
	return time.Duration(ms) * time.Millisecond
}
