package team

import (
	"fmt"

	"google.golang.org/adk/agent"
	"google.golang.org/adk/agent/llmagent"
	"google.golang.org/adk/model"
)

// NewAgents creates the five team member agents in listing order.
// Each member is a plain LLM agent with a static system prompt and no tools;
// ADK generates the delegation transfer tooling on the orchestrator side.
func NewAgents(llm model.LLM) ([]agent.Agent, error) {
	agents := make([]agent.Agent, 0, len(memberOrder))

	for _, member := range memberOrder {
		a, err := llmagent.New(llmagent.Config{
			Name:            member,
			Description:     memberDescriptions[member],
			Model:           llm,
			Instruction:     memberPrompts[member],
			IncludeContents: llmagent.IncludeContentsDefault,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create %s agent: %w", member, err)
		}
		agents = append(agents, a)
	}

	return agents, nil
}
