// Package orchestrator builds the root agent that routes incident reports
// to the ITSM team members.
package orchestrator

import (
	"google.golang.org/adk/agent"
	"google.golang.org/adk/agent/llmagent"
	"google.golang.org/adk/model"

	"github.com/YogaBharath-R/ITSM-Agent/internal/agent/team"
)

// AgentName is the name of the orchestrator agent.
const AgentName = "itsm_orchestrator"

// AgentDescription is the description of the orchestrator agent.
const AgentDescription = "Entry point for ITSM requests. Routes each incident or service request to exactly one specialist team member."

// New creates the orchestrator agent with the five team members as
// sub-agents. ADK generates the agent transfer tool from the sub-agent
// list, so the orchestrator itself carries no tools.
func New(llm model.LLM) (agent.Agent, error) {
	members, err := team.NewAgents(llm)
	if err != nil {
		return nil, err
	}

	return llmagent.New(llmagent.Config{
		Name:        AgentName,
		Description: AgentDescription,
		Model:       llm,
		Instruction: systemPrompt,
		SubAgents:   members,
		// Include conversation history for multi-turn interactions
		IncludeContents: llmagent.IncludeContentsDefault,
	})
}
