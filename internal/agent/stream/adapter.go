package stream

import (
	"context"
	"fmt"
	"iter"

	"google.golang.org/adk/agent"
	"google.golang.org/adk/runner"
	"google.golang.org/genai"

	"github.com/YogaBharath-R/ITSM-Agent/internal/agent/team"
	"github.com/YogaBharath-R/ITSM-Agent/internal/logging"
)

var logger = logging.GetLogger("agent.stream")

// transferTool is the agent-transfer tool name the ADK framework generates
// for sub-agent delegation. Its agent_name argument identifies the target.
const transferTool = "transfer_to_agent"

// ADKSource adapts an ADK runner into a Source. It synthesizes run_started
// before the first runtime event and run_completed after the last, and
// rewrites agent-transfer tool calls into member-specific delegation names
// so consumers get a structured target without parsing text.
type ADKSource struct {
	adkRunner *runner.Runner
	userID    string
	sessionID string
	runID     string
	prompt    string

	usage     Usage
	finalText string
}

// NewADKSource creates a source that runs prompt through the given ADK
// runner when Events is iterated.
func NewADKSource(adkRunner *runner.Runner, userID, sessionID, runID, prompt string) *ADKSource {
	return &ADKSource{
		adkRunner: adkRunner,
		userID:    userID,
		sessionID: sessionID,
		runID:     runID,
		prompt:    prompt,
	}
}

// Usage returns the token usage accumulated so far. Valid after the event
// sequence has been drained.
func (s *ADKSource) Usage() Usage {
	return s.usage
}

// FinalText returns the final response text. Valid after the event sequence
// has been drained.
func (s *ADKSource) FinalText() string {
	return s.finalText
}

// Events implements Source. The sequence is single-use.
func (s *ADKSource) Events(ctx context.Context) iter.Seq2[Event, error] {
	return func(yield func(Event, error) bool) {
		if !yield(Event{Kind: KindRunStarted, RunID: s.runID}, nil) {
			return
		}

		userContent := &genai.Content{
			Role: "user",
			Parts: []*genai.Part{
				{Text: s.prompt},
			},
		}
		runConfig := agent.RunConfig{
			StreamingMode: agent.StreamingModeNone,
		}

		var currentAgent string
		var lastText string

		for event, err := range s.adkRunner.Run(ctx, s.userID, s.sessionID, userContent, runConfig) {
			if err != nil {
				yield(Event{}, fmt.Errorf("agent run failed: %w", err))
				return
			}
			if event == nil {
				continue
			}

			if event.UsageMetadata != nil && event.UsageMetadata.PromptTokenCount > 0 {
				s.usage.Requests++
				s.usage.InputTokens += int(event.UsageMetadata.PromptTokenCount)
				s.usage.OutputTokens += int(event.UsageMetadata.CandidatesTokenCount)
			}

			if event.Author != "" && event.Author != currentAgent {
				currentAgent = event.Author
				logger.Debug("Agent activated: %s", currentAgent)
			}

			for _, ev := range translateContent(s.runID, currentAgent, event.Content) {
				if ev.Kind == KindRunResponse {
					lastText = ev.Content
				}
				if !yield(ev, nil) {
					return
				}
			}

			if event.IsFinalResponse() && lastText != "" {
				s.finalText = lastText
			}
		}

		if s.finalText == "" {
			s.finalText = lastText
		}
		yield(Event{Kind: KindRunCompleted, RunID: s.runID, Agent: currentAgent, Content: s.finalText}, nil)
	}
}

// translateContent converts the parts of one runtime event into stream
// events. Thought parts are dropped; function calls and responses become
// tool events with normalized names.
func translateContent(runID, agentName string, content *genai.Content) []Event {
	if content == nil {
		return nil
	}

	var out []Event
	for _, part := range content.Parts {
		switch {
		case part.FunctionCall != nil:
			out = append(out, Event{
				Kind:     KindToolCallStarted,
				RunID:    runID,
				ToolName: normalizeToolName(part.FunctionCall.Name, part.FunctionCall.Args),
				Agent:    agentName,
			})
		case part.FunctionResponse != nil:
			out = append(out, Event{
				Kind:     KindToolCallCompleted,
				RunID:    runID,
				ToolName: normalizeToolName(part.FunctionResponse.Name, nil),
				Agent:    agentName,
				Content:  responseSummary(part.FunctionResponse.Response),
			})
		case part.Text != "" && !part.Thought:
			out = append(out, Event{
				Kind:    KindRunResponse,
				RunID:   runID,
				Agent:   agentName,
				Content: part.Text,
			})
		}
	}
	return out
}

// normalizeToolName rewrites the framework transfer tool into a
// member-specific delegation name. transfer_to_agent(agent_name=X) becomes
// transfer_task_to_X; every other tool name passes through unchanged.
func normalizeToolName(name string, args map[string]any) string {
	if name != transferTool {
		return name
	}
	if target, ok := args["agent_name"].(string); ok && target != "" {
		return team.DelegationPrefix + target
	}
	// A transfer response carries no args; the generic delegation name
	// still lets consumers recognize it as a delegation boundary.
	return team.DelegationPrefix + "agent"
}

// responseSummary extracts a short text payload from a tool response map.
func responseSummary(response map[string]any) string {
	if response == nil {
		return ""
	}
	if result, ok := response["result"].(string); ok {
		return result
	}
	if errMsg, ok := response["error"].(string); ok {
		return errMsg
	}
	return ""
}
