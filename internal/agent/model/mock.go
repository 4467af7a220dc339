package model

import (
	"context"
	"iter"
	"strings"
	"sync"
	"time"

	"google.golang.org/adk/model"
	"google.golang.org/genai"
)

// MockLLM implements model.LLM for running the pipeline without real API
// calls. It replays pre-scripted scenarios loaded from YAML, which lets the
// event projection loop be exercised end to end with no network dependency.
type MockLLM struct {
	scenario *Scenario

	mu           sync.Mutex
	stepIndex    int
	requestCount int
}

// NewMockLLM creates a MockLLM from a scenario file path.
func NewMockLLM(scenarioPath string) (*MockLLM, error) {
	scenario, err := LoadScenario(scenarioPath)
	if err != nil {
		return nil, err
	}
	return NewMockLLMFromScenario(scenario), nil
}

// NewMockLLMFromScenario creates a MockLLM from a loaded scenario.
func NewMockLLMFromScenario(scenario *Scenario) *MockLLM {
	return &MockLLM{scenario: scenario}
}

// Name returns the model identifier.
func (m *MockLLM) Name() string {
	if m.scenario != nil && m.scenario.Name != "" {
		return "mock:" + m.scenario.Name
	}
	return "mock"
}

// GenerateContent implements model.LLM.GenerateContent.
func (m *MockLLM) GenerateContent(ctx context.Context, req *model.LLMRequest, stream bool) iter.Seq2[*model.LLMResponse, error] {
	return func(yield func(*model.LLMResponse, error) bool) {
		m.mu.Lock()
		m.requestCount++
		m.mu.Unlock()

		requestContent := extractRequestContent(req)

		step := m.nextStep(requestContent)

		delay := m.scenario.stepDelay(step)
		if delay > 0 {
			select {
			case <-ctx.Done():
				yield(nil, ctx.Err())
				return
			case <-time.After(delay):
			}
		}

		if step == nil {
			// Scenario exhausted: close the turn so the run completes.
			yield(&model.LLMResponse{
				Content: &genai.Content{
					Parts: []*genai.Part{{Text: "[Mock scenario completed - no more steps]"}},
					Role:  "model",
				},
				FinishReason:  genai.FinishReasonStop,
				TurnComplete:  true,
				UsageMetadata: mockUsage(1, 10),
			}, nil)
			return
		}

		yield(m.buildResponseFromStep(step), nil)
	}
}

// nextStep advances through the scenario. A step with a trigger fires only
// when the request contains it; untriggered steps auto-advance.
func (m *MockLLM) nextStep(requestContent string) *ScenarioStep {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.scenario == nil || m.stepIndex >= len(m.scenario.Steps) {
		return nil
	}

	step := &m.scenario.Steps[m.stepIndex]
	if step.Trigger != "" {
		pattern := strings.TrimPrefix(step.Trigger, "contains:")
		if !strings.Contains(requestContent, pattern) {
			return nil
		}
	}

	m.stepIndex++
	return step
}

// buildResponseFromStep converts a scenario step to an LLM response.
func (m *MockLLM) buildResponseFromStep(step *ScenarioStep) *model.LLMResponse {
	parts := make([]*genai.Part, 0, 1+len(step.ToolCalls))

	if step.Text != "" {
		parts = append(parts, &genai.Part{Text: step.Text})
	}

	for i, tc := range step.ToolCalls {
		args := tc.Args
		if args == nil {
			args = make(map[string]interface{})
		}
		parts = append(parts, &genai.Part{
			FunctionCall: &genai.FunctionCall{
				ID:   mockCallID(i),
				Name: tc.Name,
				Args: args,
			},
		})
	}

	return &model.LLMResponse{
		Content: &genai.Content{
			Parts: parts,
			Role:  "model",
		},
		FinishReason:  genai.FinishReasonStop,
		TurnComplete:  true,
		UsageMetadata: mockUsage(len(parts)*50, len(step.Text)/4),
	}
}

func mockCallID(i int) string {
	return "mock_call_" + string(rune('0'+i%10))
}

func mockUsage(input, output int) *genai.GenerateContentResponseUsageMetadata {
	// Mock estimates, always bounded well inside int32.
	// #nosec G115
	return &genai.GenerateContentResponseUsageMetadata{
		PromptTokenCount:     int32(input),
		CandidatesTokenCount: int32(output),
		TotalTokenCount:      int32(input + output),
	}
}

// extractRequestContent concatenates the text parts of the request for
// trigger matching.
func extractRequestContent(req *model.LLMRequest) string {
	if req == nil {
		return ""
	}

	var sb strings.Builder
	for _, content := range req.Contents {
		if content == nil {
			continue
		}
		for _, part := range content.Parts {
			if part == nil {
				continue
			}
			if part.Text != "" {
				sb.WriteString(part.Text)
				sb.WriteString("\n")
			}
			if part.FunctionResponse != nil {
				sb.WriteString("tool_result:")
				sb.WriteString(part.FunctionResponse.Name)
				sb.WriteString("\n")
			}
		}
	}
	return sb.String()
}

// Ensure MockLLM implements model.LLM at compile time.
var _ model.LLM = (*MockLLM)(nil)
