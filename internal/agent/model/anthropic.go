// Package model provides LLM adapters for the ADK multi-agent system.
package model

import (
	"context"
	"encoding/json"
	"fmt"
	"iter"
	"strings"

	"google.golang.org/adk/model"
	"google.golang.org/genai"

	"github.com/YogaBharath-R/ITSM-Agent/internal/agent/provider"
)

// AnthropicLLM implements the ADK model.LLM interface by wrapping
// the Anthropic provider.
type AnthropicLLM struct {
	provider *provider.AnthropicProvider
}

// NewAnthropicLLM creates a new AnthropicLLM adapter.
// If cfg is nil, default configuration is used.
func NewAnthropicLLM(cfg *provider.Config) (*AnthropicLLM, error) {
	c := provider.DefaultConfig()
	if cfg != nil {
		c = *cfg
	}

	p, err := provider.NewAnthropicProvider(c)
	if err != nil {
		return nil, fmt.Errorf("failed to create anthropic provider: %w", err)
	}

	return &AnthropicLLM{provider: p}, nil
}

// NewAnthropicLLMWithKey creates a new AnthropicLLM adapter with an explicit API key.
func NewAnthropicLLMWithKey(apiKey string, cfg *provider.Config) (*AnthropicLLM, error) {
	c := provider.DefaultConfig()
	if cfg != nil {
		c = *cfg
	}

	p, err := provider.NewAnthropicProviderWithKey(apiKey, c)
	if err != nil {
		return nil, fmt.Errorf("failed to create anthropic provider: %w", err)
	}

	return &AnthropicLLM{provider: p}, nil
}

// Name returns the model identifier.
func (a *AnthropicLLM) Name() string {
	return a.provider.Model()
}

// GenerateContent implements model.LLM.GenerateContent.
// It converts the ADK request format to the provider format, calls the
// provider, and converts the response back.
func (a *AnthropicLLM) GenerateContent(ctx context.Context, req *model.LLMRequest, stream bool) iter.Seq2[*model.LLMResponse, error] {
	return func(yield func(*model.LLMResponse, error) bool) {
		systemPrompt := extractSystemPrompt(req.Config)
		messages := convertContentsToMessages(req.Contents)
		tools := convertToolsFromADK(req.Config)

		// Non-streaming provider call; the ADK runner surfaces the single
		// response as one event either way.
		resp, err := a.provider.Chat(ctx, systemPrompt, messages, tools)
		if err != nil {
			yield(nil, fmt.Errorf("anthropic chat failed: %w", err))
			return
		}

		yield(convertResponseToLLMResponse(resp), nil)
	}
}

// extractSystemPrompt extracts the system instruction from the config.
func extractSystemPrompt(cfg *genai.GenerateContentConfig) string {
	if cfg == nil || cfg.SystemInstruction == nil {
		return ""
	}

	var parts []string
	for _, part := range cfg.SystemInstruction.Parts {
		if part.Text != "" {
			parts = append(parts, part.Text)
		}
	}

	return strings.Join(parts, "\n")
}

// convertContentsToMessages converts genai.Content slice to provider.Message slice.
func convertContentsToMessages(contents []*genai.Content) []provider.Message {
	var messages []provider.Message

	for _, content := range contents {
		if content == nil {
			continue
		}

		msg := provider.Message{}

		switch content.Role {
		case "user":
			msg.Role = provider.RoleUser
		case "model":
			msg.Role = provider.RoleAssistant
		default:
			msg.Role = provider.RoleUser
		}

		for _, part := range content.Parts {
			if part == nil {
				continue
			}

			if part.Text != "" {
				if msg.Content != "" {
					msg.Content += "\n"
				}
				msg.Content += part.Text
			}

			if part.FunctionCall != nil {
				toolUse := provider.ToolUseBlock{
					ID:   part.FunctionCall.ID,
					Name: part.FunctionCall.Name,
				}
				if part.FunctionCall.Args != nil {
					if argsJSON, err := json.Marshal(part.FunctionCall.Args); err == nil {
						toolUse.Input = argsJSON
					}
				}
				msg.ToolUse = append(msg.ToolUse, toolUse)
			}

			if part.FunctionResponse != nil {
				responseStr := ""
				if part.FunctionResponse.Response != nil {
					if respJSON, err := json.Marshal(part.FunctionResponse.Response); err == nil {
						responseStr = string(respJSON)
					}
				}
				msg.ToolResult = append(msg.ToolResult, provider.ToolResultBlock{
					ToolUseID: part.FunctionResponse.ID,
					Content:   responseStr,
					IsError:   false,
				})
			}
		}

		if msg.Content != "" || len(msg.ToolUse) > 0 || len(msg.ToolResult) > 0 {
			messages = append(messages, msg)
		}
	}

	return messages
}

// convertToolsFromADK converts ADK tool configuration to provider.ToolDefinition slice.
// The delegation transfer tools ADK generates for sub-agents pass through here.
func convertToolsFromADK(cfg *genai.GenerateContentConfig) []provider.ToolDefinition {
	if cfg == nil || len(cfg.Tools) == 0 {
		return nil
	}

	var tools []provider.ToolDefinition

	for _, tool := range cfg.Tools {
		if tool == nil || len(tool.FunctionDeclarations) == 0 {
			continue
		}

		for _, fn := range tool.FunctionDeclarations {
			if fn == nil {
				continue
			}

			tools = append(tools, provider.ToolDefinition{
				Name:        fn.Name,
				Description: fn.Description,
				InputSchema: convertSchemaToMap(fn.Parameters, fn.ParametersJsonSchema),
			})
		}
	}

	return tools
}

// convertSchemaToMap converts a genai.Schema or raw JSON schema to a map.
func convertSchemaToMap(schema *genai.Schema, jsonSchema any) map[string]interface{} {
	if jsonSchema != nil {
		if m, ok := jsonSchema.(map[string]interface{}); ok {
			return m
		}
		if data, err := json.Marshal(jsonSchema); err == nil {
			var m map[string]interface{}
			if json.Unmarshal(data, &m) == nil {
				return m
			}
		}
	}

	if schema == nil {
		return map[string]interface{}{
			"type":       "object",
			"properties": map[string]interface{}{},
		}
	}

	result := make(map[string]interface{})

	if schema.Type != "" {
		result["type"] = schemaTypeToString(schema.Type)
	} else {
		result["type"] = "object"
	}

	if schema.Description != "" {
		result["description"] = schema.Description
	}

	if len(schema.Properties) > 0 {
		props := make(map[string]interface{})
		for name, propSchema := range schema.Properties {
			props[name] = convertSchemaToMap(propSchema, nil)
		}
		result["properties"] = props
	}

	if len(schema.Required) > 0 {
		result["required"] = schema.Required
	}

	if schema.Items != nil {
		result["items"] = convertSchemaToMap(schema.Items, nil)
	}

	if len(schema.Enum) > 0 {
		result["enum"] = schema.Enum
	}

	return result
}

// schemaTypeToString converts genai.Type to a JSON Schema type string.
func schemaTypeToString(t genai.Type) string {
	switch t {
	case genai.TypeString:
		return "string"
	case genai.TypeNumber:
		return "number"
	case genai.TypeInteger:
		return "integer"
	case genai.TypeBoolean:
		return "boolean"
	case genai.TypeArray:
		return "array"
	case genai.TypeObject:
		return "object"
	default:
		return "object"
	}
}

// convertResponseToLLMResponse converts a provider.Response to model.LLMResponse.
func convertResponseToLLMResponse(resp *provider.Response) *model.LLMResponse {
	if resp == nil {
		return &model.LLMResponse{}
	}

	parts := make([]*genai.Part, 0, 1+len(resp.ToolCalls))

	if resp.Content != "" {
		parts = append(parts, &genai.Part{
			Text: resp.Content,
		})
	}

	for _, toolCall := range resp.ToolCalls {
		var args map[string]any
		if toolCall.Input != nil {
			_ = json.Unmarshal(toolCall.Input, &args)
		}

		parts = append(parts, &genai.Part{
			FunctionCall: &genai.FunctionCall{
				ID:   toolCall.ID,
				Name: toolCall.Name,
				Args: args,
			},
		})
	}

	var finishReason genai.FinishReason
	switch resp.StopReason {
	case provider.StopReasonMaxTokens:
		finishReason = genai.FinishReasonMaxTokens
	case provider.StopReasonError:
		finishReason = genai.FinishReasonOther
	default:
		finishReason = genai.FinishReasonStop
	}

	return &model.LLMResponse{
		Content: &genai.Content{
			Parts: parts,
			Role:  "model",
		},
		FinishReason: finishReason,
		TurnComplete: true,
		UsageMetadata: &genai.GenerateContentResponseUsageMetadata{
			// Token counts are bounded by the model context window and fit in int32.
			// #nosec G115
			PromptTokenCount: int32(resp.Usage.InputTokens),
			// #nosec G115
			CandidatesTokenCount: int32(resp.Usage.OutputTokens),
			// #nosec G115
			TotalTokenCount: int32(resp.Usage.InputTokens + resp.Usage.OutputTokens),
		},
	}
}

// Ensure AnthropicLLM implements model.LLM at compile time.
var _ model.LLM = (*AnthropicLLM)(nil)
