package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"

	"stock-analysis/config"
	"stock-analysis/observability"
)

// bedrockInvoker is the slice of the Bedrock runtime client the service
// uses. Tests substitute a scripted implementation.
type bedrockInvoker interface {
	InvokeModel(ctx context.Context, params *bedrockruntime.InvokeModelInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error)
}

// BedrockService implements ChatModel on AWS Bedrock Claude models
type BedrockService struct {
	client           bedrockInvoker
	model            string
	anthropicVersion string
	maxTokens        int
}

// claudeRequest is the Anthropic messages request body for Bedrock
type claudeRequest struct {
	AnthropicVersion string          `json:"anthropic_version"`
	MaxTokens        int             `json:"max_tokens"`
	System           string          `json:"system,omitempty"`
	Messages         []claudeMessage `json:"messages"`
	Tools            []claudeTool    `json:"tools,omitempty"`
}

// claudeMessage carries a list of content blocks. Claude interleaves
// text, tool_use and tool_result blocks inside a single message.
type claudeMessage struct {
	Role    string        `json:"role"`
	Content []claudeBlock `json:"content"`
}

type claudeBlock struct {
	Type string `json:"type"`

	// text blocks
	Text string `json:"text,omitempty"`

	// tool_use blocks
	ID    string          `json:"id,omitempty"`
	Name  string          `json:"name,omitempty"`
	Input json.RawMessage `json:"input,omitempty"`

	// tool_result blocks
	ToolUseID string `json:"tool_use_id,omitempty"`
	Content   string `json:"content,omitempty"`
}

type claudeTool struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"input_schema"`
}

// claudeResponse is the Anthropic messages response body
type claudeResponse struct {
	ID         string        `json:"id"`
	Role       string        `json:"role"`
	Content    []claudeBlock `json:"content"`
	StopReason string        `json:"stop_reason"`
	Usage      struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
}

// NewBedrockService creates a Bedrock-backed chat model from config.
// Credentials come from the default AWS chain.
func NewBedrockService(ctx context.Context, cfg *config.Config) (*BedrockService, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Bedrock.Region))
	if err != nil {
		return nil, fmt.Errorf("unable to load AWS SDK config: %w", err)
	}

	return &BedrockService{
		client:           bedrockruntime.NewFromConfig(awsCfg),
		model:            cfg.Bedrock.ModelID,
		anthropicVersion: cfg.Bedrock.AnthropicVersion,
		maxTokens:        cfg.Bedrock.MaxTokens,
	}, nil
}

// Name identifies the provider for logging and breaker metrics
func (s *BedrockService) Name() string {
	return "bedrock"
}

// Complete sends one messages request with the given tools and returns
// the assistant turn. The call runs through the provider circuit
// breaker.
func (s *BedrockService) Complete(ctx context.Context, system string, messages []AgentMessage, tools []ToolDefinition) (*ModelTurn, error) {
	request := claudeRequest{
		AnthropicVersion: s.anthropicVersion,
		MaxTokens:        s.maxTokens,
		System:           system,
		Messages:         buildClaudeMessages(messages),
	}
	for _, tool := range tools {
		request.Tools = append(request.Tools, claudeTool{
			Name:        tool.Name,
			Description: tool.Description,
			InputSchema: tool.Parameters,
		})
	}

	reqBody, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	start := time.Now()
	output, err := WithCircuitBreaker(ctx, BreakerBedrock, func() (*bedrockruntime.InvokeModelOutput, error) {
		return s.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
			ModelId:     aws.String(s.model),
			Body:        reqBody,
			ContentType: aws.String("application/json"),
		})
	})
	if err != nil {
		observability.Error("bedrock invocation failed",
			"model", s.model,
			"error", err,
			"duration_ms", time.Since(start).Milliseconds())
		return nil, fmt.Errorf("bedrock: %s", categorizeAPIError(err))
	}

	var response claudeResponse
	if err := json.Unmarshal(output.Body, &response); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if len(response.Content) == 0 {
		return nil, errors.New("bedrock: empty response from model")
	}

	turn := &ModelTurn{}
	for _, block := range response.Content {
		switch block.Type {
		case "text":
			if turn.Text != "" {
				turn.Text += "\n"
			}
			turn.Text += block.Text
		case "tool_use":
			turn.ToolCalls = append(turn.ToolCalls, ToolCall{
				ID:        block.ID,
				Name:      block.Name,
				Arguments: string(block.Input),
			})
		}
	}

	observability.Debug("bedrock completion",
		"model", s.model,
		"stop_reason", response.StopReason,
		"tool_calls", len(turn.ToolCalls),
		"duration_ms", time.Since(start).Milliseconds())

	return turn, nil
}

// buildClaudeMessages translates the neutral history into Anthropic
// content blocks. Tool results become user messages carrying
// tool_result blocks, matching the messages API contract.
func buildClaudeMessages(messages []AgentMessage) []claudeMessage {
	out := make([]claudeMessage, 0, len(messages))
	for _, msg := range messages {
		switch msg.Role {
		case RoleAssistant:
			blocks := []claudeBlock{}
			if msg.Content != "" {
				blocks = append(blocks, claudeBlock{Type: "text", Text: msg.Content})
			}
			for _, call := range msg.ToolCalls {
				input := call.Arguments
				if input == "" {
					input = "{}"
				}
				blocks = append(blocks, claudeBlock{
					Type:  "tool_use",
					ID:    call.ID,
					Name:  call.Name,
					Input: json.RawMessage(input),
				})
			}
			out = append(out, claudeMessage{Role: "assistant", Content: blocks})
		case RoleTool:
			out = append(out, claudeMessage{Role: "user", Content: []claudeBlock{{
				Type:      "tool_result",
				ToolUseID: msg.ToolCallID,
				Content:   msg.Content,
			}}})
		default:
			out = append(out, claudeMessage{Role: "user", Content: []claudeBlock{{
				Type: "text",
				Text: msg.Content,
			}}})
		}
	}
	return out
}
