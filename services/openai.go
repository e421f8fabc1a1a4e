package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
	"github.com/openai/openai-go/v2/packages/param"
	"github.com/openai/openai-go/v2/shared/constant"

	"stock-analysis/config"
	"stock-analysis/observability"
)

// openaiBackend is the slice of the OpenAI client the service uses.
// Tests substitute a scripted implementation.
type openaiBackend interface {
	newCompletion(ctx context.Context, params openai.ChatCompletionNewParams) (*openai.ChatCompletion, error)
}

type openaiClient struct {
	client openai.Client
}

func (c *openaiClient) newCompletion(ctx context.Context, params openai.ChatCompletionNewParams) (*openai.ChatCompletion, error) {
	return c.client.Chat.Completions.New(ctx, params)
}

// OpenAIService implements ChatModel on the OpenAI chat completions API
type OpenAIService struct {
	backend   openaiBackend
	model     string
	maxTokens int
}

// NewOpenAIService creates an OpenAI-backed chat model from config
func NewOpenAIService(cfg *config.Config) (*OpenAIService, error) {
	if !cfg.HasOpenAI() {
		return nil, errors.New("OPENAI_API_KEY is not set")
	}

	client := openai.NewClient(option.WithAPIKey(cfg.OpenAI.APIKey))

	return &OpenAIService{
		backend:   &openaiClient{client: client},
		model:     cfg.OpenAI.Model,
		maxTokens: cfg.OpenAI.MaxTokens,
	}, nil
}

// Name identifies the provider for logging and breaker metrics
func (s *OpenAIService) Name() string {
	return "openai"
}

// Complete sends one chat completion request with the given tools and
// returns the assistant turn. The call runs through the provider
// circuit breaker.
func (s *OpenAIService) Complete(ctx context.Context, system string, messages []AgentMessage, tools []ToolDefinition) (*ModelTurn, error) {
	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(s.model),
		Messages: buildOpenAIMessages(system, messages),
	}
	if s.maxTokens > 0 {
		params.MaxTokens = openai.Int(int64(s.maxTokens))
	}
	for _, tool := range tools {
		params.Tools = append(params.Tools, openai.ChatCompletionFunctionTool(openai.FunctionDefinitionParam{
			Name:        tool.Name,
			Description: param.NewOpt(tool.Description),
			Parameters:  openai.FunctionParameters(tool.Parameters),
		}))
	}

	start := time.Now()
	completion, err := WithCircuitBreaker(ctx, BreakerOpenAI, func() (*openai.ChatCompletion, error) {
		return s.backend.newCompletion(ctx, params)
	})
	if err != nil {
		observability.Error("openai completion failed",
			"model", s.model,
			"error", err,
			"duration_ms", time.Since(start).Milliseconds())
		return nil, fmt.Errorf("openai: %s", categorizeAPIError(err))
	}

	if len(completion.Choices) == 0 {
		return nil, errors.New("openai: no choices in response")
	}

	message := completion.Choices[0].Message
	turn := &ModelTurn{Text: message.Content}
	for _, call := range message.ToolCalls {
		turn.ToolCalls = append(turn.ToolCalls, ToolCall{
			ID:        call.ID,
			Name:      call.Function.Name,
			Arguments: call.Function.Arguments,
		})
	}

	observability.Debug("openai completion",
		"model", s.model,
		"tool_calls", len(turn.ToolCalls),
		"duration_ms", time.Since(start).Milliseconds())

	return turn, nil
}

// buildOpenAIMessages translates the neutral history into the wire
// format. Assistant turns with tool calls and the matching tool
// results must round-trip exactly or the API rejects the history.
func buildOpenAIMessages(system string, messages []AgentMessage) []openai.ChatCompletionMessageParamUnion {
	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages)+1)
	if system != "" {
		out = append(out, openai.SystemMessage(system))
	}

	for _, msg := range messages {
		switch msg.Role {
		case RoleAssistant:
			if len(msg.ToolCalls) == 0 {
				out = append(out, openai.AssistantMessage(msg.Content))
				continue
			}
			assistant := openai.ChatCompletionAssistantMessageParam{}
			if msg.Content != "" {
				assistant.Content.OfString = param.NewOpt(msg.Content)
			}
			for _, call := range msg.ToolCalls {
				assistant.ToolCalls = append(assistant.ToolCalls, openai.ChatCompletionMessageToolCallUnionParam{
					OfFunction: &openai.ChatCompletionMessageFunctionToolCallParam{
						ID: call.ID,
						Function: openai.ChatCompletionMessageFunctionToolCallFunctionParam{
							Name:      call.Name,
							Arguments: call.Arguments,
						},
						Type: constant.ValueOf[constant.Function](),
					},
				})
			}
			out = append(out, openai.ChatCompletionMessageParamUnion{OfAssistant: &assistant})
		case RoleTool:
			out = append(out, openai.ToolMessage(msg.Content, msg.ToolCallID))
		default:
			out = append(out, openai.UserMessage(msg.Content))
		}
	}

	return out
}

// categorizeAPIError maps provider errors to short, stable reasons so
// the analysis diagnostics can hint at the likely cause.
func categorizeAPIError(err error) string {
	msg := err.Error()
	lower := strings.ToLower(msg)
	switch {
	case strings.Contains(lower, "401") || strings.Contains(lower, "invalid api key") || strings.Contains(lower, "incorrect api key"):
		return "authentication failed, check the API key"
	case strings.Contains(lower, "429") || strings.Contains(lower, "rate limit"):
		return "rate limit exceeded"
	case strings.Contains(lower, "circuit breaker"):
		return msg
	case strings.Contains(lower, "context deadline exceeded") || strings.Contains(lower, "timeout"):
		return "request timed out"
	default:
		return msg
	}
}
