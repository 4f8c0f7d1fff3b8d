package risk

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"go.opentelemetry.io/otel/trace"
)

const advisorSystemPrompt = `You are a risk manager for an equity trading desk.
Evaluate the proposed trade against these rules: stop-loss 5% below entry,
maximum 10% capital exposure per position, diversify across sectors.
Reply with a single JSON object and nothing else:
{"approved": bool, "quantity": int, "reason": string}`

// LLMClient abstracts the OpenAI chat completions API for testability.
type LLMClient interface {
	CreateChatCompletion(ctx context.Context, params openai.ChatCompletionNewParams) (*openai.ChatCompletion, error)
}

// LLMAdvisor proposes risk decisions via a chat completion. It is
// advisory input only; callers fall back to rules when it fails.
type LLMAdvisor struct {
	tracer trace.Tracer
	llm    LLMClient
	model  string
}

func NewLLMAdvisor(tracer trace.Tracer, llm LLMClient, model string) *LLMAdvisor {
	return &LLMAdvisor{tracer: tracer, llm: llm, model: model}
}

func (a *LLMAdvisor) Propose(ctx context.Context, summary string) (*Proposal, error) {
	ctx, span := a.tracer.Start(ctx, "risk.advisor-propose")
	defer span.End()

	completion, err := a.llm.CreateChatCompletion(ctx, openai.ChatCompletionNewParams{
		Model: a.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(advisorSystemPrompt),
			openai.UserMessage(summary),
		},
	})
	if err != nil {
		return nil, err
	}
	if len(completion.Choices) == 0 {
		return nil, fmt.Errorf("no choices in LLM response")
	}

	return ParseProposal(completion.Choices[0].Message.Content)
}

// ParseProposal decodes the advisor's reply. Replies wrapped in markdown
// code fences are unwrapped first.
func ParseProposal(reply string) (*Proposal, error) {
	reply = strings.TrimSpace(reply)
	if after, ok := strings.CutPrefix(reply, "```json"); ok {
		reply = after
	} else if after, ok := strings.CutPrefix(reply, "```"); ok {
		reply = after
	}
	reply = strings.TrimSuffix(strings.TrimSpace(reply), "```")
	reply = strings.TrimSpace(reply)

	var proposal Proposal
	if err := json.Unmarshal([]byte(reply), &proposal); err != nil {
		return nil, fmt.Errorf("parse advisor reply: %w", err)
	}
	if proposal.Reason == "" {
		return nil, fmt.Errorf("advisor reply missing reason")
	}
	if proposal.Quantity < 0 {
		return nil, fmt.Errorf("advisor reply has negative quantity")
	}
	return &proposal, nil
}

// openaiClient wraps the official SDK's chat completions service.
type openaiClient struct {
	client openai.Client
}

func NewOpenAIClient(apiKey string) LLMClient {
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &openaiClient{client: client}
}

func (c *openaiClient) CreateChatCompletion(
	ctx context.Context,
	params openai.ChatCompletionNewParams,
) (*openai.ChatCompletion, error) {
	return c.client.Chat.Completions.New(ctx, params)
}
