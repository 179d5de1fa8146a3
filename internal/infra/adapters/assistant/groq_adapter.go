package assistant

import (
	"context"
	"errors"
	"strings"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"

	"tutoring-platform/internal/domain/ports/adapter"
)

// Compile-time assurance this adapter satisfies the port
var _ adapter.AssistantAdapter = (*GroqAdapter)(nil)

// GroqAdapter implements adapter.AssistantAdapter against Groq's
// OpenAI-compatible chat completions endpoint.
type GroqAdapter struct {
	client openai.Client
	model  string
}

func NewGroqAdapter(apiKey, baseURL, model string) (*GroqAdapter, error) {
	if apiKey == "" {
		return nil, errors.New("groq api key empty")
	}
	if baseURL == "" {
		baseURL = "https://api.groq.com/openai/v1"
	}
	if model == "" {
		model = "llama-3.1-8b-instant"
	}
	client := openai.NewClient(
		option.WithAPIKey(apiKey),
		option.WithBaseURL(strings.TrimRight(baseURL, "/")),
	)
	return &GroqAdapter{client: client, model: model}, nil
}

func (g *GroqAdapter) Name() string { return "groq" }

func (g *GroqAdapter) Reply(ctx context.Context, messages []adapter.Message) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(g.model),
		Messages: make([]openai.ChatCompletionMessageParamUnion, 0, len(messages)),
	}
	for _, m := range messages {
		switch strings.ToLower(m.Role) {
		case "system":
			params.Messages = append(params.Messages, openai.SystemMessage(m.Content))
		case "assistant":
			params.Messages = append(params.Messages, openai.AssistantMessage(m.Content))
		default:
			params.Messages = append(params.Messages, openai.UserMessage(m.Content))
		}
	}

	resp, err := g.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", err
	}
	for _, c := range resp.Choices {
		if c.Message.Content != "" {
			return c.Message.Content, nil
		}
	}
	return "", errors.New("no choice content")
}
