package adapter

import "context"

// Message mirrors the chat-completions wire shape.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// AssistantAdapter is the hex port for the marketing chat assistant.
type AssistantAdapter interface {
	Name() string
	Reply(ctx context.Context, messages []Message) (string, error)
}
