package usecase

import (
	"context"

	"github.com/rs/zerolog"

	"tutoring-platform/internal/domain"
	"tutoring-platform/internal/domain/ports/adapter"
)

// systemPrompt frames the marketing assistant. Kept server-side so clients
// cannot override it.
const systemPrompt = `You are the virtual assistant for a private English teacher. Help website visitors with questions about the lessons.

Key facts:
- Personalized online English lessons over Google Meet, 60 minutes each
- New students get 1 free trial class on sign-up
- Plans: Starter (4 classes/month), Progress (8 classes/month, most popular), Intensive (12 classes/month)
- 80% speaking practice, flexible scheduling Monday to Saturday, classes cancellable up to 24 hours ahead

Answer briefly (2-3 sentences). If unsure, suggest registering for the free class or contacting the teacher directly.`

// fallbackReply is served when no assistant backend is reachable; the chat
// widget degrades to a canned answer rather than an error.
const fallbackReply = "Thanks for your message! Please register for your free trial class or contact us directly and we'll get back to you."

// historyLimit caps how much client-supplied history is forwarded upstream.
const historyLimit = 10

var _ ChatUseCase = (*chatUC)(nil)

type ChatUseCase interface {
	Reply(ctx context.Context, messages []adapter.Message) (string, error)
}

type chatUC struct {
	assistant adapter.AssistantAdapter
	log       *zerolog.Logger
}

func NewChatUseCase(assistant adapter.AssistantAdapter, logger *zerolog.Logger) *chatUC {
	return &chatUC{assistant: assistant, log: logger}
}

func (u *chatUC) Reply(ctx context.Context, messages []adapter.Message) (string, error) {
	if len(messages) == 0 {
		return "", domain.ErrInvalidArgument
	}
	if len(messages) > historyLimit {
		messages = messages[len(messages)-historyLimit:]
	}

	prompt := make([]adapter.Message, 0, len(messages)+1)
	prompt = append(prompt, adapter.Message{Role: "system", Content: systemPrompt})
	prompt = append(prompt, messages...)

	reply, err := u.assistant.Reply(ctx, prompt)
	if err != nil {
		u.log.Warn().Err(err).Str("assistant", u.assistant.Name()).Msg("assistant call failed; serving fallback")
		return fallbackReply, nil
	}
	if reply == "" {
		return fallbackReply, nil
	}
	return reply, nil
}
