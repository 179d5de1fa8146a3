//go:build !integration

package usecase_test

import (
	"context"
	"errors"
	"testing"

	"tutoring-platform/internal/domain"
	"tutoring-platform/internal/domain/ports/adapter"
	"tutoring-platform/internal/usecase"
)

func TestChatUseCase_Reply(t *testing.T) {
	ctx := context.Background()

	t.Run("prepends the system prompt", func(t *testing.T) {
		assistant := &MockAssistant{}
		uc := usecase.NewChatUseCase(assistant, newTestLogger())

		reply, err := uc.Reply(ctx, []adapter.Message{{Role: "user", Content: "how long is a class?"}})
		if err != nil {
			t.Fatalf("expected no error, but got: %v", err)
		}
		if reply != "mock reply" {
			t.Errorf("unexpected reply %q", reply)
		}
		prompt := assistant.Prompts[0]
		if prompt[0].Role != "system" {
			t.Error("first message must be the system prompt")
		}
		if prompt[len(prompt)-1].Content != "how long is a class?" {
			t.Error("user message must follow the system prompt")
		}
	})

	t.Run("caps forwarded history", func(t *testing.T) {
		assistant := &MockAssistant{}
		uc := usecase.NewChatUseCase(assistant, newTestLogger())

		var history []adapter.Message
		for i := 0; i < 25; i++ {
			history = append(history, adapter.Message{Role: "user", Content: "msg"})
		}
		if _, err := uc.Reply(ctx, history); err != nil {
			t.Fatalf("reply: %v", err)
		}
		// system prompt + last 10
		if got := len(assistant.Prompts[0]); got != 11 {
			t.Errorf("expected 11 forwarded messages, got %d", got)
		}
	})

	t.Run("degrades to fallback text when the assistant fails", func(t *testing.T) {
		assistant := &MockAssistant{
			ReplyFunc: func(ctx context.Context, messages []adapter.Message) (string, error) {
				return "", errors.New("upstream down")
			},
		}
		uc := usecase.NewChatUseCase(assistant, newTestLogger())

		reply, err := uc.Reply(ctx, []adapter.Message{{Role: "user", Content: "hi"}})
		if err != nil {
			t.Fatalf("the chat widget must not surface upstream errors, got: %v", err)
		}
		if reply == "" {
			t.Error("expected a canned fallback reply")
		}
	})

	t.Run("rejects empty history", func(t *testing.T) {
		uc := usecase.NewChatUseCase(&MockAssistant{}, newTestLogger())
		if _, err := uc.Reply(ctx, nil); !errors.Is(err, domain.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})
}
