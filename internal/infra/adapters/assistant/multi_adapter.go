package assistant

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"tutoring-platform/internal/domain/ports/adapter"
)

var _ adapter.AssistantAdapter = (*MultiAdapter)(nil)

// MultiAdapter tries each backend in order and returns the first non-empty
// reply. The widget tolerates a canned fallback upstream, so backend errors
// are logged and swallowed here.
type MultiAdapter struct {
	backends []adapter.AssistantAdapter
	log      *zerolog.Logger
}

func NewMultiAdapter(log *zerolog.Logger, backends ...adapter.AssistantAdapter) *MultiAdapter {
	return &MultiAdapter{backends: backends, log: log}
}

func (m *MultiAdapter) Name() string { return "multi" }

func (m *MultiAdapter) Reply(ctx context.Context, messages []adapter.Message) (string, error) {
	var lastErr error
	for _, b := range m.backends {
		if b == nil {
			continue
		}
		reply, err := b.Reply(ctx, messages)
		if err != nil {
			lastErr = err
			m.log.Warn().Err(err).Str("backend", b.Name()).Msg("assistant backend failed")
			continue
		}
		if reply != "" {
			return reply, nil
		}
	}
	if lastErr != nil {
		return "", lastErr
	}
	return "", errors.New("no assistant backend available")
}
