package embedded

import (
	"context"
	"strings"

	"github.com/jmorganca/ollama/api"
	"github.com/rs/zerolog/log"

	"github.com/go-go-golems/marionette/pkg/conversation"
	"github.com/go-go-golems/marionette/pkg/responder"
)

// Strategy is the in-process model runtime backend. The runtime must have
// completed its explicit initialization step before use; a cold runtime is
// a recoverable error that the dispatcher handles with a pattern fallback.
type Strategy struct {
	runtime      *Runtime
	persona      string
	historyTurns int
	deriver      *responder.AnimationDeriver
}

var _ responder.Strategy = (*Strategy)(nil)

type Option func(*Strategy)

func WithPersona(persona string) Option {
	return func(s *Strategy) {
		s.persona = persona
	}
}

func WithHistoryTurns(n int) Option {
	return func(s *Strategy) {
		if n > 0 {
			s.historyTurns = n
		}
	}
}

func WithDeriver(deriver *responder.AnimationDeriver) Option {
	return func(s *Strategy) {
		s.deriver = deriver
	}
}

func NewStrategy(runtime *Runtime, options ...Option) *Strategy {
	ret := &Strategy{
		runtime:      runtime,
		persona:      responder.DefaultPersona,
		historyTurns: responder.DefaultHistoryTurns,
		deriver:      responder.NewAnimationDeriver(),
	}
	for _, option := range options {
		option(ret)
	}
	return ret
}

func (s *Strategy) Name() string {
	return "embedded"
}

func (s *Strategy) Respond(
	ctx context.Context,
	userMessage string,
	history conversation.Conversation,
) (*responder.Result, error) {
	if !s.runtime.Ready() {
		return nil, ErrNotInitialized
	}

	messages := responder.BuildMessages(s.persona, history, userMessage, s.historyTurns)

	text, err := s.runtime.Chat(ctx, makeAPIMessages(messages))
	if err != nil {
		return nil, err
	}

	text = strings.TrimSpace(text)
	log.Debug().Int("response_length", len(text)).Msg("embedded runtime completion finished")

	return &responder.Result{
		Text:      text,
		Animation: s.deriver.Derive(text),
	}, nil
}

func makeAPIMessages(messages conversation.Conversation) []api.Message {
	ret := make([]api.Message, 0, len(messages))
	for _, msg := range messages {
		ret = append(ret, api.Message{
			Role:    string(msg.Role),
			Content: msg.Text,
		})
	}
	return ret
}
