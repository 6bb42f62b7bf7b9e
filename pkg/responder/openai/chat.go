package openai

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	go_openai "github.com/sashabaranov/go-openai"

	"github.com/go-go-golems/marionette/pkg/conversation"
	"github.com/go-go-golems/marionette/pkg/responder"
)

const DefaultModel = "gpt-3.5-turbo"

// ErrMissingAPIKey is returned before any network call when no credential is
// configured. It is a recoverable configuration error, not a crash.
var ErrMissingAPIKey = errors.New("no API key configured for the hosted chat backend")

// Strategy is the remote hosted-API backend. It builds a structured message
// list (system persona, bounded trailing history, new user turn) and calls
// the chat-completion endpoint.
type Strategy struct {
	apiKey       string
	baseURL      string
	model        string
	persona      string
	historyTurns int
	maxTokens    int
	deriver      *responder.AnimationDeriver

	// overrides the constructed client in tests
	client *go_openai.Client
}

var _ responder.Strategy = (*Strategy)(nil)

type Option func(*Strategy)

func WithAPIKey(apiKey string) Option {
	return func(s *Strategy) {
		s.apiKey = apiKey
	}
}

func WithBaseURL(baseURL string) Option {
	return func(s *Strategy) {
		s.baseURL = baseURL
	}
}

func WithModel(model string) Option {
	return func(s *Strategy) {
		if model != "" {
			s.model = model
		}
	}
}

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

func WithMaxTokens(n int) Option {
	return func(s *Strategy) {
		if n > 0 {
			s.maxTokens = n
		}
	}
}

func WithClient(client *go_openai.Client) Option {
	return func(s *Strategy) {
		s.client = client
	}
}

func WithDeriver(deriver *responder.AnimationDeriver) Option {
	return func(s *Strategy) {
		s.deriver = deriver
	}
}

func NewStrategy(options ...Option) *Strategy {
	ret := &Strategy{
		model:        DefaultModel,
		persona:      responder.DefaultPersona,
		historyTurns: responder.DefaultHistoryTurns,
		maxTokens:    256,
		deriver:      responder.NewAnimationDeriver(),
	}
	for _, option := range options {
		option(ret)
	}
	return ret
}

func (s *Strategy) Name() string {
	return "openai"
}

func (s *Strategy) makeClient() (*go_openai.Client, error) {
	if s.client != nil {
		return s.client, nil
	}
	if s.apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	config := go_openai.DefaultConfig(s.apiKey)
	if s.baseURL != "" {
		config.BaseURL = s.baseURL
	}
	return go_openai.NewClientWithConfig(config), nil
}

func (s *Strategy) Respond(
	ctx context.Context,
	userMessage string,
	history conversation.Conversation,
) (*responder.Result, error) {
	client, err := s.makeClient()
	if err != nil {
		return nil, err
	}

	messages := responder.BuildMessages(s.persona, history, userMessage, s.historyTurns)

	req := go_openai.ChatCompletionRequest{
		Model:     s.model,
		MaxTokens: s.maxTokens,
		Messages:  makeCompletionMessages(messages),
	}

	resp, err := client.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, errors.Wrap(err, "chat completion failed")
	}
	if len(resp.Choices) == 0 {
		return nil, errors.New("chat completion returned no choices")
	}

	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	log.Debug().
		Str("model", s.model).
		Int("response_length", len(text)).
		Msg("hosted chat completion finished")

	return &responder.Result{
		Text:      text,
		Animation: s.deriver.Derive(text),
	}, nil
}

func makeCompletionMessages(messages conversation.Conversation) []go_openai.ChatCompletionMessage {
	ret := make([]go_openai.ChatCompletionMessage, 0, len(messages))
	for _, msg := range messages {
		role := ""
		switch msg.Role {
		case conversation.RoleSystem:
			role = go_openai.ChatMessageRoleSystem
		case conversation.RoleUser:
			role = go_openai.ChatMessageRoleUser
		case conversation.RoleAssistant:
			role = go_openai.ChatMessageRoleAssistant
		default:
			continue
		}
		ret = append(ret, go_openai.ChatCompletionMessage{
			Role:    role,
			Content: msg.Text,
		})
	}
	return ret
}
