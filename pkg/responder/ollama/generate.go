package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/go-go-golems/marionette/pkg/conversation"
	"github.com/go-go-golems/marionette/pkg/responder"
)

const (
	DefaultBaseURL = "http://localhost:11434"
	DefaultModel   = "llama2"
)

type generateRequest struct {
	Model   string                 `json:"model"`
	Prompt  string                 `json:"prompt"`
	Stream  bool                   `json:"stream"`
	Options map[string]interface{} `json:"options,omitempty"`
}

type generateResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

// Strategy is the local HTTP generation backend. It builds a single
// freeform prompt (persona preamble plus the trailing history as
// "Human:"/"Assistant:" lines) and POSTs it to a locally running generate
// endpoint. Any transport failure or non-2xx status is a recoverable error
// that the dispatcher turns into a pattern fallback.
type Strategy struct {
	baseURL      string
	model        string
	persona      string
	historyTurns int
	client       *http.Client
	deriver      *responder.AnimationDeriver
}

var _ responder.Strategy = (*Strategy)(nil)

type Option func(*Strategy)

func WithBaseURL(baseURL string) Option {
	return func(s *Strategy) {
		if baseURL != "" {
			s.baseURL = strings.TrimRight(baseURL, "/")
		}
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

func WithHTTPClient(client *http.Client) Option {
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
		baseURL:      DefaultBaseURL,
		model:        DefaultModel,
		persona:      responder.DefaultPersona,
		historyTurns: responder.DefaultHistoryTurns,
		client:       &http.Client{Timeout: 60 * time.Second},
		deriver:      responder.NewAnimationDeriver(),
	}
	for _, option := range options {
		option(ret)
	}
	return ret
}

func (s *Strategy) Name() string {
	return "ollama"
}

func (s *Strategy) Respond(
	ctx context.Context,
	userMessage string,
	history conversation.Conversation,
) (*responder.Result, error) {
	prompt := responder.BuildPrompt(s.persona, history, userMessage, s.historyTurns)

	reqBody := generateRequest{
		Model:  s.model,
		Prompt: prompt,
		Stream: false,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal generate request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/api/generate", bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "generate request failed")
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			log.Warn().Err(err).Msg("failed to close response body")
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, errors.Errorf("unexpected status code %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var genResp generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&genResp); err != nil {
		return nil, errors.Wrap(err, "failed to decode generate response")
	}

	text := strings.TrimSpace(genResp.Response)
	log.Debug().
		Str("model", s.model).
		Int("response_length", len(text)).
		Msg("ollama generate completed")

	return &responder.Result{
		Text:      text,
		Animation: s.deriver.Derive(text),
	}, nil
}
