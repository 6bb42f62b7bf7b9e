package settings

import (
	"github.com/jmorganca/ollama/api"
	"github.com/pkg/errors"

	"github.com/go-go-golems/marionette/pkg/events"
	"github.com/go-go-golems/marionette/pkg/responder"
	"github.com/go-go-golems/marionette/pkg/responder/embedded"
	ollama_strategy "github.com/go-go-golems/marionette/pkg/responder/ollama"
	openai_strategy "github.com/go-go-golems/marionette/pkg/responder/openai"
	"github.com/go-go-golems/marionette/pkg/responder/pattern"
)

// StandardDispatcherFactory builds a dispatcher with every strategy the
// settings describe registered and the configured provider selected. The
// pattern strategy is always registered; it is the unconditional fallback.
type StandardDispatcherFactory struct {
	Settings         *Settings
	PublisherManager *events.PublisherManager
}

// NewDispatcher builds the dispatcher and, for the embedded provider, the
// runtime that still needs a separate Initialize call before first use.
func (f *StandardDispatcherFactory) NewDispatcher() (*responder.Dispatcher, *embedded.Runtime, error) {
	settings_ := f.Settings.Clone()
	if settings_.Chat == nil {
		return nil, nil, errors.New("no chat settings specified")
	}

	deriver := responder.NewAnimationDeriver()

	fallback := pattern.NewStrategy()
	dispatcher := responder.NewDispatcher(fallback,
		responder.WithPublisherManager(f.PublisherManager),
	)

	dispatcher.Register(ollama_strategy.NewStrategy(
		ollama_strategy.WithBaseURL(settings_.Ollama.BaseURL),
		ollama_strategy.WithModel(settings_.Ollama.Model),
		ollama_strategy.WithPersona(settings_.Chat.Persona),
		ollama_strategy.WithHistoryTurns(settings_.Chat.HistoryTurns),
		ollama_strategy.WithDeriver(deriver),
	))

	dispatcher.Register(openai_strategy.NewStrategy(
		openai_strategy.WithAPIKey(settings_.OpenAI.APIKey),
		openai_strategy.WithBaseURL(settings_.OpenAI.BaseURL),
		openai_strategy.WithModel(settings_.OpenAI.Model),
		openai_strategy.WithMaxTokens(settings_.OpenAI.MaxTokens),
		openai_strategy.WithPersona(settings_.Chat.Persona),
		openai_strategy.WithHistoryTurns(settings_.Chat.HistoryTurns),
		openai_strategy.WithDeriver(deriver),
	))

	client, err := api.ClientFromEnvironment()
	if err != nil {
		return nil, nil, errors.Wrap(err, "could not build embedded runtime client")
	}
	model := settings_.Embedded.Model
	if model == "" {
		model = ollama_strategy.DefaultModel
	}
	runtime := embedded.NewRuntime(client, model,
		embedded.WithPublisherManager(f.PublisherManager),
	)
	dispatcher.Register(embedded.NewStrategy(runtime,
		embedded.WithPersona(settings_.Chat.Persona),
		embedded.WithHistoryTurns(settings_.Chat.HistoryTurns),
		embedded.WithDeriver(deriver),
	))

	if settings_.Provider != "" {
		if err := dispatcher.Select(settings_.Provider); err != nil {
			return nil, nil, err
		}
	}

	return dispatcher, runtime, nil
}
