package responder

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/go-go-golems/marionette/pkg/conversation"
	"github.com/go-go-golems/marionette/pkg/events"
)

// Dispatcher routes a user message to whichever strategy is currently
// selected and normalizes every outcome into a Result. Selection is
// configuration, not a state machine: Select just swaps the routing target
// for subsequent Dispatch calls.
//
// Dispatch never fails. When the selected strategy returns an error, the
// dispatcher logs the failure as a recoverable event, publishes a fallback
// notice, and transparently returns the pattern strategy's result instead.
type Dispatcher struct {
	mu         sync.RWMutex
	strategies map[string]Strategy
	selected   string
	fallback   Strategy

	publisherManager *events.PublisherManager
	logger           zerolog.Logger
}

type DispatcherOption func(*Dispatcher)

func WithPublisherManager(pm *events.PublisherManager) DispatcherOption {
	return func(d *Dispatcher) {
		d.publisherManager = pm
	}
}

func WithLogger(logger zerolog.Logger) DispatcherOption {
	return func(d *Dispatcher) {
		d.logger = logger
	}
}

func WithStrategies(strategies ...Strategy) DispatcherOption {
	return func(d *Dispatcher) {
		for _, s := range strategies {
			d.strategies[s.Name()] = s
		}
	}
}

// NewDispatcher builds a dispatcher with the given unconditional fallback.
// The fallback must never fail; the pattern strategy satisfies this.
func NewDispatcher(fallback Strategy, options ...DispatcherOption) *Dispatcher {
	ret := &Dispatcher{
		strategies: map[string]Strategy{},
		fallback:   fallback,
		selected:   fallback.Name(),
		logger:     log.Logger,
	}
	ret.strategies[fallback.Name()] = fallback

	for _, option := range options {
		option(ret)
	}

	return ret
}

func (d *Dispatcher) Register(s Strategy) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.strategies[s.Name()] = s
}

// Select routes subsequent Dispatch calls to the named strategy. It takes
// effect on the next dispatch; in-flight calls keep the strategy they
// started with.
func (d *Dispatcher) Select(name string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.strategies[name]; !ok {
		return errors.Errorf("unknown strategy %q", name)
	}
	d.selected = name
	return nil
}

func (d *Dispatcher) Selected() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.selected
}

func (d *Dispatcher) Strategies() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	ret := make([]string, 0, len(d.strategies))
	for name := range d.strategies {
		ret = append(ret, name)
	}
	return ret
}

// Dispatch produces a Result for the user message. It suspends at most once,
// inside the selected strategy's network or runtime call, and never returns
// an error to the caller.
func (d *Dispatcher) Dispatch(ctx context.Context, userMessage string, history conversation.Conversation) *Result {
	d.mu.RLock()
	strategy := d.strategies[d.selected]
	d.mu.RUnlock()
	if strategy == nil {
		strategy = d.fallback
	}

	result, err := strategy.Respond(ctx, userMessage, history)
	if err == nil {
		return result
	}

	d.logger.Warn().
		Err(err).
		Str("strategy", strategy.Name()).
		Msg("strategy failed, falling back to pattern strategy")
	d.publishFallback(strategy.Name(), err)

	result, fallbackErr := d.fallback.Respond(ctx, userMessage, history)
	if fallbackErr != nil {
		// The pattern strategy never fails; guard against a misconfigured
		// fallback anyway.
		d.logger.Error().Err(fallbackErr).Msg("fallback strategy failed")
		return &Result{Text: ""}
	}

	return result
}

func (d *Dispatcher) publishFallback(strategy string, err error) {
	if d.publisherManager == nil {
		return
	}
	d.publisherManager.PublishBlind(&events.EventFallback{
		Event:    events.NewEvent(events.EventTypeFallback),
		Strategy: strategy,
		Reason:   err.Error(),
	})
}
