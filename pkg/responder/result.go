package responder

import (
	"context"

	"github.com/go-go-golems/marionette/pkg/actions"
	"github.com/go-go-golems/marionette/pkg/conversation"
)

// Expression is a facial expression suggestion attached to a response.
type Expression struct {
	Name   string  `json:"name"`
	Weight float64 `json:"weight"`
}

// Result is the normalized output of any response strategy: the reply text,
// an optional emote suggestion, and an optional expression.
type Result struct {
	Text       string       `json:"text"`
	Animation  actions.Name `json:"animation,omitempty"`
	Expression *Expression  `json:"expression,omitempty"`
}

// Strategy turns user text plus rolling history into a Result. Strategies
// are interchangeable; the dispatcher routes to whichever one is selected
// and falls back to the pattern strategy on any failure.
type Strategy interface {
	Name() string
	Respond(ctx context.Context, userMessage string, history conversation.Conversation) (*Result, error)
}
